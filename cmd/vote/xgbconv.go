package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lattisworks/vote/loader"
)

var xgbconvOut string

var xgbconvCmd = &cobra.Command{
	Use:   "xgbconv <model.bin>",
	Short: "Convert a legacy XGBoost binary dump into the native JSON ensemble format",
	Args:  cobra.ExactArgs(1),
	RunE:  runXgbconv,
}

func init() {
	xgbconvCmd.Flags().StringVar(&xgbconvOut, "out", "", "output path (default: stdout)")
}

// runXgbconv reproduces src/xgbconv.c (SPEC_FULL.md §G.1): decode the
// legacy binary dump and re-emit it in the native JSON format, so
// models produced by the legacy toolchain round-trip through every
// other subcommand.
func runXgbconv(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("vote: xgbconv: %w", err)
	}
	defer f.Close()

	e, err := loader.DecodeXGBoost(f)
	if err != nil {
		return fmt.Errorf("vote: xgbconv: decoding %s: %w", args[0], err)
	}

	out := os.Stdout
	if xgbconvOut != "" {
		w, err := os.Create(xgbconvOut)
		if err != nil {
			return fmt.Errorf("vote: xgbconv: %w", err)
		}
		defer w.Close()
		out = w
	}

	if err := loader.EncodeJSON(out, e); err != nil {
		return fmt.Errorf("vote: xgbconv: encoding: %w", err)
	}
	return nil
}
