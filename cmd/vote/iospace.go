package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lattisworks/vote/render"
)

var (
	iospaceBox  string
	iospaceOut  string
	iospaceXDim int
	iospaceYDim int
)

var iospaceCmd = &cobra.Command{
	Use:   "iospace <model>",
	Short: "Render the input-space partition a forall sweep produces as SVG",
	Args:  cobra.ExactArgs(1),
	RunE:  runIospace,
}

func init() {
	iospaceCmd.Flags().StringVar(&iospaceBox, "box", "", "comma-separated lo,hi pairs, one per input dimension")
	iospaceCmd.Flags().StringVar(&iospaceOut, "out", "partition.svg", "output SVG path")
	iospaceCmd.Flags().IntVar(&iospaceXDim, "x-dim", 0, "input dimension to plot on the x axis")
	iospaceCmd.Flags().IntVar(&iospaceYDim, "y-dim", 1, "input dimension to plot on the y axis")
}

func runIospace(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}

	e, err := loadEnsemble(args[0])
	if err != nil {
		return err
	}
	box, err := parseBox(iospaceBox, e.NIn())
	if err != nil {
		return err
	}

	opts := render.DefaultOptions()
	opts.XDim, opts.YDim = iospaceXDim, iospaceYDim
	if cfg.Render.Width > 0 {
		opts.Width = cfg.Render.Width
	}
	if cfg.Render.Height > 0 {
		opts.Height = cfg.Render.Height
	}

	cells := render.Collect(e, box)
	svg, err := render.Partition(cells, opts)
	if err != nil {
		return fmt.Errorf("vote: iospace: %w", err)
	}

	if err := os.WriteFile(iospaceOut, svg, 0644); err != nil {
		return fmt.Errorf("vote: iospace: %w", err)
	}

	fmt.Printf("cells: %d\n", len(cells))
	fmt.Printf("out: %s\n", iospaceOut)
	return nil
}
