package main

import (
	"fmt"

	"github.com/kylelemons/godebug/pretty"
	"github.com/spf13/cobra"

	"github.com/lattisworks/vote/render"
)

var (
	mappingsBox   string
	mappingsDebug bool
)

var mappingsCmd = &cobra.Command{
	Use:   "mappings <model>",
	Short: "List every mapping a forall sweep over a box enumerates",
	Args:  cobra.ExactArgs(1),
	RunE:  runMappings,
}

func init() {
	mappingsCmd.Flags().StringVar(&mappingsBox, "box", "", "comma-separated lo,hi pairs, one per input dimension")
	mappingsCmd.Flags().BoolVar(&mappingsDebug, "debug", false, "pretty-print the full mapping structs instead of a summary line")
}

func runMappings(cmd *cobra.Command, args []string) error {
	e, err := loadEnsemble(args[0])
	if err != nil {
		return err
	}
	box, err := parseBox(mappingsBox, e.NIn())
	if err != nil {
		return err
	}

	cells := render.Collect(e, box)
	fmt.Printf("count: %d\n", len(cells))

	if mappingsDebug {
		fmt.Println(pretty.Sprint(cells))
		return nil
	}

	for i, c := range cells {
		fmt.Printf("mapping[%d]: inputs=%v outputs=%v\n", i, c.Inputs, c.Outputs)
	}
	return nil
}
