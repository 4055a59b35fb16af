package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lattisworks/vote/ensemble"
	"github.com/lattisworks/vote/mapping"
	"github.com/lattisworks/vote/outcome"
)

var (
	cardinalityStrategy string
	cardinalityBox      string
)

var cardinalityCmd = &cobra.Command{
	Use:   "cardinality <model>",
	Short: "Count how many mappings a verification call visits, without reporting a verdict",
	Args:  cobra.ExactArgs(1),
	RunE:  runCardinality,
}

func init() {
	cardinalityCmd.Flags().StringVar(&cardinalityStrategy, "strategy", "absref", "absref or forall")
	cardinalityCmd.Flags().StringVar(&cardinalityBox, "box", "", "comma-separated lo,hi pairs, one per input dimension")
}

// runCardinality reproduces src/cardinality.c (SPEC_FULL.md §G.5): a
// refinement-cost metric, not a verdict. It wraps an always-PASS
// predicate in an ensemble.Counter. With --strategy forall the driver
// visits its entire reachable partition and counter.N ends up the
// mapping count; with absref the first abstractor probe already returns
// PASS, so counter.N is 1 and no refinement is counted.
func runCardinality(cmd *cobra.Command, args []string) error {
	e, err := loadEnsemble(args[0])
	if err != nil {
		return err
	}
	box, err := parseBox(cardinalityBox, e.NIn())
	if err != nil {
		return err
	}

	counter := &ensemble.Counter{}
	alwaysPass := func(m *mapping.Mapping) outcome.Outcome { return outcome.PASS }
	predicate := counter.Wrap(alwaysPass)

	switch cardinalityStrategy {
	case "forall":
		ensemble.Forall(e, box, predicate)
	default:
		ensemble.AbsRef(e, box, predicate)
	}

	fmt.Printf("strategy: %s\n", cardinalityStrategy)
	fmt.Printf("mappings_visited: %d\n", counter.N)
	return nil
}
