package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lattisworks/vote/bound"
	"github.com/lattisworks/vote/ensemble"
	"github.com/lattisworks/vote/mapping"
	"github.com/lattisworks/vote/outcome"
)

var (
	rangeBox   string
	rangeExact bool
)

var rangeCmd = &cobra.Command{
	Use:   "range <model>",
	Short: "Report the tightest output box reachable over an input box",
	Args:  cobra.ExactArgs(1),
	RunE:  runRange,
}

func init() {
	rangeCmd.Flags().StringVar(&rangeBox, "box", "", "comma-separated lo,hi pairs, one per input dimension")
	rangeCmd.Flags().BoolVar(&rangeExact, "exact", false, "also compute the exact range via a full forall sweep, not just the abstractor's envelope")
}

func runRange(cmd *cobra.Command, args []string) error {
	e, err := loadEnsemble(args[0])
	if err != nil {
		return err
	}

	box, err := parseBox(rangeBox, e.NIn())
	if err != nil {
		return err
	}

	approx := ensemble.Approximate(e, box)
	for i, o := range approx.Outputs {
		fmt.Printf("approx_output[%d]: [%g, %g]\n", i, o.Lo, o.Hi)
	}

	if rangeExact {
		exact := mapping.New(e.NIn(), e.NOut())
		first := true
		ensemble.Forall(e, box, func(m *mapping.Mapping) outcome.Outcome {
			if first {
				copy(exact.Outputs, m.Outputs)
				first = false
				return outcome.PASS
			}
			joined, err := mapping.Join(m, exact)
			if err != nil {
				panic(err)
			}
			exact.Outputs = joined.Outputs
			return outcome.PASS
		})
		for i, o := range exact.Outputs {
			fmt.Printf("exact_output[%d]: [%g, %g]\n", i, o.Lo, o.Hi)
		}
	}

	return nil
}

// parseBox parses "lo,hi,lo,hi,..." into nIn bound.Bound values. An
// empty spec means unconstrained (every dimension [-Inf,+Inf]).
func parseBox(spec string, nIn int) ([]bound.Bound, error) {
	box := make([]bound.Bound, nIn)
	if spec == "" {
		for i := range box {
			box[i] = bound.Unbounded()
		}
		return box, nil
	}

	parts := strings.Split(spec, ",")
	if len(parts) != 2*nIn {
		return nil, fmt.Errorf("vote: --box expects %d comma-separated values (lo,hi per input), got %d", 2*nIn, len(parts))
	}
	for i := 0; i < nIn; i++ {
		lo, err := strconv.ParseFloat(strings.TrimSpace(parts[2*i]), 64)
		if err != nil {
			return nil, fmt.Errorf("vote: --box: %w", err)
		}
		hi, err := strconv.ParseFloat(strings.TrimSpace(parts[2*i+1]), 64)
		if err != nil {
			return nil, fmt.Errorf("vote: --box: %w", err)
		}
		b, err := bound.New(lo, hi)
		if err != nil {
			return nil, fmt.Errorf("vote: --box: %w", err)
		}
		box[i] = b
	}
	return box, nil
}
