package main

import (
	"fmt"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/lattisworks/vote/bound"
	"github.com/lattisworks/vote/ensemble"
	"github.com/lattisworks/vote/mapping"
	"github.com/lattisworks/vote/outcome"
	"github.com/lattisworks/vote/workqueue"
)

var robustnessEpsilon float64

var robustnessCmd = &cobra.Command{
	Use:   "robustness <model> <dataset>",
	Short: "Verify each sample's classification holds over an epsilon-ball around it",
	Args:  cobra.ExactArgs(2),
	RunE:  runRobustness,
}

func init() {
	robustnessCmd.Flags().Float64Var(&robustnessEpsilon, "epsilon", 0, "perturbation radius (overrides --config's epsilon)")
}

func runRobustness(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	eps := cfg.Epsilon
	if robustnessEpsilon != 0 {
		eps = robustnessEpsilon
	}

	e, err := loadEnsemble(args[0])
	if err != nil {
		return err
	}
	ds, err := loadDataset(args[1])
	if err != nil {
		return err
	}

	var pass, fail, unsure int64
	wq := workqueue.New()
	for i, x := range ds.Features {
		x, label := x, int(ds.Labels[i])
		wq.Schedule(func() {
			switch robustEval(e, x, eps, label) {
			case outcome.PASS:
				atomic.AddInt64(&pass, 1)
			case outcome.FAIL:
				atomic.AddInt64(&fail, 1)
			default:
				atomic.AddInt64(&unsure, 1)
			}
		})
	}
	workqueue.Run(wq, cfg.Workers)

	fmt.Printf("total: %d\n", len(ds.Features))
	fmt.Printf("epsilon: %g\n", eps)
	fmt.Printf("pass: %d\n", pass)
	fmt.Printf("fail: %d\n", fail)
	fmt.Printf("unsure: %d\n", unsure)
	return nil
}

// robustEval runs absref over the epsilon-ball around x, checking that
// label stays the dominant class throughout. AbsRef only reports a
// bool (PASS or not); to recover the three-valued verdict, the
// predicate itself records which conclusive outcome it actually saw.
func robustEval(e *ensemble.Ensemble, x []bound.R, eps float64, label int) outcome.Outcome {
	box := make([]bound.Bound, len(x))
	for i, v := range x {
		box[i] = bound.Bound{Lo: v - eps, Hi: v + eps}
	}

	seenFail := false
	passed := ensemble.AbsRef(e, box, func(m *mapping.Mapping) outcome.Outcome {
		o, err := mapping.ArgmaxCheck(m, label)
		if err != nil {
			panic(err)
		}
		if o == outcome.FAIL {
			seenFail = true
		}
		return o
	})

	if passed {
		return outcome.PASS
	}
	if seenFail {
		return outcome.FAIL
	}
	return outcome.UNSURE
}
