package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lattisworks/vote/bound"
	"github.com/lattisworks/vote/outcome"
	"github.com/lattisworks/vote/workqueue"
)

var (
	mnistMaxEpsilon float64
	mnistSteps      int
)

var mnistCmd = &cobra.Command{
	Use:   "mnist <model> <dataset>",
	Short: "Binary-search the per-sample robustness radius of an image classifier",
	Args:  cobra.ExactArgs(2),
	RunE:  runMnist,
}

func init() {
	mnistCmd.Flags().Float64Var(&mnistMaxEpsilon, "max-epsilon", 0.1, "largest per-pixel radius to search")
	mnistCmd.Flags().IntVar(&mnistSteps, "steps", 12, "binary search iterations per sample")
}

// runMnist reproduces examples/mnist.c's per-pixel robustness harness
// (SPEC_FULL.md §G.4): for each sample, binary-search the largest
// epsilon for which absref still reports PASS on "true label is
// dominant," treating the search as monotone per testable property #6
// (tightening an interval never turns PASS into FAIL).
func runMnist(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}

	e, err := loadEnsemble(args[0])
	if err != nil {
		return err
	}
	ds, err := loadDataset(args[1])
	if err != nil {
		return err
	}

	radii := make([]float64, len(ds.Features))
	wq := workqueue.New()
	for i, x := range ds.Features {
		i, x, label := i, x, int(ds.Labels[i])
		wq.Schedule(func() {
			radii[i] = maxRobustRadius(func(eps float64) bool {
				return robustEval(e, x, eps, label) == outcome.PASS
			}, mnistMaxEpsilon, mnistSteps)
		})
	}
	workqueue.Run(wq, cfg.Workers)

	var sum bound.R
	for _, r := range radii {
		sum += r
	}

	fmt.Printf("samples: %d\n", len(radii))
	fmt.Printf("mean_radius: %.6f\n", sum/bound.R(len(radii)))
	for i, r := range radii {
		fmt.Printf("radius[%d]: %.6f\n", i, r)
	}
	return nil
}

// maxRobustRadius binary-searches [0, max] for the largest epsilon
// where holds(epsilon) is true, assuming holds is monotonically
// non-increasing in epsilon (true at 0, eventually false).
func maxRobustRadius(holds func(eps float64) bool, max float64, steps int) float64 {
	if !holds(0) {
		return 0
	}
	lo, hi := 0.0, max
	for i := 0; i < steps; i++ {
		mid := (lo + hi) / 2
		if holds(mid) {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}
