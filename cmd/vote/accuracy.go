package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lattisworks/vote/bound"
	"github.com/lattisworks/vote/ensemble"
	"github.com/lattisworks/vote/workqueue"
)

var accuracyCmd = &cobra.Command{
	Use:   "accuracy <model> <dataset>",
	Short: "Report classification accuracy of a model over a labeled CSV dataset",
	Args:  cobra.ExactArgs(2),
	RunE:  runAccuracy,
}

func runAccuracy(cmd *cobra.Command, args []string) error {
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

	correct := make([]bool, len(ds.Features))
	wq := workqueue.New()
	for i, x := range ds.Features {
		i, x := i, x
		wq.Schedule(func() {
			out := ensemble.Eval(e, x)
			correct[i] = argmaxIndex(out) == int(ds.Labels[i])
		})
	}
	workqueue.Run(wq, cfg.Workers)

	n := 0
	for _, ok := range correct {
		if ok {
			n++
		}
	}

	fmt.Printf("total: %d\n", len(ds.Features))
	fmt.Printf("correct: %d\n", n)
	fmt.Printf("accuracy: %.6f\n", float64(n)/float64(len(ds.Features)))
	return nil
}

// argmaxIndex returns the index of the largest entry in out, breaking
// ties toward the lowest index.
func argmaxIndex(out []bound.R) int {
	best := 0
	for i, v := range out {
		if v > out[best] {
			best = i
		}
	}
	return best
}
