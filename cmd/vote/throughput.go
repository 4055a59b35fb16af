package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pborman/getopt"
	"github.com/spf13/cobra"

	"github.com/lattisworks/vote/bound"
	"github.com/lattisworks/vote/ensemble"
	"github.com/lattisworks/vote/mapping"
	"github.com/lattisworks/vote/outcome"
	"github.com/lattisworks/vote/workqueue"
)

// throughputCmd deliberately parses its own flags with pborman/getopt
// rather than cobra/pflag: it is a tight benchmarking loop with a small,
// stable flag set, matching openconfig/goyang's yang.go, which reaches
// for getopt over a heavier framework for the same reason. DisableFlagParsing
// stops cobra from touching argv so getopt sees exactly what the user typed.
var throughputCmd = &cobra.Command{
	Use:                "throughput <model> <dataset>",
	Short:              "Benchmark verification calls per second over a dataset",
	DisableFlagParsing: true,
	RunE:               runThroughput,
}

func runThroughput(cmd *cobra.Command, args []string) error {
	var (
		strategy   = "absref"
		epsilonStr = "0.01"
		workers    = 1
		help       bool
	)
	getopt.StringVarLong(&strategy, "strategy", 's', "verification strategy: absref or forall")
	getopt.StringVarLong(&epsilonStr, "epsilon", 'e', "perturbation radius")
	getopt.IntVarLong(&workers, "workers", 'w', "worker pool size")
	getopt.BoolVarLong(&help, "help", '?', "display help")
	getopt.SetParameters("<model> <dataset>")

	// getopt's package-level flag functions parse os.Args; swap it in
	// for the duration of this call so the subcommand's own argv (not
	// the full "vote throughput ..." line) is what gets parsed.
	saved := os.Args
	os.Args = append([]string{"throughput"}, args...)
	parseErr := getopt.Getopt(func(o getopt.Option) bool { return true })
	os.Args = saved
	if parseErr != nil {
		getopt.PrintUsage(os.Stderr)
		return fmt.Errorf("vote: throughput: %w", parseErr)
	}

	if help {
		getopt.CommandLine.PrintUsage(os.Stderr)
		return nil
	}

	positional := getopt.Args()
	if len(positional) != 2 {
		getopt.PrintUsage(os.Stderr)
		return fmt.Errorf("vote: throughput: expected a model path and dataset path")
	}

	epsilon, err := strconv.ParseFloat(epsilonStr, 64)
	if err != nil {
		return fmt.Errorf("vote: throughput: --epsilon: %w", err)
	}

	e, err := loadEnsemble(positional[0])
	if err != nil {
		return err
	}
	ds, err := loadDataset(positional[1])
	if err != nil {
		return err
	}

	start := time.Now()
	wq := workqueue.New()
	for i, x := range ds.Features {
		x, label := x, int(ds.Labels[i])
		wq.Schedule(func() {
			runOneVerification(e, x, epsilon, label, strategy)
		})
	}
	workqueue.Run(wq, workers)
	elapsed := time.Since(start)

	fmt.Printf("strategy: %s\n", strategy)
	fmt.Printf("samples: %d\n", len(ds.Features))
	fmt.Printf("workers: %d\n", workers)
	fmt.Printf("elapsed_seconds: %.6f\n", elapsed.Seconds())
	fmt.Printf("calls_per_second: %.2f\n", float64(len(ds.Features))/elapsed.Seconds())
	return nil
}

func runOneVerification(e *ensemble.Ensemble, x []bound.R, eps float64, label int, strategy string) bool {
	box := make([]bound.Bound, len(x))
	for i, v := range x {
		box[i] = bound.Bound{Lo: v - eps, Hi: v + eps}
	}
	predicate := func(m *mapping.Mapping) outcome.Outcome {
		o, err := mapping.ArgmaxCheck(m, label)
		if err != nil {
			panic(err)
		}
		return o
	}
	if strategy == "forall" {
		return ensemble.Forall(e, box, predicate)
	}
	return ensemble.AbsRef(e, box, predicate)
}
