package cmd

import (
	"fmt"
	"os"

	"github.com/luthersystems/mceval/pkg/eval"
	"github.com/spf13/cobra"
)

var (
	rootLazy     bool
	rootMaxDepth int
	rootTrace    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mceval",
	Short: "Eager and lazy metacircular evaluator",
	Long: `A tree-walking evaluator for a small Scheme dialect.  Programs are
evaluated in applicative order by default or in normal order with
memoized arguments (call-by-need) with --lazy.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newEvaluator returns an evaluator configured by the root command's flags.
func newEvaluator(extra ...eval.Option) (*eval.Evaluator, error) {
	var strategy eval.Strategy = eval.Eager{}
	if rootLazy {
		strategy = eval.Lazy{}
	}
	opts := []eval.Option{
		eval.WithStrategy(strategy),
		eval.WithMaxDepth(rootMaxDepth),
		eval.WithTrace(rootTrace),
	}
	ev, err := eval.New(append(opts, extra...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize evaluator: %w", err)
	}
	return ev, nil
}

func errln(v ...interface{}) {
	fmt.Fprintln(os.Stderr, v...)
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&rootLazy, "lazy", false,
		"Evaluate with lazy (call-by-need) argument passing")
	rootCmd.PersistentFlags().IntVar(&rootMaxDepth, "max-depth", 0,
		"Fail when procedure applications nest deeper than this (0 means no limit)")
	rootCmd.PersistentFlags().BoolVar(&rootTrace, "trace", false,
		"Trace procedure applications to stderr")
}
