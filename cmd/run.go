package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/luthersystems/mceval/pkg/eval"
	"github.com/spf13/cobra"
)

var (
	runExpression bool
	runPrint      bool
	runStats      bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [flags] file|expr...",
	Short: "Run lisp code",
	Long:  `Run lisp code provided supplied via the command line or a file.`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sources, err := runReadSources(args)
		if err != nil {
			errln(err)
			os.Exit(1)
		}
		ev, err := newEvaluator()
		if err != nil {
			errln(err)
			os.Exit(1)
		}
		for i := range sources {
			err := runSource(ev, sources[i])
			if err != nil {
				printError(err)
				os.Exit(1)
			}
		}
		if runStats {
			ev.Stack().FormatStatistics(os.Stderr)
			errln()
		}
	},
}

type runSourceText struct {
	name string
	text []byte
}

func runReadSources(args []string) ([]runSourceText, error) {
	sources := make([]runSourceText, len(args))
	if runExpression {
		for i := range args {
			sources[i] = runSourceText{fmt.Sprintf("expr%d", i+1), []byte(args[i])}
		}
		return sources, nil
	}
	for i, path := range args {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		sources[i] = runSourceText{path, b}
	}
	return sources, nil
}

func runSource(ev *eval.Evaluator, src runSourceText) error {
	data, err := ev.Read(src.name, bytes.NewReader(src.text))
	if err != nil {
		return err
	}
	for _, datum := range data {
		v, err := ev.EvalDatum(datum)
		if err != nil {
			return err
		}
		if runPrint {
			fmt.Fprintln(ev.Stdout, ev.Format(v))
		}
	}
	return nil
}

func printError(err error) {
	var e *eval.Error
	if errors.As(err, &e) && len(e.Stack) > 0 {
		e.DebugPrint(os.Stderr)
		return
	}
	errln(err)
}

func init() {
	rootCmd.AddCommand(runCmd)

	// Here flags for the run command are defined
	runCmd.Flags().BoolVarP(&runExpression, "expression", "e", false,
		"Interpret arguments as lisp expressions")
	runCmd.Flags().BoolVarP(&runPrint, "print", "p", false,
		"Print expression values to stdout")
	runCmd.Flags().BoolVar(&runStats, "stats", false,
		"Print evaluation statistics to stderr when finished")
}
