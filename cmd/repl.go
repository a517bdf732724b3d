package cmd

import (
	"os"

	"github.com/luthersystems/mceval/repl"
	"github.com/spf13/cobra"
)

var (
	replPrompt string
	replStats  bool
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive read-eval-print loop",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ev, err := newEvaluator()
		if err != nil {
			errln(err)
			os.Exit(1)
		}
		opts := []repl.Option{repl.WithStats(replStats)}
		if replPrompt != "" {
			opts = append(opts, repl.WithPrompt(replPrompt))
		}
		err = repl.RunRepl(ev, opts...)
		if err != nil {
			errln(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(replCmd)

	replCmd.Flags().StringVar(&replPrompt, "prompt", "",
		"Input prompt (default names the evaluator)")
	replCmd.Flags().BoolVar(&replStats, "stats", false,
		"Print evaluation statistics after each value")
}
