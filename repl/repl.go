// Package repl implements an interactive read-eval-print loop.
package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/luthersystems/mceval/pkg/eval"
	"github.com/luthersystems/mceval/pkg/reader"
)

// LineReader reads lines of input.  *readline.Instance implements
// LineReader.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// Option configures a REPL.
type Option func(*Repl)

// WithPrompt overrides the input prompt.
func WithPrompt(prompt string) Option {
	return func(r *Repl) {
		r.Prompt = prompt
	}
}

// WithStats prints evaluation statistics after each value.
func WithStats(on bool) Option {
	return func(r *Repl) {
		r.Stats = on
	}
}

// WithStderr redirects error messages to w instead of the default,
// os.Stderr.
func WithStderr(w io.Writer) Option {
	return func(r *Repl) {
		r.Stderr = w
	}
}

// Repl reads expressions, evaluates them and prints their values.  Errors
// are reported and the loop continues with the next input.
type Repl struct {
	Eval   *eval.Evaluator
	Prompt string
	Stats  bool
	Stdout io.Writer
	Stderr io.Writer
}

// New returns a Repl for ev.  The default prompt names the strategy of ev.
func New(ev *eval.Evaluator, options ...Option) *Repl {
	r := &Repl{
		Eval:   ev,
		Prompt: fmt.Sprintf(";;; %s input: ", evalName(ev)),
		Stdout: ev.Stdout,
		Stderr: os.Stderr,
	}
	for _, fn := range options {
		fn(r)
	}
	return r
}

func evalName(ev *eval.Evaluator) string {
	if ev.Strategy().Name() == (eval.Lazy{}).Name() {
		return "L-Eval"
	}
	return "M-Eval"
}

// RunRepl runs a repl on the terminal.
func RunRepl(ev *eval.Evaluator, options ...Option) error {
	r := New(ev, options...)
	rl, err := readline.New(r.Prompt)
	if err != nil {
		return err
	}
	defer rl.Close()
	return r.Run(rl)
}

// Run reads from lines until it returns io.EOF.
func (r *Repl) Run(lines LineReader) error {
	contPrompt := strings.Repeat(" ", len(r.Prompt)) // prompt had better be ascii...

	var buf string
	for {
		line, err := lines.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			buf = ""
			lines.SetPrompt(r.Prompt)
			continue
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if buf != "" {
			line = buf + "\n" + line
			buf = ""
			lines.SetPrompt(r.Prompt)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		data, err := r.Eval.Read("stdin", strings.NewReader(line))
		if reader.Incomplete(err) {
			buf = line
			lines.SetPrompt(contPrompt)
			continue
		}
		if err != nil {
			r.errln(err)
			continue
		}
		for _, datum := range data {
			v, err := r.Eval.EvalDatum(datum)
			if err != nil {
				r.printError(err)
				break
			}
			fmt.Fprintf(r.Stdout, ";;; %s value: %s\n", evalName(r.Eval), r.Eval.Format(v))
			if r.Stats {
				r.Eval.Stack().FormatStatistics(r.Stderr)
				fmt.Fprintln(r.Stderr)
				r.Eval.Stack().Reset()
			}
		}
	}
}

func (r *Repl) printError(err error) {
	var e *eval.Error
	if errors.As(err, &e) && len(e.Stack) > 0 {
		e.DebugPrint(r.Stderr)
		return
	}
	r.errln(err)
}

func (r *Repl) errln(v ...interface{}) {
	fmt.Fprintln(r.Stderr, v...)
}
