package eval

import (
	"fmt"
	"io"

	"github.com/luthersystems/mceval/pkg/environ"
	"github.com/luthersystems/mceval/pkg/symbol"
	"github.com/luthersystems/mceval/pkg/syntax"
)

// Option is a function that configures a new Evaluator.
type Option func(*Evaluator) error

// WithStrategy selects the evaluation strategy.  The default is Eager.
func WithStrategy(s Strategy) Option {
	return func(ev *Evaluator) error {
		if s == nil {
			return fmt.Errorf("nil strategy")
		}
		ev.strategy = s
		return nil
	}
}

// WithSymbols makes the evaluator intern symbols in table.  The table must
// be derived from symbol.DefaultGlobalTable (see symbol.CopyGlobalTable) so
// that special form tags keep their IDs.
func WithSymbols(table symbol.Table) Option {
	return func(ev *Evaluator) error {
		if table == nil {
			return fmt.Errorf("nil symbol table")
		}
		for _, id := range []symbol.ID{
			syntax.SymQuote, syntax.SymSet, syntax.SymDefine, syntax.SymLambda,
			syntax.SymIf, syntax.SymBegin, syntax.SymCond, syntax.SymElse,
		} {
			name, ok := table.Symbol(id)
			if !ok || name != symbol.String(id, symbol.DefaultGlobalTable) {
				return fmt.Errorf("symbol table is not derived from the global table")
			}
		}
		ev.table = table
		return nil
	}
}

// WithStderr redirects diagnostic output (traces) to w instead of the
// default, os.Stderr.
func WithStderr(w io.Writer) Option {
	return func(ev *Evaluator) error {
		if w == nil {
			return fmt.Errorf("nil stderr")
		}
		ev.Stderr = w
		return nil
	}
}

// WithStdout redirects program output (display, newline) to w instead of the
// default, os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(ev *Evaluator) error {
		if w == nil {
			return fmt.Errorf("nil stdout")
		}
		ev.Stdout = w
		return nil
	}
}

// WithTrace writes a line to Stderr for every procedure application.
func WithTrace(on bool) Option {
	return func(ev *Evaluator) error {
		ev.trace = on
		return nil
	}
}

// WithMaxDepth bounds the nesting of procedure applications.  When n is
// exceeded evaluation fails with a *DepthError.  Zero, the default, means
// no bound.
func WithMaxDepth(n int) Option {
	return func(ev *Evaluator) error {
		if n < 0 {
			return fmt.Errorf("negative maximum depth: %d", n)
		}
		ev.maxDepth = n
		return nil
	}
}

// WithGlobal makes the evaluator use env as its global environment instead
// of creating one with InitGlobalEnvironment.  Evaluators sharing global
// environment must use the same symbol table.
func WithGlobal(env *environ.Environ) Option {
	return func(ev *Evaluator) error {
		if env == nil {
			return fmt.Errorf("nil global environment")
		}
		ev.global = env
		return nil
	}
}
