// Package lazy implements delayed evaluation.  A thunk pairs an unevaluated
// expression with the environment it must be evaluated in.  Forcing a thunk
// evaluates it at most once; later forces return the memoized value.
package lazy

import (
	"errors"
	"fmt"
	"io"

	"github.com/luthersystems/mceval/pkg/environ"
	"github.com/luthersystems/mceval/pkg/lisp"
	"github.com/luthersystems/mceval/pkg/symbol"
	"github.com/luthersystems/mceval/pkg/syntax"
)

var LThunk = symbol.Intern("thunk")

// ErrCircularForce is returned when computing a thunk's value requires the
// value of the same thunk.
var ErrCircularForce = errors.New("thunk depends on its own value")

// Evaluator computes the actual value of an expression: the result of
// evaluating it with any resulting thunks forced.
type Evaluator interface {
	ActualValue(x syntax.Expr, env *environ.Environ) (lisp.LVal, error)
}

// Stats counts forcing activity.
type Stats struct {
	// Forces is the number of thunks evaluated.
	Forces int
	// Hits is the number of forces answered from a memoized value.
	Hits int
}

// Thunk is a delayed expression.  Once forced the expression and environment
// are released and only the value is retained.
type Thunk struct {
	expr    syntax.Expr
	env     *environ.Environ
	value   lisp.LVal
	forced  bool
	forcing bool
}

// Delay returns a thunk that will evaluate x in env.
func Delay(x syntax.Expr, env *environ.Environ) lisp.LVal {
	return lisp.TagNative(LThunk, &Thunk{expr: x, env: env})
}

// GetThunk extracts a Thunk from v.
func GetThunk(v lisp.LVal) (*Thunk, bool) {
	if v.Type() != lisp.LTaggedVal {
		return nil, false
	}
	t, ok := v.Native.(*Thunk)
	return t, ok
}

// IsThunk returns true if v is a thunk, forced or not.
func IsThunk(v lisp.LVal) bool {
	_, ok := GetThunk(v)
	return ok
}

// Forced returns true if t holds a memoized value.
func (t *Thunk) Forced() bool {
	return t.forced
}

// Expr returns the delayed expression, nil once t has been forced.
func (t *Thunk) Expr() syntax.Expr {
	return t.expr
}

// Env returns the environment of the delayed expression, nil once t has been
// forced.
func (t *Thunk) Env() *environ.Environ {
	return t.env
}

// Value returns the memoized value of t and true, or false if t has not been
// forced.
func (t *Thunk) Value() (lisp.LVal, bool) {
	return t.value, t.forced
}

// Force returns the actual value of t.  If evaluation fails t is left
// unforced and the error is returned.  Stats may be nil.
func (t *Thunk) Force(ev Evaluator, stats *Stats) (lisp.LVal, error) {
	if t.forced {
		if stats != nil {
			stats.Hits++
		}
		return t.value, nil
	}
	if t.forcing {
		return lisp.Nil(), ErrCircularForce
	}
	t.forcing = true
	v, err := ev.ActualValue(t.expr, t.env)
	t.forcing = false
	if err != nil {
		return lisp.Nil(), err
	}
	if stats != nil {
		stats.Forces++
	}
	t.value = v
	t.forced = true
	t.expr = nil
	t.env = nil
	return v, nil
}

// Force returns the actual value of v.  Values that are not thunks are
// returned unchanged.
func Force(ev Evaluator, v lisp.LVal, stats *Stats) (lisp.LVal, error) {
	t, ok := GetThunk(v)
	if !ok {
		return v, nil
	}
	return t.Force(ev, stats)
}

// FormatLisp implements lisp.Formatter.
func (t *Thunk) FormatLisp(w io.Writer, table symbol.Table) error {
	if t.forced {
		return lisp.Format(w, t.value, table)
	}
	if _, err := io.WriteString(w, "#<thunk "); err != nil {
		return err
	}
	if err := lisp.Format(w, t.expr.Datum(), table); err != nil {
		return err
	}
	_, err := fmt.Fprint(w, ">")
	return err
}
