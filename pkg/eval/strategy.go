package eval

import (
	"github.com/luthersystems/mceval/pkg/environ"
	"github.com/luthersystems/mceval/pkg/lazy"
	"github.com/luthersystems/mceval/pkg/lisp"
	"github.com/luthersystems/mceval/pkg/proc"
	"github.com/luthersystems/mceval/pkg/syntax"
)

// Strategy decides when operands are evaluated.  The evaluator calls Args
// to prepare the arguments of every application and Force wherever an actual
// value is needed: if predicates, operators and final results.
type Strategy interface {
	Name() string
	// Args returns the arguments that p is applied to, given the operand
	// expressions of an application evaluated in env.
	Args(ev *Evaluator, p lisp.LVal, operands []syntax.Expr, env *environ.Environ) ([]lisp.LVal, error)
	// Force returns the actual value of v.
	Force(ev *Evaluator, v lisp.LVal) (lisp.LVal, error)
}

// Eager evaluates operands left to right before application.
type Eager struct{}

var _ Strategy = Eager{}

func (Eager) Name() string { return "eager" }

// Args implements Strategy.
func (Eager) Args(ev *Evaluator, p lisp.LVal, operands []syntax.Expr, env *environ.Environ) ([]lisp.LVal, error) {
	args := make([]lisp.LVal, len(operands))
	for i, x := range operands {
		v, err := ev.Eval(x, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

// Force implements Strategy.  Eagerly computed values are already actual.
func (Eager) Force(ev *Evaluator, v lisp.LVal) (lisp.LVal, error) {
	return v, nil
}

// Lazy delays the operands of compound procedures.  Each operand becomes a
// thunk over the caller's environment which is forced at most once.
// Primitive procedures, and the rest parameter of a variadic compound
// procedure, receive actual values.
type Lazy struct{}

var _ Strategy = Lazy{}

func (Lazy) Name() string { return "lazy" }

// Args implements Strategy.
func (Lazy) Args(ev *Evaluator, p lisp.LVal, operands []syntax.Expr, env *environ.Environ) ([]lisp.LVal, error) {
	args := make([]lisp.LVal, len(operands))
	if _, ok := proc.GetPrimitive(p); ok {
		for i, x := range operands {
			v, err := ev.ActualValue(x, env)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		return args, nil
	}
	nfixed := len(operands)
	if c, ok := proc.GetCompound(p); ok && c.Params.Variadic() && len(c.Params.Fixed) < nfixed {
		nfixed = len(c.Params.Fixed)
	}
	for i, x := range operands[:nfixed] {
		args[i] = lazy.Delay(x, env)
	}
	// rest arguments are collected into a list and lists hold actual values
	for i, x := range operands[nfixed:] {
		v, err := ev.ActualValue(x, env)
		if err != nil {
			return nil, err
		}
		args[nfixed+i] = v
	}
	return args, nil
}

// Force implements Strategy.
func (Lazy) Force(ev *Evaluator, v lisp.LVal) (lisp.LVal, error) {
	return lazy.Force(ev, v, &ev.stack.Lazy)
}
