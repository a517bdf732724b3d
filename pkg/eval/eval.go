// Package eval implements the evaluator: a dispatch over classified
// expressions and the rule for applying procedures to arguments.  The
// evaluator is parameterized by a Strategy that determines when operands
// are evaluated.
package eval

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/luthersystems/mceval/pkg/environ"
	"github.com/luthersystems/mceval/pkg/lazy"
	"github.com/luthersystems/mceval/pkg/lisp"
	"github.com/luthersystems/mceval/pkg/proc"
	"github.com/luthersystems/mceval/pkg/reader"
	"github.com/luthersystems/mceval/pkg/symbol"
	"github.com/luthersystems/mceval/pkg/syntax"
)

// SymOK is the value of assignments and definitions.
var SymOK = symbol.Intern("ok")

// OK returns the symbol ok.
func OK() lisp.LVal {
	return lisp.Symbol(SymOK)
}

// Evaluator evaluates expressions in a global environment.  An Evaluator is
// not safe for concurrent use.
type Evaluator struct {
	Stderr   io.Writer
	Stdout   io.Writer
	strategy Strategy
	table    symbol.Table
	global   *environ.Environ
	stack    *CallStack
	trace    bool
	maxDepth int
}

var _ proc.Context = (*Evaluator)(nil)
var _ lazy.Evaluator = (*Evaluator)(nil)

// New initializes and returns a new Evaluator with the provided
// configuration options.  If any error is encountered it will be returned
// with a nil evaluator.
func New(options ...Option) (*Evaluator, error) {
	ev := &Evaluator{
		Stderr:   os.Stderr,
		Stdout:   os.Stdout,
		strategy: Eager{},
		stack:    &CallStack{},
	}
	for _, fn := range options {
		err := fn(ev)
		if err != nil {
			return nil, err
		}
	}
	if ev.table == nil {
		ev.table = symbol.CopyGlobalTable()
	}
	if ev.global == nil {
		env, err := InitGlobalEnvironment(ev.table)
		if err != nil {
			return nil, err
		}
		ev.global = env
	}
	return ev, nil
}

// InitGlobalEnvironment returns a root environment containing the builtin
// primitive procedures and the variables true and false.
func InitGlobalEnvironment(table symbol.Table) (*environ.Environ, error) {
	env := environ.New(nil, environ.NewFrame(len(proc.Builtins)+2))
	err := proc.Install(table, env)
	if err != nil {
		return nil, err
	}
	err = env.Define(table.Intern("true"), lisp.True())
	if err != nil {
		return nil, err
	}
	err = env.Define(table.Intern("false"), lisp.False())
	if err != nil {
		return nil, err
	}
	return env, nil
}

// Strategy returns the evaluation strategy of ev.
func (ev *Evaluator) Strategy() Strategy {
	return ev.strategy
}

// Global returns the global environment of ev.
func (ev *Evaluator) Global() *environ.Environ {
	return ev.global
}

// Symbols implements proc.Context.
func (ev *Evaluator) Symbols() symbol.Table {
	return ev.table
}

// Stack returns the call stack of ev.
func (ev *Evaluator) Stack() *CallStack {
	return ev.stack
}

// Stats returns the statistics collected since the stack was last reset.
func (ev *Evaluator) Stats() Stats {
	return ev.stack.Stats()
}

// Print implements proc.Context.
func (ev *Evaluator) Print(v ...interface{}) {
	fmt.Fprint(ev.Stdout, v...)
}

// Define binds name in the global environment.
func (ev *Evaluator) Define(name string, v lisp.LVal) error {
	return ev.global.Define(ev.table.Intern(name), v)
}

// DefinePrimitive installs a primitive procedure in the global environment.
func (ev *Evaluator) DefinePrimitive(name string, defn proc.Definition) error {
	p, err := proc.NewPrimitive(name, defn)
	if err != nil {
		return err
	}
	return ev.Define(name, p.LVal())
}

// Format returns the printed representation of v.
func (ev *Evaluator) Format(v lisp.LVal) string {
	return lisp.Sprint(v, ev.table)
}

// Read parses every datum in src using the symbol table of ev.
func (ev *Evaluator) Read(name string, r io.Reader) ([]lisp.LVal, error) {
	return reader.New(ev.table).Read(name, r)
}

// Load reads a program from r and evaluates each datum in order.  Load
// returns the actual value of the last datum, the empty list for an empty
// program.
func (ev *Evaluator) Load(name string, r io.Reader) (lisp.LVal, error) {
	data, err := ev.Read(name, r)
	if err != nil {
		return lisp.Nil(), err
	}
	v := lisp.Nil()
	for _, datum := range data {
		v, err = ev.EvalDatum(datum)
		if err != nil {
			return lisp.Nil(), err
		}
	}
	return v, nil
}

// EvalString is like Load but reads from src.
func (ev *Evaluator) EvalString(src string) (lisp.LVal, error) {
	return ev.Load("string", strings.NewReader(src))
}

// EvalDatum classifies datum and returns its actual value in the global
// environment.  Structural errors are returned before anything is
// evaluated.
func (ev *Evaluator) EvalDatum(datum lisp.LVal) (lisp.LVal, error) {
	x, err := syntax.Parse(datum, ev.table)
	if err != nil {
		return lisp.Nil(), err
	}
	return ev.ActualValue(x, ev.global)
}

// ActualValue evaluates x in env and forces the result.  ActualValue
// implements lazy.Evaluator.
func (ev *Evaluator) ActualValue(x syntax.Expr, env *environ.Environ) (lisp.LVal, error) {
	v, err := ev.Eval(x, env)
	if err != nil {
		return lisp.Nil(), err
	}
	return ev.strategy.Force(ev, v)
}

// Eval evaluates x in env.  Under the lazy strategy the result may be a
// thunk.
func (ev *Evaluator) Eval(x syntax.Expr, env *environ.Environ) (lisp.LVal, error) {
	switch x := x.(type) {
	case *syntax.Literal:
		return x.Value, nil
	case *syntax.Variable:
		v, err := env.Lookup(x.Name)
		if err != nil {
			return lisp.Nil(), ev.annotate(err)
		}
		return v, nil
	case *syntax.Quote:
		return x.Text, nil
	case *syntax.Assignment:
		v, err := ev.Eval(x.Value, env)
		if err != nil {
			return lisp.Nil(), err
		}
		if err := env.SetVar(x.Name, v); err != nil {
			return lisp.Nil(), ev.annotate(err)
		}
		return OK(), nil
	case *syntax.Definition:
		v, err := ev.Eval(x.Value, env)
		if err != nil {
			return lisp.Nil(), err
		}
		if err := env.Define(x.Name, v); err != nil {
			return lisp.Nil(), err
		}
		return OK(), nil
	case *syntax.Lambda:
		return proc.NewCompound(x, env).LVal(), nil
	case *syntax.If:
		pred, err := ev.ActualValue(x.Predicate, env)
		if err != nil {
			return lisp.Nil(), err
		}
		if lisp.IsTrue(pred) {
			return ev.Eval(x.Consequent, env)
		}
		if x.Alternative == nil {
			return lisp.False(), nil
		}
		return ev.Eval(x.Alternative, env)
	case *syntax.Begin:
		return ev.evalSequence(x.Actions, env)
	case *syntax.Cond:
		return ev.Eval(x.Expansion, env)
	case *syntax.Application:
		op, err := ev.ActualValue(x.Operator, env)
		if err != nil {
			return lisp.Nil(), err
		}
		args, err := ev.strategy.Args(ev, op, x.Operands, env)
		if err != nil {
			return lisp.Nil(), err
		}
		return ev.apply(x.Datum(), op, args)
	case nil:
		return lisp.Nil(), &syntax.UnknownExpressionTypeError{Datum: lisp.Nil(), Symbols: ev.table}
	default:
		return lisp.Nil(), &syntax.UnknownExpressionTypeError{Datum: x.Datum(), Symbols: ev.table}
	}
}

// evalSequence evaluates exprs left to right and returns the value of the
// last one.
func (ev *Evaluator) evalSequence(exprs []syntax.Expr, env *environ.Environ) (lisp.LVal, error) {
	for _, x := range exprs[:len(exprs)-1] {
		if _, err := ev.Eval(x, env); err != nil {
			return lisp.Nil(), err
		}
	}
	return ev.Eval(exprs[len(exprs)-1], env)
}

// Apply calls p with args and returns the actual value of the result.  Apply
// implements proc.Context.
func (ev *Evaluator) Apply(p lisp.LVal, args []lisp.LVal) (lisp.LVal, error) {
	v, err := ev.apply(lisp.Cons(p, lisp.List(args...)), p, args)
	if err != nil {
		return lisp.Nil(), err
	}
	return ev.strategy.Force(ev, v)
}

func (ev *Evaluator) apply(form lisp.LVal, p lisp.LVal, args []lisp.LVal) (lisp.LVal, error) {
	if ev.maxDepth > 0 && ev.stack.Depth() >= ev.maxDepth {
		return lisp.Nil(), ev.wrap(&DepthError{Max: ev.maxDepth})
	}
	ev.stack.Push(CallFrame{Form: form})
	defer ev.stack.Pop()
	if ev.trace {
		fmt.Fprintf(ev.Stderr, "%*s%s %d: %s\n", 2*(ev.stack.Depth()-1), "", ev.strategy.Name(), ev.stack.Depth(), ev.Format(form))
	}
	if prim, ok := proc.GetPrimitive(p); ok {
		v, err := prim.Call(ev, args)
		if err != nil {
			var e *Error
			if !errors.As(err, &e) {
				err = &ApplicationError{Form: form, Symbols: ev.table, Err: err}
			}
			return lisp.Nil(), ev.wrap(err)
		}
		return v, nil
	}
	if c, ok := proc.GetCompound(p); ok {
		env, err := environ.Extend(c.Env, c.Params, args)
		if err != nil {
			return lisp.Nil(), ev.wrap(err)
		}
		v, err := ev.evalSequence(c.Body, env)
		if err != nil {
			return lisp.Nil(), ev.wrap(err)
		}
		return v, nil
	}
	return lisp.Nil(), ev.wrap(&UnknownProcedureTypeError{Value: p, Symbols: ev.table})
}

// wrap attaches the current stack to err unless a stack is already
// attached.
func (ev *Evaluator) wrap(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Err: err, Stack: ev.stack.Trace(ev.table)}
}

// annotate sets the symbol table used to render unbound variable errors.
func (ev *Evaluator) annotate(err error) error {
	var uerr *environ.UnboundVariableError
	if errors.As(err, &uerr) && uerr.Symbols == nil {
		uerr.Symbols = ev.table
	}
	return err
}
