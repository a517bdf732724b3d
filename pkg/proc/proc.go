// Package proc defines procedure values.  A primitive procedure is a Go
// function invoked with already evaluated arguments.  A compound procedure
// is a closure: a parameter list, a body, and the environment that was
// active when its lambda expression was evaluated.
package proc

import (
	"fmt"
	"io"

	"github.com/luthersystems/mceval/pkg/environ"
	"github.com/luthersystems/mceval/pkg/lisp"
	"github.com/luthersystems/mceval/pkg/symbol"
	"github.com/luthersystems/mceval/pkg/syntax"
)

var LPrimitiveProc = symbol.Intern("primitive")
var LCompoundProc = symbol.Intern("compound-procedure")

// Context gives primitive procedures access to the evaluator that invoked
// them.
type Context interface {
	// Apply calls proc with args and returns the actual value of the result.
	Apply(proc lisp.LVal, args []lisp.LVal) (lisp.LVal, error)
	// Print writes output on behalf of the program (display, newline).
	Print(v ...interface{})
	// Symbols returns the table used to render symbols.
	Symbols() symbol.Table
}

// ProcFunc implements a primitive procedure.  The number of args has been
// checked against the procedure's formal arguments.
//		func(ctx proc.Context, args []lisp.LVal) (lisp.LVal, error) {
//			x := args[0] // first arg
//			y := args[1] // second arg
//			// ...
//		}
type ProcFunc func(ctx Context, args []lisp.LVal) (lisp.LVal, error)

// Definition defines a primitive procedure that is implemented as a go
// function.
type Definition interface {
	FormalArgs() []string
	Documentation() string
	Implementation() ProcFunc
}

// SimpleDefn defines a basic primitive procedure with a go function
// implementation.  SimpleDefn implements Definition.  The formal argument
// "&rest" marks the argument following it as bound to the list of remaining
// arguments.
type SimpleDefn struct {
	Args []string
	Docs string
	Fn   ProcFunc
}

func Simple(args []string, docs string, fn ProcFunc) *SimpleDefn {
	return &SimpleDefn{args, docs, fn}
}

// FormalArgs implements Definition.
func (d *SimpleDefn) FormalArgs() []string {
	return d.Args
}

// Documentation implements Definition.
func (d *SimpleDefn) Documentation() string {
	return d.Docs
}

// Implementation implements Definition.
func (d *SimpleDefn) Implementation() ProcFunc {
	return d.Fn
}

// Primitive is a callable procedure implemented in Go.
type Primitive struct {
	Name     string
	Docs     string
	nfixed   int
	variadic bool
	fn       ProcFunc
}

// NewPrimitive creates a primitive procedure given its definition.
// NewPrimitive returns an error if the formal arguments are malformed.
func NewPrimitive(name string, defn Definition) (*Primitive, error) {
	args := defn.FormalArgs()
	p := &Primitive{Name: name, Docs: defn.Documentation(), fn: defn.Implementation()}
	for i, arg := range args {
		if arg != "&rest" {
			p.nfixed++
			continue
		}
		if i != len(args)-2 {
			return nil, fmt.Errorf("primitive %s: &rest must precede the last formal argument", name)
		}
		p.variadic = true
		break
	}
	if p.fn == nil {
		return nil, fmt.Errorf("primitive %s: no implementation", name)
	}
	return p, nil
}

// Call checks the number of args and invokes the implementation.  Variadic
// arguments are passed through in args rather than collected into a list.
func (p *Primitive) Call(ctx Context, args []lisp.LVal) (lisp.LVal, error) {
	switch {
	case len(args) < p.nfixed:
		return lisp.Nil(), &environ.ArityError{Kind: environ.TooFewArgs, Params: p.nfixed, Args: len(args), Variadic: p.variadic}
	case len(args) > p.nfixed && !p.variadic:
		return lisp.Nil(), &environ.ArityError{Kind: environ.TooManyArgs, Params: p.nfixed, Args: len(args)}
	}
	return p.fn(ctx, args)
}

// FormatLisp implements lisp.Formatter.
func (p *Primitive) FormatLisp(w io.Writer, table symbol.Table) error {
	_, err := fmt.Fprintf(w, "(primitive %s)", p.Name)
	return err
}

// LVal returns a lisp value containing p.
func (p *Primitive) LVal() lisp.LVal {
	return lisp.TagNative(LPrimitiveProc, p)
}

// GetPrimitive extracts a Primitive from v.  GetPrimitive returns false if v
// is not LTaggedVal or does not contain a Primitive.
func GetPrimitive(v lisp.LVal) (*Primitive, bool) {
	if v.Type() != lisp.LTaggedVal {
		return nil, false
	}
	p, ok := v.Native.(*Primitive)
	return p, ok
}

// Compound is a closure.  A Compound is not modified after it is created
// though frames of its environment may be.
type Compound struct {
	Params environ.Params
	Body   []syntax.Expr
	Env    *environ.Environ
	Source *syntax.Lambda
}

// NewCompound returns the closure produced by evaluating lambda in env.
func NewCompound(lambda *syntax.Lambda, env *environ.Environ) *Compound {
	return &Compound{
		Params: lambda.Params,
		Body:   lambda.Body,
		Env:    env,
		Source: lambda,
	}
}

// FormatLisp implements lisp.Formatter.  The captured environment is
// elided because it may contain the procedure itself.
func (c *Compound) FormatLisp(w io.Writer, table symbol.Table) error {
	if _, err := io.WriteString(w, "(compound-procedure "); err != nil {
		return err
	}
	if err := lisp.Format(w, c.Source.ParamsDatum(), table); err != nil {
		return err
	}
	if _, err := io.WriteString(w, " "); err != nil {
		return err
	}
	if err := lisp.Format(w, c.Source.BodyDatum(), table); err != nil {
		return err
	}
	_, err := io.WriteString(w, " <procedure-env>)")
	return err
}

// LVal returns a lisp value containing c.
func (c *Compound) LVal() lisp.LVal {
	return lisp.TagNative(LCompoundProc, c)
}

// GetCompound extracts a Compound from v.
func GetCompound(v lisp.LVal) (*Compound, bool) {
	if v.Type() != lisp.LTaggedVal {
		return nil, false
	}
	c, ok := v.Native.(*Compound)
	return c, ok
}

// IsProcedure returns true if v is a primitive or compound procedure.
func IsProcedure(v lisp.LVal) bool {
	if _, ok := GetPrimitive(v); ok {
		return true
	}
	_, ok := GetCompound(v)
	return ok
}
