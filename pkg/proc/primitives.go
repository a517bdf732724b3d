package proc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/luthersystems/mceval/pkg/environ"
	"github.com/luthersystems/mceval/pkg/lisp"
	"github.com/luthersystems/mceval/pkg/symbol"
)

// ErrDivideByZero is returned by / for an integer zero divisor.
var ErrDivideByZero = errors.New("division by zero")

// TypeError is returned when a primitive receives an argument of the wrong
// type.
type TypeError struct {
	Arg  int
	Want string
	Got  lisp.LType
}

func (err *TypeError) Error() string {
	return fmt.Sprintf("argument %d is not a %s: %v", err.Arg, err.Want, err.Got)
}

// UserError is raised by the error primitive.
type UserError struct {
	Message   string
	Irritants []lisp.LVal
	Symbols   symbol.Table
}

func (err *UserError) Error() string {
	if len(err.Irritants) == 0 {
		return err.Message
	}
	parts := make([]string, 0, len(err.Irritants)+1)
	parts = append(parts, err.Message)
	for _, v := range err.Irritants {
		parts = append(parts, lisp.Sprint(v, err.Symbols))
	}
	return strings.Join(parts, " ")
}

// Install binds every procedure in Builtins into the innermost frame of env.
func Install(table symbol.Table, env *environ.Environ) error {
	for name, defn := range Builtins {
		p, err := NewPrimitive(name, defn)
		if err != nil {
			return err
		}
		err = env.Define(table.Intern(name), p.LVal())
		if err != nil {
			return err
		}
	}
	return nil
}

// Builtins is the primitive procedure registry.
var Builtins = map[string]Definition{
	"type":    ProcType,
	"cons":    ProcCons,
	"car":     ProcCAR,
	"cdr":     ProcCDR,
	"list":    ProcList,
	"map":     ProcMap,
	"null?":   ProcNull,
	"pair?":   ProcPair,
	"eq?":     ProcEq,
	"equal?":  ProcEqual,
	"not":     ProcNot,
	"true?":   ProcTrue,
	"false?":  ProcFalse,
	"=":       ProcNumEQ,
	">":       ProcGT,
	">=":      ProcGTE,
	"<":       ProcLT,
	"<=":      ProcLTE,
	"+":       ProcAdd,
	"-":       ProcSub,
	"*":       ProcMul,
	"/":       ProcDiv,
	"display": ProcDisplay,
	"newline": ProcNewline,
	"error":   ProcError,
}

var ProcType = Simple(
	[]string{"v"},
	"Returns a symbol representing the type of v.",
	func(ctx Context, args []lisp.LVal) (lisp.LVal, error) {
		return lisp.GetType(args[0]), nil
	},
)

var ProcCons = Simple(
	[]string{"head", "tail"},
	"Returns a pair containing head and tail.",
	func(ctx Context, args []lisp.LVal) (lisp.LVal, error) {
		return lisp.Cons(args[0], args[1]), nil
	},
)

var ProcCAR = Simple(
	[]string{"p"},
	"Returns the left element of pair p.",
	func(ctx Context, args []lisp.LVal) (lisp.LVal, error) {
		v, ok := lisp.GetCAR(args[0])
		if !ok {
			return lisp.Nil(), &TypeError{Arg: 1, Want: "pair", Got: args[0].Type()}
		}
		return v, nil
	},
)

var ProcCDR = Simple(
	[]string{"p"},
	"Returns the right element of pair p.",
	func(ctx Context, args []lisp.LVal) (lisp.LVal, error) {
		v, ok := lisp.GetCDR(args[0])
		if !ok {
			return lisp.Nil(), &TypeError{Arg: 1, Want: "pair", Got: args[0].Type()}
		}
		return v, nil
	},
)

var ProcList = Simple(
	[]string{"&rest", "items"},
	"Returns a list containing items.",
	func(ctx Context, args []lisp.LVal) (lisp.LVal, error) {
		return lisp.List(args...), nil
	},
)

var ProcMap = Simple(
	[]string{"f", "list", "&rest", "lists"},
	"Returns the list of results of applying f elementwise to the given lists.  The result is as long as the shortest list.",
	func(ctx Context, args []lisp.LVal) (lisp.LVal, error) {
		f := args[0]
		its := make([]*lisp.ListIterator, len(args)-1)
		for i := range its {
			its[i] = lisp.NewListIterator(args[i+1])
		}
		var b lisp.ListBuilder
		fargs := make([]lisp.LVal, len(its))
		for {
			for i, it := range its {
				if !it.Next() {
					if it.Err() != nil {
						return lisp.Nil(), &TypeError{Arg: i + 2, Want: "list", Got: it.Rest().Type()}
					}
					return b.List(), nil
				}
				fargs[i] = it.Value()
			}
			v, err := ctx.Apply(f, append([]lisp.LVal(nil), fargs...))
			if err != nil {
				return lisp.Nil(), err
			}
			b.Append(v)
		}
	},
)

var ProcNull = Simple(
	[]string{"v"},
	"Returns true if v is the empty list.",
	func(ctx Context, args []lisp.LVal) (lisp.LVal, error) {
		return lisp.Bool(lisp.IsNil(args[0])), nil
	},
)

var ProcPair = Simple(
	[]string{"v"},
	"Returns true if v is a pair.",
	func(ctx Context, args []lisp.LVal) (lisp.LVal, error) {
		return lisp.Bool(args[0].Type() == lisp.LCons), nil
	},
)

var ProcEq = Simple(
	[]string{"v1", "v2"},
	"Returns true if v1 and v2 are the same object.",
	func(ctx Context, args []lisp.LVal) (lisp.LVal, error) {
		return lisp.Bool(lisp.Eq(args[0], args[1])), nil
	},
)

var ProcEqual = Simple(
	[]string{"v1", "v2"},
	"Returns true if v1 and v2 are structurally equal.",
	func(ctx Context, args []lisp.LVal) (lisp.LVal, error) {
		return lisp.Bool(lisp.Equal(args[0], args[1])), nil
	},
)

var ProcNot = Simple(
	[]string{"v"},
	"Returns true if v is the false value.",
	func(ctx Context, args []lisp.LVal) (lisp.LVal, error) {
		return lisp.Bool(lisp.IsFalse(args[0])), nil
	},
)

var ProcTrue = Simple(
	[]string{"v"},
	"Returns true if v is the true value.",
	func(ctx Context, args []lisp.LVal) (lisp.LVal, error) {
		return lisp.Bool(lisp.IsTrue(args[0])), nil
	},
)

var ProcFalse = Simple(
	[]string{"v"},
	"Returns true if v is the false value.",
	func(ctx Context, args []lisp.LVal) (lisp.LVal, error) {
		return lisp.Bool(lisp.IsFalse(args[0])), nil
	},
)

func numFloat(x lisp.LVal) (float64, bool) {
	if x, ok := lisp.GetFloat(x); ok {
		return x, true
	}
	if x, ok := lisp.GetInt(x); ok {
		return float64(x), true
	}
	return 0, false
}

// compare builds a two argument numeric comparison.  Integers are compared
// exactly.
func compare(docs string, ints func(x, y int) bool, floats func(x, y float64) bool) *SimpleDefn {
	return Simple(
		[]string{"x", "y"},
		docs,
		func(ctx Context, args []lisp.LVal) (lisp.LVal, error) {
			ix, okx := lisp.GetInt(args[0])
			iy, oky := lisp.GetInt(args[1])
			if okx && oky {
				return lisp.Bool(ints(ix, iy)), nil
			}
			x, ok := numFloat(args[0])
			if !ok {
				return lisp.Nil(), &TypeError{Arg: 1, Want: "number", Got: args[0].Type()}
			}
			y, ok := numFloat(args[1])
			if !ok {
				return lisp.Nil(), &TypeError{Arg: 2, Want: "number", Got: args[1].Type()}
			}
			return lisp.Bool(floats(x, y)), nil
		},
	)
}

var ProcNumEQ = compare("Returns true if numbers x and y are equal",
	func(x, y int) bool { return x == y },
	func(x, y float64) bool { return x == y })

var ProcGT = compare("Returns true if x is greater than y",
	func(x, y int) bool { return x > y },
	func(x, y float64) bool { return x > y })

var ProcGTE = compare("Returns true if x is greater than or equal to y",
	func(x, y int) bool { return x >= y },
	func(x, y float64) bool { return x >= y })

var ProcLT = compare("Returns true if x is less than y",
	func(x, y int) bool { return x < y },
	func(x, y float64) bool { return x < y })

var ProcLTE = compare("Returns true if x is less than or equal to y",
	func(x, y int) bool { return x <= y },
	func(x, y float64) bool { return x <= y })

// arith folds args with an integer operation until a float is encountered,
// after which the float operation is used.
func arith(args []lisp.LVal, init lisp.LVal, ints func(x, y int) (int, error), floats func(x, y float64) float64) (lisp.LVal, error) {
	acc := init
	for i, v := range args {
		if !lisp.IsNumber(v) {
			return lisp.Nil(), &TypeError{Arg: i + 1, Want: "number", Got: v.Type()}
		}
		x, okx := lisp.GetInt(acc)
		y, oky := lisp.GetInt(v)
		if okx && oky {
			z, err := ints(x, y)
			if err != nil {
				return lisp.Nil(), err
			}
			acc = lisp.Int(z)
			continue
		}
		fx, _ := numFloat(acc)
		fy, _ := numFloat(v)
		acc = lisp.Float(floats(fx, fy))
	}
	return acc, nil
}

var ProcAdd = Simple(
	[]string{"&rest", "rest"},
	"Add numbers",
	func(ctx Context, args []lisp.LVal) (lisp.LVal, error) {
		return arith(args, lisp.Int(0),
			func(x, y int) (int, error) { return x + y, nil },
			func(x, y float64) float64 { return x + y })
	},
)

var ProcMul = Simple(
	[]string{"&rest", "rest"},
	"Multiply numbers",
	func(ctx Context, args []lisp.LVal) (lisp.LVal, error) {
		return arith(args, lisp.Int(1),
			func(x, y int) (int, error) { return x * y, nil },
			func(x, y float64) float64 { return x * y })
	},
)

var ProcSub = Simple(
	[]string{"x", "&rest", "rest"},
	"Subtract numbers from x.  With one argument returns the negation of x.",
	func(ctx Context, args []lisp.LVal) (lisp.LVal, error) {
		sub := func(x, y int) (int, error) { return x - y, nil }
		fsub := func(x, y float64) float64 { return x - y }
		if len(args) == 1 {
			return arith(args, lisp.Int(0), sub, fsub)
		}
		if !lisp.IsNumber(args[0]) {
			return lisp.Nil(), &TypeError{Arg: 1, Want: "number", Got: args[0].Type()}
		}
		v, err := arith(args[1:], args[0], sub, fsub)
		return v, argOffset(err, 1)
	},
)

var ProcDiv = Simple(
	[]string{"x", "&rest", "rest"},
	"Divide x by the remaining numbers.  Integer division that is not exact produces a float.",
	func(ctx Context, args []lisp.LVal) (lisp.LVal, error) {
		if !lisp.IsNumber(args[0]) {
			return lisp.Nil(), &TypeError{Arg: 1, Want: "number", Got: args[0].Type()}
		}
		var inexact bool
		div := func(x, y int) (int, error) {
			if y == 0 {
				return 0, ErrDivideByZero
			}
			if x%y != 0 {
				inexact = true
			}
			return x / y, nil
		}
		fdiv := func(x, y float64) float64 { return x / y }
		init, rest := args[0], args[1:]
		if len(args) == 1 {
			init, rest = lisp.Int(1), args
		}
		v, err := arith(rest, init, div, fdiv)
		if err != nil {
			if len(args) > 1 {
				err = argOffset(err, 1)
			}
			return lisp.Nil(), err
		}
		if inexact {
			// redo the computation in floating point
			finit, _ := numFloat(init)
			return arith(rest, lisp.Float(finit), div, fdiv)
		}
		return v, nil
	},
)

func argOffset(err error, n int) error {
	var terr *TypeError
	if errors.As(err, &terr) {
		terr.Arg += n
	}
	return err
}

// displayString renders strings without quotes.
func displayString(v lisp.LVal, table symbol.Table) string {
	if s, ok := lisp.GetString(v); ok {
		return s
	}
	return lisp.Sprint(v, table)
}

var ProcDisplay = Simple(
	[]string{"v"},
	"Prints v.  Strings are printed without quotes.",
	func(ctx Context, args []lisp.LVal) (lisp.LVal, error) {
		ctx.Print(displayString(args[0], ctx.Symbols()))
		return lisp.Nil(), nil
	},
)

var ProcNewline = Simple(
	[]string{},
	"Prints a newline.",
	func(ctx Context, args []lisp.LVal) (lisp.LVal, error) {
		ctx.Print("\n")
		return lisp.Nil(), nil
	},
)

var ProcError = Simple(
	[]string{"message", "&rest", "irritants"},
	"Signals an error.",
	func(ctx Context, args []lisp.LVal) (lisp.LVal, error) {
		return lisp.Nil(), &UserError{
			Message:   displayString(args[0], ctx.Symbols()),
			Irritants: args[1:],
			Symbols:   ctx.Symbols(),
		}
	},
)
