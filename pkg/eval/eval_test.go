package eval

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/luthersystems/mceval/pkg/environ"
	"github.com/luthersystems/mceval/pkg/lisp"
	"github.com/luthersystems/mceval/pkg/proc"
	"github.com/luthersystems/mceval/pkg/symbol"
	"github.com/luthersystems/mceval/pkg/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var strategies = []Strategy{Eager{}, Lazy{}}

func newTestEvaluator(t *testing.T, s Strategy, opts ...Option) (*Evaluator, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	opts = append([]Option{WithStrategy(s), WithStdout(out)}, opts...)
	ev, err := New(opts...)
	require.NoError(t, err)
	return ev, out
}

func assertEval(t *testing.T, ev *Evaluator, expect string, src string) bool {
	t.Helper()
	v, err := ev.EvalString(src)
	return assert.NoError(t, err, "%s: %s", ev.Strategy().Name(), src) &&
		assert.Equal(t, expect, ev.Format(v), "%s: %s", ev.Strategy().Name(), src)
}

func TestNew(t *testing.T) {
	ev, err := New()
	require.NoError(t, err)
	assert.Equal(t, "eager", ev.Strategy().Name())
	assert.NotNil(t, ev.Global())
	_, err = ev.Global().Lookup(ev.Symbols().Intern("car"))
	assert.NoError(t, err)

	_, err = New(WithStrategy(nil))
	assert.Error(t, err)
	_, err = New(WithStderr(nil))
	assert.Error(t, err)
	_, err = New(WithMaxDepth(-1))
	assert.Error(t, err)
	_, err = New(WithGlobal(nil))
	assert.Error(t, err)
	_, err = New(WithSymbols(symbol.NewGlobalTable()))
	assert.Error(t, err)
	_, err = New(WithSymbols(symbol.CopyGlobalTable()))
	assert.NoError(t, err)
}

func TestGlobalEnvironment(t *testing.T) {
	for _, s := range strategies {
		ev, _ := newTestEvaluator(t, s)
		assertEval(t, ev, "#t", "true")
		assertEval(t, ev, "#f", "false")
		assertEval(t, ev, "(primitive car)", "car")
		for name := range proc.Builtins {
			_, err := ev.Global().Lookup(ev.Symbols().Intern(name))
			assert.NoError(t, err, name)
		}
	}
}

func TestSelfEvaluating(t *testing.T) {
	for _, s := range strategies {
		ev, _ := newTestEvaluator(t, s)
		assertEval(t, ev, "3", "3")
		assertEval(t, ev, "-2.5", "-2.5")
		assertEval(t, ev, `"abc"`, `"abc"`)
		assertEval(t, ev, "#f", "#f")
		env := environ.New(nil, nil)
		for _, v := range []lisp.LVal{lisp.Int(7), lisp.String("x")} {
			x, err := syntax.Parse(v, nil)
			require.NoError(t, err)
			got, err := ev.Eval(x, env)
			assert.NoError(t, err)
			assert.True(t, lisp.Equal(v, got))
		}
	}
}

func TestQuote(t *testing.T) {
	for _, s := range strategies {
		ev, _ := newTestEvaluator(t, s)
		assertEval(t, ev, "a", "(quote a)")
		assertEval(t, ev, "(a (b 1))", "'(a (b 1))")
		assertEval(t, ev, "(quote a)", "''a")
	}
}

func TestAssignment(t *testing.T) {
	for _, s := range strategies {
		ev, _ := newTestEvaluator(t, s)
		assertEval(t, ev, "ok", "(define x 5)")
		assertEval(t, ev, "ok", "(set! x (+ x 1))")
		assertEval(t, ev, "6", "x")
		assertEval(t, ev, "6", "(define x 5) (set! x (+ x 1)) x")

		_, err := ev.EvalString("(set! never-defined 1)")
		var uerr *environ.UnboundVariableError
		if assert.ErrorAs(t, err, &uerr) {
			assert.EqualError(t, err, "unbound variable: never-defined")
		}
		_, err = ev.Global().Lookup(ev.Symbols().Intern("never-defined"))
		assert.Error(t, err)
		assertEval(t, ev, "ok", "(define never-defined 1)")
		assertEval(t, ev, "ok", "(define never-defined 2)")
		assertEval(t, ev, "2", "never-defined")
	}
}

func TestUnbound(t *testing.T) {
	for _, s := range strategies {
		ev, _ := newTestEvaluator(t, s)
		_, err := ev.EvalString("nope")
		var uerr *environ.UnboundVariableError
		if assert.ErrorAs(t, err, &uerr) {
			assert.Equal(t, ev.Symbols().Intern("nope"), uerr.Name)
		}
	}
}

func TestLexicalScope(t *testing.T) {
	for _, s := range strategies {
		ev, _ := newTestEvaluator(t, s)
		assertEval(t, ev, "ok", "(define (make-adder n) (lambda (x) (+ x n)))")
		assertEval(t, ev, "7", "((make-adder 3) 4)")
		assertEval(t, ev, "ok", "(define add3 (make-adder 3))")
		assertEval(t, ev, "ok", "(define add10 (make-adder 10))")
		assertEval(t, ev, "(4 11 5 12)", "(list (add3 1) (add10 1) (add3 2) (add10 2))")
		assertEval(t, ev, "(compound-procedure (x) ((+ x n)) <procedure-env>)", "add3")

		// the closure sees its defining environment, not the caller's
		assertEval(t, ev, "ok", "(define n 100)")
		assertEval(t, ev, "ok", "(define (call-with-n f n) (f 0))")
		assertEval(t, ev, "3", "(call-with-n add3 50)")
	}
}

func TestSharedFrames(t *testing.T) {
	for _, s := range strategies {
		ev, _ := newTestEvaluator(t, s)
		assertEval(t, ev, "ok", `
(define (make-counter)
  (define n 0)
  (lambda () (set! n (+ n 1)) n))`)
		assertEval(t, ev, "ok", "(define c1 (make-counter))")
		assertEval(t, ev, "ok", "(define c2 (make-counter))")
		assertEval(t, ev, "1", "(c1)")
		assertEval(t, ev, "2", "(c1)")
		assertEval(t, ev, "1", "(c2)")
		assertEval(t, ev, "3", "(c1)")
	}
}

func TestShadowing(t *testing.T) {
	for _, s := range strategies {
		ev, _ := newTestEvaluator(t, s)
		assertEval(t, ev, "ok", "(define x 1)")
		assertEval(t, ev, "ok", "(define (f) (define x 2) x)")
		assertEval(t, ev, "2", "(f)")
		assertEval(t, ev, "1", "x")
		assertEval(t, ev, "ok", "(define (g x) (define x 3) x)")
		assertEval(t, ev, "3", "(g 0)")
		assertEval(t, ev, "1", "x")
		// set! writes through to the outer binding
		assertEval(t, ev, "ok", "(define (h) (set! x 10) x)")
		assertEval(t, ev, "10", "(h)")
		assertEval(t, ev, "10", "x")
	}
}

func TestIf(t *testing.T) {
	for _, s := range strategies {
		ev, _ := newTestEvaluator(t, s)
		assertEval(t, ev, "yes", "(if #t 'yes 'no)")
		assertEval(t, ev, "no", "(if #f 'yes 'no)")
		assertEval(t, ev, "no", "(if 0 'yes 'no)")
		assertEval(t, ev, "no", "(if '() 'yes 'no)")
		assertEval(t, ev, "no", "(if 'true 'yes 'no)")
		assertEval(t, ev, "yes", "(if true 'yes 'no)")
		assertEval(t, ev, "#f", "(if #f 'yes)")
		assertEval(t, ev, "yes", "(if (< 1 2) 'yes)")
	}
}

func TestBegin(t *testing.T) {
	for _, s := range strategies {
		ev, out := newTestEvaluator(t, s)
		assertEval(t, ev, "3", `(begin (display "a") (display "b") 3)`)
		assert.Equal(t, "ab", out.String())
		assertEval(t, ev, "ok", `(define (f) (display 1) (newline) (display 2) 'done)`)
		out.Reset()
		assertEval(t, ev, "done", "(f)")
		assert.Equal(t, "1\n2", out.String())
	}
}

func TestCond(t *testing.T) {
	for _, s := range strategies {
		ev, out := newTestEvaluator(t, s)
		assertEval(t, ev, "3", "(cond (#f 1) (#f 2) (else 3))")
		assertEval(t, ev, "3", "(if #f 1 (if #f 2 3))")
		assertEval(t, ev, "#f", "(cond (#f 1))")
		assertEval(t, ev, "#f", "(cond)")
		assertEval(t, ev, "ok", `
(define (classify n)
  (cond ((< n 0) 'negative)
        ((= n 0) (display "zero") 'zero)
        (else 'positive)))`)
		assertEval(t, ev, "(negative zero positive)", "(list (classify -1) (classify 0) (classify 5))")
		assert.Equal(t, "zero", out.String())

		out.Reset()
		_, err := ev.EvalString(`(cond (else (display "reached")) (#t 1))`)
		var cerr *syntax.MalformedCondError
		assert.ErrorAs(t, err, &cerr)
		assert.Equal(t, "", out.String())
		// nested inside a procedure body the error is still structural
		_, err = ev.EvalString(`(define (f) (display "reached") (cond (else 1) (#t 2)))`)
		assert.ErrorAs(t, err, &cerr)
		_, err = ev.Global().Lookup(ev.Symbols().Intern("f"))
		assert.Error(t, err)
		assert.Equal(t, "", out.String())
	}
}

func TestArity(t *testing.T) {
	for _, s := range strategies {
		ev, _ := newTestEvaluator(t, s)
		assertEval(t, ev, "ok", "(define (two a b) a)")
		_, err := ev.EvalString("(two 1)")
		assert.ErrorIs(t, err, environ.ErrTooFewArgs)
		assert.NotErrorIs(t, err, environ.ErrTooManyArgs)
		_, err = ev.EvalString("(two 1 2 3)")
		assert.ErrorIs(t, err, environ.ErrTooManyArgs)
		assert.NotErrorIs(t, err, environ.ErrTooFewArgs)
		var aerr *environ.ArityError
		if assert.ErrorAs(t, err, &aerr) {
			assert.Equal(t, 2, aerr.Params)
			assert.Equal(t, 3, aerr.Args)
		}
		_, err = ev.Global().Lookup(ev.Symbols().Intern("a"))
		assert.Error(t, err)
		_, err = ev.EvalString("(car)")
		assert.ErrorIs(t, err, environ.ErrTooFewArgs)

		assertEval(t, ev, "ok", "(define (rest a . more) more)")
		assertEval(t, ev, "(2 3)", "(rest 1 2 3)")
		assertEval(t, ev, "()", "(rest 1)")
		assertEval(t, ev, "(1 2)", "((lambda args args) 1 2)")
	}
}

func TestUnknownTypes(t *testing.T) {
	for _, s := range strategies {
		ev, _ := newTestEvaluator(t, s)
		_, err := ev.EvalString("(1 2)")
		var perr *UnknownProcedureTypeError
		if assert.ErrorAs(t, err, &perr) {
			assert.EqualError(t, err, "unknown procedure type: 1")
		}
		_, err = ev.EvalString(`("f")`)
		assert.ErrorAs(t, err, &perr)

		var xerr *syntax.UnknownExpressionTypeError
		_, err = ev.EvalString("()")
		assert.ErrorAs(t, err, &xerr)
		_, err = ev.Eval(nil, ev.Global())
		assert.ErrorAs(t, err, &xerr)
	}
}

func TestPrimitiveError(t *testing.T) {
	for _, s := range strategies {
		ev, _ := newTestEvaluator(t, s)
		assertEval(t, ev, "ok", "(define (f x) (car x))")
		_, err := ev.EvalString("(f 1)")
		var aerr *ApplicationError
		if assert.ErrorAs(t, err, &aerr) {
			assert.Equal(t, "(car x)", ev.Format(aerr.Form))
			assert.True(t, strings.HasPrefix(err.Error(), "(car x): "), err.Error())
		}
		var terr *proc.TypeError
		assert.ErrorAs(t, err, &terr)
		assert.Equal(t, []string{"(car x)", "(f 1)"}, Stack(err))

		_, err = ev.EvalString(`(error "bad input:" 42)`)
		var uerr *proc.UserError
		if assert.ErrorAs(t, err, &uerr) {
			assert.Equal(t, "bad input: 42", uerr.Error())
		}
		assert.Equal(t, 0, ev.Stack().Depth())
	}
}

func TestErrorDebugPrint(t *testing.T) {
	ev, _ := newTestEvaluator(t, Eager{})
	_, err := ev.EvalString("(define (f x) (g x)) (define (g x) (/ x 0)) (f 1)")
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.ErrorIs(t, err, proc.ErrDivideByZero)
	var buf bytes.Buffer
	_, perr := e.DebugPrint(&buf)
	require.NoError(t, perr)
	assert.Equal(t, "(/ x 0): division by zero\n"+
		"Stack Trace [3 frames -- entrypoint last]:\n"+
		"  height 2: (/ x 0)\n"+
		"  height 1: (g x)\n"+
		"  height 0: (f 1)\n", buf.String())
}

func TestMap(t *testing.T) {
	for _, s := range strategies {
		ev, _ := newTestEvaluator(t, s)
		assertEval(t, ev, "(1 4 9)", "(map (lambda (x) (* x x)) '(1 2 3))")
		assertEval(t, ev, "(5 7)", "(map + '(1 2) '(4 5 6))")
		assertEval(t, ev, "ok", "(define (id x) x)")
		assertEval(t, ev, "(1 2)", "(map id (list 1 2))")
		_, err := ev.EvalString("(map (lambda (x) (car x)) '(1))")
		var terr *proc.TypeError
		assert.ErrorAs(t, err, &terr)
	}
}

func TestRecursion(t *testing.T) {
	for _, s := range strategies {
		ev, _ := newTestEvaluator(t, s)
		assertEval(t, ev, "ok", `
(define (fact n)
  (if (= n 0)
      1
      (* n (fact (- n 1)))))`)
		assertEval(t, ev, "3628800", "(fact 10)")
		assertEval(t, ev, "ok", `
(define (fib n)
  (cond ((< n 2) n)
        (else (+ (fib (- n 1)) (fib (- n 2))))))`)
		assertEval(t, ev, "55", "(fib 10)")
		assertEval(t, ev, "ok", `
(define (append xs ys)
  (if (null? xs)
      ys
      (cons (car xs) (append (cdr xs) ys))))`)
		assertEval(t, ev, "(1 2 3 4)", "(append '(1 2) '(3 4))")
	}
}

func TestMaxDepth(t *testing.T) {
	for _, s := range strategies {
		ev, _ := newTestEvaluator(t, s, WithMaxDepth(50))
		assertEval(t, ev, "ok", "(define (down n) (if (= n 0) 0 (+ 1 (down (- n 1)))))")
		assertEval(t, ev, "10", "(down 10)")
		_, err := ev.EvalString("(down 1000)")
		var derr *DepthError
		if assert.ErrorAs(t, err, &derr) {
			assert.Equal(t, 50, derr.Max)
		}
		assert.Equal(t, 0, ev.Stack().Depth())
		assertEval(t, ev, "10", "(down 10)")
	}
}

func TestTrace(t *testing.T) {
	var stderr bytes.Buffer
	ev, _ := newTestEvaluator(t, Lazy{}, WithStderr(&stderr), WithTrace(true))
	assertEval(t, ev, "ok", "(define (f x) (+ x 1))")
	assertEval(t, ev, "2", "(f 1)")
	assert.Equal(t, "lazy 1: (f 1)\n  lazy 2: (+ x 1)\n", stderr.String())
}

func TestStats(t *testing.T) {
	ev, _ := newTestEvaluator(t, Eager{})
	assertEval(t, ev, "ok", "(define (f x) (g x)) (define (g x) (+ x 1))")
	ev.Stack().Reset()
	assertEval(t, ev, "2", "(f 1)")
	stats := ev.Stats()
	assert.Equal(t, 3, stats.MaxDepth)
	assert.Equal(t, 3, stats.NumPush)
	assert.Equal(t, 0, stats.Forces)
	var buf bytes.Buffer
	_, err := ev.Stack().FormatStatistics(&buf)
	assert.NoError(t, err)
	assert.Equal(t, "MaxDepth  = 3 -- Depth = 0 -- NumPushes = 3 -- Forces = 0 -- MemoHits = 0", buf.String())
}

func TestApply(t *testing.T) {
	for _, s := range strategies {
		ev, _ := newTestEvaluator(t, s)
		assertEval(t, ev, "ok", "(define (id x) x)")
		id, err := ev.Global().Lookup(ev.Symbols().Intern("id"))
		require.NoError(t, err)
		v, err := ev.Apply(id, []lisp.LVal{lisp.Int(9)})
		assert.NoError(t, err)
		assert.Equal(t, "9", ev.Format(v))
		_, err = ev.Apply(lisp.Int(1), nil)
		var perr *UnknownProcedureTypeError
		assert.ErrorAs(t, err, &perr)
	}
}

func TestLazyUnusedArgument(t *testing.T) {
	lazyEv, _ := newTestEvaluator(t, Lazy{})
	assertEval(t, lazyEv, "ok", "(define (first a b) a)")
	assertEval(t, lazyEv, "1", "(first 1 (undefined-variable))")
	assertEval(t, lazyEv, "ok", "(define (try a b) (if (= a 0) 1 b))")
	assertEval(t, lazyEv, "1", "(try 0 (/ 1 0))")

	eagerEv, _ := newTestEvaluator(t, Eager{})
	assertEval(t, eagerEv, "ok", "(define (first a b) a)")
	_, err := eagerEv.EvalString("(first 1 (undefined-variable))")
	var uerr *environ.UnboundVariableError
	if assert.ErrorAs(t, err, &uerr) {
		assert.Equal(t, "unbound variable: undefined-variable", uerr.Error())
	}
	_, err = eagerEv.EvalString("(define (try a b) (if (= a 0) 1 b)) (try 0 (/ 1 0))")
	assert.ErrorIs(t, err, proc.ErrDivideByZero)
}

func TestLazyRestArguments(t *testing.T) {
	ev, _ := newTestEvaluator(t, Lazy{})
	assertEval(t, ev, "ok", "(define (f x . xs) (if (null? xs) x (car xs)))")
	assertEval(t, ev, "2", "(f (undefined-variable) 2)")
	assertEval(t, ev, "ok", "(define (g . xs) xs)")
	v, err := ev.EvalString("(g 1 (+ 1 1))")
	require.NoError(t, err)
	items, ok := lisp.Slice(v)
	require.True(t, ok)
	for _, x := range items {
		assert.Equal(t, lisp.LInt, x.Type())
	}
	// rest operands are evaluated at the call site
	_, err = ev.EvalString("(define (h . xs) 1) (h (undefined-variable))")
	var uerr *environ.UnboundVariableError
	assert.ErrorAs(t, err, &uerr)
}

func TestLazyMemoization(t *testing.T) {
	for _, s := range strategies {
		ev, _ := newTestEvaluator(t, s)
		var count int
		err := ev.DefinePrimitive("count!", proc.Simple(nil, "Increments and returns a counter.",
			func(ctx proc.Context, args []lisp.LVal) (lisp.LVal, error) {
				count++
				return lisp.Int(count), nil
			}))
		require.NoError(t, err)
		assertEval(t, ev, "ok", "(define (triple x) (+ x x x))")
		assertEval(t, ev, "3", "(triple (count!))")
		assert.Equal(t, 1, count, s.Name())
		assertEval(t, ev, "ok", "(define (ignore x) 'ignored)")
		assertEval(t, ev, "ignored", "(ignore (count!))")
		if s.Name() == "lazy" {
			assert.Equal(t, 1, count)
		} else {
			assert.Equal(t, 2, count)
		}
	}
}

func TestLazyStats(t *testing.T) {
	ev, _ := newTestEvaluator(t, Lazy{})
	assertEval(t, ev, "ok", "(define (triple x) (+ x x x))")
	ev.Stack().Reset()
	assertEval(t, ev, "9", "(triple 3)")
	stats := ev.Stats()
	assert.Equal(t, 1, stats.Forces)
	assert.Equal(t, 2, stats.Hits)
}

func TestLazyResultForced(t *testing.T) {
	ev, _ := newTestEvaluator(t, Lazy{})
	assertEval(t, ev, "ok", "(define (id x) x)")
	v, err := ev.EvalString("(id (+ 1 2))")
	require.NoError(t, err)
	assert.Equal(t, lisp.LInt, v.Type())
	// a variable bound to a thunk evaluates to the thunk itself
	assertEval(t, ev, "ok", "(define (peek x) (define y x) y)")
	assertEval(t, ev, "5", "(peek 5)")
	assertEval(t, ev, "ok", "(define (op-thunk f) (f 2))")
	assertEval(t, ev, "4", "(op-thunk (lambda (x) (* x x)))")
}

func TestSharedGlobal(t *testing.T) {
	table := symbol.CopyGlobalTable()
	global, err := InitGlobalEnvironment(table)
	require.NoError(t, err)
	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ev, err := New(WithSymbols(table), WithGlobal(global), WithStrategy(strategies[i%2]))
			if err != nil {
				errs[i] = err
				return
			}
			_, errs[i] = ev.EvalString(fmt.Sprintf("(define v%d (* %d %d))", i, i, i))
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		require.NoError(t, err)
		v, err := global.Lookup(table.Intern(fmt.Sprintf("v%d", i)))
		if assert.NoError(t, err) {
			x, _ := lisp.GetInt(v)
			assert.Equal(t, i*i, x)
		}
	}
}

func TestLoad(t *testing.T) {
	ev, _ := newTestEvaluator(t, Eager{})
	v, err := ev.Load("prog.scm", strings.NewReader("; empty\n"))
	assert.NoError(t, err)
	assert.True(t, lisp.IsNil(v))
	_, err = ev.Load("prog.scm", strings.NewReader("(define x"))
	assert.Error(t, err)
	assert.False(t, errors.As(err, new(*Error)))
}
