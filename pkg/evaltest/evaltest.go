// Package evaltest runs string driven evaluator tests.  A TestSequence is
// evaluated expression by expression by one evaluator and each formatted
// result (or error message) is compared with its expectation.
package evaltest

import (
	"strings"
	"testing"

	"github.com/luthersystems/mceval/pkg/eval"
	"github.com/stretchr/testify/assert"
)

// TestSequence is a sequence of expressions which are evaluated
// sequentially by an eval.Evaluator.
type TestSequence []struct {
	Expr   string // source text of one or more expressions
	Result string // the formatted result, or the error message
}

// TestSuite is a set of named TestSequences
type TestSuite []struct {
	Name string
	TestSequence
}

// Runner is a test runner.
type Runner struct {
	// Strategies lists the strategies each suite is run with.  When empty
	// the suite is run with both eval.Eager and eval.Lazy.
	Strategies []eval.Strategy
	// Options are applied to each new evaluator after the strategy.
	Options []eval.Option
}

// NewEvaluator returns an evaluator using strategy s whose program output is
// written to the test log.
func (r *Runner) NewEvaluator(t testing.TB, s eval.Strategy) *eval.Evaluator {
	t.Helper()
	opts := append([]eval.Option{
		eval.WithStrategy(s),
		eval.WithStdout(logWriter{t}),
		eval.WithStderr(logWriter{t}),
	}, r.Options...)
	ev, err := eval.New(opts...)
	if err != nil {
		t.Fatalf("failed to initialize evaluator: %v", err)
	}
	return ev
}

func (r *Runner) strategies() []eval.Strategy {
	if len(r.Strategies) == 0 {
		return []eval.Strategy{eval.Eager{}, eval.Lazy{}}
	}
	return r.Strategies
}

// RunTestSuite runs each TestSequence in tests on an isolated evaluator,
// once for each strategy.
func (r *Runner) RunTestSuite(t *testing.T, tests TestSuite) {
	for _, s := range r.strategies() {
		s := s
		t.Run(s.Name(), func(t *testing.T) {
			for i, test := range tests {
				ev := r.NewEvaluator(t, s)
				for j, expr := range test.TestSequence {
					result := Eval(ev, expr.Expr)
					if !assert.Equal(t, expr.Result, result, "test %d %q: expr %d: %s", i, test.Name, j, expr.Expr) {
						break
					}
				}
			}
		})
	}
}

// RunTestSuite runs tests with a default Runner.
func RunTestSuite(t *testing.T, tests TestSuite) {
	(&Runner{}).RunTestSuite(t, tests)
}

// Eval evaluates src with ev and returns the formatted result of its last
// expression, or the error message if evaluation failed.
func Eval(ev *eval.Evaluator, src string) string {
	v, err := ev.EvalString(src)
	if err != nil {
		return err.Error()
	}
	return ev.Format(v)
}

// logWriter writes to a test log.
type logWriter struct {
	t testing.TB
}

func (w logWriter) Write(b []byte) (int, error) {
	w.t.Log(strings.TrimSuffix(string(b), "\n"))
	return len(b), nil
}
