package lazy

import (
	"errors"
	"testing"

	"github.com/luthersystems/mceval/pkg/environ"
	"github.com/luthersystems/mceval/pkg/lisp"
	"github.com/luthersystems/mceval/pkg/reader"
	"github.com/luthersystems/mceval/pkg/symbol"
	"github.com/luthersystems/mceval/pkg/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingEvaluator resolves variables and literals and counts evaluations.
type countingEvaluator struct {
	calls int
	fail  error
}

func (ev *countingEvaluator) ActualValue(x syntax.Expr, env *environ.Environ) (lisp.LVal, error) {
	ev.calls++
	if ev.fail != nil {
		return lisp.Nil(), ev.fail
	}
	switch x := x.(type) {
	case *syntax.Literal:
		return x.Value, nil
	case *syntax.Variable:
		v, err := env.Lookup(x.Name)
		if err != nil {
			return lisp.Nil(), err
		}
		return Force(ev, v, nil)
	default:
		return lisp.Nil(), errors.New("unsupported expression")
	}
}

func parse(t *testing.T, src string) syntax.Expr {
	t.Helper()
	data, err := reader.ReadString(nil, "test", src)
	require.NoError(t, err)
	x, err := syntax.Parse(data[0], nil)
	require.NoError(t, err)
	return x
}

func TestForce(t *testing.T) {
	ev := &countingEvaluator{}
	env := environ.New(nil, nil)
	v := Delay(parse(t, "42"), env)
	thunk, ok := GetThunk(v)
	require.True(t, ok)
	assert.True(t, IsThunk(v))
	assert.False(t, thunk.Forced())
	assert.Equal(t, "#<thunk 42>", lisp.Sprint(v, nil))

	var stats Stats
	for i := 0; i < 3; i++ {
		x, err := Force(ev, v, &stats)
		if assert.NoError(t, err) {
			assert.Equal(t, "42", lisp.Sprint(x, nil))
		}
	}
	assert.Equal(t, 1, ev.calls)
	assert.Equal(t, 1, stats.Forces)
	assert.Equal(t, 2, stats.Hits)
	assert.True(t, thunk.Forced())
	assert.Nil(t, thunk.Expr())
	assert.Nil(t, thunk.Env())
	val, ok := thunk.Value()
	assert.True(t, ok)
	assert.Equal(t, "42", lisp.Sprint(val, nil))
	assert.Equal(t, "42", lisp.Sprint(v, nil))
}

func TestForceValue(t *testing.T) {
	ev := &countingEvaluator{}
	v, err := Force(ev, lisp.Int(7), nil)
	assert.NoError(t, err)
	assert.Equal(t, "7", lisp.Sprint(v, nil))
	assert.Equal(t, 0, ev.calls)
	assert.False(t, IsThunk(v))
}

func TestForceChain(t *testing.T) {
	ev := &countingEvaluator{}
	env := environ.New(nil, nil)
	x := symbol.Intern("x")
	require.NoError(t, env.Define(x, Delay(parse(t, "1"), env)))
	outer := Delay(parse(t, "x"), env)
	v, err := Force(ev, outer, nil)
	if assert.NoError(t, err) {
		assert.Equal(t, "1", lisp.Sprint(v, nil))
	}
	inner, _ := env.Lookup(x)
	thunk, _ := GetThunk(inner)
	assert.True(t, thunk.Forced())
}

func TestForceError(t *testing.T) {
	fail := errors.New("boom")
	ev := &countingEvaluator{fail: fail}
	v := Delay(parse(t, "1"), environ.New(nil, nil))
	_, err := Force(ev, v, nil)
	assert.ErrorIs(t, err, fail)
	thunk, _ := GetThunk(v)
	assert.False(t, thunk.Forced())
	assert.NotNil(t, thunk.Expr())

	ev.fail = nil
	x, err := Force(ev, v, nil)
	assert.NoError(t, err)
	assert.Equal(t, "1", lisp.Sprint(x, nil))
	assert.Equal(t, 2, ev.calls)
}

func TestCircularForce(t *testing.T) {
	ev := &countingEvaluator{}
	env := environ.New(nil, nil)
	x := symbol.Intern("x")
	v := Delay(parse(t, "x"), env)
	require.NoError(t, env.Define(x, v))
	_, err := Force(ev, v, nil)
	assert.ErrorIs(t, err, ErrCircularForce)
}
