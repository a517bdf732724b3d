package reader

import (
	"strings"
	"testing"

	"github.com/luthersystems/mceval/pkg/lisp"
	"github.com/luthersystems/mceval/pkg/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	table := symbol.CopyGlobalTable()
	for _, test := range []struct {
		src    string
		expect string
	}{
		{"1", "1"},
		{"-12", "-12"},
		{"+7", "7"},
		{"1.5", "1.5"},
		{"-.5", "-0.5"},
		{"1e3", "1000"},
		{"abc", "abc"},
		{"-", "-"},
		{"set!", "set!"},
		{"1+", "1+"},
		{`"hi\tthere"`, `"hi\tthere"`},
		{"#t", "#t"},
		{"#f", "#f"},
		{"()", "()"},
		{"(1 (2 3) ())", "(1 (2 3) ())"},
		{"(a . b)", "(a . b)"},
		{"(a b . c)", "(a b . c)"},
		{"'x", "(quote x)"},
		{"'(1 2)", "(quote (1 2))"},
		{"; comment\n(+ 1 ; inline\n 2)", "(+ 1 2)"},
	} {
		data, err := ReadString(table, "test", test.src)
		if assert.NoError(t, err, "source: %q", test.src) && assert.Len(t, data, 1, "source: %q", test.src) {
			assert.Equal(t, test.expect, lisp.Sprint(data[0], table), "source: %q", test.src)
		}
	}
}

func TestReadProgram(t *testing.T) {
	rd := New(nil)
	data, err := rd.Read("main.scm", strings.NewReader("(define x 5)\n(set! x (+ x 1))\nx\n"))
	require.NoError(t, err)
	assert.Len(t, data, 3)
	id, ok := lisp.GetSymbol(data[2])
	if assert.True(t, ok) {
		assert.Equal(t, symbol.Intern("x"), id)
	}
	data, err = rd.ReadString("empty", "  ; nothing\n")
	assert.NoError(t, err)
	assert.Len(t, data, 0)
}

func TestReadIncomplete(t *testing.T) {
	for _, src := range []string{
		"(",
		"(define (f x)\n  (+ x",
		"'",
		`"abc`,
		"(a .",
		"(a . b",
	} {
		_, err := ReadString(nil, "test", src)
		if assert.Error(t, err, "source: %q", src) {
			assert.True(t, Incomplete(err), "source: %q error: %v", src, err)
		}
	}
}

func TestReadErrors(t *testing.T) {
	for _, src := range []string{
		")",
		"(. a)",
		"(a . b c)",
		"99999999999999999999999",
	} {
		_, err := ReadString(nil, "test", src)
		if assert.Error(t, err, "source: %q", src) {
			assert.False(t, Incomplete(err), "source: %q", src)
		}
	}
	_, err := ReadString(nil, "main.scm", "\n  )")
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "main.scm:2:3")
	}
}
