package syntax

import (
	"fmt"

	"github.com/luthersystems/mceval/pkg/lisp"
	"github.com/luthersystems/mceval/pkg/symbol"
)

// SyntaxError is returned when a special form is structurally malformed,
// e.g. (if) or (lambda (x)).
type SyntaxError struct {
	Form    string
	Msg     string
	Datum   lisp.LVal
	Symbols symbol.Table
}

func (err *SyntaxError) Error() string {
	return fmt.Sprintf("malformed %s: %s: %s", err.Form, err.Msg, lisp.Sprint(err.Datum, err.Symbols))
}

// MalformedCondError is returned when a cond expression has clauses
// following its else clause.
type MalformedCondError struct {
	Datum   lisp.LVal
	Symbols symbol.Table
}

func (err *MalformedCondError) Error() string {
	return fmt.Sprintf("else clause is not last: %s", lisp.Sprint(err.Datum, err.Symbols))
}

// UnknownExpressionTypeError is returned for data that are not expressions,
// such as the empty list or host values.
type UnknownExpressionTypeError struct {
	Datum   lisp.LVal
	Symbols symbol.Table
}

func (err *UnknownExpressionTypeError) Error() string {
	return fmt.Sprintf("unknown expression type: %s", lisp.Sprint(err.Datum, err.Symbols))
}
