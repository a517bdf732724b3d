package eval

import (
	"errors"
	"fmt"
	"io"

	"github.com/luthersystems/mceval/pkg/lisp"
	"github.com/luthersystems/mceval/pkg/symbol"
)

// Error is an error raised during a procedure application.  Stack records
// the applications that were in progress, innermost first.
type Error struct {
	Err   error
	Stack []string
}

func (err *Error) Error() string {
	return err.Err.Error()
}

func (err *Error) Unwrap() error {
	return err.Err
}

// DebugPrint writes err and its stack trace to w.
func (err *Error) DebugPrint(w io.Writer) (int, error) {
	n, e := fmt.Fprintf(w, "%v\nStack Trace [%d frames -- entrypoint last]:\n", err.Err, len(err.Stack))
	if e != nil {
		return n, e
	}
	for i, form := range err.Stack {
		_n, e := fmt.Fprintf(w, "  height %d: %s\n", len(err.Stack)-1-i, form)
		n += _n
		if e != nil {
			return n, e
		}
	}
	return n, nil
}

// UnknownProcedureTypeError is returned when the operator of an application
// is not a procedure.
type UnknownProcedureTypeError struct {
	Value   lisp.LVal
	Symbols symbol.Table
}

func (err *UnknownProcedureTypeError) Error() string {
	return fmt.Sprintf("unknown procedure type: %s", lisp.Sprint(err.Value, err.Symbols))
}

// ApplicationError attributes the failure of a primitive procedure to the
// application that invoked it.
type ApplicationError struct {
	Form    lisp.LVal
	Symbols symbol.Table
	Err     error
}

func (err *ApplicationError) Error() string {
	return fmt.Sprintf("%s: %v", lisp.Sprint(err.Form, err.Symbols), err.Err)
}

func (err *ApplicationError) Unwrap() error {
	return err.Err
}

// DepthError is returned when applications nest deeper than the configured
// maximum.
type DepthError struct {
	Max int
}

func (err *DepthError) Error() string {
	return fmt.Sprintf("maximum call depth exceeded: %d", err.Max)
}

// Stack returns the stack trace attached to err, if any.
func Stack(err error) []string {
	var e *Error
	if errors.As(err, &e) {
		return e.Stack
	}
	return nil
}
