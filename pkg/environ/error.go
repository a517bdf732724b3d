package environ

import (
	"errors"
	"fmt"

	"github.com/luthersystems/mceval/pkg/symbol"
)

// ErrEmptyEnvironment is returned when a binding is created in the empty
// environment.
var ErrEmptyEnvironment = errors.New("empty environment")

// UnboundVariableError is returned when no frame along an environment chain
// binds a variable.
type UnboundVariableError struct {
	Name symbol.ID
	// Symbols is used to render Name.  When nil the default global table is
	// used.
	Symbols symbol.Table
}

func (err *UnboundVariableError) Error() string {
	table := err.Symbols
	if table == nil {
		table = symbol.DefaultGlobalTable
	}
	return fmt.Sprintf("unbound variable: %s", symbol.String(err.Name, table))
}

// ArityKind distinguishes the two ways a parameter list and an argument list
// can disagree.
type ArityKind uint8

const (
	// TooManyArgs indicates more arguments than parameters.
	TooManyArgs ArityKind = iota + 1
	// TooFewArgs indicates more parameters than arguments.
	TooFewArgs
)

func (k ArityKind) String() string {
	switch k {
	case TooManyArgs:
		return "too many arguments supplied"
	case TooFewArgs:
		return "too few arguments supplied"
	default:
		return fmt.Sprintf("ArityKind(%d)", uint8(k))
	}
}

// Sentinel values that match any ArityError of the corresponding kind with
// errors.Is.
var (
	ErrTooManyArgs = &ArityError{Kind: TooManyArgs}
	ErrTooFewArgs  = &ArityError{Kind: TooFewArgs}
)

// ArityError is returned when an environment is extended with parameter and
// argument lists of different lengths.
type ArityError struct {
	Kind   ArityKind
	Params int
	Args   int
	// Variadic is true if the parameter list accepts any number of trailing
	// arguments.  Only TooFewArgs is possible for a variadic list.
	Variadic bool
}

func (err *ArityError) Error() string {
	if err.Variadic {
		return fmt.Sprintf("%v: want at least %d, got %d", err.Kind, err.Params, err.Args)
	}
	return fmt.Sprintf("%v: want %d, got %d", err.Kind, err.Params, err.Args)
}

// Is reports whether target is an ArityError of the same kind.
func (err *ArityError) Is(target error) bool {
	t, ok := target.(*ArityError)
	return ok && t.Kind == err.Kind
}
