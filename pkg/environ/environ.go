// Package environ implements lexical environments: chains of frames searched
// from the innermost frame outward.
package environ

import (
	"github.com/luthersystems/mceval/pkg/lisp"
	"github.com/luthersystems/mceval/pkg/symbol"
)

// Environ is a lexical environment.  Environ contains a frame of local
// bindings and a parent environment.  Environ is in the scope of its
// parent's bindings.  The nil *Environ is the empty environment.
type Environ struct {
	parent *Environ
	frame  *Frame
}

// New returns an environment whose innermost frame is frame.  If frame is nil
// a new empty frame is used.  If parent is nil the returned environment is a
// root (global) environment.
func New(parent *Environ, frame *Frame) *Environ {
	if frame == nil {
		frame = NewFrame(0)
	}
	return &Environ{parent: parent, frame: frame}
}

// Params is a parameter list.  When Rest is non-zero it names a variable
// bound to the list of arguments remaining after Fixed are bound.
type Params struct {
	Fixed []symbol.ID
	Rest  symbol.ID
}

// Variadic returns true if p binds a rest variable.
func (p Params) Variadic() bool {
	return p.Rest != 0
}

// Extend returns a new environment that binds params positionally to args
// in a fresh frame in front of parent.  Extend returns an *ArityError and
// binds nothing if the lists disagree in length.
func Extend(parent *Environ, params Params, args []lisp.LVal) (*Environ, error) {
	nparam := len(params.Fixed)
	switch {
	case len(args) < nparam:
		return nil, &ArityError{Kind: TooFewArgs, Params: nparam, Args: len(args), Variadic: params.Variadic()}
	case len(args) > nparam && !params.Variadic():
		return nil, &ArityError{Kind: TooManyArgs, Params: nparam, Args: len(args)}
	}
	n := nparam
	if params.Variadic() {
		n++
	}
	frame := NewFrame(n)
	for i, name := range params.Fixed {
		frame.put(name, args[i])
	}
	if params.Variadic() {
		frame.put(params.Rest, lisp.List(args[nparam:]...))
	}
	return New(parent, frame), nil
}

// Parent returns the enclosing environment, nil for a root environment.
func (env *Environ) Parent() *Environ {
	if env == nil {
		return nil
	}
	return env.parent
}

// Root returns the outermost environment of the chain.
func (env *Environ) Root() *Environ {
	if env == nil {
		return nil
	}
	for env.parent != nil {
		env = env.parent
	}
	return env
}

// Frame returns the innermost frame of env.
func (env *Environ) Frame() *Frame {
	if env == nil {
		return nil
	}
	return env.frame
}

// Depth returns the number of frames in the chain.
func (env *Environ) Depth() int {
	n := 0
	for ; env != nil; env = env.parent {
		n++
	}
	return n
}

// Lookup returns the value bound to name in the innermost frame that binds
// it.  Lookup returns an *UnboundVariableError if no frame binds name.
func (env *Environ) Lookup(name symbol.ID) (lisp.LVal, error) {
	for ; env != nil; env = env.parent {
		if v, ok := env.frame.Get(name); ok {
			return v, nil
		}
	}
	return lisp.Nil(), &UnboundVariableError{Name: name}
}

// SetVar overwrites the existing binding of name in the innermost frame that
// binds it.  SetVar never creates a binding; it returns an
// *UnboundVariableError if no frame binds name.
func (env *Environ) SetVar(name symbol.ID, v lisp.LVal) error {
	for ; env != nil; env = env.parent {
		if env.frame.Set(name, v) {
			return nil
		}
	}
	return &UnboundVariableError{Name: name}
}

// Define binds name to v in the innermost frame of env, shadowing any
// binding of name in enclosing frames.  Outer frames are never searched.
func (env *Environ) Define(name symbol.ID, v lisp.LVal) error {
	if env == nil {
		return ErrEmptyEnvironment
	}
	env.frame.Put(name, v)
	return nil
}
