package environ

import (
	"sync"

	"github.com/luthersystems/mceval/pkg/lisp"
	"github.com/luthersystems/mceval/pkg/symbol"
)

// Frame is one scope level: an ordered mapping from variable names to their
// current values.  A Frame is shared by reference between every environment
// and closure built on top of it, so an update through any holder is
// visible to all of them.  Frame methods are safe for concurrent use.
type Frame struct {
	mut   sync.RWMutex
	names []symbol.ID
	vals  []lisp.LVal
	index map[symbol.ID]int
}

// NewFrame returns an empty frame with capacity for n bindings.
func NewFrame(n int) *Frame {
	return &Frame{
		names: make([]symbol.ID, 0, n),
		vals:  make([]lisp.LVal, 0, n),
		index: make(map[symbol.ID]int, n),
	}
}

// Len returns the number of variables bound in f.
func (f *Frame) Len() int {
	f.mut.RLock()
	defer f.mut.RUnlock()
	return len(f.names)
}

// Names returns the bound variables in the order they were first bound.
func (f *Frame) Names() []symbol.ID {
	f.mut.RLock()
	defer f.mut.RUnlock()
	names := make([]symbol.ID, len(f.names))
	copy(names, f.names)
	return names
}

// Get returns the value bound to name.
func (f *Frame) Get(name symbol.ID) (lisp.LVal, bool) {
	f.mut.RLock()
	defer f.mut.RUnlock()
	i, ok := f.index[name]
	if !ok {
		return lisp.Nil(), false
	}
	return f.vals[i], true
}

// Put binds name to v.  If name was previously bound its entry is updated in
// place, otherwise a new binding is created.
func (f *Frame) Put(name symbol.ID, v lisp.LVal) {
	f.mut.Lock()
	defer f.mut.Unlock()
	f.put(name, v)
}

func (f *Frame) put(name symbol.ID, v lisp.LVal) {
	if i, ok := f.index[name]; ok {
		f.vals[i] = v
		return
	}
	f.index[name] = len(f.names)
	f.names = append(f.names, name)
	f.vals = append(f.vals, v)
}

// Set updates an existing binding for name.  Set returns false and leaves f
// unchanged if name is not bound in f.
func (f *Frame) Set(name symbol.ID, v lisp.LVal) bool {
	f.mut.Lock()
	defer f.mut.Unlock()
	i, ok := f.index[name]
	if !ok {
		return false
	}
	f.vals[i] = v
	return true
}
