package eval

import (
	"fmt"
	"io"

	"github.com/luthersystems/mceval/pkg/lazy"
	"github.com/luthersystems/mceval/pkg/lisp"
	"github.com/luthersystems/mceval/pkg/symbol"
)

// CallFrame is one procedure application in progress.
type CallFrame struct {
	// Form is the application being evaluated.
	Form lisp.LVal
}

// CallStack is the stack of applications in progress along with statistics
// collected since it was last reset.
type CallStack struct {
	// Frames contains stack frames.  Index 0 is the bottom of the stack.
	Frames   []CallFrame
	MaxDepth int
	NumPush  int
	Lazy     lazy.Stats
}

// Stats is a snapshot of evaluation statistics.
type Stats struct {
	MaxDepth int
	NumPush  int
	Forces   int
	Hits     int
}

// Depth returns the number of frames on the stack.
func (s *CallStack) Depth() int {
	return len(s.Frames)
}

// Push places f at the top of the stack.
func (s *CallStack) Push(f CallFrame) {
	s.Frames = append(s.Frames, f)
	if len(s.Frames) > s.MaxDepth {
		s.MaxDepth = len(s.Frames)
	}
	s.NumPush++
}

// Pop removes the top frame and returns it.
func (s *CallStack) Pop() CallFrame {
	if len(s.Frames) == 0 {
		panic("pop called on an empty stack")
	}
	f := s.Frames[len(s.Frames)-1]
	s.Frames[len(s.Frames)-1] = CallFrame{}
	s.Frames = s.Frames[:len(s.Frames)-1]
	return f
}

// Top returns the frame at the top of the stack or nil if the stack is
// empty.
func (s *CallStack) Top() *CallFrame {
	if len(s.Frames) == 0 {
		return nil
	}
	return &s.Frames[len(s.Frames)-1]
}

// Trace renders the stack's frames, innermost first.
func (s *CallStack) Trace(table symbol.Table) []string {
	trace := make([]string, 0, len(s.Frames))
	for i := len(s.Frames) - 1; i >= 0; i-- {
		trace = append(trace, lisp.Sprint(s.Frames[i].Form, table))
	}
	return trace
}

// Stats returns the statistics collected by s.
func (s *CallStack) Stats() Stats {
	return Stats{
		MaxDepth: s.MaxDepth,
		NumPush:  s.NumPush,
		Forces:   s.Lazy.Forces,
		Hits:     s.Lazy.Hits,
	}
}

// FormatStatistics writes statistics about the stack to w.
func (s *CallStack) FormatStatistics(w io.Writer) (int, error) {
	return fmt.Fprintf(w,
		"MaxDepth  = %d -- Depth = %d -- NumPushes = %d -- Forces = %d -- MemoHits = %d",
		s.MaxDepth, len(s.Frames), s.NumPush, s.Lazy.Forces, s.Lazy.Hits)
}

// Reset clears statistics.  Frames in progress are retained.
func (s *CallStack) Reset() {
	s.MaxDepth = len(s.Frames)
	s.NumPush = 0
	s.Lazy = lazy.Stats{}
}
