package symbol

import "sync/atomic"

// ID identifies an interned symbol within a Table.  The zero ID is never
// assigned to a symbol.
type ID uint64

// MaxID is the largest ID a Table will assign.
const MaxID = 0x00000000FFFFFFFF

// IDGen generates unique IDs.
type IDGen interface {
	// NewID returns an ID that has not been returned before.
	NewID() ID
}

// NewIDGen returns an IDGen that generates sequential ids greater than min.
func NewIDGen(min ID) IDGen {
	if min > MaxID {
		panic("invalid min ID")
	}
	return &gen{last: uint64(min)}
}

type gen struct {
	last uint64
}

var _ IDGen = (*gen)(nil)

func (g *gen) NewID() ID {
	id := atomic.AddUint64(&g.last, 1)
	if id > MaxID {
		panic("too many ids generated")
	}
	return ID(id)
}

// String is equivalent to calling String(id, DefaultGlobalTable).
func (id ID) String() string {
	return String(id, DefaultGlobalTable)
}
