package symbol

import (
	"sort"
	"sync"
)

// DefaultGlobalTable is the process-wide symbol table.  Packages intern the
// symbols they reserve (special form tags, builtin names) into it during
// init.  Evaluators that want isolation should start from CopyGlobalTable.
var DefaultGlobalTable Exporter = NewGlobalTable()

// Intern uses DefaultGlobalTable to intern s and returns its ID.
func Intern(s string) ID {
	return DefaultGlobalTable.Intern(s)
}

// Table maps symbol IDs to names.
type Table interface {
	// Len returns the number of symbols interned in the table.
	Len() int
	// Intern inserts name into the table if it is not present and returns
	// its ID.
	Intern(name string) ID
	// Peek retrieves the ID of name without interning it.
	Peek(name string) (ID, bool)
	// Symbol returns the name associated with id.
	Symbol(id ID) (string, bool)
}

// Exporter is a table that can dump its symbol mapping.
type Exporter interface {
	Table
	// Export returns every row of the table sorted by symbol name.
	Export() []TableRow
}

// TableRow is one symbol mapping.
type TableRow struct {
	Symbol string
	ID     ID
}

// NewGlobalTable returns an empty Exporter.
func NewGlobalTable() Exporter {
	return newTable()
}

// NewTable returns a Table initialized with rows.
func NewTable(rows ...TableRow) Table {
	return newTable(rows...)
}

// CopyGlobalTable is equivalent to NewTable(DefaultGlobalTable.Export()...)
// but returns an Exporter.  IDs interned in DefaultGlobalTable before the
// copy remain valid in the copy.
func CopyGlobalTable() Exporter {
	return newTable(DefaultGlobalTable.Export()...)
}

type table struct {
	mut sync.RWMutex
	g   IDGen
	ids map[ID]string
	sym map[string]ID
}

var _ Exporter = (*table)(nil)

func newTable(rows ...TableRow) *table {
	t := &table{
		ids: make(map[ID]string, len(rows)),
		sym: make(map[string]ID, len(rows)),
	}
	var max ID
	for _, r := range rows {
		t.ids[r.ID] = r.Symbol
		t.sym[r.Symbol] = r.ID
		if r.ID > max {
			max = r.ID
		}
	}
	t.g = NewIDGen(max)
	return t
}

func (t *table) Len() int {
	t.mut.RLock()
	defer t.mut.RUnlock()
	return len(t.sym)
}

func (t *table) Export() []TableRow {
	t.mut.RLock()
	defer t.mut.RUnlock()
	rows := make([]TableRow, 0, len(t.sym))
	for s, id := range t.sym {
		rows = append(rows, TableRow{Symbol: s, ID: id})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Symbol < rows[j].Symbol })
	return rows
}

func (t *table) Intern(s string) ID {
	t.mut.Lock()
	defer t.mut.Unlock()
	if id, ok := t.sym[s]; ok {
		return id
	}
	id := t.g.NewID()
	t.sym[s] = id
	t.ids[id] = s
	return id
}

func (t *table) Peek(s string) (ID, bool) {
	t.mut.RLock()
	defer t.mut.RUnlock()
	id, ok := t.sym[s]
	return id, ok
}

func (t *table) Symbol(id ID) (string, bool) {
	t.mut.RLock()
	defer t.mut.RUnlock()
	s, ok := t.ids[id]
	return s, ok
}
