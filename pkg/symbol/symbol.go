package symbol

import "fmt"

const unknownFormat = "#<SYMBOL %#x>"

// String returns the name of id in table.  Unknown ids are rendered with a
// diagnostic placeholder so that String never fails.
func String(id ID, table Table) string {
	if table != nil {
		if s, ok := table.Symbol(id); ok {
			return s
		}
	}
	return fmt.Sprintf(unknownFormat, uint64(id))
}
