package store

import (
	"fmt"
	"strings"
)

// RowError pins one unparseable row to its line in the backing file.
type RowError struct {
	Line   int
	Reason string
}

// CorruptError reports a backing file that exists but cannot be read as
// a trade journal. It carries enough detail for a caller to show which
// rows or columns are at fault.
type CorruptError struct {
	Path    string
	Missing []string   // required columns absent from the header
	Rows    []RowError // rows that failed to parse
}

func (e *CorruptError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "corrupt journal %s", e.Path)
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, ": missing columns %s", strings.Join(e.Missing, ", "))
	}
	for _, r := range e.Rows {
		fmt.Fprintf(&b, "; line %d: %s", r.Line, r.Reason)
	}
	return b.String()
}
