// Package id names on-disk artifacts, such as backup archives, with
// ULIDs. ULIDs sort lexicographically by creation time, so a plain
// string sort of names is also a time sort.
package id

import "github.com/oklog/ulid/v2"

// New returns a fresh ULID string. Safe for concurrent use; ids created
// within the same millisecond still sort in creation order.
func New() string {
	return ulid.Make().String()
}
