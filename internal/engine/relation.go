package engine

import (
	"github.com/roach88/relq/internal/value"
)

// Relation is the capability shared by every operator.
//
// Next returns the next row, or io.EOF once the relation is exhausted. A
// relation is single pass: after io.EOF every further call returns io.EOF.
//
// Attributes returns the ordered column names. It is recomputed per call.
// For every row returned by Next, len(row) == len(Attributes()) at that
// moment.
type Relation interface {
	Next() (value.Row, error)
	Attributes() []string
}

// Unary is implemented by operators that wrap a child relation.
// Scans do not implement it.
type Unary interface {
	Relation
	Child() Relation
}

// indexOf returns the position of the first attribute equal to name,
// or -1.
func indexOf(attrs []string, name string) int {
	for i, attr := range attrs {
		if attr == name {
			return i
		}
	}
	return -1
}
