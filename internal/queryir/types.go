package queryir

import (
	"strings"

	"github.com/roach88/relq/internal/value"
)

// Expr is a scalar or boolean expression evaluated against one row.
//
// This is a sealed interface - only types in this package implement it.
// Expressions are built once while lowering and never mutated afterwards;
// the evaluator walks the same tree for every row.
type Expr interface {
	exprNode() // Marker method - seals interface to this package
}

// Column references a column of the input relation by name.
// The name is resolved against the relation's attributes on every
// evaluation, never cached.
type Column struct {
	Name string
}

func (Column) exprNode() {}

// Literal is a constant value.
type Literal struct {
	Value value.Value
}

func (Literal) exprNode() {}

// Op is a binary operator.
type Op string

// Supported binary operators.
const (
	OpAnd     Op = "AND"
	OpOr      Op = "OR"
	OpGreater Op = ">"
)

// Binary applies Op to two operands.
//
// Both operands are always evaluated, left first. AND and OR do not
// short-circuit: an error in the right operand aborts evaluation even when
// the left operand already decides the result.
type Binary struct {
	Op    Op
	Left  Expr
	Right Expr
}

func (Binary) exprNode() {}

// Target is one entry of the SELECT list.
//
// This is a sealed interface - only Wildcard and ColumnTarget implement it.
type Target interface {
	targetNode() // Marker method - seals interface to this package
}

// Wildcard expands to every column of the input, in input order.
type Wildcard struct{}

func (Wildcard) targetNode() {}

// ColumnTarget copies one input column, optionally renamed.
type ColumnTarget struct {
	Source string // input column name
	Alias  string // output name; empty means Source
}

func (ColumnTarget) targetNode() {}

// Name returns the output column name.
func (c ColumnTarget) Name() string {
	if c.Alias != "" {
		return c.Alias
	}
	return c.Source
}

// Table names the single FROM source.
//
// Parts are the dot-separated identifiers as written, e.g. `people.csv`
// parses to ["people", "csv"].
type Table struct {
	Parts []string
}

// Path rejoins the parts with "." to form the source location.
func (t Table) Path() string {
	return strings.Join(t.Parts, ".")
}

// Select is the only statement shape relq executes.
//
// Semantics:
//
//	SELECT <targets> FROM <from> WHERE <filter>
//
// Filter is nil when there is no WHERE clause. Targets is never empty for
// statements produced by the SQL front end, but the planner treats an empty
// list as "no projection".
type Select struct {
	From    Table
	Filter  Expr
	Targets []Target
}
