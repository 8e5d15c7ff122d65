package engine

import (
	"fmt"

	"github.com/roach88/relq/internal/queryir"
	"github.com/roach88/relq/internal/value"
)

// Selection filters its child with a boolean expression (the WHERE clause).
type Selection struct {
	child     Relation
	condition queryir.Expr
}

// NewSelection wraps child so that only rows for which condition is truthy
// are produced.
func NewSelection(child Relation, condition queryir.Expr) *Selection {
	return &Selection{child: child, condition: condition}
}

// Child returns the wrapped relation.
func (s *Selection) Child() Relation {
	return s.child
}

// Condition returns the filter expression.
func (s *Selection) Condition() queryir.Expr {
	return s.condition
}

// Attributes delegates to the child unchanged.
func (s *Selection) Attributes() []string {
	return s.child.Attributes()
}

// Next pulls child rows until one satisfies the condition or the child ends.
// Column names are resolved against the child's attributes for every
// candidate row.
func (s *Selection) Next() (value.Row, error) {
	for {
		row, err := s.child.Next()
		if err != nil {
			return nil, err
		}

		ok, err := EvaluateCondition(s.condition, s.child.Attributes(), row)
		if err != nil {
			return nil, err
		}
		if ok {
			return row, nil
		}
	}
}

// String describes the operator for plan output.
func (s *Selection) String() string {
	return fmt.Sprintf("Selection(%s)", queryir.FormatExpr(s.condition))
}
