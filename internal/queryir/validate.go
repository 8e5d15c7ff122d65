package queryir

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports a structurally invalid query.
//
// The SQL front end never produces one of these; they guard against IR built
// by hand (tests, scenarios) reaching the planner.
type ValidationError struct {
	Field   string // e.g. "from", "filter.left", "targets[2]"
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid query at %s: %s", e.Field, e.Message)
}

// Validate checks that a Select is well formed:
//   - From has at least one part and no empty parts
//   - every Column and ColumnTarget names a column
//   - every Literal carries a value
//   - every Binary has a known operator and both operands
//
// Validate is a pure function with no side effects. It returns all problems
// found, joined with errors.Join.
func Validate(s Select) error {
	v := &validator{}
	v.validateTable(s.From)
	if s.Filter != nil {
		v.validateExpr("filter", s.Filter)
	}
	for i, t := range s.Targets {
		v.validateTarget(fmt.Sprintf("targets[%d]", i), t)
	}
	return errors.Join(v.errs...)
}

type validator struct {
	errs []error
}

func (v *validator) fail(field, format string, args ...any) {
	v.errs = append(v.errs, &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) validateTable(t Table) {
	if len(t.Parts) == 0 {
		v.fail("from", "table name is required")
		return
	}
	for i, part := range t.Parts {
		if strings.TrimSpace(part) == "" {
			v.fail(fmt.Sprintf("from.parts[%d]", i), "empty name part")
		}
	}
}

func (v *validator) validateExpr(field string, e Expr) {
	switch expr := e.(type) {
	case Column:
		v.validateColumn(field, expr)
	case *Column:
		v.validateColumn(field, *expr)
	case Literal:
		v.validateLiteral(field, expr)
	case *Literal:
		v.validateLiteral(field, *expr)
	case Binary:
		v.validateBinary(field, expr)
	case *Binary:
		v.validateBinary(field, *expr)
	case nil:
		v.fail(field, "missing expression")
	default:
		v.fail(field, "unsupported expression type %T", e)
	}
}

func (v *validator) validateColumn(field string, c Column) {
	if c.Name == "" {
		v.fail(field, "column name is required")
	}
}

func (v *validator) validateLiteral(field string, l Literal) {
	if l.Value == nil {
		v.fail(field, "literal has no value")
	}
}

func (v *validator) validateBinary(field string, b Binary) {
	switch b.Op {
	case OpAnd, OpOr, OpGreater:
	default:
		v.fail(field, "unsupported operator %q", b.Op)
	}
	v.validateExpr(field+".left", b.Left)
	v.validateExpr(field+".right", b.Right)
}

func (v *validator) validateTarget(field string, t Target) {
	switch target := t.(type) {
	case Wildcard, *Wildcard:
	case ColumnTarget:
		if target.Source == "" {
			v.fail(field, "source column is required")
		}
	case *ColumnTarget:
		if target.Source == "" {
			v.fail(field, "source column is required")
		}
	case nil:
		v.fail(field, "missing target")
	default:
		v.fail(field, "unsupported target type %T", t)
	}
}
