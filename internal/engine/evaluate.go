package engine

import (
	"github.com/roach88/relq/internal/queryir"
	"github.com/roach88/relq/internal/value"
)

// Evaluate computes expr against one row whose columns are named by attrs.
//
// Column references resolve to the first attribute with a matching name.
// Binary operands are both evaluated, left then right, before the operator
// is applied; AND and OR never short-circuit. > accepts Integer operands
// only and never coerces.
func Evaluate(expr queryir.Expr, attrs []string, row value.Row) (value.Value, error) {
	switch e := expr.(type) {
	case queryir.Column:
		return evaluateColumn(e, attrs, row)
	case *queryir.Column:
		return evaluateColumn(*e, attrs, row)
	case queryir.Literal:
		return evaluateLiteral(e)
	case *queryir.Literal:
		return evaluateLiteral(*e)
	case queryir.Binary:
		return evaluateBinary(e, attrs, row)
	case *queryir.Binary:
		return evaluateBinary(*e, attrs, row)
	default:
		return nil, queryir.NewUnsupportedError("expression %T", expr)
	}
}

// EvaluateCondition evaluates expr and applies truthiness coercion.
func EvaluateCondition(expr queryir.Expr, attrs []string, row value.Row) (bool, error) {
	v, err := Evaluate(expr, attrs, row)
	if err != nil {
		return false, err
	}
	return value.Truthy(v), nil
}

func evaluateColumn(c queryir.Column, attrs []string, row value.Row) (value.Value, error) {
	idx := indexOf(attrs, c.Name)
	if idx < 0 || idx >= len(row) {
		return nil, queryir.NewUnknownColumnError(c.Name, attrs)
	}
	return row[idx], nil
}

func evaluateLiteral(l queryir.Literal) (value.Value, error) {
	if l.Value == nil {
		return nil, queryir.NewUnsupportedError("literal without a value")
	}
	return l.Value, nil
}

func evaluateBinary(b queryir.Binary, attrs []string, row value.Row) (value.Value, error) {
	left, err := Evaluate(b.Left, attrs, row)
	if err != nil {
		return nil, err
	}
	right, err := Evaluate(b.Right, attrs, row)
	if err != nil {
		return nil, err
	}

	switch b.Op {
	case queryir.OpAnd:
		l, r := value.Truthy(left), value.Truthy(right)
		return value.Boolean(l && r), nil
	case queryir.OpOr:
		l, r := value.Truthy(left), value.Truthy(right)
		return value.Boolean(l || r), nil
	case queryir.OpGreater:
		l, ok := left.(value.Integer)
		if !ok {
			return nil, queryir.NewTypeMismatchError(b.Op, "left", left)
		}
		r, ok := right.(value.Integer)
		if !ok {
			return nil, queryir.NewTypeMismatchError(b.Op, "right", right)
		}
		return value.Boolean(l > r), nil
	default:
		return nil, queryir.NewUnsupportedError("operator %q", b.Op)
	}
}
