package queryir

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/relq/internal/value"
)

// FormatExpr renders an expression as SQL-like text. Binary expressions are
// fully parenthesized so the rendering is unambiguous.
func FormatExpr(e Expr) string {
	switch expr := e.(type) {
	case Column:
		return expr.Name
	case *Column:
		return expr.Name
	case Literal:
		return formatLiteral(expr.Value)
	case *Literal:
		return formatLiteral(expr.Value)
	case Binary:
		return fmt.Sprintf("(%s %s %s)", FormatExpr(expr.Left), expr.Op, FormatExpr(expr.Right))
	case *Binary:
		return fmt.Sprintf("(%s %s %s)", FormatExpr(expr.Left), expr.Op, FormatExpr(expr.Right))
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("<%T>", e)
	}
}

func formatLiteral(v value.Value) string {
	if s, ok := v.(value.String); ok {
		return "'" + strings.ReplaceAll(string(s), "'", "''") + "'"
	}
	return value.Text(v)
}

// FormatTarget renders one SELECT list entry.
func FormatTarget(t Target) string {
	switch target := t.(type) {
	case Wildcard, *Wildcard:
		return "*"
	case ColumnTarget:
		return formatColumnTarget(target)
	case *ColumnTarget:
		return formatColumnTarget(*target)
	default:
		return fmt.Sprintf("<%T>", t)
	}
}

func formatColumnTarget(c ColumnTarget) string {
	if c.Alias == "" || c.Alias == c.Source {
		return c.Source
	}
	return c.Source + " AS " + c.Alias
}

// FormatTargets renders the whole SELECT list, comma separated.
func FormatTargets(targets []Target) string {
	parts := make([]string, len(targets))
	for i, t := range targets {
		parts[i] = FormatTarget(t)
	}
	return strings.Join(parts, ", ")
}

// String renders the statement back to SQL-like text.
func (s Select) String() string {
	var b strings.Builder
	b.WriteString("SELECT ")
	if len(s.Targets) == 0 {
		b.WriteString("*")
	} else {
		b.WriteString(FormatTargets(s.Targets))
	}
	b.WriteString(" FROM ")
	b.WriteString(strconv.Quote(s.From.Path()))
	if s.Filter != nil {
		b.WriteString(" WHERE ")
		b.WriteString(FormatExpr(s.Filter))
	}
	return b.String()
}
