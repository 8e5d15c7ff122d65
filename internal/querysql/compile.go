package querysql

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xwb1989/sqlparser"

	"github.com/roach88/relq/internal/queryir"
	"github.com/roach88/relq/internal/value"
)

// ErrEmptyStatement is returned for input holding no statement.
var ErrEmptyStatement = errors.New("empty statement")

// Compile parses a single SQL statement and lowers it to a queryir.Select.
//
// Syntax errors are PARSE_ERROR. Statements the parser accepts but the
// engine cannot run are UNSUPPORTED; an out-of-range integer literal is
// BAD_LITERAL.
func Compile(sql string) (queryir.Select, error) {
	if strings.TrimSpace(sql) == "" {
		return queryir.Select{}, queryir.NewParseError(ErrEmptyStatement)
	}

	stmt, err := sqlparser.Parse(quoteDottedTables(sql))
	if err != nil {
		return queryir.Select{}, queryir.NewParseError(err)
	}
	return Lower(stmt)
}

// Lower converts a parsed statement to the query IR.
func Lower(stmt sqlparser.Statement) (queryir.Select, error) {
	switch s := stmt.(type) {
	case *sqlparser.Select:
		return lowerSelect(s)
	case *sqlparser.Union:
		return queryir.Select{}, queryir.NewUnsupportedError("UNION")
	case *sqlparser.ParenSelect:
		return queryir.Select{}, queryir.NewUnsupportedError("parenthesized SELECT")
	default:
		return queryir.Select{}, queryir.NewUnsupportedError("statement %T, only SELECT is supported", stmt)
	}
}

func lowerSelect(s *sqlparser.Select) (queryir.Select, error) {
	if err := rejectClauses(s); err != nil {
		return queryir.Select{}, err
	}

	from, err := lowerFrom(s.From)
	if err != nil {
		return queryir.Select{}, err
	}

	var filter queryir.Expr
	if s.Where != nil && s.Where.Expr != nil {
		filter, err = LowerExpr(s.Where.Expr)
		if err != nil {
			return queryir.Select{}, fmt.Errorf("lower WHERE: %w", err)
		}
	}

	targets := make([]queryir.Target, 0, len(s.SelectExprs))
	for i, item := range s.SelectExprs {
		target, err := lowerTarget(item)
		if err != nil {
			return queryir.Select{}, fmt.Errorf("lower select item %d: %w", i, err)
		}
		targets = append(targets, target)
	}

	return queryir.Select{
		From:    from,
		Filter:  filter,
		Targets: targets,
	}, nil
}

// rejectClauses fails on any clause outside SELECT ... FROM ... WHERE.
func rejectClauses(s *sqlparser.Select) error {
	switch {
	case s.Distinct != "":
		return queryir.NewUnsupportedError("DISTINCT")
	case len(s.GroupBy) > 0:
		return queryir.NewUnsupportedError("GROUP BY")
	case s.Having != nil:
		return queryir.NewUnsupportedError("HAVING")
	case len(s.OrderBy) > 0:
		return queryir.NewUnsupportedError("ORDER BY")
	case s.Limit != nil:
		return queryir.NewUnsupportedError("LIMIT")
	case s.Lock != "":
		return queryir.NewUnsupportedError("locking clause %q", strings.TrimSpace(s.Lock))
	case s.Hints != "" || s.Cache != "":
		return queryir.NewUnsupportedError("query hints")
	}
	return nil
}

func lowerFrom(from sqlparser.TableExprs) (queryir.Table, error) {
	if len(from) != 1 {
		return queryir.Table{}, queryir.NewUnsupportedError("%d FROM sources, exactly one is supported", len(from))
	}

	switch t := from[0].(type) {
	case *sqlparser.AliasedTableExpr:
		if len(t.Partitions) > 0 {
			return queryir.Table{}, queryir.NewUnsupportedError("PARTITION")
		}
		if t.Hints != nil {
			return queryir.Table{}, queryir.NewUnsupportedError("index hints")
		}
		name, ok := t.Expr.(sqlparser.TableName)
		if !ok {
			return queryir.Table{}, queryir.NewUnsupportedError("FROM %T", t.Expr)
		}
		// A table alias has nothing to qualify and is ignored.
		return lowerTableName(name), nil
	case *sqlparser.JoinTableExpr:
		return queryir.Table{}, queryir.NewUnsupportedError("JOIN")
	case *sqlparser.ParenTableExpr:
		return queryir.Table{}, queryir.NewUnsupportedError("parenthesized FROM")
	default:
		return queryir.Table{}, queryir.NewUnsupportedError("FROM %T", from[0])
	}
}

// lowerTableName keeps the dotted parts in order: `people.csv` parses as
// qualifier "people", name "csv". Longer dotted names arrive as a single
// back-quoted part (see quoteDottedTables).
func lowerTableName(name sqlparser.TableName) queryir.Table {
	var parts []string
	if !name.Qualifier.IsEmpty() {
		parts = append(parts, name.Qualifier.String())
	}
	parts = append(parts, name.Name.String())
	return queryir.Table{Parts: parts}
}

func lowerTarget(item sqlparser.SelectExpr) (queryir.Target, error) {
	switch t := item.(type) {
	case *sqlparser.StarExpr:
		if !t.TableName.IsEmpty() {
			return nil, queryir.NewUnsupportedError("qualified wildcard %s.*", sqlparser.String(t.TableName))
		}
		return queryir.Wildcard{}, nil
	case *sqlparser.AliasedExpr:
		col, ok := t.Expr.(*sqlparser.ColName)
		if !ok {
			return nil, queryir.NewUnsupportedError("select expression %s", sqlparser.String(t.Expr))
		}
		source, err := lowerColumn(col)
		if err != nil {
			return nil, err
		}
		return queryir.ColumnTarget{Source: source.Name, Alias: t.As.String()}, nil
	default:
		return nil, queryir.NewUnsupportedError("select item %s", sqlparser.String(item))
	}
}

// LowerExpr converts a WHERE expression.
func LowerExpr(expr sqlparser.Expr) (queryir.Expr, error) {
	switch e := expr.(type) {
	case *sqlparser.AndExpr:
		return lowerBinary(queryir.OpAnd, e.Left, e.Right)
	case *sqlparser.OrExpr:
		return lowerBinary(queryir.OpOr, e.Left, e.Right)
	case *sqlparser.ComparisonExpr:
		if e.Operator != sqlparser.GreaterThanStr || e.Escape != nil {
			return nil, queryir.NewUnsupportedError("operator %s", e.Operator)
		}
		return lowerBinary(queryir.OpGreater, e.Left, e.Right)
	case *sqlparser.ParenExpr:
		return LowerExpr(e.Expr)
	case *sqlparser.ColName:
		return lowerColumn(e)
	case sqlparser.BoolVal:
		return queryir.Literal{Value: value.Boolean(bool(e))}, nil
	case *sqlparser.SQLVal:
		return lowerLiteral(e)
	default:
		return nil, queryir.NewUnsupportedError("expression %s", sqlparser.String(expr))
	}
}

func lowerBinary(op queryir.Op, left, right sqlparser.Expr) (queryir.Expr, error) {
	l, err := LowerExpr(left)
	if err != nil {
		return nil, err
	}
	r, err := LowerExpr(right)
	if err != nil {
		return nil, err
	}
	return queryir.Binary{Op: op, Left: l, Right: r}, nil
}

func lowerColumn(col *sqlparser.ColName) (queryir.Column, error) {
	if !col.Qualifier.IsEmpty() {
		return queryir.Column{}, queryir.NewUnsupportedError("qualified column %s", sqlparser.String(col))
	}
	return queryir.Column{Name: col.Name.String()}, nil
}

func lowerLiteral(v *sqlparser.SQLVal) (queryir.Expr, error) {
	text := string(v.Val)
	switch v.Type {
	case sqlparser.StrVal:
		return queryir.Literal{Value: value.String(text)}, nil
	case sqlparser.IntVal:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, queryir.NewBadLiteralError(text, err)
		}
		return queryir.Literal{Value: value.Integer(n)}, nil
	case sqlparser.FloatVal:
		return nil, queryir.NewBadLiteralError(text, errors.New("not an integer"))
	default:
		return nil, queryir.NewUnsupportedError("literal %s", sqlparser.String(v))
	}
}
