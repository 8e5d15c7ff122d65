package engine

import (
	"fmt"

	"github.com/roach88/relq/internal/queryir"
	"github.com/roach88/relq/internal/value"
)

// Projection selects, reorders and renames its child's columns (the SELECT
// list).
type Projection struct {
	child   Relation
	targets []queryir.Target
}

// NewProjection wraps child with an ordered target list. Pointer targets are
// stored by value; any other target kind is rejected here so that
// Attributes and Next always agree on the output shape.
func NewProjection(child Relation, targets []queryir.Target) (*Projection, error) {
	normalized := make([]queryir.Target, len(targets))
	for i, t := range targets {
		switch target := t.(type) {
		case queryir.Wildcard, queryir.ColumnTarget:
			normalized[i] = target
		case *queryir.Wildcard:
			if target == nil {
				return nil, queryir.NewUnsupportedError("select item %T", t)
			}
			normalized[i] = *target
		case *queryir.ColumnTarget:
			if target == nil {
				return nil, queryir.NewUnsupportedError("select item %T", t)
			}
			normalized[i] = *target
		default:
			return nil, queryir.NewUnsupportedError("select item %T", t)
		}
	}
	return &Projection{child: child, targets: normalized}, nil
}

// Child returns the wrapped relation.
func (p *Projection) Child() Relation {
	return p.child
}

// Targets returns the SELECT list.
func (p *Projection) Targets() []queryir.Target {
	return p.targets
}

// Attributes is recomputed on every call. A wildcard expands to the child's
// current attributes in child order; a column target reports its alias, or
// the source name when there is no alias.
func (p *Projection) Attributes() []string {
	var childAttrs []string
	attrs := make([]string, 0, len(p.targets))
	for _, t := range p.targets {
		switch target := t.(type) {
		case queryir.Wildcard:
			if childAttrs == nil {
				childAttrs = p.child.Attributes()
			}
			attrs = append(attrs, childAttrs...)
		case queryir.ColumnTarget:
			attrs = append(attrs, target.Name())
		default:
			attrs = append(attrs, queryir.FormatTarget(t))
		}
	}
	return attrs
}

// Next pulls exactly one child row and builds the output row in target
// order. Each column target copies the cell at the source column's current
// position. A wildcard resolves every child attribute by name the same way,
// so a duplicated header repeats the value of its first occurrence.
func (p *Projection) Next() (value.Row, error) {
	row, err := p.child.Next()
	if err != nil {
		return nil, err
	}
	childAttrs := p.child.Attributes()

	out := make(value.Row, 0, len(p.targets))
	for _, t := range p.targets {
		switch target := t.(type) {
		case queryir.Wildcard:
			for _, name := range childAttrs {
				cell, err := resolve(name, childAttrs, row)
				if err != nil {
					return nil, err
				}
				out = append(out, cell)
			}
		case queryir.ColumnTarget:
			cell, err := resolve(target.Source, childAttrs, row)
			if err != nil {
				return nil, err
			}
			out = append(out, cell)
		default:
			return nil, queryir.NewUnsupportedError("select item %T", t)
		}
	}
	return out, nil
}

func resolve(name string, attrs []string, row value.Row) (value.Value, error) {
	idx := indexOf(attrs, name)
	if idx < 0 || idx >= len(row) {
		return nil, queryir.NewUnknownColumnError(name, attrs)
	}
	return row[idx], nil
}

// String describes the operator for plan output.
func (p *Projection) String() string {
	return fmt.Sprintf("Projection(%s)", queryir.FormatTargets(p.targets))
}
