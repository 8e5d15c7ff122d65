package engine

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/relq/internal/value"
)

// memRelation is an in-memory relation for operator tests.
// attrs may be swapped between pulls to exercise per-row name resolution.
type memRelation struct {
	attrs []string
	rows  []value.Row
	pos   int
	pulls int
}

func newMemRelation(attrs []string, rows ...value.Row) *memRelation {
	return &memRelation{attrs: attrs, rows: rows}
}

func (m *memRelation) Next() (value.Row, error) {
	m.pulls++
	if m.pos >= len(m.rows) {
		return nil, io.EOF
	}
	row := m.rows[m.pos]
	m.pos++
	return row, nil
}

func (m *memRelation) Attributes() []string {
	return slices.Clone(m.attrs)
}

// drain pulls every row from r, checking the arity invariant on each one.
func drain(t *testing.T, r Relation) []value.Row {
	t.Helper()
	var rows []value.Row
	for {
		row, err := r.Next()
		if errors.Is(err, io.EOF) {
			return rows
		}
		require.NoError(t, err)
		require.Len(t, row, len(r.Attributes()), "row arity must match attributes")
		rows = append(rows, row)
	}
}

// bufferLogger returns a logger writing text records into the returned buffer.
func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return slog.New(slog.NewTextHandler(buf, nil)), buf
}

func ints(ns ...int64) []value.Row {
	rows := make([]value.Row, len(ns))
	for i, n := range ns {
		rows[i] = value.Row{value.Integer(n)}
	}
	return rows
}

// phase is one row together with the attributes it is aligned to.
type phase struct {
	attrs []string
	row   value.Row
}

// phasedRelation changes its attributes as it produces rows, so each row is
// aligned to the attribute list reported right after producing it.
type phasedRelation struct {
	phases  []phase
	current []string
	pos     int
}

func (p *phasedRelation) Next() (value.Row, error) {
	if p.pos >= len(p.phases) {
		return nil, io.EOF
	}
	ph := p.phases[p.pos]
	p.pos++
	p.current = ph.attrs
	return ph.row, nil
}

func (p *phasedRelation) Attributes() []string {
	if p.current == nil && len(p.phases) > 0 {
		return slices.Clone(p.phases[0].attrs)
	}
	return slices.Clone(p.current)
}
