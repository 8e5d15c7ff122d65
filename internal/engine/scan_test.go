package engine

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/relq/internal/queryir"
	"github.com/roach88/relq/internal/value"
)

func csvScan(t *testing.T, text string) *SequentialScan {
	t.Helper()
	scan, err := NewSequentialScan("test.csv", csv.NewReader(strings.NewReader(text)), nil)
	require.NoError(t, err)
	return scan
}

// countingReader counts Read calls and can fail on demand.
type countingReader struct {
	records [][]string
	errAt   int // index of the Read call that fails; -1 for never
	err     error
	reads   int
}

func (r *countingReader) Read() ([]string, error) {
	defer func() { r.reads++ }()
	if r.reads == r.errAt {
		return nil, r.err
	}
	if r.reads >= len(r.records) {
		return nil, io.EOF
	}
	return r.records[r.reads], nil
}

func TestSequentialScan_InfersTypes(t *testing.T) {
	scan := csvScan(t, "a,b\n1,true\n007,TRUE\n")

	assert.Equal(t, []string{"a", "b"}, scan.Attributes())
	rows := drain(t, scan)
	assert.Equal(t, []value.Row{
		{value.Integer(1), value.Boolean(true)},
		{value.Integer(7), value.String("TRUE")},
	}, rows)
	assert.Equal(t, int64(2), scan.RecordsRead())
}

func TestSequentialScan_HeaderOnly(t *testing.T) {
	scan := csvScan(t, "name,age\n")

	assert.Equal(t, []string{"name", "age"}, scan.Attributes())
	assert.Empty(t, drain(t, scan))
}

func TestSequentialScan_EmptySource(t *testing.T) {
	scan := csvScan(t, "")

	assert.Empty(t, scan.Attributes())
	assert.NotNil(t, scan.Attributes())
	assert.Empty(t, drain(t, scan))
}

func TestSequentialScan_HeaderErrorIsFatal(t *testing.T) {
	reader := &countingReader{errAt: 0, err: errors.New("boom")}

	_, err := NewSequentialScan("broken.csv", reader, nil)
	require.Error(t, err)
	assert.Equal(t, queryir.ErrCodeSourceUnavailable, queryir.CodeOf(err))
	assert.Contains(t, err.Error(), "broken.csv")
}

func TestSequentialScan_MalformedRecordTruncates(t *testing.T) {
	logger, logs := bufferLogger()
	text := "name,age\nAlice,30\nBob\nCarol,40\n"
	scan, err := NewSequentialScan("people", csv.NewReader(strings.NewReader(text)), logger)
	require.NoError(t, err)

	rows := drain(t, scan)

	assert.Equal(t, []value.Row{{value.String("Alice"), value.Integer(30)}}, rows)
	assert.Contains(t, logs.String(), "malformed record")
	assert.Contains(t, logs.String(), "source=people")
}

func TestSequentialScan_StopsReadingAfterError(t *testing.T) {
	logger, _ := bufferLogger()
	reader := &countingReader{
		records: [][]string{{"x"}, {"1"}, {"2"}, {"3"}},
		errAt:   2,
		err:     errors.New("bad quote"),
	}
	scan, err := NewSequentialScan("t", reader, logger)
	require.NoError(t, err)

	rows := drain(t, scan)
	require.Len(t, rows, 1)

	_, err = scan.Next()
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 3, reader.reads, "no reads after the failing record")
}

func TestSequentialScan_ShortRecordFromLenientReader(t *testing.T) {
	logger, logs := bufferLogger()
	r := csv.NewReader(strings.NewReader("a,b\n1,2\n3\n4,5\n"))
	r.FieldsPerRecord = -1
	scan, err := NewSequentialScan("lenient", r, logger)
	require.NoError(t, err)

	rows := drain(t, scan)

	assert.Len(t, rows, 1)
	assert.Contains(t, logs.String(), "record 2 has 1 fields, header has 2")
}

func TestSequentialScan_AttributesAreCopies(t *testing.T) {
	scan := csvScan(t, "a,b\n")
	attrs := scan.Attributes()
	attrs[0] = "mutated"

	assert.Equal(t, []string{"a", "b"}, scan.Attributes())
}

func TestSequentialScan_String(t *testing.T) {
	assert.Equal(t, "SequentialScan(test.csv)", csvScan(t, "a\n").String())
}
