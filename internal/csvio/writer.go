package csvio

import (
	"encoding/csv"
	"io"

	"github.com/roach88/relq/internal/value"
)

// Writer renders a result as CSV: one header record, then one record per
// row. Records end in "\n". Every record is flushed to the underlying
// writer as soon as it is written, so rows produced before a failure are
// already out when the error is reported.
type Writer struct {
	csv *csv.Writer
}

// NewWriter returns a Writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the column names.
func (w *Writer) WriteHeader(attrs []string) error {
	return w.record(attrs)
}

// WriteRow writes one row, rendering each cell with value.Text.
func (w *Writer) WriteRow(row value.Row) error {
	return w.record(value.TextRecord(row))
}

func (w *Writer) record(fields []string) error {
	if err := w.csv.Write(fields); err != nil {
		return err
	}
	return w.Flush()
}

// Flush reports any error from writing to the underlying writer. Records
// are not held back, so calling it is only needed for that error.
func (w *Writer) Flush() error {
	w.csv.Flush()
	return w.csv.Error()
}
