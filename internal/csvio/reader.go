package csvio

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"unicode/utf8"
)

// ReaderOptions configures how a table's bytes become records.
type ReaderOptions struct {
	Encoding  string // see LookupEncoding; empty means UTF-8
	Delimiter rune   // zero means ','
}

// Table is an opened CSV source.
type Table struct {
	// Location is the reference the table was opened from.
	Location string

	// Reader yields the header record first, then data records. Every
	// record must have as many fields as the header.
	Reader *csv.Reader

	closer io.Closer
}

// Close releases the underlying handle.
func (t *Table) Close() error {
	if t.closer == nil {
		return nil
	}
	err := t.closer.Close()
	t.closer = nil
	return err
}

// NewReader builds a CSV reader over r with the given options.
func NewReader(r io.Reader, opts ReaderOptions) (*csv.Reader, error) {
	enc, err := LookupEncoding(opts.Encoding)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(decode(r, enc))
	if opts.Delimiter != 0 {
		if !validDelimiter(opts.Delimiter) {
			return nil, fmt.Errorf("invalid delimiter %q", opts.Delimiter)
		}
		reader.Comma = opts.Delimiter
	}
	// Zero makes the header's field count binding for every record.
	reader.FieldsPerRecord = 0
	return reader, nil
}

// Open opens location through sources and wraps it in a CSV reader.
func Open(ctx context.Context, sources *Sources, location string, opts ReaderOptions) (*Table, error) {
	rc, err := sources.Open(ctx, location)
	if err != nil {
		return nil, err
	}

	reader, err := NewReader(rc, opts)
	if err != nil {
		rc.Close()
		return nil, err
	}

	return &Table{
		Location: location,
		Reader:   reader,
		closer:   rc,
	}, nil
}

// validDelimiter mirrors the rules encoding/csv enforces on Comma.
func validDelimiter(r rune) bool {
	return r != 0 && r != '"' && r != '\r' && r != '\n' && utf8.ValidRune(r) && r != utf8.RuneError
}
