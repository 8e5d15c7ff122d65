package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/roach88/relq/internal/queryir"
	"github.com/roach88/relq/internal/value"
)

// RecordReader yields raw CSV records. *csv.Reader satisfies it.
type RecordReader interface {
	Read() ([]string, error)
}

// SequentialScan is the leaf relation: it reads one CSV source record by
// record and types every cell with value.Infer.
//
// The first record is the header and defines the attributes for the scan's
// whole lifetime. A malformed data record is logged and ends the relation;
// the scan never skips ahead past it.
type SequentialScan struct {
	name    string
	reader  RecordReader
	header  []string
	logger  *slog.Logger
	records int64
	done    bool
}

// NewSequentialScan reads the header from reader and returns the scan.
//
// name identifies the source in diagnostics. An empty source yields an
// empty header and no rows. A header that cannot be read is fatal and
// returns an ErrCodeSourceUnavailable error.
func NewSequentialScan(name string, reader RecordReader, logger *slog.Logger) (*SequentialScan, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &SequentialScan{
		name:   name,
		reader: reader,
		logger: logger,
	}

	header, err := reader.Read()
	switch {
	case errors.Is(err, io.EOF):
		s.header = []string{}
		s.done = true
	case err != nil:
		return nil, queryir.NewSourceError(name, fmt.Errorf("read header: %w", err))
	default:
		s.header = slices.Clone(header)
	}

	return s, nil
}

// Name returns the source name the scan was built with.
func (s *SequentialScan) Name() string {
	return s.name
}

// Attributes returns the header-derived column names.
func (s *SequentialScan) Attributes() []string {
	return slices.Clone(s.header)
}

// Next reads one record and returns it as a typed row.
//
// Truncate-on-error: a record that fails to parse, or whose field count
// differs from the header, is reported on the logger at warn level and the
// scan then reports io.EOF from this call on.
func (s *SequentialScan) Next() (value.Row, error) {
	if s.done {
		return nil, io.EOF
	}

	record, err := s.reader.Read()
	if errors.Is(err, io.EOF) {
		s.done = true
		return nil, io.EOF
	}
	if err == nil && len(record) != len(s.header) {
		err = fmt.Errorf("record %d has %d fields, header has %d", s.records+1, len(record), len(s.header))
	}
	if err != nil {
		s.done = true
		s.logger.Warn("malformed record, ending scan",
			"source", s.name,
			"records_read", s.records,
			"error", err)
		return nil, io.EOF
	}

	s.records++
	return value.InferRecord(record), nil
}

// RecordsRead returns the number of data records produced so far.
func (s *SequentialScan) RecordsRead() int64 {
	return s.records
}

// String describes the operator for plan output.
func (s *SequentialScan) String() string {
	return fmt.Sprintf("SequentialScan(%s)", s.name)
}
