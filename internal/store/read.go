package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrRunNotFound is returned by ReadRun for an unknown id.
var ErrRunNotFound = errors.New("run not found")

const runColumns = `seq, id, started_at, sql, query_hash, base_dir, encoding, delimiter,
	status, error_code, error_message, rows, digest`

// ReadRun returns the run with the given id, or a prefix of it when the
// prefix is unambiguous.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	if id == "" {
		return Run{}, fmt.Errorf("read run: %w", ErrRunNotFound)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		WHERE id = ? OR substr(id, 1, ?) = ?
		ORDER BY id = ? DESC, seq ASC
		LIMIT 2
	`, id, len(id), id, id)
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}
	defer rows.Close()

	var found []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return Run{}, err
		}
		if run.ID == id {
			return run, nil
		}
		found = append(found, run)
	}
	if err := rows.Err(); err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}

	switch len(found) {
	case 0:
		return Run{}, fmt.Errorf("read run %s: %w", id, ErrRunNotFound)
	case 1:
		return found[0], nil
	default:
		return Run{}, fmt.Errorf("read run %s: ambiguous id prefix", id)
	}
}

// ListOptions filters ListRuns.
type ListOptions struct {
	Limit     int    // zero means no limit
	QueryHash string // only runs of this statement
}

// ListRuns returns runs newest first.
// Returns an empty slice (not nil) when there are none.
func (s *Store) ListRuns(ctx context.Context, opts ListOptions) ([]Run, error) {
	var (
		where []string
		args  []any
	)
	if opts.QueryHash != "" {
		where = append(where, "query_hash = ?")
		args = append(args, opts.QueryHash)
	}

	query := "SELECT " + runColumns + " FROM runs"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY seq DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

func scanRun(rows *sql.Rows) (Run, error) {
	var (
		run       Run
		startedAt string
	)
	err := rows.Scan(
		&run.Seq,
		&run.ID,
		&startedAt,
		&run.SQL,
		&run.QueryHash,
		&run.BaseDir,
		&run.Encoding,
		&run.Delimiter,
		&run.Status,
		&run.ErrorCode,
		&run.ErrorMessage,
		&run.Rows,
		&run.Digest,
	)
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}

	run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return Run{}, fmt.Errorf("scan run %s: started_at: %w", run.ID, err)
	}
	return run, nil
}
