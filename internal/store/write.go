package store

import (
	"context"
	"fmt"
	"time"
)

// WriteRun records a run and returns its seq.
// Writing a run whose ID already exists is an error.
func (s *Store) WriteRun(ctx context.Context, run Run) (int64, error) {
	if run.ID == "" {
		return 0, fmt.Errorf("write run: missing id")
	}
	if run.Status != StatusOK && run.Status != StatusFailed {
		return 0, fmt.Errorf("write run %s: invalid status %q", run.ID, run.Status)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, started_at, sql, query_hash, base_dir, encoding, delimiter,
		 status, error_code, error_message, rows, digest)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.SQL,
		run.QueryHash,
		run.BaseDir,
		run.Encoding,
		run.Delimiter,
		run.Status,
		run.ErrorCode,
		run.ErrorMessage,
		run.Rows,
		run.Digest,
	)
	if err != nil {
		return 0, fmt.Errorf("write run %s: %w", run.ID, err)
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("write run %s: %w", run.ID, err)
	}
	return seq, nil
}
