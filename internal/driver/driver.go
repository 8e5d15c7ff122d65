// Package driver runs one SQL statement end to end: lower, plan, pull the
// tree once and stream the result as CSV.
package driver

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/relq/internal/csvio"
	"github.com/roach88/relq/internal/planner"
	"github.com/roach88/relq/internal/queryir"
	"github.com/roach88/relq/internal/querysql"
)

// Options configures a run.
type Options struct {
	Planner planner.Options

	// RunID tags log lines. Optional.
	RunID string

	// Logger receives start and finish lines. Nil uses slog.Default().
	Logger *slog.Logger
}

// Result summarizes a run. On failure it describes the output written
// before the error.
type Result struct {
	QueryHash  string
	Attributes []string
	Rows       int64

	// Digest is the domain-separated SHA-256 of the CSV bytes written,
	// header included. Identical inputs always give identical digests.
	Digest string
}

// Run executes sql and writes the CSV result to out.
//
// The header is the root's attributes at the start of the run; each
// produced row follows as one record. Output written before a failure is
// flushed, and the returned Result describes it. Cancelling ctx stops the
// run between row pulls.
func Run(ctx context.Context, sql string, out io.Writer, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.RunID != "" {
		logger = logger.With("run_id", opts.RunID)
	}

	result := &Result{QueryHash: queryir.Hash(sql)}

	stmt, err := querysql.Compile(sql)
	if err != nil {
		return result, err
	}

	if opts.Planner.Logger == nil {
		opts.Planner.Logger = logger
	}
	plan, err := planner.Build(ctx, stmt, opts.Planner)
	if err != nil {
		return result, err
	}
	defer func() {
		if closeErr := plan.Close(); closeErr != nil {
			logger.Error("error closing source", "source", stmt.From.Path(), "error", closeErr)
		}
	}()

	logger.Debug("query planned", "query", stmt.String(), "query_hash", result.QueryHash)

	digest := queryir.NewDigest(queryir.DomainOutput)
	w := csvio.NewWriter(io.MultiWriter(out, digest))

	err = stream(ctx, plan, w, result)
	if err == nil {
		if flushErr := w.Flush(); flushErr != nil {
			err = fmt.Errorf("write output: %w", flushErr)
		}
	}
	result.Digest = queryir.Sum(digest)
	if err != nil {
		return result, err
	}

	logger.Info("query finished",
		"source", stmt.From.Path(),
		"rows", result.Rows,
		"digest", result.Digest)
	return result, nil
}

// stream writes the header, then every row of the plan.
func stream(ctx context.Context, plan *planner.Plan, w *csvio.Writer, result *Result) error {
	result.Attributes = plan.Root.Attributes()
	if err := w.WriteHeader(result.Attributes); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		row, err := plan.Root.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		if err := w.WriteRow(row); err != nil {
			return fmt.Errorf("write row %d: %w", result.Rows+1, err)
		}
		result.Rows++
	}
}
