package planner

import (
	"context"
	"errors"
	"log/slog"

	"github.com/roach88/relq/internal/csvio"
	"github.com/roach88/relq/internal/engine"
	"github.com/roach88/relq/internal/queryir"
)

// Options configures how table references become scans.
type Options struct {
	// Sources opens table locations. Nil opens local files relative to the
	// working directory.
	Sources *csvio.Sources

	// Reader controls decoding of every opened table.
	Reader csvio.ReaderOptions

	// Logger receives scan diagnostics. Nil discards them.
	Logger *slog.Logger
}

// Plan is a built operator tree, pulled once and then closed.
type Plan struct {
	// Root is the relation the driver pulls rows from.
	Root engine.Relation

	// Statement is the query the tree was built from.
	Statement queryir.Select

	table *csvio.Table
}

// Close releases the scan's source handle. It is safe to call twice.
func (p *Plan) Close() error {
	if p.table == nil {
		return nil
	}
	err := p.table.Close()
	p.table = nil
	return err
}

// Check verifies that stmt can be planned without touching any source.
func Check(stmt queryir.Select) error {
	if err := queryir.Validate(stmt); err != nil {
		return &queryir.QueryError{
			Code:    queryir.ErrCodeUnsupported,
			Message: "malformed query",
			Err:     err,
		}
	}
	return nil
}

// Build opens the FROM source and assembles the operator tree.
//
// A source that cannot be opened, or whose header cannot be read, returns
// an ErrCodeSourceUnavailable error.
func Build(ctx context.Context, stmt queryir.Select, opts Options) (*Plan, error) {
	if err := Check(stmt); err != nil {
		return nil, err
	}

	sources := opts.Sources
	if sources == nil {
		sources = &csvio.Sources{}
	}

	path := stmt.From.Path()
	table, err := csvio.Open(ctx, sources, path, opts.Reader)
	if err != nil {
		return nil, queryir.NewSourceError(path, err)
	}

	scan, err := engine.NewSequentialScan(path, table.Reader, opts.Logger)
	if err != nil {
		return nil, errors.Join(err, table.Close())
	}

	var root engine.Relation = scan
	if stmt.Filter != nil {
		root = engine.NewSelection(root, stmt.Filter)
	}
	if len(stmt.Targets) > 0 {
		proj, err := engine.NewProjection(root, stmt.Targets)
		if err != nil {
			return nil, errors.Join(err, table.Close())
		}
		root = proj
	}

	return &Plan{
		Root:      root,
		Statement: stmt,
		table:     table,
	}, nil
}
