package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/relq/internal/config"
	"github.com/roach88/relq/internal/driver"
	"github.com/roach88/relq/internal/planner"
	"github.com/roach88/relq/internal/store"
)

// runQuery executes the statement on stdin and writes the result CSV to
// stdout. When a history database is configured the run is recorded,
// including failed runs.
func runQuery(opts *RootOptions, cmd *cobra.Command) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	logger := setupLogging(cfg, cmd.ErrOrStderr())

	sql, err := readStatement(cmd)
	if err != nil {
		return err
	}

	var st *store.Store
	if cfg.History != "" {
		st, err = store.Open(cfg.History)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open history database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing history database", "error", closeErr)
			}
		}()
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	run := store.Run{
		ID:        opts.idGenerator().Generate(),
		StartedAt: opts.now(),
		SQL:       sql,
		BaseDir:   absBaseDir(cfg.BaseDir),
		Encoding:  cfg.Encoding,
		Delimiter: cfg.Delimiter,
	}

	result, runErr := runStatement(ctx, cfg, run.ID, sql, cmd.OutOrStdout(), logger)
	run.QueryHash = result.QueryHash
	run.Rows = result.Rows
	run.Digest = result.Digest
	run.Status = store.StatusOK
	if runErr != nil {
		run.Status = store.StatusFailed
		run.ErrorCode = failureCode(runErr)
		run.ErrorMessage = runErr.Error()
	}

	if st != nil {
		if _, err := st.WriteRun(ctx, run); err != nil {
			logger.Error("failed to record run", "run_id", run.ID, "error", err)
			if runErr == nil {
				return WrapExitError(ExitCommandError, "failed to record run", err)
			}
		}
	}

	if runErr != nil {
		return WrapExitError(ExitFailure, "query failed", runErr)
	}
	return nil
}

// runStatement runs sql under cfg. The result is never nil.
func runStatement(ctx context.Context, cfg config.Config, runID, sql string, out io.Writer, logger *slog.Logger) (*driver.Result, error) {
	return driver.Run(ctx, sql, out, driver.Options{
		Planner: planner.Options{
			Sources: cfg.Sources(),
			Reader:  cfg.ReaderOptions(),
			Logger:  logger,
		},
		RunID:  runID,
		Logger: logger,
	})
}

// setupLogging installs a text handler on w as the default logger.
func setupLogging(cfg config.Config, w io.Writer) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: cfg.Level(),
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// readStatement reads the whole of stdin.
func readStatement(cmd *cobra.Command) (string, error) {
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", WrapExitError(ExitCommandError, "failed to read statement", err)
	}
	return string(data), nil
}

// signalContext derives a context cancelled on SIGINT or SIGTERM.
// Uses the command's context if available (for testing).
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
}

// commandContext returns the command's context, or Background when it
// has none.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// absBaseDir returns the directory relative table paths resolved against,
// as an absolute path so a replay from elsewhere finds the same files.
func absBaseDir(dir string) string {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	return abs
}

// firstLine trims a statement for one-line listings.
func firstLine(sql string) string {
	sql = strings.TrimSpace(sql)
	if i := strings.IndexAny(sql, "\r\n"); i >= 0 {
		return sql[:i] + " ..."
	}
	return sql
}
