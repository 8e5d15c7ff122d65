package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/relq/internal/store"
)

// ReplayResult compares a recorded run with its re-execution.
type ReplayResult struct {
	RunID          string `json:"run_id"`
	RecordedStatus string `json:"recorded_status"`
	ReplayStatus   string `json:"replay_status"`
	RecordedCode   string `json:"recorded_error_code,omitempty"`
	ReplayCode     string `json:"replay_error_code,omitempty"`
	RecordedRows   int64  `json:"recorded_rows"`
	ReplayRows     int64  `json:"replay_rows"`
	RecordedDigest string `json:"recorded_digest"`
	ReplayDigest   string `json:"replay_digest"`
	Deterministic  bool   `json:"deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <run-id>",
		Short: "Re-execute a recorded run and verify its output",
		Long: `Re-execute a recorded run with the base directory, encoding and delimiter
it ran with, and verify that it produces byte-identical output.

The run id may be abbreviated to any unambiguous prefix. Output is not
printed; only its digest, row count and outcome are compared. A failed run
replays deterministically when it fails the same way after the same output.

Exit codes:
  0 - Replay matches the recorded run
  1 - Replay diverged from the recorded run
  2 - Command error (no history database, unknown run, etc.)

Examples:
  relq replay --history relq.db 019a3c4e
  relq replay --history relq.db 019a3c4e-7b1d-7c2e-9f00-1a2b3c4d5e6f --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runReplay(opts *RootOptions, runID string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	logger := setupLogging(cfg, cmd.ErrOrStderr())

	st, err := openHistory(cfg, formatter)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, stop := signalContext(cmd)
	defer stop()

	run, err := st.ReadRun(ctx, runID)
	if err != nil {
		code := ErrCodeGeneric
		if errors.Is(err, store.ErrRunNotFound) {
			code = ErrCodeNotFound
		}
		if outErr := formatter.Error(code, err.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}
	formatter.VerboseLog("Replaying run %s: %s", run.ID, firstLine(run.SQL))

	cfg.BaseDir = run.BaseDir
	cfg.Encoding = run.Encoding
	cfg.Delimiter = run.Delimiter

	replayed, replayErr := runStatement(ctx, cfg, run.ID, run.SQL, io.Discard, logger.With("replay", true))

	result := ReplayResult{
		RunID:          run.ID,
		RecordedStatus: run.Status,
		ReplayStatus:   store.StatusOK,
		RecordedCode:   run.ErrorCode,
		RecordedRows:   run.Rows,
		ReplayRows:     replayed.Rows,
		RecordedDigest: run.Digest,
		ReplayDigest:   replayed.Digest,
	}
	if replayErr != nil {
		result.ReplayStatus = store.StatusFailed
		result.ReplayCode = failureCode(replayErr)
	}
	result.Deterministic = result.RecordedStatus == result.ReplayStatus &&
		result.RecordedCode == result.ReplayCode &&
		result.RecordedRows == result.ReplayRows &&
		result.RecordedDigest == result.ReplayDigest

	return outputReplay(formatter, result)
}

func outputReplay(f *OutputFormatter, result ReplayResult) error {
	if f.Format == "json" {
		if result.Deterministic {
			return f.Success(result)
		}
		if err := f.Error(ErrCodeReplayDrift, "replay diverged from the recorded run", result); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("run %s: replay diverged", result.RunID))
	}

	w := f.Writer
	if result.Deterministic {
		fmt.Fprintf(w, "✓ Run %s replayed: %d rows, digest %s\n", result.RunID, result.ReplayRows, result.ReplayDigest)
		return nil
	}

	fmt.Fprintf(w, "✗ Run %s diverged\n", result.RunID)
	fmt.Fprintf(w, "  status:  %s -> %s\n", describeOutcome(result.RecordedStatus, result.RecordedCode), describeOutcome(result.ReplayStatus, result.ReplayCode))
	fmt.Fprintf(w, "  rows:    %d -> %d\n", result.RecordedRows, result.ReplayRows)
	fmt.Fprintf(w, "  digest:  %s -> %s\n", result.RecordedDigest, result.ReplayDigest)
	return NewExitError(ExitFailure, fmt.Sprintf("run %s: replay diverged", result.RunID))
}

func describeOutcome(status, code string) string {
	if code == "" {
		return status
	}
	return status + " (" + code + ")"
}
