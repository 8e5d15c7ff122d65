package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/relq/internal/config"
	"github.com/roach88/relq/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Limit     int
	QueryHash string
}

// RunSummary is one recorded run as the history command reports it.
type RunSummary struct {
	ID        string `json:"id"`
	StartedAt string `json:"started_at"`
	Status    string `json:"status"`
	ErrorCode string `json:"error_code,omitempty"`
	Rows      int64  `json:"rows"`
	Digest    string `json:"digest"`
	QueryHash string `json:"query_hash"`
	SQL       string `json:"sql"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Long: `List the runs recorded in the history database, newest first.

Examples:
  relq history --history relq.db
  relq history --history relq.db --limit 5
  relq history --history relq.db --query-hash <hash> --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs to list (0 for all)")
	cmd.Flags().StringVar(&opts.QueryHash, "query-hash", "", "only runs of the statement with this hash")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
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
	st, err := openHistory(cfg, formatter)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns(commandContext(cmd), store.ListOptions{
		Limit:     opts.Limit,
		QueryHash: opts.QueryHash,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}
	formatter.VerboseLog("Found %d run(s) in %s", len(runs), cfg.History)

	summaries := make([]RunSummary, 0, len(runs))
	for _, run := range runs {
		summaries = append(summaries, summarizeRun(run))
	}

	if formatter.Format == "json" {
		return formatter.Success(summaries)
	}

	if len(summaries) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tSTATUS\tROWS\tSQL")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", s.ID, s.StartedAt, describeOutcome(s.Status, s.ErrorCode), s.Rows, firstLine(s.SQL))
	}
	return tw.Flush()
}

// openHistory opens the configured history database.
func openHistory(cfg config.Config, formatter *OutputFormatter) (*store.Store, error) {
	if cfg.History == "" {
		msg := "no history database configured (use --history or history: in the config file)"
		if err := formatter.Error(ErrCodeNoHistory, msg, nil); err != nil {
			return nil, err
		}
		return nil, NewExitError(ExitCommandError, msg)
	}

	st, err := store.Open(cfg.History)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open history database", err)
	}
	return st, nil
}

func summarizeRun(run store.Run) RunSummary {
	return RunSummary{
		ID:        run.ID,
		StartedAt: run.StartedAt.UTC().Format(time.RFC3339),
		Status:    run.Status,
		ErrorCode: run.ErrorCode,
		Rows:      run.Rows,
		Digest:    run.Digest,
		QueryHash: run.QueryHash,
		SQL:       run.SQL,
	}
}
