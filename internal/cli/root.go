package cli

import (
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/relq/internal/config"
	"github.com/roach88/relq/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	ConfigPath string
	BaseDir    string
	History    string
	Encoding   string
	Delimiter  string

	// IDs generates run ids. Nil uses store.UUIDv7Generator.
	IDs store.IDGenerator

	// Now stamps recorded runs. Nil uses time.Now.
	Now func() time.Time
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the relq CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relq",
		Short: "relq - SQL SELECT over CSV files",
		Long: `relq reads one SQL SELECT statement from standard input, runs it against
the CSV files named in its FROM clause and writes the result to standard
output as CSV.

Supported statements:
  SELECT <columns | *> FROM <table> [WHERE <condition>]

Conditions combine columns, integer, string and boolean literals with
AND, OR, > and parentheses. Tables are CSV files whose first record is
the header; a back-quoted name may hold a path or an s3://bucket/key URL.

Exit codes:
  0 - Query succeeded
  1 - Query failed (unsupported SQL, unknown column, type mismatch, ...)
  2 - Command error (bad flags, unreadable config, history database)

Examples:
  echo "SELECT name FROM people.csv WHERE age > 18" | relq
  relq --base-dir ./data --history relq.db < query.sql`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&opts.Format, "format", "text", "output format for auxiliary commands (json|text)")
	flags.StringVar(&opts.ConfigPath, "config", "", "path to YAML config file")
	flags.StringVar(&opts.BaseDir, "base-dir", "", "directory relative table paths resolve against")
	flags.StringVar(&opts.History, "history", "", "SQLite run history database")
	flags.StringVar(&opts.Encoding, "encoding", "", "input encoding (utf-8|latin1|windows-1252|utf-16le|utf-16be)")
	flags.StringVar(&opts.Delimiter, "delimiter", "", "input field delimiter (default \",\")")

	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewExplainCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// loadConfig merges the config file and flags.
func (o *RootOptions) loadConfig() (config.Config, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "failed to load config", err)
	}

	cfg = cfg.Apply(config.Overrides{
		BaseDir:   o.BaseDir,
		History:   o.History,
		Encoding:  o.Encoding,
		Delimiter: o.Delimiter,
		Verbose:   o.Verbose,
	})
	if err := config.Validate(cfg); err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "invalid flags", err)
	}
	return cfg, nil
}

func (o *RootOptions) idGenerator() store.IDGenerator {
	if o.IDs == nil {
		return store.UUIDv7Generator{}
	}
	return o.IDs
}

func (o *RootOptions) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}
