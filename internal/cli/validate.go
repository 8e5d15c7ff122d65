package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/relq/internal/planner"
	"github.com/roach88/relq/internal/queryir"
	"github.com/roach88/relq/internal/querysql"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid     bool   `json:"valid"`
	Query     string `json:"query"`
	QueryHash string `json:"query_hash"`
	Source    string `json:"source"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a statement without reading any table",
		Long: `Read a SQL statement from standard input and check that relq can run it.

The statement is parsed, lowered and plan-checked. No table is opened, so
unknown columns and type mismatches are only found by running the query.

Exit codes:
  0 - Statement is supported
  1 - Statement is malformed or uses unsupported SQL
  2 - Command error

Examples:
  echo "SELECT name FROM people.csv WHERE age > 18" | relq validate
  relq validate --format json < query.sql`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	sql, err := readStatement(cmd)
	if err != nil {
		return err
	}

	stmt, err := checkStatement(sql)
	if err != nil {
		return formatter.QueryFailure("statement rejected", err)
	}
	formatter.VerboseLog("Lowered: %s", stmt)

	result := ValidationResult{
		Valid:     true,
		Query:     stmt.String(),
		QueryHash: queryir.Hash(sql),
		Source:    stmt.From.Path(),
	}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintln(formatter.Writer, "✓ Statement is valid")
	fmt.Fprintf(formatter.Writer, "  %s\n", result.Query)
	return nil
}

// checkStatement lowers sql and checks it can be planned.
func checkStatement(sql string) (queryir.Select, error) {
	stmt, err := querysql.Compile(sql)
	if err != nil {
		return queryir.Select{}, err
	}
	if err := planner.Check(stmt); err != nil {
		return queryir.Select{}, err
	}
	return stmt, nil
}
