package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/relq/internal/planner"
	"github.com/roach88/relq/internal/querysql"
)

// NewExplainCommand creates the explain command.
func NewExplainCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Print the operator tree for a statement",
		Long: `Read a SQL statement from standard input and print the operator tree
relq would pull, root first. No table is opened.

Examples:
  echo "SELECT name FROM people.csv WHERE age > 18" | relq explain
  relq explain --format json < query.sql`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(rootOpts, cmd)
		},
	}

	return cmd
}

func runExplain(opts *RootOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	sql, err := readStatement(cmd)
	if err != nil {
		return err
	}

	stmt, err := querysql.Compile(sql)
	if err != nil {
		return formatter.QueryFailure("statement rejected", err)
	}

	tree, err := planner.Describe(stmt)
	if err != nil {
		return formatter.QueryFailure("statement rejected", err)
	}
	formatter.VerboseLog("Operator depth: %d", tree.Depth())

	if formatter.Format == "json" {
		return formatter.Success(tree)
	}

	fmt.Fprint(formatter.Writer, tree.String())
	return nil
}
