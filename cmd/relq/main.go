// Command relq runs one SQL SELECT statement, read from standard input,
// against CSV files and writes the result to standard output as CSV.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/relq/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "relq: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
