package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/roach88/relq/internal/store"
	"github.com/roach88/relq/internal/testutil"
)

// cliRun holds what one command invocation wrote.
type cliRun struct {
	Stdout string
	Stderr string
	Err    error
}

// execute runs the root command with stdin and args.
func execute(t *testing.T, opts *RootOptions, stdin string, args ...string) cliRun {
	t.Helper()

	if opts == nil {
		opts = &RootOptions{}
	}
	if opts.IDs == nil {
		opts.IDs = store.NewFixedGenerator("run-1", "run-2", "run-3", "run-4")
	}
	if opts.Now == nil {
		opts.Now = testutil.NewClock().Now
	}

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd := newRootCommand(opts)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return cliRun{Stdout: stdout.String(), Stderr: stderr.String(), Err: err}
}

// peopleDir returns a directory holding people.csv.
func peopleDir(t *testing.T) string {
	t.Helper()
	return testutil.Tables(t, map[string]string{"people.csv": testutil.People})
}
