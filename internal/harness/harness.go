package harness

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/roach88/relq/internal/csvio"
	"github.com/roach88/relq/internal/driver"
	"github.com/roach88/relq/internal/planner"
	"github.com/roach88/relq/internal/queryir"
)

// Run executes a scenario and returns the result.
//
// Each scenario runs against its own temporary directory holding only its
// tables. A failing query is a result, not an error: Run returns an error
// only when the scenario could not be executed at all.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	dir, err := os.MkdirTemp("", "relq-scenario-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create table directory: %w", err)
	}
	defer os.RemoveAll(dir)

	if err := writeTables(dir, scenario); err != nil {
		return nil, err
	}

	opts := driver.Options{
		Planner: planner.Options{
			Sources: &csvio.Sources{Files: csvio.FileOpener{BaseDir: dir}},
			Reader: csvio.ReaderOptions{
				Encoding:  scenario.Encoding,
				Delimiter: delimiterRune(scenario.Delimiter),
			},
		},
		// Scan warnings are not part of a scenario's result.
		Logger: slog.New(slog.DiscardHandler),
	}

	var out bytes.Buffer
	runResult, runErr := driver.Run(ctx, scenario.SQL, &out, opts)

	result := NewResult()
	result.Output = out.String()
	result.Digest = runResult.Digest
	if runErr != nil {
		code := queryir.CodeOf(runErr)
		if code == "" {
			return nil, fmt.Errorf("failed to execute query: %w", runErr)
		}
		result.ErrorCode = string(code)
		result.ErrorMessage = runErr.Error()
	}

	if err := parseOutput(result); err != nil {
		return nil, err
	}

	checkExpect(scenario.Expect, result)
	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// writeTables writes every table, encoded as the scenario declares.
func writeTables(dir string, scenario *Scenario) error {
	enc, err := csvio.LookupEncoding(scenario.Encoding)
	if err != nil {
		return err
	}

	for name, content := range scenario.Tables {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create directory for table %s: %w", name, err)
		}

		data, err := enc.NewEncoder().String(content)
		if err != nil {
			return fmt.Errorf("failed to encode table %s as %s: %w", name, scenario.Encoding, err)
		}
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			return fmt.Errorf("failed to write table %s: %w", name, err)
		}
	}
	return nil
}

func delimiterRune(s string) rune {
	if s == "" {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

// parseOutput splits the written CSV into header and rows.
func parseOutput(result *Result) error {
	if result.Output == "" {
		return nil
	}

	reader := csv.NewReader(strings.NewReader(result.Output))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to parse query output: %w", err)
	}

	// encoding/csv skips blank lines, so an empty header leaves no record.
	if len(records) == 0 {
		return nil
	}
	result.Attributes = records[0]
	result.Rows = records[1:]
	return nil
}

func checkExpect(expect *Expect, result *Result) {
	if expect == nil {
		if result.ErrorCode != "" {
			result.AddError(fmt.Sprintf("unexpected error: %s", result.ErrorMessage))
		}
		return
	}

	if expect.Error != "" {
		switch result.ErrorCode {
		case expect.Error:
		case "":
			result.AddError(fmt.Sprintf("expected error %s, query succeeded", expect.Error))
		default:
			result.AddError(fmt.Sprintf("expected error %s, got %s", expect.Error, result.ErrorMessage))
		}
		return
	}

	if result.ErrorCode != "" {
		result.AddError(fmt.Sprintf("unexpected error: %s", result.ErrorMessage))
		return
	}
	if expect.Output != nil && *expect.Output != result.Output {
		result.AddError(fmt.Sprintf("output mismatch\n  expected: %q\n  actual:   %q", *expect.Output, result.Output))
	}
}
