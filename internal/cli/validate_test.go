package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/relq/internal/queryir"
)

func TestValidateValidStatement(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetIn(strings.NewReader("SELECT name, age AS years FROM people.csv WHERE age > 18"))
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "✓ Statement is valid")
	assert.Contains(t, output, `SELECT name, age AS years FROM "people.csv" WHERE (age > 18)`)
}

func TestValidateValidStatementJSON(t *testing.T) {
	sql := "SELECT * FROM data.people.csv"

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetIn(strings.NewReader(sql))
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, "data.people.csv", resp.Data.Source)
	assert.Equal(t, queryir.Hash(sql), resp.Data.QueryHash)
}

func TestValidateDoesNotOpenTables(t *testing.T) {
	res := execute(t, nil, "SELECT nope FROM does_not_exist.csv WHERE nope > 'x'", "validate")
	require.NoError(t, res.Err, "column and type errors are only found at run time")
}

func TestValidateRejected(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		code string
	}{
		{"join", "SELECT * FROM a.csv JOIN b.csv", "UNSUPPORTED"},
		{"function", "SELECT upper(name) FROM a.csv", "UNSUPPORTED"},
		{"comparison", "SELECT name FROM a.csv WHERE age < 3", "UNSUPPORTED"},
		{"two_statements", "SELECT a FROM t; SELECT b FROM t", "PARSE_ERROR"},
		{"empty", "  ", "PARSE_ERROR"},
		{"float", "SELECT a FROM t WHERE a > 1.5", "BAD_LITERAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			rootOpts := &RootOptions{Format: "text"}
			cmd := NewValidateCommand(rootOpts)
			cmd.SetIn(strings.NewReader(tt.sql))
			cmd.SetOut(buf)
			cmd.SetArgs([]string{})

			err := cmd.Execute()
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))
			assert.Contains(t, buf.String(), "Error ["+tt.code+"]")
		})
	}
}

func TestValidateRejectedJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetIn(strings.NewReader("SELECT t.name FROM t"))
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UNSUPPORTED", resp.Error.Code)
}
