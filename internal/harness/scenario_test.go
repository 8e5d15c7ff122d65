package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario_ValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adults.yaml")
	content := `
name: adults_only
description: "WHERE keeps rows whose age is over 18"
tables:
  people.csv: |
    name,age
    Alice,30
    Bob,15
sql: SELECT name FROM people.csv WHERE age > 18
expect:
  output: |
    name
    Alice
assertions:
  - type: row_count
    count: 1
  - type: contains_row
    row: [Alice]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "adults_only", scenario.Name)
	assert.Equal(t, "name,age\nAlice,30\nBob,15\n", scenario.Tables["people.csv"])
	assert.Equal(t, "SELECT name FROM people.csv WHERE age > 18", scenario.SQL)
	require.NotNil(t, scenario.Expect)
	require.NotNil(t, scenario.Expect.Output)
	assert.Equal(t, "name\nAlice\n", *scenario.Expect.Output)
	assert.Len(t, scenario.Assertions, 2)
	assert.Equal(t, []string{"Alice"}, scenario.Assertions[1].Row)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestParseScenario_ExpectError(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: unknown_column
description: "an unknown column aborts the run"
tables:
  t.csv: "a\n1\n"
sql: SELECT b FROM t.csv
expect:
  error: UNKNOWN_COLUMN
`))
	require.NoError(t, err)
	assert.Equal(t, "UNKNOWN_COLUMN", scenario.Expect.Error)
	assert.Nil(t, scenario.Expect.Output)
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "unknown field",
			content: "name: x\ndescription: d\nsql: SELECT * FROM t\nassertion: []\n",
			errMsg:  "field assertion not found",
		},
		{
			name:    "missing name",
			content: "description: d\nsql: SELECT * FROM t\n",
			errMsg:  "name is required",
		},
		{
			name:    "missing description",
			content: "name: x\nsql: SELECT * FROM t\n",
			errMsg:  "description is required",
		},
		{
			name:    "missing sql",
			content: "name: x\ndescription: d\n",
			errMsg:  "sql is required",
		},
		{
			name:    "table escapes directory",
			content: "name: x\ndescription: d\nsql: SELECT * FROM t\ntables:\n  ../t.csv: \"a\\n\"\n",
			errMsg:  "relative path inside the scenario",
		},
		{
			name:    "absolute table path",
			content: "name: x\ndescription: d\nsql: SELECT * FROM t\ntables:\n  /tmp/t.csv: \"a\\n\"\n",
			errMsg:  "relative path inside the scenario",
		},
		{
			name:    "unknown encoding",
			content: "name: x\ndescription: d\nsql: SELECT * FROM t\nencoding: ebcdic\n",
			errMsg:  "unknown encoding",
		},
		{
			name:    "long delimiter",
			content: "name: x\ndescription: d\nsql: SELECT * FROM t\ndelimiter: \"||\"\n",
			errMsg:  "single character",
		},
		{
			name:    "output and error",
			content: "name: x\ndescription: d\nsql: SELECT * FROM t\nexpect:\n  output: \"a\\n\"\n  error: PARSE_ERROR\n",
			errMsg:  "mutually exclusive",
		},
		{
			name:    "unknown assertion",
			content: "name: x\ndescription: d\nsql: SELECT * FROM t\nassertions:\n  - type: trace_count\n",
			errMsg:  "unknown assertion type",
		},
		{
			name:    "row_order with one row",
			content: "name: x\ndescription: d\nsql: SELECT * FROM t\nassertions:\n  - type: row_order\n    rows: [[a]]\n",
			errMsg:  "at least two rows",
		},
		{
			name:    "contains_row without row",
			content: "name: x\ndescription: d\nsql: SELECT * FROM t\nassertions:\n  - type: contains_row\n",
			errMsg:  "row is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
