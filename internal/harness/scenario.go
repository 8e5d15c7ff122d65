package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/roach88/relq/internal/csvio"
)

// Scenario is one query test case.
type Scenario struct {
	// Name uniquely identifies this scenario. It names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Tables maps a relative file name to its CSV content.
	Tables map[string]string `yaml:"tables,omitempty"`

	// Encoding is the character encoding tables are written and read in.
	// Empty means UTF-8.
	Encoding string `yaml:"encoding,omitempty"`

	// Delimiter is the input field separator. Empty means ",".
	Delimiter string `yaml:"delimiter,omitempty"`

	// SQL is the statement under test.
	SQL string `yaml:"sql"`

	// Expect describes how the run must end. Optional.
	Expect *Expect `yaml:"expect,omitempty"`

	// Assertions are checked against the produced rows.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Expect specifies the run outcome.
type Expect struct {
	// Output is the exact CSV the run must write.
	Output *string `yaml:"output,omitempty"`

	// Error is the QueryError code the run must fail with.
	Error string `yaml:"error,omitempty"`
}

// Assertion checks a property of the produced rows.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Count is the expected number of rows (row_count).
	Count int `yaml:"count,omitempty"`

	// Columns is the expected header (columns).
	Columns []string `yaml:"columns,omitempty"`

	// Row is a record that must be present (contains_row).
	Row []string `yaml:"row,omitempty"`

	// Rows must appear in this relative order (row_order).
	Rows [][]string `yaml:"rows,omitempty"`
}

// Assertion type constants.
const (
	AssertRowCount    = "row_count"
	AssertColumns     = "columns"
	AssertContainsRow = "contains_row"
	AssertRowOrder    = "row_order"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if strings.TrimSpace(s.SQL) == "" {
		return fmt.Errorf("sql is required")
	}

	for name := range s.Tables {
		if !filepath.IsLocal(name) {
			return fmt.Errorf("table %q: name must be a relative path inside the scenario", name)
		}
	}

	if s.Encoding != "" {
		if _, err := csvio.LookupEncoding(s.Encoding); err != nil {
			return err
		}
	}
	if s.Delimiter != "" && utf8.RuneCountInString(s.Delimiter) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", s.Delimiter)
	}

	if s.Expect != nil && s.Expect.Output != nil && s.Expect.Error != "" {
		return fmt.Errorf("expect: output and error are mutually exclusive")
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(a); err != nil {
			return fmt.Errorf("assertions[%d]: %w", i, err)
		}
	}
	return nil
}

func validateAssertion(a Assertion) error {
	switch a.Type {
	case AssertRowCount:
		if a.Count < 0 {
			return fmt.Errorf("row_count: count must not be negative")
		}
	case AssertColumns:
		if a.Columns == nil {
			return fmt.Errorf("columns: columns is required")
		}
	case AssertContainsRow:
		if a.Row == nil {
			return fmt.Errorf("contains_row: row is required")
		}
	case AssertRowOrder:
		if len(a.Rows) < 2 {
			return fmt.Errorf("row_order: at least two rows are required")
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}
