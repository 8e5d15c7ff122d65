package harness

import (
	"fmt"
	"slices"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes the produced rows to help debug the failure.
type AssertionError struct {
	Type     string     // Assertion type for categorization
	Expected string     // Human-readable expected outcome
	Actual   string     // Human-readable actual outcome
	Rows     [][]string // Produced rows for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nRows:\n")
	for i, row := range e.Rows {
		fmt.Fprintf(&buf, "  [%d] %s\n", i+1, strings.Join(row, ","))
	}

	return buf.String()
}

// EvaluateAssertions checks every assertion and returns the failure
// messages, in assertion order.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var failures []string
	for _, a := range assertions {
		if err := evaluateAssertion(result, a); err != nil {
			failures = append(failures, err.Error())
		}
	}
	return failures
}

func evaluateAssertion(result *Result, a Assertion) error {
	switch a.Type {
	case AssertRowCount:
		return assertRowCount(result.Rows, a)
	case AssertColumns:
		return assertColumns(result, a)
	case AssertContainsRow:
		return assertContainsRow(result.Rows, a)
	case AssertRowOrder:
		return assertRowOrder(result.Rows, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertRowCount(rows [][]string, a Assertion) error {
	if len(rows) == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertRowCount,
		Expected: fmt.Sprintf("%d rows", a.Count),
		Actual:   fmt.Sprintf("%d rows", len(rows)),
		Rows:     rows,
	}
}

func assertColumns(result *Result, a Assertion) error {
	if slices.Equal(result.Attributes, a.Columns) {
		return nil
	}
	return &AssertionError{
		Type:     AssertColumns,
		Expected: fmt.Sprintf("columns %v", a.Columns),
		Actual:   fmt.Sprintf("columns %v", result.Attributes),
		Rows:     result.Rows,
	}
}

func assertContainsRow(rows [][]string, a Assertion) error {
	if indexOfRow(rows, a.Row, 0) >= 0 {
		return nil
	}
	return &AssertionError{
		Type:     AssertContainsRow,
		Expected: fmt.Sprintf("row %v", a.Row),
		Actual:   "not found in output",
		Rows:     rows,
	}
}

// assertRowOrder checks that rows appear in the specified order.
// Rows don't need to be consecutive.
func assertRowOrder(rows [][]string, a Assertion) error {
	from := 0
	for _, want := range a.Rows {
		idx := indexOfRow(rows, want, from)
		if idx < 0 {
			return &AssertionError{
				Type:     AssertRowOrder,
				Expected: fmt.Sprintf("rows in order %v", a.Rows),
				Actual:   fmt.Sprintf("row %v not found after position %d", want, from),
				Rows:     rows,
			}
		}
		from = idx + 1
	}
	return nil
}

func indexOfRow(rows [][]string, want []string, from int) int {
	for i := from; i < len(rows); i++ {
		if slices.Equal(rows[i], want) {
			return i
		}
	}
	return -1
}
