package value

import (
	"fmt"
	"strconv"
)

// Value is a sealed interface over the three cell kinds.
// Only String, Boolean and Integer implement it.
type Value interface {
	value() // Sealed
}

// String is a text cell. It holds the source text verbatim.
type String string

func (String) value() {}

// Boolean is a true/false cell.
type Boolean bool

func (Boolean) value() {}

// Integer is a signed 64-bit cell.
type Integer int64

func (Integer) value() {}

// Row is an ordered tuple of cells, positionally aligned to the attribute
// list of the relation that produced it.
type Row []Value

// Clone returns a copy of the row. Values are immutable so a shallow copy
// is enough.
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// Infer types a raw text cell.
//
// The order is fixed: the exact literals "true" and "false" become Boolean,
// then anything strconv.ParseInt accepts in base 10 becomes Integer, and
// everything else becomes String holding the original text. Matching is
// case-sensitive, so "TRUE" stays a String.
func Infer(text string) Value {
	switch text {
	case "true":
		return Boolean(true)
	case "false":
		return Boolean(false)
	}
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return Integer(n)
	}
	return String(text)
}

// InferRecord types every cell of a raw record.
func InferRecord(record []string) Row {
	row := make(Row, len(record))
	for i, cell := range record {
		row[i] = Infer(cell)
	}
	return row
}

// Truthy maps any value to a boolean for use as a condition.
//   - Boolean: itself
//   - Integer: non-zero
//   - String: non-empty
func Truthy(v Value) bool {
	switch val := v.(type) {
	case Boolean:
		return bool(val)
	case Integer:
		return val != 0
	case String:
		return len(val) > 0
	default:
		return false
	}
}

// Text renders a value for CSV output.
// String is verbatim, Boolean is "true"/"false", Integer is decimal.
func Text(v Value) string {
	switch val := v.(type) {
	case String:
		return string(val)
	case Boolean:
		return strconv.FormatBool(bool(val))
	case Integer:
		return strconv.FormatInt(int64(val), 10)
	default:
		return ""
	}
}

// TextRecord renders every cell of a row.
func TextRecord(row Row) []string {
	record := make([]string, len(row))
	for i, v := range row {
		record[i] = Text(v)
	}
	return record
}

// Kind names the variant of a value, for diagnostics.
func Kind(v Value) string {
	switch v.(type) {
	case String:
		return "string"
	case Boolean:
		return "boolean"
	case Integer:
		return "integer"
	case nil:
		return "nil"
	default:
		return fmt.Sprintf("%T", v)
	}
}
