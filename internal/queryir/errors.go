package queryir

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/relq/internal/value"
)

// QueryError is a fatal condition raised while lowering, planning or
// executing a query. Any QueryError aborts the whole run; there is no
// partial-result recovery.
type QueryError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Column names the offending column, when there is one.
	Column string

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes query errors.
type ErrorCode string

const (
	// ErrCodeUnsupported marks SQL outside the executable fragment.
	ErrCodeUnsupported ErrorCode = "UNSUPPORTED"

	// ErrCodeParse marks SQL the parser rejected.
	ErrCodeParse ErrorCode = "PARSE_ERROR"

	// ErrCodeUnknownColumn marks a column reference that matches no attribute.
	ErrCodeUnknownColumn ErrorCode = "UNKNOWN_COLUMN"

	// ErrCodeTypeMismatch marks an operand of the wrong kind, e.g. a string
	// compared with >.
	ErrCodeTypeMismatch ErrorCode = "TYPE_MISMATCH"

	// ErrCodeBadLiteral marks a numeric literal that is not a valid int64.
	ErrCodeBadLiteral ErrorCode = "BAD_LITERAL"

	// ErrCodeSourceUnavailable marks a table that cannot be opened as CSV.
	ErrCodeSourceUnavailable ErrorCode = "SOURCE_UNAVAILABLE"
)

// Error implements the error interface.
func (e *QueryError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Column != "" {
		msg += fmt.Sprintf(" (column=%s)", e.Column)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *QueryError) Unwrap() error {
	return e.Err
}

// CodeOf returns the code of the first QueryError in err's chain, or ""
// if there is none.
func CodeOf(err error) ErrorCode {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Code
	}
	return ""
}

// IsUnsupported returns true if err is an unsupported-construct error.
func IsUnsupported(err error) bool {
	return CodeOf(err) == ErrCodeUnsupported
}

// IsUnknownColumn returns true if err is an unresolved column error.
func IsUnknownColumn(err error) bool {
	return CodeOf(err) == ErrCodeUnknownColumn
}

// IsTypeMismatch returns true if err is an operand kind error.
func IsTypeMismatch(err error) bool {
	return CodeOf(err) == ErrCodeTypeMismatch
}

// NewUnsupportedError reports a construct outside the executable fragment.
func NewUnsupportedError(format string, args ...any) *QueryError {
	return &QueryError{
		Code:    ErrCodeUnsupported,
		Message: "unimplemented construct: " + fmt.Sprintf(format, args...),
	}
}

// NewParseError wraps a parser failure.
func NewParseError(err error) *QueryError {
	return &QueryError{
		Code:    ErrCodeParse,
		Message: "could not parse SQL",
		Err:     err,
	}
}

// NewUnknownColumnError reports a column name missing from attrs.
func NewUnknownColumnError(name string, attrs []string) *QueryError {
	return &QueryError{
		Code:    ErrCodeUnknownColumn,
		Message: fmt.Sprintf("no such column among [%s]", strings.Join(attrs, ", ")),
		Column:  name,
	}
}

// NewTypeMismatchError reports an operand of the wrong kind.
func NewTypeMismatchError(op Op, side string, got value.Value) *QueryError {
	return &QueryError{
		Code:    ErrCodeTypeMismatch,
		Message: fmt.Sprintf("operator %s requires integer operands, %s operand is %s", op, side, value.Kind(got)),
	}
}

// NewBadLiteralError reports a numeric literal that is not an int64.
func NewBadLiteralError(text string, err error) *QueryError {
	return &QueryError{
		Code:    ErrCodeBadLiteral,
		Message: fmt.Sprintf("could not parse number %q into a 64-bit integer", text),
		Err:     err,
	}
}

// NewSourceError reports a table that cannot be opened or whose header
// cannot be read.
func NewSourceError(path string, err error) *QueryError {
	return &QueryError{
		Code:    ErrCodeSourceUnavailable,
		Message: fmt.Sprintf("could not read CSV source %q", path),
		Err:     err,
	}
}
