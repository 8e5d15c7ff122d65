package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/relq/internal/queryir"
)

// Process exit statuses.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // statement rejected or failed, scenario failed, replay diverged
	ExitCommandError = 2 // bad flags, config or history database
)

// Codes for failures that carry no query error code of their own.
const (
	ErrCodeGeneric     = "E001"
	ErrCodeReadFailed  = "E002" // stdin could not be read
	ErrCodeNotFound    = "E005" // scenario path or recorded run missing
	ErrCodeNoHistory   = "E006"
	ErrCodeReplayDrift = "E201"
	ErrCodeCancelled   = "CANCELLED"
)

// ExitError carries the process exit status for a command error.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode returns the exit status for an error returned by a command.
// Errors without an ExitError in their chain, such as cobra usage errors,
// exit with ExitFailure.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// failureCode names err in command output and in the run history: the
// query error code when there is one, CANCELLED for an interrupted run,
// ErrCodeGeneric otherwise.
func failureCode(err error) string {
	if code := queryir.CodeOf(err); code != "" {
		return string(code)
	}
	if errors.Is(err, context.Canceled) {
		return ErrCodeCancelled
	}
	return ErrCodeGeneric
}

// failureDetails holds the query error fields its Message leaves out.
func failureDetails(err error) map[string]string {
	var qe *queryir.QueryError
	if !errors.As(err, &qe) {
		return nil
	}
	details := map[string]string{}
	if qe.Column != "" {
		details["column"] = qe.Column
	}
	if qe.Err != nil {
		details["cause"] = qe.Err.Error()
	}
	return details
}

// OutputFormatter writes command results as text or as one JSON
// CLIResponse per call.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // verbose output; Writer when nil
	Verbose   bool
}

type CLIResponse struct {
	Status string    `json:"status"` // "ok" or "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

type CLIError struct {
	Code    string `json:"code"` // query error code such as UNKNOWN_COLUMN, or E0xx
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (f *OutputFormatter) json() bool {
	return f.Format == "json"
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	return json.NewEncoder(f.Writer).Encode(resp)
}

// Success writes data; text mode prints it with fmt.Println.
func (f *OutputFormatter) Success(data any) error {
	if f.json() {
		return f.encode(CLIResponse{Status: "ok", Data: data})
	}
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error writes a failure that is not a query error. Text mode prints
// details only when verbose.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.json() {
		return f.encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// QueryFailure reports a statement that was rejected or failed while
// running, and returns the ExitFailure error the command should return.
// The offending column and the underlying cause are always shown, in text
// mode as indented lines under the error.
func (f *OutputFormatter) QueryFailure(message string, err error) error {
	code := failureCode(err)
	msg := err.Error()
	var qe *queryir.QueryError
	if errors.As(err, &qe) {
		msg = qe.Message
	}
	details := failureDetails(err)

	if f.json() {
		var extra any
		if len(details) > 0 {
			extra = details
		}
		if outErr := f.Error(code, msg, extra); outErr != nil {
			return outErr
		}
	} else {
		fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, msg)
		for _, key := range []string{"column", "cause"} {
			if v, ok := details[key]; ok {
				fmt.Fprintf(f.Writer, "  %s: %s\n", key, v)
			}
		}
	}
	return WrapExitError(ExitFailure, message, err)
}

// VerboseLog writes to ErrWriter so JSON on Writer stays parseable.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}
