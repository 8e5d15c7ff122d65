package store

import "time"

// Run statuses.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Run is one recorded execution of a statement.
type Run struct {
	ID        string
	Seq       int64 // assigned on insert
	StartedAt time.Time

	SQL       string
	QueryHash string

	// Source settings the statement ran with. Replay reuses them.
	BaseDir   string
	Encoding  string
	Delimiter string

	Status       string
	ErrorCode    string // QueryError code, empty on success
	ErrorMessage string
	Rows         int64
	Digest       string // output digest, also set for failed runs
}

// Succeeded reports whether the run finished without error.
func (r Run) Succeeded() bool {
	return r.Status == StatusOK
}
