package harness

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every expectation and assertion held.
	Pass bool `json:"pass"`

	// Output is the CSV the run wrote, header included.
	Output string `json:"output"`

	// Attributes is the header; Rows the data records, as text.
	Attributes []string   `json:"attributes"`
	Rows       [][]string `json:"rows"`

	// ErrorCode is the QueryError code the run failed with, if any.
	ErrorCode    string `json:"error_code,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`

	// Digest is the output digest reported by the driver.
	Digest string `json:"digest"`

	// Errors lists every failed expectation.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:       true,
		Attributes: []string{},
		Rows:       [][]string{},
		Errors:     []string{},
	}
}

// AddError records a failed expectation and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
