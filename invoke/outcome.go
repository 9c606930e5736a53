package invoke

import (
	"encoding/json"
	"strings"
	"time"
)

// Outcome is the settled result of an async invocation. The output
// accessors materialize lazily from the accumulated buffers, so output
// that is never read is never decoded.
type Outcome struct {
	Pid      int
	ExitCode int
	Signal   string
	Duration time.Duration
	// Err carries the CommandError when the invocation failed with
	// Reject disabled; nil otherwise.
	Err *CommandError

	stdout []byte
	stderr []byte
	json   bool
}

// Stdout returns the accumulated standard output, trimmed of surrounding
// whitespace.
func (o *Outcome) Stdout() string {
	return strings.TrimSpace(string(o.stdout))
}

// Stderr returns the accumulated standard error, trimmed of surrounding
// whitespace.
func (o *Outcome) Stderr() string {
	return strings.TrimSpace(string(o.stderr))
}

// StdoutBytes returns the raw accumulated stdout bytes.
func (o *Outcome) StdoutBytes() []byte {
	return o.stdout
}

// StderrBytes returns the raw accumulated stderr bytes.
func (o *Outcome) StderrBytes() []byte {
	return o.stderr
}

// Value returns the mode-dependent stdout value: the trimmed text, or the
// decoded JSON value when the invocation ran in JSON mode. Decoding
// happens at read time, so a malformed payload surfaces here rather than
// at completion.
func (o *Outcome) Value() (any, error) {
	if !o.json {
		return o.Stdout(), nil
	}
	var v any
	if err := json.Unmarshal([]byte(o.Stdout()), &v); err != nil {
		return nil, err
	}
	return v, nil
}

// DecodeStdout unmarshals the JSON stdout into v.
func (o *Outcome) DecodeStdout(v any) error {
	return json.Unmarshal([]byte(o.Stdout()), v)
}
