package fix

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed means the line is not a JSON object.
	ErrMalformed = errors.New("fix: line is not a JSON object")
	// ErrMissingSource means the record has no _source object.
	ErrMissingSource = errors.New("fix: record has no _source object")
	// ErrMissingTimestamp means _source.ts is absent or null.
	ErrMissingTimestamp = errors.New("fix: record has no _source.ts")
	// ErrDuplicateKey means _source, or _source.data, occurs more than once,
	// so the stamped field would be ambiguous to the reindexer.
	ErrDuplicateKey = errors.New("fix: duplicate _source or _source.data key")
	// ErrInvalidTimestamp means _source.ts is not a number and does not parse as one.
	ErrInvalidTimestamp = errors.New("fix: _source.ts is not numeric")
)

// LineError attaches the 1-based input line number to a record fault.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }
