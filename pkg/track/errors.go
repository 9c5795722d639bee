package track

import (
	"errors"
	"fmt"
)

var ErrMalformedRecord = errors.New("malformed track record")
var ErrResourceUnavailable = errors.New("track source unavailable")

// MalformedRecordError describes a tracker output line that could not be parsed.
// It matches ErrMalformedRecord with errors.Is.
type MalformedRecordError struct {
	Line   int    // 1-based line number, or 0 if unknown
	Field  string // Name of the offending field, or empty if the field count was wrong
	Value  string // Raw text of the offending field
	Reason string
	Err    error // Underlying conversion error, if any
}

func (e *MalformedRecordError) Error() string {
	msg := "malformed track record"
	if e.Line != 0 {
		msg += fmt.Sprintf(" on line %v", e.Line)
	}
	if e.Field != "" {
		msg += fmt.Sprintf(": field %v (%q)", e.Field, e.Value)
	}
	return msg + ": " + e.Reason
}

func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}
