package timespec

import (
	"errors"
	"fmt"
	"time"
)

// ErrEmptyDuration is returned when a relative spec adds up to zero seconds.
var ErrEmptyDuration = errors.New("duration must be non-zero")

// ParseError reports a malformed token. Token is the index of the offending
// token and Offset the byte offset inside it, or -1 when the whole token is
// at fault.
type ParseError struct {
	Token  int
	Offset int
	Input  string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("failed to parse time %q: %s", e.Input, e.Reason)
	if e.Offset >= 0 {
		msg = fmt.Sprintf("%s at offset %d", msg, e.Offset)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// PastTimeError is returned when an absolute instant lies before now.
type PastTimeError struct {
	At  time.Time
	Now time.Time
}

func (e *PastTimeError) Error() string {
	return fmt.Sprintf("cannot specify a time in the past: %d is %s before now",
		e.At.Unix(), e.Now.Sub(e.At).Round(time.Second))
}

func errIllegalChar(token, offset int, input string, c byte) error {
	return &ParseError{
		Token:  token,
		Offset: offset,
		Input:  input,
		Reason: fmt.Sprintf("illegal character in format: %q", c),
	}
}
