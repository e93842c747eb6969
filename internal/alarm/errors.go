package alarm

import (
	"errors"
	"fmt"
)

// Kind classifies an alarm failure.
type Kind int

const (
	KindCreate Kind = iota
	KindPermission
	KindClockRead
	KindArm
	KindState
)

// Sentinels matched by errors.Is against any *Error of the same Kind.
var (
	ErrCreate     = errors.New("failed to create timer")
	ErrPermission = errors.New("insufficient privilege to set a wake alarm (CAP_WAKE_ALARM required, try running as root)")
	ErrClockRead  = errors.New("failed to get time from RTC")
	ErrArm        = errors.New("failed to set wakeup time")
	ErrState      = errors.New("invalid alarm state")
)

// ErrAlreadyArmed is returned by Arm when the handle still holds a timer.
var ErrAlreadyArmed = errors.New("alarm already armed, release it first")

// Error is returned by every Handle and Source operation that fails.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %s: %v", e.sentinel(), e.Op, e.Err)
	}
	return fmt.Sprintf("%v: %s", e.sentinel(), e.Op)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.sentinel()}
	}
	return []error{e.sentinel(), e.Err}
}

func (e *Error) sentinel() error {
	switch e.Kind {
	case KindPermission:
		return ErrPermission
	case KindClockRead:
		return ErrClockRead
	case KindArm:
		return ErrArm
	case KindState:
		return ErrState
	default:
		return ErrCreate
	}
}
