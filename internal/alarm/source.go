package alarm

import "time"

// Source is one kernel wake timer. Now and Set must use the same clock, and
// that clock must be able to resume a suspended system.
type Source interface {
	// Now reads the clock the timer is armed against.
	Now() (time.Time, error)

	// Set programs an absolute one-shot deadline.
	Set(deadline time.Time) error

	// Remaining returns the time left before the timer expires.
	Remaining() (time.Duration, error)

	// Wait blocks until the timer expires or the source is closed.
	Wait() error

	// Close disarms the timer and frees it. It unblocks a pending Wait.
	Close() error
}

// Opener creates a fresh Source. Failures should be *Error values of kind
// KindCreate or KindPermission.
type Opener func() (Source, error)

// OpenWakeSource opens the wake timer of the current operating system.
// It is initialized by the platform-specific files (e.g., timerfd_linux.go).
var OpenWakeSource Opener
