// Package alarm owns the kernel wake timer: a one-shot alarm on a clock that
// keeps running, and can resume the host, while the system is suspended.
//
// Arming it needs CAP_WAKE_ALARM, which in practice means root.
package alarm

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// State is the lifecycle position of a Handle.
type State int

const (
	Unarmed State = iota
	Armed
	Fired
)

func (s State) String() string {
	switch s {
	case Unarmed:
		return "unarmed"
	case Armed:
		return "armed"
	case Fired:
		return "fired"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Deadline is either an offset from the wake clock's current reading or an
// absolute instant.
type Deadline struct {
	offset time.Duration
	at     time.Time
}

// After is a deadline d past the wake clock reading taken at arm time.
func After(d time.Duration) Deadline {
	return Deadline{offset: d}
}

// At is a deadline at an absolute instant, used as given.
func At(t time.Time) Deadline {
	return Deadline{at: t}
}

func (d Deadline) resolve(now time.Time) time.Time {
	if !d.at.IsZero() {
		return d.at
	}
	return now.Add(d.offset)
}

// Handle arms and releases a single wake timer. It is meant to be driven from
// one goroutine; the callback passed to Arm runs on a goroutine of its own
// and must not call back into the Handle.
//
// The one-armed-timer rule is enforced per Handle, not per process. Callers
// that need a single alarm for the whole process create a single Handle, as
// wakeup.Runner does for each run.
type Handle struct {
	open Opener

	mu       sync.Mutex
	state    State
	src      Source
	deadline time.Time
	done     chan struct{}
}

// New returns an unarmed Handle that opens timers with open. A nil open
// uses OpenWakeSource.
func New(open Opener) *Handle {
	if open == nil {
		open = OpenWakeSource
	}
	return &Handle{open: open}
}

// Arm opens a timer and programs it for d. Offsets are added to a reading of
// the wake clock taken right before the timer is set, so time spent between
// parsing and arming is not lost.
//
// If onFire is non-nil it runs at most once, on its own goroutine, after the
// timer expires. It may run while the caller is still blocked elsewhere.
func (h *Handle) Arm(d Deadline, onFire func()) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != Unarmed {
		return &Error{Kind: KindState, Op: "arm", Err: ErrAlreadyArmed}
	}
	if h.open == nil {
		return &Error{Kind: KindCreate, Op: "open wake source", Err: fmt.Errorf("no wake source for this platform")}
	}

	src, err := h.open()
	if err != nil {
		return err
	}

	now, err := src.Now()
	if err != nil {
		_ = src.Close()
		return err
	}

	deadline := d.resolve(now)
	if err := src.Set(deadline); err != nil {
		_ = src.Close()
		return err
	}

	slog.Debug("Wake alarm armed", "deadline", deadline, "clock", now)

	done := make(chan struct{})
	h.state = Armed
	h.src = src
	h.deadline = deadline
	h.done = done

	go h.watch(src, done, onFire)
	return nil
}

// watch waits for one expiry of src. A single read consumes the expiry and the
// timer has no interval, so onFire cannot run twice.
func (h *Handle) watch(src Source, done chan struct{}, onFire func()) {
	defer close(done)

	if err := src.Wait(); err != nil {
		// Closed by Release.
		slog.Debug("Wake alarm wait ended", "error", err)
		return
	}

	h.mu.Lock()
	current := h.src == src
	if current {
		h.state = Fired
	}
	h.mu.Unlock()

	if !current {
		return
	}

	slog.Debug("Wake alarm fired")
	if onFire != nil {
		onFire()
	}
}

// Release disarms and frees the timer. Releasing an unarmed Handle is a
// no-op. The Handle can be armed again afterwards.
func (h *Handle) Release() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.src == nil {
		return nil
	}

	err := h.src.Close()
	h.src = nil
	h.state = Unarmed
	h.deadline = time.Time{}
	if err != nil {
		return fmt.Errorf("failed to release wake alarm: %w", err)
	}
	return nil
}

// State reports where the Handle is in its lifecycle.
func (h *Handle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Deadline returns the programmed expiry, or the zero time when unarmed.
func (h *Handle) Deadline() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.deadline
}

// Remaining asks the kernel how long until the timer expires.
func (h *Handle) Remaining() (time.Duration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.src == nil {
		return 0, &Error{Kind: KindState, Op: "remaining", Err: fmt.Errorf("alarm is %s", h.state)}
	}
	return h.src.Remaining()
}

// Done is closed once the current arming ends: after the callback returns,
// or after Release. It is nil before the first Arm.
func (h *Handle) Done() <-chan struct{} {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.done
}
