// Package timespec turns the tokens a user types on the command line into a
// validated wake time, either a duration from now or an absolute instant.
package timespec

import (
	"fmt"
	"time"
)

// Kind tells whether a TimeSpec is relative to the moment of arming or pinned
// to an absolute instant.
type Kind int

const (
	Relative Kind = iota
	Absolute
)

func (k Kind) String() string {
	switch k {
	case Relative:
		return "relative"
	case Absolute:
		return "absolute"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// TimeSpec is a parsed wake time. It is built once by Parse and never
// mutated afterwards.
//
// For Relative specs Hours, Minutes and Seconds hold the per-unit sums as
// typed (they are not normalized, "90m" stays 90 minutes). For Absolute specs
// At is authoritative and Hours, Minutes and Seconds are the normalized
// distance from the parse time, kept for reporting only.
type TimeSpec struct {
	Kind    Kind
	Hours   int64
	Minutes int64
	Seconds int64
	At      time.Time

	// Dropped lists tokens that ended in digits without a unit. Those digits
	// are ignored rather than rejected.
	Dropped []string
}

// TotalSeconds returns hours, minutes and seconds folded into seconds.
func (ts TimeSpec) TotalSeconds() int64 {
	return ts.Hours*3600 + ts.Minutes*60 + ts.Seconds
}

// Duration returns TotalSeconds as a time.Duration.
func (ts TimeSpec) Duration() time.Duration {
	return time.Duration(ts.TotalSeconds()) * time.Second
}

// Split returns the normalized hours, minutes and seconds of ts, the
// form used in status lines.
func (ts TimeSpec) Split() (hours, minutes, seconds int64) {
	total := ts.TotalSeconds()
	return total / 3600, (total % 3600) / 60, total % 60
}

func (ts TimeSpec) String() string {
	h, m, s := ts.Split()
	if ts.Kind == Absolute {
		return fmt.Sprintf("at %d (%dh%dm%ds)", ts.At.Unix(), h, m, s)
	}
	return fmt.Sprintf("%dh%dm%ds", h, m, s)
}
