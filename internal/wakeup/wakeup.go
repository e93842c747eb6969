// Package wakeup sequences a run: parse the wake time, arm the wake alarm,
// suspend the host and, when a wake command was given, hand over to the
// dispatcher once the alarm fires.
package wakeup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/connorhough/wakeup/internal/alarm"
	"github.com/connorhough/wakeup/internal/dispatch"
	"github.com/connorhough/wakeup/internal/privilege"
	"github.com/connorhough/wakeup/internal/suspend"
	"github.com/connorhough/wakeup/internal/timespec"
)

// Options are the inputs of a single run.
type Options struct {
	// Tokens is the time specification as typed.
	Tokens []string
	// Absolute makes Tokens a single epoch-seconds value.
	Absolute bool
	// SuspendCommand puts the host to sleep. Empty means suspend.DefaultCommand.
	SuspendCommand string
	// EventCommand runs after wakeup as the invoking user. Empty means none.
	EventCommand string
}

// Suspender blocks while the host sleeps.
type Suspender interface {
	Invoke(ctx context.Context, command string) error
}

// Runner holds the collaborators of a run. Use New for the real ones.
type Runner struct {
	Clock     Clock
	OpenAlarm alarm.Opener
	Suspender Suspender

	System    privilege.System
	LookupEnv func(string) (string, bool)

	// Dispatch builds the callback run when the alarm fires.
	Dispatch func(pc privilege.Context, command string) func()

	Out io.Writer
}

// New returns a Runner wired to the system clock, the platform wake alarm,
// the suspend command and the privilege-dropping dispatcher.
func New(out, errOut io.Writer) *Runner {
	inv := suspend.NewInvoker()
	inv.Stdout, inv.Stderr = out, errOut

	return &Runner{
		Clock:     SystemClock,
		OpenAlarm: alarm.OpenWakeSource,
		Suspender: inv,
		System:    privilege.CurrentSystem,
		LookupEnv: os.LookupEnv,
		Dispatch: func(pc privilege.Context, command string) func() {
			return dispatch.New(pc, command, out, errOut).OnFire
		},
		Out: out,
	}
}

// Run executes one parse, arm, suspend sequence. Every failure is returned
// as a *StageError and nothing is retried.
//
// When opts.EventCommand is set Run waits, after the suspend command
// returns, for the dispatcher to finish. The real dispatcher exits the
// process, so in that case Run only returns on error or cancellation.
func (r *Runner) Run(ctx context.Context, opts Options) error {
	suspendCmd := opts.SuspendCommand
	if suspendCmd == "" {
		suspendCmd = suspend.DefaultCommand
	}

	ts, err := timespec.Parse(opts.Tokens, opts.Absolute, r.Clock.Now())
	if err != nil {
		return stageErr(StageParse, err)
	}
	if len(ts.Dropped) > 0 {
		slog.Warn("Ignoring digits without a unit", "tokens", ts.Dropped)
	}
	slog.Debug("Parsed time spec", "kind", ts.Kind, "spec", ts.String())

	deadline := alarm.After(ts.Duration())
	if ts.Kind == timespec.Absolute {
		deadline = alarm.At(ts.At)
	}

	// The restore identity is captured here, while the process still has
	// the credentials it was started with, and before arming uses them.
	var onFire func()
	if opts.EventCommand != "" {
		if r.System == nil {
			return stageErr(StageAlarm, &alarm.Error{
				Kind: alarm.KindCreate,
				Op:   "resolve privilege context",
				Err:  errors.ErrUnsupported,
			})
		}
		pc := privilege.Resolve(r.System, r.LookupEnv)
		slog.Debug("Resolved privilege context", "identity", pc.String())
		onFire = r.Dispatch(pc, opts.EventCommand)
	}

	h := alarm.New(r.OpenAlarm)
	if err := h.Arm(deadline, onFire); err != nil {
		return stageErr(StageAlarm, err)
	}
	defer func() {
		if err := h.Release(); err != nil {
			slog.Warn("Failed to release wake alarm", "error", err)
		}
	}()

	hours, mins, secs := ts.Split()
	fmt.Fprintf(r.Out, "timer set for wakeup in: %d hours %d min %d sec\n", hours, mins, secs)
	fmt.Fprintln(r.Out, "tick.")

	if err := r.Suspender.Invoke(ctx, suspendCmd); err != nil {
		return stageErr(StageSuspend, err)
	}

	if onFire == nil {
		fmt.Fprintln(r.Out, "tock.")
		return nil
	}

	select {
	case <-h.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
