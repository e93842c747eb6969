//go:build linux

package alarm

import (
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// timerfd is a CLOCK_REALTIME_ALARM timer file descriptor. The descriptor
// is non-blocking and wrapped in an *os.File, so Wait parks in the runtime
// poller and Close wakes it up.
type timerfd struct {
	f *os.File
}

func init() {
	OpenWakeSource = openTimerfd
}

func openTimerfd() (Source, error) {
	fd, err := unix.TimerfdCreate(unix.CLOCK_REALTIME_ALARM, unix.TFD_NONBLOCK|unix.TFD_CLOEXEC)
	if err != nil {
		return nil, classify("timerfd_create", err, KindCreate)
	}
	return &timerfd{f: os.NewFile(uintptr(fd), "timerfd")}, nil
}

func (t *timerfd) Now() (time.Time, error) {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_REALTIME_ALARM, &ts); err != nil {
		return time.Time{}, &Error{Kind: KindClockRead, Op: "clock_gettime", Err: err}
	}
	return time.Unix(ts.Unix()), nil
}

func (t *timerfd) Set(deadline time.Time) error {
	spec := unix.ItimerSpec{Value: unix.NsecToTimespec(deadline.UnixNano())}
	err := t.control(func(fd int) error {
		return unix.TimerfdSettime(fd, unix.TFD_TIMER_ABSTIME, &spec, nil)
	})
	if err != nil {
		return classify("timerfd_settime", err, KindArm)
	}
	return nil
}

func (t *timerfd) Remaining() (time.Duration, error) {
	var spec unix.ItimerSpec
	err := t.control(func(fd int) error {
		return unix.TimerfdGettime(fd, &spec)
	})
	if err != nil {
		return 0, &Error{Kind: KindState, Op: "timerfd_gettime", Err: err}
	}
	return time.Duration(spec.Value.Nano()), nil
}

func (t *timerfd) Wait() error {
	var buf [8]byte
	for {
		_, err := t.f.Read(buf[:])
		if errors.Is(err, unix.EINTR) {
			continue
		}
		return err
	}
}

func (t *timerfd) Close() error {
	return t.f.Close()
}

// control runs fn on the raw descriptor. Calling f.Fd() instead would put
// the descriptor back into blocking mode.
func (t *timerfd) control(fn func(fd int) error) error {
	rc, err := t.f.SyscallConn()
	if err != nil {
		return err
	}
	var opErr error
	if err := rc.Control(func(fd uintptr) {
		opErr = fn(int(fd))
	}); err != nil {
		return err
	}
	return opErr
}

func classify(op string, err error, fallback Kind) error {
	if errors.Is(err, unix.EPERM) || errors.Is(err, unix.EACCES) {
		return &Error{Kind: KindPermission, Op: op, Err: err}
	}
	if fallback == KindCreate && errors.Is(err, unix.EINVAL) {
		err = fmt.Errorf("CLOCK_REALTIME_ALARM not supported by this kernel: %w", err)
	}
	return &Error{Kind: fallback, Op: op, Err: err}
}
