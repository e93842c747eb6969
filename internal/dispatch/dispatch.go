// Package dispatch runs the user's wake command once the alarm fires.
//
// The dispatcher is invoked from the alarm's notification goroutine while
// the process may still be privileged. It gives up the elevated identity,
// runs the command through the shell and then ends the process. Nothing
// returns to the caller.
package dispatch

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/user"
	"strconv"
	"strings"

	"github.com/connorhough/wakeup/internal/privilege"
)

// Dispatcher carries everything OnFire needs. All fields are set before the
// alarm is armed and only read afterwards.
type Dispatcher struct {
	Privilege privilege.Context
	Command   string

	System privilege.System
	Shell  Shell
	Exit   func(code int)

	Out    io.Writer
	ErrOut io.Writer

	// Environ and LookupUser default to os.Environ and user.LookupId.
	Environ    func() []string
	LookupUser func(uid string) (*user.User, error)
}

// New returns a Dispatcher wired to the real system, shell and os.Exit.
func New(pc privilege.Context, command string, out, errOut io.Writer) *Dispatcher {
	return &Dispatcher{
		Privilege:  pc,
		Command:    command,
		System:     privilege.CurrentSystem,
		Shell:      SystemShell,
		Exit:       os.Exit,
		Out:        out,
		ErrOut:     errOut,
		Environ:    os.Environ,
		LookupUser: user.LookupId,
	}
}

// OnFire drops privilege, runs the command and exits with its status. A
// failed privilege drop is reported but the command still runs.
func (d *Dispatcher) OnFire() {
	if err := privilege.Drop(d.Privilege, d.System); err != nil {
		slog.Error("Failed to drop privileges", "target", d.Privilege.String(), "error", err)
		fmt.Fprintf(d.ErrOut, "warning: identity drop failed, command runs as uid %d gid %d: %v\n",
			d.System.Geteuid(), d.System.Getegid(), err)
	}

	env := d.environ()

	fmt.Fprintln(d.Out, "tock.")

	slog.Debug("Running wake command", "command", d.Command, "uid", d.System.Geteuid(), "gid", d.System.Getegid())

	code, err := d.Shell.Run(d.Command, env, d.Out, d.ErrOut)
	if err != nil {
		fmt.Fprintf(d.ErrOut, "error: failed to execute command: %s: %v\n", d.Command, err)
		d.Exit(1)
		return
	}

	slog.Debug("Wake command finished", "status", code)
	d.Exit(code)
}

// environ is the inherited environment with HOME, USER and LOGNAME pointing
// at the restored user, so the command does not see root's home.
func (d *Dispatcher) environ() []string {
	env := d.Environ()
	if !d.Privilege.Elevated() {
		return env
	}

	u, err := d.LookupUser(strconv.Itoa(d.Privilege.RestoreUID))
	if err != nil {
		slog.Warn("Cannot look up restored user, keeping environment", "uid", d.Privilege.RestoreUID, "error", err)
		return env
	}

	return setEnv(env, map[string]string{
		"HOME":    u.HomeDir,
		"USER":    u.Username,
		"LOGNAME": u.Username,
	})
}

func setEnv(env []string, vars map[string]string) []string {
	out := make([]string, 0, len(env)+len(vars))
	for _, kv := range env {
		key, _, _ := strings.Cut(kv, "=")
		if _, replaced := vars[key]; replaced {
			continue
		}
		out = append(out, kv)
	}
	for _, key := range []string{"HOME", "USER", "LOGNAME"} {
		if v, ok := vars[key]; ok {
			out = append(out, key+"="+v)
		}
	}
	return out
}
