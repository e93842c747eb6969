// Package suspend runs the external command that puts the host to sleep.
package suspend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/google/shlex"
)

// DefaultCommand is used when no suspend command is configured.
const DefaultCommand = "pm-suspend"

// InvocationError reports a suspend command that could not be started or
// exited with a non-zero status. Status is -1 when it never ran.
type InvocationError struct {
	Command string
	Status  int
	Err     error
}

func (e *InvocationError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s exited with status %d", e.Command, e.Status)
	}
	return fmt.Sprintf("failed to execute %s: %v", e.Command, e.Err)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// Invoker runs suspend commands through /bin/sh -c and waits for them
// without a timeout.
type Invoker struct {
	Stdout io.Writer
	Stderr io.Writer

	// LookPath defaults to exec.LookPath.
	LookPath func(file string) (string, error)
}

// NewInvoker returns an Invoker writing to the process's stdout and stderr.
func NewInvoker() *Invoker {
	return &Invoker{Stdout: os.Stdout, Stderr: os.Stderr, LookPath: exec.LookPath}
}

// Invoke runs command and blocks until it exits. Once started the command
// is not cancelled: an interrupt reaches it through the process group.
//
// The first word of command is looked up on PATH to warn early about a
// misspelt program, but the string always goes to the shell unchanged, so
// assignments, builtins and compound commands work.
func (inv *Invoker) Invoke(ctx context.Context, command string) error {
	if strings.TrimSpace(command) == "" {
		return &InvocationError{Command: command, Status: -1, Err: errors.New("empty command")}
	}
	if err := ctx.Err(); err != nil {
		return &InvocationError{Command: command, Status: -1, Err: err}
	}

	inv.checkProgram(command)

	slog.Debug("Suspending", "command", command)

	cmd := exec.Command("/bin/sh", "-c", command)
	cmd.Stdin = os.Stdin
	cmd.Stdout = inv.Stdout
	cmd.Stderr = inv.Stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return &InvocationError{Command: command, Status: exitErr.ExitCode(), Err: err}
	}
	if err != nil {
		return &InvocationError{Command: command, Status: -1, Err: err}
	}

	slog.Debug("Suspend command returned", "command", command)
	return nil
}

// checkProgram warns when the first word of command is not on PATH. It
// reports whether the program was found.
func (inv *Invoker) checkProgram(command string) bool {
	fields, err := shlex.Split(command)
	if err != nil || len(fields) == 0 {
		slog.Warn("Cannot split suspend command, passing it to the shell as is", "command", command, "error", err)
		return false
	}

	lookPath := inv.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	if _, err := lookPath(fields[0]); err != nil {
		slog.Warn("Suspend program not found on PATH", "program", fields[0], "error", err)
		return false
	}
	return true
}
