package dispatch

import (
	"errors"
	"io"
	"os"
	"os/exec"
)

// Shell runs a command line through the system shell.
type Shell interface {
	// Run hands command to the shell unchanged and waits for it. The exit
	// status is returned when the shell started; err is only set when it
	// could not be started at all.
	Run(command string, env []string, stdout, stderr io.Writer) (int, error)
}

// ShellPath is the interpreter wake commands are passed to.
const ShellPath = "/bin/sh"

type execShell struct{}

// SystemShell runs commands with ShellPath -c.
var SystemShell Shell = &execShell{}

func (s *execShell) Run(command string, env []string, stdout, stderr io.Writer) (int, error) {
	cmd := exec.Command(ShellPath, "-c", command)
	cmd.Env = env
	cmd.Stdin = os.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code < 0 {
			// Killed by a signal.
			code = 1
		}
		return code, nil
	}
	if err != nil {
		return -1, err
	}
	return 0, nil
}
