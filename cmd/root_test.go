package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/connorhough/wakeup/internal/alarm"
	"github.com/connorhough/wakeup/internal/privilege"
	"github.com/connorhough/wakeup/internal/wakeup"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Re-implement mocks for cmd package tests since internal test files aren't exported.

type MockClock struct {
	CurrentTime time.Time
}

func (m *MockClock) Now() time.Time {
	return m.CurrentTime
}

type MockSource struct {
	Clock  time.Time
	Armed  []time.Time
	closed chan struct{}
}

func (m *MockSource) Now() (time.Time, error)           { return m.Clock, nil }
func (m *MockSource) Remaining() (time.Duration, error) { return 0, nil }

func (m *MockSource) Set(deadline time.Time) error {
	m.Armed = append(m.Armed, deadline)
	return nil
}

func (m *MockSource) Wait() error {
	<-m.closed
	return os.ErrClosed
}

func (m *MockSource) Close() error {
	close(m.closed)
	return nil
}

type MockSuspender struct {
	Commands []string
}

func (m *MockSuspender) Invoke(ctx context.Context, command string) error {
	m.Commands = append(m.Commands, command)
	return nil
}

type harness struct {
	src       *MockSource
	opened    int
	suspender *MockSuspender
	out       *bytes.Buffer
}

var start = time.Date(2023, 1, 1, 10, 0, 0, 0, time.UTC)

func setup(t *testing.T) *harness {
	t.Helper()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	viper.Reset()
	cfgFile, logLevel = "", ""
	t.Cleanup(viper.Reset)

	h := &harness{
		src:       &MockSource{Clock: start, closed: make(chan struct{})},
		suspender: &MockSuspender{},
		out:       new(bytes.Buffer),
	}

	orig := newRunner
	newRunner = func(out, errOut io.Writer) *wakeup.Runner {
		return &wakeup.Runner{
			Clock: &MockClock{CurrentTime: start},
			OpenAlarm: func() (alarm.Source, error) {
				h.opened++
				return h.src, nil
			},
			Suspender: h.suspender,
			LookupEnv: func(string) (string, bool) { return "", false },
			Dispatch: func(pc privilege.Context, command string) func() {
				return func() {}
			},
			Out: out,
		}
	}
	t.Cleanup(func() { newRunner = orig })

	return h
}

func run(h *harness, args ...string) error {
	cmd := NewRootCmd()
	cmd.SetOut(h.out)
	cmd.SetErr(h.out)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestRootCmd_RelativeWithSuspendOverride(t *testing.T) {
	h := setup(t)

	if err := run(h, "2h", "-c", "/bin/true"); err != nil {
		t.Fatalf("Command failed: %v", err)
	}

	if len(h.src.Armed) != 1 || !h.src.Armed[0].Equal(start.Add(2*time.Hour)) {
		t.Errorf("Expected alarm at %v, got %v", start.Add(2*time.Hour), h.src.Armed)
	}
	if len(h.suspender.Commands) != 1 || h.suspender.Commands[0] != "/bin/true" {
		t.Errorf("Expected suspend command /bin/true, got %v", h.suspender.Commands)
	}
	if !strings.Contains(h.out.String(), "timer set for wakeup in: 2 hours 0 min 0 sec") {
		t.Errorf("Unexpected output: %q", h.out.String())
	}
}

func TestRootCmd_ConfiguredSuspendCommand(t *testing.T) {
	h := setup(t)
	t.Setenv("WAKEUP_SUSPEND_COMMAND", "systemctl suspend")

	if err := run(h, "1h20m"); err != nil {
		t.Fatalf("Command failed: %v", err)
	}

	if len(h.suspender.Commands) != 1 || h.suspender.Commands[0] != "systemctl suspend" {
		t.Errorf("Expected suspend command from env, got %v", h.suspender.Commands)
	}
}

func TestRootCmd_AbsolutePast(t *testing.T) {
	h := setup(t)

	err := run(h, "-a", "1000")

	var serr *wakeup.StageError
	if !errors.As(err, &serr) {
		t.Fatalf("Expected StageError, got %v", err)
	}
	if serr.ExitCode() != 2 {
		t.Errorf("Expected exit code 2, got %d", serr.ExitCode())
	}
	if h.opened != 0 {
		t.Error("Alarm should not be armed for a past time")
	}
}

func TestRootCmd_NoTimespec(t *testing.T) {
	h := setup(t)

	err := run(h)

	var serr *wakeup.StageError
	if !errors.As(err, &serr) {
		t.Fatalf("Expected StageError, got %v", err)
	}
	if serr.ExitCode() != 1 {
		t.Errorf("Expected exit code 1, got %d", serr.ExitCode())
	}
}

func TestRootCmd_Help(t *testing.T) {
	h := setup(t)

	if err := run(h, "--help"); err != nil {
		t.Fatalf("Expected help to succeed, got %v", err)
	}
	if !strings.Contains(h.out.String(), "--event") {
		t.Errorf("Help output missing flags: %q", h.out.String())
	}
	if len(h.suspender.Commands) != 0 {
		t.Error("Help must not suspend")
	}
}

func TestRootCmd_UnknownFlag(t *testing.T) {
	h := setup(t)

	err := run(h, "--bogus", "1h")
	if err == nil {
		t.Fatal("Expected error for unknown flag, got nil")
	}

	var serr *wakeup.StageError
	if errors.As(err, &serr) {
		t.Errorf("Unknown flag should not map to a stage, got %v", serr.Stage)
	}
}

func TestRootCmd_ExecuteAlias(t *testing.T) {
	h := setup(t)

	cmd := NewRootCmd()
	cmd.SetOut(h.out)
	cmd.SetErr(h.out)
	cmd.SetArgs([]string{"--execute", "mpc play", "5m"})

	// Stop after flag parsing: the dispatcher would wait for the alarm.
	cmd.RunE = func(c *cobra.Command, args []string) error {
		got, err := c.Flags().GetString("event")
		if err != nil {
			return err
		}
		if got != "mpc play" {
			t.Errorf("Expected --execute to set event, got %q", got)
		}
		return nil
	}

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Command failed: %v", err)
	}
}

func TestRootCmd_InvalidLogLevel(t *testing.T) {
	h := setup(t)

	err := run(h, "--log-level", "chatty", "1h")

	var serr *wakeup.StageError
	if !errors.As(err, &serr) || serr.Stage != wakeup.StageUsage {
		t.Fatalf("Expected usage error, got %v", err)
	}
}
