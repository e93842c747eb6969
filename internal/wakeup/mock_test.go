package wakeup

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/connorhough/wakeup/internal/alarm"
)

type MockClock struct {
	CurrentTime time.Time
}

func (m *MockClock) Now() time.Time {
	return m.CurrentTime
}

// MockSource fires as soon as it is armed when FireOnSet is true.
type MockSource struct {
	mu        sync.Mutex
	Clock     time.Time
	Armed     []time.Time
	FireOnSet bool
	fire      chan struct{}
	closed    chan struct{}
	once      sync.Once
}

func NewMockSource(now time.Time) *MockSource {
	return &MockSource{Clock: now, fire: make(chan struct{}), closed: make(chan struct{})}
}

func (m *MockSource) Now() (time.Time, error) { return m.Clock, nil }

func (m *MockSource) Set(deadline time.Time) error {
	m.mu.Lock()
	m.Armed = append(m.Armed, deadline)
	m.mu.Unlock()
	if m.FireOnSet {
		close(m.fire)
	}
	return nil
}

func (m *MockSource) Remaining() (time.Duration, error) { return 0, nil }

func (m *MockSource) Wait() error {
	select {
	case <-m.fire:
		return nil
	case <-m.closed:
		return os.ErrClosed
	}
}

func (m *MockSource) Close() error {
	m.once.Do(func() { close(m.closed) })
	return nil
}

func (m *MockSource) IsClosed() bool {
	select {
	case <-m.closed:
		return true
	default:
		return false
	}
}

func (m *MockSource) ArmedAt() []time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Time(nil), m.Armed...)
}

type mockOpener struct {
	src    *MockSource
	err    error
	opened int
}

func (o *mockOpener) Open() (alarm.Source, error) {
	o.opened++
	if o.err != nil {
		return nil, o.err
	}
	return o.src, nil
}

type MockSuspender struct {
	Commands []string
	Err      error
}

func (m *MockSuspender) Invoke(ctx context.Context, command string) error {
	m.Commands = append(m.Commands, command)
	return m.Err
}

type MockSystem struct {
	UID, GID, EUID, EGID int
}

func (m *MockSystem) Getuid() int                { return m.UID }
func (m *MockSystem) Getgid() int                { return m.GID }
func (m *MockSystem) Geteuid() int               { return m.EUID }
func (m *MockSystem) Getegid() int               { return m.EGID }
func (m *MockSystem) Setgroups(gids []int) error { return errors.New("not in tests") }
func (m *MockSystem) Setgid(gid int) error       { return errors.New("not in tests") }
func (m *MockSystem) Setuid(uid int) error       { return errors.New("not in tests") }
