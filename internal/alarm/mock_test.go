package alarm

import (
	"errors"
	"os"
	"sync"
	"time"
)

type MockSource struct {
	mu sync.Mutex

	Clock   time.Time
	Armed   []time.Time
	Closed  bool
	NowErr  error
	SetErr  error
	fire    chan struct{}
	closeCh chan struct{}
}

func NewMockSource(now time.Time) *MockSource {
	return &MockSource{
		Clock:   now,
		fire:    make(chan struct{}),
		closeCh: make(chan struct{}),
	}
}

func (m *MockSource) Now() (time.Time, error) {
	if m.NowErr != nil {
		return time.Time{}, m.NowErr
	}
	return m.Clock, nil
}

func (m *MockSource) Set(deadline time.Time) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Armed = append(m.Armed, deadline)
	return nil
}

func (m *MockSource) Remaining() (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Armed) == 0 {
		return 0, nil
	}
	return m.Armed[len(m.Armed)-1].Sub(m.Clock), nil
}

func (m *MockSource) Wait() error {
	select {
	case <-m.fire:
		return nil
	case <-m.closeCh:
		return os.ErrClosed
	}
}

func (m *MockSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Closed {
		return errors.New("already closed")
	}
	m.Closed = true
	close(m.closeCh)
	return nil
}

// Fire expires the timer.
func (m *MockSource) Fire() {
	close(m.fire)
}

func (m *MockSource) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Closed
}

// Ensure MockSource satisfies the Source interface
var _ Source = &MockSource{}

// mockOpener hands out the given sources in order.
func mockOpener(srcs ...*MockSource) Opener {
	var mu sync.Mutex
	return func() (Source, error) {
		mu.Lock()
		defer mu.Unlock()
		if len(srcs) == 0 {
			return nil, &Error{Kind: KindCreate, Op: "mock open", Err: errors.New("no more sources")}
		}
		src := srcs[0]
		srcs = srcs[1:]
		return src, nil
	}
}
