package listsync

import (
	"context"
	"errors"
	"sync"
)

// Status is the lifecycle of a mutation.
type Status int

const (
	Idle Status = iota
	Submitting
	Succeeded
	Failed
)

func (s Status) String() string {
	switch s {
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// ErrBusy is returned when a mutation is started while another is in flight.
var ErrBusy = errors.New("a mutation is already in progress")

// Mutation tracks one submit at a time: Idle -> Submitting -> Succeeded or
// Failed, and back to Submitting on the next Run.
type Mutation struct {
	mu     sync.Mutex
	status Status
	err    error
}

func (m *Mutation) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	if m.status == Submitting {
		m.mu.Unlock()
		return ErrBusy
	}
	m.status = Submitting
	m.err = nil
	m.mu.Unlock()

	err := fn(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.status = Failed
		m.err = err
		return err
	}
	m.status = Succeeded
	return nil
}

func (m *Mutation) Status() (Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status, m.err
}

// Reset returns a finished mutation to Idle.
func (m *Mutation) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status != Submitting {
		m.status = Idle
		m.err = nil
	}
}
