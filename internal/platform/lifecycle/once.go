package lifecycle

import (
	"context"
	"errors"
	"sync"
)

// ErrAlreadyRan is returned by Do after the first call.
var ErrAlreadyRan = errors.New("audit already ran")

type State int

const (
	StateIdle State = iota
	StateRunning
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Once runs a job at most once: Idle -> Running -> Done.
// A failed job still ends in Done; there is no retry.
type Once struct {
	mu    sync.Mutex
	state State
	err   error
}

// Do runs fn if no job has started yet. Concurrent and later calls return
// ErrAlreadyRan without running fn.
func (o *Once) Do(ctx context.Context, fn func(context.Context) error) error {
	o.mu.Lock()
	if o.state != StateIdle {
		o.mu.Unlock()
		return ErrAlreadyRan
	}
	o.state = StateRunning
	o.mu.Unlock()

	err := fn(ctx)

	o.mu.Lock()
	o.state = StateDone
	o.err = err
	o.mu.Unlock()
	return err
}

func (o *Once) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Err is the job's result once Done.
func (o *Once) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}
