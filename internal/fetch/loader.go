// Package fetch tracks the status of a data-fetching operation so callers can
// tell "not started", "in flight", "failed" and "done" apart.
package fetch

import (
	"context"
	"errors"
	"sync"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusError   Status = "error"
	StatusReady   Status = "ready"
)

// ErrStale is returned by Load when a newer Load started before this one finished.
// Its result is dropped and the loader state is left to the newer request.
var ErrStale = errors.New("fetch: superseded by a newer request")

// Snapshot is a consistent view of a Loader. Generation counts started loads;
// Version changes only when Value or Err is replaced.
type Snapshot[T any] struct {
	Status     Status
	Value      T
	Err        error
	Generation uint64
	Version    uint64
}

// Loader holds the latest result of fn for a single resource. Each Load bumps
// a generation counter; only the newest generation may write its result.
type Loader[T any] struct {
	mu     sync.Mutex
	status Status
	value  T
	err    error
	gen    uint64
	ver    uint64
}

func NewLoader[T any]() *Loader[T] {
	return &Loader[T]{status: StatusIdle}
}

// Load runs fn and records its outcome. A failure clears the previous value;
// nothing is substituted for it.
func (l *Loader[T]) Load(ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	gen := l.begin()

	value, err := fn(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()

	var zero T
	if gen != l.gen {
		return zero, ErrStale
	}
	if err != nil {
		l.status = StatusError
		l.value = zero
		l.err = err
		l.ver++
		return zero, err
	}
	l.status = StatusReady
	l.value = value
	l.err = nil
	l.ver++
	return value, nil
}

func (l *Loader[T]) begin() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	l.status = StatusLoading
	l.err = nil
	return l.gen
}

// Reset returns the loader to idle and invalidates any request in flight.
func (l *Loader[T]) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	var zero T
	l.gen++
	l.status = StatusIdle
	l.value = zero
	l.err = nil
	l.ver++
}

func (l *Loader[T]) Snapshot() Snapshot[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Snapshot[T]{Status: l.status, Value: l.value, Err: l.err, Generation: l.gen, Version: l.ver}
}

func (l *Loader[T]) Status() Status {
	return l.Snapshot().Status
}

func (l *Loader[T]) Value() T {
	return l.Snapshot().Value
}

func (l *Loader[T]) Err() error {
	return l.Snapshot().Err
}
