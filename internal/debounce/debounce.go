// Package debounce runs type-ahead lookups after input settles and drops
// responses that are no longer current.
package debounce

import (
	"context"
	"sync"
	"time"
)

// Debouncer delays a lookup until input has been quiet for the configured
// delay. Each new input cancels the pending timer and the context of any
// lookup in flight; only the result of the latest input reaches apply.
//
// apply runs with the debouncer locked and must not call back into it.
type Debouncer[T any] struct {
	delay  time.Duration
	fetch  func(ctx context.Context, query string) (T, error)
	apply  func(query string, result T, err error)
	parent context.Context

	mu      sync.Mutex
	seq     uint64
	timer   *time.Timer
	cancel  context.CancelFunc
	stopped bool
}

// New creates a Debouncer whose lookups derive their context from parent.
func New[T any](parent context.Context, delay time.Duration,
	fetch func(ctx context.Context, query string) (T, error),
	apply func(query string, result T, err error),
) *Debouncer[T] {
	return &Debouncer[T]{
		delay:  delay,
		fetch:  fetch,
		apply:  apply,
		parent: parent,
	}
}

// Input schedules a lookup for query and returns its sequence number.
func (d *Debouncer[T]) Input(query string) uint64 {
	return d.schedule(query, d.delay)
}

// Run starts a lookup for query immediately, superseding any pending one.
func (d *Debouncer[T]) Run(query string) uint64 {
	return d.schedule(query, 0)
}

// Cancel drops the pending and in-flight lookups without scheduling a new one.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	d.cancelLocked()
}

// Stop cancels all work; later input is ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.seq++
	d.cancelLocked()
}

// Latest returns the sequence number of the most recent input.
func (d *Debouncer[T]) Latest() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seq
}

func (d *Debouncer[T]) schedule(query string, delay time.Duration) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return d.seq
	}
	d.seq++
	seq := d.seq
	d.cancelLocked()
	d.timer = time.AfterFunc(delay, func() { d.fire(seq, query) })
	return seq
}

func (d *Debouncer[T]) cancelLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

func (d *Debouncer[T]) fire(seq uint64, query string) {
	d.mu.Lock()
	if seq != d.seq || d.stopped {
		d.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(d.parent)
	d.cancel = cancel
	d.timer = nil
	d.mu.Unlock()

	result, err := d.fetch(ctx, query)

	d.mu.Lock()
	defer d.mu.Unlock()
	cancel()
	if seq != d.seq || d.stopped {
		return
	}
	d.cancel = nil
	d.apply(query, result, err)
}
