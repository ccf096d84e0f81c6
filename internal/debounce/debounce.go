// Package debounce coalesces bursts of triggers into one call after a quiet period.
package debounce

import (
	"sync"
	"time"
)

const (
	Search = 250 * time.Millisecond
	Picker = 200 * time.Millisecond
	Reload = 200 * time.Millisecond
)

// Debouncer calls fn once Wait has elapsed since the most recent Trigger.
// A Trigger during the wait restarts it.
type Debouncer struct {
	wait time.Duration
	fn   func()

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

func New(wait time.Duration, fn func()) *Debouncer {
	return &Debouncer{wait: wait, fn: fn}
}

func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, func() {
		d.mu.Lock()
		// 已被新的 Trigger 或 Stop 取代
		if gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		d.fn()
	})
}

// Stop cancels a pending call. It reports whether one was pending.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	return true
}

func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Value holds a raw value that updates immediately and a settled value that
// follows it only after the quiet period.
type Value[T any] struct {
	mu      sync.RWMutex
	raw     T
	settled T
	deb     *Debouncer
	onSet   func(T)
}

// NewValue creates a debounced value. onSettle, if non-nil, runs with the
// new settled value each time it changes.
func NewValue[T any](initial T, wait time.Duration, onSettle func(T)) *Value[T] {
	v := &Value[T]{raw: initial, settled: initial, onSet: onSettle}
	v.deb = New(wait, v.settle)
	return v
}

func (v *Value[T]) Set(x T) {
	v.mu.Lock()
	v.raw = x
	v.mu.Unlock()
	v.deb.Trigger()
}

func (v *Value[T]) settle() {
	v.mu.Lock()
	v.settled = v.raw
	x := v.settled
	v.mu.Unlock()
	if v.onSet != nil {
		v.onSet(x)
	}
}

// Flush settles the raw value now, cancelling any pending timer.
func (v *Value[T]) Flush() {
	v.deb.Stop()
	v.settle()
}

func (v *Value[T]) Raw() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.raw
}

func (v *Value[T]) Settled() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.settled
}

func (v *Value[T]) Stop() { v.deb.Stop() }
