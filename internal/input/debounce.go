package input

import (
	"sync/atomic"
	"time"
)

// Debouncer drops triggers that follow the last accepted one by less than
// the window. One Debouncer serves one physical button.
type Debouncer struct {
	window time.Duration
	last   atomic.Int64 // last accepted time, in clock nanoseconds
}

// NewDebouncer returns a debouncer that accepts its first trigger.
func NewDebouncer(window time.Duration) *Debouncer {
	d := &Debouncer{window: window}
	d.last.Store(int64(-window))
	return d
}

// Accept reports whether a trigger at now should produce an action. When two
// triggers race past the window check only the one that wins the
// compare-and-swap is accepted.
func (d *Debouncer) Accept(now time.Duration) bool {
	prev := d.last.Load()
	if int64(now)-prev < int64(d.window) {
		return false
	}
	return d.last.CompareAndSwap(prev, int64(now))
}

// Window returns the refractory period.
func (d *Debouncer) Window() time.Duration {
	return d.window
}
