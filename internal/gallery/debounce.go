package gallery

import (
	"sync"
	"time"
)

// DefaultDebounceWindow is how long a burst of resize notifications must be
// quiet before the final one is applied.
const DefaultDebounceWindow = 150 * time.Millisecond

// Debouncer holds at most one pending trigger. A new trigger replaces the
// pending one and restarts the window. Once stopped it ignores triggers.
type Debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	timer   *time.Timer
	gen     uint64
	stopped bool
}

// NewDebouncer creates a Debouncer with the given quiet window.
func NewDebouncer(window time.Duration) *Debouncer {
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	return &Debouncer{window: window}
}

// Window returns the quiet window.
func (d *Debouncer) Window() time.Duration {
	return d.window
}

// Trigger schedules fn to run once the window elapses without another Trigger.
// It does nothing after Stop.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen

	d.timer = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		// A newer trigger or Stop raced the timer; this one is stale.
		if gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()

		fn()
	})
}

// Pending reports whether a trigger is waiting to fire.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels the pending trigger, if any, and rejects later ones. It
// returns true if a trigger was pending.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	d.gen++
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	return true
}
