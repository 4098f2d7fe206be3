package tick

import (
	"sync"
	"time"
)

// Manual is a Source that only fires when told to. It lets callers drive a
// controller synchronously, one tick at a time.
type Manual struct {
	mu       sync.Mutex
	cadence  time.Duration
	callback func()
	configs  int
}

// Configure records the cadence and callback.
func (manual *Manual) Configure(cadence time.Duration, callback func()) {
	manual.mu.Lock()
	defer manual.mu.Unlock()
	manual.configs++
	if cadence <= 0 || callback == nil {
		manual.cadence = 0
		manual.callback = nil
		return
	}
	manual.cadence = cadence
	manual.callback = callback
}

// Enabled reports whether a callback is currently installed.
func (manual *Manual) Enabled() bool {
	manual.mu.Lock()
	defer manual.mu.Unlock()
	return manual.callback != nil
}

// Cadence returns the configured cadence, or 0 when disabled.
func (manual *Manual) Cadence() time.Duration {
	manual.mu.Lock()
	defer manual.mu.Unlock()
	return manual.cadence
}

// Configurations returns how many times Configure has been called.
func (manual *Manual) Configurations() int {
	manual.mu.Lock()
	defer manual.mu.Unlock()
	return manual.configs
}

// Fire invokes the callback n times, stopping early if the source gets
// disabled. It returns the number of callbacks delivered.
func (manual *Manual) Fire(n int) int {
	delivered := 0
	for i := 0; i < n; i++ {
		manual.mu.Lock()
		callback := manual.callback
		manual.mu.Unlock()
		if callback == nil {
			break
		}
		callback()
		delivered++
	}
	return delivered
}
