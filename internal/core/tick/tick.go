// Package tick provides the periodic callback sources that drive the session
// controller.
package tick

import (
	"sync"
	"time"
)

// Source invokes a callback on a fixed cadence until reconfigured.
// A cadence <= 0 or a nil callback disables the source.
type Source interface {
	Configure(cadence time.Duration, callback func())
}

// Interval is a Source backed by time.Ticker.
type Interval struct {
	mu         sync.Mutex
	cadence    time.Duration
	callback   func()
	generation uint64
	stopCh     chan struct{}
	closed     bool
}

// NewInterval creates a disabled Interval.
func NewInterval() *Interval {
	return &Interval{}
}

// Configure replaces the cadence and callback. Reconfiguring with the cadence
// already in effect only swaps the callback, so the running ticker keeps its
// phase and no tick is lost or repeated.
func (interval *Interval) Configure(cadence time.Duration, callback func()) {
	interval.mu.Lock()
	defer interval.mu.Unlock()
	if interval.closed {
		return
	}
	if cadence <= 0 || callback == nil {
		interval.stopLocked()
		return
	}
	if interval.stopCh != nil && cadence == interval.cadence {
		interval.callback = callback
		return
	}

	interval.stopLocked()
	interval.cadence = cadence
	interval.callback = callback
	interval.stopCh = make(chan struct{})
	go interval.run(interval.generation, cadence, interval.stopCh)
}

// Cadence returns the active cadence, or 0 when disabled.
func (interval *Interval) Cadence() time.Duration {
	interval.mu.Lock()
	defer interval.mu.Unlock()
	if interval.stopCh == nil {
		return 0
	}
	return interval.cadence
}

// Close disables the source permanently.
func (interval *Interval) Close() {
	interval.mu.Lock()
	defer interval.mu.Unlock()
	interval.stopLocked()
	interval.closed = true
}

func (interval *Interval) run(generation uint64, cadence time.Duration, stopCh chan struct{}) {
	ticker := time.NewTicker(cadence)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			callback := interval.currentCallback(generation)
			if callback == nil {
				return
			}
			callback()
		}
	}
}

// currentCallback returns nil once the ticker for generation has been
// replaced or stopped.
func (interval *Interval) currentCallback(generation uint64) func() {
	interval.mu.Lock()
	defer interval.mu.Unlock()
	if interval.stopCh == nil || interval.generation != generation {
		return nil
	}
	return interval.callback
}

func (interval *Interval) stopLocked() {
	if interval.stopCh != nil {
		close(interval.stopCh)
		interval.stopCh = nil
	}
	interval.callback = nil
	interval.cadence = 0
	interval.generation++
}
