// Package session holds the focus/break state machine.
//
// All commands and ticks are serialized behind one mutex. The tick source is
// reconfigured from inside the command that changes the run state, so ticks
// are enabled exactly while the controller is running; a tick that loses the
// race against a pause finds the controller stopped and does nothing.
package session

import (
	"fmt"
	"log"
	"sync"
	"time"

	"pomodoro/internal/core/model"
	"pomodoro/internal/core/tick"
)

// Notifier is told about every phase change. Implementations must return
// promptly; errors are logged and otherwise ignored.
type Notifier interface {
	PhaseComplete(completed, next Phase) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(completed, next Phase) error

// PhaseComplete calls fn.
func (fn NotifierFunc) PhaseComplete(completed, next Phase) error {
	return fn(completed, next)
}

// BoundaryMode selects how the tick that crosses a phase boundary is counted.
type BoundaryMode int

const (
	// BoundaryOriginal switches phase and decrements on the same tick, so a
	// new phase first shows one second less than its duration.
	BoundaryOriginal BoundaryMode = iota
	// BoundaryNormalized switches phase without decrementing, so a new phase
	// first shows its full duration.
	BoundaryNormalized
)

// ParseBoundary maps a settings value to a BoundaryMode.
func ParseBoundary(value string) (BoundaryMode, error) {
	switch value {
	case "", "original":
		return BoundaryOriginal, nil
	case "normalized":
		return BoundaryNormalized, nil
	default:
		return BoundaryOriginal, fmt.Errorf("unknown boundary mode %q", value)
	}
}

// Options contains runtime collaborators for the Controller.
type Options struct {
	Ticks    tick.Source
	Notifier Notifier
	Boundary BoundaryMode
	// Cadence is the tick period while running. Defaults to one second.
	Cadence time.Duration
	Now     func() time.Time
}

// Controller owns the session, run state and phase durations.
type Controller struct {
	mu      sync.Mutex
	config  model.SessionConfig
	options Options
	session *Session
	running bool
	events  []chan Event
	closed  bool
}

// New creates an idle Controller.
func New(config model.SessionConfig, options Options) *Controller {
	if options.Cadence <= 0 {
		options.Cadence = time.Second
	}
	if options.Ticks == nil {
		options.Ticks = &tick.Manual{}
	}
	if options.Now == nil {
		options.Now = time.Now
	}

	return &Controller{
		config:  config.Normalized(),
		options: options,
	}
}

// Subscribe registers a new observer channel. Slow observers miss events
// rather than stall the controller.
func (controller *Controller) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if controller.closed {
		close(ch)
		return ch
	}
	controller.events = append(controller.events, ch)
	return ch
}

// ToggleRun starts, pauses or resumes the timer.
func (controller *Controller) ToggleRun() {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if controller.closed {
		return
	}

	controller.running = !controller.running
	switch {
	case controller.running && controller.session == nil:
		controller.session = newSession(PhaseFocusing, controller.config)
		log.Printf("session %s: focusing for %d minutes", controller.session.ID, controller.config.FocusMinutes)
	case controller.running:
		log.Printf("session %s: resumed at %ds", controller.session.ID, controller.session.Remaining)
	default:
		log.Printf("session %s: paused at %ds", controller.session.ID, controller.session.Remaining)
	}

	controller.configureTicksLocked()
	controller.emitLocked(Event{Type: EventStateChange})
}

// Stop discards the session and stops ticking, whatever the current state.
func (controller *Controller) Stop() {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if controller.closed {
		return
	}

	if controller.session != nil {
		log.Printf("session %s: stopped", controller.session.ID)
	}
	controller.session = nil
	controller.running = false
	controller.configureTicksLocked()
	controller.emitLocked(Event{Type: EventStateChange})
}

// AdjustFocus changes the focus duration by delta minutes, clamped to
// [5, 60] on the 5 minute grid. It does nothing while running.
func (controller *Controller) AdjustFocus(delta int) {
	controller.adjust(func(config model.SessionConfig) model.SessionConfig {
		return config.WithFocusDelta(delta)
	})
}

// AdjustBreak changes the break duration by delta minutes, clamped to
// [1, 15]. It does nothing while running.
func (controller *Controller) AdjustBreak(delta int) {
	controller.adjust(func(config model.SessionConfig) model.SessionConfig {
		return config.WithBreakDelta(delta)
	})
}

func (controller *Controller) adjust(apply func(model.SessionConfig) model.SessionConfig) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if controller.closed || controller.running {
		return
	}

	updated := apply(controller.config)
	if updated == controller.config {
		return
	}
	controller.config = updated
	controller.emitLocked(Event{Type: EventConfigChange})
}

// Tick advances the running session by one second. At zero the session is
// replaced by the other phase and the notifier fires once.
func (controller *Controller) Tick() {
	controller.mu.Lock()
	if controller.closed || !controller.running || controller.session == nil {
		controller.mu.Unlock()
		return
	}

	var completed *Session
	decrement := true
	if controller.session.Remaining == 0 {
		completed = controller.session
		controller.session = newSession(completed.Phase.Next(), controller.config)
		decrement = controller.options.Boundary != BoundaryNormalized
		log.Printf("session %s: %s complete, session %s: %s for %d minutes",
			completed.ID, completed.Phase, controller.session.ID, controller.session.Phase,
			controller.session.Phase.Minutes(controller.config))
	}
	if decrement && controller.session.Remaining > 0 {
		controller.session.Remaining--
	}

	if completed != nil {
		controller.emitLocked(Event{Type: EventPhaseChange, Completed: completed.Phase})
	}
	controller.emitLocked(Event{Type: EventTick})
	next := controller.session.Phase
	notifier := controller.options.Notifier
	controller.mu.Unlock()

	if completed != nil && notifier != nil {
		notify(notifier, completed.Phase, next)
	}
}

// Snapshot returns the current state with progress derived on the spot.
func (controller *Controller) Snapshot() Snapshot {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.snapshotLocked()
}

// Close disables ticking and closes observers. Later commands are ignored.
func (controller *Controller) Close() {
	controller.mu.Lock()
	if controller.closed {
		controller.mu.Unlock()
		return
	}
	controller.closed = true
	controller.running = false
	controller.options.Ticks.Configure(0, nil)
	events := controller.events
	controller.events = nil
	controller.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (controller *Controller) configureTicksLocked() {
	if controller.running {
		controller.options.Ticks.Configure(controller.options.Cadence, controller.Tick)
		return
	}
	controller.options.Ticks.Configure(0, nil)
}

func (controller *Controller) snapshotLocked() Snapshot {
	snapshot := Snapshot{
		State:  StateIdle,
		Config: controller.config,
	}
	if controller.session == nil {
		return snapshot
	}

	snapshot.State = StatePaused
	if controller.running {
		snapshot.State = StateRunning
	}
	snapshot.SessionID = controller.session.ID
	snapshot.Phase = controller.session.Phase
	snapshot.Remaining = controller.session.Remaining
	snapshot.PhaseMinutes = controller.session.Phase.Minutes(controller.config)
	snapshot.Progress = progress(controller.session, controller.config)
	return snapshot
}

func (controller *Controller) emitLocked(event Event) {
	event.Snapshot = controller.snapshotLocked()
	event.At = controller.options.Now()
	for _, ch := range controller.events {
		select {
		case ch <- event:
		default:
		}
	}
}

func notify(notifier Notifier, completed, next Phase) {
	defer func() {
		if recovered := recover(); recovered != nil {
			log.Printf("notify phase change: panic: %v", recovered)
		}
	}()
	if err := notifier.PhaseComplete(completed, next); err != nil {
		log.Printf("notify phase change: %v", err)
	}
}
