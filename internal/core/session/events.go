package session

import (
	"time"

	"pomodoro/internal/core/model"
)

// State is the coarse run state of the controller.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StatePaused  State = "paused"
)

// EventType defines the type of controller event.
type EventType string

const (
	EventStateChange  EventType = "state_change"
	EventTick         EventType = "tick"
	EventPhaseChange  EventType = "phase_change"
	EventConfigChange EventType = "config_change"
)

// Snapshot is a consistent view of the controller. Progress is derived from
// the session and configuration each time a snapshot is taken.
type Snapshot struct {
	SessionID string
	State     State
	Phase     Phase
	// Remaining is the countdown in seconds; zero when idle.
	Remaining int
	// PhaseMinutes is the configured duration of the current phase.
	PhaseMinutes int
	// Progress is the elapsed share of the phase, in percent.
	Progress float64
	Config   model.SessionConfig
}

// Active reports whether a session exists.
func (snapshot Snapshot) Active() bool {
	return snapshot.State != StateIdle
}

// Running reports whether ticks are being delivered.
func (snapshot Snapshot) Running() bool {
	return snapshot.State == StateRunning
}

// Event represents a controller update for observers.
type Event struct {
	Type     EventType
	Snapshot Snapshot
	// Completed is the phase that just ended; set on EventPhaseChange only.
	Completed Phase
	At        time.Time
}
