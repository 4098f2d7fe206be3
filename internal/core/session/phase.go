package session

import (
	"github.com/oklog/ulid/v2"

	"pomodoro/internal/core/model"
)

// Phase is one of the two timer segments.
type Phase int

const (
	PhaseFocusing Phase = iota
	PhaseOnBreak
)

func (phase Phase) String() string {
	if phase == PhaseOnBreak {
		return "On Break"
	}
	return "Focusing"
}

// Next returns the phase that follows this one.
func (phase Phase) Next() Phase {
	if phase == PhaseFocusing {
		return PhaseOnBreak
	}
	return PhaseFocusing
}

// Minutes returns the configured duration of the phase.
func (phase Phase) Minutes(config model.SessionConfig) int {
	if phase == PhaseOnBreak {
		return config.BreakMinutes
	}
	return config.FocusMinutes
}

// Session is a live phase with its countdown.
type Session struct {
	ID        string
	Phase     Phase
	Remaining int
}

func newSession(phase Phase, config model.SessionConfig) *Session {
	return &Session{
		ID:        ulid.Make().String(),
		Phase:     phase,
		Remaining: phase.Minutes(config) * 60,
	}
}

// progress returns the elapsed percentage of the phase, kept in [0, 100] even
// when the configuration shrank below the time already allocated.
func progress(session *Session, config model.SessionConfig) float64 {
	total := session.Phase.Minutes(config) * 60
	if total <= 0 {
		return 100
	}
	value := float64(total-session.Remaining) / float64(total) * 100
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}
