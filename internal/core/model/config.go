package model

// Domain bounds for the two phase durations, in minutes.
const (
	MinFocusMinutes  = 5
	MaxFocusMinutes  = 60
	FocusStepMinutes = 5

	MinBreakMinutes  = 1
	MaxBreakMinutes  = 15
	BreakStepMinutes = 1
)

// SessionConfig holds the configured phase durations.
type SessionConfig struct {
	FocusMinutes int
	BreakMinutes int
}

// DefaultSessionConfig returns the 25/5 split.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{FocusMinutes: 25, BreakMinutes: 5}
}

// WithFocusDelta returns a copy with delta applied to the focus duration.
func (config SessionConfig) WithFocusDelta(delta int) SessionConfig {
	config.FocusMinutes = ClampFocus(config.FocusMinutes + delta)
	return config
}

// WithBreakDelta returns a copy with delta applied to the break duration.
func (config SessionConfig) WithBreakDelta(delta int) SessionConfig {
	config.BreakMinutes = ClampBreak(config.BreakMinutes + delta)
	return config
}

// Normalized clamps both durations into their domains.
func (config SessionConfig) Normalized() SessionConfig {
	return SessionConfig{
		FocusMinutes: ClampFocus(config.FocusMinutes),
		BreakMinutes: ClampBreak(config.BreakMinutes),
	}
}

// ClampFocus bounds minutes to [5, 60] and snaps down onto the 5 minute grid.
func ClampFocus(minutes int) int {
	return clampStep(minutes, MinFocusMinutes, MaxFocusMinutes, FocusStepMinutes)
}

// ClampBreak bounds minutes to [1, 15].
func ClampBreak(minutes int) int {
	return clampStep(minutes, MinBreakMinutes, MaxBreakMinutes, BreakStepMinutes)
}

func clampStep(value, low, high, step int) int {
	if value < low {
		return low
	}
	if value > high {
		value = high
	}
	return low + ((value-low)/step)*step
}
