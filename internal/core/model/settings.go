package model

// DefaultSoundURL is the chime played at every phase change.
const DefaultSoundURL = "https://bigsoundbank.com/UPLOAD/mp3/2386.mp3"

// Settings defines user preferences loaded at startup.
type Settings struct {
	FocusMinutes int
	BreakMinutes int

	SoundEnabled bool
	SoundURL     string
	// Volume is a base-2 exponent; 0 plays the sample unchanged.
	Volume float64

	Language string
	Boundary string
}

// DefaultSettings returns default settings.
func DefaultSettings() Settings {
	session := DefaultSessionConfig()
	return Settings{
		FocusMinutes: session.FocusMinutes,
		BreakMinutes: session.BreakMinutes,
		SoundEnabled: true,
		SoundURL:     DefaultSoundURL,
		Volume:       0,
		Boundary:     "original",
	}
}

// SessionConfig converts settings to a clamped SessionConfig.
func (settings Settings) SessionConfig() SessionConfig {
	return SessionConfig{
		FocusMinutes: settings.FocusMinutes,
		BreakMinutes: settings.BreakMinutes,
	}.Normalized()
}
