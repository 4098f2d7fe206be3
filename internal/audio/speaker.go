package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Speaker plays through the system audio device.
type Speaker struct {
	mu sync.Mutex
}

// NewSpeaker initializes the audio device.
func NewSpeaker() (*Speaker, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("%w: init speaker: %v", ErrUnavailable, err)
	}
	return &Speaker{}, nil
}

// Play queues streamer on the speaker mixer.
func (device *Speaker) Play(streamer beep.Streamer) {
	device.mu.Lock()
	defer device.mu.Unlock()
	speaker.Play(streamer)
}
