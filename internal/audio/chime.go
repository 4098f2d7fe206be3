// Package audio plays the phase-change chime.
package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/mp3"

	"pomodoro/internal/core/session"
)

// ErrUnavailable indicates there is no audio device to play on.
var ErrUnavailable = errors.New("audio unavailable")

const (
	sampleRate    = beep.SampleRate(44100)
	fetchTimeout  = 10 * time.Second
	maxSoundBytes = 4 << 20
	fallbackTone  = 880.0
	fallbackPulse = 250 * time.Millisecond
)

// Player starts playback of a streamer and returns immediately.
type Player interface {
	Play(streamer beep.Streamer)
}

// Config contains chime options.
type Config struct {
	URL string
	// Volume is a base-2 exponent applied with effects.Volume.
	Volume float64
	Client *http.Client
}

// Chime is a session.Notifier that plays a short cue. The sound is fetched
// and decoded once, on first use, in the background.
type Chime struct {
	config Config
	player Player

	loadOnce sync.Once
	loaded   chan struct{}
	buffer   *beep.Buffer
}

var _ session.Notifier = (*Chime)(nil)

// New creates a Chime that plays through player. A nil player yields a chime
// that always reports ErrUnavailable.
func New(config Config, player Player) *Chime {
	if config.Client == nil {
		config.Client = &http.Client{Timeout: fetchTimeout}
	}
	return &Chime{
		config: config,
		player: player,
		loaded: make(chan struct{}),
	}
}

// PhaseComplete plays the cue without waiting for it.
func (chime *Chime) PhaseComplete(completed, next session.Phase) error {
	if chime.player == nil {
		return ErrUnavailable
	}
	go chime.play()
	return nil
}

// Preload starts fetching the sound so the first phase change plays promptly.
func (chime *Chime) Preload() {
	go chime.load()
}

// Wait blocks until the sound is loaded or ctx ends.
func (chime *Chime) Wait(ctx context.Context) error {
	select {
	case <-chime.loaded:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (chime *Chime) play() {
	chime.load()
	streamer := &effects.Volume{
		Streamer: chime.buffer.Streamer(0, chime.buffer.Len()),
		Base:     2,
		Volume:   chime.config.Volume,
	}
	chime.player.Play(streamer)
}

func (chime *Chime) load() {
	chime.loadOnce.Do(func() {
		defer close(chime.loaded)

		buffer, err := chime.fetch()
		if err != nil {
			log.Printf("chime: %v, using fallback tone", err)
			buffer, err = fallbackBuffer()
			if err != nil {
				log.Printf("chime: fallback tone: %v", err)
				buffer = beep.NewBuffer(beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2})
			}
		}
		chime.buffer = buffer
	})
}

func (chime *Chime) fetch() (*beep.Buffer, error) {
	if chime.config.URL == "" {
		return nil, errors.New("no sound url")
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, chime.config.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	response, err := chime.config.Client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("fetch sound: %w", err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch sound: unexpected status %s", response.Status)
	}

	data, err := io.ReadAll(io.LimitReader(response.Body, maxSoundBytes))
	if err != nil {
		return nil, fmt.Errorf("read sound: %w", err)
	}

	streamer, format, err := mp3.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return nil, fmt.Errorf("decode sound: %w", err)
	}
	defer streamer.Close()

	buffer := beep.NewBuffer(beep.Format{SampleRate: sampleRate, NumChannels: format.NumChannels, Precision: format.Precision})
	buffer.Append(beep.Resample(4, format.SampleRate, sampleRate, streamer))
	return buffer, nil
}

// fallbackBuffer synthesizes two short beeps.
func fallbackBuffer() (*beep.Buffer, error) {
	tone, err := generators.SineTone(sampleRate, fallbackTone)
	if err != nil {
		return nil, fmt.Errorf("sine tone: %w", err)
	}
	pulse := sampleRate.N(fallbackPulse)

	buffer := beep.NewBuffer(beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2})
	buffer.Append(beep.Seq(
		beep.Take(pulse, tone),
		beep.Silence(pulse/2),
		beep.Take(pulse, tone),
	))
	return buffer, nil
}
