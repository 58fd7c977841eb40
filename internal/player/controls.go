package player

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep/v2/speaker"
	"go.uber.org/zap"
)

// Play starts or resumes rendering. An unbound element attaches itself to
// the speaker on first use.
func (e *Element) Play() error {
	e.mu.Lock()
	if e.ctrl == nil {
		e.mu.Unlock()
		return ErrNoSource
	}
	needsSpeaker := !e.bound && !e.started
	e.mu.Unlock()

	// speaker.Play takes the speaker lock, which the audio thread holds
	// while it calls into output.Stream; never hold e.mu here.
	if needsSpeaker {
		if err := e.attachSpeaker(); err != nil {
			return fmt.Errorf("%w: %w", ErrPlaybackBlocked, err)
		}
	}

	e.mu.Lock()
	if e.ctrl == nil {
		e.mu.Unlock()
		return ErrNoSource
	}
	wasPaused := e.ctrl.Paused
	e.ctrl.Paused = false
	e.ended = false
	ev := Event{Kind: EventPlay, Token: e.src.Token, Position: e.positionLocked(), Duration: e.durationLocked()}
	e.mu.Unlock()

	if wasPaused {
		e.emit(ev)
	}
	return nil
}

func (e *Element) attachSpeaker() error {
	e.mu.Lock()
	rate, buf := e.cfg.SampleRate, e.cfg.BufferSize
	e.mu.Unlock()

	if err := speaker.Init(rate, rate.N(buf)); err != nil {
		return err
	}
	speaker.Play(e.out)

	e.mu.Lock()
	e.started = true
	e.mu.Unlock()
	return nil
}

// Pause stops rendering and keeps the position.
func (e *Element) Pause() {
	e.mu.Lock()
	if e.ctrl == nil || e.ctrl.Paused {
		e.mu.Unlock()
		return
	}
	e.ctrl.Paused = true
	ev := Event{Kind: EventPause, Token: e.src.Token, Position: e.positionLocked(), Duration: e.durationLocked()}
	e.mu.Unlock()

	e.emit(ev)
}

// Paused reports whether the element is not rendering audio.
func (e *Element) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctrl == nil || e.ctrl.Paused
}

// Seek moves to an absolute position, clamped to the stream bounds.
func (e *Element) Seek(pos time.Duration) {
	e.mu.Lock()
	if e.streamer == nil {
		e.mu.Unlock()
		return
	}
	n := e.format.SampleRate.N(pos)
	n = max(0, min(n, e.streamer.Len()))
	if err := e.streamer.Seek(n); err != nil {
		e.logger.Debug("seek failed", zap.Error(err))
	}
	e.ended = false
	e.rebuildLocked()
	cur := e.positionLocked()
	e.lastUpdate = cur
	ev := Event{Kind: EventTimeUpdate, Token: e.src.Token, Position: cur, Duration: e.durationLocked()}
	e.mu.Unlock()

	e.emit(ev)
}

// Position returns the decoder position.
func (e *Element) Position() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.positionLocked()
}

// Duration returns the decoded duration, 0 until CanPlay.
func (e *Element) Duration() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.durationLocked()
}

// SetRate changes the playback rate. Pitch follows the rate.
func (e *Element) SetRate(rate float64) {
	if rate <= 0 || math.IsNaN(rate) {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rate = rate
	if e.resampler != nil {
		e.resampler.SetRatio(float64(e.format.SampleRate) / float64(e.cfg.SampleRate) * rate)
	}
}

func (e *Element) positionLocked() time.Duration {
	if e.streamer == nil {
		return 0
	}
	return e.format.SampleRate.D(e.streamer.Position())
}

func (e *Element) durationLocked() time.Duration {
	if e.streamer == nil {
		return 0
	}
	return e.format.SampleRate.D(e.streamer.Len())
}
