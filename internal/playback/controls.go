package playback

import (
	"math"
	"time"
)

// SeekTo moves to pos, clamped to [0, duration]. While loading the target
// is kept and applied once the element can play.
func (e *Engine) SeekTo(pos time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seekLocked(pos)
}

// SkipTime seeks relative to the current position.
func (e *Engine) SkipTime(delta time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	cur := e.position
	if e.status == StatusPlaying {
		cur = e.media.Position()
	}
	e.seekLocked(cur + delta)
}

func (e *Engine) seekLocked(pos time.Duration) {
	switch e.status {
	case StatusIdle, StatusError:
		return
	case StatusLoading:
		// duration is the advisory one until the element reports its own
		pos = clampPosition(pos, e.duration)
		e.pendingSeek = pos
		e.hasPending = true
		e.position = pos
		e.publishPosition()
		return
	case StatusPlaying, StatusPaused, StatusEnded:
	}
	if e.token == 0 {
		return
	}
	pos = clampPosition(pos, e.duration)
	e.media.Seek(pos)
	e.position = pos
	if e.status == StatusEnded {
		e.setStatus(StatusPaused)
	}
	e.publishPosition()
}

// clampPosition limits pos to [0, dur]. An unknown duration has no upper
// bound.
func clampPosition(pos, dur time.Duration) time.Duration {
	pos = max(pos, 0)
	if dur > 0 {
		pos = min(pos, dur)
	}
	return pos
}

// ChangeVolume sets the volume, clamped to [0,1]. NaN is ignored.
func (e *Engine) ChangeVolume(v float64) {
	if math.IsNaN(v) {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.transport.Volume = clampVolume(v)
	e.applyGainLocked()
	e.publishTransport()
}

// ToggleMute flips mute. The stored volume is untouched.
func (e *Engine) ToggleMute() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.transport.Muted = !e.transport.Muted
	e.applyGainLocked()
	e.publishTransport()
}

// ChangePlaybackRate sets the rate, clamped to [0.25, 2.0]. NaN is ignored.
func (e *Engine) ChangePlaybackRate(rate float64) {
	if math.IsNaN(rate) {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.transport.Rate = clampRate(rate)
	e.media.SetRate(e.transport.Rate)
	e.publishTransport()
}

// applyGainLocked pushes the effective gain to the graph on the audio
// clock and to the element. A bound element ignores its native volume.
func (e *Engine) applyGainLocked() {
	gain := e.transport.EffectiveGain()
	if e.graph != nil {
		e.graph.SetGainAt(gain, e.graph.Now())
	}
	e.media.SetVolume(gain)
}
