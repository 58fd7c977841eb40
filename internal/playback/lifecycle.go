package playback

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/llehouerou/wavestream/internal/player"
	"github.com/llehouerou/wavestream/internal/track"
)

// PlayTrack plays t. The same track toggles between playing and paused
// without reloading; a different track first silences the current one and
// then loads t. It returns once the load is issued: playback starts when
// the element reports it can play.
//
// The returned error is the one recorded in Snapshot().Err. Toggles and
// loads superseded by a newer PlayTrack or StopTrack return nil.
func (e *Engine) PlayTrack(ctx context.Context, t *track.Descriptor) error {
	if err := t.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	if e.track != nil && e.track.ID == t.ID {
		switch {
		case e.status == StatusPlaying:
			e.pauseLocked()
			e.mu.Unlock()
			return nil
		case e.status == StatusLoading:
			e.mu.Unlock()
			return nil
		case (e.status == StatusPaused || e.status == StatusEnded) && e.token != 0:
			token := e.token
			e.mu.Unlock()
			return e.resume(ctx, token)
		}
		// Idle, Error or a source already torn down: reload.
	}

	e.gen++
	gen := e.gen
	prev := e.track
	if prev != nil {
		e.cleanupLocked()
	}
	e.mu.Unlock()

	if prev != nil && e.yield > 0 {
		time.Sleep(e.yield)
	}

	e.mu.Lock()
	if e.gen != gen {
		e.mu.Unlock()
		return nil
	}
	e.track = t
	e.session = uuid.NewString()
	session := e.session
	e.position = 0
	e.duration = t.Duration
	e.err = nil
	e.hasPending = false
	e.announced = false
	e.setStatus(StatusLoading)
	if prev != t {
		e.publishTrack(prev)
	}
	e.publishPosition()
	e.mu.Unlock()

	e.logger.Debug("loading track",
		zap.String("track", t.ID),
		zap.String("session", session),
		zap.Uint64("gen", gen))

	url := t.StreamURL
	if t.NeedsResolution() {
		resolved, err := e.resolve(ctx, t)
		if err != nil {
			return e.failLoad(gen, t, &Error{Kind: KindResolutionFailed, TrackID: t.ID, Err: err})
		}
		url = resolved
	}

	e.mu.Lock()
	if e.gen != gen {
		e.mu.Unlock()
		return nil
	}
	e.token = gen
	if err := e.media.Load(player.Source{URL: url, Token: gen}); err != nil {
		e.token = 0
		e.mu.Unlock()
		return e.failLoad(gen, t, &Error{Kind: KindDecodeOrNetworkFailed, TrackID: t.ID, Err: err})
	}
	e.media.SetRate(e.transport.Rate)
	e.applyGainLocked()
	e.mu.Unlock()
	return nil
}

// resolve asks the resolver for a playable URL. It is called without the
// lock and is cancelled when either ctx or the engine ends.
func (e *Engine) resolve(ctx context.Context, t *track.Descriptor) (string, error) {
	if e.resolver == nil {
		return "", ErrNoResolver
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(e.ctx, cancel)
	defer stop()

	url, err := e.resolver.Resolve(ctx, t.ID)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", t.ID, err)
	}
	return url, nil
}

// failLoad records a load failure unless gen was superseded.
func (e *Engine) failLoad(gen uint64, t *track.Descriptor, err *Error) error {
	e.mu.Lock()
	if e.gen != gen {
		e.mu.Unlock()
		return nil
	}
	e.failLocked("load", err)
	e.mu.Unlock()
	e.reportFailure(t, err)
	return err
}

// cleanupLocked silences the outgoing source: pause, rewind, gain to zero
// on the audio clock. The caller yields before assigning a new source.
func (e *Engine) cleanupLocked() {
	e.media.Pause()
	e.media.Seek(0)
	if e.graph != nil {
		e.graph.SetGainAt(0, e.graph.Now())
	}
	e.media.SetVolume(0)
	e.token = 0
	e.hasPending = false
	e.position = 0
	if e.status == StatusPlaying || e.status == StatusEnded {
		e.setStatus(StatusPaused)
	}
	e.publishPosition()
}

// startPlayback runs on CanPlay for token: resume the graph, apply a
// pending seek and start the element.
func (e *Engine) startPlayback(token uint64) {
	if e.graph != nil {
		if err := e.graph.Resume(e.ctx); err != nil {
			e.logger.Warn("resume graph", zap.Error(err))
		}
	}

	e.mu.Lock()
	if e.token != token || e.status != StatusLoading {
		e.mu.Unlock()
		return
	}
	if e.hasPending {
		pos := clampPosition(e.pendingSeek, e.duration)
		e.hasPending = false
		e.media.Seek(pos)
		e.position = pos
		e.publishPosition()
	}
	t := e.track
	if err := e.media.Play(); err != nil {
		perr := &Error{Kind: KindPlaybackBlocked, TrackID: t.ID, Err: err}
		e.err = perr
		e.logger.Warn("playback blocked", zap.String("track", t.ID), zap.Error(err))
		e.setStatus(StatusPaused)
		e.publishError(ErrorEvent{Operation: "play", TrackID: t.ID, Err: perr})
		e.mu.Unlock()
		e.reportFailure(t, perr)
		return
	}
	e.err = nil
	e.setStatus(StatusPlaying)
	announce := !e.announced
	e.announced = true
	e.mu.Unlock()

	if announce && e.reporter != nil {
		e.reporter.NowPlaying(t)
	}
}

// resume continues the paused or ended session loaded under token.
func (e *Engine) resume(ctx context.Context, token uint64) error {
	if e.graph != nil {
		if err := e.graph.Resume(ctx); err != nil {
			e.logger.Warn("resume graph", zap.Error(err))
		}
	}

	e.mu.Lock()
	if e.token != token || (e.status != StatusPaused && e.status != StatusEnded) {
		e.mu.Unlock()
		return nil
	}
	t := e.track
	if err := e.media.Play(); err != nil {
		perr := &Error{Kind: KindPlaybackBlocked, TrackID: t.ID, Err: err}
		e.err = perr
		e.publishError(ErrorEvent{Operation: "play", TrackID: t.ID, Err: perr})
		e.mu.Unlock()
		e.reportFailure(t, perr)
		return perr
	}
	e.err = nil
	e.setStatus(StatusPlaying)
	announce := !e.announced
	e.announced = true
	e.mu.Unlock()

	if announce && e.reporter != nil {
		e.reporter.NowPlaying(t)
	}
	return nil
}

// PauseTrack pauses a playing session. Anything else is a no-op.
func (e *Engine) PauseTrack() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status == StatusPlaying {
		e.pauseLocked()
	}
}

func (e *Engine) pauseLocked() {
	e.media.Pause()
	e.position = e.media.Position()
	e.setStatus(StatusPaused)
	e.publishPosition()
}

// StopTrack silences and discards the session.
func (e *Engine) StopTrack() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.gen++
	gen := e.gen
	prev := e.track
	if prev != nil {
		e.cleanupLocked()
	}
	e.track = nil
	e.session = ""
	e.duration = 0
	e.err = nil
	e.announced = false
	e.setStatus(StatusIdle)
	if prev != nil {
		e.publishTrack(prev)
	}
	e.mu.Unlock()

	if prev == nil {
		return
	}
	if e.yield > 0 {
		time.Sleep(e.yield)
	}

	e.mu.Lock()
	if e.gen == gen {
		e.media.Unload()
		e.applyGainLocked()
	}
	e.mu.Unlock()
}
