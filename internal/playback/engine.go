package playback

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/llehouerou/wavestream/internal/graph"
	"github.com/llehouerou/wavestream/internal/player"
	"github.com/llehouerou/wavestream/internal/resolve"
	"github.com/llehouerou/wavestream/internal/track"
)

// DefaultCleanupYield is how long cleanup waits after silencing the
// outgoing source before a new one is assigned.
const DefaultCleanupYield = 10 * time.Millisecond

// Options configures an Engine. Every field is optional.
type Options struct {
	// Graph builds the signal graph. A nil factory or a failing one leaves
	// the engine on the element's native volume.
	Graph    func() (graph.Interface, error)
	Resolver resolve.Resolver
	Reporter Reporter
	Logger   *zap.Logger
	// Transport is the initial transport state. The zero value means
	// DefaultTransport.
	Transport TransportState
	// CleanupYield overrides DefaultCleanupYield. Negative disables it.
	CleanupYield time.Duration
}

// Engine owns the single playback session, the media element and the
// signal graph.
type Engine struct {
	mu       sync.Mutex
	media    player.Interface
	graph    graph.Interface
	resolver resolve.Resolver
	reporter Reporter
	logger   *zap.Logger
	yield    time.Duration

	track       *track.Descriptor
	session     string
	status      Status
	position    time.Duration
	duration    time.Duration
	err         *Error
	transport   TransportState
	gen         uint64
	token       uint64
	pendingSeek time.Duration
	hasPending  bool
	announced   bool

	subs       []*Subscription
	subsMu     sync.RWMutex
	subsClosed bool

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	closed bool
}

// New creates an engine around media and starts consuming its events.
// The engine owns media from now on and closes it in Close.
func New(media player.Interface, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	transport := opts.Transport
	if transport == (TransportState{}) {
		transport = DefaultTransport()
	}
	yield := opts.CleanupYield
	switch {
	case yield == 0:
		yield = DefaultCleanupYield
	case yield < 0:
		yield = 0
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		media:     media,
		resolver:  opts.Resolver,
		reporter:  opts.Reporter,
		logger:    logger.Named("playback"),
		yield:     yield,
		transport: transport.clamped(),
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	if opts.Graph != nil {
		g, err := opts.Graph()
		if err != nil {
			e.logger.Warn("signal graph unavailable, using native element volume",
				zap.Error(&Error{Kind: KindGraphUnavailable, Err: err}))
		} else {
			e.graph = g
		}
	}

	e.mu.Lock()
	e.applyEQLocked()
	e.applyGainLocked()
	e.media.SetRate(e.transport.Rate)
	e.mu.Unlock()

	go e.run()
	return e
}

// Degraded reports whether the engine runs without a signal graph.
func (e *Engine) Degraded() bool {
	return e.graph == nil
}

// Snapshot returns a consistent copy of the session and transport state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() Snapshot {
	pos := e.position
	if e.status == StatusPlaying {
		pos = e.media.Position()
	}
	return Snapshot{
		Track:       e.track,
		Session:     e.session,
		Status:      e.status,
		IsPlaying:   e.status == StatusPlaying,
		IsLoading:   e.status == StatusLoading,
		CurrentTime: pos,
		Duration:    e.duration,
		Err:         e.err,
		Transport:   e.transport,
	}
}

// Subscribe creates a new event subscription.
func (e *Engine) Subscribe() *Subscription {
	e.subsMu.Lock()
	defer e.subsMu.Unlock()
	sub := newSubscription()
	if e.subsClosed {
		sub.close()
		return sub
	}
	e.subs = append(e.subs, sub)
	return sub
}

// Close stops the session and releases the element and the graph.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.gen++
	e.token = 0
	e.media.Pause()
	e.mu.Unlock()

	e.cancel()
	<-e.done

	err := e.media.Close()
	if e.graph != nil {
		if gerr := e.graph.Close(); err == nil {
			err = gerr
		}
	}

	e.subsMu.Lock()
	for _, sub := range e.subs {
		sub.close()
	}
	e.subs = nil
	e.subsClosed = true
	e.subsMu.Unlock()

	return err
}

// run consumes element events until Close.
func (e *Engine) run() {
	defer close(e.done)
	events := e.media.Events()
	for {
		select {
		case <-e.ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			e.handleEvent(ev)
		}
	}
}

func (e *Engine) handleEvent(ev player.Event) {
	e.mu.Lock()
	if e.token == 0 || ev.Token != e.token {
		e.mu.Unlock()
		e.logger.Debug("dropping stale element event",
			zap.Stringer("event", ev.Kind), zap.Uint64("token", ev.Token))
		return
	}
	if ev.Duration > 0 && ev.Duration != e.duration {
		e.duration = ev.Duration
		if ev.Kind != player.EventTimeUpdate {
			e.publishPosition()
		}
	}

	switch ev.Kind {
	case player.EventLoadStart, player.EventDurationChange:
		e.mu.Unlock()

	case player.EventTimeUpdate:
		if e.status != StatusLoading {
			e.position = ev.Position
			e.publishPosition()
		}
		e.mu.Unlock()

	case player.EventCanPlay:
		if e.status != StatusLoading {
			e.mu.Unlock()
			return
		}
		token := e.token
		e.mu.Unlock()
		e.startPlayback(token)

	case player.EventPlay:
		// Events trail intents; only follow them when the element agrees.
		if !e.media.Paused() {
			e.setStatus(transition(e.status, ev.Kind))
		}
		e.mu.Unlock()

	case player.EventPause:
		if e.media.Paused() {
			e.position = ev.Position
			e.setStatus(transition(e.status, ev.Kind))
		}
		e.mu.Unlock()

	case player.EventEnded:
		next := transition(e.status, ev.Kind)
		if next != StatusEnded {
			e.mu.Unlock()
			return
		}
		e.position = 0
		e.media.Seek(0)
		e.setStatus(next)
		e.publishPosition()
		t, session := e.track, e.session
		e.mu.Unlock()
		e.logger.Debug("track ended", zap.String("track", t.ID), zap.String("session", session))
		if e.reporter != nil {
			e.reporter.Ended(t)
		}

	case player.EventError:
		perr := &Error{Kind: KindDecodeOrNetworkFailed, TrackID: e.track.ID, Err: ev.Err}
		t := e.track
		e.failLocked("stream", perr)
		e.token = 0
		e.media.Unload()
		e.mu.Unlock()
		e.invalidate(t)
		e.reportFailure(t, perr)

	default:
		e.mu.Unlock()
	}
}

// setStatus moves to s and notifies subscribers. Caller holds e.mu.
func (e *Engine) setStatus(s Status) {
	if s == e.status {
		return
	}
	prev := e.status
	e.status = s
	e.logger.Debug("status", zap.Stringer("from", prev), zap.Stringer("to", s))
	e.publishState(prev)
}

// failLocked records err and moves to Error.
func (e *Engine) failLocked(op string, err *Error) {
	e.err = err
	e.hasPending = false
	e.logger.Warn("playback failed", zap.String("op", op), zap.String("session", e.session), zap.Error(err))
	e.setStatus(StatusError)
	e.publishError(ErrorEvent{Operation: op, TrackID: err.TrackID, Err: err})
}

// invalidate drops a remembered stream URL that failed to play, so a retry
// resolves again.
func (e *Engine) invalidate(t *track.Descriptor) {
	inv, ok := e.resolver.(resolve.Invalidator)
	if !ok || !t.NeedsResolution() {
		return
	}
	if err := inv.Invalidate(e.ctx, t.ID); err != nil {
		e.logger.Debug("invalidate stream url", zap.String("track", t.ID), zap.Error(err))
	}
}

func (e *Engine) reportFailure(t *track.Descriptor, err error) {
	if e.reporter != nil && t != nil {
		e.reporter.PlayFailed(t, err)
	}
}

func (e *Engine) publishState(prev Status) {
	ev := StateChange{Previous: prev, Current: e.status, Snapshot: e.snapshotLocked()}
	e.subsMu.RLock()
	defer e.subsMu.RUnlock()
	for _, sub := range e.subs {
		sub.sendState(ev)
	}
}

func (e *Engine) publishTrack(prev *track.Descriptor) {
	ev := TrackChange{Previous: prev, Current: e.track}
	e.subsMu.RLock()
	defer e.subsMu.RUnlock()
	for _, sub := range e.subs {
		sub.sendTrack(ev)
	}
}

func (e *Engine) publishPosition() {
	ev := PositionChange{Position: e.position, Duration: e.duration}
	e.subsMu.RLock()
	defer e.subsMu.RUnlock()
	for _, sub := range e.subs {
		sub.sendPosition(ev)
	}
}

func (e *Engine) publishTransport() {
	ev := TransportChange{Transport: e.transport}
	e.subsMu.RLock()
	defer e.subsMu.RUnlock()
	for _, sub := range e.subs {
		sub.sendTransport(ev)
	}
}

func (e *Engine) publishError(ev ErrorEvent) {
	e.subsMu.RLock()
	defer e.subsMu.RUnlock()
	for _, sub := range e.subs {
		sub.sendError(ev)
	}
}
