package player

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"go.uber.org/zap"
)

// resampleQuality is the beep resampler quality used for rate changes and
// sample rate conversion.
const resampleQuality = 4

// Config configures an Element.
type Config struct {
	// SampleRate is the output rate the element renders at.
	SampleRate beep.SampleRate
	// BufferSize is the speaker buffer used when the element drives the
	// speaker itself.
	BufferSize time.Duration
	Client     *http.Client
	Logger     *zap.Logger
}

// Element is a beep-backed media element. It fetches a source, decodes it
// and renders it through Output. The output is persistent: it renders
// silence while paused, unloaded or ended.
type Element struct {
	mu      sync.Mutex
	cfg     Config
	client  *http.Client
	logger  *zap.Logger
	events  *eventQueue
	out     *output
	bound   bool
	started bool

	src       Source
	cancel    context.CancelFunc
	streamer  beep.StreamSeekCloser
	format    beep.Format
	resampler *beep.Resampler
	ctrl      *beep.Ctrl
	volume    *effects.Volume

	rate        float64
	volumeLevel float64
	ended       bool
	lastUpdate  time.Duration
}

// New creates an idle element.
func New(cfg Config) *Element {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 44100
	}
	if cfg.BufferSize == 0 {
		cfg.BufferSize = 100 * time.Millisecond
	}
	client := cfg.Client
	if client == nil {
		client = http.DefaultClient
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Element{
		cfg:         cfg,
		client:      client,
		logger:      logger.Named("element"),
		events:      newEventQueue(),
		rate:        1,
		volumeLevel: 1,
	}
	e.out = &output{e: e}
	return e
}

// Bind hands the element's output to an external graph. It can be taken
// once; afterwards the element no longer drives the speaker and its native
// volume is left at unity.
func (e *Element) Bind() (beep.Streamer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.bound || e.started {
		return nil, ErrAlreadyBound
	}
	e.bound = true
	if e.volume != nil {
		e.applyVolumeLocked()
	}
	return e.out, nil
}

// Unbind takes the output back from a graph that failed to open it. The
// element then drives the speaker itself on Play and applies its native
// volume again.
func (e *Element) Unbind() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.bound {
		return
	}
	e.bound = false
	if e.volume != nil {
		e.applyVolumeLocked()
	}
}

// Events returns the element's event stream. It is closed by Close.
func (e *Element) Events() <-chan Event {
	return e.events.out
}

// Load starts fetching and decoding src. The previous source is detached
// immediately. Progress is reported as LoadStart, DurationChange and
// CanPlay, or Error.
func (e *Element) Load(src Source) error {
	ctx, cancel := context.WithCancel(context.Background())

	e.mu.Lock()
	e.detachLocked()
	e.src = src
	e.cancel = cancel
	e.mu.Unlock()

	e.emit(Event{Kind: EventLoadStart, Token: src.Token})
	go e.fetch(ctx, src)
	return nil
}

// Unload detaches the current source and cancels any fetch in flight.
func (e *Element) Unload() {
	e.mu.Lock()
	e.detachLocked()
	e.src = Source{}
	e.mu.Unlock()
}

// Close unloads and stops the event stream.
func (e *Element) Close() error {
	e.Unload()
	e.events.close()
	return nil
}

func (e *Element) detachLocked() {
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	if e.streamer != nil {
		if err := e.streamer.Close(); err != nil {
			e.logger.Debug("close streamer", zap.Error(err))
		}
	}
	e.streamer = nil
	e.resampler = nil
	e.ctrl = nil
	e.volume = nil
	e.ended = false
	e.lastUpdate = 0
}

// install builds the render chain for a decoded stream if src is still
// the current source. It reports whether the stream was taken.
func (e *Element) install(src Source, s beep.StreamSeekCloser, format beep.Format) bool {
	e.mu.Lock()
	if e.src.Token != src.Token || e.src.URL != src.URL || e.cancel == nil {
		e.mu.Unlock()
		return false
	}
	e.streamer = s
	e.format = format
	e.ctrl = &beep.Ctrl{Paused: true}
	e.rebuildLocked()
	dur := e.durationLocked()
	e.mu.Unlock()

	e.emit(Event{Kind: EventDurationChange, Token: src.Token, Duration: dur})
	e.emit(Event{Kind: EventCanPlay, Token: src.Token, Duration: dur})
	return true
}

// rebuildLocked recreates the resampler so buffered audio from before a
// seek or rate change is dropped.
func (e *Element) rebuildLocked() {
	ratio := float64(e.format.SampleRate) / float64(e.cfg.SampleRate) * e.rate
	e.resampler = beep.ResampleRatio(resampleQuality, ratio, e.streamer)
	e.ctrl.Streamer = e.resampler
	if e.volume == nil {
		e.volume = &effects.Volume{Streamer: e.ctrl, Base: 2}
		e.applyVolumeLocked()
	}
}

func (e *Element) emit(ev Event) {
	e.events.push(ev)
}

// output is the element's persistent render node.
type output struct {
	e *Element
}

func (o *output) Stream(samples [][2]float64) (int, bool) {
	e := o.e
	e.mu.Lock()
	if e.volume == nil || e.ctrl.Paused {
		e.mu.Unlock()
		clear(samples)
		return len(samples), true
	}

	n, ok := e.volume.Stream(samples)
	token := e.src.Token
	pos := e.positionLocked()
	dur := e.durationLocked()

	var pending []Event
	if !ok || n < len(samples) {
		clear(samples[n:])
		e.ctrl.Paused = true
		e.ended = true
		if err := e.streamer.Err(); err != nil {
			pending = append(pending, Event{Kind: EventError, Token: token, Position: pos, Duration: dur, Err: err})
		} else {
			pending = append(pending, Event{Kind: EventEnded, Token: token, Position: pos, Duration: dur})
		}
	} else if pos-e.lastUpdate >= timeUpdateInterval || pos < e.lastUpdate {
		e.lastUpdate = pos
		pending = append(pending, Event{Kind: EventTimeUpdate, Token: token, Position: pos, Duration: dur})
	}
	e.mu.Unlock()

	for _, ev := range pending {
		e.emit(ev)
	}
	return len(samples), true
}

func (o *output) Err() error { return nil }
