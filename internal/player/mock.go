// internal/player/mock.go
package player

import (
	"sync"
	"time"
)

// Mock is a test double for a media element. Events are only produced by
// the Emit helpers, so tests decide when a load becomes playable.
type Mock struct {
	mu       sync.Mutex
	events   *eventQueue
	src      Source
	loaded   bool
	paused   bool
	position time.Duration
	duration time.Duration
	rate     float64
	volume   float64
	playErr  error
	loadErr  error
	calls    []string
	loads    []Source
	seeks    []time.Duration
	onLoad   func(Source)
}

// NewMock creates a new mock element for testing.
func NewMock() *Mock {
	return &Mock{
		events: newEventQueue(),
		paused: true,
		rate:   1,
		volume: 1,
	}
}

func (m *Mock) record(call string) {
	m.calls = append(m.calls, call)
}

func (m *Mock) Load(src Source) error {
	m.mu.Lock()
	m.record("Load")
	m.loads = append(m.loads, src)
	hook := m.onLoad
	err := m.loadErr
	if err == nil {
		m.src = src
		m.loaded = true
		m.position = 0
	}
	m.mu.Unlock()

	if hook != nil {
		hook(src)
	}
	return err
}

func (m *Mock) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Play")
	if m.playErr != nil {
		return m.playErr
	}
	if !m.loaded {
		return ErrNoSource
	}
	m.paused = false
	return nil
}

func (m *Mock) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Pause")
	m.paused = true
}

func (m *Mock) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

func (m *Mock) Seek(pos time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Seek")
	m.seeks = append(m.seeks, pos)
	m.position = pos
}

func (m *Mock) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *Mock) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *Mock) SetRate(rate float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rate = rate
}

func (m *Mock) SetVolume(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = level
}

func (m *Mock) Unload() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Unload")
	m.src = Source{}
	m.loaded = false
	m.paused = true
}

func (m *Mock) Events() <-chan Event { return m.events.out }

func (m *Mock) Close() error {
	m.events.close()
	return nil
}

// Test helpers

func (m *Mock) SetPlayError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playErr = err
}

func (m *Mock) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

func (m *Mock) SetDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duration = d
}

func (m *Mock) SetPosition(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = d
}

// OnLoad registers a hook called after every Load.
func (m *Mock) OnLoad(fn func(Source)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onLoad = fn
}

func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *Mock) Loads() []Source {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Source(nil), m.loads...)
}

func (m *Mock) SeekCalls() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.seeks...)
}

func (m *Mock) Source() Source {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.src
}

func (m *Mock) Rate() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rate
}

func (m *Mock) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

// Emit pushes an event tagged with the current source token.
func (m *Mock) Emit(kind EventKind) {
	m.mu.Lock()
	ev := Event{Kind: kind, Token: m.src.Token, Position: m.position, Duration: m.duration}
	m.mu.Unlock()
	m.events.push(ev)
}

// EmitEvent pushes ev as is, stale tokens included.
func (m *Mock) EmitEvent(ev Event) {
	m.events.push(ev)
}

// EmitError pushes an Error event for the current source.
func (m *Mock) EmitError(err error) {
	m.mu.Lock()
	ev := Event{Kind: EventError, Token: m.src.Token, Position: m.position, Duration: m.duration, Err: err}
	m.mu.Unlock()
	m.events.push(ev)
}

// EmitEnded marks the mock as paused at the end and pushes Ended.
func (m *Mock) EmitEnded() {
	m.mu.Lock()
	m.paused = true
	m.position = m.duration
	m.mu.Unlock()
	m.Emit(EventEnded)
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
