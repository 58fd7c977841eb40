package state

import (
	"strings"
	"sync"

	"github.com/llehouerou/wavestream/internal/graph"
	"github.com/llehouerou/wavestream/internal/playback"
)

// Mock is a test double for Manager.
type Mock struct {
	mu        sync.Mutex
	transport *playback.TransportState
	saves     []playback.TransportState
	presets   []EQPreset
	session   *LastfmSession
	closed    bool
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) GetTransport() (playback.TransportState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.transport == nil {
		return playback.DefaultTransport(), nil
	}
	return *m.transport, nil
}

func (m *Mock) SaveTransport(t playback.TransportState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transport = &t
	m.saves = append(m.saves, t)
}

func (m *Mock) ListEQPresets() ([]EQPreset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]EQPreset(nil), m.presets...), nil
}

func (m *Mock) GetEQPreset(name string) (*EQPreset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.presets {
		if p.Name == strings.TrimSpace(name) {
			return &p, nil
		}
	}
	return nil, nil //nolint:nilnil // matches Manager
}

func (m *Mock) SaveEQPreset(name string, gains graph.Gains) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, ErrEmptyPresetName
	}
	for i, p := range m.presets {
		if p.Name == name {
			m.presets[i].Gains = gains
			return p.ID, nil
		}
	}
	id := int64(len(m.presets) + 1)
	m.presets = append(m.presets, EQPreset{ID: id, Name: name, Gains: gains})
	return id, nil
}

func (m *Mock) DeleteEQPreset(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.presets {
		if p.ID == id {
			m.presets = append(m.presets[:i], m.presets[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Mock) GetLastfmSession() (*LastfmSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session, nil
}

func (m *Mock) SaveLastfmSession(username, sessionKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = &LastfmSession{Username: username, SessionKey: sessionKey}
	return nil
}

func (m *Mock) DeleteLastfmSession() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	return nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Test helpers

// Saves returns every transport passed to SaveTransport.
func (m *Mock) Saves() []playback.TransportState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]playback.TransportState(nil), m.saves...)
}

func (m *Mock) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
