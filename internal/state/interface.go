package state

import (
	"github.com/llehouerou/wavestream/internal/graph"
	"github.com/llehouerou/wavestream/internal/playback"
)

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	GetTransport() (playback.TransportState, error)
	SaveTransport(t playback.TransportState)
	ListEQPresets() ([]EQPreset, error)
	GetEQPreset(name string) (*EQPreset, error)
	SaveEQPreset(name string, gains graph.Gains) (int64, error)
	DeleteEQPreset(id int64) error
	GetLastfmSession() (*LastfmSession, error)
	SaveLastfmSession(username, sessionKey string) error
	DeleteLastfmSession() error
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
