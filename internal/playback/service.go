package playback

import (
	"context"
	"time"

	"github.com/llehouerou/wavestream/internal/graph"
	"github.com/llehouerou/wavestream/internal/track"
)

// Service defines the playback engine contract.
type Service interface {
	// Session lifecycle
	PlayTrack(ctx context.Context, t *track.Descriptor) error
	PauseTrack()
	StopTrack()

	// Transport
	SeekTo(pos time.Duration)
	SkipTime(delta time.Duration)
	ChangeVolume(v float64)
	ToggleMute()
	ChangePlaybackRate(rate float64)

	// Equalizer and visualizer
	UpdateEQ(b graph.Band, dB float64)
	ResetEQ()
	FrequencyData() []uint8

	// State
	Snapshot() Snapshot

	// Event subscription
	Subscribe() *Subscription

	// Lifecycle
	Close() error
}

// Reporter receives the outcome of playback attempts.
type Reporter interface {
	NowPlaying(t *track.Descriptor)
	PlayFailed(t *track.Descriptor, err error)
	Ended(t *track.Descriptor)
}

// Verify Engine implements Service at compile time.
var _ Service = (*Engine)(nil)
