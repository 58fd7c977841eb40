// Package app contains the terminal player: the bubbletea model, its
// messages and the service wiring around the playback engine.
package app

import (
	"time"

	"github.com/llehouerou/wavestream/internal/playback"
)

// EngineMsg wraps one engine event. Exactly one field is set.
type EngineMsg struct {
	State     *playback.StateChange
	Track     *playback.TrackChange
	Position  *playback.PositionChange
	Transport *playback.TransportChange
	Error     *playback.ErrorEvent
}

// EngineClosedMsg is sent when the engine's subscription is closed.
type EngineClosedMsg struct{}

// FrameMsg drives spectrum redraws while playing.
type FrameMsg time.Time

// PlayResultMsg carries the outcome of a PlayTrack call.
type PlayResultMsg struct {
	TrackID string
	Title   string
	Err     error
}
