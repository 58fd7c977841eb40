package playback

import (
	"time"

	"github.com/llehouerou/wavestream/internal/track"
)

// StateChange is emitted when the session status changes.
type StateChange struct {
	Previous Status
	Current  Status
	Snapshot Snapshot
}

// TrackChange is emitted when a different track becomes the session's
// track, and with a nil Current when the session is stopped.
type TrackChange struct {
	Previous *track.Descriptor
	Current  *track.Descriptor
}

// PositionChange is emitted on time updates, seeks and duration changes.
type PositionChange struct {
	Position time.Duration
	Duration time.Duration
}

// TransportChange is emitted when volume, mute, rate or EQ change.
type TransportChange struct {
	Transport TransportState
}

// ErrorEvent is emitted when a load or play attempt fails.
type ErrorEvent struct {
	Operation string // "load", "play", "stream"
	TrackID   string
	Err       *Error
}
