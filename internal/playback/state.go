// internal/playback/state.go
package playback

import (
	"math"
	"time"

	"github.com/llehouerou/wavestream/internal/graph"
	"github.com/llehouerou/wavestream/internal/player"
	"github.com/llehouerou/wavestream/internal/telemetry"
	"github.com/llehouerou/wavestream/internal/track"
)

// Status is the session state.
//
// Transitions driven by element events go through transition; intents
// (PlayTrack, PauseTrack, StopTrack, SeekTo) move the state directly:
//
//	Idle    --PlayTrack--> Loading --CanPlay--> Playing
//	Loading --Error------> Error
//	Playing --Pause------> Paused  --Play-----> Playing
//	Playing --Ended------> Ended   --Play-----> Playing (from 0)
//	Playing|Paused --Error--> Error
//	any     --StopTrack--> Idle
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusPlaying
	StatusPaused
	StatusEnded
	StatusError
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	case StatusEnded:
		return "ended"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// IsActive returns true if a source is loaded and playable (playing or paused).
func (s Status) IsActive() bool {
	return s == StatusPlaying || s == StatusPaused
}

// transition applies an element event to a status. Events that carry no
// state (LoadStart, TimeUpdate, DurationChange) leave it unchanged, as do
// events that are not legal from s.
func transition(s Status, ev player.EventKind) Status {
	switch ev {
	case player.EventCanPlay:
		if s == StatusLoading {
			return StatusPlaying
		}
	case player.EventPlay:
		if s == StatusPaused || s == StatusEnded {
			return StatusPlaying
		}
	case player.EventPause:
		if s == StatusPlaying {
			return StatusPaused
		}
	case player.EventEnded:
		if s == StatusPlaying || s == StatusPaused {
			return StatusEnded
		}
	case player.EventError:
		if s != StatusIdle {
			return StatusError
		}
	case player.EventLoadStart, player.EventTimeUpdate, player.EventDurationChange:
	}
	return s
}

// Transport limits.
const (
	MinRate = 0.25
	MaxRate = 2.0
)

// TransportState holds the listener's output preferences. It survives
// track changes.
type TransportState struct {
	Volume float64     `json:"volume"`
	Muted  bool        `json:"muted"`
	Rate   float64     `json:"rate"`
	EQ     graph.Gains `json:"eq"`
}

// DefaultTransport returns full volume, unmuted, normal rate and a flat EQ.
func DefaultTransport() TransportState {
	return TransportState{Volume: 1, Rate: 1}
}

// EffectiveGain is the gain the output applies.
func (t TransportState) EffectiveGain() float64 {
	if t.Muted {
		return 0
	}
	return t.Volume
}

func (t TransportState) clamped() TransportState {
	t.Volume = clampVolume(t.Volume)
	if t.Rate == 0 {
		t.Rate = 1
	}
	t.Rate = clampRate(t.Rate)
	t.EQ.Bass = graph.ClampBandGain(t.EQ.Bass)
	t.EQ.Mid = graph.ClampBandGain(t.EQ.Mid)
	t.EQ.Treble = graph.ClampBandGain(t.EQ.Treble)
	return t
}

// clampVolume and clampRate fall back to the defaults for NaN.
func clampVolume(v float64) float64 {
	if math.IsNaN(v) {
		return 1
	}
	return max(0, min(v, 1))
}

func clampRate(r float64) float64 {
	if math.IsNaN(r) {
		return 1
	}
	return max(MinRate, min(r, MaxRate))
}

// Snapshot is a consistent copy of the session and transport state.
type Snapshot struct {
	Track       *track.Descriptor `json:"track,omitempty"`
	// Session identifies one load of Track. A reload gets a new ID; pause
	// and resume keep it.
	Session     string            `json:"session,omitempty"`
	Status      Status            `json:"status"`
	IsPlaying   bool              `json:"is_playing"`
	IsLoading   bool              `json:"is_loading"`
	CurrentTime time.Duration     `json:"current_time"`
	Duration    time.Duration     `json:"duration"`
	Err         *Error            `json:"error,omitempty"`
	Transport   TransportState    `json:"transport"`
}

// Progress returns the elapsed percentage in [0,100].
func (s Snapshot) Progress() float64 {
	return telemetry.Progress(s.CurrentTime, s.Duration)
}

// Projection returns the formatted time view of the snapshot.
func (s Snapshot) Projection() telemetry.Projection {
	return telemetry.Project(s.CurrentTime, s.Duration)
}
