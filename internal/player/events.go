package player

import "time"

// EventKind is the closed set of notifications a media element emits.
type EventKind int

const (
	EventLoadStart EventKind = iota
	EventCanPlay
	EventPlay
	EventPause
	EventEnded
	EventTimeUpdate
	EventDurationChange
	EventError
)

// String returns the event name for logs.
func (k EventKind) String() string {
	switch k {
	case EventLoadStart:
		return "LoadStart"
	case EventCanPlay:
		return "CanPlay"
	case EventPlay:
		return "Play"
	case EventPause:
		return "Pause"
	case EventEnded:
		return "Ended"
	case EventTimeUpdate:
		return "TimeUpdate"
	case EventDurationChange:
		return "DurationChange"
	case EventError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Event is a single element notification. Position and Duration are the
// element's values when the event was produced.
type Event struct {
	Kind     EventKind
	Token    uint64
	Position time.Duration
	Duration time.Duration
	Err      error
}

// timeUpdateInterval is how much audio must play between TimeUpdate events.
const timeUpdateInterval = 250 * time.Millisecond
