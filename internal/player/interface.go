// internal/player/interface.go
package player

import (
	"errors"
	"time"
)

var (
	// ErrNoSource is returned by Play when nothing is loaded or the load
	// has not reached CanPlay yet.
	ErrNoSource = errors.New("player: no source loaded")
	// ErrPlaybackBlocked is returned by Play when the output refuses to start.
	ErrPlaybackBlocked = errors.New("player: playback blocked")
	// ErrAlreadyBound is returned by Bind on an element whose output was
	// already taken.
	ErrAlreadyBound = errors.New("player: output already bound")
)

// Source is a stream to load. Token tags every event produced for it so a
// consumer can tell events of a replaced source apart.
type Source struct {
	URL   string
	Token uint64
}

// Interface is the media element contract: one element that is reloaded
// per track. Load is asynchronous and reports progress through Events.
type Interface interface {
	Load(src Source) error
	Play() error
	Pause()
	Paused() bool
	Seek(pos time.Duration)
	Position() time.Duration
	Duration() time.Duration
	SetRate(rate float64)
	SetVolume(level float64)
	Unload()
	Events() <-chan Event
	Close() error
}

// Verify Element implements Interface at compile time.
var _ Interface = (*Element)(nil)
