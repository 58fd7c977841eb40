package playback

import (
	"errors"
	"fmt"
)

// ErrorKind classifies engine failures.
type ErrorKind int

const (
	KindResolutionFailed ErrorKind = iota + 1
	KindDecodeOrNetworkFailed
	KindPlaybackBlocked
	KindGraphUnavailable
)

func (k ErrorKind) String() string {
	switch k {
	case KindResolutionFailed:
		return "resolution failed"
	case KindDecodeOrNetworkFailed:
		return "decode or network failed"
	case KindPlaybackBlocked:
		return "playback blocked"
	case KindGraphUnavailable:
		return "graph unavailable"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name.
func (k ErrorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// LoadFailed reports whether the kind means the track could not be loaded.
func (k ErrorKind) LoadFailed() bool {
	return k == KindResolutionFailed || k == KindDecodeOrNetworkFailed
}

// Error is a classified engine failure for one track.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	TrackID string    `json:"track_id,omitempty"`
	Err     error     `json:"-"`
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.TrackID != "" {
		msg = fmt.Sprintf("%s for track %s", msg, e.TrackID)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return "playback: " + msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind, so the sentinels below work
// with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.TrackID == "" || t.TrackID == e.TrackID)
}

var (
	ErrResolutionFailed      = &Error{Kind: KindResolutionFailed}
	ErrDecodeOrNetworkFailed = &Error{Kind: KindDecodeOrNetworkFailed}
	ErrPlaybackBlocked       = &Error{Kind: KindPlaybackBlocked}
	ErrGraphUnavailable      = &Error{Kind: KindGraphUnavailable}

	// ErrClosed is returned by PlayTrack after Close.
	ErrClosed = errors.New("playback: engine closed")
	// ErrNoResolver is wrapped when a track needs resolution and no
	// resolver is configured.
	ErrNoResolver = errors.New("playback: no stream resolver configured")
)
