// Package track describes the unit of playback handed to the engine.
package track

import (
	"errors"
	"strings"
	"time"
)

// PlaceholderScheme marks a stream URL that must be resolved before loading.
const PlaceholderScheme = "placeholder:"

// ErrMissingID is returned by Validate for a descriptor without an ID.
var ErrMissingID = errors.New("track: missing id")

// Descriptor identifies a playable track. It is owned by the caller and
// treated as immutable once handed to the engine.
type Descriptor struct {
	ID        string `json:"id"`
	Title     string `json:"title,omitempty"`
	Artist    string `json:"artist,omitempty"`
	Artwork   string `json:"artwork,omitempty"`
	StreamURL string `json:"stream_url,omitempty"`
	// Duration is advisory. The decoded duration wins once known.
	Duration time.Duration `json:"duration,omitempty"`
}

// NeedsResolution reports whether StreamURL must be resolved through the
// streaming backend before the media element can load it.
func (d *Descriptor) NeedsResolution() bool {
	u := strings.TrimSpace(d.StreamURL)
	return u == "" || strings.HasPrefix(u, PlaceholderScheme)
}

// Validate checks the fields the engine relies on.
func (d *Descriptor) Validate() error {
	if d == nil || strings.TrimSpace(d.ID) == "" {
		return ErrMissingID
	}
	return nil
}

// DisplayTitle returns "Artist - Title", falling back to whichever is set
// and finally to the ID.
func (d *Descriptor) DisplayTitle() string {
	switch {
	case d.Artist != "" && d.Title != "":
		return d.Artist + " - " + d.Title
	case d.Title != "":
		return d.Title
	case d.Artist != "":
		return d.Artist
	default:
		return d.ID
	}
}
