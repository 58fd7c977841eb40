package lastfm

import "time"

// ScrobbleTrack contains track metadata for scrobbling.
type ScrobbleTrack struct {
	Artist       string
	Track        string
	Duration     time.Duration
	Timestamp    time.Time // When playback started
	ChosenByUser bool
}
