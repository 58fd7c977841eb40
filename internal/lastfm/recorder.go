package lastfm

import (
	"errors"
	"strings"
	"time"

	"github.com/llehouerou/wavestream/internal/state"
	"github.com/llehouerou/wavestream/internal/telemetry"
	"github.com/llehouerou/wavestream/internal/track"
)

// ErrIncompleteTrack is returned for tracks Last.fm cannot accept: it
// needs both an artist and a title.
var ErrIncompleteTrack = errors.New("track needs artist and title for Last.fm")

// Scrobbler is the part of Client the recorder needs.
type Scrobbler interface {
	IsAuthenticated() bool
	UpdateNowPlaying(track ScrobbleTrack) error
	Scrobble(track ScrobbleTrack) error
}

// SessionStore holds the linked Last.fm session.
type SessionStore interface {
	GetLastfmSession() (*state.LastfmSession, error)
}

// Recorder records successful plays as Last.fm scrobbles.
type Recorder struct {
	api Scrobbler
	now func() time.Time
}

// NewRecorder creates a recorder on api.
func NewRecorder(api Scrobbler) *Recorder {
	return &Recorder{api: api, now: time.Now}
}

// LoadSession authenticates c with the stored session, if any. It reports
// whether a session was found.
func LoadSession(c *Client, store SessionStore) (bool, error) {
	s, err := store.GetLastfmSession()
	if err != nil {
		return false, err
	}
	if s == nil || s.SessionKey == "" {
		return false, nil
	}
	c.SetSessionKey(s.SessionKey)
	return true, nil
}

// Authenticated reports whether plays can be recorded.
func (r *Recorder) Authenticated() bool {
	return r.api.IsAuthenticated()
}

// RecordPlay announces t as now playing and scrobbles it with the start
// time of the play.
func (r *Recorder) RecordPlay(t *track.Descriptor) error {
	st, err := toScrobble(t, r.now())
	if err != nil {
		return err
	}
	if err := r.api.UpdateNowPlaying(st); err != nil {
		return err
	}
	return r.api.Scrobble(st)
}

func toScrobble(t *track.Descriptor, at time.Time) (ScrobbleTrack, error) {
	artist := strings.TrimSpace(t.Artist)
	title := strings.TrimSpace(t.Title)
	if artist == "" || title == "" {
		return ScrobbleTrack{}, ErrIncompleteTrack
	}
	return ScrobbleTrack{
		Artist:       artist,
		Track:        title,
		Duration:     t.Duration,
		Timestamp:    at,
		ChosenByUser: true,
	}, nil
}

// Verify Recorder implements telemetry.HistoryRecorder at compile time.
var _ telemetry.HistoryRecorder = (*Recorder)(nil)
