//go:build linux

package mpris

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/wavestream/internal/playback"
)

// commandTimeout bounds a resume issued from D-Bus.
const commandTimeout = 5 * time.Second

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // Not supported - app manages its own lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "Wavestream", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"https", "http", "file"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac", "audio/wav", "audio/ogg"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter. There is no
// queue behind the engine, so track navigation is unsupported.
type playerAdapter struct {
	service playback.Service
}

func newPlayerAdapter(service playback.Service) *playerAdapter {
	return &playerAdapter{service: service}
}

func (p *playerAdapter) Next() error {
	return nil // CanGoNext is false
}

func (p *playerAdapter) Previous() error {
	return nil // CanGoPrevious is false
}

func (p *playerAdapter) Pause() error {
	p.service.PauseTrack()
	return nil
}

// PlayPause toggles the current track; PlayTrack on the same track is a
// toggle.
func (p *playerAdapter) PlayPause() error {
	snap := p.service.Snapshot()
	if snap.Track == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	return p.service.PlayTrack(ctx, snap.Track)
}

func (p *playerAdapter) Play() error {
	if p.service.Snapshot().IsPlaying {
		return nil
	}
	return p.PlayPause()
}

func (p *playerAdapter) Stop() error {
	p.service.StopTrack()
	return nil
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	p.service.SkipTime(time.Duration(offset) * time.Microsecond)
	return nil
}

func (p *playerAdapter) SetPosition(trackID string, position types.Microseconds) error {
	snap := p.service.Snapshot()
	// Stale requests for a previous track are ignored
	if snap.Track == nil || string(objectPath(snap.Track.ID)) != trackID {
		return nil
	}
	p.service.SeekTo(time.Duration(position) * time.Microsecond)
	return nil
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil // Not supported
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	return playbackStatus(p.service.Snapshot().Status), nil
}

func playbackStatus(s playback.Status) types.PlaybackStatus {
	switch s {
	case playback.StatusPlaying:
		return types.PlaybackStatusPlaying
	case playback.StatusPaused, playback.StatusLoading, playback.StatusEnded:
		return types.PlaybackStatusPaused
	case playback.StatusIdle, playback.StatusError:
		return types.PlaybackStatusStopped
	}
	return types.PlaybackStatusStopped
}

func (p *playerAdapter) Rate() (float64, error) {
	return p.service.Snapshot().Transport.Rate, nil
}

func (p *playerAdapter) SetRate(rate float64) error {
	p.service.ChangePlaybackRate(rate)
	return nil
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	snap := p.service.Snapshot()
	t := snap.Track
	if t == nil {
		return types.Metadata{}, nil
	}

	length := snap.Duration
	if length <= 0 {
		length = t.Duration
	}
	meta := types.Metadata{
		TrackId: objectPath(t.ID),
		Length:  types.Microseconds(length.Microseconds()),
		Title:   t.Title,
		ArtUrl:  t.Artwork,
	}
	if meta.Title == "" {
		meta.Title = t.ID
	}
	if t.Artist != "" {
		meta.Artist = []string{t.Artist}
	}
	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	tr := p.service.Snapshot().Transport
	return tr.EffectiveGain(), nil
}

func (p *playerAdapter) SetVolume(v float64) error {
	p.service.ChangeVolume(v)
	return nil
}

func (p *playerAdapter) Position() (int64, error) {
	return p.service.Snapshot().CurrentTime.Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return playback.MinRate, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return playback.MaxRate, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return p.service.Snapshot().Track != nil, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return p.service.Snapshot().Track != nil, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

func objectPath(id string) dbus.ObjectPath {
	h := fnv.New64a()
	h.Write([]byte(id))
	return dbus.ObjectPath(fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64()))
}
