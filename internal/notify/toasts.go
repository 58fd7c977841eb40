package notify

import (
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/llehouerou/wavestream/internal/errmsg"
	"github.com/llehouerou/wavestream/internal/telemetry"
	"github.com/llehouerou/wavestream/internal/track"
)

const defaultIcon = "audio-x-generic"

// Toasts turns playback outcomes into desktop notifications. Each new
// toast replaces the previous one instead of stacking up.
type Toasts struct {
	n       Notifier
	timeout int32

	mu     sync.Mutex
	lastID uint32
}

// NewToasts wraps n. timeout <= 0 uses the server default.
func NewToasts(n Notifier, timeout time.Duration) *Toasts {
	ms := int32(-1)
	if timeout > 0 {
		ms = int32(timeout.Milliseconds())
	}
	return &Toasts{n: n, timeout: ms}
}

// NowPlaying shows the track that just started.
func (t *Toasts) NowPlaying(d *track.Descriptor) error {
	body := d.Artist
	if body == "" {
		body = "Now playing"
	}
	return t.send(Notification{
		Title:   titleOf(d),
		Body:    body,
		Icon:    IconFor(d.Artwork),
		Urgency: UrgencyLow,
	})
}

// Failed shows why d could not be played.
func (t *Toasts) Failed(d *track.Descriptor, err error) error {
	return t.send(Notification{
		Title:   "Playback failed",
		Body:    errmsg.Playback(titleOf(d), err),
		Icon:    "dialog-error",
		Urgency: UrgencyNormal,
	})
}

func (t *Toasts) send(n Notification) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	n.Timeout = t.timeout
	n.ReplacesID = t.lastID
	id, err := t.n.Notify(n)
	if err != nil {
		return err
	}
	t.lastID = id
	return nil
}

func titleOf(d *track.Descriptor) string {
	if d.Title != "" {
		return d.Title
	}
	return d.ID
}

// IconFor returns a notification icon for an artwork reference. Only local
// files can be shown by the notification server; anything else falls back
// to a themed icon.
func IconFor(artwork string) string {
	artwork = strings.TrimSpace(artwork)
	if artwork == "" {
		return defaultIcon
	}
	if u, err := url.Parse(artwork); err == nil && u.Scheme != "" {
		if u.Scheme == "file" && u.Path != "" {
			return u.Path
		}
		return defaultIcon
	}
	if filepath.IsAbs(artwork) {
		return artwork
	}
	return defaultIcon
}

// Verify Toasts implements telemetry.Notifier at compile time.
var _ telemetry.Notifier = (*Toasts)(nil)
