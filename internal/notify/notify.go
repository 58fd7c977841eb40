// Package notify shows playback toasts as freedesktop desktop notifications.
package notify

// Urgency is the freedesktop urgency hint.
type Urgency byte

const (
	UrgencyLow    Urgency = 0
	UrgencyNormal Urgency = 1
)

// Notification is a single toast. A non-zero ReplacesID updates that toast
// in place instead of opening a new one.
type Notification struct {
	Title      string
	Body       string
	Icon       string // file path or themed icon name
	Timeout    int32  // ms, -1 = server default
	ReplacesID uint32
	Urgency    Urgency
}

// Notifier shows a notification and returns the ID the server gave it.
type Notifier interface {
	Notify(n Notification) (uint32, error)
}
