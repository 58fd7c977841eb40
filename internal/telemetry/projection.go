// Package telemetry derives user-facing time values from engine state and
// forwards playback outcomes to the notifier and history recorder.
package telemetry

import (
	"fmt"
	"time"
)

// Projection is the formatted time view of a session.
type Projection struct {
	CurrentTime string  `json:"current_time"`
	Duration    string  `json:"duration"`
	Remaining   string  `json:"remaining"`
	Progress    float64 `json:"progress"`
}

// FormatTime formats d as M:SS. Negative values format as 0:00.
func FormatTime(d time.Duration) string {
	d = max(d, 0)
	total := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// Progress returns pos as a percentage of dur, 0 when dur is unknown and
// at most 100.
func Progress(pos, dur time.Duration) float64 {
	if dur <= 0 {
		return 0
	}
	p := float64(max(pos, 0)) / float64(dur) * 100
	return min(p, 100)
}

// Project computes the projection for pos and dur. It is pure and cheap;
// callers recompute it on every read.
func Project(pos, dur time.Duration) Projection {
	return Projection{
		CurrentTime: FormatTime(pos),
		Duration:    FormatTime(dur),
		Remaining:   FormatTime(dur - pos),
		Progress:    Progress(pos, dur),
	}
}
