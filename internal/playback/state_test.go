package playback

import (
	"math"
	"testing"
	"time"

	"github.com/llehouerou/wavestream/internal/player"
)

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusIdle, "idle"},
		{StatusLoading, "loading"},
		{StatusPlaying, "playing"},
		{StatusPaused, "paused"},
		{StatusEnded, "ended"},
		{StatusError, "error"},
		{Status(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.status.String(); got != tt.want {
				t.Errorf("Status.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatus_IsActive(t *testing.T) {
	for _, s := range []Status{StatusIdle, StatusLoading, StatusEnded, StatusError} {
		if s.IsActive() {
			t.Errorf("%v.IsActive() = true, want false", s)
		}
	}
	for _, s := range []Status{StatusPlaying, StatusPaused} {
		if !s.IsActive() {
			t.Errorf("%v.IsActive() = false, want true", s)
		}
	}
}

func TestTransition(t *testing.T) {
	tests := []struct {
		from Status
		ev   player.EventKind
		want Status
	}{
		{StatusLoading, player.EventCanPlay, StatusPlaying},
		{StatusLoading, player.EventError, StatusError},
		{StatusLoading, player.EventLoadStart, StatusLoading},
		{StatusLoading, player.EventDurationChange, StatusLoading},
		{StatusLoading, player.EventPause, StatusLoading},
		{StatusPlaying, player.EventPause, StatusPaused},
		{StatusPlaying, player.EventEnded, StatusEnded},
		{StatusPlaying, player.EventError, StatusError},
		{StatusPlaying, player.EventTimeUpdate, StatusPlaying},
		{StatusPlaying, player.EventCanPlay, StatusPlaying},
		{StatusPaused, player.EventPlay, StatusPlaying},
		{StatusPaused, player.EventError, StatusError},
		{StatusPaused, player.EventEnded, StatusEnded},
		{StatusEnded, player.EventPlay, StatusPlaying},
		{StatusEnded, player.EventPause, StatusEnded},
		{StatusIdle, player.EventError, StatusIdle},
		{StatusIdle, player.EventCanPlay, StatusIdle},
		{StatusIdle, player.EventPlay, StatusIdle},
		{StatusError, player.EventPlay, StatusError},
		{StatusError, player.EventCanPlay, StatusError},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"/"+tt.ev.String(), func(t *testing.T) {
			if got := transition(tt.from, tt.ev); got != tt.want {
				t.Errorf("transition(%v, %v) = %v, want %v", tt.from, tt.ev, got, tt.want)
			}
		})
	}
}

func TestTransportState_EffectiveGain(t *testing.T) {
	ts := TransportState{Volume: 0.7}
	if got := ts.EffectiveGain(); got != 0.7 {
		t.Errorf("EffectiveGain() = %v, want 0.7", got)
	}
	ts.Muted = true
	if got := ts.EffectiveGain(); got != 0 {
		t.Errorf("muted EffectiveGain() = %v, want 0", got)
	}
}

func TestTransportState_Clamped(t *testing.T) {
	ts := TransportState{Volume: 4, Rate: 0}
	ts.EQ.Bass = -40
	got := ts.clamped()
	if got.Volume != 1 || got.Rate != 1 || got.EQ.Bass != -12 {
		t.Errorf("clamped() = %+v", got)
	}

	nan := TransportState{Volume: math.NaN(), Rate: math.NaN()}
	nan.EQ.Mid = math.NaN()
	got = nan.clamped()
	if got.Volume != 1 || got.Rate != 1 || got.EQ.Mid != 0 {
		t.Errorf("clamped() with NaN = %+v", got)
	}
}

func TestSnapshot_Progress(t *testing.T) {
	s := Snapshot{CurrentTime: 30 * time.Second, Duration: 2 * time.Minute}
	if got := s.Progress(); got != 25 {
		t.Errorf("Progress() = %v, want 25", got)
	}
	if got := s.Projection().Remaining; got != "1:30" {
		t.Errorf("Projection().Remaining = %q, want 1:30", got)
	}
	if got := (Snapshot{CurrentTime: time.Second}).Progress(); got != 0 {
		t.Errorf("Progress() without duration = %v, want 0", got)
	}
}
