package headerbar

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/wavestream/internal/playback"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name    string
		info    Info
		width   int
		want    []string
		notWant []string
	}{
		{"idle", Info{}, 60, []string{"wavestream", "nothing playing"}, []string{"spectrum"}},
		{"playing", Info{Status: playback.StatusPlaying, HasTrack: true, Spectrum: true}, 60, []string{"playing", "spectrum"}, nil},
		{"degraded", Info{Status: playback.StatusPaused, HasTrack: true, Degraded: true, Spectrum: true}, 60, []string{"paused", "no EQ"}, []string{"spectrum"}},
		{"narrow drops indicators", Info{Status: playback.StatusPlaying, HasTrack: true, Spectrum: true}, 24, []string{"wavestream"}, []string{"spectrum"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Render(tt.info, tt.width)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("Render() = %q, missing %q", got, w)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(got, w) {
					t.Errorf("Render() = %q, should not contain %q", got, w)
				}
			}
			if w := lipgloss.Width(got); w > tt.width {
				t.Errorf("width = %d, exceeds %d", w, tt.width)
			}
			if h := lipgloss.Height(got); h != Height {
				t.Errorf("height = %d, want %d", h, Height)
			}
		})
	}

	if got := Render(Info{}, 5); got != "" {
		t.Errorf("too narrow: Render() = %q, want empty", got)
	}
}

func TestRender_FillsWidth(t *testing.T) {
	got := Render(Info{Status: playback.StatusPlaying, HasTrack: true}, 50)
	if w := lipgloss.Width(got); w != 50 {
		t.Errorf("width = %d, want 50", w)
	}
}
