// Package headerbar renders the single-line header above the player.
package headerbar

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/wavestream/internal/icons"
	"github.com/llehouerou/wavestream/internal/playback"
	"github.com/llehouerou/wavestream/internal/ui/render"
	"github.com/llehouerou/wavestream/internal/ui/styles"
)

// Height is the fixed height of the header bar (single line).
const Height = 1

const title = "wavestream"

// Info is what the header shows besides the title.
type Info struct {
	Status   playback.Status
	HasTrack bool
	// Degraded marks an engine running without signal graph.
	Degraded bool
	Spectrum bool
}

// Render returns the header bar string for the given width: the title on
// the left, indicators on the right. Indicators are dropped from the end
// when they do not fit.
func Render(info Info, width int) string {
	if width < len(title) {
		return ""
	}
	t := styles.T()
	s := t.S()
	left := styles.ApplyBoldGradient(title, t.Primary, t.Secondary)

	var parts []string
	if info.HasTrack {
		parts = append(parts, icons.Status(info.Status)+" "+info.Status.String())
	} else {
		parts = append(parts, "nothing playing")
	}
	if info.Degraded {
		parts = append(parts, s.Warning.Render("no EQ"))
	} else if info.Spectrum {
		parts = append(parts, s.Accent.Render("spectrum"))
	}

	separator := s.Subtle.Render(" │ ")
	for len(parts) > 0 {
		right := s.Muted.Render(strings.Join(parts, separator))
		if lipgloss.Width(left)+1+lipgloss.Width(right) <= width {
			return render.Row(left, right, width)
		}
		parts = parts[:len(parts)-1]
	}
	return left
}
