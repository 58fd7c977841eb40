package playerbar

import (
	"strings"

	"github.com/llehouerou/wavestream/internal/icons"
	"github.com/llehouerou/wavestream/internal/ui/render"
)

const contentRows = 4 // Height(ModeExpanded) - 2 for borders

// RenderExpanded renders title, artist, progress and a transport row.
func RenderExpanded(s State, width int) string {
	innerWidth := max(width-2, 0)
	if innerWidth < minExpandedWidth {
		return renderCompact(s, width)
	}
	contentWidth := innerWidth - 2 // 1 cell of padding on each side
	st := styleSet()

	artist := s.Artist
	if artist == "" {
		artist = "Unknown Artist"
	}

	lines := []string{
		st.Title.Render(render.Truncate(s.Title, contentWidth)),
		st.Muted.Render(render.Truncate(artist, contentWidth)),
		RenderProgressBar(s.Status, s.Position, s.Duration, contentWidth),
	}
	if s.Error != "" {
		lines = append(lines, st.Error.Render(render.Truncate(icons.Status(s.Status)+" "+s.Error, contentWidth)))
	} else {
		lines = append(lines, transportRow(s, contentWidth))
	}

	for len(lines) < contentRows {
		lines = append(lines, "")
	}
	return barStyle().Padding(0, 1).Width(innerWidth).Render(strings.Join(lines[:contentRows], "\n"))
}

// transportRow: vol 80%  1.25x            eq bass +3.0  mid 0.0  treble -1.5
func transportRow(s State, width int) string {
	left := RenderVolume(s.Volume, s.Muted)
	if rate := RenderRate(s.Rate); rate != "" {
		left += "  " + rate
	}
	return render.Row(left, RenderEQ(s.EQ), width)
}
