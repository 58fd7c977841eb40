package playerbar

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/wavestream/internal/icons"
	"github.com/llehouerou/wavestream/internal/playback"
	"github.com/llehouerou/wavestream/internal/telemetry"
)

var (
	filledBlock = "▓"
	emptyBlock  = "░"
)

// RenderProgressBar renders a block-style progress bar.
// Format: ▶  1:23  ▓▓▓▓▓░░░░░  -2:35
func RenderProgressBar(status playback.Status, position, duration time.Duration, width int) string {
	p := telemetry.Project(position, duration)
	glyph := statusStyle(status).Render(icons.Status(status))
	remaining := "-" + p.Remaining

	fixedWidth := lipgloss.Width(glyph) + 2 + lipgloss.Width(p.CurrentTime) + 2 + 2 + lipgloss.Width(remaining)
	barWidth := width - fixedWidth

	if barWidth < minProgressWidth {
		return glyph + "  " + p.CurrentTime + " / " + p.Duration
	}

	filled := filledCells(position, duration, barWidth)
	st := styleSet()
	bar := st.ProgressFilled.Render(strings.Repeat(filledBlock, filled)) +
		st.ProgressEmpty.Render(strings.Repeat(emptyBlock, barWidth-filled))

	return glyph + "  " + p.CurrentTime + "  " + bar + "  " + remaining
}
