package playerbar

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/wavestream/internal/errmsg"
	"github.com/llehouerou/wavestream/internal/graph"
	"github.com/llehouerou/wavestream/internal/icons"
	"github.com/llehouerou/wavestream/internal/playback"
	"github.com/llehouerou/wavestream/internal/telemetry"
	"github.com/llehouerou/wavestream/internal/ui/render"
)

// DisplayMode controls the player bar appearance.
type DisplayMode int

const (
	ModeCompact  DisplayMode = iota // Single-line view
	ModeExpanded                    // Title, artist, progress and transport rows
)

// State holds everything needed to render the player bar.
type State struct {
	Status      playback.Status
	Title       string
	Artist      string
	Position    time.Duration
	Duration    time.Duration
	Volume      float64
	Muted       bool
	Rate        float64
	EQ          graph.Gains
	Error       string
	DisplayMode DisplayMode
}

// Height returns the total height of the player bar for the given mode.
func Height(mode DisplayMode) int {
	if mode == ModeExpanded {
		return 6 // 4 content rows + 2 border rows
	}
	return 3 // top border + content + bottom border
}

// NewState builds the render state from an engine snapshot. A session
// without a track yields the zero State.
func NewState(snap playback.Snapshot, mode DisplayMode) State {
	t := snap.Track
	if t == nil {
		return State{}
	}
	s := State{
		Status:      snap.Status,
		Title:       t.Title,
		Artist:      t.Artist,
		Position:    snap.CurrentTime,
		Duration:    snap.Duration,
		Volume:      snap.Transport.Volume,
		Muted:       snap.Transport.Muted,
		Rate:        snap.Transport.Rate,
		EQ:          snap.Transport.EQ,
		DisplayMode: mode,
	}
	if s.Title == "" {
		s.Title = t.ID
	}
	if snap.Err != nil {
		s.Error = errmsg.Playback(t.DisplayTitle(), snap.Err)
	}
	return s
}

// Empty reports whether there is nothing to show.
func (s State) Empty() bool {
	return s.Title == ""
}

// Render returns the player bar string for the given width, or "" when
// no track is loaded.
func Render(s State, width int) string {
	if s.Empty() {
		return ""
	}
	if s.DisplayMode == ModeExpanded {
		return RenderExpanded(s, width)
	}
	return renderCompact(s, width)
}

// renderCompact lays out: ▶  Title · Artist   ━━━───   1:23 / 3:58   vol 80%
// When narrow the transport and then the time are dropped.
func renderCompact(s State, width int) string {
	innerWidth := max(width-6, 0)
	st := styleSet()
	const separator = "   "
	sepWidth := lipgloss.Width(separator)

	status := icons.Status(s.Status)
	lead := lipgloss.Width(status) + 2

	if s.Error != "" {
		msg := render.Truncate(s.Error, max(innerWidth-lead, 1))
		line := statusStyle(s.Status).Render(status) + "  " + st.Error.Render(msg)
		return barStyle().Padding(0, 2).Width(max(width-2, 0)).Render(line)
	}

	transport := RenderVolume(s.Volume, s.Muted)
	if rate := RenderRate(s.Rate); rate != "" {
		transport += "  " + rate
	}
	trailing := []string{
		st.Muted.Render(telemetry.FormatTime(s.Position) + " / " + telemetry.FormatTime(s.Duration)),
		transport,
	}
	fixed := func() int {
		w := lead + sepWidth // separator between info and bar
		for _, seg := range trailing {
			w += sepWidth + lipgloss.Width(seg)
		}
		return w
	}
	for len(trailing) > 0 && innerWidth-fixed() < minInfoWidth+minProgressWidth {
		trailing = trailing[:len(trailing)-1]
	}
	rest := max(innerWidth-fixed(), 0)

	info := s.Title
	if s.Artist != "" {
		info += " · " + s.Artist
	}
	infoWidth := min(lipgloss.Width(info), max(rest-minBarWidth, minInfoWidth))
	if infoWidth+minProgressWidth > rest {
		infoWidth = max(rest-minProgressWidth, 0)
	}
	info = render.Truncate(info, infoWidth)
	barWidth := max(rest-lipgloss.Width(info), 0)

	var content strings.Builder
	content.WriteString(statusStyle(s.Status).Render(status))
	content.WriteString("  ")
	content.WriteString(st.Title.Render(info))
	content.WriteString(separator)
	content.WriteString(progressLine(s.Position, s.Duration, barWidth))
	for _, seg := range trailing {
		content.WriteString(separator)
		content.WriteString(seg)
	}

	return barStyle().Padding(0, 2).Width(max(width-2, 0)).Render(content.String())
}

// progressLine renders a thin line bar: ━━━━───
func progressLine(pos, dur time.Duration, width int) string {
	filled := filledCells(pos, dur, width)
	st := styleSet()
	return st.ProgressFilled.Render(strings.Repeat("━", filled)) +
		st.ProgressEmpty.Render(strings.Repeat("─", width-filled))
}

// filledCells converts progress into whole cells of a width-cell bar.
func filledCells(pos, dur time.Duration, width int) int {
	if width <= 0 {
		return 0
	}
	p := telemetry.Progress(pos, dur)
	return min(int(float64(width)*p/100), width)
}
