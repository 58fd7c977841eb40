// Package spectrum renders analyser frequency data as terminal bars.
package spectrum

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/wavestream/internal/ui"
	"github.com/llehouerou/wavestream/internal/ui/render"
	"github.com/llehouerou/wavestream/internal/ui/styles"
)

// blocks are the eighth-height bar glyphs, index 0 empty.
var blocks = []rune(" ▁▂▃▄▅▆▇█")

// Model holds the latest frame and the panel size.
type Model struct {
	ui.Base
	bins []uint8
}

// New creates an empty spectrum.
func New() Model {
	return Model{}
}

// SetData replaces the frame. The slice is copied.
func (m *Model) SetData(bins []uint8) {
	m.bins = append(m.bins[:0], bins...)
}

// Clear drops the frame, e.g. when playback stops.
func (m *Model) Clear() {
	m.bins = m.bins[:0]
}

// View renders the spectrum inside a panel of the model's size.
func (m Model) View() string {
	w, h := m.Size()
	innerW, innerH := w-2, h-ui.BorderHeight
	if innerW <= 0 || innerH <= 0 {
		return ""
	}
	var body string
	if len(m.bins) == 0 {
		lines := make([]string, innerH)
		for i := range lines {
			lines[i] = strings.Repeat(" ", innerW)
		}
		lines[innerH/2] = styles.T().S().Subtle.Render(render.Center("no signal", innerW))
		body = strings.Join(lines, "\n")
	} else {
		body = Render(m.bins, innerW, innerH)
	}
	return styles.PanelStyle(m.IsFocused()).Render(body)
}

// Render draws bins as width columns of height rows. Columns are spread
// logarithmically over the bins so bass does not collapse into one column.
func Render(bins []uint8, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	levels := Columns(bins, width)
	colors := styles.Gradient(height, styles.T().SpectrumLow, styles.T().SpectrumHigh)

	rows := make([]string, height)
	line := make([]rune, width)
	for r := range height {
		fromBottom := height - 1 - r
		for c, v := range levels {
			eighths := int(math.Round(v*float64(height*8))) - fromBottom*8
			line[c] = blocks[max(0, min(eighths, 8))]
		}
		rows[r] = lipgloss.NewStyle().Foreground(colors[fromBottom]).Render(string(line))
	}
	return strings.Join(rows, "\n")
}

// Columns reduces bins to width levels in [0,1], taking the loudest bin
// of each column's range.
func Columns(bins []uint8, width int) []float64 {
	levels := make([]float64, width)
	n := len(bins)
	if n == 0 || width <= 0 {
		return levels
	}
	edges := columnEdges(n, width)
	for c := range width {
		lo, hi := edges[c], edges[c+1]
		if lo >= hi {
			// more columns than bins: reuse the previous bin
			lo = max(hi-1, 0)
		}
		var peak uint8
		for _, v := range bins[lo:hi] {
			peak = max(peak, v)
		}
		levels[c] = float64(peak) / 255
	}
	return levels
}

// columnEdges returns width+1 bin boundaries, logarithmically spaced
// over [0,n]. Every column gets at least one new bin while bins remain.
func columnEdges(n, width int) []int {
	edges := make([]int, width+1)
	for c := 1; c <= width; c++ {
		e := int(math.Round(math.Pow(float64(n+1), float64(c)/float64(width)))) - 1
		e = max(e, edges[c-1]+1)
		edges[c] = min(e, n)
	}
	edges[width] = n
	return edges
}
