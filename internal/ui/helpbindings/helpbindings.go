// Package helpbindings renders a scrollable list of the player's key
// bindings, grouped by context.
package helpbindings

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/wavestream/internal/keymap"
	"github.com/llehouerou/wavestream/internal/ui"
	"github.com/llehouerou/wavestream/internal/ui/render"
	"github.com/llehouerou/wavestream/internal/ui/styles"
)

// categoryLabels maps context names to display labels.
var categoryLabels = map[string]string{
	"global":    "Global",
	"playback":  "Playback",
	"transport": "Volume & Rate",
	"equalizer": "Equalizer",
	"display":   "Display",
}

// chrome is the rows taken by the title, the footer and their spacing.
const chrome = 4

// Model holds the help panel state.
type Model struct {
	ui.Base
	scrollOffset int
}

// New creates a help panel scrolled to the top.
func New() Model {
	return Model{}
}

// Update handles a key while help is shown. It reports whether the key
// closes the panel.
func (m Model) Update(msg tea.KeyMsg) (Model, bool) {
	switch msg.String() {
	case "?", "esc":
		m.scrollOffset = 0
		return m, true
	case "j", "down":
		if m.scrollOffset < m.maxScroll() {
			m.scrollOffset++
		}
	case "k", "up":
		if m.scrollOffset > 0 {
			m.scrollOffset--
		}
	}
	return m, false
}

// ScrollOffset returns the first visible content line.
func (m Model) ScrollOffset() int {
	return m.scrollOffset
}

// View renders the visible part of the bindings with a title and footer.
func (m Model) View() string {
	if m.Width() == 0 || m.Height() == 0 {
		return ""
	}
	s := styles.T().S()

	lines := m.lines()
	start := min(m.scrollOffset, len(lines))
	end := min(start+m.visibleHeight(), len(lines))

	var sb strings.Builder
	sb.WriteString(s.Title.Render("Help"))
	sb.WriteString("\n\n")
	sb.WriteString(strings.Join(lines[start:end], "\n"))
	sb.WriteString("\n\n")
	sb.WriteString(s.Subtle.Render(m.footer()))
	return sb.String()
}

func (m Model) lines() []string {
	s := styles.T().S()
	bindings := make([]keymap.Binding, 0, len(keymap.All))
	for _, ctx := range keymap.Contexts {
		bindings = append(bindings, keymap.ByContext(ctx)...)
	}

	keyWidth := 0
	for _, b := range bindings {
		keyWidth = max(keyWidth, lipgloss.Width(keymap.Describe(b.Keys)))
	}
	descWidth := max(m.Width()-keyWidth-4, 0)

	var lines []string
	current := ""
	for _, b := range bindings {
		if b.Context != current {
			if current != "" {
				lines = append(lines, "")
			}
			label := categoryLabels[b.Context]
			if label == "" {
				label = b.Context
			}
			lines = append(lines,
				s.Accent.Bold(true).Render(label),
				s.Subtle.Render(strings.Repeat("─", min(keyWidth+16, m.Width()))),
			)
			current = b.Context
		}
		key := render.Pad(keymap.Describe(b.Keys), keyWidth)
		lines = append(lines, s.Playing.Render(key)+"  "+render.Truncate(b.Description, descWidth))
	}
	return lines
}

func (m Model) footer() string {
	if m.maxScroll() == 0 {
		return "?/esc close · q quit"
	}
	return "j/k scroll · ?/esc close · q quit"
}

func (m Model) visibleHeight() int {
	return max(m.Height()-chrome, 1)
}

func (m Model) maxScroll() int {
	return max(len(m.lines())-m.visibleHeight(), 0)
}
