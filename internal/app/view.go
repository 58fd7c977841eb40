package app

import (
	"fmt"
	"strings"

	"github.com/llehouerou/wavestream/internal/keymap"
	"github.com/llehouerou/wavestream/internal/ui"
	"github.com/llehouerou/wavestream/internal/ui/headerbar"
	"github.com/llehouerou/wavestream/internal/ui/overlay"
	"github.com/llehouerou/wavestream/internal/ui/playerbar"
	"github.com/llehouerou/wavestream/internal/ui/render"
	"github.com/llehouerou/wavestream/internal/ui/styles"
)

const (
	headerHeight = headerbar.Height
	footerHeight = 1
	helpWidth    = 60
	// helpChrome is the border and padding around the help panel.
	helpChrome = 4
)

// View renders the header, the spectrum panel, the player bar and a footer.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	var sections []string
	sections = append(sections, m.headerView())

	if _, h := m.spectrum.Size(); h > 0 {
		if m.showSpectrum && h > ui.BorderHeight {
			sections = append(sections, m.spectrum.View())
		} else {
			sections = append(sections, strings.Repeat("\n", h-1))
		}
	}

	if bar := playerbar.Render(playerbar.NewState(m.snap, m.mode), m.width); bar != "" {
		sections = append(sections, bar)
	}
	sections = append(sections, m.footerView())
	view := strings.Join(sections, "\n")

	if m.showHelp {
		box := styles.PanelStyle(true).Padding(0, 1).Render(m.help.View())
		view = overlay.Center(view, box, m.width, m.height)
	}
	return view
}

func (m Model) headerView() string {
	return headerbar.Render(headerbar.Info{
		Status:   m.snap.Status,
		HasTrack: m.snap.Track != nil,
		Degraded: m.degraded(),
		Spectrum: m.showSpectrum,
	}, m.width)
}

// degraded reports whether the service runs without a signal graph.
func (m Model) degraded() bool {
	d, ok := m.service.(interface{ Degraded() bool })
	return ok && d.Degraded()
}

func (m Model) footerView() string {
	s := styles.T().S()
	if m.notice != "" {
		return s.Error.Render(render.Truncate(m.notice, m.width))
	}
	hint := fmt.Sprintf("%s help  %s quit",
		keymap.Describe(m.keys.KeysFor(keymap.ActionHelp)),
		keymap.Describe(m.keys.KeysFor(keymap.ActionQuit)),
	)
	return s.Subtle.Render(render.Truncate(hint, m.width))
}
