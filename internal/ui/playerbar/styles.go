package playerbar

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/wavestream/internal/playback"
	"github.com/llehouerou/wavestream/internal/ui/styles"
)

const (
	minBarWidth      = 10
	minProgressWidth = 5
	minInfoWidth     = 10
	minExpandedWidth = 40
)

func styleSet() *styles.Styles {
	return styles.T().S()
}

func barStyle() lipgloss.Style {
	return styles.PanelStyle(false)
}

func statusStyle(s playback.Status) lipgloss.Style {
	st := styleSet()
	switch s {
	case playback.StatusPlaying:
		return st.Playing
	case playback.StatusError:
		return st.Error
	case playback.StatusLoading:
		return st.Warning
	case playback.StatusIdle, playback.StatusPaused, playback.StatusEnded:
	}
	return st.Muted
}
