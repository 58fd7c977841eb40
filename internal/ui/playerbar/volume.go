package playerbar

import (
	"fmt"
	"strings"

	"github.com/llehouerou/wavestream/internal/graph"
	"github.com/llehouerou/wavestream/internal/icons"
)

// RenderVolume renders the volume indicator, e.g. "🔊  80%" or "🔇  80%".
// The level shown is the stored volume, which mute leaves untouched.
func RenderVolume(volume float64, muted bool) string {
	icon := icons.Volume()
	if muted {
		icon = icons.VolumeMute()
	}
	return styleSet().Muted.Render(fmt.Sprintf("%s %3d%%", icon, int(volume*100+0.5)))
}

// RenderRate renders a non-default playback rate, e.g. "1.25x".
func RenderRate(rate float64) string {
	if rate == 0 || rate == 1 {
		return ""
	}
	return styleSet().Accent.Render(fmt.Sprintf("%gx", rate))
}

// RenderEQ renders the band gains, or nothing for a flat EQ.
func RenderEQ(g graph.Gains) string {
	if g == (graph.Gains{}) {
		return ""
	}
	parts := make([]string, 0, len(graph.Bands)+1)
	parts = append(parts, icons.Equalizer())
	for _, b := range graph.Bands {
		parts = append(parts, fmt.Sprintf("%s %+.1f", b, g.Get(b)))
	}
	return styleSet().Accent.Render(strings.Join(parts, "  "))
}
