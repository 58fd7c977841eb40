package styles

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette and pre-built styles for the player.
type Theme struct {
	Primary   lipgloss.Color // active transport, progress fill
	Secondary lipgloss.Color // EQ and rate accents

	FgBase   lipgloss.Color
	FgMuted  lipgloss.Color
	FgSubtle lipgloss.Color

	Border      lipgloss.Color
	BorderFocus lipgloss.Color

	Success lipgloss.Color
	Error   lipgloss.Color
	Warning lipgloss.Color

	// Spectrum bars blend from low to high bottom-up.
	SpectrumLow  lipgloss.Color
	SpectrumHigh lipgloss.Color

	styles *Styles
}

// Styles contains pre-built lipgloss styles.
type Styles struct {
	Base           lipgloss.Style
	Muted          lipgloss.Style
	Subtle         lipgloss.Style
	Title          lipgloss.Style
	Playing        lipgloss.Style
	Accent         lipgloss.Style
	ProgressFilled lipgloss.Style
	ProgressEmpty  lipgloss.Style
	Success        lipgloss.Style
	Error          lipgloss.Style
	Warning        lipgloss.Style
}

var defaultTheme = Theme{
	Primary:   lipgloss.Color("#a78bfa"),
	Secondary: lipgloss.Color("#f1a208"),

	FgBase:   lipgloss.Color("#c0c0c0"),
	FgMuted:  lipgloss.Color("#808080"),
	FgSubtle: lipgloss.Color("#585858"),

	Border:      lipgloss.Color("#585858"),
	BorderFocus: lipgloss.Color("#a78bfa"),

	Success: lipgloss.Color("#42b883"),
	Error:   lipgloss.Color("#ff5555"),
	Warning: lipgloss.Color("#f1a208"),

	SpectrumLow:  lipgloss.Color("#42b883"),
	SpectrumHigh: lipgloss.Color("#a78bfa"),
}

// T returns the default theme.
func T() *Theme {
	return &defaultTheme
}

// S returns the pre-built styles for this theme.
func (t *Theme) S() *Styles {
	if t.styles == nil {
		t.styles = t.buildStyles()
	}
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	base := lipgloss.NewStyle().Foreground(t.FgBase)

	return &Styles{
		Base:   base,
		Muted:  lipgloss.NewStyle().Foreground(t.FgMuted),
		Subtle: lipgloss.NewStyle().Foreground(t.FgSubtle),
		Title:  base.Bold(true),
		Playing: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),
		Accent:         lipgloss.NewStyle().Foreground(t.Secondary),
		ProgressFilled: lipgloss.NewStyle().Foreground(t.Primary),
		ProgressEmpty:  lipgloss.NewStyle().Foreground(t.FgSubtle),
		Success:        lipgloss.NewStyle().Foreground(t.Success),
		Error:          lipgloss.NewStyle().Foreground(t.Error),
		Warning:        lipgloss.NewStyle().Foreground(t.Warning),
	}
}
