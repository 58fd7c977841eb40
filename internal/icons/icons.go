package icons

import "github.com/llehouerou/wavestream/internal/playback"

// Style represents the icon style to use.
type Style string

const (
	StyleNerd    Style = "nerd"
	StyleUnicode Style = "unicode"
	StyleNone    Style = "none"
)

// Icons holds the transport glyphs for the current style.
type Icons struct {
	Play       string
	Pause      string
	Loading    string
	Stop       string
	Ended      string
	Error      string
	Volume     string
	VolumeMute string
	Equalizer  string
}

var (
	nerdIcons = Icons{
		Play:       "\uf04b",     // nf-fa-play
		Pause:      "\uf04c",     // nf-fa-pause
		Loading:    "\uf110",     // nf-fa-spinner
		Stop:       "\uf04d",     // nf-fa-stop
		Ended:      "\U000f0456", // nf-md-repeat
		Error:      "\uf071",     // nf-fa-warning
		Volume:     "\U000f057e", // nf-md-volume_high
		VolumeMute: "\U000f0581", // nf-md-volume_off
		Equalizer:  "\U000f0ea2", // nf-md-equalizer
	}

	unicodeIcons = Icons{
		Play:       "▶",
		Pause:      "⏸",
		Loading:    "⋯",
		Stop:       "■",
		Ended:      "↺",
		Error:      "⚠",
		Volume:     "🔊",
		VolumeMute: "🔇",
		Equalizer:  "≋",
	}

	noneIcons = Icons{
		Play:       ">",
		Pause:      "||",
		Loading:    "..",
		Stop:       "[]",
		Ended:      "<<",
		Error:      "!",
		Volume:     "vol",
		VolumeMute: "mute",
		Equalizer:  "eq",
	}

	// current holds the active icon set
	current = unicodeIcons
)

// Init selects the icon style. Unknown styles fall back to unicode.
// Call this once at startup with the config value.
func Init(style string) {
	switch Style(style) {
	case StyleNerd:
		current = nerdIcons
	case StyleNone:
		current = noneIcons
	case StyleUnicode:
		current = unicodeIcons
	default:
		current = unicodeIcons
	}
}

// Status returns the glyph for a session status.
func Status(s playback.Status) string {
	switch s {
	case playback.StatusPlaying:
		return current.Play
	case playback.StatusPaused:
		return current.Pause
	case playback.StatusLoading:
		return current.Loading
	case playback.StatusEnded:
		return current.Ended
	case playback.StatusError:
		return current.Error
	case playback.StatusIdle:
		return current.Stop
	}
	return current.Stop
}

// Volume returns the volume icon.
func Volume() string {
	return current.Volume
}

// VolumeMute returns the muted volume icon.
func VolumeMute() string {
	return current.VolumeMute
}

// Equalizer returns the EQ icon.
func Equalizer() string {
	return current.Equalizer
}
