package keymap

// Binding describes a single key binding.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "playback", "transport", "equalizer", "display"
}

// All contains all key bindings, in help order.
var All = []Binding{
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
	{ActionHelp, []string{"?"}, "Show help", "global"},

	{ActionPlayPause, []string{" ", "p"}, "Play/pause", "playback"},
	{ActionStop, []string{"s"}, "Stop", "playback"},
	{ActionSeekBack, []string{"left", "h"}, "Seek -5s", "playback"},
	{ActionSeekForward, []string{"right", "l"}, "Seek +5s", "playback"},
	{ActionSeekBackLong, []string{"shift+left", "H"}, "Seek -30s", "playback"},
	{ActionSeekForwardLong, []string{"shift+right", "L"}, "Seek +30s", "playback"},
	{ActionSeekStart, []string{"home", "0"}, "Restart track", "playback"},

	{ActionVolumeUp, []string{"up", "k", "+", "="}, "Volume +5%", "transport"},
	{ActionVolumeDown, []string{"down", "j", "-"}, "Volume -5%", "transport"},
	{ActionMute, []string{"m"}, "Toggle mute", "transport"},
	{ActionRateUp, []string{"]"}, "Rate +0.25x", "transport"},
	{ActionRateDown, []string{"["}, "Rate -0.25x", "transport"},
	{ActionRateReset, []string{"\\"}, "Normal rate", "transport"},

	{ActionBassUp, []string{"b"}, "Bass +1 dB", "equalizer"},
	{ActionBassDown, []string{"B"}, "Bass -1 dB", "equalizer"},
	{ActionMidUp, []string{"n"}, "Mid +1 dB", "equalizer"},
	{ActionMidDown, []string{"N"}, "Mid -1 dB", "equalizer"},
	{ActionTrebleUp, []string{"t"}, "Treble +1 dB", "equalizer"},
	{ActionTrebleDown, []string{"T"}, "Treble -1 dB", "equalizer"},
	{ActionEQReset, []string{"e"}, "Flat EQ", "equalizer"},

	{ActionTogglePlayerDisplay, []string{"v"}, "Toggle player display", "display"},
	{ActionToggleSpectrum, []string{"f"}, "Toggle spectrum", "display"},
}

// Contexts lists the binding contexts in help order.
var Contexts = []string{"global", "playback", "transport", "equalizer", "display"}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range All {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}
