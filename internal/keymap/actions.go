// Package keymap defines key bindings and action dispatch for the player.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit Action = "quit"
	ActionHelp Action = "help"

	// Session
	ActionPlayPause Action = "play_pause"
	ActionStop      Action = "stop"

	// Seeking
	ActionSeekForward     Action = "seek_forward"
	ActionSeekBack        Action = "seek_back"
	ActionSeekForwardLong Action = "seek_forward_long"
	ActionSeekBackLong    Action = "seek_back_long"
	ActionSeekStart       Action = "seek_start"

	// Transport
	ActionVolumeUp   Action = "volume_up"
	ActionVolumeDown Action = "volume_down"
	ActionMute       Action = "mute"
	ActionRateUp     Action = "rate_up"
	ActionRateDown   Action = "rate_down"
	ActionRateReset  Action = "rate_reset"

	// Equalizer
	ActionBassUp     Action = "bass_up"
	ActionBassDown   Action = "bass_down"
	ActionMidUp      Action = "mid_up"
	ActionMidDown    Action = "mid_down"
	ActionTrebleUp   Action = "treble_up"
	ActionTrebleDown Action = "treble_down"
	ActionEQReset    Action = "eq_reset"

	// Display
	ActionTogglePlayerDisplay Action = "toggle_player_display"
	ActionToggleSpectrum      Action = "toggle_spectrum"
)
