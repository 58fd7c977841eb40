// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import (
	"errors"
	"fmt"

	"github.com/llehouerou/wavestream/internal/playback"
)

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Playback operations
	OpPlaybackStart Op = "start playback"
	OpPlaybackSeek  Op = "seek"
	OpStreamResolve Op = "find a stream"
	OpStreamPlay    Op = "play stream"

	// Equalizer presets
	OpPresetLoad   Op = "load EQ presets"
	OpPresetSave   Op = "save EQ preset"
	OpPresetApply  Op = "apply EQ preset"
	OpPresetDelete Op = "delete EQ preset"

	// Settings
	OpSettingsLoad Op = "load saved settings"

	// Last.fm
	OpLastfmLink   Op = "link Last.fm account"
	OpLastfmRecord Op = "record play on Last.fm"

	// Initialization
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}

// OpFor returns the operation a playback error belongs to.
func OpFor(err error) Op {
	var perr *playback.Error
	if !errors.As(err, &perr) {
		return OpPlaybackStart
	}
	switch perr.Kind {
	case playback.KindResolutionFailed:
		return OpStreamResolve
	case playback.KindDecodeOrNetworkFailed:
		return OpStreamPlay
	case playback.KindPlaybackBlocked, playback.KindGraphUnavailable:
		return OpPlaybackStart
	}
	return OpPlaybackStart
}

// Playback formats a playback failure for title, using the operation the
// error belongs to and its underlying cause.
func Playback(title string, err error) string {
	if err == nil {
		return ""
	}
	cause := err
	var perr *playback.Error
	if errors.As(err, &perr) && perr.Err != nil {
		cause = perr.Err
	}
	return FormatWith(OpFor(err), title, cause)
}
