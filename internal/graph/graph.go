// Package graph implements the persistent signal graph every track plays
// through:
//
//	[source] -> [bass 250Hz] -> [mid 1kHz] -> [treble 4kHz] -> [gain] -> [tap] -> [speaker]
//
// The graph is built once and reused. Only its source changes content.
package graph

import (
	"context"
	"errors"
	"math"
	"time"
)

// ErrUnavailable is returned when the audio output cannot be opened.
var ErrUnavailable = errors.New("graph: audio output unavailable")

// Band is one of the three equalizer bands.
type Band int

const (
	BandBass Band = iota
	BandMid
	BandTreble
)

// Bands lists every band in chain order.
var Bands = [...]Band{BandBass, BandMid, BandTreble}

func (b Band) String() string {
	switch b {
	case BandBass:
		return "bass"
	case BandMid:
		return "mid"
	case BandTreble:
		return "treble"
	default:
		return "unknown"
	}
}

// ParseBand returns the band for a name produced by String.
func ParseBand(s string) (Band, bool) {
	for _, b := range Bands {
		if b.String() == s {
			return b, true
		}
	}
	return 0, false
}

// Band gain limits in dB.
const (
	MinBandGain = -12.0
	MaxBandGain = 12.0
)

// ClampBandGain limits dB to the supported equalizer range. NaN is flat.
func ClampBandGain(dB float64) float64 {
	if math.IsNaN(dB) {
		return 0
	}
	return max(MinBandGain, min(dB, MaxBandGain))
}

// Gains holds the equalizer gains in dB.
type Gains struct {
	Bass   float64 `json:"bass"`
	Mid    float64 `json:"mid"`
	Treble float64 `json:"treble"`
}

// Get returns the gain of b.
func (g Gains) Get(b Band) float64 {
	switch b {
	case BandBass:
		return g.Bass
	case BandMid:
		return g.Mid
	case BandTreble:
		return g.Treble
	default:
		return 0
	}
}

// Set stores dB for b.
func (g *Gains) Set(b Band, dB float64) {
	switch b {
	case BandBass:
		g.Bass = dB
	case BandMid:
		g.Mid = dB
	case BandTreble:
		g.Treble = dB
	}
}

// Interface is the signal graph contract used by the playback engine.
type Interface interface {
	// Resume starts rendering. It is idempotent.
	Resume(ctx context.Context) error
	Suspended() bool
	// Now returns the audio clock: time rendered since construction.
	Now() time.Duration
	SetGain(v float64)
	// SetGainAt schedules a gain change on the audio clock.
	SetGainAt(v float64, at time.Duration)
	SetBandGain(b Band, dB float64)
	FrequencyData() []uint8
	BinCount() int
	Close() error
}

// Verify Graph implements Interface at compile time.
var _ Interface = (*Graph)(nil)
