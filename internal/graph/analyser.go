package graph

import (
	"math"
	"math/cmplx"
	"sync"

	"github.com/mjibson/go-dsp/fft"
)

// Decibel range mapped onto 0..255, as a browser analyser node does.
const (
	minDecibels = -100.0
	maxDecibels = -30.0
)

// analyser turns tap snapshots into byte frequency data with temporal
// smoothing. Each call advances the smoothing by one step.
type analyser struct {
	mu        sync.Mutex
	size      int
	smoothing float64
	window    []float64
	smoothed  []float64
}

func newAnalyser(size int, smoothing float64) *analyser {
	return &analyser{
		size:      size,
		smoothing: smoothing,
		window:    blackman(size),
		smoothed:  make([]float64, size/2),
	}
}

// blackman returns the classic Blackman window (alpha 0.16).
func blackman(n int) []float64 {
	const a0, a1, a2 = 0.42, 0.5, 0.08
	w := make([]float64, n)
	for i := range w {
		x := float64(i) / float64(n)
		w[i] = a0 - a1*math.Cos(2*math.Pi*x) + a2*math.Cos(4*math.Pi*x)
	}
	return w
}

func (a *analyser) frequencyData(samples []float64) []uint8 {
	in := make([]float64, a.size)
	// the most recent samples end up at the end of the window
	copy(in[a.size-len(samples):], samples)
	for i := range in {
		in[i] *= a.window[i]
	}
	coeffs := fft.FFTReal(in)

	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]uint8, len(a.smoothed))
	for k := range a.smoothed {
		mag := cmplx.Abs(coeffs[k]) / float64(a.size)
		a.smoothed[k] = a.smoothing*a.smoothed[k] + (1-a.smoothing)*mag
		out[k] = toByte(a.smoothed[k])
	}
	return out
}

func toByte(mag float64) uint8 {
	if mag <= 0 {
		return 0
	}
	db := 20 * math.Log10(mag)
	scaled := 255 * (db - minDecibels) / (maxDecibels - minDecibels)
	return uint8(max(0, min(scaled, 255)))
}
