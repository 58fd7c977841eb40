package graph

import (
	"math"

	"github.com/gopxl/beep/v2"
)

type filterKind int

const (
	lowShelf filterKind = iota
	peaking
	highShelf
)

// bypassThreshold is the gain below which a filter passes audio untouched.
const bypassThreshold = 0.1

// biquad is a second-order IIR filter from the Audio EQ Cookbook. It reads
// its gain through a pointer on every Stream call, so changes apply
// without rebuilding the chain.
type biquad struct {
	s    beep.Streamer
	kind filterKind
	freq float64
	q    float64
	gain *float64
	sr   float64

	x1, x2 [2]float64
	y1, y2 [2]float64

	lastGain           float64
	b0, b1, b2, a1, a2 float64
	inited             bool
}

func newBiquad(s beep.Streamer, kind filterKind, freq, q float64, gain *float64, sr float64) *biquad {
	return &biquad{s: s, kind: kind, freq: freq, q: q, gain: gain, sr: sr}
}

func (b *biquad) calcCoeffs(dB float64) {
	if b.inited && dB == b.lastGain {
		return
	}
	b.lastGain = dB
	b.inited = true

	a := math.Pow(10, dB/40)
	w0 := 2 * math.Pi * b.freq / b.sr
	sinW0 := math.Sin(w0)
	cosW0 := math.Cos(w0)

	var b0, b1, b2, a0, a1, a2 float64
	switch b.kind {
	case peaking:
		alpha := sinW0 / (2 * b.q)
		b0 = 1 + alpha*a
		b1 = -2 * cosW0
		b2 = 1 - alpha*a
		a0 = 1 + alpha/a
		a1 = -2 * cosW0
		a2 = 1 - alpha/a
	case lowShelf:
		// shelf slope S = 1
		alpha := sinW0 / 2 * math.Sqrt2
		sa := 2 * math.Sqrt(a) * alpha
		b0 = a * ((a + 1) - (a-1)*cosW0 + sa)
		b1 = 2 * a * ((a - 1) - (a+1)*cosW0)
		b2 = a * ((a + 1) - (a-1)*cosW0 - sa)
		a0 = (a + 1) + (a-1)*cosW0 + sa
		a1 = -2 * ((a - 1) + (a+1)*cosW0)
		a2 = (a + 1) + (a-1)*cosW0 - sa
	case highShelf:
		alpha := sinW0 / 2 * math.Sqrt2
		sa := 2 * math.Sqrt(a) * alpha
		b0 = a * ((a + 1) + (a-1)*cosW0 + sa)
		b1 = -2 * a * ((a - 1) + (a+1)*cosW0)
		b2 = a * ((a + 1) + (a-1)*cosW0 - sa)
		a0 = (a + 1) - (a-1)*cosW0 + sa
		a1 = 2 * ((a - 1) - (a+1)*cosW0)
		a2 = (a + 1) - (a-1)*cosW0 - sa
	}

	b.b0 = b0 / a0
	b.b1 = b1 / a0
	b.b2 = b2 / a0
	b.a1 = a1 / a0
	b.a2 = a2 / a0
}

func (b *biquad) Stream(samples [][2]float64) (int, bool) {
	n, ok := b.s.Stream(samples)
	dB := *b.gain

	if dB > -bypassThreshold && dB < bypassThreshold {
		b.x1, b.x2, b.y1, b.y2 = [2]float64{}, [2]float64{}, [2]float64{}, [2]float64{}
		return n, ok
	}

	b.calcCoeffs(dB)

	for i := range n {
		for ch := range 2 {
			x := samples[i][ch]
			y := b.b0*x + b.b1*b.x1[ch] + b.b2*b.x2[ch] - b.a1*b.y1[ch] - b.a2*b.y2[ch]
			b.x2[ch] = b.x1[ch]
			b.x1[ch] = x
			b.y2[ch] = b.y1[ch]
			b.y1[ch] = y
			samples[i][ch] = y
		}
	}
	return n, ok
}

func (b *biquad) Err() error { return b.s.Err() }
