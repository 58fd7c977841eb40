package graph

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dc renders a constant level forever.
func dc(v float64) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{v, v}
		}
		return len(samples), true
	})
}

// sine renders a sine wave at freq forever.
func sine(freq, amp float64, sr beep.SampleRate) beep.Streamer {
	var n int
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			v := amp * math.Sin(2*math.Pi*freq*float64(n)/float64(sr))
			samples[i] = [2]float64{v, v}
			n++
		}
		return len(samples), true
	})
}

func render(g *Graph, frames int) [][2]float64 {
	buf := make([][2]float64, frames)
	g.Stream(buf)
	return buf
}

func TestClampBandGain(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{-12, -12},
		{12, 12},
		{20, 12},
		{-30, -12},
		{3.5, 3.5},
		{math.Inf(1), 12},
		{math.NaN(), 0},
	}

	for _, tt := range tests {
		if got := ClampBandGain(tt.in); got != tt.want {
			t.Errorf("ClampBandGain(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBand_ParseRoundTrip(t *testing.T) {
	for _, b := range Bands {
		got, ok := ParseBand(b.String())
		require.True(t, ok, b.String())
		assert.Equal(t, b, got)
	}
	_, ok := ParseBand("presence")
	assert.False(t, ok)
}

func TestGains_GetSet(t *testing.T) {
	var g Gains
	g.Set(BandBass, 1)
	g.Set(BandMid, 2)
	g.Set(BandTreble, 3)
	assert.Equal(t, Gains{Bass: 1, Mid: 2, Treble: 3}, g)
	assert.Equal(t, 2.0, g.Get(BandMid))
	assert.Equal(t, 0.0, g.Get(Band(9)))
}

func TestGraph_SuspendedRendersSilence(t *testing.T) {
	g := build(DefaultConfig(), dc(0.5))
	require.True(t, g.Suspended())

	buf := render(g, 512)
	for _, s := range buf {
		require.Zero(t, s[0])
	}
	assert.Equal(t, time.Duration(0), g.Now(), "clock must not advance while suspended")

	require.NoError(t, g.Resume(context.Background()))
	require.NoError(t, g.Resume(context.Background()))
	assert.False(t, g.Suspended())

	render(g, 441)
	assert.Equal(t, 10*time.Millisecond, g.Now())
}

func TestGraph_ResumeHonorsContext(t *testing.T) {
	g := build(DefaultConfig(), dc(0.5))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, g.Resume(ctx), context.Canceled)
	assert.True(t, g.Suspended())
}

func TestGraph_GainRamp(t *testing.T) {
	g := build(Config{}, dc(1))
	ramp := g.cfg.SampleRate.N(rampDuration)

	g.SetGain(0)
	buf := render(g, 512)

	assert.Less(t, buf[0][0], 1.0)
	assert.Greater(t, buf[0][0], 0.9, "first frame only starts the ramp")
	assert.InDelta(t, 0.5, buf[ramp/2][0], 0.02)
	assert.Zero(t, buf[ramp][0])
	assert.Zero(t, buf[511][1])
	assert.Zero(t, g.Gain())
}

func TestGraph_GainScheduledOnClock(t *testing.T) {
	g := build(Config{}, dc(1))
	g.SetGainAt(0.5, g.Now()+10*time.Millisecond)

	buf := render(g, 2048)
	at := g.cfg.SampleRate.N(10 * time.Millisecond)
	ramp := g.cfg.SampleRate.N(rampDuration)

	assert.Equal(t, 1.0, buf[at-1][0])
	assert.InDelta(t, 0.5, buf[at+ramp][0], 1e-9)
}

func TestGraph_PastGainAppliesNext(t *testing.T) {
	g := build(Config{}, dc(1))
	render(g, 4410)

	g.SetGainAt(0.25, 0)
	ramp := g.cfg.SampleRate.N(rampDuration)
	buf := render(g, ramp+10)
	assert.InDelta(t, 0.25, buf[ramp+5][0], 1e-9)
}

func TestGraph_BandFiltersAtDC(t *testing.T) {
	tests := []struct {
		band Band
		want float64
	}{
		{BandBass, math.Pow(10, 12.0/20) * 0.1},
		{BandMid, 0.1},
		{BandTreble, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.band.String(), func(t *testing.T) {
			g := build(Config{}, dc(0.1))
			g.SetBandGain(tt.band, 40)
			assert.Equal(t, 12.0, g.BandGains().Get(tt.band))

			buf := render(g, 44100)
			assert.InDelta(t, tt.want, buf[len(buf)-1][0], 0.005)
		})
	}
}

func TestGraph_FlatIsBypass(t *testing.T) {
	g := build(Config{}, sine(440, 0.5, 44100))
	g.SetBandGain(BandMid, 0.05)
	ref := sine(440, 0.5, 44100)

	buf := render(g, 1024)
	want := make([][2]float64, 1024)
	ref.Stream(want)
	assert.Equal(t, want, buf)
}

func TestBiquad_BypassClearsHistory(t *testing.T) {
	gain := 6.0
	f := newBiquad(dc(0.1), peaking, 1000, 0.7, &gain, 44100)
	buf := make([][2]float64, 256)
	f.Stream(buf)
	assert.NotZero(t, f.y1)

	gain = 0
	f.Stream(buf)
	assert.Equal(t, [2]float64{}, f.x1)
	assert.Equal(t, [2]float64{}, f.y1)

	gain = 6
	f.Stream(buf[:1])
	assert.InDelta(t, f.b0*0.1, buf[0][0], 1e-12, "re-enabled filter starts from silence")
}

func TestGraph_FrequencyData(t *testing.T) {
	g := build(Config{}, dc(0))
	assert.Equal(t, 128, g.BinCount())

	data := g.FrequencyData()
	require.Len(t, data, g.BinCount())
	for _, v := range data {
		require.Zero(t, v, "silence maps to the floor")
	}

	// bin k sits at k*sr/fftSize; use bin 32. The level keeps the peak
	// and its window neighbours inside the decibel range.
	freq := 32 * 44100.0 / 256
	g = build(Config{Smoothing: 0.8}, sine(freq, 0.085, 44100))
	render(g, 4096)
	for range 30 {
		data = g.FrequencyData()
	}

	peakBin := 0
	for i, v := range data {
		if v > data[peakBin] {
			peakBin = i
		}
	}
	assert.Equal(t, 32, peakBin)
	assert.Greater(t, data[32], uint8(200))
	assert.Less(t, data[100], data[32])
}

func TestGraph_Closed(t *testing.T) {
	g := build(Config{}, dc(1))
	require.NoError(t, g.Close())
	require.NoError(t, g.Close())

	buf := render(g, 64)
	assert.Zero(t, buf[10][0])
	assert.ErrorIs(t, g.Resume(context.Background()), ErrUnavailable)
}
