package graph

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
	"go.uber.org/zap"
)

// Config configures a Graph.
type Config struct {
	SampleRate beep.SampleRate
	BufferSize time.Duration
	// FFTSize is the analyser window. Must be a power of two.
	FFTSize int
	// Smoothing is the analyser time constant in [0,1).
	Smoothing float64
	// StartSuspended makes the graph render silence until Resume.
	StartSuspended bool
	Logger         *zap.Logger
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		SampleRate:     44100,
		BufferSize:     100 * time.Millisecond,
		FFTSize:        256,
		Smoothing:      0.8,
		StartSuspended: true,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.SampleRate == 0 {
		c.SampleRate = d.SampleRate
	}
	if c.BufferSize == 0 {
		c.BufferSize = d.BufferSize
	}
	if c.FFTSize <= 0 || c.FFTSize&(c.FFTSize-1) != 0 {
		c.FFTSize = d.FFTSize
	}
	if c.Smoothing < 0 || c.Smoothing >= 1 {
		c.Smoothing = d.Smoothing
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}

// Graph is the beep implementation of Interface.
type Graph struct {
	mu        sync.Mutex
	cfg       Config
	logger    *zap.Logger
	src       beep.Streamer
	clock     int
	suspended bool
	closed    bool
	gains     Gains
	filters   [len(Bands)]*biquad
	gain      *gainNode
	tap       *Tap
	analyser  *analyser
	release   func()
}

// New opens the speaker at cfg.SampleRate and plays src through the graph.
// The speaker is process wide; New must be called once per process.
func New(cfg Config, src beep.Streamer) (*Graph, error) {
	g := build(cfg, src)
	if err := speaker.Init(g.cfg.SampleRate, g.cfg.SampleRate.N(g.cfg.BufferSize)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	speaker.Play(g)
	g.release = speaker.Clear
	g.logger.Debug("graph started",
		zap.Int("sample_rate", int(g.cfg.SampleRate)),
		zap.Duration("buffer", g.cfg.BufferSize),
		zap.Bool("suspended", g.suspended))
	return g, nil
}

// build wires the chain without touching the speaker.
func build(cfg Config, src beep.Streamer) *Graph {
	cfg = cfg.withDefaults()
	g := &Graph{
		cfg:       cfg,
		logger:    cfg.Logger.Named("graph"),
		src:       src,
		suspended: cfg.StartSuspended,
	}
	sr := float64(cfg.SampleRate)
	var s beep.Streamer = src
	g.filters[BandBass] = newBiquad(s, lowShelf, 250, 0, &g.gains.Bass, sr)
	g.filters[BandMid] = newBiquad(g.filters[BandBass], peaking, 1000, 1, &g.gains.Mid, sr)
	g.filters[BandTreble] = newBiquad(g.filters[BandMid], highShelf, 4000, 0, &g.gains.Treble, sr)
	g.gain = newGainNode(g.filters[BandTreble], cfg.SampleRate.N(rampDuration))
	g.tap = NewTap(g.gain, cfg.FFTSize*4)
	g.analyser = newAnalyser(cfg.FFTSize, cfg.Smoothing)
	return g
}

// Stream renders the graph. While suspended or closed it renders silence
// and the clock stands still.
func (g *Graph) Stream(samples [][2]float64) (int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.suspended || g.closed {
		clear(samples)
		return len(samples), true
	}
	n, _ := g.tap.Stream(samples)
	if n < len(samples) {
		clear(samples[n:])
	}
	g.clock += len(samples)
	return len(samples), true
}

// Err implements beep.Streamer.
func (g *Graph) Err() error { return nil }

func (g *Graph) Resume(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return ErrUnavailable
	}
	if g.suspended {
		g.suspended = false
		g.logger.Debug("graph resumed")
	}
	return nil
}

func (g *Graph) Suspended() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.suspended
}

func (g *Graph) Now() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cfg.SampleRate.D(g.clock)
}

func (g *Graph) SetGain(v float64) {
	if math.IsNaN(v) {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gain.schedule(v, g.clock)
}

func (g *Graph) SetGainAt(v float64, at time.Duration) {
	if math.IsNaN(v) {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gain.schedule(v, g.cfg.SampleRate.N(at))
}

// Gain returns the gain currently applied, ramp included.
func (g *Graph) Gain() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gain.current
}

func (g *Graph) SetBandGain(b Band, dB float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gains.Set(b, ClampBandGain(dB))
}

// BandGains returns the gains the filters currently read.
func (g *Graph) BandGains() Gains {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gains
}

func (g *Graph) FrequencyData() []uint8 {
	return g.analyser.frequencyData(g.tap.Samples(g.cfg.FFTSize))
}

func (g *Graph) BinCount() int {
	return g.cfg.FFTSize / 2
}

func (g *Graph) Close() error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return nil
	}
	g.closed = true
	release := g.release
	g.mu.Unlock()

	// speaker.Clear takes the speaker lock, which the audio thread holds
	// while it calls Stream.
	if release != nil {
		release()
	}
	return nil
}
