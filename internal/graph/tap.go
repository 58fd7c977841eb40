package graph

import (
	"sync"

	"github.com/gopxl/beep/v2"
)

// Tap copies a mono mix of everything that passes through it into a ring
// buffer the analyser reads from.
type Tap struct {
	s    beep.Streamer
	mu   sync.Mutex
	buf  []float64
	pos  int
	size int
}

// NewTap wraps a streamer with a ring buffer of the given size.
func NewTap(s beep.Streamer, bufSize int) *Tap {
	return &Tap{
		s:    s,
		buf:  make([]float64, bufSize),
		size: bufSize,
	}
}

func (t *Tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.s.Stream(samples)
	t.mu.Lock()
	for i := range n {
		t.buf[t.pos] = (samples[i][0] + samples[i][1]) / 2
		t.pos = (t.pos + 1) % t.size
	}
	t.mu.Unlock()
	return n, ok
}

func (t *Tap) Err() error {
	return t.s.Err()
}

// Samples returns the last n samples in chronological order.
func (t *Tap) Samples(n int) []float64 {
	n = min(n, t.size)
	out := make([]float64, n)
	t.mu.Lock()
	start := (t.pos - n + t.size) % t.size
	for i := range n {
		out[i] = t.buf[(start+i)%t.size]
	}
	t.mu.Unlock()
	return out
}
