package graph

import (
	"sort"
	"time"

	"github.com/gopxl/beep/v2"
)

// rampDuration is the linear ramp applied to every gain change.
const rampDuration = 5 * time.Millisecond

type gainChange struct {
	value float64
	at    int
}

// gainNode multiplies its input by a gain that follows changes scheduled
// on the sample clock. Each change ramps linearly over rampFrames.
// The caller serializes access.
type gainNode struct {
	s          beep.Streamer
	clock      int
	current    float64
	target     float64
	step       float64
	remaining  int
	rampFrames int
	pending    []gainChange
}

func newGainNode(s beep.Streamer, rampFrames int) *gainNode {
	return &gainNode{s: s, current: 1, target: 1, rampFrames: max(1, rampFrames)}
}

// schedule queues a change at sample index at. Changes in the past start
// at the next rendered frame.
func (n *gainNode) schedule(v float64, at int) {
	at = max(at, n.clock)
	i := sort.Search(len(n.pending), func(i int) bool { return n.pending[i].at > at })
	n.pending = append(n.pending, gainChange{})
	copy(n.pending[i+1:], n.pending[i:])
	n.pending[i] = gainChange{value: v, at: at}
}

func (n *gainNode) start(v float64) {
	n.target = v
	n.remaining = n.rampFrames
	n.step = (v - n.current) / float64(n.rampFrames)
}

// Stream always renders len(samples) frames so the node's clock follows
// the graph's.
func (n *gainNode) Stream(samples [][2]float64) (int, bool) {
	got, _ := n.s.Stream(samples)
	if got < len(samples) {
		clear(samples[got:])
	}
	for i := range samples {
		for len(n.pending) > 0 && n.pending[0].at <= n.clock+i {
			n.start(n.pending[0].value)
			n.pending = n.pending[1:]
		}
		if n.remaining > 0 {
			n.current += n.step
			n.remaining--
			if n.remaining == 0 {
				n.current = n.target
			}
		}
		samples[i][0] *= n.current
		samples[i][1] *= n.current
	}
	n.clock += len(samples)
	return len(samples), true
}

func (n *gainNode) Err() error { return n.s.Err() }
