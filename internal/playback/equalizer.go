package playback

import (
	"math"

	"github.com/llehouerou/wavestream/internal/graph"
)

// UpdateEQ sets one band's gain, clamped to [-12, 12] dB. Without a graph
// the value is stored and applied if one ever becomes available. NaN is
// ignored.
func (e *Engine) UpdateEQ(b graph.Band, dB float64) {
	if math.IsNaN(dB) {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.transport.EQ.Set(b, graph.ClampBandGain(dB))
	if e.graph != nil {
		e.graph.SetBandGain(b, e.transport.EQ.Get(b))
	}
	e.publishTransport()
}

// ResetEQ flattens all bands.
func (e *Engine) ResetEQ() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.transport.EQ = graph.Gains{}
	e.applyEQLocked()
	e.publishTransport()
}

func (e *Engine) applyEQLocked() {
	if e.graph == nil {
		return
	}
	for _, b := range graph.Bands {
		e.graph.SetBandGain(b, e.transport.EQ.Get(b))
	}
}

// FrequencyData returns the analyser's current byte spectrum, nil without
// a graph. Callers poll it; the engine runs no animation loop.
func (e *Engine) FrequencyData() []uint8 {
	if e.graph == nil {
		return nil
	}
	return e.graph.FrequencyData()
}

// BinCount returns the length of FrequencyData, 0 without a graph.
func (e *Engine) BinCount() int {
	if e.graph == nil {
		return 0
	}
	return e.graph.BinCount()
}
