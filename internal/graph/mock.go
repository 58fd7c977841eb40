package graph

import (
	"context"
	"sync"
	"time"
)

// GainCall records one SetGain or SetGainAt call.
type GainCall struct {
	Value float64
	At    time.Duration
}

// Mock is a test double for Interface. Its clock only moves through SetNow.
type Mock struct {
	mu          sync.Mutex
	suspended   bool
	resumeErr   error
	resumeCalls int
	now         time.Duration
	gain        float64
	gainCalls   []GainCall
	gains       Gains
	data        []uint8
	closed      bool
}

// NewMock returns a suspended mock at unity gain.
func NewMock() *Mock {
	return &Mock{suspended: true, gain: 1, data: make([]uint8, 128)}
}

func (m *Mock) Resume(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resumeCalls++
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.resumeErr != nil {
		return m.resumeErr
	}
	m.suspended = false
	return nil
}

func (m *Mock) Suspended() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.suspended
}

func (m *Mock) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Mock) SetGain(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gain = v
	m.gainCalls = append(m.gainCalls, GainCall{Value: v, At: m.now})
}

func (m *Mock) SetGainAt(v float64, at time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gain = v
	m.gainCalls = append(m.gainCalls, GainCall{Value: v, At: at})
}

func (m *Mock) SetBandGain(b Band, dB float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gains.Set(b, ClampBandGain(dB))
}

func (m *Mock) FrequencyData() []uint8 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]uint8(nil), m.data...)
}

func (m *Mock) BinCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Test helpers

func (m *Mock) SetResumeError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resumeErr = err
}

func (m *Mock) SetNow(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = d
}

func (m *Mock) SetFrequencyData(data []uint8) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]uint8(nil), data...)
}

func (m *Mock) Gain() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gain
}

func (m *Mock) GainCalls() []GainCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]GainCall(nil), m.gainCalls...)
}

func (m *Mock) BandGains() Gains {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gains
}

func (m *Mock) ResumeCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resumeCalls
}

func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
