package player

import "math"

// SetVolume sets the native volume level (0.0 to 1.0). It is only applied
// while the element drives the speaker itself; a bound element stays at
// unity so the graph's gain is not applied twice.
func (e *Element) SetVolume(level float64) {
	if math.IsNaN(level) {
		return
	}
	level = max(0, min(level, 1))

	e.mu.Lock()
	defer e.mu.Unlock()
	e.volumeLevel = level
	if e.volume != nil {
		e.applyVolumeLocked()
	}
}

// Volume returns the stored native volume level.
func (e *Element) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volumeLevel
}

func (e *Element) applyVolumeLocked() {
	if e.bound {
		e.volume.Volume = 0
		e.volume.Silent = false
		return
	}
	e.volume.Volume = levelToVolume(e.volumeLevel)
	e.volume.Silent = e.volumeLevel <= 0
}

// levelToVolume converts a 0.0-1.0 level to beep's Volume value.
// beep uses a logarithmic scale with base 2: 0 means no change, -1 half,
// -2 quarter. 0 maps to -10, which is silent in practice.
func levelToVolume(level float64) float64 {
	if level <= 0 {
		return -10
	}
	if level >= 1 {
		return 0
	}
	return math.Log2(level)
}
