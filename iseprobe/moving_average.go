package main

import "github.com/cgxeiji/iseprobe/ise"

// movingAverage stores an estimated moving average of the last 4 readings.
type movingAverage struct {
	mean float64
	n    int
}

// add folds in a reading. Unavailable readings reset the average.
func (m *movingAverage) add(v float64) {
	if v == ise.Unavailable {
		m.reset()
		return
	}
	// if first reading, pre-fill values.
	if m.n == 0 {
		m.mean = v
	}
	m.n++
	m.mean += (v - m.mean) / 4
}

func (m *movingAverage) reset() {
	m.mean = 0
	m.n = 0
}
