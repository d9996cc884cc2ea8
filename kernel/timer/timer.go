// Package timer converts the free-running time counter into wall-clock
// units.
package timer

import (
	"rvos/kernel/config"
	"rvos/kernel/cpu"
)

const msecPerSec = 1000

var (
	// readTimeFn is mocked by tests.
	readTimeFn = cpu.ReadTime
)

// GetTime returns the raw value of the time counter.
func GetTime() uint64 {
	return readTimeFn()
}

// GetTimeMs returns the time counter converted to milliseconds.
func GetTimeMs() uint64 {
	return readTimeFn() / (config.ClockFreq / msecPerSec)
}

// Stopwatch measures the time spent between Start and Elapsed in
// milliseconds.
type Stopwatch struct {
	startMs uint64
}

// Start resets the stopwatch.
func (s *Stopwatch) Start() {
	s.startMs = GetTimeMs()
}

// ElapsedMs returns the milliseconds since the last call to Start.
func (s *Stopwatch) ElapsedMs() uint64 {
	return GetTimeMs() - s.startMs
}
