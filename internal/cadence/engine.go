// Package cadence turns irregular pedal pulses into a smoothed target speed.
//
// Pulses may arrive from a producer outside the simulation loop (a keyboard
// handler, a sensor listener goroutine), while the tick loop samples the
// target speed once per frame. All state lives behind a single mutex so a
// pulse is either fully visible to a sample or not at all.
package cadence

import (
	"sync"
	"time"
)

// Defaults for the smoothing filter.
const (
	DefaultAlpha   = 0.2
	DefaultTimeout = 1500 * time.Millisecond
)

// Settings tune the cadence filter.
type Settings struct {
	Alpha       float64       // Exponential smoothing factor in (0, 1]
	Timeout     time.Duration // Silence after which the rider counts as stopped
	MinInterval time.Duration // Pulses closer than this are dropped as bounce; 0 disables
}

// DefaultSettings returns the stock filter settings.
func DefaultSettings() Settings {
	return Settings{
		Alpha:   DefaultAlpha,
		Timeout: DefaultTimeout,
	}
}

// Engine is the synchronized cadence state cell.
type Engine struct {
	mu       sync.Mutex
	settings Settings

	lastPulse time.Time
	hasPulse  bool
	smoothed  time.Duration // 0 = no established cadence
	pulses    int
}

// NewEngine creates a cadence engine with the given settings.
// Out-of-range values are replaced with defaults.
func NewEngine(s Settings) *Engine {
	if s.Alpha <= 0 || s.Alpha > 1 {
		s.Alpha = DefaultAlpha
	}
	if s.Timeout <= 0 {
		s.Timeout = DefaultTimeout
	}
	if s.MinInterval < 0 {
		s.MinInterval = 0
	}
	return &Engine{settings: s}
}

// RegisterPulse records a pedal pulse at now. Safe for concurrent use.
func (e *Engine) RegisterPulse(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.hasPulse {
		// First pulse: no interval yet
		e.lastPulse = now
		e.hasPulse = true
		e.pulses++
		return
	}

	interval := now.Sub(e.lastPulse)
	if interval <= 0 || interval < e.settings.MinInterval {
		// Out-of-order or bouncing pulse
		return
	}

	if e.smoothed <= 0 {
		e.smoothed = interval
	} else {
		a := e.settings.Alpha
		e.smoothed = time.Duration(a*float64(interval) + (1-a)*float64(e.smoothed))
	}
	e.lastPulse = now
	e.pulses++
}

// SampleTargetSpeed returns the speed the rider's cadence asks for:
// clamp(rpm/capRPM, 0, 1) * capSpeed. A rider silent for longer than the
// timeout has stopped; the smoothed interval is cleared until the next pulse
// and the target is 0. Deceleration toward 0 is the caller's job.
func (e *Engine) SampleTargetSpeed(now time.Time, capSpeed, capRPM float64) float64 {
	speed, _ := e.Sample(now, capSpeed, capRPM)
	return speed
}

// Sample returns the target speed together with the cadence it was derived
// from, read under a single lock.
func (e *Engine) Sample(now time.Time, capSpeed, capRPM float64) (speed, rpm float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	rpm = e.rpmLocked(now)
	if rpm <= 0 || capRPM <= 0 {
		return 0, rpm
	}

	t := rpm / capRPM
	if t > 1 {
		t = 1
	}
	return t * capSpeed, rpm
}

// RPM returns the current cadence in revolutions per minute, applying the
// stop timeout first. 0 means no established cadence.
func (e *Engine) RPM(now time.Time) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rpmLocked(now)
}

func (e *Engine) rpmLocked(now time.Time) float64 {
	if e.hasPulse && now.Sub(e.lastPulse) > e.settings.Timeout {
		e.smoothed = 0
	}
	if e.smoothed <= 0 {
		return 0
	}
	return float64(time.Minute) / float64(e.smoothed)
}

// SmoothedInterval returns the current smoothed inter-pulse interval.
func (e *Engine) SmoothedInterval() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.smoothed
}

// Pulses returns how many pulses were accepted since the last reset.
func (e *Engine) Pulses() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pulses
}

// Reset returns the engine to its initial state (no pulses, no cadence).
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.lastPulse = time.Time{}
	e.hasPulse = false
	e.smoothed = 0
	e.pulses = 0
}
