package cadence

import (
	"context"
	"time"
)

// PulseSink receives pedal pulses. *Engine and the ride session both satisfy it.
type PulseSink interface {
	RegisterPulse(now time.Time)
}

// Metronome is a pulse producer that pedals at a fixed cadence from its own
// goroutine. It stands in for a sensor in headless rides and tests.
type Metronome struct {
	RPM   float64
	Clock func() time.Time // defaults to time.Now
}

// NewMetronome creates a metronome pedaling at rpm.
func NewMetronome(rpm float64) *Metronome {
	return &Metronome{RPM: rpm, Clock: time.Now}
}

// Interval returns the time between pulses, or 0 if the metronome is idle.
func (m *Metronome) Interval() time.Duration {
	if m.RPM <= 0 {
		return 0
	}
	return time.Duration(float64(time.Minute) / m.RPM)
}

// Run sends pulses to sink until ctx is cancelled. It blocks; start it with
// `go m.Run(ctx, sink)`.
func (m *Metronome) Run(ctx context.Context, sink PulseSink) {
	interval := m.Interval()
	if interval <= 0 {
		<-ctx.Done()
		return
	}

	clock := m.Clock
	if clock == nil {
		clock = time.Now
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sink.RegisterPulse(clock())
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sink.RegisterPulse(clock())
		}
	}
}
