package session

import (
	"github.com/vovakirdan/pedalrun/internal/core"
	"github.com/vovakirdan/pedalrun/internal/level"
)

// Snapshot is the read-only view of a session handed to the renderer.
// Grid is shared, not copied; grids are never mutated after load.
type Snapshot struct {
	Phase    Phase
	State    State
	Level    int
	MaxLevel int
	Grid     *level.Grid

	Player    core.Rect
	VelocityY float64
	SpeedX    float64
	Grounded  bool

	Elapsed    float64
	TimeLimit  float64 // 0 = unlimited
	PhaseTimer float64 // Seconds into the current countdown
	Delay      float64 // Countdown length

	RPM         float64
	TargetSpeed float64
	AvgRPM      float64
	Distance    float64

	Menu   MenuChoice
	Reason Reason
	Quit   bool
}

// Remaining returns the seconds left on the level clock, or -1 if the level
// has no time limit.
func (s Snapshot) Remaining() float64 {
	if s.TimeLimit <= 0 {
		return -1
	}
	return core.ClampF(s.TimeLimit-s.Elapsed, 0, s.TimeLimit)
}

// Snapshot captures the current session state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Phase:    s.phase,
		State:    s.phase.State(),
		Level:    s.levelIndex,
		MaxLevel: s.maxLevel,
		Grid:     s.grid,

		Player:    s.body.Rect(),
		VelocityY: s.body.VY,
		SpeedX:    s.body.SpeedX,
		Grounded:  s.body.Grounded,

		Elapsed:    s.elapsed,
		TimeLimit:  s.grid.TimeLimit(),
		PhaseTimer: s.phaseTimer,
		Delay:      s.cfg.Session.LevelCompleteDelay,

		RPM:         s.rpm,
		TargetSpeed: s.target,
		AvgRPM:      s.avgRPM(),
		Distance:    s.distance,

		Menu:   s.menu,
		Reason: s.reason,
		Quit:   s.quit,
	}
}
