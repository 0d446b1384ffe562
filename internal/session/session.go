// Package session runs a ride: it owns the phase state machine, the level
// index and timers, and feeds the cadence target into the physics engine
// once per tick.
//
// A Session is driven from a single goroutine (the tick loop). The only
// exception is RegisterPulse, which forwards to the mutex-guarded cadence
// engine and may be called from any goroutine.
package session

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pedalrun/internal/cadence"
	"github.com/vovakirdan/pedalrun/internal/config"
	"github.com/vovakirdan/pedalrun/internal/core"
	"github.com/vovakirdan/pedalrun/internal/level"
	"github.com/vovakirdan/pedalrun/internal/physics"
	"github.com/vovakirdan/pedalrun/internal/storage"
)

// Result values recorded for finished rides, as stored in the ride log.
const (
	ResultComplete = storage.ResultComplete
	ResultVictory  = storage.ResultVictory
	ResultGameOver = storage.ResultGameOver
)

// Outcome summarizes one finished attempt at a level.
type Outcome struct {
	Level    int
	Result   string // ResultComplete, ResultVictory or ResultGameOver
	Reason   Reason // set for ResultGameOver
	Elapsed  float64
	AvgRPM   float64
	Distance float64
}

// TickResult is returned by every Tick.
type TickResult struct {
	Phase   Phase
	Outcome *Outcome // non-nil on the tick an attempt ends
}

// Session is a ride through the level sequence.
type Session struct {
	cfg     config.RideConfig
	source  *level.Source
	logger  *log.Logger
	cadence *cadence.Engine
	physics *physics.Engine

	grid       *level.Grid
	body       physics.Body
	phase      Phase
	levelIndex int
	maxLevel   int

	elapsed    float64 // seconds ridden on this level
	phaseTimer float64 // countdown accumulator for LevelComplete / TimedOut
	reason     Reason
	menu       MenuChoice
	quit       bool

	rpm      float64 // last sampled cadence
	target   float64 // last sampled target speed
	distance float64
	rpmTime  float64 // seconds with an established cadence
	rpmSum   float64 // rpm integrated over rpmTime
}

// New creates a session on level 1. cfg should already be validated.
// A nil logger discards log output.
func New(cfg config.RideConfig, src *level.Source, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Session{
		cfg:    cfg,
		source: src,
		logger: logger,
		cadence: cadence.NewEngine(cadence.Settings{
			Alpha:       cfg.Cadence.SmoothingAlpha,
			Timeout:     time.Duration(cfg.Cadence.TimeoutMs) * time.Millisecond,
			MinInterval: time.Duration(cfg.Cadence.MinIntervalMs) * time.Millisecond,
		}),
		physics: physics.NewEngine(physics.Params{
			Gravity:        cfg.Physics.Gravity,
			Deceleration:   cfg.Physics.Deceleration,
			LaunchFactor:   cfg.Physics.LaunchFactor,
			StepHeight:     cfg.Physics.StepHeight,
			FallMargin:     cfg.Physics.FallMargin,
			ScanWindowRows: cfg.Physics.ScanWindowRows,
		}),
		body: physics.NewBody(0, 0, cfg.Player.Width, cfg.Player.Height),
	}

	s.maxLevel = cfg.Session.MaxLevel
	if s.maxLevel <= 0 {
		s.maxLevel = src.Count()
	}
	if s.maxLevel < 1 {
		s.maxLevel = 1
	}

	s.startLevel(1)
	return s
}

// StartAt restarts the ride on level n, clamped to [1, MaxLevel].
func (s *Session) StartAt(n int) {
	s.startLevel(core.Clamp(n, 1, s.maxLevel))
}

// RegisterPulse records a pedal pulse. Safe to call from any goroutine.
// Pulses during the game over and victory menus are discarded by the
// cadence reset on restart.
func (s *Session) RegisterPulse(now time.Time) {
	s.cadence.RegisterPulse(now)
}

// Tick advances the session by dt seconds. dt is clamped to the configured
// maximum step; a negative dt panics.
func (s *Session) Tick(dt float64, now time.Time) TickResult {
	if dt < 0 {
		panic(fmt.Sprintf("session: negative dt %v", dt))
	}
	if dt > s.cfg.Physics.MaxDt {
		dt = s.cfg.Physics.MaxDt
	}

	var outcome *Outcome

	switch s.phase {
	case PhasePlaying:
		s.elapsed += dt
		if limit := s.grid.TimeLimit(); limit > 0 && s.elapsed >= limit {
			s.elapsed = limit
			s.enter(PhaseTimedOut)
			s.logger.Info("time up", "level", s.levelIndex, "limit", limit)
			break
		}

		res := s.step(dt, now)
		switch {
		case res.Hazard:
			outcome = s.gameOver(ReasonHazard)
		case res.Fell:
			outcome = s.gameOver(ReasonFell)
		case res.Goal && s.levelIndex >= s.maxLevel:
			s.enter(PhaseVictory)
			outcome = s.outcome(ResultVictory)
			s.logger.Info("victory", "level", s.levelIndex, "elapsed", s.elapsed)
		case res.Goal:
			s.enter(PhaseLevelComplete)
			outcome = s.outcome(ResultComplete)
			s.logger.Info("level complete", "level", s.levelIndex, "elapsed", s.elapsed)
		}

	case PhaseLevelComplete:
		// The rider rolls on while the message shows; contacts no longer count
		s.step(dt, now)
		s.phaseTimer += dt
		if s.phaseTimer >= s.cfg.Session.LevelCompleteDelay {
			s.startLevel(s.levelIndex + 1)
		}

	case PhaseTimedOut:
		s.phaseTimer += dt
		if s.phaseTimer >= s.cfg.Session.LevelCompleteDelay {
			outcome = s.gameOver(ReasonTimeout)
		}

	case PhaseGameOver, PhaseVictory:
		// Frozen until a menu choice
	}

	return TickResult{Phase: s.phase, Outcome: outcome}
}

// MenuInput handles menu navigation in the game over and victory phases.
// Up and Down move the selection, Confirm applies it. Other actions and
// input in other phases are ignored.
func (s *Session) MenuInput(a core.Action) {
	if !s.phase.Frozen() {
		return
	}

	switch a {
	case core.ActionUp:
		s.menu = ChoiceRestart
	case core.ActionDown:
		s.menu = ChoiceQuit
	case core.ActionConfirm:
		if s.menu == ChoiceQuit {
			s.quit = true
			s.logger.Debug("quit from menu", "phase", s.phase)
			return
		}
		if s.phase == PhaseVictory {
			s.startLevel(1)
		} else {
			s.startLevel(s.levelIndex)
		}
	}
}

// Reload re-reads the current level from the source and restarts it.
// Used when a level file changes on disk.
func (s *Session) Reload() {
	s.logger.Info("reloading level", "level", s.levelIndex)
	s.startLevel(s.levelIndex)
}

// Quit reports whether the player chose Quit from the menu.
func (s *Session) Quit() bool {
	return s.quit
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	return s.phase
}

// State returns the coarse game state.
func (s *Session) State() State {
	return s.phase.State()
}

// Level returns the 1-based index of the current level.
func (s *Session) Level() int {
	return s.levelIndex
}

// MaxLevel returns the index of the last level.
func (s *Session) MaxLevel() int {
	return s.maxLevel
}

// step samples the cadence and advances the physics by dt.
func (s *Session) step(dt float64, now time.Time) physics.Result {
	s.target, s.rpm = s.cadence.Sample(now, s.cfg.Cadence.MaxSpeed, s.cfg.Cadence.MaxRPM)

	prevX := s.body.X
	res := s.physics.Step(&s.body, s.grid, s.target, dt)

	if moved := s.body.X - prevX; moved > 0 {
		s.distance += moved
	}
	if s.rpm > 0 {
		s.rpmSum += s.rpm * dt
		s.rpmTime += dt
	}
	return res
}

// startLevel loads level n and puts the rider on its spawn.
func (s *Session) startLevel(n int) {
	s.levelIndex = n
	s.grid = s.source.Load(n)
	s.body.PlaceAtSpawn(s.grid)
	s.cadence.Reset()

	s.elapsed = 0
	s.phaseTimer = 0
	s.reason = ReasonNone
	s.menu = ChoiceRestart
	s.rpm, s.target = 0, 0
	s.distance = 0
	s.rpmTime, s.rpmSum = 0, 0

	s.enter(PhasePlaying)
	s.logger.Info("level start", "level", n, "of", s.maxLevel, "name", s.grid.Name(), "time_limit", s.grid.TimeLimit())
}

// gameOver freezes the session with the given reason.
func (s *Session) gameOver(reason Reason) *Outcome {
	s.reason = reason
	s.enter(PhaseGameOver)
	s.logger.Info("game over", "level", s.levelIndex, "reason", reason, "elapsed", s.elapsed)
	return s.outcome(ResultGameOver)
}

// enter switches phase, panicking on an illegal transition.
func (s *Session) enter(next Phase) {
	if !s.phase.CanEnter(next) {
		panic(fmt.Sprintf("session: illegal transition %v -> %v", s.phase, next))
	}
	if s.phase != next {
		s.logger.Debug("phase", "from", s.phase, "to", next)
	}
	s.phase = next
	s.phaseTimer = 0
}

func (s *Session) outcome(result string) *Outcome {
	return &Outcome{
		Level:    s.levelIndex,
		Result:   result,
		Reason:   s.reason,
		Elapsed:  s.elapsed,
		AvgRPM:   s.avgRPM(),
		Distance: s.distance,
	}
}

func (s *Session) avgRPM() float64 {
	if s.rpmTime <= 0 {
		return 0
	}
	return s.rpmSum / s.rpmTime
}
