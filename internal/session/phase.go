package session

import "fmt"

// State is the coarse game state shown to the player.
type State uint8

const (
	StatePlaying State = iota
	StateGameOver
	StateVictory
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateGameOver:
		return "game over"
	case StateVictory:
		return "victory"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

// Phase is the authoritative session state. LevelComplete and TimedOut are
// the two countdown phases inside Playing; only one of them runs at a time.
type Phase uint8

const (
	PhasePlaying       Phase = iota // Riding, timers and physics running
	PhaseLevelComplete              // Goal reached, waiting to load the next level
	PhaseTimedOut                   // Time limit hit, waiting to show game over
	PhaseGameOver                   // Frozen, menu active
	PhaseVictory                    // Frozen, menu active
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "playing"
	case PhaseLevelComplete:
		return "level complete"
	case PhaseTimedOut:
		return "timed out"
	case PhaseGameOver:
		return "game over"
	case PhaseVictory:
		return "victory"
	default:
		return fmt.Sprintf("Phase(%d)", p)
	}
}

// State collapses the phase to the coarse game state.
func (p Phase) State() State {
	switch p {
	case PhaseGameOver:
		return StateGameOver
	case PhaseVictory:
		return StateVictory
	default:
		return StatePlaying
	}
}

// Frozen reports whether physics and cadence sampling are suspended.
func (p Phase) Frozen() bool {
	return p == PhaseGameOver || p == PhaseVictory
}

// CanEnter reports whether next is a legal successor of p.
// Every phase may return to Playing: that is a level (re)start.
func (p Phase) CanEnter(next Phase) bool {
	if next == PhasePlaying {
		return true
	}
	switch p {
	case PhasePlaying:
		return next == PhaseLevelComplete || next == PhaseTimedOut ||
			next == PhaseGameOver || next == PhaseVictory
	case PhaseTimedOut:
		return next == PhaseGameOver
	default:
		return false
	}
}

// Reason explains a game over.
type Reason string

const (
	ReasonNone    Reason = ""
	ReasonHazard  Reason = "hazard"
	ReasonTimeout Reason = "timeout"
	ReasonFell    Reason = "fell"
)

// MenuChoice is the highlighted entry of the game over / victory menu.
type MenuChoice uint8

const (
	ChoiceRestart MenuChoice = iota
	ChoiceQuit
)

// String returns the menu label.
func (c MenuChoice) String() string {
	if c == ChoiceQuit {
		return "Quit"
	}
	return "Restart"
}
