package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/pedalrun/internal/config"
	"github.com/vovakirdan/pedalrun/internal/core"
	"github.com/vovakirdan/pedalrun/internal/level"
	"github.com/vovakirdan/pedalrun/internal/session"
)

// Spawn, empty, goal over three ground tiles.
const viewLevel = "5 0 4\n1 1 1"

// newRideSession writes text as the only level and starts a session on it.
func newRideSession(t *testing.T, text string) *session.Session {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, level.FileName(1)), []byte(text), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := config.DefaultRideConfig()
	cfg.Session.MaxLevel = 1
	return session.New(cfg, level.NewSource(dir, cfg.Physics.TileSize, nil), nil)
}

func TestRenderRidePlaying(t *testing.T) {
	s := newRideSession(t, viewLevel)
	scr := core.NewScreen(60, 12)

	RenderRide(scr, s.Snapshot())

	hud := scr.Row(0)
	if !strings.Contains(hud, "LEVEL 1/1") || !strings.Contains(hud, "RPM") {
		t.Errorf("HUD missing level or cadence: %q", hud)
	}
	if !strings.Contains(hud, "TIME --") {
		t.Errorf("Untimed level should show no clock: %q", hud)
	}

	// A two-row level sits on the bottom of the view
	if !strings.HasPrefix(scr.Row(11), "▓▓▓▓▓▓") {
		t.Errorf("Expected three ground tiles on the last row, got %q", scr.Row(11))
	}
	if !strings.HasPrefix(scr.Row(10), "oo") {
		t.Errorf("Expected rider at the left of the spawn row, got %q", scr.Row(10))
	}
	if !strings.Contains(scr.Row(10), string(GoalChar)) {
		t.Errorf("Expected goal flag on the spawn row, got %q", scr.Row(10))
	}
	if !strings.Contains(scr.String(), "Press SPACE to pedal") {
		t.Error("Expected pedal hint before the first pulse")
	}
}

func TestRenderRidePhaseMessages(t *testing.T) {
	s := newRideSession(t, viewLevel)

	tests := []struct {
		name     string
		phase    session.Phase
		reason   session.Reason
		menu     session.MenuChoice
		expected []string
	}{
		{"level complete", session.PhaseLevelComplete, session.ReasonNone, session.ChoiceRestart, []string{"LEVEL COMPLETE", "Next level in"}},
		{"timed out", session.PhaseTimedOut, session.ReasonNone, session.ChoiceRestart, []string{"TIME UP"}},
		{"game over hazard", session.PhaseGameOver, session.ReasonHazard, session.ChoiceRestart, []string{"GAME OVER", "lake", "> Restart"}},
		{"game over quit selected", session.PhaseGameOver, session.ReasonFell, session.ChoiceQuit, []string{"fell out", "> Quit"}},
		{"victory", session.PhaseVictory, session.ReasonNone, session.ChoiceRestart, []string{"VICTORY!", "All 1 levels complete"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			snap := s.Snapshot()
			snap.Phase = tc.phase
			snap.State = tc.phase.State()
			snap.Reason = tc.reason
			snap.Menu = tc.menu

			scr := core.NewScreen(60, 20)
			RenderRide(scr, snap)
			out := scr.String()

			for _, want := range tc.expected {
				if !strings.Contains(out, want) {
					t.Errorf("Expected %q on screen:\n%s", want, out)
				}
			}
		})
	}
}

func TestRenderRideTinyScreen(t *testing.T) {
	s := newRideSession(t, viewLevel)
	scr := core.NewScreen(5, 1)

	// Only the HUD row fits; must not panic
	RenderRide(scr, s.Snapshot())
}

func TestCameraFollowsRider(t *testing.T) {
	g := level.Parse("5 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0\n1 1 1 1 1 1 1 1 1 1 1 1 1 1 1 1 1 1 1 1")
	ts := g.TileSize()

	tests := []struct {
		name     string
		riderCol int
		expected int
	}{
		{"start of level", 0, 0},
		{"middle", 10, 10 - 5/3},
		{"end of level clamps", 19, 20 - 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rider := core.NewRect(float64(tc.riderCol)*ts, ts, 48, 32)
			cam := newCamera(g, rider, 10, 8) // 5 tiles wide
			if cam.col != tc.expected {
				t.Errorf("camera col = %d, expected %d", cam.col, tc.expected)
			}
			if cam.row != g.Height()-8 {
				t.Errorf("short level should sit on the bottom, camera row = %d", cam.row)
			}
		})
	}
}

func TestRenderScreenKeepsText(t *testing.T) {
	scr := core.NewScreen(6, 2)
	scr.DrawTextColored(0, 0, "ab", core.ColorRed)
	scr.DrawText(2, 0, "cd")
	scr.SetColored(0, 1, GroundChar, core.ColorGreen)

	out := RenderScreen(scr)
	if !strings.Contains(out, "ab") || !strings.Contains(out, "cd") {
		t.Errorf("Rendered output lost text: %q", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("Expected 2 rows, got %q", out)
	}
}

func TestRenderScreenDefaultColorIsPlain(t *testing.T) {
	scr := core.NewScreen(8, 3)
	scr.DrawText(1, 0, "TIME")
	scr.DrawTextCentered(2, "go")

	if out := RenderScreen(scr); out != scr.String() {
		t.Errorf("Expected default-colored screen to render as plain text:\n%q\n%q", out, scr.String())
	}
}
