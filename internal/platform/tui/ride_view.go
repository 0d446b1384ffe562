package tui

import (
	"fmt"
	"math"

	"github.com/vovakirdan/pedalrun/internal/core"
	"github.com/vovakirdan/pedalrun/internal/level"
	"github.com/vovakirdan/pedalrun/internal/session"
)

// Visual characters for rendering
const (
	GroundChar = '▓'
	RampChar   = '◢'
	HazardChar = '≈'
	GoalChar   = '⚑'
	RiderChar  = 'o'
)

// cellsPerTile is the width of one tile in terminal cells; a tile is one row high.
const cellsPerTile = 2

// hudRows is the number of rows above the playfield.
const hudRows = 1

// camera is the top-left tile of the visible part of the grid.
type camera struct {
	row, col int
}

// newCamera keeps the rider in the left third of the view horizontally and
// centered vertically. Levels shorter than the view sit on its bottom edge.
func newCamera(g *level.Grid, rider core.Rect, cols, rows int) camera {
	viewCols := (cols + cellsPerTile - 1) / cellsPerTile
	cx, cy := rider.Center()

	col := core.Clamp(g.Col(cx)-viewCols/3, 0, core.Max(0, g.Width()-viewCols))

	var row int
	if g.Height() <= rows {
		row = g.Height() - rows
	} else {
		row = core.Clamp(g.Row(cy)-rows/2, 0, g.Height()-rows)
	}
	return camera{row: row, col: col}
}

// RenderRide draws a session snapshot: the visible grid, the rider, the HUD
// line and the message or menu for the current phase.
func RenderRide(dst *core.Screen, snap session.Snapshot) {
	dst.Clear()

	g := snap.Grid
	fieldH := dst.Height() - hudRows
	if g == nil || fieldH < 1 {
		return
	}

	cam := newCamera(g, snap.Player, dst.Width(), fieldH)
	drawTiles(dst, g, cam, fieldH)
	drawRider(dst, g, cam, snap)
	drawHUD(dst, snap)
	drawPhase(dst, snap)
}

func drawTiles(dst *core.Screen, g *level.Grid, cam camera, fieldH int) {
	for sy := 0; sy < fieldH; sy++ {
		row := cam.row + sy
		for sx := 0; sx < dst.Width(); sx++ {
			glyph, color := tileGlyph(g.Tile(row, cam.col+sx/cellsPerTile))
			if glyph != ' ' {
				dst.SetColored(sx, hudRows+sy, glyph, color)
			}
		}
	}
}

// tileGlyph returns the character and color for a tile kind.
func tileGlyph(kind level.TileKind) (rune, core.Color) {
	switch kind {
	case level.Ground:
		return GroundChar, core.ColorGreen
	case level.Ramp:
		return RampChar, core.ColorYellow
	case level.Hazard:
		return HazardChar, core.ColorBlue
	case level.Goal:
		return GoalChar, core.ColorBrightYellow
	default:
		return ' ', core.ColorDefault
	}
}

func drawRider(dst *core.Screen, g *level.Grid, cam camera, snap session.Snapshot) {
	ts := g.TileSize()
	_, cy := snap.Player.Center()

	x := int(math.Floor(snap.Player.X/ts*cellsPerTile)) - cam.col*cellsPerTile
	w := core.Max(1, int(math.Round(snap.Player.W/ts*cellsPerTile)))
	y := hudRows + g.Row(cy) - cam.row
	if y < hudRows {
		return
	}

	color := core.ColorBrightCyan
	if snap.State == session.StateGameOver {
		color = core.ColorRed
	}
	for i := 0; i < w; i++ {
		dst.SetColored(x+i, y, RiderChar, color)
	}
}

func drawHUD(dst *core.Screen, snap session.Snapshot) {
	left := fmt.Sprintf(" LEVEL %d/%d  %s ", snap.Level, snap.MaxLevel, snap.Grid.Name())
	dst.DrawTextColored(0, 0, left, core.ColorWhite)
	if snap.Grid.IsFallback() {
		dst.DrawTextColored(len([]rune(left)), 0, "(fallback) ", core.ColorOrange)
	}

	clock := "--"
	if rem := snap.Remaining(); rem >= 0 {
		clock = fmt.Sprintf("%.1f", rem)
	}
	right := fmt.Sprintf(" TIME %s  RPM %3.0f  SPD %3.0f  DIST %.0f ",
		clock, snap.RPM, snap.SpeedX, snap.Distance/snap.Grid.TileSize())
	x := dst.Width() - len([]rune(right))
	dst.DrawTextColored(x, 0, right, core.ColorWhite)

	if rem := snap.Remaining(); rem >= 0 && rem < 10 && snap.Phase == session.PhasePlaying {
		dst.DrawTextColored(x+6, 0, clock, core.ColorRed)
	}
}

func drawPhase(dst *core.Screen, snap session.Snapshot) {
	switch snap.Phase {
	case session.PhasePlaying:
		if snap.RPM == 0 && snap.Distance == 0 {
			dst.DrawTextCentered(hudRows+1, "Press SPACE to pedal")
		}
	case session.PhaseLevelComplete:
		next := math.Ceil(snap.Delay - snap.PhaseTimer)
		drawCenteredMessage(dst, core.ColorBrightGreen, "LEVEL COMPLETE",
			fmt.Sprintf("%.1fs  avg %.0f rpm", snap.Elapsed, snap.AvgRPM),
			fmt.Sprintf("Next level in %.0fs", math.Max(next, 0)))
	case session.PhaseTimedOut:
		drawCenteredMessage(dst, core.ColorOrange, "TIME UP")
	case session.PhaseGameOver:
		body := append([]string{reasonText(snap.Reason), ""}, menuLines(snap.Menu)...)
		drawCenteredMessage(dst, core.ColorRed, "GAME OVER", body...)
	case session.PhaseVictory:
		body := append([]string{fmt.Sprintf("All %d levels complete", snap.MaxLevel), ""}, menuLines(snap.Menu)...)
		drawCenteredMessage(dst, core.ColorBrightYellow, "VICTORY!", body...)
	}
}

func reasonText(r session.Reason) string {
	switch r {
	case session.ReasonHazard:
		return "You rode into a lake"
	case session.ReasonTimeout:
		return "Time ran out"
	case session.ReasonFell:
		return "You fell out of the level"
	default:
		return ""
	}
}

func menuLines(selected session.MenuChoice) []string {
	lines := make([]string, 0, 2)
	for _, c := range []session.MenuChoice{session.ChoiceRestart, session.ChoiceQuit} {
		cursor := "  "
		if c == selected {
			cursor = "> "
		}
		lines = append(lines, fmt.Sprintf("%s%-8s", cursor, c))
	}
	return lines
}

// drawCenteredMessage draws a box with the title in color and the other
// lines below it, all centered.
func drawCenteredMessage(dst *core.Screen, color core.Color, title string, lines ...string) {
	boxW := len([]rune(title))
	for _, l := range lines {
		boxW = core.Max(boxW, len([]rune(l)))
	}
	boxW += 4
	boxH := len(lines) + 4
	boxX := (dst.Width() - boxW) / 2
	boxY := (dst.Height() - boxH) / 2

	dst.FillRect(boxX, boxY, boxW, boxH, ' ', core.ColorDefault)
	dst.DrawBox(boxX, boxY, boxW, boxH)

	dst.DrawTextColored(boxX+(boxW-len([]rune(title)))/2, boxY+1, title, color)
	for i, l := range lines {
		dst.DrawText(boxX+(boxW-len([]rune(l)))/2, boxY+3+i, l)
	}
}
