// Package physics moves the rider through a level grid: it shapes horizontal
// speed from the cadence target, integrates gravity and resolves contact with
// ground, ramps, walls, hazards and the goal.
//
// The package is pure. It never touches the clock, the terminal or the
// cadence engine; the session feeds it a target speed and a time step.
package physics

import (
	"github.com/vovakirdan/pedalrun/internal/core"
	"github.com/vovakirdan/pedalrun/internal/level"
)

// Default rider dimensions in world units.
const (
	DefaultWidth  = 48.0
	DefaultHeight = 32.0
)

// Body is the rider's kinematic state. (X, Y) is the bottom-left corner of
// its bounding box, so Y is the feet height.
type Body struct {
	X, Y     float64
	W, H     float64
	VY       float64 // Vertical velocity, world units/sec (positive = up)
	SpeedX   float64 // Horizontal speed, world units/sec (never negative)
	Grounded bool    // Resting on a Ground surface this tick
}

// NewBody creates a rider of the given size resting at (x, y).
func NewBody(x, y, w, h float64) Body {
	return Body{X: x, Y: y, W: w, H: h}
}

// Rect returns the rider's bounding box.
func (b *Body) Rect() core.Rect {
	return core.NewRect(b.X, b.Y, b.W, b.H)
}

// Place moves the rider to (x, y) and clears all motion.
func (b *Body) Place(x, y float64) {
	b.X, b.Y = x, y
	b.VY = 0
	b.SpeedX = 0
	b.Grounded = false
}

// PlaceAtSpawn puts the rider on the grid's spawn tile, standing still.
func (b *Body) PlaceAtSpawn(g *level.Grid) {
	x, y := g.SpawnPosition()
	b.Place(x, y)
}
