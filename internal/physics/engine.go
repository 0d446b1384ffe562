package physics

import (
	"math"

	"github.com/vovakirdan/pedalrun/internal/core"
	"github.com/vovakirdan/pedalrun/internal/level"
)

// Defaults for the physics parameters.
const (
	DefaultGravity      = -980.0
	DefaultDeceleration = 200.0
	DefaultLaunchFactor = 0.5
	DefaultStepHeight   = 0.5 // tiles
	DefaultFallMargin   = 2.0 // tiles
)

// epsilon absorbs float noise when comparing surface heights.
const epsilon = 1e-6

// Params tune the physics engine.
type Params struct {
	Gravity        float64 // world units/sec², negative pulls down
	Deceleration   float64 // world units/sec², applied when the target drops
	LaunchFactor   float64 // ramp vertical velocity as a fraction of speed
	StepHeight     float64 // tiles; Ground lips lower than this are not walls
	FallMargin     float64 // tiles below the level floor before the rider is lost
	ScanWindowRows int     // rows scanned above and below the rider; 0 = whole column
}

// DefaultParams returns the stock physics parameters.
func DefaultParams() Params {
	return Params{
		Gravity:      DefaultGravity,
		Deceleration: DefaultDeceleration,
		LaunchFactor: DefaultLaunchFactor,
		StepHeight:   DefaultStepHeight,
		FallMargin:   DefaultFallMargin,
	}
}

// Surface identifies what the rider is standing on after a step.
type Surface uint8

const (
	SurfaceNone Surface = iota
	SurfaceGround
	SurfaceRamp
)

// String returns the surface name.
func (s Surface) String() string {
	switch s {
	case SurfaceGround:
		return "ground"
	case SurfaceRamp:
		return "ramp"
	default:
		return "none"
	}
}

// Result reports what happened during a step.
type Result struct {
	Surface    Surface // Landing surface, SurfaceNone while airborne
	Hazard     bool    // Bounding box overlaps a Hazard tile
	Goal       bool    // Bounding box overlaps a Goal tile
	Fell       bool    // Rider dropped below the fall margin
	HitWall    bool    // Horizontal motion was blocked
	HitCeiling bool    // Upward motion was blocked
}

// Engine advances a Body against a level grid.
type Engine struct {
	params Params
}

// NewEngine creates a physics engine.
func NewEngine(p Params) *Engine {
	return &Engine{params: p}
}

// Params returns the engine parameters.
func (e *Engine) Params() Params {
	return e.params
}

// Step advances the body by dt seconds toward targetSpeed and resolves
// collisions against g. It panics on a negative dt.
func (e *Engine) Step(b *Body, g *level.Grid, targetSpeed, dt float64) Result {
	if dt < 0 {
		panic("physics: negative dt")
	}
	var res Result

	prevX, prevFeet, prevHead := b.X, b.Y, b.Y+b.H

	// Speed shaping: snap up, ease down
	if targetSpeed < 0 {
		targetSpeed = 0
	}
	if targetSpeed < b.SpeedX {
		b.SpeedX = math.Max(targetSpeed, b.SpeedX-e.params.Deceleration*dt)
	} else {
		b.SpeedX = targetSpeed
	}

	// Integration
	b.VY += e.params.Gravity * dt
	b.Y += b.VY * dt
	b.X += b.SpeedX * dt

	if e.resolveWalls(b, g, prevX) {
		res.HitWall = true
	}
	if b.VY > 0 && e.resolveCeiling(b, g, prevHead) {
		res.HitCeiling = true
	}

	// A surface is reachable if it is no higher than the feet could have
	// climbed along a slope this tick.
	reach := prevFeet + b.SpeedX*dt + epsilon
	height, surface := e.findSurface(b, g, reach)

	if surface != SurfaceNone && b.Y <= height {
		b.Y = height
		switch surface {
		case SurfaceRamp:
			b.VY = b.SpeedX * e.params.LaunchFactor
			b.Grounded = false
		case SurfaceGround:
			b.VY = 0
			b.Grounded = true
		}
		res.Surface = surface
	} else {
		b.Grounded = false
	}

	res.Hazard, res.Goal = e.overlaps(b, g)
	res.Fell = b.Y < -e.params.FallMargin*g.TileSize()

	return res
}

// solid reports whether a tile kind blocks movement from the side or above.
// Ramps are walkable but never walls.
func solid(kind level.TileKind) bool {
	switch kind {
	case level.Ground:
		return true
	case level.Ramp, level.Hazard, level.Goal, level.SpawnMarker, level.Empty:
		return false
	default:
		return false
	}
}

// rowRange returns the rows to scan for the body, top to bottom.
func (e *Engine) rowRange(b *Body, g *level.Grid) (int, int) {
	if e.params.ScanWindowRows <= 0 {
		return 0, g.Height() - 1
	}
	top := g.Row(b.Y + b.H)
	bottom := g.Row(b.Y)
	return core.Max(0, top-e.params.ScanWindowRows), core.Min(g.Height()-1, bottom+e.params.ScanWindowRows)
}

// colRange returns the columns spanned by the body's horizontal extent.
func colRange(b *Body, g *level.Grid) (int, int) {
	first := core.Max(0, g.Col(b.X))
	last := core.Min(g.Width()-1, g.Col(b.X+b.W-epsilon))
	return first, last
}

// resolveWalls pushes the body back out of Ground tiles it ran into from the
// left and clamps it to the level bounds. Tiles whose top is within the step
// height of the feet are left to surface resolution.
func (e *Engine) resolveWalls(b *Body, g *level.Grid, prevX float64) bool {
	hit := false

	if b.X < 0 {
		b.X = 0
	}
	if maxX := g.WorldWidth() - b.W; b.X > maxX {
		b.X = math.Max(0, maxX)
		b.SpeedX = 0
		hit = true
	}

	step := e.params.StepHeight * g.TileSize()
	prevRight := prevX + b.W
	firstCol, lastCol := colRange(b, g)
	firstRow, lastRow := e.rowRange(b, g)

	for col := firstCol; col <= lastCol; col++ {
		for row := firstRow; row <= lastRow; row++ {
			if !solid(g.Tile(row, col)) {
				continue
			}
			tile := g.TileRect(row, col)
			if !b.Rect().Intersects(tile) {
				continue
			}
			if tile.Top()-b.Y <= step {
				continue
			}
			if prevRight > tile.X+epsilon {
				// Already beside or inside the tile before this tick
				continue
			}
			b.X = tile.X - b.W
			b.SpeedX = 0
			hit = true
		}
	}
	return hit
}

// resolveCeiling stops a rising body under a Ground tile it hit from below.
func (e *Engine) resolveCeiling(b *Body, g *level.Grid, prevHead float64) bool {
	firstCol, lastCol := colRange(b, g)
	firstRow, lastRow := e.rowRange(b, g)

	for col := firstCol; col <= lastCol; col++ {
		for row := firstRow; row <= lastRow; row++ {
			if !solid(g.Tile(row, col)) {
				continue
			}
			tile := g.TileRect(row, col)
			if !b.Rect().Intersects(tile) || prevHead > tile.Y+epsilon {
				continue
			}
			b.Y = tile.Y - b.H
			b.VY = 0
			return true
		}
	}
	return false
}

// findSurface returns the highest reachable surface under the body. Ground
// tiles count across every column the body spans; ramps count only in the
// column under the body's center, interpolated along the slope. On equal
// heights Ground wins.
func (e *Engine) findSurface(b *Body, g *level.Grid, reach float64) (float64, Surface) {
	groundH, hasGround := math.Inf(-1), false
	rampH, hasRamp := math.Inf(-1), false

	firstCol, lastCol := colRange(b, g)
	firstRow, lastRow := e.rowRange(b, g)
	cx, _ := b.Rect().Center()
	centerCol := g.Col(cx)

	for col := firstCol; col <= lastCol; col++ {
		for row := firstRow; row <= lastRow; row++ {
			tile := g.TileRect(row, col)
			switch g.Tile(row, col) {
			case level.Ground:
				if h := tile.Top(); h <= reach && h > groundH {
					groundH, hasGround = h, true
				}
			case level.Ramp:
				if col != centerCol {
					continue
				}
				if h := rampHeight(tile, cx); h <= reach && h > rampH {
					rampH, hasRamp = h, true
				}
			case level.Empty, level.Hazard, level.Goal, level.SpawnMarker:
				// No surface
			}
		}
	}

	switch {
	case hasRamp && (!hasGround || rampH > groundH+epsilon):
		return rampH, SurfaceRamp
	case hasGround:
		return groundH, SurfaceGround
	default:
		return 0, SurfaceNone
	}
}

// rampHeight interpolates the slope of a ramp tile rising left to right.
func rampHeight(tile core.Rect, x float64) float64 {
	t := core.ClampF((x-tile.X)/tile.W, 0, 1)
	return tile.Y + t*tile.H
}

// overlaps reports whether the body touches a Hazard or Goal tile.
func (e *Engine) overlaps(b *Body, g *level.Grid) (hazard, goal bool) {
	r := b.Rect()
	firstCol, lastCol := colRange(b, g)
	firstRow := core.Max(0, g.Row(r.Top()))
	lastRow := core.Min(g.Height()-1, g.Row(r.Y))

	for col := firstCol; col <= lastCol; col++ {
		for row := firstRow; row <= lastRow; row++ {
			kind := g.Tile(row, col)
			if kind != level.Hazard && kind != level.Goal {
				continue
			}
			if !r.Intersects(g.TileRect(row, col)) {
				continue
			}
			if kind == level.Hazard {
				hazard = true
			} else {
				goal = true
			}
		}
	}
	return hazard, goal
}
