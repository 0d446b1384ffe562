package physics

import (
	"math"
	"testing"

	"github.com/vovakirdan/pedalrun/internal/level"
)

const frame = 1.0 / 60.0

func newTestEngine() *Engine {
	return NewEngine(DefaultParams())
}

func TestSpeedShaping(t *testing.T) {
	// Empty grid: no contact, only speed shaping matters
	g := level.Parse("0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0")

	tests := []struct {
		name     string
		speed    float64
		target   float64
		dt       float64
		expected float64
	}{
		{"snap up", 100, 300, 0.01, 300},
		{"hold", 250, 250, 0.01, 250},
		{"ease down", 400, 0, 0.1, 380},
		{"ease down stops at target", 205, 200, 0.1, 200},
		{"negative target is zero", 10, -50, 0.1, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEngine()
			b := NewBody(0, 10000, DefaultWidth, DefaultHeight)
			b.SpeedX = tc.speed

			e.Step(&b, g, tc.target, tc.dt)

			if math.Abs(b.SpeedX-tc.expected) > 1e-9 {
				t.Errorf("SpeedX = %v, expected %v", b.SpeedX, tc.expected)
			}
		})
	}
}

func TestAirborneAboveGroundNeverGrounded(t *testing.T) {
	g := level.Parse("0 0 0\n0 0 0\n0 0 0\n0 0 0\n1 2 1")
	e := newTestEngine()

	b := NewBody(40, 250, DefaultWidth, DefaultHeight)
	for i := 0; i < 5; i++ {
		res := e.Step(&b, g, 0, frame)
		if b.Grounded || res.Surface != SurfaceNone {
			t.Fatalf("step %d: rider at y=%v reported contact (%v)", i, b.Y, res.Surface)
		}
	}
}

func TestLandsOnGround(t *testing.T) {
	g := level.Parse("0 0 0\n0 0 0\n1 1 1")
	e := newTestEngine()

	b := NewBody(64, 100, DefaultWidth, DefaultHeight)
	landed := false
	for i := 0; i < 120; i++ {
		res := e.Step(&b, g, 0, frame)
		if res.Surface == SurfaceGround {
			landed = true
			break
		}
	}

	if !landed {
		t.Fatal("rider should land on the floor")
	}
	if b.Y != 64 || b.VY != 0 || !b.Grounded {
		t.Errorf("after landing: y=%v vy=%v grounded=%v, expected 64/0/true", b.Y, b.VY, b.Grounded)
	}

	// Resting stays put
	for i := 0; i < 60; i++ {
		e.Step(&b, g, 0, frame)
	}
	if b.Y != 64 || !b.Grounded {
		t.Errorf("resting rider drifted to y=%v grounded=%v", b.Y, b.Grounded)
	}
}

func TestRampLaunch(t *testing.T) {
	g := level.Parse("0 0 0\n0 2 0\n1 1 1")
	e := newTestEngine()

	// Center lands at x=96 (halfway up the ramp: surface 96)
	b := NewBody(72-2, 96, DefaultWidth, DefaultHeight)
	b.SpeedX = 120
	res := e.Step(&b, g, 120, 1.0/60)

	if res.Surface != SurfaceRamp {
		t.Fatalf("expected ramp contact, got %v", res.Surface)
	}
	cx, _ := b.Rect().Center()
	if expected := 64 + (cx - 64); math.Abs(b.Y-expected) > 1e-9 {
		t.Errorf("Y = %v, expected interpolated slope height %v", b.Y, expected)
	}
	if b.VY != 120*DefaultLaunchFactor {
		t.Errorf("VY = %v, expected %v", b.VY, 120*DefaultLaunchFactor)
	}
	if b.Grounded {
		t.Error("ramp contact should not mark the rider grounded")
	}
}

func TestGroundWinsTies(t *testing.T) {
	g := level.Parse("0 0 0\n0 2 0\n1 1 1")
	e := newTestEngine()

	// Center exactly on the ramp's low edge: slope height equals the floor top
	b := NewBody(64-DefaultWidth/2, 64, DefaultWidth, DefaultHeight)
	res := e.Step(&b, g, 0, 0.001)

	if res.Surface != SurfaceGround {
		t.Fatalf("equal heights should resolve to ground, got %v", res.Surface)
	}
	if b.VY != 0 || !b.Grounded {
		t.Errorf("ground contact: vy=%v grounded=%v", b.VY, b.Grounded)
	}
}

func TestRampWinsWhenHigher(t *testing.T) {
	g := level.Parse("0 0 0\n0 2 0\n1 1 1")
	e := newTestEngine()

	// One unit of travel this tick puts the center at x=64.5
	b := NewBody(64.5-DefaultWidth/2-1, 64, DefaultWidth, DefaultHeight)
	b.SpeedX = 100
	res := e.Step(&b, g, 100, 0.01)

	if res.Surface != SurfaceRamp {
		t.Fatalf("higher ramp surface should win, got %v", res.Surface)
	}
	if math.Abs(b.Y-64.5) > 1e-9 {
		t.Errorf("Y = %v, expected 64.5", b.Y)
	}
}

func TestRampClimbOntoPlatform(t *testing.T) {
	g := level.Parse("0 0 0 0 0\n5 0 2 1 1\n1 1 1 1 1")
	e := newTestEngine()

	b := NewBody(0, 64, DefaultWidth, DefaultHeight)
	sawRamp := false
	for i := 0; i < 240; i++ {
		res := e.Step(&b, g, 200, frame)
		if res.Surface == SurfaceRamp {
			sawRamp = true
		}
		if res.Hazard || res.Fell {
			t.Fatalf("step %d: unexpected result %+v", i, res)
		}
	}

	if !sawRamp {
		t.Error("rider should have ridden the ramp")
	}
	if b.Y != 128 || !b.Grounded {
		t.Errorf("rider should rest on the platform: y=%v grounded=%v", b.Y, b.Grounded)
	}
	if b.X != g.WorldWidth()-b.W {
		t.Errorf("rider should stop at the right edge of the level, x=%v", b.X)
	}
}

func TestRampSeamContinuity(t *testing.T) {
	tests := []struct {
		name string
		text string
		x, y float64
	}{
		// Ramp at col 1 ends at 192, ramp at col 2 starts at 64
		{"drop at seam", "0 0 0 0 0\n0 2 0 0 0\n0 0 2 0 0\n1 1 1 1 1", 64 - 24 + 8, 136},
		// Ramp at col 1 ends at 128, ramp at col 2 starts at 192
		{"rise at seam", "0 0 2 0 0\n0 0 0 0 0\n0 2 0 0 0\n1 1 1 1 1", 64 - 24 + 8, 72},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := level.Parse(tc.text)
			e := newTestEngine()

			b := NewBody(tc.x, tc.y, DefaultWidth, DefaultHeight)
			b.SpeedX = 150
			for i := 0; i < 120; i++ {
				prevY, prevVY := b.Y, b.VY
				e.Step(&b, g, 150, frame)

				limit := math.Abs(prevVY)*frame + math.Abs(DefaultGravity)*frame*frame + b.SpeedX*frame + 1e-6
				if math.Abs(b.Y-prevY) > limit {
					t.Fatalf("step %d: y jumped %v -> %v (limit %v)", i, prevY, b.Y, limit)
				}
			}
		})
	}
}

func TestWallStopsRider(t *testing.T) {
	g := level.Parse("0 0 0 0\n0 0 1 0\n0 0 1 0\n1 1 1 1")
	e := newTestEngine()

	b := NewBody(0, 64, DefaultWidth, DefaultHeight)
	hit := false
	for i := 0; i < 120; i++ {
		if res := e.Step(&b, g, 300, frame); res.HitWall {
			hit = true
		}
	}

	if !hit {
		t.Fatal("rider should hit the wall")
	}
	if b.X != 128-b.W {
		t.Errorf("rider should be pushed flush against the wall, x=%v", b.X)
	}
	if b.Y != 64 {
		t.Errorf("rider should stay on the floor, y=%v", b.Y)
	}
}

func TestCeilingStopsJump(t *testing.T) {
	g := level.Parse("0 1 0\n0 0 0\n1 1 1")
	e := newTestEngine()

	b := NewBody(72, 64, DefaultWidth, DefaultHeight)
	b.VY = 2000
	res := e.Step(&b, g, 0, 0.02)

	if !res.HitCeiling {
		t.Fatal("expected ceiling contact")
	}
	if b.Y+b.H != 128 || b.VY != 0 {
		t.Errorf("head should be pinned under the tile: head=%v vy=%v", b.Y+b.H, b.VY)
	}
}

func TestHazardIsFatalAtAnyVelocity(t *testing.T) {
	g := level.Parse("0 0 0 0\n0 0 0 0\n1 3 3 1")

	tests := []struct {
		name   string
		vy     float64
		speed  float64
		offset float64
	}{
		{"resting", 0, 0, -1},
		{"falling fast", -900, 0, 10},
		{"rising", 400, 0, -20},
		{"rolling", 0, 300, -5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEngine()
			b := NewBody(70, 64+tc.offset, DefaultWidth, DefaultHeight)
			b.VY, b.SpeedX = tc.vy, tc.speed

			res := e.Step(&b, g, tc.speed, frame)
			if !b.Rect().Intersects(g.TileRect(2, 1)) {
				t.Fatalf("test setup: rider at y=%v should overlap the hazard", b.Y)
			}
			if !res.Hazard {
				t.Errorf("overlap with hazard at y=%v should be reported", b.Y)
			}
		})
	}
}

func TestTouchingHazardEdgeIsSafe(t *testing.T) {
	g := level.Parse("0 0 0\n1 3 1")
	e := newTestEngine()

	// Spans ground on both sides of the hazard, feet exactly on its top
	b := NewBody(40, 64, 90, DefaultHeight)
	res := e.Step(&b, g, 0, frame)

	if res.Hazard {
		t.Error("touching the top edge of a hazard is not an overlap")
	}
	if !b.Grounded {
		t.Error("rider spanning the hazard should rest on the ground beside it")
	}
}

func TestGoalOverlap(t *testing.T) {
	g := level.Parse("0 0 0\n0 0 4\n1 1 1")
	e := newTestEngine()

	b := NewBody(0, 64, DefaultWidth, DefaultHeight)
	reached := false
	for i := 0; i < 120 && !reached; i++ {
		reached = e.Step(&b, g, 200, frame).Goal
	}
	if !reached {
		t.Error("rider should reach the goal tile")
	}
}

func TestFallingOutOfTheLevel(t *testing.T) {
	g := level.Parse("0 0 0\n0 0 0")
	e := newTestEngine()

	b := NewBody(0, 10, DefaultWidth, DefaultHeight)
	fell := false
	for i := 0; i < 300 && !fell; i++ {
		fell = e.Step(&b, g, 0, frame).Fell
	}

	if !fell {
		t.Fatal("rider with no floor should fall out")
	}
	if b.Y >= -DefaultFallMargin*g.TileSize() {
		t.Errorf("fell reported too early at y=%v", b.Y)
	}
}

func TestScanWindowMatchesFullScan(t *testing.T) {
	g := level.NewSource("", level.DefaultTileSize, nil).Load(3)

	windowed := DefaultParams()
	windowed.ScanWindowRows = 3
	full := NewEngine(DefaultParams())
	bounded := NewEngine(windowed)

	a := NewBody(0, 0, DefaultWidth, DefaultHeight)
	a.PlaceAtSpawn(g)
	b := a

	for i := 0; i < 1200; i++ {
		ra := full.Step(&a, g, 380, frame)
		rb := bounded.Step(&b, g, 380, frame)
		if a != b || ra != rb {
			t.Fatalf("step %d diverged: full=%+v %+v bounded=%+v %+v", i, a, ra, b, rb)
		}
		if ra.Hazard || ra.Goal || ra.Fell {
			break
		}
	}
}

func TestNegativeDtPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("negative dt should panic")
		}
	}()

	g := level.Fallback(level.DefaultTileSize)
	b := NewBody(0, 64, DefaultWidth, DefaultHeight)
	newTestEngine().Step(&b, g, 0, -0.01)
}

func TestPlaceAtSpawn(t *testing.T) {
	g := level.Parse("0 0 0\n0 5 0\n1 1 1")
	b := NewBody(500, 500, DefaultWidth, DefaultHeight)
	b.VY, b.SpeedX, b.Grounded = 10, 10, true

	b.PlaceAtSpawn(g)

	if b.X != 64 || b.Y != 64 {
		t.Errorf("spawn position = (%v, %v), expected (64, 64)", b.X, b.Y)
	}
	if b.VY != 0 || b.SpeedX != 0 || b.Grounded {
		t.Error("placing at spawn should clear motion")
	}
}
