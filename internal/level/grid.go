package level

import "github.com/vovakirdan/pedalrun/internal/core"

// DefaultTileSize is the edge length of a tile in world units.
const DefaultTileSize = 64.0

// Spawn is a grid position (column, row) where the rider starts.
type Spawn struct {
	Col int
	Row int
}

// Grid is a tile-based level. It is built once by the parser and never
// mutated afterwards, so the physics engine and the renderer can share it
// without locking. Row 0 is the top row of the level file; world y grows
// upward from the bottom edge of row Height-1.
type Grid struct {
	name      string
	width     int
	height    int
	tiles     [][]TileKind // [row][col]
	tileSize  float64
	spawn     Spawn
	timeLimit float64 // seconds, 0 = unlimited
	fallback  bool
	warnings  []string
}

// newGrid allocates an all-Empty grid.
func newGrid(width, height int, tileSize float64) *Grid {
	g := &Grid{
		width:    width,
		height:   height,
		tileSize: tileSize,
		tiles:    make([][]TileKind, height),
	}
	for row := range g.tiles {
		g.tiles[row] = make([]TileKind, width)
	}
	return g
}

// set writes a tile. Out-of-bounds writes are no-ops.
// Only the parser calls this, before the grid is handed out.
func (g *Grid) set(row, col int, kind TileKind) {
	if row < 0 || row >= g.height || col < 0 || col >= g.width {
		return
	}
	g.tiles[row][col] = kind
}

// Name returns the name the grid was loaded under (e.g. "level2.txt").
func (g *Grid) Name() string { return g.name }

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// TileSize returns the world-unit edge length of a tile.
func (g *Grid) TileSize() float64 { return g.tileSize }

// Spawn returns the grid position of the spawn marker (or the default spawn).
func (g *Grid) Spawn() Spawn { return g.spawn }

// TimeLimit returns the level time limit in seconds; 0 means unlimited.
func (g *Grid) TimeLimit() float64 { return g.timeLimit }

// IsFallback reports whether this grid is the built-in fallback level.
func (g *Grid) IsFallback() bool { return g.fallback }

// Warnings returns the problems the parser recovered from.
func (g *Grid) Warnings() []string { return g.warnings }

// Tile returns the kind at (row, col). Out-of-bounds queries return Empty.
func (g *Grid) Tile(row, col int) TileKind {
	if row < 0 || row >= g.height || col < 0 || col >= g.width {
		return Empty
	}
	return g.tiles[row][col]
}

// TileRect returns the world-space bounding box of the tile at (row, col).
func (g *Grid) TileRect(row, col int) core.Rect {
	return core.NewRect(
		float64(col)*g.tileSize,
		float64(g.height-row-1)*g.tileSize,
		g.tileSize,
		g.tileSize,
	)
}

// Col returns the column containing world x.
func (g *Grid) Col(x float64) int {
	return core.FloorDiv(x, g.tileSize)
}

// Row returns the row containing world y.
func (g *Grid) Row(y float64) int {
	return g.height - 1 - core.FloorDiv(y, g.tileSize)
}

// SpawnPosition returns the world position of the spawn tile's bottom-left corner.
func (g *Grid) SpawnPosition() (x, y float64) {
	r := g.TileRect(g.spawn.Row, g.spawn.Col)
	return r.X, r.Y
}

// WorldWidth returns the level width in world units.
func (g *Grid) WorldWidth() float64 {
	return float64(g.width) * g.tileSize
}

// Count returns the number of tiles of the given kind.
func (g *Grid) Count(kind TileKind) int {
	n := 0
	for _, row := range g.tiles {
		for _, k := range row {
			if k == kind {
				n++
			}
		}
	}
	return n
}

// Equal reports whether two grids have the same dimensions, tiles, spawn and
// time limit.
func (g *Grid) Equal(other *Grid) bool {
	if g == nil || other == nil {
		return g == other
	}
	if g.width != other.width || g.height != other.height ||
		g.tileSize != other.tileSize || g.spawn != other.spawn ||
		g.timeLimit != other.timeLimit {
		return false
	}
	for row := range g.tiles {
		for col := range g.tiles[row] {
			if g.tiles[row][col] != other.tiles[row][col] {
				return false
			}
		}
	}
	return true
}

// defaultSpawn is used when a level has no spawn marker: near the left edge,
// vertically centered.
func defaultSpawn(width, height int) Spawn {
	return Spawn{Col: core.Min(1, width-1), Row: height / 2}
}
