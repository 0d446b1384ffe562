package level

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Fallback level dimensions.
const (
	fallbackWidth  = 10
	fallbackHeight = 10
)

// timeDirective prefixes the line that sets a level's time limit.
const timeDirective = "time:"

// Option configures parsing.
type Option func(*parseOptions)

type parseOptions struct {
	tileSize float64
	name     string
}

// WithTileSize sets the world-unit tile size of the parsed grid.
func WithTileSize(size float64) Option {
	return func(o *parseOptions) {
		if size > 0 {
			o.tileSize = size
		}
	}
}

// WithName records the file name the text came from.
func WithName(name string) Option {
	return func(o *parseOptions) {
		o.name = name
	}
}

// Parse decodes level text into a Grid. It never fails: comments and blank
// lines are skipped, malformed tokens become Empty, and text without any tile
// rows yields the fallback level. Recovered problems are listed in
// Grid.Warnings.
//
// Format:
//
//	# comment
//	time: 60
//	0 0 0 4
//	5 0 2 0
//	1 1 1 1
//
// Codes: 0 empty, 1 ground, 2 ramp, 3 hazard, 4 goal, 5 spawn.
func Parse(text string, opts ...Option) *Grid {
	o := parseOptions{tileSize: DefaultTileSize}
	for _, opt := range opts {
		opt(&o)
	}

	var (
		warnings  []string
		timeLimit float64
		rows      []string
	)

	for i, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if strings.HasPrefix(strings.ToLower(trimmed), timeDirective) {
			value := strings.TrimSpace(trimmed[len(timeDirective):])
			limit, err := strconv.ParseFloat(value, 64)
			switch {
			case err != nil, math.IsNaN(limit), math.IsInf(limit, 0):
				warnings = append(warnings, fmt.Sprintf("line %d: invalid time directive %q", i+1, trimmed))
			case limit < 0:
				warnings = append(warnings, fmt.Sprintf("line %d: negative time limit %v ignored", i+1, limit))
			default:
				timeLimit = limit
			}
			continue
		}

		rows = append(rows, trimmed)
	}

	if len(rows) == 0 {
		g := Fallback(o.tileSize)
		g.name = o.name
		g.warnings = append(warnings, "no tile rows, using fallback level")
		return g
	}

	// Tokenize first: the width is the longest row
	tokens := make([][]string, len(rows))
	width := 0
	for row, line := range rows {
		tokens[row] = strings.Fields(line)
		if len(tokens[row]) > width {
			width = len(tokens[row])
		}
	}

	g := newGrid(width, len(rows), o.tileSize)
	g.name = o.name
	g.timeLimit = timeLimit

	foundSpawn := false
	for row, fields := range tokens {
		for col, tok := range fields {
			code, err := strconv.Atoi(tok)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("row %d col %d: malformed tile %q", row, col, tok))
				continue
			}

			kind, ok := KindFromCode(code)
			if !ok {
				warnings = append(warnings, fmt.Sprintf("row %d col %d: unknown tile code %d", row, col, code))
			}
			g.set(row, col, kind)

			if kind == SpawnMarker && !foundSpawn {
				g.spawn = Spawn{Col: col, Row: row}
				foundSpawn = true
			}
		}
	}

	if !foundSpawn {
		g.spawn = defaultSpawn(width, len(rows))
		warnings = append(warnings, "no spawn marker, using default spawn")
	}

	g.warnings = warnings
	return g
}

// Fallback returns the deterministic level used when a file is missing or
// has no tile rows: a 10x10 grid with a solid bottom row and the spawn near
// the left edge, vertically centered.
func Fallback(tileSize float64) *Grid {
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}

	g := newGrid(fallbackWidth, fallbackHeight, tileSize)
	for col := 0; col < fallbackWidth; col++ {
		g.set(fallbackHeight-1, col, Ground)
	}
	g.spawn = defaultSpawn(fallbackWidth, fallbackHeight)
	g.fallback = true
	return g
}
