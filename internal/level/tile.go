// Package level holds the immutable tile grid a ride takes place on, the
// text-format parser that produces it and the file-access collaborator that
// finds level<N>.txt files on disk or in the embedded built-in set.
package level

// TileKind is the closed set of tile types a grid cell can hold.
type TileKind uint8

const (
	Empty       TileKind = iota // Nothing, passable
	Ground                      // Solid floor, hard stop
	Ramp                        // Sloped surface rising left to right, launches the rider
	Hazard                      // Lake, fatal on contact
	Goal                        // Finish flag
	SpawnMarker                 // Player start; passable like Empty
)

// Tile codes used by the level text format.
const (
	codeEmpty = iota
	codeGround
	codeRamp
	codeHazard
	codeGoal
	codeSpawn
)

// KindFromCode maps a tile code from a level file to its kind.
// Unknown codes map to Empty and report ok=false.
func KindFromCode(code int) (kind TileKind, ok bool) {
	switch code {
	case codeEmpty:
		return Empty, true
	case codeGround:
		return Ground, true
	case codeRamp:
		return Ramp, true
	case codeHazard:
		return Hazard, true
	case codeGoal:
		return Goal, true
	case codeSpawn:
		return SpawnMarker, true
	default:
		return Empty, false
	}
}

// Code returns the level file code for this kind.
func (k TileKind) Code() int {
	switch k {
	case Ground:
		return codeGround
	case Ramp:
		return codeRamp
	case Hazard:
		return codeHazard
	case Goal:
		return codeGoal
	case SpawnMarker:
		return codeSpawn
	default:
		return codeEmpty
	}
}

// String returns a human-readable name for the kind.
func (k TileKind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Ground:
		return "ground"
	case Ramp:
		return "ramp"
	case Hazard:
		return "hazard"
	case Goal:
		return "goal"
	case SpawnMarker:
		return "spawn"
	default:
		return "unknown"
	}
}
