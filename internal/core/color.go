package core

// Color is a foreground color for a screen cell, one of the ride palette.
type Color uint8

// Ride palette: green ground, yellow ramps, blue lakes, a bright cyan rider.
// The zero value is the terminal's default color.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorWhite
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightCyan
	ColorOrange
)

// ansiCodes holds the 256-color code of each palette entry.
var ansiCodes = [...]string{
	ColorRed:          "1",
	ColorGreen:        "2",
	ColorYellow:       "3",
	ColorBlue:         "4",
	ColorWhite:        "7",
	ColorBrightGreen:  "10",
	ColorBrightYellow: "11",
	ColorBrightCyan:   "14",
	ColorOrange:       "208",
}

// ANSI returns the 256-color code for c, or "" for the default color and
// values outside the palette.
func (c Color) ANSI() string {
	if int(c) >= len(ansiCodes) {
		return ""
	}
	return ansiCodes[c]
}
