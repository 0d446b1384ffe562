package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/pedalrun/internal/core"
)

// styleFor returns the lipgloss style for a palette color.
func styleFor(c core.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.ANSI()))
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Each run of same-colored cells on a row is styled once; cells in the
// default color are written as plain text.
func RenderScreen(s *core.Screen) string {
	styles := make(map[core.Color]lipgloss.Style)

	var sb strings.Builder
	var run []rune
	flush := func(c core.Color) {
		if len(run) == 0 {
			return
		}
		if c.ANSI() == "" {
			sb.WriteString(string(run))
		} else {
			style, ok := styles[c]
			if !ok {
				style = styleFor(c)
				styles[c] = style
			}
			sb.WriteString(style.Render(string(run)))
		}
		run = run[:0]
	}

	for y := range s.Height() {
		if y > 0 {
			sb.WriteByte('\n')
		}
		current := core.ColorDefault
		for x := range s.Width() {
			cell := s.GetCell(x, y)
			if cell.Color != current {
				flush(current)
				current = cell.Color
			}
			run = append(run, cell.Rune)
		}
		flush(current)
	}
	return sb.String()
}
