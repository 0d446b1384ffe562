package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/pedalrun/internal/core"
	"github.com/vovakirdan/pedalrun/internal/level"
	"github.com/vovakirdan/pedalrun/internal/storage"
)

// levelEntry is one line of the level selector.
type levelEntry struct {
	number    int
	name      string
	timeLimit float64
	best      float64 // 0 = never finished
	fallback  bool
}

// LevelSelectModel lets the rider choose the starting level.
type LevelSelectModel struct {
	levels    []levelEntry
	cursor    int
	width     int
	height    int
	keyMapper *KeyMapper
	selected  int
	quitting  bool
}

// NewLevelSelectModel lists levels 1..count from src. Best times come from
// store when it is not nil.
func NewLevelSelectModel(src *level.Source, store *storage.Store, count, width, height int) LevelSelectModel {
	levels := make([]levelEntry, 0, count)
	for n := 1; n <= count; n++ {
		g := src.Load(n)
		e := levelEntry{
			number:    n,
			name:      g.Name(),
			timeLimit: g.TimeLimit(),
			fallback:  g.IsFallback(),
		}
		if store != nil {
			if best, err := store.BestTime(n); err == nil {
				e.best = best
			}
		}
		levels = append(levels, e)
	}

	return LevelSelectModel{
		levels:    levels,
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the model.
func (m LevelSelectModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m LevelSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m LevelSelectModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKey(msg) {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case core.ActionDown:
		if m.cursor < len(m.levels)-1 {
			m.cursor++
		}
	case core.ActionConfirm, core.ActionPedal:
		if len(m.levels) > 0 {
			m.selected = m.levels[m.cursor].number
			return m, tea.Quit
		}
	}
	return m, nil
}

// View renders the level list.
func (m LevelSelectModel) View() string {
	if m.quitting || m.selected > 0 {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("P E D A L R U N", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select starting level:", m.width))
	b.WriteString("\n\n")

	for i, e := range m.levels {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		limit := "no limit"
		if e.timeLimit > 0 {
			limit = fmt.Sprintf("%.0fs", e.timeLimit)
		}
		best := "-"
		if e.best > 0 {
			best = fmt.Sprintf("%.1fs", e.best)
		}
		name := e.name
		if e.fallback {
			name += " (missing)"
		}

		line := fmt.Sprintf("%s%2d. %-20s %-9s best %s", cursor, e.number, name, limit, best)
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Ride  |  Q: Quit", m.width))

	return b.String()
}

// Selected returns the chosen level, or 0 if none was chosen.
func (m LevelSelectModel) Selected() int {
	return m.selected
}

// RunLevelSelector shows the level selector and returns the chosen level,
// or 0 if the rider quit.
func RunLevelSelector(src *level.Source, store *storage.Store, count int, cfg core.RuntimeConfig) (int, error) {
	model := NewLevelSelectModel(src, store, count, cfg.ScreenW, cfg.ScreenH)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return 0, err
	}

	m, ok := finalModel.(LevelSelectModel)
	if !ok {
		return 0, nil
	}
	return m.Selected(), nil
}
