package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/pedalrun/internal/storage"
)

// Ride log layout constants
const (
	maxRides = 100 // Max rides to load
)

// ridesTab is one page of the ride log view.
type ridesTab int

const (
	tabRecent ridesTab = iota
	tabBest
)

func (t ridesTab) String() string {
	if t == tabBest {
		return "Best times"
	}
	return "Recent rides"
}

// RidesKeyMap defines the key bindings for the ride log view.
type RidesKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	NextTab key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k RidesKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextTab, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k RidesKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.NextTab, k.Quit}}
}

// DefaultRidesKeyMap returns default key bindings.
func DefaultRidesKeyMap() RidesKeyMap {
	return RidesKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab", "left", "right", "h", "l"),
			key.WithHelp("tab", "recent/best"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// RidesModel is the Bubble Tea model for browsing the ride log.
type RidesModel struct {
	store    *storage.Store
	rider    string // "" = every rider
	tab      ridesTab
	rides    []storage.Ride
	bests    []storage.LevelBest
	stats    *storage.RideStats
	err      error
	table    table.Model
	help     help.Model
	keys     RidesKeyMap
	width    int
	height   int
	quitting bool
}

// NewRidesModel creates a ride log view for rider ("" for everyone).
func NewRidesModel(store *storage.Store, rider string, width, height int) RidesModel {
	m := RidesModel{
		store:  store,
		rider:  rider,
		keys:   DefaultRidesKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.load()
	m.table = m.createTable()
	m.updateTableRows()
	return m
}

// load reads rides, best times and stats from the store.
func (m *RidesModel) load() {
	if m.store == nil {
		return
	}
	if m.rides, m.err = m.store.RecentRides(m.rider, maxRides); m.err != nil {
		return
	}
	if m.bests, m.err = m.store.BestTimes(); m.err != nil {
		return
	}
	m.stats, m.err = m.store.Stats(m.rider)
}

// createTable creates a table with the columns of the current tab.
func (m *RidesModel) createTable() table.Model {
	var columns []table.Column
	if m.tab == tabBest {
		columns = []table.Column{
			{Title: "Level", Width: 6},
			{Title: "Time", Width: 8},
			{Title: "RPM", Width: 6},
			{Title: "Rider", Width: 12},
			{Title: "Date", Width: 14},
		}
	} else {
		columns = []table.Column{
			{Title: "Date", Width: 14},
			{Title: "Rider", Width: 10},
			{Title: "Level", Width: 6},
			{Title: "Result", Width: 18},
			{Title: "Time", Width: 8},
			{Title: "RPM", Width: 6},
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-9, 3)), // Leave room for header, stats, help
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// updateTableRows fills the table from the loaded data.
func (m *RidesModel) updateTableRows() {
	var rows []table.Row
	if m.tab == tabBest {
		rows = make([]table.Row, len(m.bests))
		for i, b := range m.bests {
			rows[i] = table.Row{
				fmt.Sprintf("%d", b.Level),
				fmt.Sprintf("%.1fs", b.Elapsed),
				fmt.Sprintf("%.0f", b.AvgRPM),
				b.Rider,
				b.CreatedAt.Format("Jan 02 15:04"),
			}
		}
	} else {
		rows = make([]table.Row, len(m.rides))
		for i, r := range m.rides {
			rows[i] = table.Row{
				r.CreatedAt.Format("Jan 02 15:04"),
				r.Rider,
				fmt.Sprintf("%d", r.Level),
				resultText(r),
				fmt.Sprintf("%.1fs", r.Elapsed),
				fmt.Sprintf("%.0f", r.AvgRPM),
			}
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// resultText formats a ride result with its game over reason.
func resultText(r storage.Ride) string {
	if r.Reason != "" {
		return fmt.Sprintf("%s (%s)", r.Result, r.Reason)
	}
	return r.Result
}

// Init initializes the model.
func (m RidesModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the ride log view.
func (m RidesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextTab):
			m.tab = (m.tab + 1) % 2
			m.table = m.createTable()
			m.updateTableRows()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the ride log.
func (m RidesModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	who := m.rider
	if who == "" {
		who = "all riders"
	}
	b.WriteString(titleStyle.Render(centerText(fmt.Sprintf("RIDE LOG - %s - %s", who, m.tab), m.width)))
	b.WriteString("\n\n")

	if m.stats != nil && m.stats.Rides > 0 {
		b.WriteString(centerText(fmt.Sprintf("%d rides, %d finished, %.0f min, avg %.0f rpm",
			m.stats.Rides, m.stats.Finished, m.stats.TotalTime/60, m.stats.AvgRPM), m.width))
		b.WriteString("\n\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.renderTableContent()))

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or an empty message.
func (m RidesModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.store == nil:
		return emptyStyle.Render("Ride log unavailable.")
	case m.err != nil:
		return emptyStyle.Render("Could not read the ride log:\n" + m.err.Error())
	case m.tab == tabBest && len(m.bests) == 0:
		return emptyStyle.Render("No level finished yet.")
	case m.tab == tabRecent && len(m.rides) == 0:
		return emptyStyle.Render("No rides recorded yet.\nGo for a ride!")
	}

	return m.table.View()
}

// centerText pads text on the left to center it in width columns.
func centerText(text string, width int) string {
	pad := (width - lipgloss.Width(text)) / 2
	if pad <= 0 {
		return text
	}
	return strings.Repeat(" ", pad) + text
}

// RunRides runs the ride log view.
func RunRides(store *storage.Store, rider string, width, height int) error {
	p := tea.NewProgram(
		NewRidesModel(store, rider, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
