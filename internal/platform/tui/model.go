package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pedalrun/internal/config"
	"github.com/vovakirdan/pedalrun/internal/core"
	"github.com/vovakirdan/pedalrun/internal/level"
	"github.com/vovakirdan/pedalrun/internal/session"
	"github.com/vovakirdan/pedalrun/internal/storage"
)

// Options configures a ride model. All fields are optional.
type Options struct {
	Rider   string         // Name stored with each ride; "local" if empty
	Store   *storage.Store // Ride log; rides are not recorded if nil
	Logger  *log.Logger
	Watcher *level.Watcher // Reloads the current level when its file changes
	Runtime core.RuntimeConfig
}

// levelChangedMsg reports that a level file was written.
type levelChangedMsg int

// watchErrMsg reports a file watcher failure.
type watchErrMsg struct{ err error }

// Model is the Bubble Tea model for a ride.
type Model struct {
	session    *session.Session
	screen     *core.Screen
	store      *storage.Store
	logger     *log.Logger
	watcher    *level.Watcher
	rider      string
	config     core.RuntimeConfig
	keys       *KeyMapper
	help       help.Model
	inputFrame core.InputFrame
	lastTick   time.Time
	quitting   bool
}

// NewModel creates a Bubble Tea model driving the given session.
func NewModel(s *session.Session, opts Options) Model {
	cfg := opts.Runtime
	if cfg.ScreenW <= 0 || cfg.ScreenH <= 0 {
		def := core.DefaultConfig()
		cfg.ScreenW, cfg.ScreenH = def.ScreenW, def.ScreenH
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	rider := opts.Rider
	if rider == "" {
		rider = "local"
	}

	return Model{
		session:    s,
		screen:     core.NewScreen(cfg.ScreenW, fieldHeight(cfg.ScreenH)),
		store:      opts.Store,
		logger:     logger,
		watcher:    opts.Watcher,
		rider:      rider,
		config:     cfg,
		keys:       NewKeyMapper(),
		help:       help.New(),
		inputFrame: core.NewInputFrame(),
	}
}

// fieldHeight leaves the last terminal row for the help line.
func fieldHeight(screenH int) int {
	return core.Max(1, screenH-1)
}

// Init starts the tick loop and, if set, the level watcher.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.config.TickRate), waitForLevelChange(m.watcher))
}

// waitForLevelChange blocks until the watcher reports a change or an error.
// It returns nil when there is no watcher.
func waitForLevelChange(w *level.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case n, ok := <-w.Events:
			if !ok {
				return nil
			}
			return levelChangedMsg(n)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return watchErrMsg{err: err}
		}
	}
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick(time.Time(msg))

	case levelChangedMsg:
		if int(msg) == m.session.Level() {
			m.session.Reload()
		}
		return m, waitForLevelChange(m.watcher)

	case watchErrMsg:
		m.logger.Warn("level watcher", "error", msg.err)
		return m, waitForLevelChange(m.watcher)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Keys().Screenshot) {
		m.saveScreenshot()
		return m, nil
	}

	switch action := m.keys.MapKey(msg); action {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionPedal:
		// Pulses carry their own timestamp; they are not deferred to the tick
		m.session.RegisterPulse(time.Now())
	case core.ActionNone:
	default:
		m.inputFrame.Set(action)
	}

	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, fieldHeight(msg.Height))
	m.help.Width = msg.Width
	return m, nil
}

// handleTick advances the session by the wall-clock time since the last tick.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	dt := 1.0 / float64(m.config.TickRate)
	if !m.lastTick.IsZero() {
		dt = max(now.Sub(m.lastTick).Seconds(), 0)
	}
	m.lastTick = now

	for _, a := range []core.Action{core.ActionUp, core.ActionDown, core.ActionConfirm} {
		if m.inputFrame.Has(a) {
			m.session.MenuInput(a)
		}
	}
	m.inputFrame.Clear()

	res := m.session.Tick(dt, now)
	if res.Outcome != nil {
		m.saveRide(*res.Outcome)
	}

	if m.session.Quit() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, tickCmd(m.config.TickRate)
}

// saveRide records a finished attempt in the ride log.
func (m Model) saveRide(o session.Outcome) {
	if m.store == nil {
		return
	}
	_, err := m.store.SaveRide(storage.Ride{
		Rider:    m.rider,
		Level:    o.Level,
		Result:   o.Result,
		Reason:   string(o.Reason),
		Elapsed:  o.Elapsed,
		AvgRPM:   o.AvgRPM,
		Distance: o.Distance,
	})
	if err != nil {
		// The ride goes on without a log entry
		m.logger.Warn("could not save ride", "rider", m.rider, "error", err)
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	RenderRide(m.screen, m.session.Snapshot())

	dir := filepath.Join(config.UserDir(), "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("could not create screenshot directory", "error", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("level%d_%s.txt", m.session.Level(), timestamp))

	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("could not save screenshot", "error", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	RenderRide(m.screen, m.session.Snapshot())

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys.Keys()))
}

// Run starts the Bubble Tea program for a ride.
func Run(s *session.Session, opts Options) error {
	model := NewModel(s, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
