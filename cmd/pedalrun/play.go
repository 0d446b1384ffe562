package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/pedalrun/internal/core"
	"github.com/vovakirdan/pedalrun/internal/level"
	"github.com/vovakirdan/pedalrun/internal/platform/tui"
	"github.com/vovakirdan/pedalrun/internal/session"
	"github.com/vovakirdan/pedalrun/internal/storage"
)

var (
	flagLevel int
	flagWatch bool
	flagRider string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Ride in the terminal",
	Long: `Start a ride. Without --level a level selector is shown first.

Controls:
  Space      - Pedal (one pulse per press; keep a steady rhythm)
  Up/Down    - Move the menu selection after a game over or victory
  Enter      - Confirm the menu selection
  Ctrl+S     - Save a screenshot to ~/.pedalrun/screenshots
  Q/Ctrl+C   - Quit

Speed follows the pedaling cadence; stop pedaling for 1.5s and the rider
coasts to a halt. Ramps launch the rider in proportion to speed.

Examples:
  pedalrun play
  pedalrun play --level 3
  pedalrun play --levels ./levels --watch   # reload level files on save`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagLevel, "level", 0, "Starting level (0 = choose from a list)")
	playCmd.Flags().BoolVar(&flagWatch, "watch", false, "Reload the current level when its file in --levels changes")
	playCmd.Flags().StringVar(&flagRider, "rider", "local", "Name recorded in the ride log")
}

func runPlay(_ *cobra.Command, _ []string) {
	// The alternate screen owns the terminal, so logs go to --log-file or nowhere
	logOut, closeLog := openLogFile(io.Discard)
	defer closeLog()
	logger := newLogger(logOut, "pedalrun")

	cfg := loadRideConfig(logger)
	src := newLevelSource(cfg, logger)

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}
	runtime := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
	}

	// Open ride log
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open ride log: %v\n", err)
		// Continue without storage - the ride still works
	} else {
		defer store.Close()
	}

	ride := session.New(cfg, src, logger)

	start := flagLevel
	if start == 0 && ride.MaxLevel() > 1 {
		start, err = tui.RunLevelSelector(src, store, ride.MaxLevel(), runtime)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if start == 0 {
			return // Rider quit
		}
	}
	if start > 1 {
		ride.StartAt(start)
	}

	var watcher *level.Watcher
	if flagWatch {
		if src.Dir() == "" {
			fmt.Fprintln(os.Stderr, "Error: --watch needs a --levels directory")
			os.Exit(1)
		}
		watcher, err = level.NewWatcher(src.Dir())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error watching %s: %v\n", src.Dir(), err)
			os.Exit(1)
		}
		defer watcher.Close()
	}

	runErr := tui.Run(ride, tui.Options{
		Rider:   flagRider,
		Store:   store,
		Logger:  logger,
		Watcher: watcher,
		Runtime: runtime,
	})
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running ride: %v\n", runErr)
		os.Exit(1)
	}
}
