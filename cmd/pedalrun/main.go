// pedalrun is a pedaling exercise game for the terminal: pedal pulses drive
// a rider across tile levels with ramps, lakes and a finish flag.
//
// Usage:
//
//	pedalrun play            - Ride in the terminal (space = one pedal pulse)
//	pedalrun serve           - Start SSH server for remote riders
//	pedalrun sim             - Headless ride driven by a fixed-cadence metronome
//	pedalrun levels [file]   - List levels or check level files
//	pedalrun rides           - Show the ride log and best times
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--db <path>         - Set ride log path (default: ~/.pedalrun/rides.db)
//	--config <path>     - Ride config YAML
//	--levels <dir>      - Directory with level<N>.txt files overriding the built-ins
//	--log-level <lvl>   - debug, info, warn or error
//	--log-file <path>   - Log file (the play screen discards logs otherwise)
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/pedalrun/internal/config"
	"github.com/vovakirdan/pedalrun/internal/level"
)

var (
	// Global flags
	flagFPS      int
	flagDBPath   string
	flagConfig   string
	flagLevels   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pedalrun",
	Short: "pedalrun - a pedaling exercise game for your terminal",
	Long: `pedalrun turns pedaling cadence into speed: every pedal pulse pushes the
rider forward, ramps launch them over lakes and the flag ends the level.
A keyboard press stands in for the cadence sensor.

Available commands:
  play     - Ride in the terminal
  serve    - Start SSH server for remote riders
  sim      - Headless ride at a fixed cadence
  levels   - List levels or check level files
  rides    - Show the ride log

Examples:
  pedalrun play
  pedalrun play --level 2 --levels ./levels --watch
  pedalrun sim --rpm 120
  pedalrun serve --ssh :2222
  pedalrun rides --best`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.pedalrun/rides.db", "Path to ride log database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom ride config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLevels, "levels", "", "Directory with level<N>.txt files (overrides built-in levels)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(ridesCmd)
}

// newLogger creates a logger writing to w at the --log-level level.
func newLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	lvl, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// openLogFile returns the --log-file writer, or fallback if the flag is empty.
// The returned close function is always safe to call.
func openLogFile(fallback io.Writer) (io.Writer, func()) {
	if flagLogFile == "" {
		return fallback, func() {}
	}
	f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
		return fallback, func() {}
	}
	return f, func() { f.Close() }
}

// loadRideConfig loads and validates the ride config. Adjusted fields are
// logged, unreadable files are fatal.
func loadRideConfig(logger *log.Logger) config.RideConfig {
	cfg, err := config.LoadRide(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	for _, field := range cfg.Validate() {
		logger.Warn("config value out of range, using default", "field", field)
	}
	if flagLevels != "" {
		cfg.Session.LevelsDir = flagLevels
	}
	return cfg
}

// newLevelSource creates the level source for cfg.
func newLevelSource(cfg config.RideConfig, logger *log.Logger) *level.Source {
	return level.NewSource(cfg.Session.LevelsDir, cfg.Physics.TileSize, logger)
}
