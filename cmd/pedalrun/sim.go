package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pedalrun/internal/cadence"
	"github.com/vovakirdan/pedalrun/internal/core"
	"github.com/vovakirdan/pedalrun/internal/session"
	"github.com/vovakirdan/pedalrun/internal/storage"
)

var (
	flagSimRPM     float64
	flagSimLevel   int
	flagSimMaxTime time.Duration
	flagSimRetries int
	flagSimRecord  bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Headless ride at a fixed cadence",
	Long: `Ride without a screen: a metronome pedals at --rpm from its own goroutine
while the simulation ticks at --fps, the same way a cadence sensor would
drive a real ride. Each finished attempt is printed.

Useful to check that a level can be finished at a given cadence.

Examples:
  pedalrun sim --rpm 120
  pedalrun sim --rpm 90 --level 2 --retries 0
  pedalrun sim --levels ./levels --rpm 150 --max-time 5m`,
	Args: cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		// Exit only after runSim's deferred cleanup has run
		if code := runSim(os.Stdout); code != 0 {
			os.Exit(code)
		}
	},
}

func init() {
	simCmd.Flags().Float64Var(&flagSimRPM, "rpm", 120, "Pedaling cadence of the metronome")
	simCmd.Flags().IntVar(&flagSimLevel, "level", 1, "Starting level")
	simCmd.Flags().DurationVar(&flagSimMaxTime, "max-time", 3*time.Minute, "Stop after this much wall-clock time")
	simCmd.Flags().IntVar(&flagSimRetries, "retries", 2, "Restarts allowed after a game over")
	simCmd.Flags().BoolVar(&flagSimRecord, "record", false, "Save finished attempts to the ride log as rider \"sim\"")
}

// runSim rides until victory, a final game over or the time limit, writing
// the attempt table to out. It returns the process exit code.
func runSim(out io.Writer) int {
	logOut, closeLog := openLogFile(os.Stderr)
	defer closeLog()
	logger := newLogger(logOut, "pedalrun-sim")

	cfg := loadRideConfig(logger)
	ride := session.New(cfg, newLevelSource(cfg, logger), logger)
	if flagSimLevel > 1 {
		ride.StartAt(flagSimLevel)
	}

	var store *storage.Store
	if flagSimRecord {
		var err error
		if store, err = storage.Open(flagDBPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not open ride log: %v\n", err)
		} else {
			defer store.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, flagSimMaxTime)
	defer cancel()

	go cadence.NewMetronome(flagSimRPM).Run(ctx, ride)

	fmt.Fprintf(out, "Riding %d level(s) at %.0f rpm\n\n", ride.MaxLevel(), flagSimRPM)
	fmt.Fprintf(out, "  %-5s  %-10s  %-8s  %8s  %7s  %9s\n", "Level", "Result", "Reason", "Time", "RPM", "Distance")
	fmt.Fprintf(out, "  %-5s  %-10s  %-8s  %8s  %7s  %9s\n", "-----", "------", "------", "----", "---", "--------")

	tickRate := flagFPS
	if tickRate <= 0 {
		tickRate = core.DefaultConfig().TickRate
	}
	ticker := time.NewTicker(time.Second / time.Duration(tickRate))
	defer ticker.Stop()

	retries := flagSimRetries
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Stopped on level %d (%v)\n", ride.Level(), context.Cause(ctx))
			return 0

		case now := <-ticker.C:
			res := ride.Tick(now.Sub(last).Seconds(), now)
			last = now

			if o := res.Outcome; o != nil {
				fmt.Fprintf(out, "  %-5d  %-10s  %-8s  %7.1fs  %7.0f  %9.0f\n",
					o.Level, o.Result, o.Reason, o.Elapsed, o.AvgRPM, o.Distance)
				if store != nil {
					//nolint:errcheck // Best-effort save, the ride continues regardless
					store.SaveRide(storage.Ride{
						Rider: "sim", Level: o.Level, Result: o.Result, Reason: string(o.Reason),
						Elapsed: o.Elapsed, AvgRPM: o.AvgRPM, Distance: o.Distance,
					})
				}
			}

			switch res.Phase {
			case session.PhaseVictory:
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Victory!")
				return 0
			case session.PhaseGameOver:
				if retries == 0 {
					fmt.Fprintln(out)
					fmt.Fprintf(out, "Game over on level %d\n", ride.Level())
					return 1
				}
				retries--
				ride.MenuInput(core.ActionConfirm) // Restart the level
			}
		}
	}
}
