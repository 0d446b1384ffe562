package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/pedalrun/internal/platform/tui"
	"github.com/vovakirdan/pedalrun/internal/storage"
)

var (
	flagRidesRider string
	flagRidesLimit int
	flagRidesBest  bool
	flagRidesTUI   bool
	flagRidesClear bool
)

var ridesCmd = &cobra.Command{
	Use:   "rides",
	Short: "Show the ride log",
	Long: `Display recent rides, best times per level and overall statistics.

Examples:
  pedalrun rides
  pedalrun rides --rider alice --limit 20
  pedalrun rides --best
  pedalrun rides --tui
  pedalrun rides --rider sim --clear`,
	Args: cobra.NoArgs,
	Run:  runRides,
}

func init() {
	ridesCmd.Flags().StringVar(&flagRidesRider, "rider", "", "Only show this rider (default: everyone)")
	ridesCmd.Flags().IntVar(&flagRidesLimit, "limit", 10, "Number of recent rides to show")
	ridesCmd.Flags().BoolVar(&flagRidesBest, "best", false, "Show best times per level only")
	ridesCmd.Flags().BoolVar(&flagRidesTUI, "tui", false, "Browse the ride log interactively")
	ridesCmd.Flags().BoolVar(&flagRidesClear, "clear", false, "Delete the rides of --rider (or every ride)")
}

func runRides(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ride log: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case flagRidesClear:
		err = clearRides(store)
	case flagRidesTUI:
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		err = tui.RunRides(store, flagRidesRider, width, height)
	case flagRidesBest:
		err = printBestTimes(store)
	default:
		if err = printRecentRides(store); err == nil {
			fmt.Println()
			err = printBestTimes(store)
		}
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func clearRides(store *storage.Store) error {
	if err := store.ClearRides(flagRidesRider); err != nil {
		return err
	}
	if flagRidesRider == "" {
		fmt.Println("Ride log cleared.")
	} else {
		fmt.Printf("Rides of %s cleared.\n", flagRidesRider)
	}
	return nil
}

func printRecentRides(store *storage.Store) error {
	rides, err := store.RecentRides(flagRidesRider, flagRidesLimit)
	if err != nil {
		return err
	}

	fmt.Println("Recent rides")
	fmt.Println()

	if len(rides) == 0 {
		fmt.Println("No rides recorded yet.")
		fmt.Println()
		fmt.Println("Run 'pedalrun play' to go for a ride!")
		return nil
	}

	fmt.Printf("  %-16s  %-10s  %-5s  %-20s  %8s  %5s\n", "Date", "Rider", "Level", "Result", "Time", "RPM")
	fmt.Printf("  %-16s  %-10s  %-5s  %-20s  %8s  %5s\n", "----", "-----", "-----", "------", "----", "---")
	for _, r := range rides {
		result := r.Result
		if r.Reason != "" {
			result = fmt.Sprintf("%s (%s)", r.Result, r.Reason)
		}
		fmt.Printf("  %-16s  %-10s  %-5d  %-20s  %7.1fs  %5.0f\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.Rider, r.Level, result, r.Elapsed, r.AvgRPM)
	}

	stats, err := store.Stats(flagRidesRider)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Printf("Total: %d rides, %d finished, %.1f min ridden, avg %.0f rpm\n",
		stats.Rides, stats.Finished, stats.TotalTime/60, stats.AvgRPM)
	return nil
}

func printBestTimes(store *storage.Store) error {
	bests, err := store.BestTimes()
	if err != nil {
		return err
	}

	fmt.Println("Best times")
	fmt.Println()

	if len(bests) == 0 {
		fmt.Println("No level finished yet.")
		return nil
	}

	fmt.Printf("  %-5s  %8s  %5s  %-10s  %s\n", "Level", "Time", "RPM", "Rider", "Date")
	fmt.Printf("  %-5s  %8s  %5s  %-10s  %s\n", "-----", "----", "---", "-----", "----")
	for _, b := range bests {
		fmt.Printf("  %-5d  %7.1fs  %5.0f  %-10s  %s\n",
			b.Level, b.Elapsed, b.AvgRPM, b.Rider, b.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
