package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pedalrun/internal/level"
)

var levelsCmd = &cobra.Command{
	Use:   "levels [file...]",
	Short: "List levels or check level files",
	Long: `Without arguments, lists the levels a ride goes through: the --levels
directory first, then the built-in levels.

With file arguments, parses each file and reports its size, spawn, time
limit, tile counts and any warnings. A file that does not parse to a usable
grid is reported as falling back to the default level.

Examples:
  pedalrun levels
  pedalrun levels --levels ./levels
  pedalrun levels ./levels/level4.txt`,
	Run: runLevels,
}

func runLevels(_ *cobra.Command, args []string) {
	logger := newLogger(os.Stderr, "pedalrun")
	cfg := loadRideConfig(logger)

	if len(args) > 0 {
		failed := false
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				failed = true
				continue
			}
			g := level.Parse(string(data), level.WithTileSize(cfg.Physics.TileSize), level.WithName(filepath.Base(path)))
			printLevel(0, g)
			if g.IsFallback() {
				failed = true
			}
		}
		if failed {
			os.Exit(1)
		}
		return
	}

	// Level parse warnings are printed below; keep the logger quiet
	src := level.NewSource(cfg.Session.LevelsDir, cfg.Physics.TileSize, nil)
	count := src.Count()
	if count == 0 {
		fmt.Println("No levels available.")
		return
	}

	if src.Dir() != "" {
		fmt.Printf("Levels (%s, then built-in):\n", src.Dir())
	} else {
		fmt.Println("Levels (built-in):")
	}
	fmt.Println()

	for n := 1; n <= count; n++ {
		printLevel(n, src.Load(n))
	}

	fmt.Println()
	fmt.Println("Run 'pedalrun play --level <n>' to ride a level.")
}

// printLevel prints one level summary; n is 0 for files given on the command line.
func printLevel(n int, g *level.Grid) {
	limit := "none"
	if g.TimeLimit() > 0 {
		limit = fmt.Sprintf("%.0fs", g.TimeLimit())
	}
	spawn := g.Spawn()

	prefix := "  "
	if n > 0 {
		prefix = fmt.Sprintf("  %2d. ", n)
	}
	fmt.Printf("%s%-14s %3dx%-3d spawn r%d c%d  time %-5s  ramps %d  lakes %d  goals %d\n",
		prefix, g.Name(), g.Width(), g.Height(), spawn.Row, spawn.Col, limit,
		g.Count(level.Ramp), g.Count(level.Hazard), g.Count(level.Goal))

	if g.IsFallback() {
		fmt.Println("        ! not a usable level, rides use the fallback grid")
	}
	for _, w := range g.Warnings() {
		fmt.Printf("        warning: %s\n", w)
	}
}
