package level

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

//go:embed builtin/*.txt
var builtinFS embed.FS

// FileName returns the file name of level n (1-based), e.g. "level3.txt".
func FileName(n int) string {
	return fmt.Sprintf("level%d.txt", n)
}

// Source is the file-access collaborator that supplies level text by number.
// A directory on disk takes precedence over the embedded built-in levels, so
// authors can override or extend the set without rebuilding.
type Source struct {
	dir      string
	builtin  fs.FS
	tileSize float64
	logger   *log.Logger
}

// NewSource creates a level source. dir may be empty to use only the
// built-in levels. A nil logger discards log output.
func NewSource(dir string, tileSize float64, logger *log.Logger) *Source {
	sub, err := fs.Sub(builtinFS, "builtin")
	if err != nil {
		// embed paths are fixed at compile time
		panic(fmt.Sprintf("level: builtin levels: %v", err))
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Source{
		dir:      dir,
		builtin:  sub,
		tileSize: tileSize,
		logger:   logger,
	}
}

// Dir returns the override directory, or "" if none.
func (s *Source) Dir() string {
	return s.dir
}

// Read returns the raw text of level n.
// Search order: dir/level<n>.txt -> embedded builtin/level<n>.txt.
func (s *Source) Read(n int) ([]byte, error) {
	name := FileName(n)

	if s.dir != "" {
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err == nil {
			return data, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("level: cannot read %s: %w", name, err)
		}
	}

	data, err := fs.ReadFile(s.builtin, name)
	if err != nil {
		return nil, fmt.Errorf("level: %s not found: %w", name, err)
	}
	return data, nil
}

// Load reads and parses level n. It never fails: a missing or unreadable file
// yields the fallback grid, and parse warnings are logged.
func (s *Source) Load(n int) *Grid {
	name := FileName(n)

	data, err := s.Read(n)
	if err != nil {
		s.logger.Warn("level file unavailable, using fallback", "level", n, "error", err)
		g := Fallback(s.tileSize)
		g.name = name
		return g
	}

	g := Parse(string(data), WithTileSize(s.tileSize), WithName(name))
	for _, w := range g.Warnings() {
		s.logger.Warn("level parse", "file", name, "warning", w)
	}
	s.logger.Debug("level loaded", "file", name, "width", g.Width(), "height", g.Height(), "time_limit", g.TimeLimit())
	return g
}

// Count returns how many consecutive levels, starting at level1.txt, exist.
func (s *Source) Count() int {
	n := 0
	for s.exists(n + 1) {
		n++
	}
	return n
}

// exists reports whether level n can be read from either location.
func (s *Source) exists(n int) bool {
	name := FileName(n)
	if s.dir != "" {
		if _, err := os.Stat(filepath.Join(s.dir, name)); err == nil {
			return true
		}
	}
	_, err := fs.Stat(s.builtin, name)
	return err == nil
}
