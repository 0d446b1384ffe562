package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the ride config file name in the search directories.
const FileName = "ride.yaml"

// LoadRide loads the ride configuration.
// Search order: customPath -> ~/.pedalrun/configs/ride.yaml -> ./configs/ride.yaml -> embedded default
//
// Files are decoded over the defaults, so a partial file only overrides the
// keys it names.
func LoadRide(customPath string) (RideConfig, error) {
	cfg := DefaultRideConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(FileName); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if parsed, ok := decode(data); ok {
				return parsed, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", FileName)); err == nil {
		if parsed, ok := decode(data); ok {
			return parsed, nil
		}
	}

	// Use embedded default YAML
	if parsed, ok := decode(defaultRideYAML); ok {
		return parsed, nil
	}
	return DefaultRideConfig(), nil // Fallback to hardcoded if embed fails
}

// decode parses data over the defaults. A file that does not parse is
// skipped so the next location in the search order is tried.
func decode(data []byte) (RideConfig, bool) {
	cfg := DefaultRideConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RideConfig{}, false
	}
	return cfg, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	dir := UserDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "configs", filename)
}

// UserDir returns ~/.pedalrun, or empty if home is unavailable.
func UserDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pedalrun")
}

// Validate replaces values that would break the simulation with their
// defaults. It returns one message per adjusted field; an empty result means
// the config was used as is.
func (c *RideConfig) Validate() []string {
	def := DefaultRideConfig()
	var fixed []string

	fix := func(field string, bad bool, apply func()) {
		if bad {
			apply()
			fixed = append(fixed, field)
		}
	}

	p := &c.Physics
	fix("physics.tile_size", p.TileSize <= 0, func() { p.TileSize = def.Physics.TileSize })
	fix("physics.gravity", p.Gravity >= 0, func() { p.Gravity = def.Physics.Gravity })
	fix("physics.deceleration", p.Deceleration < 0, func() { p.Deceleration = def.Physics.Deceleration })
	fix("physics.launch_factor", p.LaunchFactor < 0, func() { p.LaunchFactor = def.Physics.LaunchFactor })
	fix("physics.max_dt", p.MaxDt <= 0, func() { p.MaxDt = def.Physics.MaxDt })
	fix("physics.scan_window_rows", p.ScanWindowRows < 0, func() { p.ScanWindowRows = 0 })
	fix("physics.fall_margin", p.FallMargin < 0, func() { p.FallMargin = def.Physics.FallMargin })
	fix("physics.step_height", p.StepHeight < 0 || p.StepHeight >= 1, func() { p.StepHeight = def.Physics.StepHeight })

	pl := &c.Player
	fix("player.width", pl.Width <= 0 || pl.Width > p.TileSize, func() { pl.Width = def.Player.Width * p.TileSize / def.Physics.TileSize })
	fix("player.height", pl.Height <= 0, func() { pl.Height = def.Player.Height * p.TileSize / def.Physics.TileSize })

	cd := &c.Cadence
	fix("cadence.smoothing_alpha", cd.SmoothingAlpha <= 0 || cd.SmoothingAlpha > 1, func() { cd.SmoothingAlpha = def.Cadence.SmoothingAlpha })
	fix("cadence.timeout_ms", cd.TimeoutMs <= 0, func() { cd.TimeoutMs = def.Cadence.TimeoutMs })
	fix("cadence.min_interval_ms", cd.MinIntervalMs < 0, func() { cd.MinIntervalMs = 0 })
	fix("cadence.max_speed", cd.MaxSpeed <= 0, func() { cd.MaxSpeed = def.Cadence.MaxSpeed })
	fix("cadence.max_rpm", cd.MaxRPM <= 0, func() { cd.MaxRPM = def.Cadence.MaxRPM })

	s := &c.Session
	fix("session.level_complete_delay", s.LevelCompleteDelay < 0, func() { s.LevelCompleteDelay = def.Session.LevelCompleteDelay })
	fix("session.max_level", s.MaxLevel < 0, func() { s.MaxLevel = 0 })

	return fixed
}
