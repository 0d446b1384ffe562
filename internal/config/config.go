// Package config provides YAML-based ride configuration loading for
// pedalrun: physics tuning, rider size, cadence filter and session timing.
package config

// RideConfig contains all configuration for a ride.
type RideConfig struct {
	Physics PhysicsConfig `yaml:"physics"`
	Player  PlayerConfig  `yaml:"player"`
	Cadence CadenceConfig `yaml:"cadence"`
	Session SessionConfig `yaml:"session"`
}

// PhysicsConfig defines world and collision parameters.
type PhysicsConfig struct {
	TileSize       float64 `yaml:"tile_size"`        // World units per tile edge
	Gravity        float64 `yaml:"gravity"`          // World units/sec², negative = down
	Deceleration   float64 `yaml:"deceleration"`     // World units/sec² when pedaling slows
	LaunchFactor   float64 `yaml:"launch_factor"`    // Ramp vertical velocity per unit of speed
	MaxDt          float64 `yaml:"max_dt"`           // Largest simulated step, seconds
	ScanWindowRows int     `yaml:"scan_window_rows"` // 0 = scan the whole column
	FallMargin     float64 `yaml:"fall_margin"`      // Tiles below the floor before the rider is lost
	StepHeight     float64 `yaml:"step_height"`      // Tiles; lower Ground lips are stepped over
}

// PlayerConfig defines the rider's bounding box.
type PlayerConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// CadenceConfig defines how pedal pulses become speed.
type CadenceConfig struct {
	SmoothingAlpha float64 `yaml:"smoothing_alpha"`
	TimeoutMs      int     `yaml:"timeout_ms"`
	MinIntervalMs  int     `yaml:"min_interval_ms"` // Debounce; 0 = off
	MaxSpeed       float64 `yaml:"max_speed"`       // World units/sec at MaxRPM
	MaxRPM         float64 `yaml:"max_rpm"`
}

// SessionConfig defines level progression and timing.
type SessionConfig struct {
	LevelCompleteDelay float64 `yaml:"level_complete_delay"` // Seconds before the next transition
	MaxLevel           int     `yaml:"max_level"`            // 0 = every available level
	LevelsDir          string  `yaml:"levels_dir"`           // Overrides builtin levels by name
}
