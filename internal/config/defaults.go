package config

import (
	_ "embed"
)

//go:embed defaults/ride.yaml
var defaultRideYAML []byte

// DefaultRideConfig returns the default ride configuration.
func DefaultRideConfig() RideConfig {
	return RideConfig{
		Physics: PhysicsConfig{
			TileSize:       64,
			Gravity:        -980,
			Deceleration:   200,
			LaunchFactor:   0.5,
			MaxDt:          0.1,
			ScanWindowRows: 0,
			FallMargin:     2,
			StepHeight:     0.5,
		},
		Player: PlayerConfig{
			Width:  48,
			Height: 32,
		},
		Cadence: CadenceConfig{
			SmoothingAlpha: 0.2,
			TimeoutMs:      1500,
			MinIntervalMs:  0,
			MaxSpeed:       500,
			MaxRPM:         300,
		},
		Session: SessionConfig{
			LevelCompleteDelay: 2.0,
			MaxLevel:           0,
			LevelsDir:          "",
		},
	}
}
