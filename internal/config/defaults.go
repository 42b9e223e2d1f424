package config

import (
	_ "embed"
)

//go:embed defaults/nimbus.yaml
var defaultNimbusYAML []byte

// DefaultNimbusConfig returns the default Nimbus Block configuration.
func DefaultNimbusConfig() NimbusConfig {
	return NimbusConfig{
		Timing: NimbusTiming{
			DropIntervalMs:    1000,
			MinDropIntervalMs: 120,
			MissionBannerMs:   2000,
			Smoothing:         0.2,
		},
		Queue: NimbusQueue{
			Preview: 5,
		},
		Audio: NimbusAudio{
			Enabled: true,
			Volume:  0.35,
		},
		Difficulty: DifficultyConfig{
			Enabled:      false,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 20000,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 4.0,
			},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "nimbus", "nimbus_endless":
		return defaultNimbusYAML
	default:
		return nil
	}
}
