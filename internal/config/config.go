// Package config provides YAML-based game configuration loading and
// difficulty management for Nimbus Block.
package config

// NimbusConfig contains all configuration for Nimbus Block.
type NimbusConfig struct {
	Timing     NimbusTiming     `yaml:"timing"`
	Queue      NimbusQueue      `yaml:"queue"`
	Audio      NimbusAudio      `yaml:"audio"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// NimbusTiming defines time-based parameters.
type NimbusTiming struct {
	DropIntervalMs    int     `yaml:"drop_interval_ms"`
	MinDropIntervalMs int     `yaml:"min_drop_interval_ms"`
	MissionBannerMs   int     `yaml:"mission_banner_ms"`
	Smoothing         float64 `yaml:"smoothing"` // render position lerp factor
}

// NimbusQueue defines the upcoming-piece preview.
type NimbusQueue struct {
	Preview int `yaml:"preview"` // 1..5
}

// NimbusAudio defines sound output.
type NimbusAudio struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"` // master gain, 0..1
}

// MaxPreview is the largest queue preview the game guarantees.
const MaxPreview = 5

// Normalize replaces out-of-range values with defaults.
func (c *NimbusConfig) Normalize() {
	def := DefaultNimbusConfig()

	if c.Timing.DropIntervalMs <= 0 {
		c.Timing.DropIntervalMs = def.Timing.DropIntervalMs
	}
	if c.Timing.MinDropIntervalMs <= 0 || c.Timing.MinDropIntervalMs > c.Timing.DropIntervalMs {
		c.Timing.MinDropIntervalMs = min(def.Timing.MinDropIntervalMs, c.Timing.DropIntervalMs)
	}
	if c.Timing.MissionBannerMs < 0 {
		c.Timing.MissionBannerMs = def.Timing.MissionBannerMs
	}
	if c.Timing.Smoothing <= 0 || c.Timing.Smoothing > 1 {
		c.Timing.Smoothing = def.Timing.Smoothing
	}
	if c.Queue.Preview < 1 || c.Queue.Preview > MaxPreview {
		c.Queue.Preview = def.Queue.Preview
	}
	c.Audio.Volume = clampF(c.Audio.Volume, 0, 1)
	c.Difficulty.InitialLevel = clampF(c.Difficulty.InitialLevel, 0, 1)
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Drop speed added at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset maps a flag value to a preset. ok is false for unknown names.
func ParsePreset(name string) (DifficultyPreset, bool) {
	switch p := DifficultyPreset(name); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, true
	default:
		return "", false
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
