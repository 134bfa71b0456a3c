package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configFile = "strike.yaml"

// Load loads the shooter configuration.
// Search order: customPath -> ~/.strike/configs/strike.yaml -> ./configs/strike.yaml -> embedded default.
// Values missing from a file keep their defaults.
func Load(customPath string) (Config, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(configFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", configFile)); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := Parse(defaultYAML)
	if err != nil {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Parse decodes a YAML document on top of Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Marshal encodes the configuration as YAML.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".strike", "configs", filename)
}

// Validate reports configuration values the engine cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.World.Width <= 0 || c.World.Height <= 0 {
		errs = append(errs, fmt.Errorf("world size must be positive, got %vx%v", c.World.Width, c.World.Height))
	}
	if c.Player.Lives <= 0 {
		errs = append(errs, fmt.Errorf("player lives must be positive, got %d", c.Player.Lives))
	}
	if len(c.Maps) == 0 {
		errs = append(errs, errors.New("at least one map is required"))
	}
	if len(c.Enemies) == 0 {
		errs = append(errs, errors.New("at least one enemy template is required"))
	}
	normal := 0
	for _, b := range c.Bosses {
		if !b.Elite {
			normal++
		}
	}
	if normal == 0 {
		errs = append(errs, errors.New("at least one non-elite boss is required"))
	}
	if _, ok := c.Map(c.DefaultMap); !ok && len(c.Maps) > 0 {
		errs = append(errs, fmt.Errorf("default map %q is not defined", c.DefaultMap))
	}
	for _, e := range c.Enemies {
		switch e.Pattern {
		case "straight", "zigzag", "circular":
		default:
			errs = append(errs, fmt.Errorf("enemy %q: unknown pattern %q", e.Name, e.Pattern))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: invalid: %w", errors.Join(errs...))
	}
	return nil
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *Config, preset DifficultyPreset) {
	var lives int
	var rate float64
	switch preset {
	case DifficultyEasy:
		lives, rate = 35, 1.25
	case DifficultyHard:
		lives, rate = 15, 0.8
	default:
		return
	}

	cfg.Player.Lives = lives
	for i := range cfg.Maps {
		cfg.Maps[i].SpawnRateMS = int(float64(cfg.Maps[i].SpawnRateMS) * rate)
	}
}
