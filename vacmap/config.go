package vacmap

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadRenderConfig loads rendering parameters from a YAML file, layered
// over the defaults so a partial file only overrides what it names.
func LoadRenderConfig(path string) (RenderConfig, error) {
	cfg := DefaultRenderConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, fmt.Errorf("config file not found: %s", path)
		}
		return cfg, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config YAML: %w", err)
	}

	if cfg.Upscale < 1 {
		return cfg, fmt.Errorf("upscale must be at least 1, got %d", cfg.Upscale)
	}
	if cfg.MinRoomSize < 0 {
		return cfg, fmt.Errorf("min_room_size must not be negative, got %d", cfg.MinRoomSize)
	}
	if cfg.HatchSpacing < 1 {
		return cfg, fmt.Errorf("hatch_spacing must be at least 1, got %d", cfg.HatchSpacing)
	}

	return cfg, nil
}

// SaveRenderConfig writes the configuration to a YAML file.
func SaveRenderConfig(path string, cfg RenderConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
