package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"

	"rvos/kernel/config"
)

// envPrefix is the prefix of the environment variables that override
// settings from the configuration file, e.g. LINKAPP_LAYOUT_APP_BASE.
const envPrefix = "LINKAPP"

// Config holds the settings of a linkapp run.
type Config struct {
	// Apps lists the application binaries. Entries may be doublestar
	// globs such as "user/target/**/*.bin".
	Apps []string `toml:"apps" yaml:"apps" envconfig:"APPS"`

	// Output is the file generated files are written to; "-" is stdout.
	Output string `toml:"output" yaml:"output" envconfig:"OUTPUT"`

	Layout LayoutConfig `toml:"layout" yaml:"layout"`
	Log    LogConfig    `toml:"log" yaml:"log"`
}

// LayoutConfig describes where images and applications are placed.
type LayoutConfig struct {
	// ImageBase is the physical address a packed image is loaded at.
	ImageBase uint64 `toml:"image_base" yaml:"image_base" envconfig:"IMAGE_BASE"`

	// AppBase is the address of the first application slot.
	AppBase uint64 `toml:"app_base" yaml:"app_base" envconfig:"APP_BASE"`

	// SlotSize is the distance between consecutive application slots.
	SlotSize uint64 `toml:"slot_size" yaml:"slot_size" envconfig:"SLOT_SIZE"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `toml:"level" yaml:"level" envconfig:"LEVEL"`
	Development bool   `toml:"development" yaml:"development" envconfig:"DEV"`
}

// defaultConfig returns the settings matching the kernel's built-in layout.
func defaultConfig() Config {
	return Config{
		Output: "-",
		Layout: LayoutConfig{
			ImageBase: 0x80220000,
			AppBase:   uint64(config.AppBaseAddress),
			SlotSize:  uint64(config.AppSizeLimit),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// loadConfig starts from the defaults, applies the configuration file at path
// (if not empty) and finally the LINKAPP_* environment variables.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}

		if err := decodeConfig(filepath.Ext(path), data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to load config from environment: %w", err)
	}

	return cfg, nil
}

func decodeConfig(ext string, data []byte, cfg *Config) error {
	switch ext {
	case ".toml":
		return toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
}
