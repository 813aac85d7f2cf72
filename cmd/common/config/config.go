// Package config loads dotdash defaults from ~/.dotdash/config.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gigurra/dotdash/cmd/common"
	"github.com/gigurra/dotdash/pkg/assembler"
	"github.com/gigurra/dotdash/pkg/timing"
	"gopkg.in/yaml.v3"
)

const (
	EnvPath      = "DOTDASH_CONFIG"
	EnvWpm       = "DOTDASH_WPM"
	EnvFrequency = "DOTDASH_FREQUENCY"
	EnvVolume    = "DOTDASH_VOLUME"
)

// Config holds the defaults command flags fall back to.
type Config struct {
	Wpm float64 `yaml:"wpm"`
	// FarnsworthWpm enables Farnsworth timing when > 0.
	FarnsworthWpm float64 `yaml:"farnsworth_wpm,omitempty"`
	FrequencyHz   float64 `yaml:"frequency_hz"`
	VolumePercent int     `yaml:"volume_percent"`
	OutputDir     string  `yaml:"output_dir,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Wpm:           assembler.DefaultWpm,
		FrequencyHz:   assembler.DefaultFrequencyHz,
		VolumePercent: assembler.DefaultVolume,
	}
}

// Path returns $DOTDASH_CONFIG, or ~/.dotdash/config.yaml.
func Path() string {
	if p := strings.TrimSpace(os.Getenv(EnvPath)); p != "" {
		return p
	}
	return filepath.Join(common.ConfigDir(), "config.yaml")
}

// Load reads the config from Path(). A missing file yields the defaults.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config at path, keeping defaults for keys the file
// leaves out, then applies environment overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to Path().
func Save(cfg *Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch {
	case !(c.Wpm > 0):
		return fmt.Errorf("wpm must be greater than 0, got %v", c.Wpm)
	case c.FarnsworthWpm < 0:
		return fmt.Errorf("farnsworth_wpm must not be negative, got %v", c.FarnsworthWpm)
	case !(c.FrequencyHz > 0):
		return fmt.Errorf("frequency_hz must be greater than 0, got %v", c.FrequencyHz)
	case c.VolumePercent < 0 || c.VolumePercent > 100:
		return fmt.Errorf("volume_percent must be between 0 and 100, got %d", c.VolumePercent)
	}
	return nil
}

// Timing builds the configured profile: Farnsworth if FarnsworthWpm is set, Paris otherwise.
func (c *Config) Timing() (timing.Profile, error) {
	return Profile(c.Wpm, c.FarnsworthWpm)
}

// Profile builds Paris timing at wpm, or Farnsworth timing when farnsworthWpm > 0.
func Profile(wpm, farnsworthWpm float64) (timing.Profile, error) {
	if farnsworthWpm > 0 {
		return timing.FromDualWpm(farnsworthWpm, wpm)
	}
	return timing.FromWpm(wpm)
}

func applyEnvOverrides(cfg *Config) {
	overrideFloat(&cfg.Wpm, EnvWpm)
	overrideFloat(&cfg.FrequencyHz, EnvFrequency)
	overrideInt(&cfg.VolumePercent, EnvVolume)
}

func overrideInt(target *int, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			*target = parsed
		}
	}
}

func overrideFloat(target *float64, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			*target = parsed
		}
	}
}

// WithOverrides returns a copy of c with every set value replaced. Zero
// speeds and frequencies and a negative volume count as unset.
func (c *Config) WithOverrides(wpm, farnsworthWpm, frequencyHz float64, volumePercent int) *Config {
	out := *c
	if wpm > 0 {
		out.Wpm = wpm
	}
	if farnsworthWpm > 0 {
		out.FarnsworthWpm = farnsworthWpm
	}
	if frequencyHz > 0 {
		out.FrequencyHz = frequencyHz
	}
	if volumePercent >= 0 {
		out.VolumePercent = volumePercent
	}
	return &out
}

// Assembler returns an assembler built for the configured timing, frequency and volume.
func (c *Config) Assembler() (*assembler.Assembler, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	p, err := c.Timing()
	if err != nil {
		return nil, err
	}
	return assembler.New(
		assembler.WithTiming(p),
		assembler.WithFrequency(c.FrequencyHz),
		assembler.WithVolume(c.VolumePercent),
	)
}
