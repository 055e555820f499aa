// Package config provides configuration helpers and TOML parsing.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/koch/internal/model"
	"github.com/verte-zerg/koch/internal/morse"
)

// Defaults for a fresh install.
const (
	DefaultCharWPM      = 20
	DefaultEffectiveWPM = 15
	DefaultToneHz       = 600.0
	DefaultSampleRate   = 44100
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Morse MorseConfig `toml:"morse"`
	Audio AudioConfig `toml:"audio"`
}

// MorseConfig maps speed and tone settings.
type MorseConfig struct {
	CharWPM      *int     `toml:"wpm"`
	EffectiveWPM *int     `toml:"effective-wpm"`
	ToneHz       *float64 `toml:"tone"`
	SampleRate   *int     `toml:"sample-rate"`
}

// AudioConfig maps output settings.
type AudioConfig struct {
	Mute *bool `toml:"mute"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// DefaultSettings returns settings with every default applied.
func DefaultSettings() model.Settings {
	return model.Settings{
		CharWPM:      DefaultCharWPM,
		EffectiveWPM: DefaultEffectiveWPM,
		ToneHz:       DefaultToneHz,
		SampleRate:   DefaultSampleRate,
	}
}

// Validate checks that all settings are within acceptable ranges.
func Validate(s model.Settings) error {
	var errs []error
	if err := morse.ValidateSpeed(s.CharWPM, s.EffectiveWPM); err != nil {
		errs = append(errs, err)
	}
	if s.SampleRate < 8000 || s.SampleRate > 192000 {
		errs = append(errs, fmt.Errorf("sample-rate must be between 8000 and 192000 Hz, got %d", s.SampleRate))
	}
	if s.ToneHz < 100 || s.ToneHz > 3000 {
		errs = append(errs, fmt.Errorf("tone must be between 100 and 3000 Hz, got %v", s.ToneHz))
	}
	if s.ToneHz >= float64(s.SampleRate)/2 {
		errs = append(errs, fmt.Errorf("tone (%v Hz) must be less than Nyquist frequency (%v Hz)", s.ToneHz, float64(s.SampleRate)/2))
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Template returns a commented config file documenting every key.
func Template() string {
	return fmt.Sprintf(`# koch configuration
# Uncomment a value to enable it. CLI flags override config values.

[morse]
# wpm = %d                # Character speed (words per minute)
# effective-wpm = %d      # Farnsworth effective speed (<= wpm)
# tone = %.1f            # Tone frequency (Hz)
# sample-rate = %d     # Output sample rate (Hz)

[audio]
# mute = false            # Disable sound output
`,
		DefaultCharWPM,
		DefaultEffectiveWPM,
		DefaultToneHz,
		DefaultSampleRate,
	)
}
