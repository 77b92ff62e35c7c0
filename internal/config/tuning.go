package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/neuroflux/trace.report/internal/units"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig represents the root configuration for pipeline tuning
// parameters. Fields omitted from the JSON file retain their default
// values, so partial configs are safe.
type TuningConfig struct {
	// Filter params
	BaselineWindow   *int `json:"baseline_window,omitempty"`   // samples, first-pass moving average
	ClipWindow       *int `json:"clip_window,omitempty"`       // samples, clip-pass moving average
	CorrectionWindow *int `json:"correction_window,omitempty"` // samples, second-pass moving average and crop

	// Detector params
	DeltaMultiplier *float64 `json:"delta_multiplier,omitempty"` // multiple of mean channel stddev
	WaveformLength  *int     `json:"waveform_length,omitempty"`  // samples, even

	// Acquisition params
	SampleRateHz       *float64 `json:"sample_rate_hz,omitempty"`
	RateUnit           *string  `json:"rate_unit,omitempty"` // per-second, per-minute, per-hour
	BackgroundChannels *int     `json:"background_channels,omitempty"`

	// Execution params
	Workers *int `json:"workers,omitempty"` // 0 = one per CPU
}

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from the defaults file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the
// max file size.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	// Validate the config file path.
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse JSON into empty config. The Get* methods provide fallback
	// defaults for any fields not specified in the JSON.
	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	if c.BaselineWindow != nil && *c.BaselineWindow < 2 {
		return fmt.Errorf("baseline_window must be >= 2 samples, got %d", *c.BaselineWindow)
	}
	if c.ClipWindow != nil && *c.ClipWindow < 2 {
		return fmt.Errorf("clip_window must be >= 2 samples, got %d", *c.ClipWindow)
	}
	if c.CorrectionWindow != nil && *c.CorrectionWindow < 2 {
		return fmt.Errorf("correction_window must be >= 2 samples, got %d", *c.CorrectionWindow)
	}
	if c.DeltaMultiplier != nil && *c.DeltaMultiplier <= 0 {
		return fmt.Errorf("delta_multiplier must be positive, got %f", *c.DeltaMultiplier)
	}
	if c.WaveformLength != nil {
		if *c.WaveformLength <= 0 || *c.WaveformLength%2 != 0 {
			return fmt.Errorf("waveform_length must be a positive even sample count, got %d", *c.WaveformLength)
		}
	}
	if c.SampleRateHz != nil && *c.SampleRateHz <= 0 {
		return fmt.Errorf("sample_rate_hz must be positive, got %f", *c.SampleRateHz)
	}
	if c.RateUnit != nil && !units.IsValidRate(*c.RateUnit) {
		return fmt.Errorf("rate_unit must be one of %s, got %q", units.ValidRateUnitsString(), *c.RateUnit)
	}
	if c.BackgroundChannels != nil && *c.BackgroundChannels < 0 {
		return fmt.Errorf("background_channels must be non-negative, got %d", *c.BackgroundChannels)
	}
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}
	return nil
}

// GetBaselineWindow returns the baseline_window value or the default.
func (c *TuningConfig) GetBaselineWindow() int {
	if c.BaselineWindow == nil {
		return 100
	}
	return *c.BaselineWindow
}

// GetClipWindow returns the clip_window value or the default.
func (c *TuningConfig) GetClipWindow() int {
	if c.ClipWindow == nil {
		return 30
	}
	return *c.ClipWindow
}

// GetCorrectionWindow returns the correction_window value or the default.
// The default is sized well above typical event widths: the clip pass keeps
// the raw trace through an event's trough, and the correction average must
// spread that leak thinly enough that the subtracted baseline cannot push a
// rebound past the calibrated detector delta.
func (c *TuningConfig) GetCorrectionWindow() int {
	if c.CorrectionWindow == nil {
		return 100
	}
	return *c.CorrectionWindow
}

// GetDeltaMultiplier returns the delta_multiplier value or the default.
func (c *TuningConfig) GetDeltaMultiplier() float64 {
	if c.DeltaMultiplier == nil {
		return 2.0
	}
	return *c.DeltaMultiplier
}

// GetWaveformLength returns the waveform_length value or the default.
func (c *TuningConfig) GetWaveformLength() int {
	if c.WaveformLength == nil {
		return 60
	}
	return *c.WaveformLength
}

// GetSampleRateHz returns the sample_rate_hz value or the default.
func (c *TuningConfig) GetSampleRateHz() float64 {
	if c.SampleRateHz == nil {
		return 10.0
	}
	return *c.SampleRateHz
}

// GetRateUnit returns the rate_unit value or the default.
func (c *TuningConfig) GetRateUnit() string {
	if c.RateUnit == nil {
		return units.PerSecond
	}
	return *c.RateUnit
}

// GetBackgroundChannels returns the background_channels value or the default.
func (c *TuningConfig) GetBackgroundChannels() int {
	if c.BackgroundChannels == nil {
		return 0
	}
	return *c.BackgroundChannels
}

// GetWorkers returns the workers value or the default.
func (c *TuningConfig) GetWorkers() int {
	if c.Workers == nil {
		return 0 // one worker per CPU
	}
	return *c.Workers
}
