package pipeline

import (
	"fmt"

	"github.com/neuroflux/trace.report/internal/config"
	"github.com/neuroflux/trace.report/internal/trace"
	"github.com/neuroflux/trace.report/internal/units"
)

// Params captures all configurable parameters for one pipeline run, so a
// Result can be reproduced from its recorded Params alone.
type Params struct {
	// BaselineWindow is the first-pass moving-average width in samples.
	BaselineWindow int
	// ClipWindow is the clip-pass moving-average width in samples.
	ClipWindow int
	// CorrectionWindow is the second-pass moving-average width in samples;
	// the same count is cropped from both ends of the corrected traces.
	CorrectionWindow int
	// DeltaMultiplier scales the mean per-channel standard deviation into
	// the detector sensitivity.
	DeltaMultiplier float64
	// WaveformLength is the aligned event window size in samples (even).
	WaveformLength int
	// SampleRateHz is the acquisition rate of the recording.
	SampleRateHz float64
	// RateUnit selects the firing-rate unit (see internal/units).
	RateUnit string
	// BackgroundChannels is the count of trailing background reference
	// columns to drop before processing.
	BackgroundChannels int
	// Workers bounds per-channel fan-out; 0 means one worker per CPU.
	Workers int
}

// DefaultParams returns the canonical defaults, matching
// config/tuning.defaults.json.
func DefaultParams() Params {
	return FromTuning(config.EmptyTuningConfig())
}

// FromTuning builds Params from a loaded TuningConfig, applying the
// config package's fallback defaults for any unset field.
func FromTuning(cfg *config.TuningConfig) Params {
	return Params{
		BaselineWindow:     cfg.GetBaselineWindow(),
		ClipWindow:         cfg.GetClipWindow(),
		CorrectionWindow:   cfg.GetCorrectionWindow(),
		DeltaMultiplier:    cfg.GetDeltaMultiplier(),
		WaveformLength:     cfg.GetWaveformLength(),
		SampleRateHz:       cfg.GetSampleRateHz(),
		RateUnit:           cfg.GetRateUnit(),
		BackgroundChannels: cfg.GetBackgroundChannels(),
		Workers:            cfg.GetWorkers(),
	}
}

// Validate rejects parameter combinations no stage could accept. Stage
// functions re-check their own inputs against the trace dimensions; this
// catches what is knowable before any data is seen.
func (p Params) Validate() error {
	if p.BaselineWindow < 2 {
		return fmt.Errorf("%w: baseline window %d, need >= 2", trace.ErrInvalidParameter, p.BaselineWindow)
	}
	if p.ClipWindow < 2 {
		return fmt.Errorf("%w: clip window %d, need >= 2", trace.ErrInvalidParameter, p.ClipWindow)
	}
	if p.CorrectionWindow < 2 {
		return fmt.Errorf("%w: correction window %d, need >= 2", trace.ErrInvalidParameter, p.CorrectionWindow)
	}
	if p.DeltaMultiplier <= 0 {
		return fmt.Errorf("%w: delta multiplier %g, need > 0", trace.ErrInvalidParameter, p.DeltaMultiplier)
	}
	if p.WaveformLength <= 0 || p.WaveformLength%2 != 0 {
		return fmt.Errorf("%w: waveform length %d, need a positive even value", trace.ErrInvalidParameter, p.WaveformLength)
	}
	if p.SampleRateHz <= 0 {
		return fmt.Errorf("%w: sample rate %g Hz, need > 0", trace.ErrInvalidParameter, p.SampleRateHz)
	}
	if !units.IsValidRate(p.RateUnit) {
		return fmt.Errorf("%w: rate unit %q, want one of %s", trace.ErrInvalidParameter, p.RateUnit, units.ValidRateUnitsString())
	}
	if p.BackgroundChannels < 0 {
		return fmt.Errorf("%w: background channel count %d", trace.ErrInvalidParameter, p.BackgroundChannels)
	}
	if p.Workers < 0 {
		return fmt.Errorf("%w: worker count %d", trace.ErrInvalidParameter, p.Workers)
	}
	return nil
}
