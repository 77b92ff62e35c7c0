package pipeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/neuroflux/trace.report/internal/trace"
)

// Result is the immutable record of one complete pipeline run: the exact
// parameters used, the derived detector sensitivity, and every stage output
// a downstream consumer (reporting, plotting, persistence — all external to
// this module) might need.
type Result struct {
	RunID     string
	StartedAt time.Time
	Elapsed   time.Duration
	Params    Params

	// Partition is the active/inactive channel split with its statistics.
	Partition *trace.ChannelPartition
	// Delta is the calibrated detector sensitivity for this dataset.
	Delta float64
	// Corrected is the refined, cropped active-channel matrix the detector
	// ran on; CorrectedTime is its re-indexed time base.
	Corrected     *trace.TraceMatrix
	CorrectedTime trace.TimeVector
	// Events holds one record per active channel, in Corrected's order.
	Events []trace.EventRecord
	// Waveforms are the aligned event windows across all active channels.
	Waveforms []trace.WaveformWindow
	// Metrics holds one row per active channel, in Corrected's order.
	Metrics []trace.MetricsRow
}

// Run executes the full pipeline over a recording. The input matrix and
// time vector are never modified; every stage produces a fresh structure.
// Errors surface at the first stage whose precondition fails — no stage
// substitutes defaults to keep going.
func Run(m *trace.TraceMatrix, t trace.TimeVector, p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("%w: nil trace matrix", trace.ErrInvalidParameter)
	}
	if err := t.Validate(m.Rows()); err != nil {
		return nil, err
	}

	res := &Result{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Params:    p,
	}
	diagf("run %s: %d channels x %d samples", res.RunID, m.NumChannels(), m.Rows())

	raw, err := trace.DropTrailingChannels(m, p.BackgroundChannels)
	if err != nil {
		return nil, err
	}

	// Stage 2: first-pass baseline removal over every channel.
	corrected, err := trace.CorrectBaseline(raw, t, p.BaselineWindow, p.Workers)
	if err != nil {
		return nil, fmt.Errorf("baseline: %w", err)
	}

	// Stage 3: classification on the edge-cropped corrected traces. The
	// first and last BaselineWindow/2 samples carry the extrapolated
	// baseline, so amplitude statistics exclude them.
	edge := p.BaselineWindow / 2
	croppedCorrected, err := corrected.Crop(edge)
	if err != nil {
		return nil, fmt.Errorf("classification crop: %w", err)
	}
	res.Partition, err = trace.Classify(croppedCorrected, raw)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	diagf("run %s: %d active / %d inactive, threshold %.4f (median %.4f + MAD %.4f)",
		res.RunID, len(res.Partition.Active), len(res.Partition.Inactive),
		res.Partition.Threshold, res.Partition.Median, res.Partition.MAD)
	if len(res.Partition.Inactive) == 0 {
		opsf("run %s: every channel classified active; threshold %.4f may be too low for this recording", res.RunID, res.Partition.Threshold)
	}

	// Stage 4: refined correction of the raw active channels.
	res.Corrected, res.CorrectedTime, err = trace.RefineActive(
		res.Partition.RawActive, t, p.ClipWindow, p.CorrectionWindow, p.Workers)
	if err != nil {
		return nil, fmt.Errorf("refine: %w", err)
	}

	// Stage 5: detection with a noise-calibrated sensitivity.
	res.Delta, err = trace.CalibrateDelta(res.Corrected, p.DeltaMultiplier)
	if err != nil {
		return nil, fmt.Errorf("calibrate delta: %w", err)
	}
	diagf("run %s: delta %.4f (%.1fx mean channel stddev)", res.RunID, res.Delta, p.DeltaMultiplier)
	res.Events, err = trace.DetectAll(res.Corrected, res.CorrectedTime, res.Delta, p.Workers)
	if err != nil {
		return nil, fmt.Errorf("detect: %w", err)
	}

	// Stage 6: aligned waveform windows around each detected maximum.
	res.Waveforms, err = trace.ExtractWaveforms(res.Corrected, res.Events, p.WaveformLength)
	if err != nil {
		return nil, fmt.Errorf("waveforms: %w", err)
	}

	// Stage 7: per-channel metrics over the post-crop duration.
	res.Metrics, err = trace.ComputeMetrics(res.Events, res.Corrected.Rows(), p.SampleRateHz, p.RateUnit)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	res.Elapsed = time.Since(res.StartedAt)
	diagf("run %s: %d waveform windows, finished in %s", res.RunID, len(res.Waveforms), res.Elapsed)
	return res, nil
}
