package pipeline_test

import (
	"math"
	"testing"

	"github.com/neuroflux/trace.report/internal/synth"
	"github.com/neuroflux/trace.report/internal/testutil"
	"github.com/neuroflux/trace.report/internal/trace"
	"github.com/neuroflux/trace.report/internal/trace/pipeline"
	"github.com/neuroflux/trace.report/internal/units"
)

// burstScenario builds the reference recording: 1000 samples, channel 1
// carries a single sinusoidal burst of amplitude 10 over a linear ramp,
// channels 2 and 3 are sub-unit noise.
func burstScenario(t *testing.T) (*trace.TraceMatrix, trace.TimeVector) {
	t.Helper()
	const n = 1000
	m, err := trace.NewTraceMatrix(
		[]string{"cell-1", "cell-2", "cell-3"},
		[][]float64{
			synth.Add(synth.Ramp(n, 0.01, 5), synth.SineBurst(n, 400, 60, 10)),
			synth.Noise(n, 0.8, 21),
			synth.Noise(n, 0.8, 22),
		},
	)
	testutil.AssertNoError(t, err)
	return m, trace.NewIndexTimeVector(n, 1)
}

func TestRunEndToEnd(t *testing.T) {
	m, tv := burstScenario(t)
	p := pipeline.DefaultParams()

	res, err := pipeline.Run(m, tv, p)
	testutil.AssertNoError(t, err)

	if res.RunID == "" {
		t.Error("missing run ID")
	}

	// Only the burst channel is active.
	if len(res.Partition.Active) != 1 || res.Partition.Active[0] != 0 {
		t.Fatalf("active channels = %v, want [0]", res.Partition.Active)
	}
	if len(res.Partition.Inactive) != 2 {
		t.Fatalf("inactive channels = %v, want two", res.Partition.Inactive)
	}
	if got := res.Partition.RawActive.Names(); len(got) != 1 || got[0] != "cell-1" {
		t.Fatalf("raw active names = %v, want [cell-1]", got)
	}

	// Corrected traces: 1000 - 2*CorrectionWindow samples, re-indexed from 1.
	wantRows := 1000 - 2*p.CorrectionWindow
	if res.Corrected.Rows() != wantRows {
		t.Fatalf("corrected rows = %d, want %d", res.Corrected.Rows(), wantRows)
	}
	if res.CorrectedTime[0] != 1 {
		t.Errorf("corrected time starts at %g, want 1", res.CorrectedTime[0])
	}
	if res.Corrected.OriginalIndex(0) != p.CorrectionWindow {
		t.Errorf("OriginalIndex(0) = %d, want %d", res.Corrected.OriginalIndex(0), p.CorrectionWindow)
	}

	// Exactly one max/min pair from the burst.
	if len(res.Events) != 1 {
		t.Fatalf("got %d event records, want 1", len(res.Events))
	}
	ev := res.Events[0]
	if len(ev.Maxima) != 1 || len(ev.Minima) != 1 {
		t.Fatalf("got %d maxima, %d minima; want 1 and 1 (delta=%.3f)", len(ev.Maxima), len(ev.Minima), res.Delta)
	}
	if ev.Maxima[0].Amplitude < 7 {
		t.Errorf("burst maximum amplitude %g, want near 10", ev.Maxima[0].Amplitude)
	}
	if ev.Minima[0].Time <= ev.Maxima[0].Time {
		t.Error("minimum does not follow maximum")
	}

	// One aligned window of the configured length.
	if len(res.Waveforms) != 1 {
		t.Fatalf("got %d waveform windows, want 1", len(res.Waveforms))
	}
	if len(res.Waveforms[0].Samples) != p.WaveformLength {
		t.Errorf("window length %d, want %d", len(res.Waveforms[0].Samples), p.WaveformLength)
	}

	// Firing rate = 1 event over the post-crop duration; dispersion omitted.
	if len(res.Metrics) != 1 {
		t.Fatalf("got %d metrics rows, want 1", len(res.Metrics))
	}
	row := res.Metrics[0]
	wantRate := 1.0 / (float64(wantRows) / p.SampleRateHz)
	if math.Abs(row.FiringRate-wantRate) > 1e-12 {
		t.Errorf("firing rate = %g, want %g", row.FiringRate, wantRate)
	}
	if row.IEIStdDev != nil {
		t.Errorf("dispersion reported for a single event: %g", *row.IEIStdDev)
	}
}

func TestRunAllZerosIsEmptyPopulation(t *testing.T) {
	cols := make([][]float64, 4)
	names := make([]string, 4)
	for i := range cols {
		cols[i] = make([]float64, 1000)
		names[i] = string(rune('a' + i))
	}
	m, err := trace.NewTraceMatrix(names, cols)
	testutil.AssertNoError(t, err)

	_, err = pipeline.Run(m, trace.NewIndexTimeVector(1000, 1), pipeline.DefaultParams())
	testutil.AssertErrorIs(t, err, trace.ErrEmptyPopulation)
}

func TestRunDropsBackgroundChannels(t *testing.T) {
	const n = 1000
	m, err := trace.NewTraceMatrix(
		[]string{"cell-1", "cell-2", "cell-3", "background"},
		[][]float64{
			synth.Add(synth.Ramp(n, 0.01, 5), synth.SineBurst(n, 400, 60, 10)),
			synth.Noise(n, 0.8, 31),
			synth.Noise(n, 0.8, 32),
			synth.Add(synth.Ramp(n, 0.01, 5), synth.SineBurst(n, 300, 60, 50)),
		},
	)
	testutil.AssertNoError(t, err)

	p := pipeline.DefaultParams()
	p.BackgroundChannels = 1
	res, err := pipeline.Run(m, trace.NewIndexTimeVector(n, 1), p)
	testutil.AssertNoError(t, err)

	for _, name := range res.Partition.RawActive.Names() {
		if name == "background" {
			t.Fatal("background channel leaked into the active set")
		}
	}
	if len(res.Partition.Active)+len(res.Partition.Inactive) != 3 {
		t.Fatalf("partition covers %d channels, want 3", len(res.Partition.Active)+len(res.Partition.Inactive))
	}
}

func TestRunValidatesParams(t *testing.T) {
	m, tv := burstScenario(t)

	tests := []struct {
		name   string
		mutate func(*pipeline.Params)
	}{
		{"zero delta multiplier", func(p *pipeline.Params) { p.DeltaMultiplier = 0 }},
		{"odd waveform length", func(p *pipeline.Params) { p.WaveformLength = 61 }},
		{"tiny baseline window", func(p *pipeline.Params) { p.BaselineWindow = 1 }},
		{"zero sample rate", func(p *pipeline.Params) { p.SampleRateHz = 0 }},
		{"bad rate unit", func(p *pipeline.Params) { p.RateUnit = "per-fortnight" }},
		{"negative workers", func(p *pipeline.Params) { p.Workers = -1 }},
		{"negative background channels", func(p *pipeline.Params) { p.BackgroundChannels = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := pipeline.DefaultParams()
			tt.mutate(&p)
			_, err := pipeline.Run(m, tv, p)
			testutil.AssertErrorIs(t, err, trace.ErrInvalidParameter)
		})
	}
}

func TestRunRejectsOversizedWindows(t *testing.T) {
	m, tv := burstScenario(t)
	p := pipeline.DefaultParams()
	p.CorrectionWindow = 600 // crop would consume the whole trace
	_, err := pipeline.Run(m, tv, p)
	testutil.AssertErrorIs(t, err, trace.ErrInvalidParameter)
}

func TestRunRecordsParams(t *testing.T) {
	m, tv := burstScenario(t)
	p := pipeline.DefaultParams()
	p.RateUnit = units.PerMinute

	res, err := pipeline.Run(m, tv, p)
	testutil.AssertNoError(t, err)
	if res.Params != p {
		t.Errorf("result params %+v do not match run params %+v", res.Params, p)
	}
	if res.Delta <= 0 {
		t.Errorf("delta = %g, want > 0", res.Delta)
	}
}

func TestFromTuningDefaultsMatchDefaultParams(t *testing.T) {
	p := pipeline.DefaultParams()
	if p.BaselineWindow != 100 || p.CorrectionWindow != 100 || p.ClipWindow != 30 {
		t.Errorf("unexpected default windows: %+v", p)
	}
	if p.DeltaMultiplier != 2.0 || p.WaveformLength != 60 {
		t.Errorf("unexpected default detector params: %+v", p)
	}
	if p.RateUnit != units.PerSecond || p.SampleRateHz != 10.0 {
		t.Errorf("unexpected default acquisition params: %+v", p)
	}
	testutil.AssertNoError(t, p.Validate())
}
