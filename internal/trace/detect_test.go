package trace

import (
	"math"
	"testing"

	"github.com/neuroflux/trace.report/internal/synth"
	"github.com/neuroflux/trace.report/internal/testutil"
)

func TestDetectEventsConstantInput(t *testing.T) {
	x := make([]float64, 100)
	for i := range x {
		x[i] = 3
	}
	maxima, minima, err := DetectEvents(x, NewIndexTimeVector(100, 1), 0.5)
	testutil.AssertNoError(t, err)
	if len(maxima) != 0 || len(minima) != 0 {
		t.Fatalf("constant input produced %d maxima, %d minima", len(maxima), len(minima))
	}
}

func TestDetectEventsSineWave(t *testing.T) {
	// Five full periods of a unit sine: five maxima, and minima interleaved
	// between them.
	n, periods := 1000, 5
	x := make([]float64, n)
	for i := range x {
		x[i] = math.Sin(2 * math.Pi * float64(periods) * float64(i) / float64(n))
	}
	maxima, minima, err := DetectEvents(x, NewIndexTimeVector(n, 1), 0.5)
	testutil.AssertNoError(t, err)
	if len(maxima) != periods {
		t.Fatalf("got %d maxima, want %d", len(maxima), periods)
	}
	for _, ev := range maxima {
		if math.Abs(ev.Amplitude-1) > 1e-3 {
			t.Errorf("maximum amplitude %g, want ~1", ev.Amplitude)
		}
	}
	for _, ev := range minima {
		if math.Abs(ev.Amplitude+1) > 1e-3 {
			t.Errorf("minimum amplitude %g, want ~-1", ev.Amplitude)
		}
	}
}

func TestDetectEventsAlternationInvariant(t *testing.T) {
	x := synth.Add(
		synth.SineBurst(600, 50, 100, 5),
		synth.SineBurst(600, 250, 100, 7),
		synth.SineBurst(600, 450, 100, 6),
		synth.Noise(600, 0.2, 11),
	)
	maxima, minima, err := DetectEvents(x, NewIndexTimeVector(600, 1), 1.5)
	testutil.AssertNoError(t, err)
	if len(maxima) == 0 {
		t.Fatal("expected events from burst train")
	}

	for i := 1; i < len(maxima); i++ {
		if maxima[i].Time <= maxima[i-1].Time {
			t.Fatalf("maxima timestamps not strictly increasing at %d", i)
		}
	}
	for i := 1; i < len(minima); i++ {
		if minima[i].Time <= minima[i-1].Time {
			t.Fatalf("minima timestamps not strictly increasing at %d", i)
		}
	}
	// Each maximum is followed by a minimum before the next maximum.
	for i := 0; i < len(minima); i++ {
		if minima[i].Time <= maxima[i].Time {
			t.Fatalf("minimum %d at %g does not follow maximum at %g", i, minima[i].Time, maxima[i].Time)
		}
		if i+1 < len(maxima) && maxima[i+1].Time <= minima[i].Time {
			t.Fatalf("maximum %d at %g does not follow minimum at %g", i+1, maxima[i+1].Time, minima[i].Time)
		}
	}
	if len(minima) > len(maxima) || len(maxima) > len(minima)+1 {
		t.Fatalf("counts violate alternation: %d maxima, %d minima", len(maxima), len(minima))
	}
}

func TestDetectEventsRejectsBadInput(t *testing.T) {
	x := []float64{1, 2, 3}
	tv := NewIndexTimeVector(3, 1)

	_, _, err := DetectEvents(x, tv, 0)
	testutil.AssertErrorIs(t, err, ErrInvalidParameter)
	_, _, err = DetectEvents(x, tv, -1)
	testutil.AssertErrorIs(t, err, ErrInvalidParameter)
	_, _, err = DetectEvents(x, NewIndexTimeVector(2, 1), 1)
	testutil.AssertErrorIs(t, err, ErrInvalidParameter)
}

func TestDetectAll(t *testing.T) {
	m, err := NewTraceMatrix(
		[]string{"busy", "quiet"},
		[][]float64{
			synth.SineBurst(300, 100, 100, 5),
			make([]float64, 300),
		},
	)
	testutil.AssertNoError(t, err)

	records, err := DetectAll(m, NewIndexTimeVector(300, 1), 1, 2)
	testutil.AssertNoError(t, err)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Channel != "busy" || len(records[0].Maxima) != 1 {
		t.Errorf("busy channel: %d maxima, want 1", len(records[0].Maxima))
	}
	if len(records[1].Maxima) != 0 || len(records[1].Minima) != 0 {
		t.Errorf("quiet channel produced events")
	}
}

func TestCalibrateDelta(t *testing.T) {
	// Two channels with known sample stddevs; delta is the multiplier times
	// their mean.
	a := []float64{1, -1, 1, -1, 1, -1}
	b := []float64{2, -2, 2, -2, 2, -2}
	m, err := NewTraceMatrix([]string{"a", "b"}, [][]float64{a, b})
	testutil.AssertNoError(t, err)

	sa := stdDevOf(a)
	sb := stdDevOf(b)
	want := 2 * (sa + sb) / 2

	got, err := CalibrateDelta(m, 2)
	testutil.AssertNoError(t, err)
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("delta = %g, want %g", got, want)
	}

	_, err = CalibrateDelta(m, 0)
	testutil.AssertErrorIs(t, err, ErrInvalidParameter)

	// A flat recording has no noise floor to calibrate against.
	flat, _ := NewTraceMatrix([]string{"a"}, [][]float64{make([]float64, 10)})
	_, err = CalibrateDelta(flat, 2)
	testutil.AssertErrorIs(t, err, ErrInvalidParameter)
}

func stdDevOf(xs []float64) float64 {
	var mean float64
	for _, v := range xs {
		mean += v
	}
	mean /= float64(len(xs))
	var ss float64
	for _, v := range xs {
		ss += (v - mean) * (v - mean)
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}
