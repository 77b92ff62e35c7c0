package trace

import (
	"fmt"
	"math"

	"github.com/neuroflux/trace.report/internal/stats"
)

// Event is one confirmed extremum: the sample index within the scanned
// trace, the corresponding time-base value and the amplitude at the
// extremum.
type Event struct {
	Index     int
	Time      float64
	Amplitude float64
}

// EventRecord holds the ordered events detected on one channel. Maxima and
// minima strictly interleave in time: the detector confirms a maximum only
// after the signal has fallen delta below it, then seeks a minimum, and so
// on. Timestamps within each list are strictly increasing.
type EventRecord struct {
	Channel string
	Maxima  []Event
	Minima  []Event
}

// detector states.
const (
	seekingMax = iota
	seekingMin
)

// DetectEvents scans one trace with the hysteresis extremum detector.
// Running max and min candidates track the most extreme values seen since
// the last confirmation; a candidate is confirmed only once the signal
// deviates more than delta from it. Wiggles smaller than delta never emit an
// event, so a constant trace yields none.
func DetectEvents(x []float64, t TimeVector, delta float64) (maxima, minima []Event, err error) {
	if delta <= 0 {
		return nil, nil, fmt.Errorf("%w: delta %g, need > 0", ErrInvalidParameter, delta)
	}
	if len(t) != len(x) {
		return nil, nil, fmt.Errorf("%w: time vector length %d, trace length %d", ErrInvalidParameter, len(t), len(x))
	}

	runMax, runMin := math.Inf(-1), math.Inf(1)
	var maxPos, minPos int
	state := seekingMax

	for i, v := range x {
		if v > runMax {
			runMax, maxPos = v, i
		}
		if v < runMin {
			runMin, minPos = v, i
		}

		switch state {
		case seekingMax:
			if v < runMax-delta {
				maxima = append(maxima, Event{Index: maxPos, Time: t[maxPos], Amplitude: runMax})
				runMin, minPos = v, i
				state = seekingMin
			}
		case seekingMin:
			if v > runMin+delta {
				minima = append(minima, Event{Index: minPos, Time: t[minPos], Amplitude: runMin})
				runMax, maxPos = v, i
				state = seekingMax
			}
		}
	}
	return maxima, minima, nil
}

// DetectAll runs DetectEvents on every channel of m and returns one
// EventRecord per channel, in channel order.
func DetectAll(m *TraceMatrix, t TimeVector, delta float64, workers int) ([]EventRecord, error) {
	if err := t.Validate(m.Rows()); err != nil {
		return nil, err
	}
	records := make([]EventRecord, m.NumChannels())
	err := forEachChannel(m.NumChannels(), workers, func(c int) error {
		maxima, minima, err := DetectEvents(m.Channel(c), t, delta)
		if err != nil {
			return fmt.Errorf("channel %q: %w", m.Name(c), err)
		}
		records[c] = EventRecord{Channel: m.Name(c), Maxima: maxima, Minima: minima}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// CalibrateDelta derives the detector sensitivity from the noise floor of
// the corrected traces: multiplier times the mean per-channel sample
// standard deviation. A self-calibrating threshold tracks the dataset's
// noise level instead of relying on a fixed absolute value.
func CalibrateDelta(m *TraceMatrix, multiplier float64) (float64, error) {
	if multiplier <= 0 {
		return 0, fmt.Errorf("%w: delta multiplier %g, need > 0", ErrInvalidParameter, multiplier)
	}
	var sum float64
	for c := 0; c < m.NumChannels(); c++ {
		sum += stats.StdDev(m.Channel(c))
	}
	delta := multiplier * sum / float64(m.NumChannels())
	if delta <= 0 || math.IsNaN(delta) {
		return 0, fmt.Errorf("%w: degenerate noise floor, derived delta %g", ErrInvalidParameter, delta)
	}
	return delta, nil
}
