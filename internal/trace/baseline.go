package trace

import "fmt"

// CorrectBaselineChannel removes the slow trend from one channel: a centered
// moving average of width w estimates the baseline, its edges are filled by
// linear extrapolation, and the result is the raw series minus that
// baseline. Output length equals input length.
func CorrectBaselineChannel(x []float64, t TimeVector, w int) ([]float64, error) {
	if len(t) != len(x) {
		return nil, fmt.Errorf("%w: time vector length %d, trace length %d", ErrInvalidParameter, len(t), len(x))
	}
	baseline, err := smoothWithTrendEdges(x, t, w)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = v - baseline[i]
	}
	return out, nil
}

// CorrectBaseline applies CorrectBaselineChannel to every channel of m and
// returns a new matrix of the same shape. workers bounds the per-channel
// fan-out; <= 0 uses one worker per CPU.
func CorrectBaseline(m *TraceMatrix, t TimeVector, w, workers int) (*TraceMatrix, error) {
	if err := t.Validate(m.Rows()); err != nil {
		return nil, err
	}
	out := make([][]float64, m.NumChannels())
	err := forEachChannel(m.NumChannels(), workers, func(c int) error {
		corrected, err := CorrectBaselineChannel(m.Channel(c), t, w)
		if err != nil {
			return fmt.Errorf("channel %q: %w", m.Name(c), err)
		}
		out[c] = corrected
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &TraceMatrix{names: m.names, samples: out, cropOffset: m.cropOffset}, nil
}
