package trace

import "fmt"

// RefineChannel applies the two-stage robust correction to one raw active
// channel.
//
// Clip pass: a centered moving average of width clipW estimates a first
// baseline; its edge samples are the raw values themselves. Wherever the raw
// value sits below that smoothed curve, the raw value is kept instead —
// sparse positive-going events drag a plain moving average upward, and
// clipping to the raw signal suppresses that bias.
//
// Correction pass: a second moving average of width corrW over the clipped
// series, with linearly extrapolated edges, is subtracted from the raw
// trace. The result still carries extrapolation artifacts near the ends, so
// the caller crops corrW samples from both sides (see RefineActive).
func RefineChannel(x []float64, t TimeVector, clipW, corrW int) ([]float64, error) {
	if len(t) != len(x) {
		return nil, fmt.Errorf("%w: time vector length %d, trace length %d", ErrInvalidParameter, len(t), len(x))
	}

	smoothed, err := smoothWithRawEdges(x, clipW)
	if err != nil {
		return nil, err
	}
	clipped := make([]float64, len(x))
	for i, v := range x {
		if v < smoothed[i] {
			clipped[i] = v
		} else {
			clipped[i] = smoothed[i]
		}
	}

	baseline, err := smoothWithTrendEdges(clipped, t, corrW)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = v - baseline[i]
	}
	return out, nil
}

// RefineActive runs RefineChannel over every channel of the raw active
// matrix, crops corrW samples from both ends to discard the
// edge-extrapolation region, and re-indexes the time base starting at 1.
// The returned matrix records the crop in its offset, so cropped indices can
// be mapped back to original sample positions. Output length is input
// length minus 2*corrW.
func RefineActive(raw *TraceMatrix, t TimeVector, clipW, corrW, workers int) (*TraceMatrix, TimeVector, error) {
	if raw == nil || raw.NumChannels() == 0 {
		return nil, nil, fmt.Errorf("%w: no active channels to refine", ErrEmptyPopulation)
	}
	if err := t.Validate(raw.Rows()); err != nil {
		return nil, nil, err
	}
	rows := raw.Rows()
	if 2*corrW >= rows {
		return nil, nil, fmt.Errorf("%w: crop %d removes all of %d samples", ErrInvalidParameter, corrW, rows)
	}

	out := make([][]float64, raw.NumChannels())
	err := forEachChannel(raw.NumChannels(), workers, func(c int) error {
		refined, err := RefineChannel(raw.Channel(c), t, clipW, corrW)
		if err != nil {
			return fmt.Errorf("channel %q: %w", raw.Name(c), err)
		}
		cropped := make([]float64, rows-2*corrW)
		copy(cropped, refined[corrW:rows-corrW])
		out[c] = cropped
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	m := &TraceMatrix{names: raw.names, samples: out, cropOffset: raw.cropOffset + corrW}
	return m, NewIndexTimeVector(rows-2*corrW, 1), nil
}
