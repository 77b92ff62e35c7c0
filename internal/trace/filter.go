package trace

import (
	"fmt"

	"github.com/neuroflux/trace.report/internal/stats"
)

// movingAverage computes a centered moving average of width w over x using a
// running sum. It returns the smoothed series (same length as x) together
// with the valid interior range [lo, hi): indices outside the range are left
// as zero and must be filled by the caller. half = w/2 samples on each side
// are edge samples where a centered window does not fit.
func movingAverage(x []float64, w int) (smoothed []float64, lo, hi int, err error) {
	n := len(x)
	if w < 2 {
		return nil, 0, 0, fmt.Errorf("%w: moving average width %d, need >= 2", ErrInvalidParameter, w)
	}
	if w >= n {
		return nil, 0, 0, fmt.Errorf("%w: moving average width %d exceeds trace length %d", ErrInvalidParameter, w, n)
	}
	half := w / 2
	lo = half
	hi = n - half
	smoothed = make([]float64, n)

	// Running sum over the window x[i-half : i-half+w].
	var sum float64
	for i := 0; i < w; i++ {
		sum += x[i]
	}
	for i := lo; i < hi; i++ {
		smoothed[i] = sum / float64(w)
		next := i - half + w
		if next < n {
			sum += x[next] - x[i-half]
		}
	}
	return smoothed, lo, hi, nil
}

// extrapolateEdges fills the edge samples of smoothed (outside [lo,hi)) by
// fitting a line to the valid interior against the time base and evaluating
// it at the missing indices. Fails closed when fewer than two interior
// points exist: a line cannot be constrained, and emitting zeros would
// silently corrupt the baseline.
func extrapolateEdges(smoothed []float64, t TimeVector, lo, hi int) error {
	if hi-lo < 2 {
		return fmt.Errorf("%w: %d valid interior points, need >= 2 to extrapolate edges", ErrInsufficientData, hi-lo)
	}
	intercept, slope, err := stats.LinearFit(t[lo:hi], smoothed[lo:hi])
	if err != nil {
		return fmt.Errorf("%w: edge trend fit: %v", ErrInsufficientData, err)
	}
	for i := 0; i < lo; i++ {
		smoothed[i] = intercept + slope*t[i]
	}
	for i := hi; i < len(smoothed); i++ {
		smoothed[i] = intercept + slope*t[i]
	}
	return nil
}

// smoothWithTrendEdges is the shared baseline estimator: centered moving
// average of width w with linearly extrapolated edges.
func smoothWithTrendEdges(x []float64, t TimeVector, w int) ([]float64, error) {
	smoothed, lo, hi, err := movingAverage(x, w)
	if err != nil {
		return nil, err
	}
	if err := extrapolateEdges(smoothed, t, lo, hi); err != nil {
		return nil, err
	}
	return smoothed, nil
}

// smoothWithRawEdges computes a centered moving average of width w and copies
// the raw values verbatim into the edge samples instead of extrapolating.
// Used by the clip pass, which prefers real samples over a modelled trend at
// the boundaries.
func smoothWithRawEdges(x []float64, w int) ([]float64, error) {
	smoothed, lo, hi, err := movingAverage(x, w)
	if err != nil {
		return nil, err
	}
	copy(smoothed[:lo], x[:lo])
	copy(smoothed[hi:], x[hi:])
	return smoothed, nil
}
