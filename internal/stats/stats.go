// Package stats provides the robust population statistics used to derive
// classification thresholds and noise-floor estimates.
//
// These are deliberately standalone pure functions so the cross-channel
// threshold maths can be tested without building a full trace pipeline.
package stats

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Median returns the middle value of xs. For even-length input it returns the
// mean of the two middle values. The input slice is not modified.
func Median(xs []float64) (float64, error) {
	n := len(xs)
	if n == 0 {
		return 0, fmt.Errorf("median of empty slice")
	}
	sorted := make([]float64, n)
	copy(sorted, xs)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2], nil
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2, nil
}

// MAD returns the median absolute deviation of xs about its median.
// A MAD of zero means at least half the values coincide with the median;
// callers that threshold on median+MAD must expect this for flat populations.
func MAD(xs []float64) (float64, error) {
	med, err := Median(xs)
	if err != nil {
		return 0, err
	}
	devs := make([]float64, len(xs))
	for i, x := range xs {
		d := x - med
		if d < 0 {
			d = -d
		}
		devs[i] = d
	}
	return Median(devs)
}

// MeanStdDev returns the mean and the sample standard deviation of xs.
func MeanStdDev(xs []float64) (mean, std float64) {
	return stat.MeanStdDev(xs, nil)
}

// StdDev returns the sample standard deviation of xs.
func StdDev(xs []float64) float64 {
	return stat.StdDev(xs, nil)
}

// LinearFit performs an ordinary least-squares fit of ys against xs and
// returns the intercept and slope. It requires at least two points; anything
// less cannot constrain a line.
func LinearFit(xs, ys []float64) (intercept, slope float64, err error) {
	if len(xs) != len(ys) {
		return 0, 0, fmt.Errorf("linear fit: length mismatch %d vs %d", len(xs), len(ys))
	}
	if len(xs) < 2 {
		return 0, 0, fmt.Errorf("linear fit: need at least 2 points, got %d", len(xs))
	}
	intercept, slope = stat.LinearRegression(xs, ys, nil, false)
	return intercept, slope, nil
}

// Percentile returns the p-th percentile (0..100) of xs using the empirical
// distribution. The input slice is not modified.
func Percentile(xs []float64, p float64) (float64, error) {
	if len(xs) == 0 {
		return 0, fmt.Errorf("percentile of empty slice")
	}
	if p < 0 || p > 100 {
		return 0, fmt.Errorf("percentile %f out of range [0,100]", p)
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	return stat.Quantile(p/100, stat.Empirical, sorted, nil), nil
}
