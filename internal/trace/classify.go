package trace

import (
	"fmt"

	"github.com/neuroflux/trace.report/internal/stats"
)

// ChannelPartition records the active/inactive split of a recording's
// channels together with the statistics that produced it. Active and
// Inactive hold channel indices into the classified matrix; together they
// cover every channel exactly once.
type ChannelPartition struct {
	Active   []int
	Inactive []int

	// Threshold is Median + MAD of the per-channel maxima; a channel is
	// active when its maximum strictly exceeds it.
	Threshold float64
	Median    float64
	MAD       float64

	// Maxima holds the per-channel maximum of the classified (corrected,
	// edge-cropped) traces, indexed like the input matrix.
	Maxima []float64

	// RawActive and RawInactive are the full-length raw columns of the two
	// populations. The refinement stage re-processes raw data, not the
	// first-pass corrected traces, so the partition carries both views.
	RawActive   *TraceMatrix
	RawInactive *TraceMatrix
}

// Classify splits channels into active and inactive populations by peak
// amplitude. corrected is the baseline-corrected, edge-cropped matrix used
// for the amplitude statistics; raw is the original uncorrected matrix with
// the same channel order, from which the partition's raw columns are taken.
//
// The threshold is robust to outliers: median + median absolute deviation of
// the per-channel maxima. An empty active population is an error, because
// every downstream stage operates on active channels.
func Classify(corrected, raw *TraceMatrix) (*ChannelPartition, error) {
	if corrected.NumChannels() != raw.NumChannels() {
		return nil, fmt.Errorf("%w: corrected has %d channels, raw has %d", ErrInvalidParameter, corrected.NumChannels(), raw.NumChannels())
	}

	n := corrected.NumChannels()
	maxima := make([]float64, n)
	for c := 0; c < n; c++ {
		maxima[c] = maxOf(corrected.Channel(c))
	}

	med, err := stats.Median(maxima)
	if err != nil {
		return nil, fmt.Errorf("%w: channel maxima: %v", ErrEmptyPopulation, err)
	}
	mad, err := stats.MAD(maxima)
	if err != nil {
		return nil, fmt.Errorf("%w: channel maxima: %v", ErrEmptyPopulation, err)
	}
	threshold := med + mad

	p := &ChannelPartition{
		Threshold: threshold,
		Median:    med,
		MAD:       mad,
		Maxima:    maxima,
	}
	for c := 0; c < n; c++ {
		if maxima[c] > threshold {
			p.Active = append(p.Active, c)
		} else {
			p.Inactive = append(p.Inactive, c)
		}
	}
	if len(p.Active) == 0 {
		return nil, fmt.Errorf("%w: no channel maximum exceeds threshold %.4f (median %.4f + MAD %.4f)", ErrEmptyPopulation, threshold, med, mad)
	}

	p.RawActive, err = raw.SelectChannels(p.Active)
	if err != nil {
		return nil, err
	}
	if len(p.Inactive) > 0 {
		p.RawInactive, err = raw.SelectChannels(p.Inactive)
		if err != nil {
			return nil, err
		}
	}
	return p, nil
}

func maxOf(xs []float64) float64 {
	m := xs[0]
	for _, v := range xs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
