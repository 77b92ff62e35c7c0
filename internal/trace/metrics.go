package trace

import (
	"fmt"

	"github.com/neuroflux/trace.report/internal/stats"
	"github.com/neuroflux/trace.report/internal/units"
)

// minEventsForDispersion is the smallest event count for which the
// inter-event-interval spread is reported. Below it the interval sample is
// too small to be meaningful, so the value is omitted rather than zeroed.
const minEventsForDispersion = 4

// MetricsRow summarises one channel's detected activity. IEIStdDev is nil
// for channels with fewer than minEventsForDispersion events.
type MetricsRow struct {
	Channel    string
	EventCount int
	// FiringRate is events per unit time in the requested rate unit,
	// computed over the post-crop recording duration.
	FiringRate float64
	// IEIStdDev is the sample standard deviation of consecutive event time
	// differences, in the recording's time-base units.
	IEIStdDev *float64
}

// ComputeMetrics derives per-channel firing rate and inter-event-interval
// dispersion from detected maxima. rows is the post-crop sample count and
// sampleRateHz the original acquisition rate; together they give the
// duration of the analysed segment.
func ComputeMetrics(records []EventRecord, rows int, sampleRateHz float64, rateUnit string) ([]MetricsRow, error) {
	if rows <= 0 {
		return nil, fmt.Errorf("%w: %d samples", ErrInvalidParameter, rows)
	}
	if sampleRateHz <= 0 {
		return nil, fmt.Errorf("%w: sample rate %g Hz", ErrInvalidParameter, sampleRateHz)
	}
	if !units.IsValidRate(rateUnit) {
		return nil, fmt.Errorf("%w: rate unit %q, want one of %s", ErrInvalidParameter, rateUnit, units.ValidRateUnitsString())
	}

	durationSec := float64(rows) / sampleRateHz
	out := make([]MetricsRow, len(records))
	for i, rec := range records {
		row := MetricsRow{
			Channel:    rec.Channel,
			EventCount: len(rec.Maxima),
			FiringRate: units.ConvertRate(float64(len(rec.Maxima))/durationSec, rateUnit),
		}
		if len(rec.Maxima) >= minEventsForDispersion {
			intervals := make([]float64, len(rec.Maxima)-1)
			for j := 1; j < len(rec.Maxima); j++ {
				intervals[j-1] = rec.Maxima[j].Time - rec.Maxima[j-1].Time
			}
			sd := stats.StdDev(intervals)
			row.IEIStdDev = &sd
		}
		out[i] = row
	}
	return out, nil
}
