package trace

import "fmt"

// WaveformWindow is a fixed-length slice of a trace centered on one detected
// peak, used for event shape comparison and averaging.
type WaveformWindow struct {
	Channel   string
	PeakIndex int // index of the peak within the scanned trace
	Samples   []float64
}

// ExtractWaveforms cuts a window of length samples around every detected
// maximum: [peak-length/2+1, peak+length/2] in the trace the events were
// detected on. Peaks whose window would run past either end of the trace are
// skipped, trading boundary events for alignment simplicity. Zero surviving
// windows is an error: downstream shape averaging has nothing to work with.
func ExtractWaveforms(m *TraceMatrix, records []EventRecord, length int) ([]WaveformWindow, error) {
	if length <= 0 || length%2 != 0 {
		return nil, fmt.Errorf("%w: waveform length %d, need a positive even value", ErrInvalidParameter, length)
	}
	if len(records) != m.NumChannels() {
		return nil, fmt.Errorf("%w: %d event records for %d channels", ErrInvalidParameter, len(records), m.NumChannels())
	}

	half := length / 2
	var windows []WaveformWindow
	for c, rec := range records {
		x := m.Channel(c)
		for _, ev := range rec.Maxima {
			start := ev.Index - half + 1
			end := ev.Index + half // inclusive
			if start < 0 || end >= len(x) {
				continue
			}
			samples := make([]float64, length)
			copy(samples, x[start:end+1])
			windows = append(windows, WaveformWindow{
				Channel:   rec.Channel,
				PeakIndex: ev.Index,
				Samples:   samples,
			})
		}
	}
	if len(windows) == 0 {
		return nil, fmt.Errorf("%w: no peak had room for a %d-sample window", ErrEmptyPopulation, length)
	}
	return windows, nil
}
