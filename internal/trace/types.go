package trace

import "fmt"

// TraceMatrix holds a multi-channel recording: one intensity series per
// channel, all sharing the same sample count and time base. Stages treat a
// TraceMatrix as immutable and return new instances; callers must not modify
// slices obtained from Channel.
//
// cropOffset records how many samples have been removed from the front of
// the original recording, so indices into a cropped matrix can always be
// mapped back to original sample positions (see OriginalIndex).
type TraceMatrix struct {
	names      []string
	samples    [][]float64 // samples[c][i] = channel c, sample i
	cropOffset int
}

// NewTraceMatrix builds a matrix from named channel columns. All columns
// must be non-empty and share the same length.
func NewTraceMatrix(names []string, columns [][]float64) (*TraceMatrix, error) {
	if len(names) != len(columns) {
		return nil, fmt.Errorf("%w: %d channel names for %d columns", ErrInvalidParameter, len(names), len(columns))
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: no channels", ErrEmptyPopulation)
	}
	rows := len(columns[0])
	if rows == 0 {
		return nil, fmt.Errorf("%w: zero-length channels", ErrInvalidParameter)
	}
	for c, col := range columns {
		if len(col) != rows {
			return nil, fmt.Errorf("%w: channel %q has %d samples, want %d", ErrInvalidParameter, names[c], len(col), rows)
		}
	}
	return &TraceMatrix{names: names, samples: columns}, nil
}

// Rows returns the sample count shared by all channels.
func (m *TraceMatrix) Rows() int { return len(m.samples[0]) }

// NumChannels returns the channel count.
func (m *TraceMatrix) NumChannels() int { return len(m.samples) }

// Names returns the channel names in column order.
func (m *TraceMatrix) Names() []string { return m.names }

// Name returns the name of channel c.
func (m *TraceMatrix) Name(c int) string { return m.names[c] }

// Channel returns the sample series for channel c. The returned slice is
// backing storage; it must be treated as read-only.
func (m *TraceMatrix) Channel(c int) []float64 { return m.samples[c] }

// CropOffset returns the number of samples removed from the front of the
// original recording.
func (m *TraceMatrix) CropOffset() int { return m.cropOffset }

// OriginalIndex maps a sample index in this (possibly cropped) matrix back
// to the sample index in the original recording.
func (m *TraceMatrix) OriginalIndex(i int) int { return i + m.cropOffset }

// Crop returns a new matrix with n samples removed from both ends of every
// channel. The crop offset accumulates across repeated crops.
func (m *TraceMatrix) Crop(n int) (*TraceMatrix, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative crop %d", ErrInvalidParameter, n)
	}
	rows := m.Rows()
	if 2*n >= rows {
		return nil, fmt.Errorf("%w: crop %d removes all of %d samples", ErrInvalidParameter, n, rows)
	}
	out := make([][]float64, len(m.samples))
	for c, col := range m.samples {
		cropped := make([]float64, rows-2*n)
		copy(cropped, col[n:rows-n])
		out[c] = cropped
	}
	return &TraceMatrix{names: m.names, samples: out, cropOffset: m.cropOffset + n}, nil
}

// SelectChannels returns a new matrix containing only the channels at the
// given indices, in the given order.
func (m *TraceMatrix) SelectChannels(idx []int) (*TraceMatrix, error) {
	if len(idx) == 0 {
		return nil, fmt.Errorf("%w: no channels selected", ErrEmptyPopulation)
	}
	names := make([]string, len(idx))
	cols := make([][]float64, len(idx))
	for i, c := range idx {
		if c < 0 || c >= len(m.samples) {
			return nil, fmt.Errorf("%w: channel index %d out of range [0,%d)", ErrInvalidParameter, c, len(m.samples))
		}
		names[i] = m.names[c]
		col := make([]float64, len(m.samples[c]))
		copy(col, m.samples[c])
		cols[i] = col
	}
	return &TraceMatrix{names: names, samples: cols, cropOffset: m.cropOffset}, nil
}

// DropTrailingChannels returns a new matrix without the last n channels.
// Acquisition places background reference regions in the trailing columns;
// they are excluded before any processing.
func DropTrailingChannels(m *TraceMatrix, n int) (*TraceMatrix, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative background channel count %d", ErrInvalidParameter, n)
	}
	if n >= m.NumChannels() {
		return nil, fmt.Errorf("%w: dropping %d of %d channels leaves none", ErrEmptyPopulation, n, m.NumChannels())
	}
	if n == 0 {
		return m, nil
	}
	keep := make([]int, m.NumChannels()-n)
	for i := range keep {
		keep[i] = i
	}
	return m.SelectChannels(keep)
}

// TimeVector is the sample time base shared by all channels of a recording.
// Values are monotonically increasing; units are whatever the acquisition
// used (sample indices or seconds). It is never mutated after construction.
type TimeVector []float64

// NewIndexTimeVector returns a time vector of n samples numbered start,
// start+1, ... start+n-1.
func NewIndexTimeVector(n int, start float64) TimeVector {
	tv := make(TimeVector, n)
	for i := range tv {
		tv[i] = start + float64(i)
	}
	return tv
}

// Validate checks that the time vector matches the matrix row count and is
// strictly increasing.
func (tv TimeVector) Validate(rows int) error {
	if len(tv) != rows {
		return fmt.Errorf("%w: time vector has %d samples, trace has %d", ErrInvalidParameter, len(tv), rows)
	}
	for i := 1; i < len(tv); i++ {
		if tv[i] <= tv[i-1] {
			return fmt.Errorf("%w: time vector not strictly increasing at index %d", ErrInvalidParameter, i)
		}
	}
	return nil
}

// Crop returns a new time vector with n samples removed from both ends.
func (tv TimeVector) Crop(n int) (TimeVector, error) {
	if n < 0 || 2*n >= len(tv) {
		return nil, fmt.Errorf("%w: crop %d invalid for %d samples", ErrInvalidParameter, n, len(tv))
	}
	out := make(TimeVector, len(tv)-2*n)
	copy(out, tv[n:len(tv)-n])
	return out, nil
}
