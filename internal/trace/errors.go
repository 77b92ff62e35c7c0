package trace

import "errors"

// Stage errors. Every error returned by a processing stage wraps one of
// these sentinels so callers can classify failures with errors.Is.
var (
	// ErrInvalidParameter marks rejected inputs: non-positive delta, window
	// sizes larger than the usable trace, mismatched vector lengths.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrEmptyPopulation marks a stage that cannot proceed because a required
	// population is empty: no active channels, no valid waveform windows.
	ErrEmptyPopulation = errors.New("empty population")

	// ErrInsufficientData marks edge extrapolation with too few interior
	// points to constrain a trend line.
	ErrInsufficientData = errors.New("insufficient data")
)
