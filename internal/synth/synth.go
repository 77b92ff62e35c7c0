// Package synth builds deterministic synthetic fluorescence traces for tests
// and the tracesim demo binary. No recorded data ships with the repository;
// everything here is generated in memory.
package synth

import (
	"math"
	"math/rand"
)

// Ramp returns a linear trend: offset + slope*i.
func Ramp(n int, slope, offset float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = offset + slope*float64(i)
	}
	return out
}

// Noise returns uniform noise in [-amplitude, amplitude] from a fixed seed.
func Noise(n int, amplitude float64, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	for i := range out {
		out[i] = amplitude * (2*rng.Float64() - 1)
	}
	return out
}

// SineBurst returns a trace that is zero everywhere except for one full sine
// period of the given amplitude spanning [start, start+length). A single
// period produces exactly one maximum and one minimum.
func SineBurst(n, start, length int, amplitude float64) []float64 {
	out := make([]float64, n)
	for i := 0; i < length; i++ {
		idx := start + i
		if idx < 0 || idx >= n {
			continue
		}
		out[idx] = amplitude * math.Sin(2*math.Pi*float64(i)/float64(length))
	}
	return out
}

// Add sums any number of equal-length traces into a new slice.
func Add(traces ...[]float64) []float64 {
	if len(traces) == 0 {
		return nil
	}
	out := make([]float64, len(traces[0]))
	for _, tr := range traces {
		for i, v := range tr {
			out[i] += v
		}
	}
	return out
}

// BurstChannel is the standard "signaling cell" fixture: a sinusoidal burst
// riding on a linear ramp with a little uniform noise. The burst is kept
// narrow (60 samples) so it reads as a transient event rather than a trend
// the baseline filters would absorb.
func BurstChannel(n int, amplitude float64, seed int64) []float64 {
	return Add(
		Ramp(n, 0.01, 5),
		SineBurst(n, n/2-30, 60, amplitude),
		Noise(n, 0.1, seed),
	)
}

// NoiseChannel is the standard "quiet cell" fixture: the same ramp with
// sub-unit noise and no events.
func NoiseChannel(n int, seed int64) []float64 {
	return Add(
		Ramp(n, 0.01, 5),
		Noise(n, 0.5, seed),
	)
}
