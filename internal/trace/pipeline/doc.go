// Package pipeline orchestrates the trace processing stages.
//
// It wires baseline removal, activity classification, refined correction,
// peak detection, waveform extraction and metrics into a single Run call.
// The pipeline does not own domain logic — it delegates to the trace
// package and only handles stage ordering, parameter plumbing and the
// per-run record.
package pipeline
