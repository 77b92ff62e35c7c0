// Package trace implements signal conditioning and event detection for
// multi-channel fluorescence intensity recordings.
//
// The processing stages are pure functions over immutable inputs: baseline
// removal (CorrectBaseline), active/inactive channel classification
// (Classify), second-pass robust correction of active channels
// (RefineActive), hysteresis peak detection (DetectEvents), aligned waveform
// extraction (ExtractWaveforms) and per-channel metrics (ComputeMetrics).
// Each stage returns a new result structure; nothing mutates a prior stage's
// output. Orchestration across stages lives in the pipeline subpackage.
package trace
