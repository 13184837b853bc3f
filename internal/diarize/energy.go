// Package diarize segments a single-channel recording into alternating
// speaker spans using frame-energy voice activity detection. It is a
// lightweight heuristic, not source separation: labels alternate by emission
// order and downstream role inference depends on that parity.
package diarize

import (
	"fmt"
	"math"
)

// AnalysisRate is the fixed sample rate all input is resampled to before
// energy analysis.
const AnalysisRate = 16000

// Config holds the energy-detection parameters. All values are injected so
// tests can pin them deterministically.
type Config struct {
	FrameMs           int     `yaml:"frame_ms"`
	HopMs             int     `yaml:"hop_ms"`
	EnergyCoefficient float64 `yaml:"energy_coefficient"` // multiplier on mean normalized RMS
	EnergyFloor       float64 `yaml:"energy_floor"`       // lower bound on the adaptive threshold
}

// DefaultConfig returns the production parameters: 32 ms frames on a 16 ms
// hop, threshold at half the mean normalized energy, floored at 0.05 so a
// near-silent clip never degenerates to a zero threshold.
func DefaultConfig() Config {
	return Config{
		FrameMs:           32,
		HopMs:             16,
		EnergyCoefficient: 0.5,
		EnergyFloor:       0.05,
	}
}

// Segment is one diarized speaker span. Start <= End always holds.
type Segment struct {
	Speaker    string  `json:"speaker"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"confidence"`
}

// EnergyDiarizer produces alternating-speaker voice spans from frame energy.
type EnergyDiarizer struct {
	cfg Config
}

// New returns a diarizer with the given configuration. Zero or negative
// frame/hop values fall back to the defaults.
func New(cfg Config) *EnergyDiarizer {
	def := DefaultConfig()
	if cfg.FrameMs <= 0 {
		cfg.FrameMs = def.FrameMs
	}
	if cfg.HopMs <= 0 {
		cfg.HopMs = def.HopMs
	}
	if cfg.EnergyCoefficient <= 0 {
		cfg.EnergyCoefficient = def.EnergyCoefficient
	}
	if cfg.EnergyFloor <= 0 {
		cfg.EnergyFloor = def.EnergyFloor
	}
	return &EnergyDiarizer{cfg: cfg}
}

// Diarize segments the recording at path into ordered speaker spans. The
// result is finite and recomputed per call. A clip with no voiced frames
// yields exactly one low-confidence segment spanning the whole clip.
func (d *EnergyDiarizer) Diarize(path string) ([]Segment, error) {
	samples, err := monoSamples(path, AnalysisRate)
	if err != nil {
		return nil, fmt.Errorf("failed to extract analysis samples: %w", err)
	}

	frameLen := AnalysisRate * d.cfg.FrameMs / 1000
	hopLen := AnalysisRate * d.cfg.HopMs / 1000

	rms := frameRMS(samples, frameLen, hopLen)
	norm := normalizeRMS(rms)
	threshold := adaptiveThreshold(norm, d.cfg.EnergyCoefficient, d.cfg.EnergyFloor)

	hopSeconds := float64(hopLen) / float64(AnalysisRate)
	segments := segmentsFromEnergy(norm, threshold, hopSeconds)

	duration := float64(len(samples)) / float64(AnalysisRate)
	return segmentsOrFallback(segments, duration), nil
}

// segmentsOrFallback substitutes the degenerate-clip result when no voiced
// span was found: exactly one full-span speaker_1 segment at low confidence.
func segmentsOrFallback(segments []Segment, duration float64) []Segment {
	if len(segments) > 0 {
		return segments
	}
	return []Segment{{Speaker: "speaker_1", Start: 0, End: duration, Confidence: 0.2}}
}

// frameRMS computes the root-mean-square energy of each analysis frame.
// Frames shorter than frameLen at the tail are dropped, matching the framing
// used when the thresholds were tuned; a clip shorter than one frame yields
// a single partial frame so short files still produce a reading.
func frameRMS(samples []float64, frameLen, hopLen int) []float64 {
	if len(samples) == 0 || frameLen <= 0 || hopLen <= 0 {
		return nil
	}
	if len(samples) < frameLen {
		return []float64{rms(samples)}
	}

	n := (len(samples)-frameLen)/hopLen + 1
	out := make([]float64, 0, n)
	for start := 0; start+frameLen <= len(samples); start += hopLen {
		out = append(out, rms(samples[start:start+frameLen]))
	}
	return out
}

func rms(samples []float64) float64 {
	var sumSquares float64
	for _, s := range samples {
		sumSquares += s * s
	}
	return math.Sqrt(sumSquares / float64(len(samples)))
}

// normalizeRMS scales energies by the maximum observed value. The epsilon
// keeps an all-zero clip from dividing by zero.
func normalizeRMS(rms []float64) []float64 {
	var max float64
	for _, v := range rms {
		if v > max {
			max = v
		}
	}

	out := make([]float64, len(rms))
	for i, v := range rms {
		out[i] = v / (max + 1e-9)
	}
	return out
}

// adaptiveThreshold derives the voicing threshold from the mean normalized
// energy, bounded below by the configured floor.
func adaptiveThreshold(norm []float64, coefficient, floor float64) float64 {
	if len(norm) == 0 {
		return floor
	}
	var sum float64
	for _, v := range norm {
		sum += v
	}
	mean := sum / float64(len(norm))
	return math.Max(coefficient*mean, floor)
}

// segmentsFromEnergy scans the normalized frame energies as a two-state
// machine and emits voiced spans. Speaker labels alternate strictly by
// emission order parity; this approximation must be preserved because role
// inference depends on it.
func segmentsFromEnergy(norm []float64, threshold, hopSeconds float64) []Segment {
	var segments []Segment

	active := false
	startFrame := 0
	lastActiveFrame := 0

	for idx, energy := range norm {
		if energy >= threshold && !active {
			active = true
			startFrame = idx
		}
		if energy >= threshold {
			lastActiveFrame = idx
		}
		if energy < threshold && active {
			segments = append(segments, buildSegment(startFrame, lastActiveFrame, hopSeconds, len(segments)))
			active = false
		}
	}

	// Close the trailing span when the clip ends while still voiced.
	if active {
		segments = append(segments, buildSegment(startFrame, lastActiveFrame, hopSeconds, len(segments)))
	}

	return segments
}

func buildSegment(startFrame, endFrame int, hopSeconds float64, idx int) Segment {
	speaker := "speaker_1"
	if idx%2 == 1 {
		speaker = "speaker_2"
	}
	return Segment{
		Speaker:    speaker,
		Start:      float64(startFrame) * hopSeconds,
		End:        float64(endFrame+1) * hopSeconds,
		Confidence: 0.5,
	}
}
