package diarize

import (
	"math"
	"testing"
)

func TestFrameRMS(t *testing.T) {
	tests := []struct {
		name     string
		samples  []float64
		frameLen int
		hopLen   int
		want     []float64
	}{
		{
			name:     "empty input yields no frames",
			samples:  nil,
			frameLen: 4,
			hopLen:   2,
			want:     nil,
		},
		{
			name:     "clip shorter than one frame yields one partial frame",
			samples:  []float64{0.5, 0.5},
			frameLen: 4,
			hopLen:   2,
			// rms([0.5, 0.5]) = 0.5
			want: []float64{0.5},
		},
		{
			name:     "constant signal gives constant rms",
			samples:  []float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5},
			frameLen: 4,
			hopLen:   2,
			// two full frames fit: [0:4] and [2:6]
			want: []float64{0.5, 0.5},
		},
		{
			name:     "partial tail frame is dropped",
			samples:  []float64{1, 1, 1, 1, 1, 1, 1}, // 7 samples
			frameLen: 4,
			hopLen:   2,
			// frames at 0 and 2; frame at 4 would need samples 4..7 (8 total)
			want: []float64{1, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := frameRMS(tt.samples, tt.frameLen, tt.hopLen)
			if len(got) != len(tt.want) {
				t.Fatalf("frameRMS() returned %d frames, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-9 {
					t.Errorf("frame %d: got %.6f, want %.6f", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestNormalizeRMS(t *testing.T) {
	t.Run("scales by the maximum", func(t *testing.T) {
		got := normalizeRMS([]float64{0.1, 0.2, 0.4})
		// max is 0.4, so normalized values are 0.25, 0.5, 1.0 (minus epsilon)
		want := []float64{0.25, 0.5, 1.0}
		for i := range got {
			if math.Abs(got[i]-want[i]) > 1e-6 {
				t.Errorf("index %d: got %.6f, want %.6f", i, got[i], want[i])
			}
		}
	})

	t.Run("all-zero input does not divide by zero", func(t *testing.T) {
		got := normalizeRMS([]float64{0, 0, 0})
		for i, v := range got {
			if math.IsNaN(v) || math.IsInf(v, 0) || v != 0 {
				t.Errorf("index %d: got %v, want 0", i, v)
			}
		}
	})
}

func TestAdaptiveThreshold(t *testing.T) {
	tests := []struct {
		name        string
		norm        []float64
		coefficient float64
		floor       float64
		want        float64
	}{
		{
			name:        "empty input falls back to floor",
			norm:        nil,
			coefficient: 0.5,
			floor:       0.05,
			want:        0.05,
		},
		{
			name:        "mean-derived threshold above floor",
			norm:        []float64{0.2, 0.4, 0.6}, // mean 0.4
			coefficient: 0.5,
			floor:       0.05,
			want:        0.2, // 0.5 * 0.4
		},
		{
			name:        "floor wins for near-silent clips",
			norm:        []float64{0.01, 0.02, 0.03}, // mean 0.02
			coefficient: 0.5,
			floor:       0.05,
			want:        0.05, // 0.5 * 0.02 = 0.01 < floor
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := adaptiveThreshold(tt.norm, tt.coefficient, tt.floor)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("adaptiveThreshold() = %.6f, want %.6f", got, tt.want)
			}
		})
	}
}

func TestSegmentsFromEnergy(t *testing.T) {
	const hop = 0.016 // 16 ms hop at 16 kHz

	tests := []struct {
		name      string
		norm      []float64
		threshold float64
		want      []Segment
	}{
		{
			name:      "all silent yields no segments",
			norm:      []float64{0.01, 0.02, 0.01},
			threshold: 0.05,
			want:      nil,
		},
		{
			name:      "single voiced span",
			norm:      []float64{0.01, 0.8, 0.9, 0.8, 0.01},
			threshold: 0.05,
			// active frames 1..3, span ends at (3+1)*hop
			want: []Segment{
				{Speaker: "speaker_1", Start: 1 * hop, End: 4 * hop, Confidence: 0.5},
			},
		},
		{
			name:      "two spans alternate speaker labels",
			norm:      []float64{0.8, 0.9, 0.01, 0.01, 0.8, 0.9, 0.01},
			threshold: 0.05,
			want: []Segment{
				{Speaker: "speaker_1", Start: 0, End: 2 * hop, Confidence: 0.5},
				{Speaker: "speaker_2", Start: 4 * hop, End: 6 * hop, Confidence: 0.5},
			},
		},
		{
			name:      "third span wraps back to speaker_1",
			norm:      []float64{0.8, 0.01, 0.8, 0.01, 0.8, 0.01},
			threshold: 0.05,
			want: []Segment{
				{Speaker: "speaker_1", Start: 0, End: 1 * hop, Confidence: 0.5},
				{Speaker: "speaker_2", Start: 2 * hop, End: 3 * hop, Confidence: 0.5},
				{Speaker: "speaker_1", Start: 4 * hop, End: 5 * hop, Confidence: 0.5},
			},
		},
		{
			name:      "trailing voiced span is closed at clip end",
			norm:      []float64{0.01, 0.01, 0.8, 0.9},
			threshold: 0.05,
			want: []Segment{
				{Speaker: "speaker_1", Start: 2 * hop, End: 4 * hop, Confidence: 0.5},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := segmentsFromEnergy(tt.norm, tt.threshold, hop)
			if len(got) != len(tt.want) {
				t.Fatalf("segmentsFromEnergy() returned %d segments, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i].Speaker != tt.want[i].Speaker {
					t.Errorf("segment %d: speaker %q, want %q", i, got[i].Speaker, tt.want[i].Speaker)
				}
				if math.Abs(got[i].Start-tt.want[i].Start) > 1e-9 {
					t.Errorf("segment %d: start %.4f, want %.4f", i, got[i].Start, tt.want[i].Start)
				}
				if math.Abs(got[i].End-tt.want[i].End) > 1e-9 {
					t.Errorf("segment %d: end %.4f, want %.4f", i, got[i].End, tt.want[i].End)
				}
				if got[i].Confidence != tt.want[i].Confidence {
					t.Errorf("segment %d: confidence %.2f, want %.2f", i, got[i].Confidence, tt.want[i].Confidence)
				}
			}
		})
	}
}

func TestSegmentsOrFallback(t *testing.T) {
	t.Run("silent clip yields one full-span low-confidence segment", func(t *testing.T) {
		got := segmentsOrFallback(nil, 45)
		if len(got) != 1 {
			t.Fatalf("got %d segments, want exactly 1", len(got))
		}
		want := Segment{Speaker: "speaker_1", Start: 0, End: 45, Confidence: 0.2}
		if got[0] != want {
			t.Errorf("fallback segment = %+v, want %+v", got[0], want)
		}
	})

	t.Run("voiced segments pass through unchanged", func(t *testing.T) {
		segments := []Segment{
			{Speaker: "speaker_1", Start: 0, End: 2, Confidence: 0.5},
			{Speaker: "speaker_2", Start: 3, End: 5, Confidence: 0.5},
		}
		got := segmentsOrFallback(segments, 10)
		if len(got) != 2 || got[0] != segments[0] || got[1] != segments[1] {
			t.Errorf("segmentsOrFallback() = %+v, want input unchanged", got)
		}
	})
}

func TestSegmentOrdering(t *testing.T) {
	// Segments must come out ordered and non-overlapping; alignment depends
	// on the first containing span.
	norm := []float64{0.8, 0.01, 0.9, 0.9, 0.01, 0.7, 0.01, 0.8}
	segments := segmentsFromEnergy(norm, 0.05, 0.016)

	for i := 1; i < len(segments); i++ {
		if segments[i].Start < segments[i-1].End {
			t.Errorf("segment %d starts at %.4f before previous ends at %.4f",
				i, segments[i].Start, segments[i-1].End)
		}
	}
	for i, s := range segments {
		if s.End < s.Start {
			t.Errorf("segment %d: end %.4f before start %.4f", i, s.End, s.Start)
		}
	}
}

func TestNewFillsZeroConfig(t *testing.T) {
	d := New(Config{})
	def := DefaultConfig()
	if d.cfg != def {
		t.Errorf("New(Config{}) config = %+v, want defaults %+v", d.cfg, def)
	}

	// Explicit values survive
	d = New(Config{FrameMs: 64, HopMs: 32, EnergyCoefficient: 0.7, EnergyFloor: 0.1})
	if d.cfg.FrameMs != 64 || d.cfg.HopMs != 32 {
		t.Errorf("explicit frame/hop were overridden: %+v", d.cfg)
	}
}
