package speaker

import (
	"github.com/daialabs/callaudit/internal/diarize"
	"github.com/daialabs/callaudit/internal/transcribe"
)

// Align attributes each transcript segment to a diarized speaker span by
// midpoint containment. The result has exactly one entry per transcript
// segment, in the same order. A segment whose midpoint falls inside no span
// is attributed to speaker_1 with low confidence rather than dropped.
func Align(transcriptSegs []transcribe.Segment, diarized []diarize.Segment) []AlignedSegment {
	aligned := make([]AlignedSegment, 0, len(transcriptSegs))

	for _, ts := range transcriptSegs {
		midpoint := (ts.Start + ts.End) / 2

		speaker := "speaker_1"
		confidence := 0.3
		// First-match policy; diarizer construction guarantees non-overlap.
		for _, ds := range diarized {
			if ds.Start <= midpoint && midpoint <= ds.End {
				speaker = ds.Speaker
				confidence = ds.Confidence
				break
			}
		}

		aligned = append(aligned, AlignedSegment{
			Speaker:    speaker,
			Start:      ts.Start,
			End:        ts.End,
			Text:       ts.Text,
			Confidence: confidence,
		})
	}

	return aligned
}
