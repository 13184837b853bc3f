package speaker

import "strings"

// Aggregate groups aligned segments into one transcript per speaker label,
// in order of first appearance. Text fragments are trimmed and joined with a
// single space; durations are clamped so malformed segments never subtract.
// Word counts are recomputed from the final joined text.
func Aggregate(segments []AlignedSegment) []Transcript {
	index := make(map[string]int)
	order := make([]string, 0, 2)
	fragments := make(map[string][]string)
	durations := make(map[string]float64)

	for _, seg := range segments {
		if _, ok := index[seg.Speaker]; !ok {
			index[seg.Speaker] = len(order)
			order = append(order, seg.Speaker)
		}

		if text := strings.TrimSpace(seg.Text); text != "" {
			fragments[seg.Speaker] = append(fragments[seg.Speaker], text)
		}
		if d := seg.End - seg.Start; d > 0 {
			durations[seg.Speaker] += d
		}
	}

	transcripts := make([]Transcript, 0, len(order))
	for _, label := range order {
		text := strings.Join(fragments[label], " ")
		transcripts = append(transcripts, Transcript{
			Speaker:   label,
			Text:      text,
			Duration:  durations[label],
			WordCount: len(strings.Fields(text)),
		})
	}

	return transcripts
}
