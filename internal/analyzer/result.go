package analyzer

import (
	"github.com/daialabs/callaudit/internal/audio"
	"github.com/daialabs/callaudit/internal/sentiment"
	"github.com/daialabs/callaudit/internal/speaker"
)

// SentimentByRole holds one verdict per role plus the overall call. A nil
// entry means the role produced no text, so the classifier was never asked.
type SentimentByRole struct {
	Operator *sentiment.Verdict `json:"operator"`
	Client   *sentiment.Verdict `json:"client"`
	Overall  *sentiment.Verdict `json:"overall"`
}

// TranscriptResult is the transcript-level output of one call analysis.
// Segments is empty on the stereo path: each channel is already
// speaker-pure, so no alignment takes place.
type TranscriptResult struct {
	Filename            string                   `json:"filename"`
	Text                string                   `json:"text"`
	Language            string                   `json:"language"`
	Duration            float64                  `json:"duration"`
	CharCount           int                      `json:"char_count"`
	Segments            []speaker.AlignedSegment `json:"segments"`
	TranscriptBySpeaker []speaker.Transcript     `json:"transcript_by_speaker"`
	RoleMapping         speaker.RoleMapping      `json:"role_mapping"`
	SpeakingBalance     speaker.Balance          `json:"speaking_balance"`
	SentimentByRole     SentimentByRole          `json:"sentiment_by_role"`
}

// SpeakerSummary condenses the role and balance findings for reporting.
type SpeakerSummary struct {
	Speakers        []speaker.Transcript `json:"speakers"`
	RoleMapping     speaker.RoleMapping  `json:"role_mapping"`
	SentimentByRole SentimentByRole      `json:"sentiment_by_role"`
	SpeakingBalance speaker.Balance      `json:"speaking_balance"`
	AudioProfile    *audio.Profile       `json:"audio_profile"`
}

// Result is the full output of Analyzer.Process.
type Result struct {
	Transcript     TranscriptResult `json:"transcript"`
	AudioProfile   *audio.Profile   `json:"audio_profile"`
	SpeakerSummary SpeakerSummary   `json:"speaker_summary"`
}
