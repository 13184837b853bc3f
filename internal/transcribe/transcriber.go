// Package transcribe defines the speech-to-text collaborator consumed by the
// analysis pipeline. The engine itself (model loading, inference) lives
// behind the Transcriber interface.
package transcribe

import "context"

// Segment is a timestamped portion of transcribed audio.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Result is a transcription of one audio file. Segments is populated only
// when requested.
type Result struct {
	Text            string    `json:"text"`
	Language        string    `json:"language"`
	DurationSeconds float64   `json:"duration"`
	Segments        []Segment `json:"segments,omitempty"`
}

// Transcriber is a pluggable transcription backend. It must support
// per-channel invocation without segments and whole-file invocation with
// segment timestamps.
type Transcriber interface {
	Transcribe(ctx context.Context, path string, withSegments bool) (*Result, error)
}
