package audio

import (
	"path/filepath"
	"strings"
)

// Profile describes the container-level shape of a recording. It is computed
// once per file and used only to route the stereo/mono analysis paths.
type Profile struct {
	Channels        int     `json:"channels"`
	SampleRate      int     `json:"sample_rate"`
	DurationSeconds float64 `json:"duration_seconds"`
	SampleWidth     int     `json:"sample_width"` // bytes per sample
	FrameRate       int     `json:"frame_rate"`
	Format          string  `json:"format"` // container extension, e.g. ".wav"
}

// IsStereo reports whether the recording carries two channels.
func (p *Profile) IsStereo() bool {
	return p.Channels == 2
}

// DetectProfile decodes container metadata for the given file. It fails with
// a decoding error when the file cannot be opened or parsed; no further
// validation is performed.
func DetectProfile(path string) (*Profile, error) {
	reader, info, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return &Profile{
		Channels:        info.Channels,
		SampleRate:      info.SampleRate,
		DurationSeconds: info.Duration,
		SampleWidth:     info.BitDepth / 8,
		FrameRate:       info.SampleRate,
		Format:          strings.ToLower(filepath.Ext(path)),
	}, nil
}
