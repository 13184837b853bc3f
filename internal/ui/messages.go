package ui

import (
	"github.com/daialabs/callaudit/internal/analyzer"
)

// StageMsg reports that the analyzer entered a new pipeline stage
type StageMsg struct {
	FileIndex int
	Stage     string // analyzer.Stage* constant
}

// FileStartMsg indicates a new file has started analysis
type FileStartMsg struct {
	FileIndex int
	FileName  string
}

// FileCompleteMsg indicates a file has finished analysis
type FileCompleteMsg struct {
	FileIndex int
	Result    *analyzer.Result
	Error     error
}

// AllCompleteMsg indicates all files have been analyzed
type AllCompleteMsg struct{}
