// Package ui provides the Bubbletea terminal user interface for callaudit
package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/daialabs/callaudit/internal/analyzer"
)

// FileStatus represents the analysis state of a single file
type FileStatus int

const (
	StatusQueued FileStatus = iota
	StatusAnalyzing
	StatusComplete
	StatusError
)

// FileProgress tracks progress for a single call recording
type FileProgress struct {
	InputPath string
	Status    FileStatus

	// Stage tracking
	Stage     string // analyzer.Stage* constant of the running stage
	StartTime time.Time

	// Completion results
	Result *analyzer.Result

	// Error tracking
	Error error
}

// Model is the Bubbletea model for the analysis UI
type Model struct {
	// File queue
	Files          []FileProgress
	CurrentIndex   int
	TotalFiles     int
	CompletedFiles int
	FailedFiles    int

	// Global state
	StartTime time.Time
	Done      bool

	// Terminal dimensions
	Width  int
	Height int
}

// NewModel creates a new UI model with the given input files
func NewModel(inputFiles []string) Model {
	files := make([]FileProgress, len(inputFiles))
	for i, path := range inputFiles {
		files[i] = FileProgress{
			InputPath: path,
			Status:    StatusQueued,
		}
	}

	return Model{
		Files:        files,
		CurrentIndex: -1, // No file analyzing yet
		TotalFiles:   len(inputFiles),
		StartTime:    time.Now(),
	}
}

// Init initializes the model. All progress arrives via Program.Send, so no
// initial command is needed.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case FileStartMsg:
		m.CurrentIndex = msg.FileIndex
		m.Files[m.CurrentIndex].Status = StatusAnalyzing
		m.Files[m.CurrentIndex].Stage = analyzer.StageProfiling
		m.Files[m.CurrentIndex].StartTime = time.Now()
		return m, nil

	case StageMsg:
		if msg.FileIndex >= 0 && msg.FileIndex < len(m.Files) {
			m.Files[msg.FileIndex].Stage = msg.Stage
		}
		return m, nil

	case FileCompleteMsg:
		if msg.FileIndex >= 0 && msg.FileIndex < len(m.Files) {
			m.Files[msg.FileIndex].Result = msg.Result
			m.Files[msg.FileIndex].Error = msg.Error

			if msg.Error != nil {
				m.Files[msg.FileIndex].Status = StatusError
				m.FailedFiles++
			} else {
				m.Files[msg.FileIndex].Status = StatusComplete
				m.CompletedFiles++
			}
		}
		return m, nil

	case AllCompleteMsg:
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the UI
func (m Model) View() string {
	if m.Width == 0 {
		return fmt.Sprintf("Initializing...\nFiles: %d\nCurrent: %d\n", len(m.Files), m.CurrentIndex)
	}

	if m.Done {
		return renderCompletionSummary(m)
	}

	return renderProcessingView(m)
}
