package ui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/daialabs/callaudit/internal/analyzer"
)

func TestNewModel(t *testing.T) {
	m := NewModel([]string{"a.wav", "b.wav"})

	if m.TotalFiles != 2 || len(m.Files) != 2 {
		t.Fatalf("model tracks %d/%d files, want 2", m.TotalFiles, len(m.Files))
	}
	if m.CurrentIndex != -1 {
		t.Errorf("current index = %d, want -1 before any file starts", m.CurrentIndex)
	}
	for i, f := range m.Files {
		if f.Status != StatusQueued {
			t.Errorf("file %d status = %v, want queued", i, f.Status)
		}
	}
	// All progress arrives via Program.Send; no initial command
	if cmd := m.Init(); cmd != nil {
		t.Error("Init() returned a command, want nil")
	}
}

func TestModelUpdateMessageFlow(t *testing.T) {
	m := NewModel([]string{"a.wav", "b.wav"})

	apply := func(msg tea.Msg) tea.Cmd {
		updated, cmd := m.Update(msg)
		m = updated.(Model)
		return cmd
	}

	if cmd := apply(FileStartMsg{FileIndex: 0, FileName: "a.wav"}); cmd != nil {
		t.Error("FileStartMsg returned a command, want nil")
	}
	if m.CurrentIndex != 0 || m.Files[0].Status != StatusAnalyzing {
		t.Errorf("after start: index=%d status=%v", m.CurrentIndex, m.Files[0].Status)
	}
	if m.Files[0].Stage != analyzer.StageProfiling {
		t.Errorf("initial stage = %q, want %q", m.Files[0].Stage, analyzer.StageProfiling)
	}

	apply(StageMsg{FileIndex: 0, Stage: analyzer.StageTranscribing})
	if m.Files[0].Stage != analyzer.StageTranscribing {
		t.Errorf("stage = %q, want %q", m.Files[0].Stage, analyzer.StageTranscribing)
	}

	apply(FileCompleteMsg{FileIndex: 0, Result: &analyzer.Result{}})
	if m.Files[0].Status != StatusComplete || m.CompletedFiles != 1 {
		t.Errorf("after complete: status=%v completed=%d", m.Files[0].Status, m.CompletedFiles)
	}

	apply(FileStartMsg{FileIndex: 1, FileName: "b.wav"})
	apply(FileCompleteMsg{FileIndex: 1, Error: errors.New("decode failed")})
	if m.Files[1].Status != StatusError || m.FailedFiles != 1 {
		t.Errorf("after failure: status=%v failed=%d", m.Files[1].Status, m.FailedFiles)
	}

	apply(AllCompleteMsg{})
	if !m.Done {
		t.Error("model not done after AllCompleteMsg")
	}
}

func TestModelIgnoresOutOfRangeIndices(t *testing.T) {
	m := NewModel([]string{"a.wav"})

	updated, _ := m.Update(StageMsg{FileIndex: 5, Stage: analyzer.StageDiarizing})
	m = updated.(Model)
	updated, _ = m.Update(FileCompleteMsg{FileIndex: -1})
	m = updated.(Model)

	if m.CompletedFiles != 0 || m.FailedFiles != 0 {
		t.Errorf("counters moved for out-of-range indices: %+v", m)
	}
}
