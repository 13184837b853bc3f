package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/daialabs/callaudit/internal/analyzer"
)

// stageLabels maps pipeline stage names to display text
var stageLabels = map[string]string{
	analyzer.StageProfiling:    "Profiling audio",
	analyzer.StageSplitting:    "Splitting channels",
	analyzer.StageDiarizing:    "Detecting speakers",
	analyzer.StageTranscribing: "Transcribing",
	analyzer.StageAligning:     "Aligning speakers",
	analyzer.StageClassifying:  "Classifying sentiment",
}

// stageOrder drives the stage checklist for the active file
var stageOrder = []string{
	analyzer.StageProfiling,
	analyzer.StageSplitting,
	analyzer.StageDiarizing,
	analyzer.StageTranscribing,
	analyzer.StageAligning,
	analyzer.StageClassifying,
}

// renderProcessingView renders the main analysis view
func renderProcessingView(m Model) string {
	var b strings.Builder

	// Header
	b.WriteString(renderHeader(m))
	b.WriteString("\n\n")

	// File queue
	b.WriteString(renderFileQueue(m))
	b.WriteString("\n\n")

	// Overall progress
	b.WriteString(renderOverallProgress(m))

	return b.String()
}

// renderHeader renders the application header
func renderHeader(m Model) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#005F87")).
		Render("Callaudit 📞 - Call Recording Analyzer")

	subtitle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		Italic(true).
		Render(fmt.Sprintf("Analyzing %d file(s)", m.TotalFiles))

	return title + "\n" + subtitle
}

// renderFileQueue renders the list of files with their status
func renderFileQueue(m Model) string {
	var b strings.Builder

	for i, file := range m.Files {
		b.WriteString(renderFileEntry(file, i, m.CurrentIndex))
		b.WriteString("\n")
	}

	return b.String()
}

// renderFileEntry renders a single file entry in the queue
func renderFileEntry(file FileProgress, index int, currentIndex int) string {
	fileName := filepath.Base(file.InputPath)

	switch file.Status {
	case StatusComplete:
		// ✓ completed file with role summary
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00")).Render("✓")
		return fmt.Sprintf(" %s %s\n   %s", icon, fileName, completionLine(file.Result))

	case StatusAnalyzing:
		// ⚙ active file with stage checklist
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")).Render("⚙")
		return fmt.Sprintf(" %s %s\n%s", icon, fileName, renderFileDetails(file))

	case StatusError:
		// ✗ failed file
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#A40000")).Render("✗")
		return fmt.Sprintf(" %s %s\n   Error: %v", icon, fileName, file.Error)

	default:
		// ○ queued file
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Render("○")
		return fmt.Sprintf(" %s %s\n   Queued...", icon, fileName)
	}
}

// renderFileDetails renders the stage checklist for the active file
func renderFileDetails(file FileProgress) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#005F87")).
		Padding(0, 1).
		Width(60)

	var content strings.Builder

	current := stageIndex(file.Stage)
	for i, stage := range stageOrder {
		marker := "○"
		if i < current {
			marker = "✓"
		} else if i == current {
			marker = "▶"
		}
		content.WriteString(fmt.Sprintf("%s %s\n", marker, stageLabels[stage]))
	}

	elapsed := 0.0
	if !file.StartTime.IsZero() {
		elapsed = time.Since(file.StartTime).Seconds()
	}
	content.WriteString(fmt.Sprintf("\n⏱  Elapsed: %.1fs", elapsed))

	return box.Render(content.String())
}

// renderOverallProgress renders the overall progress footer
func renderOverallProgress(m Model) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#888888")).
		Padding(0, 1).
		Width(60)

	var content string
	if m.CurrentIndex >= 0 && m.CurrentIndex < len(m.Files) {
		currentFile := m.CurrentIndex + 1 // 1-indexed for display
		content = fmt.Sprintf("Analyzing file %d of %d (%d complete)",
			currentFile, m.TotalFiles, m.CompletedFiles)
	} else {
		content = fmt.Sprintf("Overall Progress: %d/%d complete", m.CompletedFiles, m.TotalFiles)
	}

	return box.Render(content)
}

// renderCompletionSummary renders the final completion summary
func renderCompletionSummary(m Model) string {
	var b strings.Builder

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00AA00")).
		Render("✨ Analysis Complete!")
	b.WriteString(header)
	b.WriteString("\n\n")

	for _, file := range m.Files {
		switch file.Status {
		case StatusComplete:
			b.WriteString(renderCompletedFile(file))
			b.WriteString("\n")
		case StatusError:
			icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#A40000")).Render("✗")
			b.WriteString(fmt.Sprintf(" %s %s\n   Error: %v\n", icon, filepath.Base(file.InputPath), file.Error))
		}
	}

	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", 60))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%d analyzed, %d failed\n", m.CompletedFiles, m.FailedFiles))

	return b.String()
}

// renderCompletedFile renders a summary for a completed file
func renderCompletedFile(file FileProgress) string {
	fileName := filepath.Base(file.InputPath)
	icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00")).Render("✓")
	return fmt.Sprintf(" %s %s\n   %s", icon, fileName, completionLine(file.Result))
}

// completionLine condenses the role and balance findings into one line
func completionLine(res *analyzer.Result) string {
	if res == nil {
		return "no result"
	}

	mapping := res.Transcript.RoleMapping
	operator := "unassigned"
	if mapping.Operator != nil {
		operator = *mapping.Operator
	}
	client := "unassigned"
	if mapping.Client != nil {
		client = *mapping.Client
	}

	line := fmt.Sprintf("Operator: %s | Client: %s | Confidence: %.2f",
		operator, client, mapping.Confidence)

	balance := res.Transcript.SpeakingBalance
	if balance.Quality != "" && balance.Quality != "no_data" {
		line += fmt.Sprintf(" | Balance: %.0f/%.0f (%s)",
			balance.OperatorPercentage, balance.ClientPercentage, balance.Quality)
	}

	return line
}

func stageIndex(stage string) int {
	for i, s := range stageOrder {
		if s == stage {
			return i
		}
	}
	return 0
}
