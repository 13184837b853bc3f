// Package report renders call analysis results as markdown and JSON
// artifacts for the downstream audit pipeline.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/daialabs/callaudit/internal/analyzer"
	"github.com/daialabs/callaudit/internal/sentiment"
)

// RenderMarkdown produces a human-readable markdown report for one call.
func RenderMarkdown(res *analyzer.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Call Analysis: %s\n\n", res.Transcript.Filename)

	profile := res.AudioProfile
	if profile != nil {
		fmt.Fprintf(&b, "- Channels: %d\n", profile.Channels)
		fmt.Fprintf(&b, "- Sample rate: %d Hz\n", profile.SampleRate)
		fmt.Fprintf(&b, "- Duration: %s\n", secToTS(profile.DurationSeconds))
	}
	if res.Transcript.Language != "" {
		fmt.Fprintf(&b, "- Language: %s\n", res.Transcript.Language)
	}

	b.WriteString("\n## Roles\n\n")
	mapping := res.Transcript.RoleMapping
	fmt.Fprintf(&b, "- Operator: %s\n", orUnassigned(mapping.Operator))
	fmt.Fprintf(&b, "- Client: %s\n", orUnassigned(mapping.Client))
	fmt.Fprintf(&b, "- Strategy: `%s` (confidence %.2f)\n", mapping.Strategy, mapping.Confidence)
	if mapping.Uncertain {
		b.WriteString("- Uncertain: role assignment is low-confidence\n")
	}
	if mapping.Notes != "" {
		fmt.Fprintf(&b, "- Notes: %s\n", mapping.Notes)
	}

	b.WriteString("\n## Speaking balance\n\n")
	balance := res.Transcript.SpeakingBalance
	if balance.Quality == "no_data" {
		b.WriteString("No attributed words.\n")
	} else {
		fmt.Fprintf(&b, "- Operator: %.1f%% (%d words)\n", balance.OperatorPercentage, balance.OperatorWords)
		fmt.Fprintf(&b, "- Client: %.1f%% (%d words)\n", balance.ClientPercentage, balance.ClientWords)
		fmt.Fprintf(&b, "- Quality: `%s`\n", balance.Quality)
	}

	if line := sentimentLine(res.Transcript.SentimentByRole); line != "" {
		b.WriteString("\n## Sentiment\n\n")
		b.WriteString(line)
	}

	b.WriteString("\n## Transcript\n\n")
	if res.Transcript.Text == "" {
		b.WriteString("_(empty)_\n")
	} else {
		for _, line := range strings.Split(res.Transcript.Text, "\n") {
			fmt.Fprintf(&b, "%s\n\n", line)
		}
	}

	if len(res.Transcript.Segments) > 0 {
		b.WriteString("---\n\n## Segments\n\n")
		for _, s := range res.Transcript.Segments {
			fmt.Fprintf(&b, "[%s-%s] %s: %s\n\n",
				secToTS(s.Start), secToTS(s.End), s.Speaker, strings.TrimSpace(s.Text))
		}
	}

	return b.String()
}

// WriteMarkdown writes the markdown report next to the input file and
// returns the output path.
func WriteMarkdown(inputPath string, res *analyzer.Result) (string, error) {
	out := siblingPath(inputPath, ".analysis.md")
	if err := os.WriteFile(out, []byte(RenderMarkdown(res)), 0644); err != nil {
		return "", fmt.Errorf("failed to write markdown report: %w", err)
	}
	return out, nil
}

// WriteJSON writes the full result as indented JSON next to the input file
// and returns the output path.
func WriteJSON(inputPath string, res *analyzer.Result) (string, error) {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	out := siblingPath(inputPath, ".analysis.json")
	if err := os.WriteFile(out, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write JSON result: %w", err)
	}
	return out, nil
}

func sentimentLine(byRole analyzer.SentimentByRole) string {
	var parts []string
	appendVerdict := func(name string, v *sentiment.Verdict) {
		if v != nil {
			parts = append(parts, fmt.Sprintf("- %s: %s (%.2f)\n", name, v.Label, v.Score))
		}
	}
	appendVerdict("Operator", byRole.Operator)
	appendVerdict("Client", byRole.Client)
	appendVerdict("Overall", byRole.Overall)
	return strings.Join(parts, "")
}

func orUnassigned(s *string) string {
	if s == nil {
		return "_(unassigned)_"
	}
	return *s
}

func siblingPath(inputPath, suffix string) string {
	ext := ""
	if i := strings.LastIndex(inputPath, "."); i > strings.LastIndexAny(inputPath, "/\\") {
		ext = inputPath[i:]
	}
	return strings.TrimSuffix(inputPath, ext) + suffix
}

func secToTS(sec float64) string {
	d := time.Duration(sec*1000) * time.Millisecond
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
