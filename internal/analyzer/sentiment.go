package analyzer

import (
	"context"
	"strings"

	"github.com/daialabs/callaudit/internal/speaker"
)

// sentimentByRole invokes the classifier once per non-empty candidate text:
// operator-only, client-only, and the combined labeled transcript. Roles
// with no text stay nil; classifier errors propagate unmodified.
func (a *Analyzer) sentimentByRole(ctx context.Context, transcripts []speaker.Transcript, combined string) (SentimentByRole, error) {
	var out SentimentByRole
	if a.classifier == nil {
		return out, nil
	}

	operatorText := roleText(transcripts, speaker.RoleOperator)
	clientText := roleText(transcripts, speaker.RoleClient)

	if operatorText != "" {
		verdict, err := a.classifier.Classify(ctx, operatorText)
		if err != nil {
			return SentimentByRole{}, err
		}
		out.Operator = verdict
	}

	if clientText != "" {
		verdict, err := a.classifier.Classify(ctx, clientText)
		if err != nil {
			return SentimentByRole{}, err
		}
		out.Client = verdict
	}

	if strings.TrimSpace(combined) != "" {
		verdict, err := a.classifier.Classify(ctx, combined)
		if err != nil {
			return SentimentByRole{}, err
		}
		out.Overall = verdict
	}

	return out, nil
}

// roleText concatenates the text of every transcript holding the role.
func roleText(transcripts []speaker.Transcript, role string) string {
	var parts []string
	for _, entry := range transcripts {
		if entry.Role == role && strings.TrimSpace(entry.Text) != "" {
			parts = append(parts, entry.Text)
		}
	}
	return strings.Join(parts, " ")
}
