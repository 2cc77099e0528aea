// Package report builds the human-readable markdown report for a
// completed pipeline run.
package report

import (
	"fmt"
	"strings"

	"synod/pkg/domain"
)

// Build renders an outcome as markdown: the decision, the verdict
// history, and the analysis material it was grounded in.
func Build(instrument string, outcome *domain.Outcome) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s — %s\n\n", strings.ToUpper(instrument), strings.ToUpper(string(outcome.Decision.Action)))

	fmt.Fprintf(&sb, "- **Confidence:** %.0f%%\n", outcome.Decision.Confidence*100)
	fmt.Fprintf(&sb, "- **State:** %s", outcome.State)
	if outcome.Decision.Unverified {
		sb.WriteString(" (unverified: the reviewer never accepted this decision)")
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "- **Attempts:** %d of %d\n\n", outcome.Retry.Attempt, outcome.Retry.MaxAttempts)

	sb.WriteString("## Rationale\n\n")
	sb.WriteString(outcome.Decision.Rationale)
	sb.WriteString("\n\n")

	if len(outcome.Retry.History) > 0 {
		sb.WriteString("## Review history\n\n")
		for i, verdict := range outcome.Retry.History {
			fmt.Fprintf(&sb, "%d. **%s**", i+1, verdict.Outcome)
			if len(verdict.Reasons) > 0 {
				fmt.Fprintf(&sb, " — %s", strings.Join(verdict.Reasons, "; "))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	writeSection(&sb, "Debate synthesis", outcome.Final, domain.KeyDebateSynthesis)
	writeSection(&sb, "Risk assessment", outcome.Final, domain.KeyRiskReport)

	reports := []struct {
		title string
		key   string
	}{
		{"Technical", domain.KeyTechnical},
		{"Sentiment", domain.KeySentiment},
		{"News", domain.KeyNews},
		{"Fundamentals", domain.KeyFundamentals},
	}
	var present []string
	for _, r := range reports {
		if text := outcome.Final.String(r.key); text != "" {
			present = append(present, fmt.Sprintf("### %s\n\n%s\n", r.title, text))
		}
	}
	if len(present) > 0 {
		sb.WriteString("## Analyst reports\n\n")
		sb.WriteString(strings.Join(present, "\n"))
		sb.WriteString("\n")
	}

	if raw, ok := outcome.Final.Value(domain.KeyDebate); ok {
		if record, ok := raw.(domain.DebateRecord); ok && len(record) > 0 {
			sb.WriteString("## Debate transcript\n\n```\n")
			sb.WriteString(record.Transcript())
			sb.WriteString("```\n")
		}
	}

	return sb.String()
}

func writeSection(sb *strings.Builder, title string, view domain.Context, key string) {
	text := view.String(key)
	if text == "" {
		return
	}
	fmt.Fprintf(sb, "## %s\n\n%s\n\n", title, text)
}
