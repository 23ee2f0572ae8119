package monitor

import (
	"context"
	"fmt"
	"strings"

	"heavyhaul-assistant/internal/llm"
)

const summarySystemPrompt = "You are a proactive voice assistant for heavy haul logistics. " +
	"Summarize the following alerts into a brief, natural spoken notification. " +
	"Prioritize critical alerts. Keep it concise — under 3 sentences if possible. " +
	"Start with 'I have an update for you.' or similar attention-getting phrase. " +
	"Do not use bullet points or formatting — this will be spoken aloud."

// Summary generates a natural spoken summary of pending alerts. It returns
// empty when nothing is pending, and falls back to the highest-priority
// alert's message when the model is unavailable.
func (m *Monitor) Summary(ctx context.Context) string {
	pending := m.PendingAlerts()
	if len(pending) == 0 {
		return ""
	}

	top := pending
	if len(top) > 5 {
		top = top[:5]
	}
	var lines []string
	for i, a := range top {
		lines = append(lines, fmt.Sprintf("%d. [%s] %s", i+1, a.Priority, a.Message))
	}

	messages := []llm.Message{
		{Role: "system", Content: summarySystemPrompt},
		{Role: "user", Content: fmt.Sprintf("Summarize these alerts for the %s:\n%s", m.user.Role, strings.Join(lines, "\n"))},
	}

	summary, err := m.chat.CompleteFast(ctx, messages)
	if err != nil || strings.TrimSpace(summary) == "" {
		if err != nil {
			m.logger.Errorf("Error generating proactive summary: %v", err)
		}
		return pending[0].Message
	}
	return strings.TrimSpace(summary)
}
