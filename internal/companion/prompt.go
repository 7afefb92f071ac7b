package companion

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pbaille/nomi/internal/domain"
)

const (
	// PromptEntries is how many recent entries inform the daily prompt.
	PromptEntries = 5
	// PreviewRunes is how much of each entry the prompt request includes.
	PreviewRunes = 200
)

type entryPreview struct {
	Date    string `json:"date"`
	Preview string `json:"preview"`
}

// DailyPrompt asks the model for one reflection prompt informed by the last
// few entries. ErrNoText is returned when the model answers without text.
func (c *Client) DailyPrompt(ctx context.Context, entries []domain.Entry) (string, error) {
	text, err := c.Complete(ctx, buildPromptRequest(lastN(entries, PromptEntries)))
	if err != nil {
		return "", fmt.Errorf("daily prompt: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

func buildPromptRequest(recent []domain.Entry) string {
	var sb strings.Builder

	sb.WriteString("You are an empathetic journaling companion. Based on these recent journal entries ")
	sb.WriteString("(or lack thereof), generate ONE thoughtful, open-ended prompt to encourage reflection today. ")
	sb.WriteString("Make it warm, specific, and non-judgmental.\n\n")
	sb.WriteString("Recent entries: ")

	if len(recent) == 0 {
		sb.WriteString("No recent entries - this might be their first time journaling")
	} else {
		previews := make([]entryPreview, len(recent))
		for i, e := range recent {
			previews[i] = entryPreview{Date: e.Date, Preview: truncateRunes(e.Content, PreviewRunes)}
		}
		// []entryPreview of strings cannot fail to marshal
		b, _ := json.Marshal(previews)
		sb.Write(b)
	}

	sb.WriteString("\n\nReturn only the prompt, nothing else.")
	return sb.String()
}

func lastN(entries []domain.Entry, n int) []domain.Entry {
	if len(entries) <= n {
		return entries
	}
	return entries[len(entries)-n:]
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
