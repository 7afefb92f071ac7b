package companion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pbaille/nomi/internal/domain"
)

// InsightEntries is how many recent entries are analyzed.
const InsightEntries = 30

var validate = validator.New()

var fenceStripper = strings.NewReplacer("```json", "", "```", "")

type entryBody struct {
	Date    string `json:"date"`
	Content string `json:"content"`
}

// Analyze asks the model for an Insight over the most recent entries.
func (c *Client) Analyze(ctx context.Context, entries []domain.Entry) (*domain.Insight, error) {
	text, err := c.Complete(ctx, buildInsightRequest(lastN(entries, InsightEntries)))
	if errors.Is(err, ErrNoText) {
		text = "{}"
	} else if err != nil {
		return nil, fmt.Errorf("analyze entries: %w", err)
	}
	return ParseInsight(text)
}

func buildInsightRequest(recent []domain.Entry) string {
	bodies := make([]entryBody, len(recent))
	for i, e := range recent {
		bodies[i] = entryBody{Date: e.Date, Content: e.Content}
	}
	b, _ := json.Marshal(bodies)

	var sb strings.Builder
	sb.WriteString("Analyze these journal entries and provide insights. Return ONLY valid JSON with no markdown formatting:\n\n")
	sb.WriteString(`{
  "overallSentiment": "positive/neutral/mixed",
  "dominantEmotions": ["emotion1", "emotion2", "emotion3"],
  "recurringThemes": ["theme1", "theme2", "theme3"],
  "patterns": "2-3 sentence observation about patterns",
  "encouragement": "2-3 sentence encouraging reflection"
}`)
	sb.WriteString("\n\nEntries: ")
	sb.Write(b)
	return sb.String()
}

// ParseInsight decodes a model reply into an Insight. Code fences anywhere in
// the reply are removed first. The result must carry every field.
func ParseInsight(text string) (*domain.Insight, error) {
	clean := strings.TrimSpace(fenceStripper.Replace(text))

	var insight domain.Insight
	if err := json.Unmarshal([]byte(clean), &insight); err != nil {
		return nil, fmt.Errorf("parse json: %w (response: %s)", err, clean)
	}
	insight.OverallSentiment = insight.OverallSentiment.Normalize()

	if err := validate.Struct(insight); err != nil {
		return nil, formatValidationError(err)
	}
	return &insight, nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		switch e.Tag() {
		case "required", "min":
			msgs = append(msgs, e.Field()+" is missing")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of %s, got %q", e.Field(), e.Param(), e.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", e.Field(), e.Tag()))
		}
	}
	return fmt.Errorf("invalid insight: %s", strings.Join(msgs, "; "))
}
