package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/pbaille/nomi/internal/domain"
)

const longDateLayout = "Monday, January 2, 2006"

// LongDate formats "2024-01-02" as "Tuesday, January 2, 2024". Unparsable
// dates are returned unchanged.
func LongDate(date string) string {
	t, err := time.ParseInLocation(domain.DateLayout, date, time.Local)
	if err != nil {
		return date
	}
	return t.Format(longDateLayout)
}

// EntryTime is the local wall-clock time an entry was written.
func EntryTime(e domain.Entry) string {
	t := e.CreatedAt()
	if t.IsZero() {
		return e.Timestamp
	}
	return t.Local().Format("3:04:05 PM")
}

func renderHistory(th Theme, days []domain.DateGroup) string {
	var b strings.Builder
	b.WriteString(th.Heading.Render("Your Journey"))
	b.WriteString("\n\n")

	if len(days) == 0 {
		b.WriteString(th.Hint.Render("No entries yet. Start your journaling journey today!"))
		return b.String()
	}

	for _, day := range days {
		b.WriteString(th.Title.Render(LongDate(day.Date)))
		b.WriteString("\n")
		for _, e := range day.Entries {
			for _, line := range strings.Split(e.Content, "\n") {
				b.WriteString("│ ")
				b.WriteString(line)
				b.WriteString("\n")
			}
			b.WriteString("│ ")
			b.WriteString(th.Label.Render(EntryTime(e)))
			b.WriteString("\n\n")
		}
	}
	return b.String()
}

func renderInsight(th Theme, in *domain.Insight, total int) string {
	var b strings.Builder
	b.WriteString(th.Heading.Render("Your Insights"))
	b.WriteString("\n\n")

	field := func(label, value string) {
		b.WriteString(th.Label.Render(label))
		b.WriteString("\n")
		b.WriteString(value)
		b.WriteString("\n\n")
	}

	field("Overall Sentiment", th.Value.Render(capitalize(string(in.OverallSentiment))))
	field("Dominant Emotions", chips(th, in.DominantEmotions))
	field("Total Entries", th.Value.Render(fmt.Sprint(total)))
	field("Recurring Themes", chips(th, in.RecurringThemes))
	field("Patterns Observed", in.Patterns)
	field("Encouragement", in.Encouragement)
	return strings.TrimRight(b.String(), "\n")
}

func chips(th Theme, items []string) string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = th.Chip.Render(s)
	}
	return strings.Join(out, " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
