package domain

import (
	"strings"
	"time"
)

// DateLayout is the calendar date format used for Entry.Date.
const DateLayout = "2006-01-02"

// TimestampLayout matches the millisecond ISO-8601 form used for Entry.Timestamp.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Entry is one journal writing, attached to a user-chosen calendar date
type Entry struct {
	ID        int64  `json:"id"`
	Date      string `json:"date"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// CreatedAt parses Timestamp. The zero time is returned for malformed values.
func (e Entry) CreatedAt() time.Time {
	t, err := time.Parse(time.RFC3339Nano, e.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Sentiment is the overall tone of a set of entries
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentMixed    Sentiment = "mixed"
)

// Normalize lowercases and trims the sentiment.
func (s Sentiment) Normalize() Sentiment {
	return Sentiment(strings.ToLower(strings.TrimSpace(string(s))))
}

// Insight is a derived summary of recent entries. It is never persisted.
type Insight struct {
	OverallSentiment Sentiment `json:"overallSentiment" validate:"required,oneof=positive neutral mixed"`
	DominantEmotions []string  `json:"dominantEmotions" validate:"required,min=1,dive,required"`
	RecurringThemes  []string  `json:"recurringThemes" validate:"required,min=1,dive,required"`
	Patterns         string    `json:"patterns" validate:"required"`
	Encouragement    string    `json:"encouragement" validate:"required"`
}

// DateGroup holds the entries written for one calendar date
type DateGroup struct {
	Date    string  `json:"date"`
	Entries []Entry `json:"entries"`
}
