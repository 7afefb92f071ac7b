package journal

import (
	"context"
	"errors"

	"github.com/pbaille/nomi/internal/companion"
	"github.com/pbaille/nomi/internal/domain"
	"github.com/pbaille/nomi/internal/store"
	"go.uber.org/zap"
)

const (
	// FallbackPrompt is shown when the prompt request fails.
	FallbackPrompt = "How are you feeling right now? What brought you here today?"
	// EmptyPrompt is shown when the model answers without any text.
	EmptyPrompt = "What is on your mind today?"
)

// ErrNoEntries is returned by Insights when there is nothing to analyze.
var ErrNoEntries = errors.New("no entries to analyze")

// FallbackInsight is shown when analysis fails for any reason.
func FallbackInsight() *domain.Insight {
	return &domain.Insight{
		OverallSentiment: domain.SentimentNeutral,
		DominantEmotions: []string{"reflective"},
		RecurringThemes:  []string{"daily life"},
		Patterns:         "Keep writing to discover patterns in your thoughts and feelings.",
		Encouragement:    "Your journal is a safe space for growth and self-discovery.",
	}
}

// Companion generates prompts and insights from entries
type Companion interface {
	DailyPrompt(ctx context.Context, entries []domain.Entry) (string, error)
	Analyze(ctx context.Context, entries []domain.Entry) (*domain.Insight, error)
}

// Service ties the entry store to the companion and owns the fallback
// policy: callers of Prompt and Insights always get something to show.
type Service struct {
	store     *store.Store
	companion Companion
	logger    *zap.Logger
}

// NewService creates a Service. companion may be nil, in which case every
// prompt and insight is the fallback.
func NewService(s *store.Store, c Companion, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: s, companion: c, logger: logger}
}

// Entries returns every entry in the order it was written.
func (s *Service) Entries() []domain.Entry {
	return s.store.Entries()
}

// Count returns the number of stored entries.
func (s *Service) Count() int {
	return s.store.Len()
}

// Write saves a new entry. Blank content returns store.ErrEmptyContent.
func (s *Service) Write(content, date string) (domain.Entry, error) {
	e, err := s.store.Append(content, date)
	if err != nil {
		return domain.Entry{}, err
	}
	s.logger.Debug("entry saved", zap.Int64("id", e.ID), zap.String("date", e.Date), zap.Int("chars", len([]rune(e.Content))))
	return e, nil
}

// History groups entries by date, most recent first.
func (s *Service) History() []domain.DateGroup {
	return store.History(s.store.Entries())
}

// Prompt returns today's reflection prompt, falling back to a fixed prompt
// on any failure.
func (s *Service) Prompt(ctx context.Context) string {
	if s.companion == nil {
		return FallbackPrompt
	}

	prompt, err := s.companion.DailyPrompt(ctx, s.store.Recent(companion.PromptEntries))
	switch {
	case errors.Is(err, companion.ErrNoText):
		s.logger.Warn("prompt response had no text", zap.Error(err))
		return EmptyPrompt
	case err != nil:
		s.logger.Warn("error generating prompt", zap.Error(err))
		return FallbackPrompt
	}
	return prompt
}

// Insights analyzes recent entries. ErrNoEntries is the only error returned;
// every other failure yields FallbackInsight.
func (s *Service) Insights(ctx context.Context) (*domain.Insight, error) {
	recent := s.store.Recent(companion.InsightEntries)
	if len(recent) == 0 {
		return nil, ErrNoEntries
	}
	if s.companion == nil {
		return FallbackInsight(), nil
	}

	insight, err := s.companion.Analyze(ctx, recent)
	if err != nil {
		s.logger.Warn("error analyzing entries", zap.Int("entries", len(recent)), zap.Error(err))
		return FallbackInsight(), nil
	}
	return insight, nil
}
