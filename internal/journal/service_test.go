package journal

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/pbaille/nomi/internal/companion"
	"github.com/pbaille/nomi/internal/domain"
	"github.com/pbaille/nomi/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCompanion struct {
	prompt    string
	promptErr error
	insight   *domain.Insight
	insights  error

	seen []domain.Entry
}

func (f *fakeCompanion) DailyPrompt(_ context.Context, entries []domain.Entry) (string, error) {
	f.seen = entries
	return f.prompt, f.promptErr
}

func (f *fakeCompanion) Analyze(_ context.Context, entries []domain.Entry) (*domain.Insight, error) {
	f.seen = entries
	return f.insight, f.insights
}

func newTestService(t *testing.T, c Companion) *Service {
	t.Helper()
	b, err := store.NewDiskv(t.TempDir())
	require.NoError(t, err)
	s := store.New(b, zap.NewNop())
	s.Load()
	return NewService(s, c, zap.NewNop())
}

func TestPromptSuccess(t *testing.T) {
	fc := &fakeCompanion{prompt: "What are you grateful for?"}
	svc := newTestService(t, fc)
	for i := 0; i < 7; i++ {
		_, err := svc.Write(fmt.Sprintf("day %d", i), "2024-01-01")
		require.NoError(t, err)
	}

	assert.Equal(t, "What are you grateful for?", svc.Prompt(context.Background()))
	require.Len(t, fc.seen, companion.PromptEntries)
	assert.Equal(t, "day 2", fc.seen[0].Content)
}

func TestPromptFallbacks(t *testing.T) {
	svc := newTestService(t, &fakeCompanion{promptErr: errors.New("dial tcp: connection refused")})
	assert.Equal(t, FallbackPrompt, svc.Prompt(context.Background()))

	svc = newTestService(t, &fakeCompanion{promptErr: companion.ErrNoText})
	assert.Equal(t, EmptyPrompt, svc.Prompt(context.Background()))

	svc = newTestService(t, nil)
	assert.Equal(t, FallbackPrompt, svc.Prompt(context.Background()))
}

func TestInsights(t *testing.T) {
	want := &domain.Insight{OverallSentiment: domain.SentimentMixed}
	fc := &fakeCompanion{insight: want}
	svc := newTestService(t, fc)

	_, err := svc.Insights(context.Background())
	assert.ErrorIs(t, err, ErrNoEntries)
	assert.Nil(t, fc.seen)

	for i := 0; i < 32; i++ {
		_, err := svc.Write(fmt.Sprintf("day %d", i), "2024-01-01")
		require.NoError(t, err)
	}

	got, err := svc.Insights(context.Background())
	require.NoError(t, err)
	assert.Same(t, want, got)
	assert.Len(t, fc.seen, companion.InsightEntries)
}

func TestInsightsFallback(t *testing.T) {
	svc := newTestService(t, &fakeCompanion{insights: errors.New("invalid insight: Patterns is missing")})
	_, err := svc.Write("a quiet day", "2024-01-01")
	require.NoError(t, err)

	got, err := svc.Insights(context.Background())
	require.NoError(t, err)
	assert.Equal(t, FallbackInsight(), got)
	assert.Equal(t, domain.SentimentNeutral, got.OverallSentiment)
}

func TestWriteAndHistory(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.Write("   ", "2024-01-01")
	assert.ErrorIs(t, err, store.ErrEmptyContent)

	_, err = svc.Write("morning", "2024-01-01")
	require.NoError(t, err)
	_, err = svc.Write("next day", "2024-01-02")
	require.NoError(t, err)
	_, err = svc.Write("evening", "2024-01-01")
	require.NoError(t, err)

	days := svc.History()
	require.Len(t, days, 2)
	assert.Equal(t, "2024-01-02", days[0].Date)
	assert.Equal(t, "2024-01-01", days[1].Date)
	require.Len(t, days[1].Entries, 2)
	assert.Equal(t, "morning", days[1].Entries[0].Content)
	assert.Equal(t, "evening", days[1].Entries[1].Content)
	assert.Equal(t, 3, svc.Count())
}
