package companion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pbaille/nomi/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI answers every request with a single text block and records the
// last request it saw.
type fakeAPI struct {
	reply   string
	status  int
	lastReq apiRequest
	headers http.Header
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.headers = r.Header.Clone()
	_ = json.NewDecoder(r.Body).Decode(&f.lastReq)
	if f.status != 0 {
		w.WriteHeader(f.status)
		fmt.Fprint(w, `{"error":{"message":"overloaded"}}`)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"content": []map[string]string{
			{"type": "thinking", "text": "ignored"},
			{"type": "text", "text": f.reply},
		},
	})
}

func newTestClient(t *testing.T, api http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	c, err := New(Config{Endpoint: srv.URL, APIKey: "test-key"})
	require.NoError(t, err)
	return c
}

func entries(n int) []domain.Entry {
	out := make([]domain.Entry, n)
	for i := range out {
		out[i] = domain.Entry{
			ID:      int64(i + 1),
			Date:    fmt.Sprintf("2024-01-%02d", i+1),
			Content: fmt.Sprintf("entry number %d", i+1),
		}
	}
	return out
}

func TestNewRequiresKeyForDefaultEndpoint(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	c, err := New(Config{Endpoint: "http://localhost:9999/api/claude"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, c.model)
	assert.Equal(t, DefaultMaxTokens, c.maxTokens)
}

func TestCompleteSendsMessagesRequest(t *testing.T) {
	api := &fakeAPI{reply: "hello"}
	c := newTestClient(t, api)

	text, err := c.Complete(context.Background(), "say hello")
	require.NoError(t, err)

	assert.Equal(t, "hello", text)
	assert.Equal(t, DefaultModel, api.lastReq.Model)
	assert.Equal(t, DefaultMaxTokens, api.lastReq.MaxTokens)
	require.Len(t, api.lastReq.Messages, 1)
	assert.Equal(t, "user", api.lastReq.Messages[0].Role)
	assert.Equal(t, "say hello", api.lastReq.Messages[0].Content)
	assert.Equal(t, "test-key", api.headers.Get("x-api-key"))
	assert.Equal(t, anthropicVersion, api.headers.Get("anthropic-version"))
}

func TestCompleteErrors(t *testing.T) {
	c := newTestClient(t, &fakeAPI{status: http.StatusServiceUnavailable})
	_, err := c.Complete(context.Background(), "x")
	assert.ErrorContains(t, err, "status 503")

	noText := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"content":[{"type":"tool_use"}]}`)
	})
	c = newTestClient(t, noText)
	_, err = c.Complete(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNoText)

	garbage := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>`)
	})
	c = newTestClient(t, garbage)
	_, err = c.Complete(context.Background(), "x")
	assert.ErrorContains(t, err, "unmarshal response")
}

func TestDailyPromptUsesLastFivePreviews(t *testing.T) {
	api := &fakeAPI{reply: "  What made you smile today?\n"}
	c := newTestClient(t, api)

	all := entries(7)
	all[6].Content = strings.Repeat("é", 250)

	prompt, err := c.DailyPrompt(context.Background(), all)
	require.NoError(t, err)
	assert.Equal(t, "What made you smile today?", prompt)

	sent := api.lastReq.Messages[0].Content
	assert.NotContains(t, sent, "2024-01-02")
	assert.Contains(t, sent, "2024-01-03")
	assert.Contains(t, sent, strings.Repeat("é", 200)+`"`)
	assert.NotContains(t, sent, strings.Repeat("é", 201))
	assert.Contains(t, sent, "Return only the prompt")
}

func TestDailyPromptFirstTime(t *testing.T) {
	api := &fakeAPI{reply: "Welcome."}
	c := newTestClient(t, api)

	_, err := c.DailyPrompt(context.Background(), nil)
	require.NoError(t, err)
	assert.Contains(t, api.lastReq.Messages[0].Content, "this might be their first time journaling")
}

func TestDailyPromptBlankReply(t *testing.T) {
	c := newTestClient(t, &fakeAPI{reply: "   "})
	_, err := c.DailyPrompt(context.Background(), entries(1))
	assert.ErrorIs(t, err, ErrNoText)
}
