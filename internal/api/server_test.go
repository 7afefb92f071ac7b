package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pbaille/nomi/internal/domain"
	"github.com/pbaille/nomi/internal/journal"
	"github.com/pbaille/nomi/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubCompanion struct {
	prompt string
	err    error
}

func (s stubCompanion) DailyPrompt(context.Context, []domain.Entry) (string, error) {
	return s.prompt, s.err
}

func (s stubCompanion) Analyze(context.Context, []domain.Entry) (*domain.Insight, error) {
	return nil, s.err
}

func newTestServer(t *testing.T, c journal.Companion) http.Handler {
	t.Helper()
	b, err := store.NewDiskv(t.TempDir())
	require.NoError(t, err)
	st := store.New(b, zap.NewNop())
	st.Load()
	svc := journal.NewService(st, c, zap.NewNop())
	return New(svc, ":0", true, zap.NewNop()).Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t, nil), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestAddEntryAndHistory(t *testing.T) {
	h := newTestServer(t, nil)

	rec := do(t, h, http.MethodPost, "/entries", `{"content":"first","date":"2024-01-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var entry domain.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
	assert.Equal(t, "first", entry.Content)
	assert.Equal(t, "2024-01-01", entry.Date)
	assert.NotZero(t, entry.ID)

	rec = do(t, h, http.MethodPost, "/entries", `{"content":"second","date":"2024-01-02"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodGet, "/entries", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Entries []domain.Entry `json:"entries"`
		Total   int            `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 2, list.Total)

	rec = do(t, h, http.MethodGet, "/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var hist struct {
		Days []domain.DateGroup `json:"days"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hist))
	require.Len(t, hist.Days, 2)
	assert.Equal(t, "2024-01-02", hist.Days[0].Date)
}

func TestAddEntryRejectsBadInput(t *testing.T) {
	h := newTestServer(t, nil)

	tests := []struct {
		body string
		want string
	}{
		{body: `{"content":""}`, want: "content is required"},
		{body: `{"content":"   "}`, want: "content is required"},
		{body: `{"content":"hi","date":"01/02/2024"}`, want: "date must be a date"},
		{body: `not json`, want: "invalid request body"},
	}
	for _, tt := range tests {
		rec := do(t, h, http.MethodPost, "/entries", tt.body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, tt.body)
		assert.Contains(t, rec.Body.String(), tt.want, tt.body)
	}

	rec := do(t, h, http.MethodGet, "/entries", "")
	assert.Contains(t, rec.Body.String(), `"total":0`)
}

func TestPromptFallsBackOnFailure(t *testing.T) {
	h := newTestServer(t, stubCompanion{err: errors.New("network down")})
	rec := do(t, h, http.MethodGet, "/prompt", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"prompt":"`+journal.FallbackPrompt+`"}`, rec.Body.String())

	h = newTestServer(t, stubCompanion{prompt: "What surprised you?"})
	rec = do(t, h, http.MethodGet, "/prompt", "")
	assert.JSONEq(t, `{"prompt":"What surprised you?"}`, rec.Body.String())
}

func TestInsights(t *testing.T) {
	h := newTestServer(t, stubCompanion{err: errors.New("bad json")})

	rec := do(t, h, http.MethodGet, "/insights", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"insight":null,"total_entries":0}`, rec.Body.String())

	do(t, h, http.MethodPost, "/entries", `{"content":"something"}`)
	rec = do(t, h, http.MethodGet, "/insights", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp InsightsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, journal.FallbackInsight(), resp.Insight)
	assert.Equal(t, 1, resp.TotalEntries)
}

func TestRequestIDIsEchoed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	newTestServer(t, nil).ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}
