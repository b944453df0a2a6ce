package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admitflow/admitflow/internal/llm"
	"github.com/admitflow/admitflow/internal/progression"
	"github.com/admitflow/admitflow/internal/review"
	"github.com/admitflow/admitflow/internal/session"
	"github.com/admitflow/admitflow/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, reviews *review.Service) http.Handler {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	srv := NewServer(DefaultConfig(), session.NewService(s.AttemptRepo()), reviews)
	return srv.Router()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type startResp struct {
	Attempt AttemptDTO `json:"attempt"`
	Resumed bool       `json:"resumed"`
}

func TestHealthz(t *testing.T) {
	h := newTestServer(t, nil)
	w := do(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestProgressionForNewStudent(t *testing.T) {
	h := newTestServer(t, nil)

	w := do(t, h, http.MethodGet, "/api/v1/students/stu/progression?subject=physics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	p := decode[progression.Progress](t, w)
	assert.True(t, p.Lock.IsLocked)
	assert.Equal(t, progression.ReasonPhysicsLocked, p.Lock.Reason)
	for _, ls := range p.Levels {
		assert.Equal(t, progression.StatusLocked, ls.Status)
	}

	w = do(t, h, http.MethodGet, "/api/v1/students/stu/progression", nil)
	require.Equal(t, http.StatusOK, w.Code)
	all := decode[struct {
		Subjects []progression.Progress `json:"subjects"`
	}](t, w)
	require.Len(t, all.Subjects, 3)
	assert.Equal(t, progression.StatusCurrent, all.Subjects[0].Levels[0].Status)

	w = do(t, h, http.MethodGet, "/api/v1/students/stu/progression?subject=biology", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStartScoreFlow(t *testing.T) {
	h := newTestServer(t, nil)

	w := do(t, h, http.MethodPost, "/api/v1/students/stu/attempts", map[string]string{"subject": "math", "level": "easy"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	started := decode[startResp](t, w)
	assert.False(t, started.Resumed)
	assert.Equal(t, "pending", started.Attempt.Result)

	w = do(t, h, http.MethodPost, "/api/v1/students/stu/attempts", map[string]string{"subject": "math", "level": "easy"})
	require.Equal(t, http.StatusOK, w.Code)
	resumed := decode[startResp](t, w)
	assert.True(t, resumed.Resumed)
	assert.Equal(t, started.Attempt.ID, resumed.Attempt.ID)

	w = do(t, h, http.MethodPost, "/api/v1/attempts/"+started.Attempt.ID+"/score", map[string]string{"result": "pass"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	scored := decode[AttemptDTO](t, w)
	assert.Equal(t, "pass", scored.Result)
	assert.Equal(t, 1, scored.AttemptsEasy)
	assert.NotNil(t, scored.ScoredAt)

	w = do(t, h, http.MethodPost, "/api/v1/attempts/"+started.Attempt.ID+"/score", map[string]string{"result": "fail"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, h, http.MethodGet, "/api/v1/students/stu/progression?subject=math", nil)
	require.Equal(t, http.StatusOK, w.Code)
	p := decode[progression.Progress](t, w)
	assert.Equal(t, progression.StatusCompleted, p.Levels[0].Status)
	assert.Equal(t, progression.StatusCurrent, p.Levels[1].Status)

	w = do(t, h, http.MethodGet, "/api/v1/students/stu/attempts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]AttemptDTO](t, w)
	assert.Len(t, list, 1)
}

func TestStartErrors(t *testing.T) {
	h := newTestServer(t, nil)

	tests := []struct {
		name string
		body any
		want int
	}{
		{"missing fields", map[string]string{"subject": "math"}, http.StatusBadRequest},
		{"unknown subject", map[string]string{"subject": "biology", "level": "easy"}, http.StatusBadRequest},
		{"locked subject", map[string]string{"subject": "chemistry", "level": "easy"}, http.StatusConflict},
		{"locked level", map[string]string{"subject": "math", "level": "hard"}, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/api/v1/students/stu/attempts", tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}

	w := do(t, h, http.MethodPost, "/api/v1/students/stu/attempts", map[string]string{"subject": "physics", "level": "easy"})
	require.Equal(t, http.StatusConflict, w.Code)
	body := decode[map[string]string](t, w)
	assert.Equal(t, progression.ReasonPhysicsLocked, body["reason"])
}

func TestScoreErrors(t *testing.T) {
	h := newTestServer(t, nil)

	w := do(t, h, http.MethodPost, "/api/v1/attempts/missing/score", map[string]string{"result": "pass"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodPost, "/api/v1/attempts/missing/score", map[string]string{"result": "pending"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviewWithoutProvider(t *testing.T) {
	h := newTestServer(t, nil)
	w := do(t, h, http.MethodPost, "/api/v1/students/stu/review", map[string]string{"subject": "math", "level": "easy"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestReviewWithProvider(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{
		"title": "Algebra Basics",
		"summary": "Easy math covers linear equations.",
		"key_concepts": ["Isolating the variable"],
		"practice_tips": ["Do ten one-step equations"]
	}`)})
	h := newTestServer(t, review.NewService(mock, review.DefaultConfig()))

	w := do(t, h, http.MethodPost, "/api/v1/students/stu/review", map[string]string{"subject": "math", "level": "easy"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	notes := decode[review.Notes](t, w)
	assert.Equal(t, "Algebra Basics", notes.Title)
	assert.Equal(t, "easy", string(notes.Level))

	w = do(t, h, http.MethodPost, "/api/v1/students/stu/review", map[string]string{"subject": "math", "level": "extreme"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviewRateLimited(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.Error{
		Kind: llm.KindRateLimited, Provider: "mock", StatusCode: 429, RetryAfter: 20 * time.Second,
	}})
	h := newTestServer(t, review.NewService(mock, review.DefaultConfig()))

	w := do(t, h, http.MethodPost, "/api/v1/students/stu/review", map[string]string{"subject": "math", "level": "easy"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "20", w.Header().Get("Retry-After"))
}

func TestRunLogsToConfiguredOutput(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	var out bytes.Buffer
	cfg := DefaultConfig()
	cfg.Addr = "127.0.0.1:0"
	srv := NewServer(cfg, session.NewService(s.AttemptRepo()), nil).WithOutput(&out)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	require.NoError(t, srv.Run(ctx))
	assert.Equal(t, "[admitflow] listening on 127.0.0.1:0\n[admitflow] shutting down\n", out.String())

	out.Reset()
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, out.String(), "/healthz")
}

func TestCORSAllowsLocalhost(t *testing.T) {
	h := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("ADMITFLOW_ADDR", "")
	t.Setenv("PORT", "9090")
	t.Setenv("ADMITFLOW_CORS_ORIGINS", "https://a.example, https://b.example")

	cfg := ConfigFromEnv()
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)

	t.Setenv("ADMITFLOW_ADDR", "127.0.0.1:7000")
	assert.Equal(t, "127.0.0.1:7000", ConfigFromEnv().Addr)
}
