package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/smartblog/server/internal/module/ai/usage"
	"github.com/smartblog/server/internal/shared/logger"
	"github.com/smartblog/server/internal/shared/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockAssist implements AssistService for testing.
type MockAssist struct {
	calls int
}

func (m *MockAssist) SuggestTitles(_ context.Context, _ uuid.UUID, _ string, _ int) ([]string, error) {
	m.calls++
	return []string{"추천 제목 하나", "추천 제목 둘"}, nil
}

func (m *MockAssist) CompleteContent(_ context.Context, _ uuid.UUID, _ string, _ string) (string, error) {
	m.calls++
	return "이어지는 내용입니다.", nil
}

func (m *MockAssist) SuggestTags(_ context.Context, _ uuid.UUID, _, _ string, _ int) ([]string, error) {
	m.calls++
	return []string{"개발", "블로그"}, nil
}

func (m *MockAssist) Summarize(_ context.Context, _ uuid.UUID, _ string, _ int) (string, error) {
	m.calls++
	return "요약된 내용입니다.", nil
}

// MockUsage implements UsageReader for testing.
type MockUsage struct {
	stats usage.Stats
	calls int
}

func (m *MockUsage) Stats(_ context.Context, _ uuid.UUID) (*usage.Stats, error) {
	m.calls++
	s := m.stats
	return &s, nil
}

func setupRouter(assist *MockAssist, usageReader *MockUsage) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	userID := uuid.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	})

	h := NewHandler(assist, usageReader, logger.New(nil))
	h.RegisterRoutes(r.Group("/api"))
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	return w, parsed
}

func TestSuggestTitles(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		assist := &MockAssist{}
		r := setupRouter(assist, &MockUsage{})

		content := strings.Repeat("글", 25)
		w, body := doJSON(t, r, http.MethodPost, "/api/ai/titles", `{"content":"`+content+`"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, body["success"])
		assert.Len(t, body["titles"], 2)
		assert.Contains(t, body["message"], "2개의 제목")
		assert.Equal(t, 1, assist.calls)
	})

	t.Run("too short skips the service", func(t *testing.T) {
		assist := &MockAssist{}
		r := setupRouter(assist, &MockUsage{})

		w, body := doJSON(t, r, http.MethodPost, "/api/ai/titles", `{"content":"짧은글"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, false, body["success"])
		assert.Contains(t, body["error"], "(현재: 3자, 최소: 20자)")
		assert.Zero(t, assist.calls)
	})

	t.Run("empty content", func(t *testing.T) {
		assist := &MockAssist{}
		r := setupRouter(assist, &MockUsage{})

		_, body := doJSON(t, r, http.MethodPost, "/api/ai/titles", `{"content":"   "}`)
		assert.Equal(t, "내용을 입력해주세요.", body["error"])
		assert.Zero(t, assist.calls)
	})

	t.Run("malformed body", func(t *testing.T) {
		assist := &MockAssist{}
		r := setupRouter(assist, &MockUsage{})

		w, body := doJSON(t, r, http.MethodPost, "/api/ai/titles", `{not json`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "요청 형식이 올바르지 않습니다.", body["error"])
		assert.Zero(t, assist.calls)
	})
}

func TestCompleteContent(t *testing.T) {
	t.Run("minimum is thirty runes", func(t *testing.T) {
		assist := &MockAssist{}
		r := setupRouter(assist, &MockUsage{})

		content := strings.Repeat("글", 10)
		w, body := doJSON(t, r, http.MethodPost, "/api/ai/complete", `{"content":"`+content+`"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, body["error"], "(현재: 10자, 최소: 30자)")
		assert.Zero(t, assist.calls)
	})

	t.Run("success", func(t *testing.T) {
		assist := &MockAssist{}
		r := setupRouter(assist, &MockUsage{})

		content := strings.Repeat("글", 30)
		w, body := doJSON(t, r, http.MethodPost, "/api/ai/complete", `{"content":"`+content+`","style":"casual"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "이어지는 내용입니다.", body["completion"])
		assert.Equal(t, 1, assist.calls)
	})
}

func TestSuggestTags(t *testing.T) {
	t.Run("title alone suffices", func(t *testing.T) {
		assist := &MockAssist{}
		r := setupRouter(assist, &MockUsage{})

		w, body := doJSON(t, r, http.MethodPost, "/api/ai/tags", `{"title":"제목"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, body["tags"], 2)
		assert.Equal(t, 1, assist.calls)
	})

	t.Run("both empty rejected", func(t *testing.T) {
		assist := &MockAssist{}
		r := setupRouter(assist, &MockUsage{})

		w, body := doJSON(t, r, http.MethodPost, "/api/ai/tags", `{"title":" ","content":""}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "제목이나 내용을 입력해주세요.", body["error"])
		assert.Zero(t, assist.calls)
	})
}

func TestSummarize(t *testing.T) {
	t.Run("minimum is two hundred runes", func(t *testing.T) {
		assist := &MockAssist{}
		r := setupRouter(assist, &MockUsage{})

		content := strings.Repeat("글", 199)
		w, body := doJSON(t, r, http.MethodPost, "/api/ai/summary", `{"content":"`+content+`"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, body["error"], "(현재: 199자, 최소: 200자)")
		assert.Zero(t, assist.calls)
	})

	t.Run("success", func(t *testing.T) {
		assist := &MockAssist{}
		r := setupRouter(assist, &MockUsage{})

		content := strings.Repeat("글", 250)
		w, body := doJSON(t, r, http.MethodPost, "/api/ai/summary", `{"content":"`+content+`"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "요약된 내용입니다.", body["summary"])
		assert.Equal(t, 1, assist.calls)
	})
}

func TestUsageStats(t *testing.T) {
	usageReader := &MockUsage{stats: usage.Stats{
		TotalUsage:       7,
		TitleSuggestions: 3,
		Autocompletions:  2,
		TagSuggestions:   1,
		Summaries:        1,
	}}
	r := setupRouter(&MockAssist{}, usageReader)

	w, body := doJSON(t, r, http.MethodGet, "/api/ai/usage", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])

	stats, ok := body["stats"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 7, stats["total_usage"])
	assert.EqualValues(t, 3, stats["title_suggestions"])

	// Stats reads are idempotent.
	_, body2 := doJSON(t, r, http.MethodGet, "/api/ai/usage", "")
	assert.Equal(t, body["stats"], body2["stats"])
}

func TestUnauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(&MockAssist{}, &MockUsage{}, logger.New(nil))
	h.RegisterRoutes(r.Group("/api"))

	req := httptest.NewRequest(http.MethodPost, "/api/ai/titles", bytes.NewBufferString(`{"content":"x"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
