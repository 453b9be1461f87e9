package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/smartblog/server/internal/module/ai/usage"
	"github.com/smartblog/server/internal/shared/logger"
	"github.com/smartblog/server/internal/shared/middleware"
)

// Per-feature minimum input lengths, in runes.
const (
	minTitleContent    = 20
	minCompleteContent = 30
	minSummaryContent  = 200
)

// AssistService is the writing assistance surface the handlers invoke.
type AssistService interface {
	SuggestTitles(ctx context.Context, userID uuid.UUID, content string, count int) ([]string, error)
	CompleteContent(ctx context.Context, userID uuid.UUID, content, style string) (string, error)
	SuggestTags(ctx context.Context, userID uuid.UUID, title, content string, maxTags int) ([]string, error)
	Summarize(ctx context.Context, userID uuid.UUID, content string, maxLength int) (string, error)
}

// UsageReader answers usage stats queries.
type UsageReader interface {
	Stats(ctx context.Context, userID uuid.UUID) (*usage.Stats, error)
}

// Handler handles the AI assistance endpoints.
type Handler struct {
	assist AssistService
	usage  UsageReader
	logger *logger.Logger
}

// NewHandler creates a new AI handler.
func NewHandler(assist AssistService, usageReader UsageReader, log *logger.Logger) *Handler {
	return &Handler{assist: assist, usage: usageReader, logger: log}
}

// RegisterRoutes registers the AI routes. All require authentication.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	ai := r.Group("/ai")
	{
		ai.POST("/titles", h.SuggestTitles)
		ai.POST("/complete", h.CompleteContent)
		ai.POST("/tags", h.SuggestTags)
		ai.POST("/summary", h.Summarize)
		ai.GET("/usage", h.UsageStats)
	}
}

type titleRequest struct {
	Content string `json:"content"`
	Count   int    `json:"count"`
}

type completeRequest struct {
	Content string `json:"content"`
	Style   string `json:"style"`
}

type tagRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	MaxTags int    `json:"max_tags"`
}

type summaryRequest struct {
	Content   string `json:"content"`
	MaxLength int    `json:"max_length"`
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

func malformed(c *gin.Context) {
	fail(c, http.StatusBadRequest, "요청 형식이 올바르지 않습니다.")
}

func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "로그인이 필요합니다.")
	}
	return userID, ok
}

// SuggestTitles handles title suggestion requests.
func (h *Handler) SuggestTitles(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req titleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		malformed(c)
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		fail(c, http.StatusBadRequest, "내용을 입력해주세요.")
		return
	}
	if n := utf8.RuneCountInString(content); n < minTitleContent {
		fail(c, http.StatusBadRequest,
			fmt.Sprintf("더 많은 내용을 작성한 후 제목을 추천받아보세요. (현재: %d자, 최소: %d자)", n, minTitleContent))
		return
	}

	titles, err := h.assist.SuggestTitles(c.Request.Context(), userID, content, req.Count)
	if err != nil {
		h.serverError(c, "title suggestion", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"titles":  titles,
		"message": fmt.Sprintf("AI가 %d개의 제목을 추천했습니다!", len(titles)),
	})
}

// CompleteContent handles content completion requests.
func (h *Handler) CompleteContent(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req completeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		malformed(c)
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		fail(c, http.StatusBadRequest, "내용을 입력해주세요.")
		return
	}
	if n := utf8.RuneCountInString(content); n < minCompleteContent {
		fail(c, http.StatusBadRequest,
			fmt.Sprintf("더 많은 내용을 작성한 후 자동완성을 사용해보세요. (현재: %d자, 최소: %d자)", n, minCompleteContent))
		return
	}

	completion, err := h.assist.CompleteContent(c.Request.Context(), userID, content, req.Style)
	if err != nil {
		h.serverError(c, "content completion", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"completion": completion,
		"message":    "AI가 글을 이어서 작성했습니다!",
	})
}

// SuggestTags handles tag suggestion requests.
func (h *Handler) SuggestTags(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		malformed(c)
		return
	}

	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" && content == "" {
		fail(c, http.StatusBadRequest, "제목이나 내용을 입력해주세요.")
		return
	}

	tags, err := h.assist.SuggestTags(c.Request.Context(), userID, title, content, req.MaxTags)
	if err != nil {
		h.serverError(c, "tag suggestion", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tags":    tags,
		"message": fmt.Sprintf("AI가 %d개의 태그를 추천했습니다!", len(tags)),
	})
}

// Summarize handles summary generation requests.
func (h *Handler) Summarize(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req summaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		malformed(c)
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		fail(c, http.StatusBadRequest, "내용을 입력해주세요.")
		return
	}
	if n := utf8.RuneCountInString(content); n < minSummaryContent {
		fail(c, http.StatusBadRequest,
			fmt.Sprintf("요약하기에는 내용이 너무 짧습니다. (현재: %d자, 최소: %d자)", n, minSummaryContent))
		return
	}

	summary, err := h.assist.Summarize(c.Request.Context(), userID, content, req.MaxLength)
	if err != nil {
		h.serverError(c, "summarization", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"summary": summary,
		"message": "AI가 글을 요약했습니다!",
	})
}

// UsageStats returns the caller's aggregate AI usage.
func (h *Handler) UsageStats(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	stats, err := h.usage.Stats(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("usage stats query failed", "user_id", userID, logger.Err(err))
		fail(c, http.StatusInternalServerError, "통계를 가져오는데 실패했습니다.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

func (h *Handler) serverError(c *gin.Context, op string, err error) {
	h.logger.Error(op+" failed", logger.Err(err))
	fail(c, http.StatusInternalServerError, "서버 오류가 발생했습니다.")
}
