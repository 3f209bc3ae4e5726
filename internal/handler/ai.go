// internal/handler/ai.go
package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"expense-tracker/internal/aiclient"
	"expense-tracker/internal/analytics"
	"expense-tracker/internal/insight"
	"expense-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// Completer is the AI gateway boundary: prompt in, answer text or typed
// error out.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type AIHandler struct {
	expenses *service.ExpenseService
	cache    *analytics.Cache
	ai       Completer
}

func NewAIHandler(expenses *service.ExpenseService, cache *analytics.Cache, ai Completer) *AIHandler {
	return &AIHandler{expenses: expenses, cache: cache, ai: ai}
}

// QuickInsight godoc
// @Summary Answer a question from the cached analytics summary
// @Accept plain
// @Produce plain
// @Success 200 {string} string
// @Router /api/ai/quickInsight [post]
func (h *AIHandler) QuickInsight(c *gin.Context) {
	query, ok := readQuestion(c)
	if !ok {
		return
	}
	slog.Info("Processing quick AI insight request", "query", query)

	summary := h.cache.Get(c.Request.Context())
	prompt := insight.BuildQuickPrompt(summary, query)

	answer, err := h.ai.Complete(c.Request.Context(), prompt)
	if err != nil {
		h.writeAIError(c, err)
		return
	}
	c.String(http.StatusOK, answer)
}

// AIInsight godoc
// @Summary Answer a question over classified and filtered expense data
// @Accept plain
// @Produce plain
// @Success 200 {string} string
// @Router /api/ai/aiInsight [post]
func (h *AIHandler) AIInsight(c *gin.Context) {
	query, ok := readQuestion(c)
	if !ok {
		return
	}
	slog.Info("Processing AI insight request", "query", query)

	all, err := h.expenses.All(c.Request.Context())
	if err != nil {
		slog.Error("Failed to load expenses for insight", "error", err)
		c.String(http.StatusInternalServerError, "Error generating AI insights: "+err.Error())
		return
	}

	queryType := insight.Classify(query)
	relevant := insight.Relevant(query, all, queryType, h.expenses.Now())
	slog.Info("Filtered expenses for insight", "query_type", queryType.String(), "total", len(all), "relevant", len(relevant))

	prompt := insight.BuildPrompt(relevant, query, queryType)

	answer, err := h.ai.Complete(c.Request.Context(), prompt)
	if err != nil {
		h.writeAIError(c, err)
		return
	}
	c.String(http.StatusOK, answer)
}

// RefreshCache godoc
// @Summary Force an analytics cache recompute
// @Success 200 {string} string
// @Failure 500 {string} string
// @Router /api/ai/refreshCache [post]
func (h *AIHandler) RefreshCache(c *gin.Context) {
	if err := h.cache.Refresh(c.Request.Context()); err != nil {
		slog.Error("Manual cache refresh failed", "error", err)
		c.String(http.StatusInternalServerError, "Failed to refresh cache: "+err.Error())
		return
	}
	c.String(http.StatusOK, "Analytics cache refreshed successfully")
}

// Analytics godoc
// @Summary Current analytics summary (cached)
// @Produce json
// @Success 200 {object} domain.AnalyticsSummary
// @Router /api/ai/analytics [get]
func (h *AIHandler) Analytics(c *gin.Context) {
	c.JSON(http.StatusOK, h.cache.Get(c.Request.Context()))
}

func readQuestion(c *gin.Context) (string, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot read request body"})
		return "", false
	}
	question := string(body)
	if question == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Question body required"})
		return "", false
	}
	return question, true
}

// writeAIError maps gateway errors to responses. Upstream statuses are
// forwarded, connectivity failures become 503, malformed or empty envelopes
// become 500.
func (h *AIHandler) writeAIError(c *gin.Context, err error) {
	var statusErr *aiclient.StatusError
	var unavailErr *aiclient.UnavailableError
	var parseErr *aiclient.ParseError

	switch {
	case errors.As(err, &statusErr):
		slog.Error("AI provider returned error status", "status", statusErr.Code, "body", statusErr.Body)
		c.String(statusErr.Code, "API Error: "+statusErr.Body)
	case errors.As(err, &unavailErr):
		slog.Error("AI provider unreachable", "error", err)
		c.String(http.StatusServiceUnavailable, "Service unavailable: "+err.Error())
	case errors.As(err, &parseErr), errors.Is(err, aiclient.ErrEmptyResponse):
		slog.Error("AI response unusable", "error", err)
		c.String(http.StatusInternalServerError, "Error generating AI insights: "+err.Error())
	default:
		slog.Error("Unexpected AI insight failure", "error", err)
		c.String(http.StatusInternalServerError, "Error generating AI insights: "+err.Error())
	}
}
