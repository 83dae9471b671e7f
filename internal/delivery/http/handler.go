package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dinebook/backend/internal/domain"
	"github.com/dinebook/backend/internal/usecase"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recommender is the recommendation use case consumed by the handlers
type Recommender interface {
	Recommend(ctx context.Context, answers domain.Answers, locale domain.Locale) ([]domain.ScoredResult, error)
	RegionOptions(ctx context.Context) ([]string, error)
	Questions(ctx context.Context, locale domain.Locale) ([]usecase.Question, error)
	RefreshCatalog(ctx context.Context) (int, error)
}

// SessionDriver is the questionnaire session use case consumed by the handlers
type SessionDriver interface {
	Start(ctx context.Context, locale domain.Locale) (*usecase.SessionView, error)
	Get(ctx context.Context, id string) (*usecase.SessionView, error)
	Answer(ctx context.Context, id, option string) (*usecase.SessionView, error)
	Back(ctx context.Context, id string) (*usecase.SessionView, error)
	Reset(ctx context.Context, id string) (*usecase.SessionView, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	recommender Recommender
	sessions    SessionDriver
	logger      *zap.Logger
}

// NewHandler creates a new HTTP handler. Nil use cases make their
// endpoints answer 501.
func NewHandler(recommender Recommender, sessions SessionDriver, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		recommender: recommender,
		sessions:    sessions,
		logger:      logger,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "dinebook-backend",
		"version": "1.0.0",
	})
}

// GetQuestions returns the localized questionnaire
func (h *Handler) GetQuestions(c *gin.Context) {
	if h.recommender == nil {
		notConfigured(c)
		return
	}

	locale := domain.ParseLocale(c.Query("locale"))
	questions, err := h.recommender.Questions(c.Request.Context(), locale)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"locale": locale, "questions": questions})
}

// GetRegions returns the region options derived from the catalog
func (h *Handler) GetRegions(c *gin.Context) {
	if h.recommender == nil {
		notConfigured(c)
		return
	}

	regions, err := h.recommender.RegionOptions(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"regions": regions})
}

// Recommend ranks venues for a complete set of answers
func (h *Handler) Recommend(c *gin.Context) {
	if h.recommender == nil {
		notConfigured(c)
		return
	}

	var req domain.RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, fmt.Errorf("%w: mood, category and region are required", domain.ErrInvalidRequest))
		return
	}

	locale := domain.ParseLocale(req.Locale)
	results, err := h.recommender.Recommend(c.Request.Context(), req.Answers(), locale)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"locale":   locale,
		"maxScore": usecase.MaxScore,
		"results":  results,
	})
}

// RefreshCatalog drops the cached catalog and reloads it from the source
func (h *Handler) RefreshCatalog(c *gin.Context) {
	if h.recommender == nil {
		notConfigured(c)
		return
	}

	count, err := h.recommender.RefreshCatalog(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.logger.Info("catalog refreshed", zap.Int("venues", count))
	c.JSON(http.StatusOK, gin.H{"venues": count})
}

type answerRequest struct {
	Option string `json:"option" binding:"required"`
}

type startSessionRequest struct {
	Locale string `json:"locale"`
}

// StartSession begins a questionnaire session
func (h *Handler) StartSession(c *gin.Context) {
	if h.sessions == nil {
		notConfigured(c)
		return
	}

	var req startSessionRequest
	// Body is optional
	_ = c.ShouldBindJSON(&req)
	if req.Locale == "" {
		req.Locale = c.Query("locale")
	}

	view, err := h.sessions.Start(c.Request.Context(), domain.ParseLocale(req.Locale))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// GetSession returns the session, with results once calculation is done
func (h *Handler) GetSession(c *gin.Context) {
	if h.sessions == nil {
		notConfigured(c)
		return
	}

	view, err := h.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// AnswerSession records the answer to the current question
func (h *Handler) AnswerSession(c *gin.Context) {
	if h.sessions == nil {
		notConfigured(c)
		return
	}

	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, fmt.Errorf("%w: option is required", domain.ErrInvalidRequest))
		return
	}

	view, err := h.sessions.Answer(c.Request.Context(), c.Param("id"), req.Option)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// BackSession returns to the previous question
func (h *Handler) BackSession(c *gin.Context) {
	if h.sessions == nil {
		notConfigured(c)
		return
	}

	view, err := h.sessions.Back(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// ResetSession starts the questionnaire over
func (h *Handler) ResetSession(c *gin.Context) {
	if h.sessions == nil {
		notConfigured(c)
		return
	}

	view, err := h.sessions.Reset(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func notConfigured(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"error": "recommendations are not configured"})
}

// respondError maps domain errors to HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	abortWithError(c, err)
}

// abortWithError writes the mapped status and JSON error body and stops the chain
func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidAnswer), errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrCatalogUnavailable), errors.Is(err, domain.ErrCacheUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
