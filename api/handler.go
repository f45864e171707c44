// Package api provides HTTP handlers for the intake service.
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medbot/intake/assistant"
	"github.com/medbot/intake/config"
	"github.com/medbot/intake/policy"
	"github.com/medbot/intake/store"
)

// Handler handles HTTP requests.
type Handler struct {
	store     store.Store
	assistant *assistant.Assistant
	policy    *policy.Engine
	config    *config.Config
}

// NewHandler creates a new handler.
func NewHandler(store store.Store, assistant *assistant.Assistant, policy *policy.Engine, config *config.Config) *Handler {
	return &Handler{
		store:     store,
		assistant: assistant,
		policy:    policy,
		config:    config,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/sessions", h.CreateSession)
	e.GET("/api/sessions/:session_id", h.GetSession)
	e.GET("/api/sessions/:session_id/messages", h.GetSessionMessages)
	e.POST("/api/sessions/:session_id/messages", h.PostSessionMessage)
	e.GET("/api/sessions/:session_id/report", h.GetSessionReport)
	e.GET("/api/sessions/:session_id/export", h.ExportSession)
	e.POST("/api/training-feedback", h.CreateTrainingFeedback)
	e.GET("/api/question-flow", h.GetQuestionFlow)
	e.GET("/api/reports", h.ListReports)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}
