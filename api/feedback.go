package api

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medbot/intake/domain"
)

// FeedbackRequest is the body for submitting training feedback.
type FeedbackRequest struct {
	SessionID        string   `json:"sessionId"`
	QuestionSequence []string `json:"questionSequence"`
	CompletionRate   int      `json:"completionRate"`
	UserSatisfaction *int     `json:"userSatisfaction"`
	Improvements     string   `json:"improvements"`
}

// CreateTrainingFeedback persists a feedback record for a session.
// POST /api/training-feedback
func (h *Handler) CreateTrainingFeedback(c echo.Context) error {
	ctx := c.Request().Context()

	var req FeedbackRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.SessionID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "sessionId is required"})
	}
	if req.QuestionSequence == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "questionSequence is required"})
	}
	if req.CompletionRate < 0 || req.CompletionRate > 100 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "completionRate must be between 0 and 100"})
	}
	if req.UserSatisfaction != nil && (*req.UserSatisfaction < 1 || *req.UserSatisfaction > 5) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "userSatisfaction must be between 1 and 5"})
	}

	feedback := &domain.TrainingFeedback{
		SessionID:        req.SessionID,
		QuestionSequence: req.QuestionSequence,
		CompletionRate:   req.CompletionRate,
		UserSatisfaction: req.UserSatisfaction,
		Improvements:     req.Improvements,
	}
	if err := h.store.CreateFeedback(ctx, feedback); err != nil {
		log.Printf("ERROR: failed to store feedback: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to store feedback"})
	}

	return c.JSON(http.StatusOK, feedback)
}
