package api

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetQuestionFlow returns the active question templates in priority order.
// GET /api/question-flow
func (h *Handler) GetQuestionFlow(c echo.Context) error {
	ctx := c.Request().Context()

	questions, err := h.store.ListQuestions(ctx)
	if err != nil {
		log.Printf("ERROR: failed to list questions: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list questions"})
	}
	return c.JSON(http.StatusOK, questions)
}
