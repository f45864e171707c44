package api

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medbot/intake/domain"
)

// GetSessionReport returns the ADR report for a session.
// GET /api/sessions/:session_id/report
func (h *Handler) GetSessionReport(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	report, err := h.store.GetReport(ctx, sessionID)
	if err != nil {
		log.Printf("ERROR: failed to get report: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get report"})
	}
	if report == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "report not found"})
	}
	return c.JSON(http.StatusOK, report)
}

// ListReports returns every ADR report, for the operator analytics view.
// GET /api/reports
func (h *Handler) ListReports(c echo.Context) error {
	ctx := c.Request().Context()

	reports, err := h.store.ListReports(ctx)
	if err != nil {
		log.Printf("ERROR: failed to list reports: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list reports"})
	}
	if reports == nil {
		reports = []domain.Report{}
	}
	return c.JSON(http.StatusOK, reports)
}
