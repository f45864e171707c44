package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medbot/intake/domain"
	"github.com/medbot/intake/store"
)

// CreateSessionRequest is the body for creating a session. The id is
// optional; the server generates one when absent.
type CreateSessionRequest struct {
	SessionID string `json:"sessionId"`
}

// CreateSession creates a session together with its empty ADR report.
// POST /api/sessions
func (h *Handler) CreateSession(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateSessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = "sess_" + uuid.New().String()[:8]
	}

	session, err := h.store.CreateSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateSession) {
			return c.JSON(http.StatusConflict, map[string]string{"error": "session already exists"})
		}
		log.Printf("ERROR: failed to create session: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create session"})
	}

	if _, err := h.store.CreateReport(ctx, sessionID); err != nil {
		log.Printf("ERROR: failed to create report: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create report"})
	}

	return c.JSON(http.StatusOK, session)
}

// GetSession returns a session by id.
// GET /api/sessions/:session_id
func (h *Handler) GetSession(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	session, err := h.store.GetSession(ctx, sessionID)
	if err != nil {
		log.Printf("ERROR: failed to get session: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get session"})
	}
	if session == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
	}
	return c.JSON(http.StatusOK, session)
}

// SessionExport bundles everything collected for one session.
type SessionExport struct {
	Session    *domain.Session  `json:"session"`
	Messages   []domain.Message `json:"messages"`
	Report     *domain.Report   `json:"report"`
	ExportedAt time.Time        `json:"exportedAt"`
}

// ExportSession returns the session bundle as a downloadable document.
// GET /api/sessions/:session_id/export
func (h *Handler) ExportSession(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	session, err := h.store.GetSession(ctx, sessionID)
	if err != nil {
		log.Printf("ERROR: failed to get session: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get session"})
	}
	if session == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
	}

	messages, err := h.store.GetMessages(ctx, sessionID)
	if err != nil {
		log.Printf("ERROR: failed to get messages: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get messages"})
	}

	report, err := h.store.GetReport(ctx, sessionID)
	if err != nil {
		log.Printf("ERROR: failed to get report: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get report"})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="adr-report-%s.json"`, sessionID))

	return c.JSON(http.StatusOK, SessionExport{
		Session:    session,
		Messages:   messages,
		Report:     report,
		ExportedAt: time.Now(),
	})
}
