package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/medbot/intake/domain"
	"github.com/medbot/intake/reconcile"
)

// PostMessageRequest is the body for one message exchange.
type PostMessageRequest struct {
	Content     string          `json:"content"`
	MessageType string          `json:"messageType"`
	Metadata    json.RawMessage `json:"metadata"`
}

// ExchangeResponse is the result of one message exchange.
type ExchangeResponse struct {
	UserMessage   *domain.Message `json:"userMessage"`
	BotMessage    *domain.Message `json:"botMessage"`
	Progress      int             `json:"progress"`
	ExtractedData map[string]any  `json:"extractedData"`
}

// GetSessionMessages returns messages for a session in creation order.
// GET /api/sessions/:session_id/messages
func (h *Handler) GetSessionMessages(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	messages, err := h.store.GetMessages(ctx, sessionID)
	if err != nil {
		log.Printf("ERROR: failed to get messages: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get messages"})
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return c.JSON(http.StatusOK, messages)
}

// PostSessionMessage runs one exchange: persist the user message, ask the
// assistant, persist its reply, reconcile the extraction into the report
// and rescore the session.
// POST /api/sessions/:session_id/messages
func (h *Handler) PostSessionMessage(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	var req PostMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Content) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "content must not be empty"})
	}
	messageType := domain.MessageType(req.MessageType)
	if req.MessageType == "" {
		messageType = domain.MessageTypeUser
	}
	if !messageType.Valid() {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "messageType must be user, bot or system"})
	}

	decision, err := h.policy.Evaluate(ctx, map[string]interface{}{
		"message_type":   string(messageType),
		"content_length": len(req.Content),
		"max_length":     h.config.MaxMessageLength,
	})
	if err != nil {
		log.Printf("ERROR: failed to evaluate intake policy: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to evaluate intake policy"})
	}
	if decision == "block" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "message rejected by intake policy"})
	}

	session, err := h.store.GetSession(ctx, sessionID)
	if err != nil {
		log.Printf("ERROR: failed to get session: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get session"})
	}
	if session == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
	}

	userMessage := &domain.Message{
		SessionID:   sessionID,
		MessageType: messageType,
		Content:     req.Content,
		Metadata:    req.Metadata,
	}
	if err := h.store.CreateMessage(ctx, userMessage); err != nil {
		log.Printf("ERROR: failed to store user message: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to store message"})
	}

	report, err := h.store.GetReport(ctx, sessionID)
	if err != nil {
		log.Printf("ERROR: failed to get report: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get report"})
	}
	if report == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "report not found"})
	}

	questions, err := h.store.ListQuestions(ctx)
	if err != nil {
		log.Printf("ERROR: failed to list questions: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list questions"})
	}

	history, err := h.store.GetMessages(ctx, sessionID)
	if err != nil {
		log.Printf("ERROR: failed to get messages: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get messages"})
	}

	reply := h.assistant.Reply(ctx, req.Content, report, questions, history)

	botMessage := &domain.Message{
		SessionID:   sessionID,
		MessageType: domain.MessageTypeBot,
		Content:     reply.Message,
		Metadata:    reply.Metadata,
	}
	if err := h.store.CreateMessage(ctx, botMessage); err != nil {
		log.Printf("ERROR: failed to store bot message: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to store message"})
	}

	if !reply.Extraction.IsEmpty() {
		merged, err := h.store.UpdateReport(ctx, sessionID, reply.Extraction.Update(reply.IsComplete))
		if err != nil {
			log.Printf("ERROR: failed to update report: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to update report"})
		}
		if merged == nil {
			log.Printf("ERROR: report vanished for session %s", sessionID)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to update report"})
		}
		report = merged
	}

	progress := reconcile.Progress(report)
	complete := progress >= 100
	if _, err := h.store.UpdateSession(ctx, sessionID, domain.SessionUpdate{
		ProgressPercentage: &progress,
		IsComplete:         &complete,
	}); err != nil {
		log.Printf("ERROR: failed to update session: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to update session"})
	}

	return c.JSON(http.StatusOK, ExchangeResponse{
		UserMessage:   userMessage,
		BotMessage:    botMessage,
		Progress:      progress,
		ExtractedData: reply.Extraction.Fields(),
	})
}
