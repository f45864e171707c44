package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medbot/intake/assistant"
	"github.com/medbot/intake/config"
	"github.com/medbot/intake/llm"
	"github.com/medbot/intake/policy"
	"github.com/medbot/intake/tests/helpers"
)

// newTestHandler wires a handler against an in-memory store and the given
// completion service URL.
func newTestHandler(t *testing.T, llmURL string) *Handler {
	t.Helper()

	st := helpers.NewTestStore(t)
	client := llm.NewClient(llmURL, "", time.Second)
	bot := assistant.New(client, "gpt-4o", 0.7, 1000, 6)

	engine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}

	cfg := &config.Config{
		HistoryWindow:    6,
		MaxMessageLength: 4000,
	}
	return NewHandler(st, bot, engine, cfg)
}

// newCompletionServer serves a fixed structured payload in the chat
// completion envelope.
func newCompletionServer(t *testing.T, payload string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		content, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o","choices":[{"index":0,"message":{"role":"assistant","content":%s},"finish_reason":"stop"}]}`, content)
	}))
	t.Cleanup(server.Close)
	return server
}

// newJSONContext builds an echo context for a JSON request.
func newJSONContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHealth(t *testing.T) {
	e := echo.New()
	h := newTestHandler(t, "http://localhost:0")

	c, rec := newJSONContext(e, http.MethodGet, "/health", "")
	if err := h.Health(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
