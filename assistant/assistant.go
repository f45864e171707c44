// Package assistant wraps the external completion service behind the
// intake conversation contract: structured replies in, a typed response
// out, with a fixed fallback when the service is unavailable.
package assistant

import (
	"context"
	"encoding/json"
	"log"

	"github.com/medbot/intake/domain"
	"github.com/medbot/intake/llm"
	"github.com/medbot/intake/reconcile"
)

const (
	defaultReply  = "I'm here to help you report your adverse drug reaction. Could you tell me more about what happened?"
	fallbackReply = "I'm here to help you report your adverse drug reaction. Could you tell me what medication you're reporting a reaction to?"
)

// fallbackMetadata flags degraded service so the UI can tell the bot's
// canned wording apart from a real reply.
var fallbackMetadata = json.RawMessage(`{"error":"AI service temporarily unavailable"}`)

// Response is the assistant's contribution to one message exchange.
type Response struct {
	Message    string
	Extraction reconcile.Extraction
	IsComplete bool
	Metadata   json.RawMessage
}

// Assistant generates conversational replies via the completion service.
type Assistant struct {
	client        *llm.Client
	model         string
	temperature   float64
	maxTokens     int
	historyWindow int
}

// New creates an assistant. historyWindow bounds how many prior messages
// are forwarded as conversation context.
func New(client *llm.Client, model string, temperature float64, maxTokens, historyWindow int) *Assistant {
	return &Assistant{
		client:        client,
		model:         model,
		temperature:   temperature,
		maxTokens:     maxTokens,
		historyWindow: historyWindow,
	}
}

// completionPayload is the structured JSON the completion service is
// instructed to return.
type completionPayload struct {
	Message       string                     `json:"message"`
	ExtractedData map[string]json.RawMessage `json:"extractedData"`
	IsComplete    bool                       `json:"isComplete"`
	Metadata      json.RawMessage            `json:"metadata"`
}

// Reply runs one completion for the user's message. At most one attempt
// is made; any transport or parse failure is recovered locally by
// returning the fixed fallback response, never an error.
func (a *Assistant) Reply(ctx context.Context, userMessage string, report *domain.Report, questions []domain.QuestionTemplate, history []domain.Message) *Response {
	messages := []llm.ChatMessage{
		{Role: "system", Content: buildSystemPrompt(report, questions)},
	}

	recent := history
	if len(recent) > a.historyWindow {
		recent = recent[len(recent)-a.historyWindow:]
	}
	for _, msg := range recent {
		role := "assistant"
		if msg.MessageType == domain.MessageTypeUser {
			role = "user"
		}
		messages = append(messages, llm.ChatMessage{Role: role, Content: msg.Content})
	}
	messages = append(messages, llm.ChatMessage{Role: "user", Content: userMessage})

	req := &llm.ChatCompletionRequest{
		Model:          a.model,
		Messages:       messages,
		Temperature:    &a.temperature,
		MaxTokens:      &a.maxTokens,
		ResponseFormat: map[string]interface{}{"type": "json_object"},
	}

	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		log.Printf("ERROR: completion request failed: %v", err)
		return Fallback()
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil {
		log.Printf("ERROR: completion response has no message")
		return Fallback()
	}

	var payload completionPayload
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &payload); err != nil {
		log.Printf("ERROR: malformed completion payload: %v", err)
		return Fallback()
	}

	message := payload.Message
	if message == "" {
		message = defaultReply
	}
	metadata := payload.Metadata
	if metadata == nil {
		metadata = json.RawMessage(`{}`)
	}

	return &Response{
		Message:    message,
		Extraction: reconcile.ParseExtraction(payload.ExtractedData),
		IsComplete: payload.IsComplete,
		Metadata:   metadata,
	}
}

// Fallback is the sole failure-recovery path: fixed text, empty
// extraction, not complete, metadata noting the outage.
func Fallback() *Response {
	return &Response{
		Message:  fallbackReply,
		Metadata: fallbackMetadata,
	}
}
