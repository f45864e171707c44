package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/medbot/intake/domain"
)

func TestCreateTrainingFeedback(t *testing.T) {
	e := echo.New()
	h := newTestHandler(t, "http://localhost:0")
	newIntakeSession(t, h, "s1")

	body := `{
		"sessionId": "s1",
		"questionSequence": ["medication_name", "reaction_symptoms"],
		"completionRate": 33,
		"userSatisfaction": 4,
		"improvements": "ask about dosage earlier"
	}`
	c, rec := newJSONContext(e, http.MethodPost, "/api/training-feedback", body)
	if err := h.CreateTrainingFeedback(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}

	var feedback domain.TrainingFeedback
	if err := json.Unmarshal(rec.Body.Bytes(), &feedback); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if feedback.ID == 0 {
		t.Fatalf("expected assigned id, got %+v", feedback)
	}

	stored, err := h.store.ListFeedback(context.Background())
	if err != nil {
		t.Fatalf("ListFeedback failed: %v", err)
	}
	if len(stored) != 1 || stored[0].SessionID != "s1" {
		t.Fatalf("feedback not persisted: %+v", stored)
	}
	if stored[0].UserSatisfaction == nil || *stored[0].UserSatisfaction != 4 {
		t.Fatalf("satisfaction not persisted: %+v", stored[0])
	}
}

func TestCreateTrainingFeedbackValidation(t *testing.T) {
	e := echo.New()
	h := newTestHandler(t, "http://localhost:0")

	cases := []struct {
		name string
		body string
	}{
		{"missing sessionId", `{"questionSequence":[],"completionRate":10}`},
		{"missing questionSequence", `{"sessionId":"s1","completionRate":10}`},
		{"completionRate out of range", `{"sessionId":"s1","questionSequence":[],"completionRate":150}`},
		{"negative completionRate", `{"sessionId":"s1","questionSequence":[],"completionRate":-1}`},
		{"satisfaction out of range", `{"sessionId":"s1","questionSequence":[],"completionRate":50,"userSatisfaction":6}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newJSONContext(e, http.MethodPost, "/api/training-feedback", tc.body)
			if err := h.CreateTrainingFeedback(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body)
			}
		})
	}
}
