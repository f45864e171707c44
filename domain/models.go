// Package domain defines the core domain models for the ADR intake service.
package domain

import (
	"encoding/json"
	"time"
)

// MessageType represents the origin of a chat message.
type MessageType string

const (
	MessageTypeUser   MessageType = "user"
	MessageTypeBot    MessageType = "bot"
	MessageTypeSystem MessageType = "system"
)

// Valid reports whether the message type is one of the known values.
func (t MessageType) Valid() bool {
	switch t {
	case MessageTypeUser, MessageTypeBot, MessageTypeSystem:
		return true
	}
	return false
}

// QuestionType represents the kind of answer a question template expects.
type QuestionType string

const (
	QuestionTypeText      QuestionType = "text"
	QuestionTypeSelection QuestionType = "selection"
	QuestionTypeScale     QuestionType = "scale"
	QuestionTypeBoolean   QuestionType = "boolean"
)

// Session represents one guided intake conversation.
type Session struct {
	ID                 int             `json:"id"`
	SessionID          string          `json:"sessionId"`
	StartTime          time.Time       `json:"startTime"`
	EndTime            *time.Time      `json:"endTime,omitempty"`
	ProgressPercentage int             `json:"progressPercentage"`
	IsComplete         bool            `json:"isComplete"`
	CollectedData      json.RawMessage `json:"collectedData,omitempty"`
}

// Message represents a single message in a session. Messages are
// append-only; ids come from one shared counter so they are strictly
// increasing across the whole process, not per session.
type Message struct {
	ID          int             `json:"id"`
	SessionID   string          `json:"sessionId"`
	MessageType MessageType     `json:"messageType"`
	Content     string          `json:"content"`
	Timestamp   time.Time       `json:"timestamp"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
}

// Report is the structured ADR record accumulated over a session.
// Optional fields are pointers: nil means "not collected yet". A field,
// once set, is only ever overwritten with a new non-empty value.
type Report struct {
	ID                  int       `json:"id"`
	SessionID           string    `json:"sessionId"`
	MedicationName      *string   `json:"medicationName"`
	MedicationDose      *string   `json:"medicationDose"`
	ReactionSymptoms    *string   `json:"reactionSymptoms"`
	ReactionSeverity    *int      `json:"reactionSeverity"` // 1-5 scale
	TimelineStart       *string   `json:"timelineStart"`
	TimelineDescription *string   `json:"timelineDescription"`
	PatientAge          *string   `json:"patientAge"`
	PatientGender       *string   `json:"patientGender"`
	OtherMedications    *string   `json:"otherMedications"`
	PreviousReactions   *bool     `json:"previousReactions"`
	AdditionalNotes     *string   `json:"additionalNotes"`
	IsComplete          bool      `json:"isComplete"`
	CreatedAt           time.Time `json:"createdAt"`
}

// Option is one labeled choice for selection/scale/boolean questions.
type Option struct {
	Value any    `json:"value"`
	Label string `json:"label"`
}

// QuestionTemplate is a predefined prompt guiding the conversation order.
// The set is seeded once at startup and never mutated afterwards. DependsOn
// is descriptive metadata; nothing in the service enforces the chain.
type QuestionTemplate struct {
	ID           int          `json:"id"`
	QuestionKey  string       `json:"questionKey"`
	QuestionText string       `json:"questionText"`
	QuestionType QuestionType `json:"questionType"`
	Options      []Option     `json:"options,omitempty"`
	Priority     int          `json:"priority"`
	DependsOn    string       `json:"dependsOn,omitempty"`
	IsActive     bool         `json:"isActive"`
}

// TrainingFeedback is a write-once rating of a completed session.
type TrainingFeedback struct {
	ID               int       `json:"id"`
	SessionID        string    `json:"sessionId"`
	QuestionSequence []string  `json:"questionSequence"`
	CompletionRate   int       `json:"completionRate"`
	UserSatisfaction *int      `json:"userSatisfaction,omitempty"` // 1-5 rating
	Improvements     string    `json:"improvements,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// User represents a registered operator account.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
}
