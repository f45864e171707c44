package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/medbot/intake/domain"
)

// MemoryStore implements Store with in-process maps. All state is keyed by
// session id; a single RWMutex serializes read-modify-write cycles so
// concurrent exchanges on the same session cannot lose updates.
type MemoryStore struct {
	mu sync.RWMutex

	sessions  map[string]domain.Session
	messages  map[string][]domain.Message
	reports   map[string]domain.Report
	questions []domain.QuestionTemplate
	feedback  []domain.TrainingFeedback
	users     map[int]domain.User

	// Message ids share one counter; every other kind counts independently.
	nextMessageID  int
	nextSessionID  int
	nextReportID   int
	nextQuestionID int
	nextFeedbackID int
	nextUserID     int
}

// NewMemoryStore creates an in-memory store seeded with the question flow.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		sessions:       make(map[string]domain.Session),
		messages:       make(map[string][]domain.Message),
		reports:        make(map[string]domain.Report),
		users:          make(map[int]domain.User),
		nextMessageID:  1,
		nextSessionID:  1,
		nextReportID:   1,
		nextQuestionID: 1,
		nextFeedbackID: 1,
		nextUserID:     1,
	}
	for _, q := range defaultQuestionFlow() {
		q.ID = s.nextQuestionID
		s.nextQuestionID++
		s.questions = append(s.questions, q)
	}
	return s
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}

// CreateSession creates a new session with an empty message list.
func (s *MemoryStore) CreateSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; ok {
		return nil, ErrDuplicateSession
	}

	session := domain.Session{
		ID:        s.nextSessionID,
		SessionID: sessionID,
		StartTime: time.Now(),
	}
	s.nextSessionID++
	s.sessions[sessionID] = session
	s.messages[sessionID] = nil

	return &session, nil
}

// GetSession retrieves a session by id.
func (s *MemoryStore) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	return &session, nil
}

// UpdateSession shallow-merges the supplied fields onto the session.
func (s *MemoryStore) UpdateSession(ctx context.Context, sessionID string, updates domain.SessionUpdate) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}

	if updates.EndTime != nil {
		session.EndTime = updates.EndTime
	}
	if updates.ProgressPercentage != nil {
		session.ProgressPercentage = *updates.ProgressPercentage
	}
	if updates.IsComplete != nil {
		session.IsComplete = *updates.IsComplete
	}
	if updates.CollectedData != nil {
		session.CollectedData = updates.CollectedData
	}

	s.sessions[sessionID] = session
	return &session, nil
}

// CreateMessage appends a message, assigning its id and timestamp.
func (s *MemoryStore) CreateMessage(ctx context.Context, message *domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	message.ID = s.nextMessageID
	s.nextMessageID++
	message.Timestamp = time.Now()

	s.messages[message.SessionID] = append(s.messages[message.SessionID], *message)
	return nil
}

// GetMessages returns the session's messages in creation order.
func (s *MemoryStore) GetMessages(ctx context.Context, sessionID string) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := s.messages[sessionID]
	out := make([]domain.Message, len(messages))
	copy(out, messages)
	return out, nil
}

// CreateReport creates the empty report paired with a session.
func (s *MemoryStore) CreateReport(ctx context.Context, sessionID string) (*domain.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := domain.Report{
		ID:        s.nextReportID,
		SessionID: sessionID,
		CreatedAt: time.Now(),
	}
	s.nextReportID++
	s.reports[sessionID] = report

	return &report, nil
}

// GetReport retrieves the report for a session.
func (s *MemoryStore) GetReport(ctx context.Context, sessionID string) (*domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.reports[sessionID]
	if !ok {
		return nil, nil
	}
	return &report, nil
}

// UpdateReport shallow-merges the supplied fields onto the report. Fields
// absent from the update are left untouched, never cleared.
func (s *MemoryStore) UpdateReport(ctx context.Context, sessionID string, updates domain.ReportUpdate) (*domain.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, ok := s.reports[sessionID]
	if !ok {
		return nil, nil
	}

	report = updates.Apply(report)
	s.reports[sessionID] = report
	return &report, nil
}

// ListReports returns all reports ordered by creation.
func (s *MemoryStore) ListReports(ctx context.Context) ([]domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reports := make([]domain.Report, 0, len(s.reports))
	for _, r := range s.reports {
		reports = append(reports, r)
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].ID < reports[j].ID })
	return reports, nil
}

// ListQuestions returns active templates ordered ascending by priority,
// stable on ties.
func (s *MemoryStore) ListQuestions(ctx context.Context) ([]domain.QuestionTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var questions []domain.QuestionTemplate
	for _, q := range s.questions {
		if q.IsActive {
			questions = append(questions, q)
		}
	}
	sort.SliceStable(questions, func(i, j int) bool { return questions[i].Priority < questions[j].Priority })
	return questions, nil
}

// CreateFeedback stores a feedback record, assigning its id and timestamp.
func (s *MemoryStore) CreateFeedback(ctx context.Context, feedback *domain.TrainingFeedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	feedback.ID = s.nextFeedbackID
	s.nextFeedbackID++
	feedback.CreatedAt = time.Now()

	s.feedback = append(s.feedback, *feedback)
	return nil
}

// ListFeedback returns all feedback records in creation order.
func (s *MemoryStore) ListFeedback(ctx context.Context) ([]domain.TrainingFeedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.TrainingFeedback, len(s.feedback))
	copy(out, s.feedback)
	return out, nil
}

// CreateUser stores a user, assigning its id.
func (s *MemoryStore) CreateUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.ID = s.nextUserID
	s.nextUserID++
	s.users[user.ID] = *user
	return nil
}

// GetUser retrieves a user by id.
func (s *MemoryStore) GetUser(ctx context.Context, id int) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username.
func (s *MemoryStore) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			return &user, nil
		}
	}
	return nil, nil
}
