package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/medbot/intake/domain"
)

// SQLiteStore implements Store using SQLite. It keeps the same contract as
// MemoryStore: message ids come from one AUTOINCREMENT counter, so they
// are strictly increasing across the whole process.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store and seeds the question flow.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// In-memory databases exist per connection; keep the pool at one so
	// every query sees the same database.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	if err := store.seedQuestionFlow(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed question flow: %w", err)
	}

	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS chat_sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL UNIQUE,
			start_time DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			end_time DATETIME,
			progress_percentage INTEGER NOT NULL DEFAULT 0,
			is_complete INTEGER NOT NULL DEFAULT 0,
			collected_data TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS chat_messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			message_type TEXT NOT NULL,
			content TEXT NOT NULL,
			timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			metadata TEXT,
			FOREIGN KEY (session_id) REFERENCES chat_sessions(session_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_session ON chat_messages(session_id, id)`,
		`CREATE TABLE IF NOT EXISTS adr_reports (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL UNIQUE,
			medication_name TEXT,
			medication_dose TEXT,
			reaction_symptoms TEXT,
			reaction_severity INTEGER,
			timeline_start TEXT,
			timeline_description TEXT,
			patient_age TEXT,
			patient_gender TEXT,
			other_medications TEXT,
			previous_reactions INTEGER,
			additional_notes TEXT,
			is_complete INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (session_id) REFERENCES chat_sessions(session_id)
		)`,
		`CREATE TABLE IF NOT EXISTS question_flow (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			question_key TEXT NOT NULL,
			question_text TEXT NOT NULL,
			question_type TEXT NOT NULL,
			options TEXT,
			priority INTEGER NOT NULL DEFAULT 0,
			depends_on TEXT,
			is_active INTEGER NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS training_feedback (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			question_sequence TEXT NOT NULL,
			completion_rate INTEGER NOT NULL,
			user_satisfaction INTEGER,
			improvements TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}

	return nil
}

// seedQuestionFlow inserts the default templates on first start.
func (s *SQLiteStore) seedQuestionFlow() error {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM question_flow`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, q := range defaultQuestionFlow() {
		var options sql.NullString
		if len(q.Options) > 0 {
			data, err := json.Marshal(q.Options)
			if err != nil {
				return err
			}
			options = sql.NullString{String: string(data), Valid: true}
		}
		_, err := s.db.Exec(
			`INSERT INTO question_flow (question_key, question_text, question_type, options, priority, depends_on, is_active)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			q.QuestionKey, q.QuestionText, q.QuestionType, options, q.Priority, nullString(q.DependsOn), q.IsActive)
		if err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateSession creates a new session.
func (s *SQLiteStore) CreateSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	existing, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateSession
	}

	now := time.Now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_sessions (session_id, start_time) VALUES (?, ?)`,
		sessionID, now)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &domain.Session{ID: int(id), SessionID: sessionID, StartTime: now}, nil
}

// GetSession retrieves a session by id.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	var session domain.Session
	var endTime sql.NullTime
	var collected sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, session_id, start_time, end_time, progress_percentage, is_complete, collected_data
		 FROM chat_sessions WHERE session_id = ?`,
		sessionID).Scan(&session.ID, &session.SessionID, &session.StartTime, &endTime,
		&session.ProgressPercentage, &session.IsComplete, &collected)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if endTime.Valid {
		session.EndTime = &endTime.Time
	}
	if collected.Valid {
		session.CollectedData = json.RawMessage(collected.String)
	}
	return &session, nil
}

// UpdateSession applies the non-nil fields of the update.
func (s *SQLiteStore) UpdateSession(ctx context.Context, sessionID string, updates domain.SessionUpdate) (*domain.Session, error) {
	var sets []string
	var args []interface{}

	if updates.EndTime != nil {
		sets = append(sets, "end_time = ?")
		args = append(args, *updates.EndTime)
	}
	if updates.ProgressPercentage != nil {
		sets = append(sets, "progress_percentage = ?")
		args = append(args, *updates.ProgressPercentage)
	}
	if updates.IsComplete != nil {
		sets = append(sets, "is_complete = ?")
		args = append(args, *updates.IsComplete)
	}
	if updates.CollectedData != nil {
		sets = append(sets, "collected_data = ?")
		args = append(args, string(updates.CollectedData))
	}

	if len(sets) > 0 {
		args = append(args, sessionID)
		query := fmt.Sprintf(`UPDATE chat_sessions SET %s WHERE session_id = ?`, strings.Join(sets, ", "))
		if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
			return nil, err
		}
	}

	return s.GetSession(ctx, sessionID)
}

// CreateMessage creates a new message, assigning its id and timestamp.
func (s *SQLiteStore) CreateMessage(ctx context.Context, message *domain.Message) error {
	now := time.Now()
	var metadata sql.NullString
	if message.Metadata != nil {
		metadata = sql.NullString{String: string(message.Metadata), Valid: true}
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_messages (session_id, message_type, content, timestamp, metadata) VALUES (?, ?, ?, ?, ?)`,
		message.SessionID, message.MessageType, message.Content, now, metadata)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	message.ID = int(id)
	message.Timestamp = now
	return nil
}

// GetMessages retrieves messages for a session in creation order.
func (s *SQLiteStore) GetMessages(ctx context.Context, sessionID string) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, message_type, content, timestamp, metadata
		 FROM chat_messages WHERE session_id = ? ORDER BY id ASC`,
		sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		var metadata sql.NullString
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.MessageType, &msg.Content, &msg.Timestamp, &metadata); err != nil {
			return nil, err
		}
		if metadata.Valid {
			msg.Metadata = json.RawMessage(metadata.String)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// CreateReport creates the empty report paired with a session.
func (s *SQLiteStore) CreateReport(ctx context.Context, sessionID string) (*domain.Report, error) {
	now := time.Now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO adr_reports (session_id, created_at) VALUES (?, ?)`,
		sessionID, now)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &domain.Report{ID: int(id), SessionID: sessionID, CreatedAt: now}, nil
}

// GetReport retrieves the report for a session.
func (s *SQLiteStore) GetReport(ctx context.Context, sessionID string) (*domain.Report, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, session_id, medication_name, medication_dose, reaction_symptoms, reaction_severity,
		        timeline_start, timeline_description, patient_age, patient_gender, other_medications,
		        previous_reactions, additional_notes, is_complete, created_at
		 FROM adr_reports WHERE session_id = ?`, sessionID)
	report, err := scanReport(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return report, nil
}

// UpdateReport applies the non-nil fields of the update. Fields absent
// from the update keep their stored values.
func (s *SQLiteStore) UpdateReport(ctx context.Context, sessionID string, updates domain.ReportUpdate) (*domain.Report, error) {
	existing, err := s.GetReport(ctx, sessionID)
	if err != nil || existing == nil {
		return nil, err
	}

	var sets []string
	var args []interface{}
	add := func(column string, value interface{}) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if updates.MedicationName != nil {
		add("medication_name", *updates.MedicationName)
	}
	if updates.MedicationDose != nil {
		add("medication_dose", *updates.MedicationDose)
	}
	if updates.ReactionSymptoms != nil {
		add("reaction_symptoms", *updates.ReactionSymptoms)
	}
	if updates.ReactionSeverity != nil {
		add("reaction_severity", *updates.ReactionSeverity)
	}
	if updates.TimelineStart != nil {
		add("timeline_start", *updates.TimelineStart)
	}
	if updates.TimelineDescription != nil {
		add("timeline_description", *updates.TimelineDescription)
	}
	if updates.PatientAge != nil {
		add("patient_age", *updates.PatientAge)
	}
	if updates.PatientGender != nil {
		add("patient_gender", *updates.PatientGender)
	}
	if updates.OtherMedications != nil {
		add("other_medications", *updates.OtherMedications)
	}
	if updates.PreviousReactions != nil {
		add("previous_reactions", *updates.PreviousReactions)
	}
	if updates.AdditionalNotes != nil {
		add("additional_notes", *updates.AdditionalNotes)
	}
	if updates.IsComplete != nil {
		add("is_complete", *updates.IsComplete)
	}

	if len(sets) > 0 {
		args = append(args, sessionID)
		query := fmt.Sprintf(`UPDATE adr_reports SET %s WHERE session_id = ?`, strings.Join(sets, ", "))
		if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
			return nil, err
		}
	}

	return s.GetReport(ctx, sessionID)
}

// ListReports returns all reports ordered by creation.
func (s *SQLiteStore) ListReports(ctx context.Context) ([]domain.Report, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, medication_name, medication_dose, reaction_symptoms, reaction_severity,
		        timeline_start, timeline_description, patient_age, patient_gender, other_medications,
		        previous_reactions, additional_notes, is_complete, created_at
		 FROM adr_reports ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []domain.Report
	for rows.Next() {
		report, err := scanReport(rows.Scan)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}
	return reports, rows.Err()
}

// ListQuestions returns active templates ordered ascending by priority.
func (s *SQLiteStore) ListQuestions(ctx context.Context) ([]domain.QuestionTemplate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, question_key, question_text, question_type, options, priority, depends_on, is_active
		 FROM question_flow WHERE is_active = 1 ORDER BY priority ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []domain.QuestionTemplate
	for rows.Next() {
		var q domain.QuestionTemplate
		var options, dependsOn sql.NullString
		if err := rows.Scan(&q.ID, &q.QuestionKey, &q.QuestionText, &q.QuestionType, &options, &q.Priority, &dependsOn, &q.IsActive); err != nil {
			return nil, err
		}
		if options.Valid {
			if err := json.Unmarshal([]byte(options.String), &q.Options); err != nil {
				return nil, fmt.Errorf("failed to decode question options: %w", err)
			}
		}
		if dependsOn.Valid {
			q.DependsOn = dependsOn.String
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// CreateFeedback stores a feedback record.
func (s *SQLiteStore) CreateFeedback(ctx context.Context, feedback *domain.TrainingFeedback) error {
	now := time.Now()
	sequence, err := json.Marshal(feedback.QuestionSequence)
	if err != nil {
		return fmt.Errorf("failed to marshal question sequence: %w", err)
	}
	var satisfaction sql.NullInt64
	if feedback.UserSatisfaction != nil {
		satisfaction = sql.NullInt64{Int64: int64(*feedback.UserSatisfaction), Valid: true}
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO training_feedback (session_id, question_sequence, completion_rate, user_satisfaction, improvements, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		feedback.SessionID, string(sequence), feedback.CompletionRate, satisfaction,
		nullString(feedback.Improvements), now)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	feedback.ID = int(id)
	feedback.CreatedAt = now
	return nil
}

// ListFeedback returns all feedback records in creation order.
func (s *SQLiteStore) ListFeedback(ctx context.Context) ([]domain.TrainingFeedback, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, question_sequence, completion_rate, user_satisfaction, improvements, created_at
		 FROM training_feedback ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var feedback []domain.TrainingFeedback
	for rows.Next() {
		var fb domain.TrainingFeedback
		var sequence string
		var satisfaction sql.NullInt64
		var improvements sql.NullString
		if err := rows.Scan(&fb.ID, &fb.SessionID, &sequence, &fb.CompletionRate, &satisfaction, &improvements, &fb.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(sequence), &fb.QuestionSequence); err != nil {
			return nil, fmt.Errorf("failed to decode question sequence: %w", err)
		}
		if satisfaction.Valid {
			v := int(satisfaction.Int64)
			fb.UserSatisfaction = &v
		}
		if improvements.Valid {
			fb.Improvements = improvements.String
		}
		feedback = append(feedback, fb)
	}
	return feedback, rows.Err()
}

// CreateUser stores a user.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *domain.User) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, password) VALUES (?, ?)`,
		user.Username, user.Password)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = int(id)
	return nil
}

// GetUser retrieves a user by id.
func (s *SQLiteStore) GetUser(ctx context.Context, id int) (*domain.User, error) {
	var user domain.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, password FROM users WHERE id = ?`, id).
		Scan(&user.ID, &user.Username, &user.Password)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username.
func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, password FROM users WHERE username = ?`, username).
		Scan(&user.ID, &user.Username, &user.Password)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// scanReport scans one adr_reports row via the given scan function.
func scanReport(scan func(dest ...interface{}) error) (*domain.Report, error) {
	var report domain.Report
	var medName, medDose, symptoms, timelineStart, timelineDesc sql.NullString
	var age, gender, otherMeds, notes sql.NullString
	var severity sql.NullInt64
	var previous sql.NullBool

	err := scan(&report.ID, &report.SessionID, &medName, &medDose, &symptoms, &severity,
		&timelineStart, &timelineDesc, &age, &gender, &otherMeds,
		&previous, &notes, &report.IsComplete, &report.CreatedAt)
	if err != nil {
		return nil, err
	}

	report.MedicationName = stringPtr(medName)
	report.MedicationDose = stringPtr(medDose)
	report.ReactionSymptoms = stringPtr(symptoms)
	report.TimelineStart = stringPtr(timelineStart)
	report.TimelineDescription = stringPtr(timelineDesc)
	report.PatientAge = stringPtr(age)
	report.PatientGender = stringPtr(gender)
	report.OtherMedications = stringPtr(otherMeds)
	report.AdditionalNotes = stringPtr(notes)
	if severity.Valid {
		v := int(severity.Int64)
		report.ReactionSeverity = &v
	}
	if previous.Valid {
		v := previous.Bool
		report.PreviousReactions = &v
	}
	return &report, nil
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullString(v string) sql.NullString {
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}
