// Package store defines the storage interface and implementations.
package store

import (
	"context"
	"errors"

	"github.com/medbot/intake/domain"
)

// ErrDuplicateSession is returned when a session id is created twice.
// Re-creating a session would silently drop its message history, so the
// store rejects it and callers surface a conflict instead.
var ErrDuplicateSession = errors.New("store: session id already exists")

// Store defines the interface for data persistence. Lookup methods return
// (nil, nil) when the target does not exist; callers must check.
type Store interface {
	// Session operations
	CreateSession(ctx context.Context, sessionID string) (*domain.Session, error)
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
	UpdateSession(ctx context.Context, sessionID string, updates domain.SessionUpdate) (*domain.Session, error)

	// Message operations
	CreateMessage(ctx context.Context, message *domain.Message) error
	GetMessages(ctx context.Context, sessionID string) ([]domain.Message, error)

	// Report operations
	CreateReport(ctx context.Context, sessionID string) (*domain.Report, error)
	GetReport(ctx context.Context, sessionID string) (*domain.Report, error)
	UpdateReport(ctx context.Context, sessionID string, updates domain.ReportUpdate) (*domain.Report, error)
	ListReports(ctx context.Context) ([]domain.Report, error)

	// Question flow operations
	ListQuestions(ctx context.Context) ([]domain.QuestionTemplate, error)

	// Training feedback operations
	CreateFeedback(ctx context.Context, feedback *domain.TrainingFeedback) error
	ListFeedback(ctx context.Context) ([]domain.TrainingFeedback, error)

	// User operations
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id int) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// Lifecycle
	Close() error
}
