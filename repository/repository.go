package repository

import (
	"context"
	"errors"

	"transparency-backend/models"
)

// ErrNotFound is returned when a lookup matches no record
var ErrNotFound = errors.New("record not found")

// QuestionAnswerRepository stores interview turns
type QuestionAnswerRepository interface {
	// Upsert creates or replaces the turn keyed by user, chat and question number
	Upsert(ctx context.Context, qa *models.QuestionAnswer) error

	// ListByChat returns the turns of a chat ordered by question number
	ListByChat(ctx context.Context, userID, chatID string) ([]models.QuestionAnswer, error)

	// DeleteByChat removes every turn of a chat
	DeleteByChat(ctx context.Context, userID, chatID string) error
}

// ReportRepository stores generated reports, one per chat
type ReportRepository interface {
	// Save creates the report of a chat, replacing an earlier one
	Save(ctx context.Context, report *models.Report) error

	// GetByChat returns ErrNotFound when the chat has no report
	GetByChat(ctx context.Context, userID, chatID string) (*models.Report, error)

	DeleteByChat(ctx context.Context, userID, chatID string) error
}

// RecentRepository stores the report listing shown to a user
type RecentRepository interface {
	Save(ctx context.Context, recent *models.Recent) error

	// ListByUser returns entries newest first
	ListByUser(ctx context.Context, userID string) ([]models.Recent, error)

	DeleteByChat(ctx context.Context, userID, chatID string) error
}
