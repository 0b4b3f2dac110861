package repository

import (
	"context"
	"errors"

	"transparency-backend/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresQuestionAnswerRepository handles database operations for interview turns
type PostgresQuestionAnswerRepository struct {
	db *pgxpool.Pool
}

// NewPostgresQuestionAnswerRepository creates a new question answer repository
func NewPostgresQuestionAnswerRepository(db *pgxpool.Pool) *PostgresQuestionAnswerRepository {
	return &PostgresQuestionAnswerRepository{db: db}
}

// Upsert creates or replaces a turn
func (r *PostgresQuestionAnswerRepository) Upsert(ctx context.Context, qa *models.QuestionAnswer) error {
	query := `
		INSERT INTO question_answers (
			user_id, chat_id, qno, question, answer
		) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, chat_id, qno) DO UPDATE SET
			question = EXCLUDED.question,
			answer = EXCLUDED.answer,
			updated_at = NOW()
		RETURNING created_at, updated_at`

	return r.db.QueryRow(
		ctx, query,
		qa.UserID,
		qa.ChatID,
		qa.QNo,
		qa.Question,
		qa.Answer,
	).Scan(&qa.CreatedAt, &qa.UpdatedAt)
}

// ListByChat retrieves the turns of a chat
func (r *PostgresQuestionAnswerRepository) ListByChat(ctx context.Context, userID, chatID string) ([]models.QuestionAnswer, error) {
	query := `
		SELECT user_id, chat_id, qno, question, answer, created_at, updated_at
		FROM question_answers
		WHERE user_id = $1 AND chat_id = $2
		ORDER BY qno ASC`

	rows, err := r.db.Query(ctx, query, userID, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	turns := make([]models.QuestionAnswer, 0)
	for rows.Next() {
		var qa models.QuestionAnswer
		err := rows.Scan(
			&qa.UserID,
			&qa.ChatID,
			&qa.QNo,
			&qa.Question,
			&qa.Answer,
			&qa.CreatedAt,
			&qa.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		turns = append(turns, qa)
	}

	return turns, rows.Err()
}

// DeleteByChat deletes the turns of a chat
func (r *PostgresQuestionAnswerRepository) DeleteByChat(ctx context.Context, userID, chatID string) error {
	query := `DELETE FROM question_answers WHERE user_id = $1 AND chat_id = $2`
	_, err := r.db.Exec(ctx, query, userID, chatID)
	return err
}

// PostgresReportRepository handles database operations for reports
type PostgresReportRepository struct {
	db *pgxpool.Pool
}

// NewPostgresReportRepository creates a new report repository
func NewPostgresReportRepository(db *pgxpool.Pool) *PostgresReportRepository {
	return &PostgresReportRepository{db: db}
}

// Save creates or replaces the report of a chat
func (r *PostgresReportRepository) Save(ctx context.Context, report *models.Report) error {
	query := `
		INSERT INTO reports (
			user_id, chat_id, report_name, transparency_score, report_summary, report
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, chat_id) DO UPDATE SET
			report_name = EXCLUDED.report_name,
			transparency_score = EXCLUDED.transparency_score,
			report_summary = EXCLUDED.report_summary,
			report = EXCLUDED.report,
			updated_at = NOW()
		RETURNING created_at, updated_at`

	return r.db.QueryRow(
		ctx, query,
		report.UserID,
		report.ChatID,
		report.ReportName,
		report.TransparencyScore,
		report.ReportSummary,
		report.Report,
	).Scan(&report.CreatedAt, &report.UpdatedAt)
}

// GetByChat retrieves the report of a chat
func (r *PostgresReportRepository) GetByChat(ctx context.Context, userID, chatID string) (*models.Report, error) {
	report := &models.Report{}
	query := `
		SELECT user_id, chat_id, report_name, transparency_score, report_summary, report,
			created_at, updated_at
		FROM reports
		WHERE user_id = $1 AND chat_id = $2`

	err := r.db.QueryRow(ctx, query, userID, chatID).Scan(
		&report.UserID,
		&report.ChatID,
		&report.ReportName,
		&report.TransparencyScore,
		&report.ReportSummary,
		&report.Report,
		&report.CreatedAt,
		&report.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return report, nil
}

// DeleteByChat deletes the report of a chat
func (r *PostgresReportRepository) DeleteByChat(ctx context.Context, userID, chatID string) error {
	query := `DELETE FROM reports WHERE user_id = $1 AND chat_id = $2`
	_, err := r.db.Exec(ctx, query, userID, chatID)
	return err
}

// PostgresRecentRepository handles database operations for report listings
type PostgresRecentRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRecentRepository creates a new recent repository
func NewPostgresRecentRepository(db *pgxpool.Pool) *PostgresRecentRepository {
	return &PostgresRecentRepository{db: db}
}

// Save creates or renames the listing entry of a chat
func (r *PostgresRecentRepository) Save(ctx context.Context, recent *models.Recent) error {
	query := `
		INSERT INTO recents (user_id, chat_id, report_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, chat_id) DO UPDATE SET
			report_name = EXCLUDED.report_name
		RETURNING created_at`

	return r.db.QueryRow(ctx, query, recent.UserID, recent.ChatID, recent.ReportName).Scan(&recent.CreatedAt)
}

// ListByUser retrieves the listing of a user, newest first
func (r *PostgresRecentRepository) ListByUser(ctx context.Context, userID string) ([]models.Recent, error) {
	query := `
		SELECT user_id, chat_id, report_name, created_at
		FROM recents
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recents := make([]models.Recent, 0)
	for rows.Next() {
		var recent models.Recent
		if err := rows.Scan(&recent.UserID, &recent.ChatID, &recent.ReportName, &recent.CreatedAt); err != nil {
			return nil, err
		}
		recents = append(recents, recent)
	}

	return recents, rows.Err()
}

// DeleteByChat deletes the listing entry of a chat
func (r *PostgresRecentRepository) DeleteByChat(ctx context.Context, userID, chatID string) error {
	query := `DELETE FROM recents WHERE user_id = $1 AND chat_id = $2`
	_, err := r.db.Exec(ctx, query, userID, chatID)
	return err
}
