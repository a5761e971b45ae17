package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/wrenhall/tome-api/internal/domain"
	"github.com/wrenhall/tome-api/internal/platform/logger"
	"github.com/wrenhall/tome-api/internal/store"
)

// PostgresQuizStore implements the store.QuizStore interface
// using a PostgreSQL database as the storage backend.
type PostgresQuizStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresQuizStore creates a new PostgreSQL implementation of the
// QuizStore interface.
func NewPostgresQuizStore(db store.DBTX, logger *slog.Logger) *PostgresQuizStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresQuizStore{
		db:     db,
		logger: logger.With(slog.String("component", "quiz_store")),
	}
}

// Ensure PostgresQuizStore implements store.QuizStore interface
var _ store.QuizStore = (*PostgresQuizStore)(nil)

// ListByBook implements store.QuizStore.ListByBook.
func (s *PostgresQuizStore) ListByBook(ctx context.Context, bookID uuid.UUID) ([]*domain.Quiz, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, book_id, title, created_at, updated_at
		FROM quizzes
		WHERE book_id = $1
		ORDER BY title
	`

	rows, err := s.db.QueryContext(ctx, query, bookID)
	if err != nil {
		log.Error("failed to list quizzes",
			slog.String("error", err.Error()),
			slog.String("book_id", bookID.String()))
		return nil, fmt.Errorf("failed to list quizzes: %w", mapError(err))
	}
	defer func() { _ = rows.Close() }()

	var quizzes []*domain.Quiz
	for rows.Next() {
		var quiz domain.Quiz
		if err := rows.Scan(
			&quiz.ID,
			&quiz.BookID,
			&quiz.Title,
			&quiz.CreatedAt,
			&quiz.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan quiz: %w", err)
		}
		quizzes = append(quizzes, &quiz)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quizzes: %w", err)
	}

	return quizzes, nil
}

// GetByID implements store.QuizStore.GetByID.
// Returns store.ErrQuizNotFound if the quiz does not exist.
func (s *PostgresQuizStore) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.Quiz, []*domain.QuizQuestion, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	quizQuery := `
		SELECT id, book_id, title, created_at, updated_at
		FROM quizzes
		WHERE id = $1
	`

	var quiz domain.Quiz
	err := s.db.QueryRowContext(ctx, quizQuery, id).Scan(
		&quiz.ID,
		&quiz.BookID,
		&quiz.Title,
		&quiz.CreatedAt,
		&quiz.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, store.ErrQuizNotFound
		}
		log.Error("failed to get quiz",
			slog.String("error", err.Error()),
			slog.String("quiz_id", id.String()))
		return nil, nil, fmt.Errorf("failed to get quiz: %w", mapError(err))
	}

	questionQuery := `
		SELECT id, quiz_id, position, prompt, options, answer_index
		FROM quiz_questions
		WHERE quiz_id = $1
		ORDER BY position
	`

	rows, err := s.db.QueryContext(ctx, questionQuery, id)
	if err != nil {
		log.Error("failed to list quiz questions",
			slog.String("error", err.Error()),
			slog.String("quiz_id", id.String()))
		return nil, nil, fmt.Errorf("failed to list quiz questions: %w", mapError(err))
	}
	defer func() { _ = rows.Close() }()

	var questions []*domain.QuizQuestion
	for rows.Next() {
		var question domain.QuizQuestion
		var options []byte
		if err := rows.Scan(
			&question.ID,
			&question.QuizID,
			&question.Position,
			&question.Prompt,
			&options,
			&question.AnswerIndex,
		); err != nil {
			return nil, nil, fmt.Errorf("failed to scan quiz question: %w", err)
		}
		if err := json.Unmarshal(options, &question.Options); err != nil {
			return nil, nil, fmt.Errorf("failed to decode question options: %w", err)
		}
		questions = append(questions, &question)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate quiz questions: %w", err)
	}

	return &quiz, questions, nil
}

// CreateResult implements store.QuizStore.CreateResult.
// Returns store.ErrQuizNotFound if the referenced quiz does not exist.
func (s *PostgresQuizStore) CreateResult(ctx context.Context, result *domain.QuizResult) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO quiz_results (id, user_id, quiz_id, score_percent, completed_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.db.ExecContext(ctx, query,
		result.ID,
		result.UserID,
		result.QuizID,
		result.ScorePercent,
		result.CompletedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrQuizNotFound
		}
		log.Error("failed to create quiz result",
			slog.String("error", err.Error()),
			slog.String("quiz_id", result.QuizID.String()),
			slog.String("user_id", result.UserID.String()))
		return fmt.Errorf("failed to create quiz result: %w", mapError(err))
	}

	return nil
}
