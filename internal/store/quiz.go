package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/wrenhall/tome-api/internal/domain"
)

// QuizStore defines the interface for quizzes and their results.
type QuizStore interface {
	// ListByBook returns a book's quizzes ordered by title.
	ListByBook(ctx context.Context, bookID uuid.UUID) ([]*domain.Quiz, error)

	// GetByID retrieves a quiz and its questions in position order.
	// Returns ErrQuizNotFound if the quiz does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Quiz, []*domain.QuizQuestion, error)

	// CreateResult appends a completed attempt. Results are append-only;
	// every attempt produces a new row.
	// Returns ErrQuizNotFound if the referenced quiz does not exist.
	CreateResult(ctx context.Context, result *domain.QuizResult) error
}
