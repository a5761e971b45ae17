package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/wrenhall/tome-api/internal/domain"
)

// CardWithState pairs a card with one user's review state for it.
// State is nil when the user has never reviewed the card.
type CardWithState struct {
	Card  *domain.Card
	State *domain.CardReviewState
}

// CardStore defines the interface for flashcard retrieval.
type CardStore interface {
	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// ListByBook returns all cards for a book.
	ListByBook(ctx context.Context, bookID uuid.UUID) ([]*domain.Card, error)

	// ListWithState returns the full candidate pool for a user: every
	// card joined with that user's review state where one exists. The
	// due-queue selector consumes this directly.
	ListWithState(ctx context.Context, userID uuid.UUID) ([]CardWithState, error)
}
