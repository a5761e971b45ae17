package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/wrenhall/tome-api/internal/domain"
)

// ReviewStore defines the interface for per-user scheduling state and
// the append-only review audit log.
type ReviewStore interface {
	// GetState retrieves the review state for a (user, card) pair.
	// Returns ErrReviewStateNotFound when the card has never been
	// reviewed; callers default the state in that case.
	GetState(ctx context.Context, userID, cardID uuid.UUID) (*domain.CardReviewState, error)

	// UpsertState persists a review state as a single atomic
	// insert-or-update keyed by (user, card). Concurrent submissions for
	// the same pair must not interleave into an inconsistent row, so
	// implementations use one conditional statement rather than separate
	// read-then-write steps.
	UpsertState(ctx context.Context, state *domain.CardReviewState) error

	// AppendEvent appends one immutable review event to the audit log.
	// Events are never updated or deleted.
	AppendEvent(ctx context.Context, event *domain.ReviewEvent) error

	// ListEvents returns a user's review events for a card, most recent
	// first.
	ListEvents(ctx context.Context, userID, cardID uuid.UUID) ([]*domain.ReviewEvent, error)

	// WithTx returns a ReviewStore bound to the given transaction so the
	// state upsert and the event append can share one transaction with
	// the surrounding service logic.
	WithTx(tx *sql.Tx) ReviewStore
}
