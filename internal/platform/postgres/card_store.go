package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/wrenhall/tome-api/internal/domain"
	"github.com/wrenhall/tome-api/internal/platform/logger"
	"github.com/wrenhall/tome-api/internal/store"
)

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the
// CardStore interface.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

// GetByID implements store.CardStore.GetByID.
// Returns store.ErrCardNotFound if the card does not exist.
func (s *PostgresCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, book_id, chapter_id, front, back, created_at, updated_at
		FROM cards
		WHERE id = $1
	`

	var card domain.Card
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&card.ID,
		&card.BookID,
		&card.ChapterID,
		&card.Front,
		&card.Back,
		&card.CreatedAt,
		&card.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to get card",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return nil, fmt.Errorf("failed to get card: %w", mapError(err))
	}

	return &card, nil
}

// ListByBook implements store.CardStore.ListByBook.
func (s *PostgresCardStore) ListByBook(ctx context.Context, bookID uuid.UUID) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, book_id, chapter_id, front, back, created_at, updated_at
		FROM cards
		WHERE book_id = $1
		ORDER BY created_at
	`

	rows, err := s.db.QueryContext(ctx, query, bookID)
	if err != nil {
		log.Error("failed to list cards",
			slog.String("error", err.Error()),
			slog.String("book_id", bookID.String()))
		return nil, fmt.Errorf("failed to list cards: %w", mapError(err))
	}
	defer func() { _ = rows.Close() }()

	return scanCards(rows)
}

// ListWithState implements store.CardStore.ListWithState.
// It joins every card against the user's review state; the state columns
// come back NULL for never-reviewed cards and the candidate's State stays
// nil, which is exactly the shape the due-queue selector expects.
func (s *PostgresCardStore) ListWithState(
	ctx context.Context,
	userID uuid.UUID,
) ([]store.CardWithState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT
			c.id, c.book_id, c.chapter_id, c.front, c.back, c.created_at, c.updated_at,
			s.user_id, s.ease_factor, s.interval_days, s.repetitions,
			s.last_quality, s.next_review_at, s.created_at, s.updated_at
		FROM cards c
		LEFT JOIN card_review_states s
			ON s.card_id = c.id AND s.user_id = $1
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list candidate cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to list candidate cards: %w", mapError(err))
	}
	defer func() { _ = rows.Close() }()

	var candidates []store.CardWithState
	for rows.Next() {
		var card domain.Card
		var (
			stateUserID  sql.Null[uuid.UUID]
			easeFactor   sql.NullFloat64
			intervalDays sql.NullInt64
			repetitions  sql.NullInt64
			lastQuality  sql.NullInt64
			nextReviewAt sql.NullTime
			stateCreated sql.NullTime
			stateUpdated sql.NullTime
		)

		if err := rows.Scan(
			&card.ID, &card.BookID, &card.ChapterID, &card.Front, &card.Back,
			&card.CreatedAt, &card.UpdatedAt,
			&stateUserID, &easeFactor, &intervalDays, &repetitions,
			&lastQuality, &nextReviewAt, &stateCreated, &stateUpdated,
		); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}

		candidate := store.CardWithState{Card: &card}
		if stateUserID.Valid {
			candidate.State = &domain.CardReviewState{
				UserID:      stateUserID.V,
				CardID:      card.ID,
				EaseFactor:  easeFactor.Float64,
				IntervalDays: int(intervalDays.Int64),
				Repetitions: int(repetitions.Int64),
				LastQuality: int(lastQuality.Int64),
				NextReviewAt: nextReviewAt.Time,
				CreatedAt:   stateCreated.Time,
				UpdatedAt:   stateUpdated.Time,
			}
		}
		candidates = append(candidates, candidate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate candidates: %w", err)
	}

	return candidates, nil
}

// scanCards reads card rows produced by the standard column order.
func scanCards(rows *sql.Rows) ([]*domain.Card, error) {
	var cards []*domain.Card
	for rows.Next() {
		var card domain.Card
		if err := rows.Scan(
			&card.ID,
			&card.BookID,
			&card.ChapterID,
			&card.Front,
			&card.Back,
			&card.CreatedAt,
			&card.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, &card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cards: %w", err)
	}
	return cards, nil
}
