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

// PostgresReviewStore implements the store.ReviewStore interface
// using a PostgreSQL database as the storage backend.
type PostgresReviewStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewStore creates a new PostgreSQL implementation of the
// ReviewStore interface.
func NewPostgresReviewStore(db store.DBTX, logger *slog.Logger) *PostgresReviewStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReviewStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_store")),
	}
}

// Ensure PostgresReviewStore implements store.ReviewStore interface
var _ store.ReviewStore = (*PostgresReviewStore)(nil)

// GetState implements store.ReviewStore.GetState.
// Returns store.ErrReviewStateNotFound when the user has never reviewed
// the card.
func (s *PostgresReviewStore) GetState(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (*domain.CardReviewState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT user_id, card_id, ease_factor, interval_days, repetitions,
		       last_quality, next_review_at, created_at, updated_at
		FROM card_review_states
		WHERE user_id = $1 AND card_id = $2
	`

	var state domain.CardReviewState
	err := s.db.QueryRowContext(ctx, query, userID, cardID).Scan(
		&state.UserID,
		&state.CardID,
		&state.EaseFactor,
		&state.IntervalDays,
		&state.Repetitions,
		&state.LastQuality,
		&state.NextReviewAt,
		&state.CreatedAt,
		&state.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrReviewStateNotFound
		}
		log.Error("failed to get review state",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()))
		return nil, fmt.Errorf("failed to get review state: %w", mapError(err))
	}

	return &state, nil
}

// UpsertState implements store.ReviewStore.UpsertState.
// The write is a single INSERT ... ON CONFLICT statement so concurrent
// reviews of the same card never race a read-modify-write cycle.
func (s *PostgresReviewStore) UpsertState(ctx context.Context, state *domain.CardReviewState) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := state.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO card_review_states
			(user_id, card_id, ease_factor, interval_days, repetitions,
			 last_quality, next_review_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, card_id) DO UPDATE SET
			ease_factor = EXCLUDED.ease_factor,
			interval_days = EXCLUDED.interval_days,
			repetitions = EXCLUDED.repetitions,
			last_quality = EXCLUDED.last_quality,
			next_review_at = EXCLUDED.next_review_at,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		state.UserID,
		state.CardID,
		state.EaseFactor,
		state.IntervalDays,
		state.Repetitions,
		state.LastQuality,
		state.NextReviewAt,
		state.CreatedAt,
		state.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to upsert review state",
			slog.String("error", err.Error()),
			slog.String("user_id", state.UserID.String()),
			slog.String("card_id", state.CardID.String()))
		return fmt.Errorf("failed to upsert review state: %w", mapError(err))
	}

	return nil
}

// AppendEvent implements store.ReviewStore.AppendEvent.
func (s *PostgresReviewStore) AppendEvent(ctx context.Context, event *domain.ReviewEvent) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO review_events
			(id, user_id, card_id, quality, ease_factor, interval_days,
			 repetitions, next_review_at, reviewed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		event.UserID,
		event.CardID,
		event.Quality,
		event.EaseFactor,
		event.IntervalDays,
		event.Repetitions,
		event.NextReviewAt,
		event.ReviewedAt,
	)
	if err != nil {
		log.Error("failed to append review event",
			slog.String("error", err.Error()),
			slog.String("user_id", event.UserID.String()),
			slog.String("card_id", event.CardID.String()))
		return fmt.Errorf("failed to append review event: %w", mapError(err))
	}

	return nil
}

// ListEvents implements store.ReviewStore.ListEvents.
func (s *PostgresReviewStore) ListEvents(
	ctx context.Context,
	userID, cardID uuid.UUID,
) ([]*domain.ReviewEvent, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, card_id, quality, ease_factor, interval_days,
		       repetitions, next_review_at, reviewed_at
		FROM review_events
		WHERE user_id = $1 AND card_id = $2
		ORDER BY reviewed_at
	`

	rows, err := s.db.QueryContext(ctx, query, userID, cardID)
	if err != nil {
		log.Error("failed to list review events",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()))
		return nil, fmt.Errorf("failed to list review events: %w", mapError(err))
	}
	defer func() { _ = rows.Close() }()

	var events []*domain.ReviewEvent
	for rows.Next() {
		var event domain.ReviewEvent
		if err := rows.Scan(
			&event.ID,
			&event.UserID,
			&event.CardID,
			&event.Quality,
			&event.EaseFactor,
			&event.IntervalDays,
			&event.Repetitions,
			&event.NextReviewAt,
			&event.ReviewedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan review event: %w", err)
		}
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate review events: %w", err)
	}

	return events, nil
}

// WithTx implements store.ReviewStore.WithTx, returning a ReviewStore
// whose operations run inside the given transaction.
func (s *PostgresReviewStore) WithTx(tx *sql.Tx) store.ReviewStore {
	return &PostgresReviewStore{
		db:     tx,
		logger: s.logger,
	}
}
