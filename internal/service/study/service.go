package study

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/wrenhall/tome-api/internal/domain"
	"github.com/wrenhall/tome-api/internal/domain/srs"
	"github.com/wrenhall/tome-api/internal/platform/logger"
	"github.com/wrenhall/tome-api/internal/store"
)

// StudyService provides the review flow: building the due queue and
// recording submitted reviews.
type StudyService interface {
	// GetQueue returns the user's study queue for today: overdue cards
	// first, then never-reviewed cards, shuffled within each group and
	// capped at limit (or the configured default when limit <= 0).
	GetQueue(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Card, error)

	// SubmitReview grades a card, persists the rescheduled state, and
	// appends an audit event, all within one transaction.
	//
	// Returns ErrCardNotFound if the card does not exist and
	// ErrInvalidQuality if quality is outside [0,5].
	SubmitReview(ctx context.Context, userID, cardID uuid.UUID, quality int) (*domain.CardReviewState, error)
}

// TxRunner abstracts transaction execution so the service can be tested
// without a live database.
type TxRunner interface {
	RunInTransaction(ctx context.Context, fn store.TxFn) error
}

// SQLTxRunner runs transactions against a *sql.DB.
type SQLTxRunner struct {
	db *sql.DB
}

// NewSQLTxRunner creates a TxRunner backed by the given database handle.
func NewSQLTxRunner(db *sql.DB) *SQLTxRunner {
	if db == nil {
		panic("db cannot be nil")
	}
	return &SQLTxRunner{db: db}
}

// RunInTransaction implements the TxRunner interface.
func (r *SQLTxRunner) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	return store.RunInTransaction(ctx, r.db, fn)
}

// Verify interface compliance at compile time
var _ StudyService = (*studyServiceImpl)(nil)

// studyServiceImpl implements the StudyService interface.
type studyServiceImpl struct {
	cardStore    store.CardStore
	reviewStore  store.ReviewStore
	scheduler    srs.Scheduler
	txRunner     TxRunner
	defaultLimit int
	rng          *rand.Rand
	timeFunc     func() time.Time // Injectable for testing
	logger       *slog.Logger
}

// NewStudyService creates a new StudyService implementation.
// rng controls queue shuffling; pass nil for a time-seeded source.
func NewStudyService(
	cardStore store.CardStore,
	reviewStore store.ReviewStore,
	scheduler srs.Scheduler,
	txRunner TxRunner,
	defaultLimit int,
	rng *rand.Rand,
	logger *slog.Logger,
) StudyService {
	if cardStore == nil {
		panic("cardStore cannot be nil")
	}
	if reviewStore == nil {
		panic("reviewStore cannot be nil")
	}
	if scheduler == nil {
		panic("scheduler cannot be nil")
	}
	if txRunner == nil {
		panic("txRunner cannot be nil")
	}
	if defaultLimit <= 0 {
		defaultLimit = srs.DefaultQueueLimit
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &studyServiceImpl{
		cardStore:    cardStore,
		reviewStore:  reviewStore,
		scheduler:    scheduler,
		txRunner:     txRunner,
		defaultLimit: defaultLimit,
		rng:          rng,
		timeFunc:     time.Now,
		logger:       logger.With(slog.String("component", "study_service")),
	}
}

// GetQueue implements StudyService.GetQueue.
func (s *studyServiceImpl) GetQueue(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = s.defaultLimit
	}

	pool, err := s.cardStore.ListWithState(ctx, userID)
	if err != nil {
		log.Error("failed to load candidate cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to load candidate cards: %w", err)
	}

	candidates := make([]srs.Candidate, 0, len(pool))
	for _, cs := range pool {
		candidates = append(candidates, srs.Candidate{Card: cs.Card, State: cs.State})
	}

	queue := srs.SelectDue(candidates, s.timeFunc(), limit, s.rng)

	log.Debug("built study queue",
		slog.String("user_id", userID.String()),
		slog.Int("pool_size", len(pool)),
		slog.Int("queue_size", len(queue)))

	return queue, nil
}

// SubmitReview implements StudyService.SubmitReview.
func (s *studyServiceImpl) SubmitReview(
	ctx context.Context,
	userID, cardID uuid.UUID,
	quality int,
) (*domain.CardReviewState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if quality < srs.MinQuality || quality > srs.MaxQuality {
		log.Warn("invalid quality rating",
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()),
			slog.Int("quality", quality))
		return nil, ErrInvalidQuality
	}

	now := s.timeFunc()

	var updated *domain.CardReviewState
	err := s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := s.cardStore.GetByID(ctx, cardID); err != nil {
			if errors.Is(err, store.ErrCardNotFound) {
				log.Warn("card not found for review",
					slog.String("user_id", userID.String()),
					slog.String("card_id", cardID.String()))
				return ErrCardNotFound
			}
			return fmt.Errorf("failed to get card: %w", err)
		}

		reviews := s.reviewStore.WithTx(tx)

		prior, err := reviews.GetState(ctx, userID, cardID)
		if err != nil {
			if !errors.Is(err, store.ErrReviewStateNotFound) {
				return fmt.Errorf("failed to get review state: %w", err)
			}
			prior, err = domain.NewCardReviewState(userID, cardID, now)
			if err != nil {
				return fmt.Errorf("failed to create review state: %w", err)
			}
		}

		next, err := s.scheduler.Schedule(quality, prior, now)
		if err != nil {
			if errors.Is(err, srs.ErrInvalidQuality) {
				return ErrInvalidQuality
			}
			return fmt.Errorf("failed to schedule review: %w", err)
		}

		if err := reviews.UpsertState(ctx, next); err != nil {
			return fmt.Errorf("failed to save review state: %w", err)
		}

		event := domain.NewReviewEvent(quality, next, now)
		if err := reviews.AppendEvent(ctx, event); err != nil {
			return fmt.Errorf("failed to record review event: %w", err)
		}

		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debug("review recorded",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.Int("quality", quality),
		slog.Int("interval_days", updated.IntervalDays),
		slog.Time("next_review_at", updated.NextReviewAt))

	return updated, nil
}
