package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/wrenhall/tome-api/internal/domain/progress"
	"github.com/wrenhall/tome-api/internal/platform/logger"
	"github.com/wrenhall/tome-api/internal/store"
)

// PostgresProgressStore implements the store.ProgressStore interface
// using a PostgreSQL database as the storage backend. All queries treat
// an empty history as zeros rather than errors.
type PostgresProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressStore creates a new PostgreSQL implementation of
// the ProgressStore interface.
func NewPostgresProgressStore(db store.DBTX, logger *slog.Logger) *PostgresProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

// Ensure PostgresProgressStore implements store.ProgressStore interface
var _ store.ProgressStore = (*PostgresProgressStore)(nil)

// GetReviewAggregates implements store.ProgressStore.GetReviewAggregates.
// Accuracy is the share of events with quality >= 3; with no events both
// values come back as zero.
func (s *PostgresProgressStore) GetReviewAggregates(
	ctx context.Context,
	userID uuid.UUID,
) (store.ReviewAggregates, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT
			COUNT(*),
			COALESCE(AVG(CASE WHEN quality >= 3 THEN 100.0 ELSE 0.0 END), 0)
		FROM review_events
		WHERE user_id = $1
	`

	var agg store.ReviewAggregates
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&agg.TotalReviews, &agg.AccuracyPercent)
	if err != nil {
		log.Error("failed to aggregate reviews",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return store.ReviewAggregates{}, fmt.Errorf("failed to aggregate reviews: %w", mapError(err))
	}

	return agg, nil
}

// GetQuizAverage implements store.ProgressStore.GetQuizAverage.
func (s *PostgresProgressStore) GetQuizAverage(ctx context.Context, userID uuid.UUID) (float64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT COALESCE(AVG(score_percent), 0)
		FROM quiz_results
		WHERE user_id = $1
	`

	var avg float64
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&avg)
	if err != nil {
		log.Error("failed to average quiz scores",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return 0, fmt.Errorf("failed to average quiz scores: %w", mapError(err))
	}

	return avg, nil
}

// ListActivityDates implements store.ProgressStore.ListActivityDates.
// The streak calculator only cares about which calendar days saw any
// activity, so the three event tables are unioned down to distinct dates.
func (s *PostgresProgressStore) ListActivityDates(
	ctx context.Context,
	userID uuid.UUID,
) ([]time.Time, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT DISTINCT activity_date FROM (
			SELECT (reviewed_at AT TIME ZONE 'UTC')::date AS activity_date
			FROM review_events WHERE user_id = $1
			UNION
			SELECT (completed_at AT TIME ZONE 'UTC')::date
			FROM quiz_results WHERE user_id = $1
			UNION
			SELECT (created_at AT TIME ZONE 'UTC')::date
			FROM notes WHERE user_id = $1
		) activity
		ORDER BY activity_date
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list activity dates",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to list activity dates: %w", mapError(err))
	}
	defer func() { _ = rows.Close() }()

	var dates []time.Time
	for rows.Next() {
		var date time.Time
		if err := rows.Scan(&date); err != nil {
			return nil, fmt.Errorf("failed to scan activity date: %w", err)
		}
		dates = append(dates, date)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activity dates: %w", err)
	}

	return dates, nil
}

// ListLeaderboardAggregates implements
// store.ProgressStore.ListLeaderboardAggregates. Every registered user
// gets a row; users without history carry zeros and still rank.
func (s *PostgresProgressStore) ListLeaderboardAggregates(
	ctx context.Context,
) ([]progress.LeaderboardEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT
			u.id,
			u.email,
			COUNT(e.id),
			COALESCE(AVG(CASE WHEN e.quality >= 3 THEN 100.0 ELSE 0.0 END), 0),
			COALESCE(q.avg_score, 0)
		FROM users u
		LEFT JOIN review_events e ON e.user_id = u.id
		LEFT JOIN (
			SELECT user_id, AVG(score_percent) AS avg_score
			FROM quiz_results
			GROUP BY user_id
		) q ON q.user_id = u.id
		GROUP BY u.id, u.email, q.avg_score
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list leaderboard aggregates",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list leaderboard aggregates: %w", mapError(err))
	}
	defer func() { _ = rows.Close() }()

	var entries []progress.LeaderboardEntry
	for rows.Next() {
		var entry progress.LeaderboardEntry
		if err := rows.Scan(
			&entry.UserID,
			&entry.Email,
			&entry.TotalReviews,
			&entry.AccuracyPercent,
			&entry.AvgQuizScore,
		); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leaderboard entries: %w", err)
	}

	return entries, nil
}
