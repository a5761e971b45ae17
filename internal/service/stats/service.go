// Package stats assembles the progress dashboard and the leaderboard
// from stored aggregates and the pure progress computations.
package stats

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

// Overview is a user's progress dashboard payload.
type Overview struct {
	TotalReviews    int     `json:"total_reviews"`
	AccuracyPercent float64 `json:"accuracy_percent"`
	AvgQuizScore    float64 `json:"avg_quiz_score"`
	StreakDays      int     `json:"streak_days"`
	Score           float64 `json:"score"`
}

// StatsService provides progress reporting and the leaderboard.
type StatsService interface {
	// GetOverview returns the user's progress dashboard: review totals,
	// accuracy, quiz average, current streak, and composite score. An
	// empty history yields zeros, not an error.
	GetOverview(ctx context.Context, userID uuid.UUID) (*Overview, error)

	// GetLeaderboard returns every registered user ranked by composite
	// score, highest first.
	GetLeaderboard(ctx context.Context) ([]progress.LeaderboardEntry, error)
}

// Verify interface compliance at compile time
var _ StatsService = (*statsServiceImpl)(nil)

// statsServiceImpl implements the StatsService interface.
type statsServiceImpl struct {
	progressStore store.ProgressStore
	timeFunc      func() time.Time // Injectable for testing
	logger        *slog.Logger
}

// NewStatsService creates a new StatsService implementation.
func NewStatsService(progressStore store.ProgressStore, logger *slog.Logger) StatsService {
	if progressStore == nil {
		panic("progressStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &statsServiceImpl{
		progressStore: progressStore,
		timeFunc:      time.Now,
		logger:        logger.With(slog.String("component", "stats_service")),
	}
}

// GetOverview implements StatsService.GetOverview.
func (s *statsServiceImpl) GetOverview(ctx context.Context, userID uuid.UUID) (*Overview, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	agg, err := s.progressStore.GetReviewAggregates(ctx, userID)
	if err != nil {
		log.Error("failed to load review aggregates",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to load review aggregates: %w", err)
	}

	quizAvg, err := s.progressStore.GetQuizAverage(ctx, userID)
	if err != nil {
		log.Error("failed to load quiz average",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to load quiz average: %w", err)
	}

	activityDates, err := s.progressStore.ListActivityDates(ctx, userID)
	if err != nil {
		log.Error("failed to load activity dates",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to load activity dates: %w", err)
	}

	return &Overview{
		TotalReviews:    agg.TotalReviews,
		AccuracyPercent: agg.AccuracyPercent,
		AvgQuizScore:    quizAvg,
		StreakDays:      progress.ComputeStreak(activityDates, s.timeFunc()),
		Score:           progress.CompositeScore(agg.TotalReviews, agg.AccuracyPercent, quizAvg),
	}, nil
}

// GetLeaderboard implements StatsService.GetLeaderboard.
func (s *statsServiceImpl) GetLeaderboard(ctx context.Context) ([]progress.LeaderboardEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	entries, err := s.progressStore.ListLeaderboardAggregates(ctx)
	if err != nil {
		log.Error("failed to load leaderboard aggregates",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load leaderboard aggregates: %w", err)
	}

	progress.RankLeaderboard(entries)
	return entries, nil
}
