package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wrenhall/tome-api/internal/domain/progress"
)

// ReviewAggregates summarizes a user's review history for scoring.
// Zero values represent an empty history; absence is not an error.
type ReviewAggregates struct {
	TotalReviews    int
	AccuracyPercent float64 // Share of reviews with quality >= 3, in percent
}

// ProgressStore defines the aggregate queries feeding the streak
// calculator and the composite scorer. All methods treat an empty
// history as zeros, never as an error.
type ProgressStore interface {
	// GetReviewAggregates returns a user's total review count and
	// accuracy percentage derived from the review event log.
	GetReviewAggregates(ctx context.Context, userID uuid.UUID) (ReviewAggregates, error)

	// GetQuizAverage returns the mean score of a user's quiz results,
	// or 0 when the user has none.
	GetQuizAverage(ctx context.Context, userID uuid.UUID) (float64, error)

	// ListActivityDates returns the distinct calendar dates on which the
	// user had any trackable activity: reviews, quiz completions, or
	// note creation.
	ListActivityDates(ctx context.Context, userID uuid.UUID) ([]time.Time, error)

	// ListLeaderboardAggregates returns one unranked entry per
	// registered user, with Score left unset for the scorer to fill.
	ListLeaderboardAggregates(ctx context.Context) ([]progress.LeaderboardEntry, error)
}
