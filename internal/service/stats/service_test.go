package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wrenhall/tome-api/internal/domain/progress"
	"github.com/wrenhall/tome-api/internal/store"
)

// fakeProgressStore returns canned aggregates.
type fakeProgressStore struct {
	aggregates  store.ReviewAggregates
	quizAvg     float64
	activity    []time.Time
	leaderboard []progress.LeaderboardEntry
	err         error
}

func (f *fakeProgressStore) GetReviewAggregates(ctx context.Context, userID uuid.UUID) (store.ReviewAggregates, error) {
	return f.aggregates, f.err
}

func (f *fakeProgressStore) GetQuizAverage(ctx context.Context, userID uuid.UUID) (float64, error) {
	return f.quizAvg, f.err
}

func (f *fakeProgressStore) ListActivityDates(ctx context.Context, userID uuid.UUID) ([]time.Time, error) {
	return f.activity, f.err
}

func (f *fakeProgressStore) ListLeaderboardAggregates(ctx context.Context) ([]progress.LeaderboardEntry, error) {
	return f.leaderboard, f.err
}

func TestGetOverview(t *testing.T) {
	now := time.Date(2025, 6, 15, 18, 0, 0, 0, time.UTC)
	fake := &fakeProgressStore{
		aggregates: store.ReviewAggregates{TotalReviews: 25, AccuracyPercent: 80},
		quizAvg:    90,
		activity: []time.Time{
			now,
			now.AddDate(0, 0, -1),
			now.AddDate(0, 0, -2),
		},
	}

	svc := NewStatsService(fake, nil)
	svc.(*statsServiceImpl).timeFunc = func() time.Time { return now }

	overview, err := svc.GetOverview(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.Equal(t, 25, overview.TotalReviews)
	assert.Equal(t, 3, overview.StreakDays)
	// 5 activity points + 24 accuracy points + 45 quiz points
	assert.InDelta(t, 74.0, overview.Score, 0.0001)
}

func TestGetOverviewEmptyHistory(t *testing.T) {
	svc := NewStatsService(&fakeProgressStore{}, nil)

	overview, err := svc.GetOverview(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.Zero(t, overview.TotalReviews)
	assert.Zero(t, overview.StreakDays)
	assert.Zero(t, overview.Score)
}

func TestGetOverviewStoreError(t *testing.T) {
	svc := NewStatsService(&fakeProgressStore{err: errors.New("timeout")}, nil)

	overview, err := svc.GetOverview(context.Background(), uuid.New())

	require.Error(t, err)
	assert.Nil(t, overview)
}

func TestGetLeaderboardRanksByScore(t *testing.T) {
	low := progress.LeaderboardEntry{UserID: uuid.New(), Email: "low@example.com", TotalReviews: 5}
	high := progress.LeaderboardEntry{
		UserID: uuid.New(), Email: "high@example.com",
		TotalReviews: 100, AccuracyPercent: 90, AvgQuizScore: 85,
	}
	svc := NewStatsService(&fakeProgressStore{
		leaderboard: []progress.LeaderboardEntry{low, high},
	}, nil)

	ranked, err := svc.GetLeaderboard(context.Background())

	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "high@example.com", ranked[0].Email)
	assert.Greater(t, ranked[0].Score, ranked[1].Score)
}
