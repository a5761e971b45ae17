package progress

import (
	"bytes"
	"math"
	"sort"

	"github.com/google/uuid"
)

// Composite score weights. Activity contributes at most 20 points,
// accuracy up to 30, quiz performance up to 50.
const (
	activityDivisor = 5.0
	activityCap     = 20.0
	accuracyWeight  = 0.3
	quizWeight      = 0.5
)

// CompositeScore blends review volume, recall accuracy, and quiz
// performance into a single ranking number, rounded to one decimal
// place. Negative inputs are treated as 0, matching the handling of
// missing aggregates.
func CompositeScore(totalReviews int, accuracyPercent, avgQuizScore float64) float64 {
	if totalReviews < 0 {
		totalReviews = 0
	}
	if accuracyPercent < 0 {
		accuracyPercent = 0
	}
	if avgQuizScore < 0 {
		avgQuizScore = 0
	}

	activityScore := math.Min(float64(totalReviews)/activityDivisor, activityCap)
	accuracyScore := accuracyPercent * accuracyWeight
	quizScore := avgQuizScore * quizWeight

	return math.Round((activityScore+accuracyScore+quizScore)*10) / 10
}

// LeaderboardEntry is one user's row on the leaderboard.
type LeaderboardEntry struct {
	UserID          uuid.UUID `json:"user_id"`
	Email           string    `json:"email"`
	TotalReviews    int       `json:"total_reviews"`
	AccuracyPercent float64   `json:"accuracy_percent"`
	AvgQuizScore    float64   `json:"avg_quiz_score"`
	Score           float64   `json:"score"`
}

// RankLeaderboard fills in each entry's composite score and sorts the
// slice in place: descending by score, ties broken by user ID ascending
// so the ordering is stable across requests.
func RankLeaderboard(entries []LeaderboardEntry) {
	for i := range entries {
		entries[i].Score = CompositeScore(
			entries[i].TotalReviews,
			entries[i].AccuracyPercent,
			entries[i].AvgQuizScore,
		)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return bytes.Compare(entries[i].UserID[:], entries[j].UserID[:]) < 0
	})
}
