package srs

import (
	"math"
	"time"

	"github.com/wrenhall/tome-api/internal/domain"
)

// Quality rating bounds. A rating below PassingQuality counts as a
// failed recall.
const (
	MinQuality     = 0
	MaxQuality     = 5
	PassingQuality = 3
)

// newEaseFactor computes the adjusted easiness factor for a review.
//
// The adjustment follows the SM-2 formula
//
//	EF' = EF + (0.1 - (5-q)*(0.08 + (5-q)*0.02))
//
// so a perfect rating (5) nudges easiness up by 0.1 and a blackout (0)
// drops it by 0.8. The result is clamped at domain.MinEasinessFactor and
// rounded to two decimal places to keep stored values stable across
// replay.
func newEaseFactor(currentEF float64, quality int) float64 {
	q := float64(quality)
	delta := 0.1 - (5-q)*(0.08+(5-q)*0.02)
	ef := currentEF + delta

	if ef < domain.MinEasinessFactor {
		ef = domain.MinEasinessFactor
	}

	// math.Round rounds half away from zero.
	return math.Round(ef*100) / 100
}

// nextInterval computes the interval in days until the next review.
//
// Failed recalls (quality < 3) always reset to a one-day interval.
// Successful recalls walk the fixed 1, 6 ladder for the first two
// repetitions and grow multiplicatively from there. The multiplicative
// branch rounds half away from zero, matching the stored-state replay
// guarantee.
func nextInterval(priorInterval, repetitions int, easeFactor float64, quality int) int {
	if quality < PassingQuality {
		return 1
	}

	switch repetitions {
	case 1:
		return 1
	case 2:
		return 6
	default:
		return int(math.Round(float64(priorInterval) * easeFactor))
	}
}

// nextState computes the full successor state for a review, following
// immutability principles by returning a new CardReviewState rather than
// mutating the prior one.
//
// The reference instant `now` supplies both the new timestamps and,
// through its UTC calendar date, the base for the next review date. The
// computation is deterministic given quality, prior, and now.
func nextState(quality int, prior *domain.CardReviewState, now time.Time) *domain.CardReviewState {
	next := &domain.CardReviewState{
		UserID:    prior.UserID,
		CardID:    prior.CardID,
		CreatedAt: prior.CreatedAt,
	}

	next.EaseFactor = newEaseFactor(prior.EaseFactor, quality)

	if quality < PassingQuality {
		next.Repetitions = 0
	} else {
		next.Repetitions = prior.Repetitions + 1
	}

	next.IntervalDays = nextInterval(prior.IntervalDays, next.Repetitions, next.EaseFactor, quality)
	next.NextReviewAt = domain.DateOf(now).AddDate(0, 0, next.IntervalDays)
	next.LastQuality = quality
	next.UpdatedAt = now

	return next
}
