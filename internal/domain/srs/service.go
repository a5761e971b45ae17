package srs

import (
	"errors"
	"time"

	"github.com/wrenhall/tome-api/internal/domain"
)

// Common errors
var (
	ErrNilState       = errors.New("card review state cannot be nil")
	ErrInvalidQuality = errors.New("quality rating must be between 0 and 5")
)

// Scheduler defines the interface for spaced-repetition scheduling.
type Scheduler interface {
	// Schedule computes the successor review state for a submitted
	// quality rating. The prior state is either the default state for a
	// never-reviewed card or the previously computed one. The reference
	// instant `now` determines "today" for the next review date.
	//
	// Returns ErrInvalidQuality if quality is outside [0,5] and
	// ErrNilState if prior is nil; nothing is mutated in either case.
	Schedule(quality int, prior *domain.CardReviewState, now time.Time) (*domain.CardReviewState, error)
}

// defaultScheduler is the standard implementation of the Scheduler interface.
type defaultScheduler struct{}

// NewScheduler creates the standard SM-2 scheduler.
func NewScheduler() Scheduler {
	return &defaultScheduler{}
}

// Schedule implements the Scheduler interface.
func (s *defaultScheduler) Schedule(
	quality int,
	prior *domain.CardReviewState,
	now time.Time,
) (*domain.CardReviewState, error) {
	if prior == nil {
		return nil, ErrNilState
	}

	if quality < MinQuality || quality > MaxQuality {
		return nil, ErrInvalidQuality
	}

	return nextState(quality, prior, now), nil
}
