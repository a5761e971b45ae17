package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Review state validation errors
var (
	ErrEmptyStateUserID  = errors.New("review state user ID cannot be empty")
	ErrEmptyStateCardID  = errors.New("review state card ID cannot be empty")
	ErrInvalidInterval   = errors.New("interval days must be greater than or equal to 0")
	ErrInvalidEaseFactor = errors.New("easiness factor must be at least 1.3")
	ErrInvalidReps       = errors.New("repetitions must be greater than or equal to 0")
)

// MinEasinessFactor is the lower bound the scheduler never crosses.
const MinEasinessFactor = 1.3

// DefaultEasinessFactor is the easiness assigned to never-reviewed cards.
const DefaultEasinessFactor = 2.5

// CardReviewState tracks a user's spaced-repetition scheduling state for
// a single card. One row exists per (user, card) pair once the card has
// been reviewed; before that the default state applies implicitly.
type CardReviewState struct {
	UserID       uuid.UUID `json:"user_id"`
	CardID       uuid.UUID `json:"card_id"`
	EaseFactor   float64   `json:"ease_factor"`    // Easiness multiplier, never below 1.3
	IntervalDays int       `json:"interval_days"`  // Current interval in days; 0 before the first review
	Repetitions  int       `json:"repetitions"`    // Consecutive successful reviews since last failure
	LastQuality  int       `json:"last_quality"`   // Last submitted quality rating, advisory only
	NextReviewAt time.Time `json:"next_review_at"` // Calendar date of the next scheduled review
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewCardReviewState creates the default state for a never-reviewed card.
// The card is due immediately: NextReviewAt is set to today.
func NewCardReviewState(userID, cardID uuid.UUID, today time.Time) (*CardReviewState, error) {
	now := time.Now().UTC()
	state := &CardReviewState{
		UserID:       userID,
		CardID:       cardID,
		EaseFactor:   DefaultEasinessFactor,
		IntervalDays: 0,
		Repetitions:  0,
		LastQuality:  0,
		NextReviewAt: DateOf(today),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := state.Validate(); err != nil {
		return nil, err
	}

	return state, nil
}

// Validate checks if the CardReviewState has valid data.
// Returns an error if any field fails validation.
func (s *CardReviewState) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrEmptyStateUserID
	}
	if s.CardID == uuid.Nil {
		return ErrEmptyStateCardID
	}
	if s.IntervalDays < 0 {
		return ErrInvalidInterval
	}
	if s.EaseFactor < MinEasinessFactor {
		return ErrInvalidEaseFactor
	}
	if s.Repetitions < 0 {
		return ErrInvalidReps
	}
	if s.LastQuality < 0 || s.LastQuality > 5 {
		return ErrInvalidQuality
	}
	return nil
}

// ReviewEvent is an immutable audit record of a single submitted review,
// carrying the state snapshot the scheduler produced. Events are
// append-only and never mutated or deleted.
type ReviewEvent struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	CardID       uuid.UUID `json:"card_id"`
	Quality      int       `json:"quality"`
	EaseFactor   float64   `json:"ease_factor"`
	IntervalDays int       `json:"interval_days"`
	Repetitions  int       `json:"repetitions"`
	NextReviewAt time.Time `json:"next_review_at"`
	ReviewedAt   time.Time `json:"reviewed_at"`
}

// NewReviewEvent builds the audit record for a review that produced the
// given state.
func NewReviewEvent(quality int, state *CardReviewState, reviewedAt time.Time) *ReviewEvent {
	return &ReviewEvent{
		ID:           uuid.New(),
		UserID:       state.UserID,
		CardID:       state.CardID,
		Quality:      quality,
		EaseFactor:   state.EaseFactor,
		IntervalDays: state.IntervalDays,
		Repetitions:  state.Repetitions,
		NextReviewAt: state.NextReviewAt,
		ReviewedAt:   reviewedAt,
	}
}

// DateOf truncates t to its UTC calendar date. The scheduler, the due
// queue, and the streak calculator all share this notion of "day" so
// their date comparisons agree.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
