package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wrenhall/tome-api/internal/domain"
)

func TestNewCardReviewState(t *testing.T) {
	userID := uuid.New()
	cardID := uuid.New()
	today := time.Date(2025, 3, 1, 17, 45, 0, 0, time.UTC)

	state, err := domain.NewCardReviewState(userID, cardID, today)
	require.NoError(t, err)

	assert.Equal(t, userID, state.UserID)
	assert.Equal(t, cardID, state.CardID)
	assert.Equal(t, domain.DefaultEasinessFactor, state.EaseFactor)
	assert.Equal(t, 0, state.IntervalDays)
	assert.Equal(t, 0, state.Repetitions)

	// New cards are due immediately, on the calendar date of creation.
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), state.NextReviewAt)
}

func TestCardReviewStateValidate(t *testing.T) {
	valid := func() *domain.CardReviewState {
		return &domain.CardReviewState{
			UserID:      uuid.New(),
			CardID:      uuid.New(),
			EaseFactor:  2.5,
			IntervalDays: 6,
			Repetitions: 2,
			LastQuality: 4,
		}
	}

	testCases := []struct {
		name    string
		mutate  func(*domain.CardReviewState)
		wantErr error
	}{
		{
			name:    "valid state",
			mutate:  func(s *domain.CardReviewState) {},
			wantErr: nil,
		},
		{
			name:    "missing user ID",
			mutate:  func(s *domain.CardReviewState) { s.UserID = uuid.Nil },
			wantErr: domain.ErrEmptyStateUserID,
		},
		{
			name:    "missing card ID",
			mutate:  func(s *domain.CardReviewState) { s.CardID = uuid.Nil },
			wantErr: domain.ErrEmptyStateCardID,
		},
		{
			name:    "ease factor below floor",
			mutate:  func(s *domain.CardReviewState) { s.EaseFactor = 1.29 },
			wantErr: domain.ErrInvalidEaseFactor,
		},
		{
			name:    "negative interval",
			mutate:  func(s *domain.CardReviewState) { s.IntervalDays = -1 },
			wantErr: domain.ErrInvalidInterval,
		},
		{
			name:    "negative repetitions",
			mutate:  func(s *domain.CardReviewState) { s.Repetitions = -1 },
			wantErr: domain.ErrInvalidReps,
		},
		{
			name:    "quality out of range",
			mutate:  func(s *domain.CardReviewState) { s.LastQuality = 6 },
			wantErr: domain.ErrInvalidQuality,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			state := valid()
			tc.mutate(state)

			err := state.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestNewReviewEvent(t *testing.T) {
	state := &domain.CardReviewState{
		UserID:      uuid.New(),
		CardID:      uuid.New(),
		EaseFactor:  2.36,
		IntervalDays: 6,
		Repetitions: 2,
		LastQuality: 3,
		NextReviewAt: time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC),
	}
	reviewedAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	event := domain.NewReviewEvent(3, state, reviewedAt)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, state.UserID, event.UserID)
	assert.Equal(t, state.CardID, event.CardID)
	assert.Equal(t, 3, event.Quality)
	assert.Equal(t, state.EaseFactor, event.EaseFactor)
	assert.Equal(t, state.IntervalDays, event.IntervalDays)
	assert.Equal(t, state.NextReviewAt, event.NextReviewAt)
	assert.Equal(t, reviewedAt, event.ReviewedAt)
}

func TestDateOf(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)

	testCases := []struct {
		name     string
		input    time.Time
		expected time.Time
	}{
		{
			name:     "strips time of day",
			input:    time.Date(2025, 3, 1, 23, 59, 59, 0, time.UTC),
			expected: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "normalizes zone to UTC",
			input:    time.Date(2025, 3, 2, 3, 0, 0, 0, loc), // 2025-03-01T18:00Z
			expected: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, domain.DateOf(tc.input))
		})
	}
}
