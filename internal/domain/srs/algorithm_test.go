package srs

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/wrenhall/tome-api/internal/domain"
)

var testDay = time.Date(2025, 6, 15, 12, 30, 0, 0, time.UTC)

func defaultState(t *testing.T) *domain.CardReviewState {
	t.Helper()
	state, err := domain.NewCardReviewState(uuid.New(), uuid.New(), testDay)
	if err != nil {
		t.Fatalf("failed to create default state: %v", err)
	}
	return state
}

func TestNewEaseFactor(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		current  float64
		quality  int
		expected float64
	}{
		{
			name:     "perfect recall increases easiness",
			current:  2.5,
			quality:  5,
			expected: 2.6, // 2.5 + 0.1
		},
		{
			name:     "hesitant recall decreases easiness",
			current:  2.5,
			quality:  3,
			expected: 2.36, // 2.5 + (0.1 - 2*(0.08 + 2*0.02))
		},
		{
			name:     "correct after hesitation keeps easiness",
			current:  2.5,
			quality:  4,
			expected: 2.5, // delta is exactly 0
		},
		{
			name:     "blackout drops easiness hard",
			current:  2.5,
			quality:  0,
			expected: 1.7, // 2.5 + (0.1 - 5*(0.08 + 5*0.02))
		},
		{
			name:     "easiness never drops below the floor",
			current:  1.3,
			quality:  0,
			expected: 1.3,
		},
		{
			name:     "floor applies before rounding",
			current:  1.35,
			quality:  1,
			expected: 1.3, // 1.35 - 0.54 clamps to 1.3
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := newEaseFactor(tc.current, tc.quality)

			if math.Abs(got-tc.expected) > 1e-9 {
				t.Errorf("Expected ease factor %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestNextInterval(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		prior       int
		repetitions int
		ef          float64
		quality     int
		expected    int
	}{
		{
			name:        "failure resets to one day",
			prior:       30,
			repetitions: 0,
			ef:          2.5,
			quality:     2,
			expected:    1,
		},
		{
			name:        "first successful repetition",
			prior:       0,
			repetitions: 1,
			ef:          2.6,
			quality:     5,
			expected:    1,
		},
		{
			name:        "second successful repetition",
			prior:       1,
			repetitions: 2,
			ef:          2.7,
			quality:     5,
			expected:    6,
		},
		{
			name:        "third repetition grows multiplicatively",
			prior:       6,
			repetitions: 3,
			ef:          2.8,
			quality:     5,
			expected:    17, // round(6 * 2.8) = round(16.8)
		},
		{
			name:        "rounding is half away from zero",
			prior:       10,
			repetitions: 3,
			ef:          1.35,
			quality:     4,
			expected:    14, // round(13.5)
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := nextInterval(tc.prior, tc.repetitions, tc.ef, tc.quality)

			if got != tc.expected {
				t.Errorf("Expected interval %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestScheduleValidation(t *testing.T) {
	t.Parallel()
	scheduler := NewScheduler()

	t.Run("rejects nil prior state", func(t *testing.T) {
		_, err := scheduler.Schedule(5, nil, testDay)
		if err != ErrNilState {
			t.Errorf("Expected ErrNilState, got %v", err)
		}
	})

	for _, quality := range []int{-1, 6, 100} {
		prior := defaultState(t)
		_, err := scheduler.Schedule(quality, prior, testDay)
		if err != ErrInvalidQuality {
			t.Errorf("quality %d: expected ErrInvalidQuality, got %v", quality, err)
		}
	}
}

func TestScheduleFailureResets(t *testing.T) {
	t.Parallel()
	scheduler := NewScheduler()

	for quality := 0; quality < PassingQuality; quality++ {
		prior := defaultState(t)
		prior.EaseFactor = 2.2
		prior.IntervalDays = 42
		prior.Repetitions = 7

		next, err := scheduler.Schedule(quality, prior, testDay)
		if err != nil {
			t.Fatalf("quality %d: unexpected error: %v", quality, err)
		}

		if next.Repetitions != 0 {
			t.Errorf("quality %d: expected repetitions 0, got %d", quality, next.Repetitions)
		}
		if next.IntervalDays != 1 {
			t.Errorf("quality %d: expected interval 1, got %d", quality, next.IntervalDays)
		}
		if next.EaseFactor < domain.MinEasinessFactor {
			t.Errorf("quality %d: ease factor %v below floor", quality, next.EaseFactor)
		}
	}
}

func TestScheduleSuccessLadder(t *testing.T) {
	t.Parallel()
	scheduler := NewScheduler()

	state := defaultState(t)

	// First perfect review: repetitions 1, interval 1.
	state, err := scheduler.Schedule(5, state, testDay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Repetitions != 1 || state.IntervalDays != 1 {
		t.Fatalf("after first review: reps=%d interval=%d, want 1/1",
			state.Repetitions, state.IntervalDays)
	}

	// Second perfect review: repetitions 2, interval 6.
	state, err = scheduler.Schedule(5, state, testDay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Repetitions != 2 || state.IntervalDays != 6 {
		t.Fatalf("after second review: reps=%d interval=%d, want 2/6",
			state.Repetitions, state.IntervalDays)
	}

	// Third perfect review: repetitions 3, interval round(6*EF).
	state, err = scheduler.Schedule(5, state, testDay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Repetitions != 3 {
		t.Errorf("after third review: reps=%d, want 3", state.Repetitions)
	}
	if state.IntervalDays != 17 { // EF walked 2.5 -> 2.6 -> 2.7 -> 2.8; round(6*2.8)
		t.Errorf("after third review: interval=%d, want 17", state.IntervalDays)
	}

	wantNext := domain.DateOf(testDay).AddDate(0, 0, 17)
	if !state.NextReviewAt.Equal(wantNext) {
		t.Errorf("next review at %v, want %v", state.NextReviewAt, wantNext)
	}
}

func TestScheduleEaseFactorInvariant(t *testing.T) {
	t.Parallel()
	scheduler := NewScheduler()

	// Hammer the state with the worst rating; easiness must hold the floor.
	state := defaultState(t)
	for i := 0; i < 10; i++ {
		var err error
		state, err = scheduler.Schedule(0, state, testDay)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if state.EaseFactor < domain.MinEasinessFactor {
			t.Fatalf("iteration %d: ease factor %v below floor", i, state.EaseFactor)
		}
	}
}

func TestScheduleReplayDeterminism(t *testing.T) {
	t.Parallel()
	scheduler := NewScheduler()

	qualities := []int{5, 5, 5, 2, 5}

	replay := func() *domain.CardReviewState {
		state, err := domain.NewCardReviewState(
			uuid.MustParse("11111111-1111-1111-1111-111111111111"),
			uuid.MustParse("22222222-2222-2222-2222-222222222222"),
			testDay,
		)
		if err != nil {
			t.Fatalf("failed to create state: %v", err)
		}
		for _, q := range qualities {
			state, err = scheduler.Schedule(q, state, testDay)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		return state
	}

	first := replay()
	second := replay()

	if first.EaseFactor != second.EaseFactor ||
		first.IntervalDays != second.IntervalDays ||
		first.Repetitions != second.Repetitions ||
		!first.NextReviewAt.Equal(second.NextReviewAt) {
		t.Errorf("replay diverged: %+v vs %+v", first, second)
	}

	// The failed fourth review reset the ladder, so the final state is
	// back at repetitions 1 with a one-day interval.
	if first.Repetitions != 1 || first.IntervalDays != 1 {
		t.Errorf("final state reps=%d interval=%d, want 1/1",
			first.Repetitions, first.IntervalDays)
	}
}

func TestSchedulePreservesIdentity(t *testing.T) {
	t.Parallel()
	scheduler := NewScheduler()

	prior := defaultState(t)
	next, err := scheduler.Schedule(4, prior, testDay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if next.UserID != prior.UserID || next.CardID != prior.CardID {
		t.Errorf("identity changed: %v/%v -> %v/%v",
			prior.UserID, prior.CardID, next.UserID, next.CardID)
	}
	if next == prior {
		t.Error("Schedule returned the prior state instead of a new one")
	}
	if next.LastQuality != 4 {
		t.Errorf("last quality %d, want 4", next.LastQuality)
	}
}
