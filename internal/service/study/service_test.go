package study

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wrenhall/tome-api/internal/domain"
	"github.com/wrenhall/tome-api/internal/domain/srs"
	"github.com/wrenhall/tome-api/internal/store"
)

// fakeCardStore serves a fixed candidate pool.
type fakeCardStore struct {
	cards    map[uuid.UUID]*domain.Card
	pool     []store.CardWithState
	poolErr  error
	getErr   error
}

func (f *fakeCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	card, ok := f.cards[id]
	if !ok {
		return nil, store.ErrCardNotFound
	}
	return card, nil
}

func (f *fakeCardStore) ListByBook(ctx context.Context, bookID uuid.UUID) ([]*domain.Card, error) {
	return nil, nil
}

func (f *fakeCardStore) ListWithState(ctx context.Context, userID uuid.UUID) ([]store.CardWithState, error) {
	if f.poolErr != nil {
		return nil, f.poolErr
	}
	return f.pool, nil
}

// fakeReviewStore records upserts and appended events in memory.
type fakeReviewStore struct {
	states map[uuid.UUID]*domain.CardReviewState // keyed by card ID
	events []*domain.ReviewEvent
}

func newFakeReviewStore() *fakeReviewStore {
	return &fakeReviewStore{states: make(map[uuid.UUID]*domain.CardReviewState)}
}

func (f *fakeReviewStore) GetState(ctx context.Context, userID, cardID uuid.UUID) (*domain.CardReviewState, error) {
	state, ok := f.states[cardID]
	if !ok {
		return nil, store.ErrReviewStateNotFound
	}
	return state, nil
}

func (f *fakeReviewStore) UpsertState(ctx context.Context, state *domain.CardReviewState) error {
	f.states[state.CardID] = state
	return nil
}

func (f *fakeReviewStore) AppendEvent(ctx context.Context, event *domain.ReviewEvent) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeReviewStore) ListEvents(ctx context.Context, userID, cardID uuid.UUID) ([]*domain.ReviewEvent, error) {
	return f.events, nil
}

func (f *fakeReviewStore) WithTx(tx *sql.Tx) store.ReviewStore {
	return f
}

// fakeTxRunner executes the function directly without a database.
type fakeTxRunner struct{}

func (fakeTxRunner) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	return fn(ctx, nil)
}

func newTestService(cards *fakeCardStore, reviews *fakeReviewStore, now time.Time) StudyService {
	svc := NewStudyService(
		cards,
		reviews,
		srs.NewScheduler(),
		fakeTxRunner{},
		0,
		rand.New(rand.NewSource(1)),
		nil,
	)
	svc.(*studyServiceImpl).timeFunc = func() time.Time { return now }
	return svc
}

func makeCard(t *testing.T) *domain.Card {
	t.Helper()
	card, err := domain.NewCard(uuid.New(), nil, "front", "back")
	require.NoError(t, err)
	return card
}

func TestGetQueueSplitsDueAndFresh(t *testing.T) {
	userID := uuid.New()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	dueCard := makeCard(t)
	dueState := &domain.CardReviewState{
		UserID:       userID,
		CardID:       dueCard.ID,
		EaseFactor:   domain.DefaultEasinessFactor,
		NextReviewAt: domain.DateOf(now.AddDate(0, 0, -2)),
	}
	freshCard := makeCard(t)
	futureCard := makeCard(t)
	futureState := &domain.CardReviewState{
		UserID:       userID,
		CardID:       futureCard.ID,
		EaseFactor:   domain.DefaultEasinessFactor,
		NextReviewAt: domain.DateOf(now.AddDate(0, 0, 3)),
	}

	cards := &fakeCardStore{
		pool: []store.CardWithState{
			{Card: freshCard},
			{Card: dueCard, State: dueState},
			{Card: futureCard, State: futureState},
		},
	}

	svc := newTestService(cards, newFakeReviewStore(), now)
	queue, err := svc.GetQueue(context.Background(), userID, 0)

	require.NoError(t, err)
	require.Len(t, queue, 2)
	assert.Equal(t, dueCard.ID, queue[0].ID, "overdue cards come before fresh cards")
	assert.Equal(t, freshCard.ID, queue[1].ID)
}

func TestGetQueueStoreError(t *testing.T) {
	cards := &fakeCardStore{poolErr: errors.New("connection refused")}

	svc := newTestService(cards, newFakeReviewStore(), time.Now().UTC())
	queue, err := svc.GetQueue(context.Background(), uuid.New(), 0)

	require.Error(t, err)
	assert.Nil(t, queue)
}

func TestSubmitReviewFirstReview(t *testing.T) {
	userID := uuid.New()
	card := makeCard(t)
	cards := &fakeCardStore{cards: map[uuid.UUID]*domain.Card{card.ID: card}}
	reviews := newFakeReviewStore()

	svc := newTestService(cards, reviews, time.Now().UTC())
	state, err := svc.SubmitReview(context.Background(), userID, card.ID, 5)

	require.NoError(t, err)
	assert.Equal(t, 1, state.Repetitions)
	assert.Equal(t, 1, state.IntervalDays)
	assert.InDelta(t, 2.6, state.EaseFactor, 0.0001)

	require.Len(t, reviews.events, 1)
	assert.Equal(t, 5, reviews.events[0].Quality)
	assert.Equal(t, card.ID, reviews.events[0].CardID)

	saved, ok := reviews.states[card.ID]
	require.True(t, ok, "state should be persisted")
	assert.Equal(t, state, saved)
}

func TestSubmitReviewFailureResets(t *testing.T) {
	userID := uuid.New()
	card := makeCard(t)
	cards := &fakeCardStore{cards: map[uuid.UUID]*domain.Card{card.ID: card}}
	reviews := newFakeReviewStore()
	reviews.states[card.ID] = &domain.CardReviewState{
		UserID:       userID,
		CardID:       card.ID,
		EaseFactor:   2.5,
		IntervalDays: 6,
		Repetitions:  2,
		NextReviewAt: domain.DateOf(time.Now().UTC()),
	}

	svc := newTestService(cards, reviews, time.Now().UTC())
	state, err := svc.SubmitReview(context.Background(), userID, card.ID, 1)

	require.NoError(t, err)
	assert.Equal(t, 0, state.Repetitions, "failure resets the repetition count")
	assert.Equal(t, 1, state.IntervalDays)
}

func TestSubmitReviewCardNotFound(t *testing.T) {
	cards := &fakeCardStore{cards: map[uuid.UUID]*domain.Card{}}

	svc := newTestService(cards, newFakeReviewStore(), time.Now().UTC())
	state, err := svc.SubmitReview(context.Background(), uuid.New(), uuid.New(), 4)

	assert.ErrorIs(t, err, ErrCardNotFound)
	assert.Nil(t, state)
}

func TestSubmitReviewInvalidQuality(t *testing.T) {
	card := makeCard(t)
	cards := &fakeCardStore{cards: map[uuid.UUID]*domain.Card{card.ID: card}}
	reviews := newFakeReviewStore()

	svc := newTestService(cards, reviews, time.Now().UTC())

	for _, quality := range []int{-1, 6, 42} {
		state, err := svc.SubmitReview(context.Background(), uuid.New(), card.ID, quality)
		assert.ErrorIs(t, err, ErrInvalidQuality, "quality %d", quality)
		assert.Nil(t, state)
	}
	assert.Empty(t, reviews.events, "rejected reviews must not produce events")
}
