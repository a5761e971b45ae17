package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wrenhall/tome-api/internal/api/shared"
	"github.com/wrenhall/tome-api/internal/domain"
	"github.com/wrenhall/tome-api/internal/service/study"
)

// fakeStudyService returns canned queue and review results.
type fakeStudyService struct {
	queue       []*domain.Card
	state       *domain.CardReviewState
	err         error
	gotQuality  int
	gotCardID   uuid.UUID
	gotLimit    int
}

func (f *fakeStudyService) GetQueue(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Card, error) {
	f.gotLimit = limit
	return f.queue, f.err
}

func (f *fakeStudyService) SubmitReview(ctx context.Context, userID, cardID uuid.UUID, quality int) (*domain.CardReviewState, error) {
	f.gotCardID = cardID
	f.gotQuality = quality
	if f.err != nil {
		return nil, f.err
	}
	return f.state, nil
}

// authedRequest builds a request whose context carries an authenticated
// user, as the auth middleware would leave it.
func authedRequest(t *testing.T, method, target, body string, userID uuid.UUID) *http.Request {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
	return req.WithContext(ctx)
}

func newStudyRouter(svc study.StudyService) chi.Router {
	handler := NewStudyHandler(svc)
	r := chi.NewRouter()
	r.Get("/api/study/queue", handler.GetQueue)
	r.Post("/api/cards/{id}/review", handler.SubmitReview)
	return r
}

func TestGetQueueReturnsCards(t *testing.T) {
	card, err := domain.NewCard(uuid.New(), nil, "front", "back")
	require.NoError(t, err)
	svc := &fakeStudyService{queue: []*domain.Card{card}}

	req := authedRequest(t, http.MethodGet, "/api/study/queue?limit=5", "", uuid.New())
	rec := httptest.NewRecorder()
	newStudyRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, svc.gotLimit)

	var resp QueueResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Cards, 1)
	assert.Equal(t, card.ID, resp.Cards[0].ID)
}

func TestGetQueueEmptyIsOK(t *testing.T) {
	svc := &fakeStudyService{}

	req := authedRequest(t, http.MethodGet, "/api/study/queue", "", uuid.New())
	rec := httptest.NewRecorder()
	newStudyRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"cards":[]}`, rec.Body.String())
}

func TestGetQueueRequiresAuth(t *testing.T) {
	svc := &fakeStudyService{}

	req := httptest.NewRequest(http.MethodGet, "/api/study/queue", nil)
	rec := httptest.NewRecorder()
	newStudyRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSubmitReviewReturnsState(t *testing.T) {
	cardID := uuid.New()
	next := time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC)
	svc := &fakeStudyService{
		state: &domain.CardReviewState{
			UserID:       uuid.New(),
			CardID:       cardID,
			EaseFactor:   2.6,
			IntervalDays: 6,
			Repetitions:  2,
			NextReviewAt: next,
		},
	}

	req := authedRequest(t, http.MethodPost,
		"/api/cards/"+cardID.String()+"/review", `{"quality": 4}`, uuid.New())
	rec := httptest.NewRecorder()
	newStudyRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4, svc.gotQuality)
	assert.Equal(t, cardID, svc.gotCardID)

	var resp ReviewStateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 6, resp.IntervalDays)
	assert.InDelta(t, 2.6, resp.EaseFactor, 0.0001)
}

func TestSubmitReviewRejectsBadQuality(t *testing.T) {
	svc := &fakeStudyService{}

	for _, body := range []string{`{"quality": 6}`, `{"quality": -1}`, `{}`, `not json`} {
		req := authedRequest(t, http.MethodPost,
			"/api/cards/"+uuid.New().String()+"/review", body, uuid.New())
		rec := httptest.NewRecorder()
		newStudyRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
	}
}

func TestSubmitReviewCardNotFound(t *testing.T) {
	svc := &fakeStudyService{err: study.ErrCardNotFound}

	req := authedRequest(t, http.MethodPost,
		"/api/cards/"+uuid.New().String()+"/review", `{"quality": 3}`, uuid.New())
	rec := httptest.NewRecorder()
	newStudyRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitReviewBadCardID(t *testing.T) {
	svc := &fakeStudyService{}

	req := authedRequest(t, http.MethodPost, "/api/cards/not-a-uuid/review", `{"quality": 3}`, uuid.New())
	rec := httptest.NewRecorder()
	newStudyRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
