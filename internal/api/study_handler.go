package api

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/wrenhall/tome-api/internal/api/shared"
	"github.com/wrenhall/tome-api/internal/domain"
	"github.com/wrenhall/tome-api/internal/service/study"
)

// StudyHandler handles the study queue and review submission endpoints.
type StudyHandler struct {
	studyService study.StudyService
	validator    *validator.Validate
}

// NewStudyHandler creates a new StudyHandler with the given dependencies.
func NewStudyHandler(studyService study.StudyService) *StudyHandler {
	if studyService == nil {
		panic("studyService cannot be nil")
	}
	return &StudyHandler{
		studyService: studyService,
		validator:    validator.New(),
	}
}

// GetQueue handles GET /api/study/queue. The optional limit query
// parameter caps the queue size; invalid values fall back to the
// configured default.
func (h *StudyHandler) GetQueue(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	cards, err := h.studyService.GetQueue(r.Context(), userID, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to build study queue")
		return
	}

	if cards == nil {
		cards = []*domain.Card{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, QueueResponse{Cards: cards})
}

// SubmitReview handles POST /api/cards/{id}/review.
func (h *StudyHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	userID, cardID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req SubmitReviewRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	state, err := h.studyService.SubmitReview(r.Context(), userID, cardID, *req.Quality)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewReviewStateResponse(state))
}
