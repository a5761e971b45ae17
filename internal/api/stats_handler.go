package api

import (
	"net/http"

	"github.com/wrenhall/tome-api/internal/api/shared"
	"github.com/wrenhall/tome-api/internal/domain"
	"github.com/wrenhall/tome-api/internal/domain/progress"
	"github.com/wrenhall/tome-api/internal/service/stats"
)

// StatsHandler handles the progress dashboard and leaderboard endpoints.
type StatsHandler struct {
	statsService stats.StatsService
}

// NewStatsHandler creates a new StatsHandler with the given dependencies.
func NewStatsHandler(statsService stats.StatsService) *StatsHandler {
	if statsService == nil {
		panic("statsService cannot be nil")
	}
	return &StatsHandler{
		statsService: statsService,
	}
}

// GetProgress handles GET /api/progress.
func (h *StatsHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	overview, err := h.statsService.GetOverview(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load progress")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, overview)
}

// GetLeaderboard handles GET /api/leaderboard.
func (h *StatsHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.statsService.GetLeaderboard(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load leaderboard")
		return
	}

	if entries == nil {
		entries = []progress.LeaderboardEntry{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, entries)
}
