package handler

import (
	"net/http"

	"github.com/stakeplay/tictactoe-go/internal/api/response"
	"github.com/stakeplay/tictactoe-go/internal/services/leaderboard"
)

// LeaderboardHandler handles leaderboard endpoints
type LeaderboardHandler struct {
	leaderboard *leaderboard.Service
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(svc *leaderboard.Service) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: svc}
}

// Get handles GET /api/v1/leaderboard
func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	sortBy := leaderboard.SortByEarnings
	switch leaderboard.SortBy(q.Get("sortBy")) {
	case leaderboard.SortByWins:
		sortBy = leaderboard.SortByWins
	case leaderboard.SortByWinRate:
		sortBy = leaderboard.SortByWinRate
	}

	period := leaderboard.PeriodAll
	switch leaderboard.Period(q.Get("period")) {
	case leaderboard.PeriodWeek:
		period = leaderboard.PeriodWeek
	case leaderboard.PeriodMonth:
		period = leaderboard.PeriodMonth
	}

	limit := queryInt(r, "limit", leaderboard.DefaultLimit)

	entries, err := h.leaderboard.Top(r.Context(), sortBy, period, limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LeaderboardFromService(entries))
}
