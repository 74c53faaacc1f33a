package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/stakeplay/tictactoe-go/internal/api/request"
	"github.com/stakeplay/tictactoe-go/internal/api/response"
	"github.com/stakeplay/tictactoe-go/internal/model"
	"github.com/stakeplay/tictactoe-go/internal/services/match"
)

const (
	// availableWindow bounds how old a waiting match may be and still
	// show in the open-match listing
	availableWindow = 24 * time.Hour

	// defaultAvailableLimit caps the open-match listing
	defaultAvailableLimit = 20

	// defaultPageSize for per-player match listings
	defaultPageSize = 20
)

// MatchHandler handles match lifecycle endpoints
type MatchHandler struct {
	coordinator *match.Coordinator
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(coordinator *match.Coordinator) *MatchHandler {
	return &MatchHandler{coordinator: coordinator}
}

// Create handles POST /api/v1/matches
func (h *MatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	m, err := h.coordinator.Create(r.Context(),
		model.NormalizePlayerID(req.Player1),
		req.StakeAmount,
		model.MatchID(req.MatchID),
	)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.MatchFromModel(m))
}

// ListAvailable handles GET /api/v1/matches/available
func (h *MatchHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultAvailableLimit)
	if limit > defaultAvailableLimit {
		limit = defaultAvailableLimit
	}

	matches, err := h.coordinator.ListAvailable(r.Context(), availableWindow, limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchesFromModels(matches))
}

// Get handles GET /api/v1/matches/{matchId}
func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	matchID := model.MatchID(mux.Vars(r)["matchId"])

	m, err := h.coordinator.Get(r.Context(), matchID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchFromModel(m))
}

// Join handles POST /api/v1/matches/{matchId}/join
func (h *MatchHandler) Join(w http.ResponseWriter, r *http.Request) {
	matchID := model.MatchID(mux.Vars(r)["matchId"])

	var req request.JoinMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	m, err := h.coordinator.Join(r.Context(), matchID, model.NormalizePlayerID(req.Player2))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchFromModel(m))
}

// Cancel handles POST /api/v1/matches/{matchId}/cancel
func (h *MatchHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	matchID := model.MatchID(mux.Vars(r)["matchId"])

	var req request.CancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	m, err := h.coordinator.Cancel(r.Context(), matchID, model.NormalizePlayerID(req.Player))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchFromModel(m))
}

// UserMatches handles GET /api/v1/matches/user/{address}
func (h *MatchHandler) UserMatches(w http.ResponseWriter, r *http.Request) {
	address := model.NormalizePlayerID(mux.Vars(r)["address"])
	limit := queryInt(r, "limit", defaultPageSize)
	offset := queryInt(r, "offset", 0)

	var statuses []model.MatchStatus
	if s := r.URL.Query().Get("status"); s != "" {
		statuses = []model.MatchStatus{model.MatchStatus(s)}
	}

	matches, total, err := h.coordinator.ListForPlayer(r.Context(), address, statuses, limit, offset)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UserMatchesResponse{
		Matches: response.MatchesFromModels(matches),
		Total:   total,
		HasMore: offset+len(matches) < total,
	})
}

// Current handles GET /api/v1/matches/current/{address}
func (h *MatchHandler) Current(w http.ResponseWriter, r *http.Request) {
	address := model.NormalizePlayerID(mux.Vars(r)["address"])

	m, err := h.coordinator.CurrentForPlayer(r.Context(), address)
	if errors.Is(err, model.ErrMatchNotFound) {
		response.JSON(w, http.StatusOK, response.CurrentMatchResponse{})
		return
	}
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := response.MatchFromModel(m)
	response.JSON(w, http.StatusOK, response.CurrentMatchResponse{
		Match:        &resp,
		PlayerSymbol: string(m.MarkFor(address)),
		IsPlayerTurn: m.GameState == model.GameOngoing && m.CurrentPlayer == address,
		IsPlayer1:    m.Player1 == address,
	})
}

// queryInt parses an integer query parameter, falling back on absence
// or garbage
func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
