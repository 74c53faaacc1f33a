package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/stakeplay/tictactoe-go/internal/api/request"
	"github.com/stakeplay/tictactoe-go/internal/api/response"
	"github.com/stakeplay/tictactoe-go/internal/model"
	"github.com/stakeplay/tictactoe-go/internal/services/match"
)

// recentMoveCount is how many trailing moves the game-state read returns
const recentMoveCount = 5

// GameHandler handles in-game endpoints for active matches
type GameHandler struct {
	coordinator *match.Coordinator
}

// NewGameHandler creates a new game handler
func NewGameHandler(coordinator *match.Coordinator) *GameHandler {
	return &GameHandler{coordinator: coordinator}
}

// Move handles POST /api/v1/game/{matchId}/move
func (h *GameHandler) Move(w http.ResponseWriter, r *http.Request) {
	matchID := model.MatchID(mux.Vars(r)["matchId"])

	var req request.MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Position == nil {
		WriteError(w, NewInvalidRequestError("position is required"))
		return
	}

	m, err := h.coordinator.ApplyMove(r.Context(), matchID,
		model.NormalizePlayerID(req.Player), *req.Position)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchFromModel(m))
}

// State handles GET /api/v1/game/{matchId}/state
func (h *GameHandler) State(w http.ResponseWriter, r *http.Request) {
	matchID := model.MatchID(mux.Vars(r)["matchId"])

	m, err := h.coordinator.Get(r.Context(), matchID)
	if err != nil {
		WriteError(w, err)
		return
	}

	moves, err := h.coordinator.RecentMoves(r.Context(), matchID, recentMoveCount)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameStateResponse{
		Match:       response.MatchFromModel(m),
		RecentMoves: response.MovesFromModels(moves),
	})
}

// History handles GET /api/v1/game/{matchId}/history
func (h *GameHandler) History(w http.ResponseWriter, r *http.Request) {
	matchID := model.MatchID(mux.Vars(r)["matchId"])

	m, moves, err := h.coordinator.History(r.Context(), matchID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameHistoryResponse{
		Match:      response.MatchFromModel(m),
		Moves:      response.MovesFromModels(moves),
		TotalMoves: len(moves),
	})
}

// Forfeit handles POST /api/v1/game/{matchId}/forfeit
func (h *GameHandler) Forfeit(w http.ResponseWriter, r *http.Request) {
	matchID := model.MatchID(mux.Vars(r)["matchId"])

	var req request.ForfeitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	m, err := h.coordinator.Forfeit(r.Context(), matchID, model.NormalizePlayerID(req.Player))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchFromModel(m))
}

// Settle handles POST /api/v1/game/{matchId}/settle
func (h *GameHandler) Settle(w http.ResponseWriter, r *http.Request) {
	matchID := model.MatchID(mux.Vars(r)["matchId"])

	var req request.SettleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	m, err := h.coordinator.RecordSettlement(r.Context(), matchID,
		req.SettlementRef, model.NormalizePlayerID(req.Winner))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchFromModel(m))
}
