package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/stakeplay/tictactoe-go/internal/api/request"
	"github.com/stakeplay/tictactoe-go/internal/api/response"
	"github.com/stakeplay/tictactoe-go/internal/model"
	"github.com/stakeplay/tictactoe-go/internal/services/player"
)

// PlayerHandler handles player profile endpoints
type PlayerHandler struct {
	players *player.Service
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(players *player.Service) *PlayerHandler {
	return &PlayerHandler{players: players}
}

// GetProfile handles GET /api/v1/players/{address}
func (h *PlayerHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	address := model.NormalizePlayerID(mux.Vars(r)["address"])

	agg, err := h.players.GetOrCreateProfile(r.Context(), address)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ProfileFromModel(agg))
}

// UpdateProfile handles PATCH /api/v1/players/{address}
func (h *PlayerHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	address := model.NormalizePlayerID(mux.Vars(r)["address"])

	var req request.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	agg, err := h.players.UpdateProfile(r.Context(), address, req.Nickname, req.Avatar)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ProfileFromModel(agg))
}

// GetStats handles GET /api/v1/players/{address}/stats
func (h *PlayerHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	address := model.NormalizePlayerID(mux.Vars(r)["address"])

	stats, err := h.players.GetDetailedStats(r.Context(), address)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerStatsFromService(stats))
}
