package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/stakeplay/tictactoe-go/internal/events"
	"github.com/stakeplay/tictactoe-go/internal/events/sse"
	"github.com/stakeplay/tictactoe-go/internal/model"
)

// EventsHandler serves SSE event streams
type EventsHandler struct {
	hubManager *sse.HubManager
}

// NewEventsHandler creates a new SSE events handler
func NewEventsHandler(hubManager *sse.HubManager) *EventsHandler {
	return &EventsHandler{hubManager: hubManager}
}

// Lobby handles GET /api/v1/events/lobby
func (h *EventsHandler) Lobby(w http.ResponseWriter, r *http.Request) {
	hub := h.hubManager.GetOrCreateHub(events.LobbyTopic)
	sse.ServeSSE(w, r, hub, r.RemoteAddr)
}

// Match handles GET /api/v1/events/match/{matchId}
func (h *EventsHandler) Match(w http.ResponseWriter, r *http.Request) {
	matchID := model.MatchID(mux.Vars(r)["matchId"])
	hub := h.hubManager.GetOrCreateHub(events.MatchTopic(matchID))
	sse.ServeSSE(w, r, hub, r.RemoteAddr)
}

// User handles GET /api/v1/events/user/{address}
func (h *EventsHandler) User(w http.ResponseWriter, r *http.Request) {
	address := model.NormalizePlayerID(mux.Vars(r)["address"])
	hub := h.hubManager.GetOrCreateHub(events.UserTopic(address))
	sse.ServeSSE(w, r, hub, string(address))
}
