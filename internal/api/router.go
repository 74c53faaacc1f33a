package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/stakeplay/tictactoe-go/internal/api/handler"
	"github.com/stakeplay/tictactoe-go/internal/api/middleware"
	"github.com/stakeplay/tictactoe-go/internal/events/sse"
	"github.com/stakeplay/tictactoe-go/internal/services/leaderboard"
	"github.com/stakeplay/tictactoe-go/internal/services/match"
	"github.com/stakeplay/tictactoe-go/internal/services/platform"
	"github.com/stakeplay/tictactoe-go/internal/services/player"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger             *slog.Logger
	Coordinator        *match.Coordinator
	PlayerService      *player.Service
	LeaderboardService *leaderboard.Service
	PlatformService    *platform.Service
	HubManager         *sse.HubManager
	RateLimit          *middleware.RateLimitConfig
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	matchHandler := handler.NewMatchHandler(cfg.Coordinator)
	gameHandler := handler.NewGameHandler(cfg.Coordinator)
	playerHandler := handler.NewPlayerHandler(cfg.PlayerService)
	leaderboardHandler := handler.NewLeaderboardHandler(cfg.LeaderboardService)
	platformHandler := handler.NewPlatformHandler(cfg.PlatformService)
	eventsHandler := handler.NewEventsHandler(cfg.HubManager)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))
	if cfg.RateLimit != nil {
		api.Use(middleware.RateLimit(*cfg.RateLimit))
	}

	// Match lifecycle routes
	matches := api.PathPrefix("/matches").Subrouter()
	matches.HandleFunc("", matchHandler.Create).Methods(http.MethodPost)
	matches.HandleFunc("/available", matchHandler.ListAvailable).Methods(http.MethodGet)
	matches.HandleFunc("/user/{address}", matchHandler.UserMatches).Methods(http.MethodGet)
	matches.HandleFunc("/current/{address}", matchHandler.Current).Methods(http.MethodGet)
	matches.HandleFunc("/{matchId}", matchHandler.Get).Methods(http.MethodGet)
	matches.HandleFunc("/{matchId}/join", matchHandler.Join).Methods(http.MethodPost)
	matches.HandleFunc("/{matchId}/cancel", matchHandler.Cancel).Methods(http.MethodPost)

	// In-game routes
	game := api.PathPrefix("/game").Subrouter()
	game.HandleFunc("/{matchId}/move", gameHandler.Move).Methods(http.MethodPost)
	game.HandleFunc("/{matchId}/state", gameHandler.State).Methods(http.MethodGet)
	game.HandleFunc("/{matchId}/history", gameHandler.History).Methods(http.MethodGet)
	game.HandleFunc("/{matchId}/forfeit", gameHandler.Forfeit).Methods(http.MethodPost)
	game.HandleFunc("/{matchId}/settle", gameHandler.Settle).Methods(http.MethodPost)

	// Player profile routes
	players := api.PathPrefix("/players").Subrouter()
	players.HandleFunc("/{address}", playerHandler.GetProfile).Methods(http.MethodGet)
	players.HandleFunc("/{address}", playerHandler.UpdateProfile).Methods(http.MethodPatch)
	players.HandleFunc("/{address}/stats", playerHandler.GetStats).Methods(http.MethodGet)

	// Aggregate views
	api.HandleFunc("/leaderboard", leaderboardHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/stats", platformHandler.GetStats).Methods(http.MethodGet)
	api.HandleFunc("/stats/daily", platformHandler.GetDaily).Methods(http.MethodGet)
	api.HandleFunc("/stats/weekly", platformHandler.GetWeekly).Methods(http.MethodGet)
	api.HandleFunc("/stats/monthly", platformHandler.GetMonthly).Methods(http.MethodGet)

	// SSE event streams
	events := api.PathPrefix("/events").Subrouter()
	events.HandleFunc("/lobby", eventsHandler.Lobby).Methods(http.MethodGet)
	events.HandleFunc("/match/{matchId}", eventsHandler.Match).Methods(http.MethodGet)
	events.HandleFunc("/user/{address}", eventsHandler.User).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
