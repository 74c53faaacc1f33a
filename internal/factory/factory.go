package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/stakeplay/tictactoe-go/internal/dependencies/clock"
	"github.com/stakeplay/tictactoe-go/internal/events"
	"github.com/stakeplay/tictactoe-go/internal/events/sse"
	"github.com/stakeplay/tictactoe-go/internal/services/leaderboard"
	"github.com/stakeplay/tictactoe-go/internal/services/match"
	"github.com/stakeplay/tictactoe-go/internal/services/platform"
	"github.com/stakeplay/tictactoe-go/internal/services/player"
	"github.com/stakeplay/tictactoe-go/internal/services/stats"
	"github.com/stakeplay/tictactoe-go/internal/storage"
	"github.com/stakeplay/tictactoe-go/internal/storage/memory"
	redisstorage "github.com/stakeplay/tictactoe-go/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock

	// Event delivery
	HubManager *sse.HubManager
	Fanout     *events.Fanout

	// Services
	StatsService       *stats.Service
	Coordinator        *match.Coordinator
	PlayerService      *player.Service
	LeaderboardService *leaderboard.Service
	PlatformService    *platform.Service
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	clk := clock.New()
	hubManager := sse.NewHubManager(logger)

	return newWithDependencies(store, clk, hubManager, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, hubManager *sse.HubManager, logger *slog.Logger) *App {
	fanout := events.NewFanout(hubManager, logger)

	statsService := stats.New(store, clk, logger)
	coordinator := match.NewCoordinator(store, statsService, fanout, clk, logger)
	playerService := player.New(store, clk, logger)
	leaderboardService := leaderboard.New(store, clk)
	platformService := platform.New(store, clk)

	return &App{
		Storage:            store,
		Clock:              clk,
		HubManager:         hubManager,
		Fanout:             fanout,
		StatsService:       statsService,
		Coordinator:        coordinator,
		PlayerService:      playerService,
		LeaderboardService: leaderboardService,
		PlatformService:    platformService,
	}
}
