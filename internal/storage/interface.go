package storage

import (
	"context"
	"time"

	"github.com/stakeplay/tictactoe-go/internal/model"
)

// MatchStats holds platform-wide match counters
type MatchStats struct {
	TotalMatches     int
	OpenMatches      int // waiting or active
	CompletedMatches int // completed or settled
	CompletedToday   int
	TotalPrizePool   float64 // sum of 2x stake over completed matches
}

// Storage defines the interface for data persistence.
// All calls are assumed durable once they return success.
type Storage interface {
	// Match operations. Mutating calls are expected to be made only while
	// holding the match's session lock.
	CreateMatch(ctx context.Context, match *model.Match) error // ErrDuplicateMatch if the ID exists
	GetMatch(ctx context.Context, id model.MatchID) (*model.Match, error)
	SaveMatch(ctx context.Context, match *model.Match) error
	// SaveMatchWithMove persists the snapshot and appends the move record
	// as a single atomic multi-record write; partial application is never
	// observable.
	SaveMatchWithMove(ctx context.Context, match *model.Match, move *model.GameMove) error

	ListAvailableMatches(ctx context.Context, since time.Time, limit int) ([]*model.Match, error)
	// ListMatchesForPlayer returns the player's matches newest first,
	// optionally filtered by status, plus the total count after filtering.
	// An empty statuses slice means no filter.
	ListMatchesForPlayer(ctx context.Context, player model.PlayerID, statuses []model.MatchStatus, limit, offset int) ([]*model.Match, int, error)
	// FindOpenMatchForPlayer returns the player's newest waiting or active
	// match, or ErrMatchNotFound.
	FindOpenMatchForPlayer(ctx context.Context, player model.PlayerID) (*model.Match, error)
	// ListCompletedMatches returns completed or settled matches created
	// at or after since, oldest first. Used for time-series analytics.
	ListCompletedMatches(ctx context.Context, since time.Time) ([]*model.Match, error)
	GetMatchStats(ctx context.Context, dayStart time.Time) (*MatchStats, error)

	// Move operations. The move log is append-only.
	ListMoves(ctx context.Context, id model.MatchID) ([]*model.GameMove, error)

	// Player aggregate operations
	SavePlayerAggregate(ctx context.Context, agg *model.PlayerAggregate) error
	GetPlayerAggregate(ctx context.Context, id model.PlayerID) (*model.PlayerAggregate, error)
	ListPlayerAggregates(ctx context.Context) ([]*model.PlayerAggregate, error)
}
