package platform

import (
	"context"
	"time"

	"github.com/stakeplay/tictactoe-go/internal/dependencies/clock"
	"github.com/stakeplay/tictactoe-go/internal/storage"
)

// activityWindow approximates "online" players by recent activity
const activityWindow = 7 * 24 * time.Hour

// Stats is the platform-wide snapshot served to clients
type Stats struct {
	TotalMatches       int
	ActiveMatches      int
	CompletedMatches   int
	TotalPlayers       int
	OnlinePlayers      int
	TotalPrizePool     float64
	AvgStakeAmount     float64
	TodayMatches       int
	TodayActivePlayers int
	LastUpdated        time.Time
}

// Service aggregates platform-wide statistics
type Service struct {
	storage storage.Storage
	clock   clock.Clock
}

// New creates a new platform statistics service
func New(storage storage.Storage, clock clock.Clock) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
	}
}

// Snapshot computes the current platform statistics
func (s *Service) Snapshot(ctx context.Context) (*Stats, error) {
	now := s.clock.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	matchStats, err := s.storage.GetMatchStats(ctx, dayStart)
	if err != nil {
		return nil, err
	}

	aggs, err := s.storage.ListPlayerAggregates(ctx)
	if err != nil {
		return nil, err
	}

	online := 0
	todayActive := 0
	for _, agg := range aggs {
		if now.Sub(agg.LastActiveAt) <= activityWindow {
			online++
		}
		if !agg.LastActiveAt.Before(dayStart) {
			todayActive++
		}
	}

	avgStake := 0.0
	if matchStats.CompletedMatches > 0 {
		avgStake = matchStats.TotalPrizePool / float64(matchStats.CompletedMatches*2)
	}

	return &Stats{
		TotalMatches:       matchStats.TotalMatches,
		ActiveMatches:      matchStats.OpenMatches,
		CompletedMatches:   matchStats.CompletedMatches,
		TotalPlayers:       len(aggs),
		OnlinePlayers:      online,
		TotalPrizePool:     matchStats.TotalPrizePool,
		AvgStakeAmount:     avgStake,
		TodayMatches:       matchStats.CompletedToday,
		TodayActivePlayers: todayActive,
		LastUpdated:        now,
	}, nil
}
