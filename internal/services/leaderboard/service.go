package leaderboard

import (
	"context"
	"sort"
	"time"

	"github.com/stakeplay/tictactoe-go/internal/dependencies/clock"
	"github.com/stakeplay/tictactoe-go/internal/model"
	"github.com/stakeplay/tictactoe-go/internal/storage"
)

// SortBy selects the leaderboard ranking criterion
type SortBy string

const (
	SortByEarnings SortBy = "totalEarnings"
	SortByWins     SortBy = "totalWins"
	SortByWinRate  SortBy = "winRate"
)

// Period restricts the leaderboard to recently active players
type Period string

const (
	PeriodAll   Period = "all"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

const (
	// DefaultLimit is used when the caller requests no explicit limit
	DefaultLimit = 50
	// MaxLimit caps the number of returned entries
	MaxLimit = 100
	// minGamesForWinRate: win-rate ranking needs a meaningful sample
	minGamesForWinRate = 5
)

// Entry is one leaderboard row
type Entry struct {
	Aggregate  *model.PlayerAggregate
	TotalGames int
	WinRate    float64
}

// Service computes leaderboard rankings from player aggregates
type Service struct {
	storage storage.Storage
	clock   clock.Clock
}

// New creates a new leaderboard service
func New(storage storage.Storage, clock clock.Clock) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
	}
}

// Top returns the ranked leaderboard. Only players with at least one
// decided game are listed; win-rate ranking additionally requires
// minGamesForWinRate games.
func (s *Service) Top(ctx context.Context, sortBy SortBy, period Period, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	aggs, err := s.storage.ListPlayerAggregates(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := s.activityCutoff(period)

	var entries []Entry
	for _, agg := range aggs {
		if agg.DecidedGames() == 0 {
			continue
		}
		if !cutoff.IsZero() && agg.LastActiveAt.Before(cutoff) {
			continue
		}
		if sortBy == SortByWinRate && agg.DecidedGames() < minGamesForWinRate {
			continue
		}
		entries = append(entries, Entry{
			Aggregate:  agg,
			TotalGames: agg.DecidedGames(),
			WinRate:    agg.WinRate(),
		})
	}

	s.sortEntries(entries, sortBy)

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *Service) activityCutoff(period Period) time.Time {
	switch period {
	case PeriodWeek:
		return s.clock.Now().AddDate(0, 0, -7)
	case PeriodMonth:
		return s.clock.Now().AddDate(0, -1, 0)
	}
	return time.Time{}
}

func (s *Service) sortEntries(entries []Entry, sortBy SortBy) {
	switch sortBy {
	case SortByWins:
		sort.Slice(entries, func(i, j int) bool {
			a, b := entries[i].Aggregate, entries[j].Aggregate
			if a.TotalWins != b.TotalWins {
				return a.TotalWins > b.TotalWins
			}
			return a.TotalEarnings > b.TotalEarnings
		})
	case SortByWinRate:
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].WinRate != entries[j].WinRate {
				return entries[i].WinRate > entries[j].WinRate
			}
			return entries[i].Aggregate.TotalWins > entries[j].Aggregate.TotalWins
		})
	default: // SortByEarnings
		sort.Slice(entries, func(i, j int) bool {
			a, b := entries[i].Aggregate, entries[j].Aggregate
			if a.TotalEarnings != b.TotalEarnings {
				return a.TotalEarnings > b.TotalEarnings
			}
			return a.TotalWins > b.TotalWins
		})
	}
}
