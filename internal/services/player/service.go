package player

import (
	"context"
	"errors"
	"log/slog"

	"github.com/stakeplay/tictactoe-go/internal/dependencies/clock"
	"github.com/stakeplay/tictactoe-go/internal/model"
	"github.com/stakeplay/tictactoe-go/internal/storage"
)

// recentMatchLimit bounds the recent-match sample in detailed stats
const recentMatchLimit = 10

// Service handles player profile reads and profile-field updates.
// Outcome counters on the aggregate are owned by stats settlement; this
// service never touches them.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new player profile service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger.With(slog.String("component", "player")),
	}
}

// GetOrCreateProfile returns the player's aggregate, creating a zeroed
// one on first sight
func (s *Service) GetOrCreateProfile(ctx context.Context, id model.PlayerID) (*model.PlayerAggregate, error) {
	agg, err := s.storage.GetPlayerAggregate(ctx, id)
	if err == nil {
		return agg, nil
	}
	if !errors.Is(err, model.ErrPlayerNotFound) {
		return nil, err
	}

	now := s.clock.Now()
	agg = &model.PlayerAggregate{
		Address:      id,
		CreatedAt:    now,
		LastActiveAt: now,
	}
	if err := s.storage.SavePlayerAggregate(ctx, agg); err != nil {
		return nil, err
	}

	s.logger.Info("player profile created", slog.String("address", string(id)))
	return agg, nil
}

// UpdateProfile sets the player's nickname and/or avatar
func (s *Service) UpdateProfile(ctx context.Context, id model.PlayerID, nickname, avatar string) (*model.PlayerAggregate, error) {
	if len(nickname) > model.MaxNicknameLength {
		return nil, model.ErrInvalidInput
	}

	agg, err := s.GetOrCreateProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	if nickname != "" {
		agg.Nickname = nickname
	}
	if avatar != "" {
		agg.Avatar = avatar
	}
	agg.LastActiveAt = s.clock.Now()

	if err := s.storage.SavePlayerAggregate(ctx, agg); err != nil {
		return nil, err
	}
	return agg, nil
}

// DetailedStats is a player's aggregate enriched with derived metrics
type DetailedStats struct {
	Aggregate     *model.PlayerAggregate
	WinRate       float64
	Rank          int // 1-based, by total earnings
	RecentMatches []*model.Match
	RecentWinRate float64
}

// GetDetailedStats returns the aggregate plus rank and recent
// performance. ErrPlayerNotFound for unknown players.
func (s *Service) GetDetailedStats(ctx context.Context, id model.PlayerID) (*DetailedStats, error) {
	agg, err := s.storage.GetPlayerAggregate(ctx, id)
	if err != nil {
		return nil, err
	}

	// Rank: players with strictly higher earnings, plus one
	all, err := s.storage.ListPlayerAggregates(ctx)
	if err != nil {
		return nil, err
	}
	rank := 1
	for _, other := range all {
		if other.TotalEarnings > agg.TotalEarnings {
			rank++
		}
	}

	recent, _, err := s.storage.ListMatchesForPlayer(ctx, id,
		[]model.MatchStatus{model.StatusCompleted, model.StatusSettled},
		recentMatchLimit, 0)
	if err != nil {
		return nil, err
	}

	recentWins := 0
	for _, match := range recent {
		if match.Winner == id {
			recentWins++
		}
	}
	recentWinRate := 0.0
	if len(recent) > 0 {
		recentWinRate = float64(recentWins) / float64(len(recent)) * 100
	}

	return &DetailedStats{
		Aggregate:     agg,
		WinRate:       agg.WinRate(),
		Rank:          rank,
		RecentMatches: recent,
		RecentWinRate: recentWinRate,
	}, nil
}
