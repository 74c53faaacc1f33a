package stats

import (
	"context"
	"errors"
	"log/slog"

	"github.com/stakeplay/tictactoe-go/internal/dependencies/clock"
	"github.com/stakeplay/tictactoe-go/internal/model"
	"github.com/stakeplay/tictactoe-go/internal/storage"
)

// Service applies match outcomes to player aggregates. It is the single
// writer path for outcome counters and is invoked only by the lifecycle
// coordinator, under the match's lock, exactly once per terminal match.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new stats settlement service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger.With(slog.String("component", "stats")),
	}
}

// EnsurePlayer upserts an aggregate for the player, leaving counters
// untouched when one already exists
func (s *Service) EnsurePlayer(ctx context.Context, id model.PlayerID) (*model.PlayerAggregate, error) {
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
	return agg, nil
}

// RecordMatchStart increments both participants' match counters when a
// match transitions into play
func (s *Service) RecordMatchStart(ctx context.Context, player1, player2 model.PlayerID) error {
	for _, id := range []model.PlayerID{player1, player2} {
		agg, err := s.EnsurePlayer(ctx, id)
		if err != nil {
			return err
		}
		agg.TotalMatches++
		agg.LastActiveAt = s.clock.Now()
		if err := s.storage.SavePlayerAggregate(ctx, agg); err != nil {
			return err
		}
	}
	return nil
}

// ApplyOutcome settles a terminal match into both participants'
// aggregates. The match must already carry its terminal GameState and,
// for finished games, the authoritative Winner identifier.
func (s *Service) ApplyOutcome(ctx context.Context, match *model.Match) error {
	switch match.GameState {
	case model.GameTie:
		return s.applyTie(ctx, match)
	case model.GameFinished:
		return s.applyWin(ctx, match)
	}
	return nil
}

func (s *Service) applyTie(ctx context.Context, match *model.Match) error {
	for _, id := range []model.PlayerID{match.Player1, match.Player2} {
		agg, err := s.EnsurePlayer(ctx, id)
		if err != nil {
			return err
		}
		agg.TotalTies++
		agg.CurrentStreak = 0
		agg.LastActiveAt = s.clock.Now()
		if err := s.storage.SavePlayerAggregate(ctx, agg); err != nil {
			return err
		}
	}

	s.logger.Info("tie settled",
		slog.String("match_id", string(match.MatchID)),
	)
	return nil
}

func (s *Service) applyWin(ctx context.Context, match *model.Match) error {
	winner := match.Winner
	loser := match.Opponent(winner)

	winnerAgg, err := s.EnsurePlayer(ctx, winner)
	if err != nil {
		return err
	}
	winnerAgg.TotalWins++
	winnerAgg.TotalEarnings += match.StakeAmount * 2
	winnerAgg.CurrentStreak++
	if winnerAgg.CurrentStreak > winnerAgg.BestStreak {
		winnerAgg.BestStreak = winnerAgg.CurrentStreak
	}
	winnerAgg.LastActiveAt = s.clock.Now()
	if err := s.storage.SavePlayerAggregate(ctx, winnerAgg); err != nil {
		return err
	}

	loserAgg, err := s.EnsurePlayer(ctx, loser)
	if err != nil {
		return err
	}
	loserAgg.TotalLosses++
	loserAgg.CurrentStreak = 0
	loserAgg.LastActiveAt = s.clock.Now()
	if err := s.storage.SavePlayerAggregate(ctx, loserAgg); err != nil {
		return err
	}

	s.logger.Info("win settled",
		slog.String("match_id", string(match.MatchID)),
		slog.String("winner", string(winner)),
		slog.Float64("earnings", match.StakeAmount*2),
	)
	return nil
}
