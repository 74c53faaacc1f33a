package stats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/stakeplay/tictactoe-go/internal/dependencies/mocks"
	"github.com/stakeplay/tictactoe-go/internal/model"
	"github.com/stakeplay/tictactoe-go/internal/storage/memory"
	"github.com/stakeplay/tictactoe-go/internal/testutil"
)

type StatsSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestStatsSuite(t *testing.T) {
	suite.Run(t, new(StatsSuite))
}

func (s *StatsSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *StatsSuite) finishedMatch(winner model.PlayerID) *model.Match {
	return &model.Match{
		MatchID:     "m1",
		Player1:     "0xaaa",
		Player2:     "0xbbb",
		StakeAmount: 1.5,
		Status:      model.StatusCompleted,
		GameState:   model.GameFinished,
		Winner:      winner,
	}
}

func (s *StatsSuite) getAgg(id model.PlayerID) *model.PlayerAggregate {
	agg, err := s.storage.GetPlayerAggregate(s.ctx, id)
	s.Require().NoError(err)
	return agg
}

func (s *StatsSuite) TestEnsurePlayerCreates() {
	agg, err := s.service.EnsurePlayer(s.ctx, "0xaaa")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("0xaaa"), agg.Address)
	s.Equal(0, agg.TotalMatches)
	s.Equal(s.clock.Now(), agg.CreatedAt)
}

func (s *StatsSuite) TestEnsurePlayerPreservesCounters() {
	s.Require().NoError(s.storage.SavePlayerAggregate(s.ctx, &model.PlayerAggregate{
		Address:   "0xaaa",
		TotalWins: 7,
	}))

	agg, err := s.service.EnsurePlayer(s.ctx, "0xaaa")
	s.Require().NoError(err)
	s.Equal(7, agg.TotalWins)
}

func (s *StatsSuite) TestRecordMatchStart() {
	err := s.service.RecordMatchStart(s.ctx, "0xaaa", "0xbbb")
	s.Require().NoError(err)

	s.Equal(1, s.getAgg("0xaaa").TotalMatches)
	s.Equal(1, s.getAgg("0xbbb").TotalMatches)

	// Wins/losses stay untouched at start
	s.Equal(0, s.getAgg("0xaaa").TotalWins)
	s.Equal(0, s.getAgg("0xbbb").TotalLosses)
}

func (s *StatsSuite) TestApplyWin() {
	err := s.service.ApplyOutcome(s.ctx, s.finishedMatch("0xaaa"))
	s.Require().NoError(err)

	winner := s.getAgg("0xaaa")
	s.Equal(1, winner.TotalWins)
	s.InDelta(3.0, winner.TotalEarnings, 0.0001)
	s.Equal(1, winner.CurrentStreak)
	s.Equal(1, winner.BestStreak)

	loser := s.getAgg("0xbbb")
	s.Equal(1, loser.TotalLosses)
	s.Equal(0, loser.CurrentStreak)
	s.InDelta(0.0, loser.TotalEarnings, 0.0001)
}

func (s *StatsSuite) TestApplyTie() {
	match := s.finishedMatch("")
	match.GameState = model.GameTie
	match.Winner = ""

	// Give both players a running streak to verify the reset
	for _, id := range []model.PlayerID{"0xaaa", "0xbbb"} {
		s.Require().NoError(s.storage.SavePlayerAggregate(s.ctx, &model.PlayerAggregate{
			Address:       id,
			CurrentStreak: 3,
			BestStreak:    3,
		}))
	}

	err := s.service.ApplyOutcome(s.ctx, match)
	s.Require().NoError(err)

	for _, id := range []model.PlayerID{"0xaaa", "0xbbb"} {
		agg := s.getAgg(id)
		s.Equal(1, agg.TotalTies)
		s.Equal(0, agg.CurrentStreak)
		s.Equal(3, agg.BestStreak)
	}
}

func (s *StatsSuite) TestStreakAccumulates() {
	for i := 0; i < 3; i++ {
		s.Require().NoError(s.service.ApplyOutcome(s.ctx, s.finishedMatch("0xaaa")))
	}

	winner := s.getAgg("0xaaa")
	s.Equal(3, winner.TotalWins)
	s.Equal(3, winner.CurrentStreak)
	s.Equal(3, winner.BestStreak)
	s.InDelta(9.0, winner.TotalEarnings, 0.0001)
}

func (s *StatsSuite) TestStreakResetKeepsBest() {
	for i := 0; i < 3; i++ {
		s.Require().NoError(s.service.ApplyOutcome(s.ctx, s.finishedMatch("0xaaa")))
	}
	// A loss ends the streak
	s.Require().NoError(s.service.ApplyOutcome(s.ctx, s.finishedMatch("0xbbb")))
	// Then one more win starts a new streak
	s.Require().NoError(s.service.ApplyOutcome(s.ctx, s.finishedMatch("0xaaa")))

	agg := s.getAgg("0xaaa")
	s.Equal(4, agg.TotalWins)
	s.Equal(1, agg.TotalLosses)
	s.Equal(1, agg.CurrentStreak)
	s.Equal(3, agg.BestStreak)
}

func (s *StatsSuite) TestApplyOutcomeIgnoresNonTerminal() {
	match := s.finishedMatch("")
	match.GameState = model.GameOngoing
	match.Winner = ""

	err := s.service.ApplyOutcome(s.ctx, match)
	s.Require().NoError(err)

	_, err = s.storage.GetPlayerAggregate(s.ctx, "0xaaa")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}
