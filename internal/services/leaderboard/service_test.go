package leaderboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/stakeplay/tictactoe-go/internal/dependencies/mocks"
	"github.com/stakeplay/tictactoe-go/internal/model"
	"github.com/stakeplay/tictactoe-go/internal/storage/memory"
)

type LeaderboardSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestLeaderboardSuite(t *testing.T) {
	suite.Run(t, new(LeaderboardSuite))
}

func (s *LeaderboardSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock)
	s.ctx = context.Background()
}

func (s *LeaderboardSuite) savePlayer(addr model.PlayerID, wins, losses int, earnings float64, lastActive time.Time) {
	s.Require().NoError(s.storage.SavePlayerAggregate(s.ctx, &model.PlayerAggregate{
		Address:       addr,
		TotalWins:     wins,
		TotalLosses:   losses,
		TotalEarnings: earnings,
		LastActiveAt:  lastActive,
	}))
}

func (s *LeaderboardSuite) TestTopByEarnings() {
	now := s.clock.Now()
	s.savePlayer("0xaaa", 3, 2, 10, now)
	s.savePlayer("0xbbb", 5, 1, 30, now)
	s.savePlayer("0xccc", 1, 1, 20, now)

	entries, err := s.service.Top(s.ctx, SortByEarnings, PeriodAll, 0)
	s.Require().NoError(err)
	s.Require().Len(entries, 3)
	s.Equal(model.PlayerID("0xbbb"), entries[0].Aggregate.Address)
	s.Equal(model.PlayerID("0xccc"), entries[1].Aggregate.Address)
	s.Equal(model.PlayerID("0xaaa"), entries[2].Aggregate.Address)
}

func (s *LeaderboardSuite) TestTopByWins() {
	now := s.clock.Now()
	s.savePlayer("0xaaa", 5, 0, 1, now)
	s.savePlayer("0xbbb", 3, 0, 99, now)
	// Equal wins break the tie on earnings
	s.savePlayer("0xccc", 5, 0, 50, now)

	entries, err := s.service.Top(s.ctx, SortByWins, PeriodAll, 0)
	s.Require().NoError(err)
	s.Require().Len(entries, 3)
	s.Equal(model.PlayerID("0xccc"), entries[0].Aggregate.Address)
	s.Equal(model.PlayerID("0xaaa"), entries[1].Aggregate.Address)
	s.Equal(model.PlayerID("0xbbb"), entries[2].Aggregate.Address)
}

func (s *LeaderboardSuite) TestTopByWinRateRequiresSample() {
	now := s.clock.Now()
	// 4 decided games: below the minimum sample, excluded
	s.savePlayer("0xaaa", 4, 0, 10, now)
	// 6 decided games at 83%
	s.savePlayer("0xbbb", 5, 1, 10, now)
	// 10 decided games at 50%
	s.savePlayer("0xccc", 5, 5, 10, now)

	entries, err := s.service.Top(s.ctx, SortByWinRate, PeriodAll, 0)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(model.PlayerID("0xbbb"), entries[0].Aggregate.Address)
	s.Equal(model.PlayerID("0xccc"), entries[1].Aggregate.Address)
}

func (s *LeaderboardSuite) TestExcludesPlayersWithNoDecidedGames() {
	now := s.clock.Now()
	s.savePlayer("0xaaa", 0, 0, 0, now)
	s.savePlayer("0xbbb", 1, 0, 2, now)

	entries, err := s.service.Top(s.ctx, SortByEarnings, PeriodAll, 0)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(model.PlayerID("0xbbb"), entries[0].Aggregate.Address)
}

func (s *LeaderboardSuite) TestPeriodFiltersInactive() {
	now := s.clock.Now()
	s.savePlayer("0xaaa", 1, 0, 1, now.AddDate(0, 0, -2))
	s.savePlayer("0xbbb", 1, 0, 1, now.AddDate(0, 0, -10))
	s.savePlayer("0xccc", 1, 0, 1, now.AddDate(0, -2, 0))

	week, err := s.service.Top(s.ctx, SortByEarnings, PeriodWeek, 0)
	s.Require().NoError(err)
	s.Require().Len(week, 1)
	s.Equal(model.PlayerID("0xaaa"), week[0].Aggregate.Address)

	month, err := s.service.Top(s.ctx, SortByEarnings, PeriodMonth, 0)
	s.Require().NoError(err)
	s.Len(month, 2)

	all, err := s.service.Top(s.ctx, SortByEarnings, PeriodAll, 0)
	s.Require().NoError(err)
	s.Len(all, 3)
}

func (s *LeaderboardSuite) TestLimitClamped() {
	now := s.clock.Now()
	for i := 0; i < 120; i++ {
		addr := model.PlayerID(string(rune('a'+i%26)) + string(rune('0'+i/26)))
		s.savePlayer(addr, 1, 0, float64(i), now)
	}

	entries, err := s.service.Top(s.ctx, SortByEarnings, PeriodAll, 500)
	s.Require().NoError(err)
	s.Len(entries, MaxLimit)

	limited, err := s.service.Top(s.ctx, SortByEarnings, PeriodAll, 5)
	s.Require().NoError(err)
	s.Len(limited, 5)
}
