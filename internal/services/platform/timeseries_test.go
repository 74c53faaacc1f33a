package platform

import (
	"time"

	"github.com/stakeplay/tictactoe-go/internal/model"
)

// completedMatch stores a completed match created the given duration ago
func (s *PlatformSuite) completedMatch(id model.MatchID, creator model.PlayerID, stake float64, ago time.Duration) {
	s.Require().NoError(s.storage.CreateMatch(s.ctx, &model.Match{
		MatchID:     id,
		Player1:     creator,
		Player2:     "0xopp",
		StakeAmount: stake,
		Status:      model.StatusCompleted,
		CreatedAt:   s.clock.Now().Add(-ago),
	}))
}

func (s *PlatformSuite) TestDailyEmptyIsZeroFilled() {
	buckets, err := s.service.Daily(s.ctx, 3)
	s.Require().NoError(err)
	s.Require().Len(buckets, 3)

	s.Equal("2024-05-30", buckets[0].Date)
	s.Equal("2024-06-01", buckets[2].Date)
	for _, b := range buckets {
		s.Equal(0, b.Matches)
		s.InDelta(0.0, b.Volume, 0.0001)
	}
}

func (s *PlatformSuite) TestDaily() {
	s.completedMatch("d1", "0xaaa", 2, 0)
	s.completedMatch("d2", "0xbbb", 4, 2*time.Hour)
	s.completedMatch("d3", "0xaaa", 1, 24*time.Hour)
	// Outside the window, must not appear
	s.completedMatch("d4", "0xaaa", 9, 5*24*time.Hour)
	// Open matches never count toward activity
	s.Require().NoError(s.storage.CreateMatch(s.ctx, &model.Match{
		MatchID: "w1", Player1: "0xaaa", StakeAmount: 7,
		Status: model.StatusWaiting, CreatedAt: s.clock.Now(),
	}))

	buckets, err := s.service.Daily(s.ctx, 3)
	s.Require().NoError(err)
	s.Require().Len(buckets, 3)

	s.Equal("2024-05-30", buckets[0].Date)
	s.Equal(0, buckets[0].Matches)

	s.Equal("2024-05-31", buckets[1].Date)
	s.Equal(1, buckets[1].Matches)
	s.InDelta(2.0, buckets[1].Volume, 0.0001)
	s.InDelta(1.0, buckets[1].AvgStake, 0.0001)

	s.Equal("2024-06-01", buckets[2].Date)
	s.Equal(2, buckets[2].Matches)
	s.InDelta(12.0, buckets[2].Volume, 0.0001)
	s.InDelta(3.0, buckets[2].AvgStake, 0.0001)
}

func (s *PlatformSuite) TestDailyDefaultAndCap() {
	buckets, err := s.service.Daily(s.ctx, 0)
	s.Require().NoError(err)
	s.Len(buckets, DefaultDays)

	buckets, err = s.service.Daily(s.ctx, 10000)
	s.Require().NoError(err)
	s.Len(buckets, MaxDays)
}

func (s *PlatformSuite) TestWeekly() {
	// 2024-06-01 falls in ISO week 22
	s.completedMatch("w1", "0xaaa", 2, 0)
	s.completedMatch("w2", "0xbbb", 4, time.Hour)
	s.completedMatch("w3", "0xaaa", 6, 7*24*time.Hour)

	buckets, err := s.service.Weekly(s.ctx, 4)
	s.Require().NoError(err)
	s.Require().Len(buckets, 2)

	s.Equal("2024-W21", buckets[0].Week)
	s.Equal(1, buckets[0].Matches)
	s.Equal(1, buckets[0].UniquePlayers)

	s.Equal("2024-W22", buckets[1].Week)
	s.Equal(2, buckets[1].Matches)
	s.InDelta(12.0, buckets[1].Volume, 0.0001)
	s.InDelta(3.0, buckets[1].AvgStake, 0.0001)
	s.Equal(2, buckets[1].UniquePlayers)
}

func (s *PlatformSuite) TestMonthly() {
	s.completedMatch("m1", "0xaaa", 2, 0)
	s.completedMatch("m2", "0xaaa", 8, time.Hour)
	s.completedMatch("m3", "0xbbb", 5, 40*24*time.Hour)

	buckets, err := s.service.Monthly(s.ctx, 6)
	s.Require().NoError(err)
	s.Require().Len(buckets, 2)

	s.Equal("Apr 2024", buckets[0].Month)
	s.Equal(1, buckets[0].Matches)
	s.InDelta(5.0, buckets[0].MaxStake, 0.0001)

	s.Equal("Jun 2024", buckets[1].Month)
	s.Equal(2, buckets[1].Matches)
	s.InDelta(20.0, buckets[1].Volume, 0.0001)
	s.InDelta(5.0, buckets[1].AvgStake, 0.0001)
	s.InDelta(8.0, buckets[1].MaxStake, 0.0001)
	s.Equal(1, buckets[1].UniquePlayers)
}
