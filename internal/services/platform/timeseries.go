package platform

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/stakeplay/tictactoe-go/internal/model"
)

// Lookback defaults and caps for the time-series views
const (
	DefaultDays   = 7
	MaxDays       = 90
	DefaultWeeks  = 8
	MaxWeeks      = 52
	DefaultMonths = 6
	MaxMonths     = 24
)

// DailyBucket is one calendar day of completed-match activity.
// Volume is the total prize pool (2x stake per match).
type DailyBucket struct {
	Date     string
	Matches  int
	Volume   float64
	AvgStake float64
}

// WeeklyBucket aggregates one calendar week of completed matches.
// UniquePlayers counts distinct match creators in the week.
type WeeklyBucket struct {
	Week          string
	Matches       int
	Volume        float64
	AvgStake      float64
	UniquePlayers int
}

// MonthlyBucket aggregates one calendar month of completed matches
type MonthlyBucket struct {
	Month         string
	Matches       int
	Volume        float64
	AvgStake      float64
	MaxStake      float64
	UniquePlayers int
}

type bucketAcc struct {
	matches  int
	stakeSum float64
	maxStake float64
	creators map[model.PlayerID]struct{}
}

func (a *bucketAcc) add(m *model.Match) {
	a.matches++
	a.stakeSum += m.StakeAmount
	if m.StakeAmount > a.maxStake {
		a.maxStake = m.StakeAmount
	}
	a.creators[m.Player1] = struct{}{}
}

func (a *bucketAcc) avgStake() float64 {
	if a.matches == 0 {
		return 0
	}
	return a.stakeSum / float64(a.matches)
}

// volume is the total prize pool moved through the bucket
func (a *bucketAcc) volume() float64 {
	return a.stakeSum * 2
}

// Daily returns per-day activity for the last days calendar days,
// today included. Days without completed matches appear with zeroes.
func (s *Service) Daily(ctx context.Context, days int) ([]DailyBucket, error) {
	if days <= 0 {
		days = DefaultDays
	}
	if days > MaxDays {
		days = MaxDays
	}

	now := s.clock.Now()
	start := dayStart(now.AddDate(0, 0, -(days - 1)))

	accs, err := s.accumulate(ctx, start, func(t time.Time) string {
		return t.Format("2006-01-02")
	})
	if err != nil {
		return nil, err
	}

	out := make([]DailyBucket, 0, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		bucket := DailyBucket{Date: date}
		if acc, ok := accs[date]; ok {
			bucket.Matches = acc.matches
			bucket.Volume = acc.volume()
			bucket.AvgStake = acc.avgStake()
		}
		out = append(out, bucket)
	}
	return out, nil
}

// Weekly returns per-week activity for the last weeks calendar weeks.
// Weeks without completed matches are omitted.
func (s *Service) Weekly(ctx context.Context, weeks int) ([]WeeklyBucket, error) {
	if weeks <= 0 {
		weeks = DefaultWeeks
	}
	if weeks > MaxWeeks {
		weeks = MaxWeeks
	}

	now := s.clock.Now()
	start := dayStart(now.AddDate(0, 0, -weeks*7))

	accs, err := s.accumulate(ctx, start, weekLabel)
	if err != nil {
		return nil, err
	}

	out := make([]WeeklyBucket, 0, len(accs))
	for label, acc := range accs {
		out = append(out, WeeklyBucket{
			Week:          label,
			Matches:       acc.matches,
			Volume:        acc.volume(),
			AvgStake:      acc.avgStake(),
			UniquePlayers: len(acc.creators),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Week < out[j].Week })
	return out, nil
}

// Monthly returns per-month activity for the last months calendar
// months. Months without completed matches are omitted.
func (s *Service) Monthly(ctx context.Context, months int) ([]MonthlyBucket, error) {
	if months <= 0 {
		months = DefaultMonths
	}
	if months > MaxMonths {
		months = MaxMonths
	}

	now := s.clock.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -months, 0)

	accs, err := s.accumulate(ctx, start, func(t time.Time) string {
		// Sortable key; formatted for display below
		return t.Format("2006-01")
	})
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(accs))
	for key := range accs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]MonthlyBucket, 0, len(keys))
	for _, key := range keys {
		acc := accs[key]
		month, _ := time.Parse("2006-01", key)
		out = append(out, MonthlyBucket{
			Month:         month.Format("Jan 2006"),
			Matches:       acc.matches,
			Volume:        acc.volume(),
			AvgStake:      acc.avgStake(),
			MaxStake:      acc.maxStake,
			UniquePlayers: len(acc.creators),
		})
	}
	return out, nil
}

// accumulate groups completed matches created at or after start into
// buckets labeled by the given function
func (s *Service) accumulate(ctx context.Context, start time.Time, label func(time.Time) string) (map[string]*bucketAcc, error) {
	matches, err := s.storage.ListCompletedMatches(ctx, start)
	if err != nil {
		return nil, err
	}

	accs := make(map[string]*bucketAcc)
	for _, match := range matches {
		key := label(match.CreatedAt)
		acc, ok := accs[key]
		if !ok {
			acc = &bucketAcc{creators: make(map[model.PlayerID]struct{})}
			accs[key] = acc
		}
		acc.add(match)
	}
	return accs, nil
}

func weekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
