package model

import "time"

// MaxNicknameLength bounds player-supplied nicknames
const MaxNicknameLength = 50

// PlayerAggregate is the per-player cumulative record. Outcome counters
// are mutated only by stats settlement, exactly once per terminal match;
// they are never re-derived from move history at read time.
type PlayerAggregate struct {
	Address  PlayerID
	Nickname string
	Avatar   string

	TotalMatches  int
	TotalWins     int
	TotalLosses   int
	TotalTies     int
	TotalEarnings float64
	CurrentStreak int
	BestStreak    int

	CreatedAt    time.Time
	LastActiveAt time.Time
}

// DecidedGames returns the number of games with a recorded outcome
func (p *PlayerAggregate) DecidedGames() int {
	return p.TotalWins + p.TotalLosses + p.TotalTies
}

// WinRate returns the win percentage over decided games
func (p *PlayerAggregate) WinRate() float64 {
	total := p.DecidedGames()
	if total == 0 {
		return 0
	}
	return float64(p.TotalWins) / float64(total) * 100
}
