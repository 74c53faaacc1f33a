package response

import (
	"time"

	"github.com/stakeplay/tictactoe-go/internal/model"
	"github.com/stakeplay/tictactoe-go/internal/services/leaderboard"
	"github.com/stakeplay/tictactoe-go/internal/services/platform"
	"github.com/stakeplay/tictactoe-go/internal/services/player"
)

// Match represents a match in API responses
type Match struct {
	MatchID       string     `json:"matchId"`
	Player1       string     `json:"player1"`
	Player2       string     `json:"player2,omitempty"`
	StakeAmount   float64    `json:"stakeAmount"`
	Status        string     `json:"status"`
	GameState     string     `json:"gameState"`
	Board         []string   `json:"board"`
	CurrentPlayer string     `json:"currentPlayer,omitempty"`
	Winner        string     `json:"winner,omitempty"`
	MoveCount     int        `json:"moveCount"`
	CreatedAt     time.Time  `json:"createdAt"`
	StartedAt     *time.Time `json:"startedAt,omitempty"`
	LastMoveAt    *time.Time `json:"lastMoveAt,omitempty"`
	EndedAt       *time.Time `json:"endedAt,omitempty"`
	SettlementRef string     `json:"txHash,omitempty"`
}

// MatchFromModel converts a model.Match to a response Match
func MatchFromModel(m *model.Match) Match {
	return Match{
		MatchID:       string(m.MatchID),
		Player1:       string(m.Player1),
		Player2:       string(m.Player2),
		StakeAmount:   m.StakeAmount,
		Status:        string(m.Status),
		GameState:     string(m.GameState),
		Board:         m.Board.Strings(),
		CurrentPlayer: string(m.CurrentPlayer),
		Winner:        string(m.Winner),
		MoveCount:     m.MoveCount,
		CreatedAt:     m.CreatedAt,
		StartedAt:     timePtr(m.StartedAt),
		LastMoveAt:    timePtr(m.LastMoveAt),
		EndedAt:       timePtr(m.EndedAt),
		SettlementRef: m.SettlementRef,
	}
}

// MatchesFromModels converts a slice of matches
func MatchesFromModels(matches []*model.Match) []Match {
	out := make([]Match, len(matches))
	for i, m := range matches {
		out[i] = MatchFromModel(m)
	}
	return out
}

// Move represents one accepted move in API responses
type Move struct {
	Player     string    `json:"player"`
	Position   int       `json:"position"`
	Mark       string    `json:"symbol"`
	MoveNumber int       `json:"moveNumber"`
	Timestamp  time.Time `json:"timestamp"`
}

// MoveFromModel converts a model.GameMove to a response Move
func MoveFromModel(m *model.GameMove) Move {
	return Move{
		Player:     string(m.Player),
		Position:   m.Position,
		Mark:       string(m.Mark),
		MoveNumber: m.MoveNumber,
		Timestamp:  m.Timestamp,
	}
}

// MovesFromModels converts a slice of moves
func MovesFromModels(moves []*model.GameMove) []Move {
	out := make([]Move, len(moves))
	for i, m := range moves {
		out[i] = MoveFromModel(m)
	}
	return out
}

// GameStateResponse is the read model for a match plus recent moves
type GameStateResponse struct {
	Match
	RecentMoves []Move `json:"recentMoves"`
}

// GameHistoryResponse carries the full move log of a match
type GameHistoryResponse struct {
	Match      Match  `json:"match"`
	Moves      []Move `json:"moves"`
	TotalMoves int    `json:"totalMoves"`
}

// UserMatchesResponse is a paged match listing
type UserMatchesResponse struct {
	Matches []Match `json:"matches"`
	Total   int     `json:"total"`
	HasMore bool    `json:"hasMore"`
}

// CurrentMatchResponse carries a player's open match with turn context
type CurrentMatchResponse struct {
	Match        *Match `json:"match"`
	PlayerSymbol string `json:"playerSymbol,omitempty"`
	IsPlayerTurn bool   `json:"isPlayerTurn,omitempty"`
	IsPlayer1    bool   `json:"isPlayer1,omitempty"`
}

// Profile represents a player profile in API responses
type Profile struct {
	Address       string    `json:"address"`
	Nickname      string    `json:"nickname,omitempty"`
	Avatar        string    `json:"avatar,omitempty"`
	TotalMatches  int       `json:"totalMatches"`
	TotalWins     int       `json:"totalWins"`
	TotalLosses   int       `json:"totalLosses"`
	TotalTies     int       `json:"totalTies"`
	TotalEarnings float64   `json:"totalEarnings"`
	CurrentStreak int       `json:"currentStreak"`
	BestStreak    int       `json:"bestStreak"`
	WinRate       float64   `json:"winRate"`
	CreatedAt     time.Time `json:"createdAt"`
	LastActive    time.Time `json:"lastActive"`
}

// ProfileFromModel converts a model.PlayerAggregate to a response Profile
func ProfileFromModel(agg *model.PlayerAggregate) Profile {
	return Profile{
		Address:       string(agg.Address),
		Nickname:      agg.Nickname,
		Avatar:        agg.Avatar,
		TotalMatches:  agg.TotalMatches,
		TotalWins:     agg.TotalWins,
		TotalLosses:   agg.TotalLosses,
		TotalTies:     agg.TotalTies,
		TotalEarnings: agg.TotalEarnings,
		CurrentStreak: agg.CurrentStreak,
		BestStreak:    agg.BestStreak,
		WinRate:       agg.WinRate(),
		CreatedAt:     agg.CreatedAt,
		LastActive:    agg.LastActiveAt,
	}
}

// PlayerStatsResponse is the detailed per-player statistics view
type PlayerStatsResponse struct {
	Profile
	Rank          int     `json:"rank"`
	RecentMatches []Match `json:"recentMatches"`
	RecentWinRate float64 `json:"recentWinRate"`
}

// PlayerStatsFromService converts detailed stats
func PlayerStatsFromService(stats *player.DetailedStats) PlayerStatsResponse {
	return PlayerStatsResponse{
		Profile:       ProfileFromModel(stats.Aggregate),
		Rank:          stats.Rank,
		RecentMatches: MatchesFromModels(stats.RecentMatches),
		RecentWinRate: stats.RecentWinRate,
	}
}

// LeaderboardEntry is one leaderboard row in API responses
type LeaderboardEntry struct {
	Profile
	TotalGames int `json:"totalGames"`
}

// LeaderboardFromService converts leaderboard entries
func LeaderboardFromService(entries []leaderboard.Entry) []LeaderboardEntry {
	out := make([]LeaderboardEntry, len(entries))
	for i, e := range entries {
		out[i] = LeaderboardEntry{
			Profile:    ProfileFromModel(e.Aggregate),
			TotalGames: e.TotalGames,
		}
	}
	return out
}

// PlatformStatsResponse is the platform-wide statistics view
type PlatformStatsResponse struct {
	TotalMatches       int     `json:"totalMatches"`
	ActiveMatches      int     `json:"activeMatches"`
	CompletedMatches   int     `json:"completedMatches"`
	TotalPlayers       int     `json:"totalPlayers"`
	OnlinePlayers      int     `json:"onlinePlayers"`
	TotalPrizePool     float64 `json:"totalPrizePool"`
	AvgStakeAmount     float64 `json:"avgStakeAmount"`
	TodayMatches       int     `json:"todayMatches"`
	TodayActivePlayers int     `json:"todayActivePlayers"`
	LastUpdated        string  `json:"lastUpdated"`
}

// PlatformStatsFromService converts platform stats
func PlatformStatsFromService(stats *platform.Stats) PlatformStatsResponse {
	return PlatformStatsResponse{
		TotalMatches:       stats.TotalMatches,
		ActiveMatches:      stats.ActiveMatches,
		CompletedMatches:   stats.CompletedMatches,
		TotalPlayers:       stats.TotalPlayers,
		OnlinePlayers:      stats.OnlinePlayers,
		TotalPrizePool:     stats.TotalPrizePool,
		AvgStakeAmount:     stats.AvgStakeAmount,
		TodayMatches:       stats.TodayMatches,
		TodayActivePlayers: stats.TodayActivePlayers,
		LastUpdated:        stats.LastUpdated.Format(time.RFC3339),
	}
}

// DailyStatsEntry is one day in the daily activity series
type DailyStatsEntry struct {
	Date     string  `json:"date"`
	Matches  int     `json:"matches"`
	Volume   float64 `json:"volume"`
	AvgStake float64 `json:"avgStake"`
}

// DailyStatsFromService converts daily activity buckets
func DailyStatsFromService(buckets []platform.DailyBucket) []DailyStatsEntry {
	out := make([]DailyStatsEntry, len(buckets))
	for i, b := range buckets {
		out[i] = DailyStatsEntry{
			Date:     b.Date,
			Matches:  b.Matches,
			Volume:   b.Volume,
			AvgStake: b.AvgStake,
		}
	}
	return out
}

// WeeklyStatsEntry is one week in the weekly activity series
type WeeklyStatsEntry struct {
	Week          string  `json:"week"`
	Matches       int     `json:"matches"`
	Volume        float64 `json:"volume"`
	AvgStake      float64 `json:"avgStake"`
	UniquePlayers int     `json:"uniquePlayers"`
}

// WeeklyStatsFromService converts weekly activity buckets
func WeeklyStatsFromService(buckets []platform.WeeklyBucket) []WeeklyStatsEntry {
	out := make([]WeeklyStatsEntry, len(buckets))
	for i, b := range buckets {
		out[i] = WeeklyStatsEntry{
			Week:          b.Week,
			Matches:       b.Matches,
			Volume:        b.Volume,
			AvgStake:      b.AvgStake,
			UniquePlayers: b.UniquePlayers,
		}
	}
	return out
}

// MonthlyStatsEntry is one month in the monthly activity series
type MonthlyStatsEntry struct {
	Month         string  `json:"month"`
	Matches       int     `json:"matches"`
	Volume        float64 `json:"volume"`
	AvgStake      float64 `json:"avgStake"`
	MaxStake      float64 `json:"maxStake"`
	UniquePlayers int     `json:"uniquePlayers"`
}

// MonthlyStatsFromService converts monthly activity buckets
func MonthlyStatsFromService(buckets []platform.MonthlyBucket) []MonthlyStatsEntry {
	out := make([]MonthlyStatsEntry, len(buckets))
	for i, b := range buckets {
		out[i] = MonthlyStatsEntry{
			Month:         b.Month,
			Matches:       b.Matches,
			Volume:        b.Volume,
			AvgStake:      b.AvgStake,
			MaxStake:      b.MaxStake,
			UniquePlayers: b.UniquePlayers,
		}
	}
	return out
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
