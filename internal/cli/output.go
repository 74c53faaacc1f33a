package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Match:
		o.printMatch(v)
	case []Match:
		o.printMatchList(v)
	case GameState:
		o.printGameState(v)
	case GameHistory:
		o.printGameHistory(v)
	case UserMatches:
		o.printUserMatches(v)
	case CurrentMatch:
		o.printCurrentMatch(v)
	case Profile:
		o.printProfile(v)
	case PlayerStats:
		o.printPlayerStats(v)
	case []LeaderboardEntry:
		o.printLeaderboard(v)
	case PlatformStats:
		o.printPlatformStats(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Match response type (matches API)
type Match struct {
	MatchID       string   `json:"matchId"`
	Player1       string   `json:"player1"`
	Player2       string   `json:"player2,omitempty"`
	StakeAmount   float64  `json:"stakeAmount"`
	Status        string   `json:"status"`
	GameState     string   `json:"gameState"`
	Board         []string `json:"board"`
	CurrentPlayer string   `json:"currentPlayer,omitempty"`
	Winner        string   `json:"winner,omitempty"`
	MoveCount     int      `json:"moveCount"`
	SettlementRef string   `json:"txHash,omitempty"`
}

// Move response type
type Move struct {
	Player     string `json:"player"`
	Position   int    `json:"position"`
	Mark       string `json:"symbol"`
	MoveNumber int    `json:"moveNumber"`
}

// GameState response type
type GameState struct {
	Match
	RecentMoves []Move `json:"recentMoves"`
}

// GameHistory response type
type GameHistory struct {
	Match      Match  `json:"match"`
	Moves      []Move `json:"moves"`
	TotalMoves int    `json:"totalMoves"`
}

// UserMatches response type
type UserMatches struct {
	Matches []Match `json:"matches"`
	Total   int     `json:"total"`
	HasMore bool    `json:"hasMore"`
}

// CurrentMatch response type
type CurrentMatch struct {
	Match        *Match `json:"match"`
	PlayerSymbol string `json:"playerSymbol,omitempty"`
	IsPlayerTurn bool   `json:"isPlayerTurn,omitempty"`
	IsPlayer1    bool   `json:"isPlayer1,omitempty"`
}

// Profile response type
type Profile struct {
	Address       string  `json:"address"`
	Nickname      string  `json:"nickname,omitempty"`
	Avatar        string  `json:"avatar,omitempty"`
	TotalMatches  int     `json:"totalMatches"`
	TotalWins     int     `json:"totalWins"`
	TotalLosses   int     `json:"totalLosses"`
	TotalTies     int     `json:"totalTies"`
	TotalEarnings float64 `json:"totalEarnings"`
	CurrentStreak int     `json:"currentStreak"`
	BestStreak    int     `json:"bestStreak"`
	WinRate       float64 `json:"winRate"`
}

// PlayerStats response type
type PlayerStats struct {
	Profile
	Rank          int     `json:"rank"`
	RecentMatches []Match `json:"recentMatches"`
	RecentWinRate float64 `json:"recentWinRate"`
}

// LeaderboardEntry response type
type LeaderboardEntry struct {
	Profile
	TotalGames int `json:"totalGames"`
}

// PlatformStats response type
type PlatformStats struct {
	TotalMatches       int     `json:"totalMatches"`
	ActiveMatches      int     `json:"activeMatches"`
	CompletedMatches   int     `json:"completedMatches"`
	TotalPlayers       int     `json:"totalPlayers"`
	OnlinePlayers      int     `json:"onlinePlayers"`
	TotalPrizePool     float64 `json:"totalPrizePool"`
	AvgStakeAmount     float64 `json:"avgStakeAmount"`
	TodayMatches       int     `json:"todayMatches"`
	TodayActivePlayers int     `json:"todayActivePlayers"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printMatch(m Match) {
	fmt.Printf("Match: %s\n", m.MatchID)
	fmt.Printf("  Status: %s (%s)\n", m.Status, m.GameState)
	fmt.Printf("  Stake:  %.4f\n", m.StakeAmount)
	fmt.Printf("  Player 1 (X): %s\n", m.Player1)
	if m.Player2 != "" {
		fmt.Printf("  Player 2 (O): %s\n", m.Player2)
	}
	if m.CurrentPlayer != "" {
		fmt.Printf("  Turn: %s\n", m.CurrentPlayer)
	}
	if m.Winner != "" {
		fmt.Printf("  Winner: %s\n", m.Winner)
	}
	if m.SettlementRef != "" {
		fmt.Printf("  Settlement: %s\n", m.SettlementRef)
	}
	if len(m.Board) == 9 {
		fmt.Println(renderBoard(m.Board))
	}
}

func (o *Output) printMatchList(matches []Match) {
	if len(matches) == 0 {
		fmt.Println("No matches")
		return
	}
	for _, m := range matches {
		fmt.Printf("%s  stake=%.4f  %s  %s", m.MatchID, m.StakeAmount, m.Status, m.Player1)
		if m.Player2 != "" {
			fmt.Printf(" vs %s", m.Player2)
		}
		fmt.Println()
	}
}

func (o *Output) printGameState(g GameState) {
	o.printMatch(g.Match)
	if len(g.RecentMoves) > 0 {
		fmt.Println("  Recent moves:")
		for _, mv := range g.RecentMoves {
			fmt.Printf("    #%d %s -> %d (%s)\n", mv.MoveNumber, mv.Player, mv.Position, mv.Mark)
		}
	}
}

func (o *Output) printGameHistory(h GameHistory) {
	o.printMatch(h.Match)
	fmt.Printf("  Moves (%d):\n", h.TotalMoves)
	for _, mv := range h.Moves {
		fmt.Printf("    #%d %s -> %d (%s)\n", mv.MoveNumber, mv.Player, mv.Position, mv.Mark)
	}
}

func (o *Output) printUserMatches(u UserMatches) {
	o.printMatchList(u.Matches)
	fmt.Printf("Total: %d", u.Total)
	if u.HasMore {
		fmt.Print(" (more available)")
	}
	fmt.Println()
}

func (o *Output) printCurrentMatch(c CurrentMatch) {
	if c.Match == nil {
		fmt.Println("No open match")
		return
	}
	o.printMatch(*c.Match)
	fmt.Printf("  You play: %s", c.PlayerSymbol)
	if c.IsPlayerTurn {
		fmt.Print(" (your turn)")
	}
	fmt.Println()
}

func (o *Output) printProfile(p Profile) {
	name := p.Address
	if p.Nickname != "" {
		name = fmt.Sprintf("%s (%s)", p.Nickname, p.Address)
	}
	fmt.Printf("Player: %s\n", name)
	fmt.Printf("  Matches: %d  W/L/T: %d/%d/%d\n", p.TotalMatches, p.TotalWins, p.TotalLosses, p.TotalTies)
	fmt.Printf("  Earnings: %.4f\n", p.TotalEarnings)
	fmt.Printf("  Win rate: %.1f%%\n", p.WinRate)
	fmt.Printf("  Streak: %d (best %d)\n", p.CurrentStreak, p.BestStreak)
}

func (o *Output) printPlayerStats(s PlayerStats) {
	o.printProfile(s.Profile)
	fmt.Printf("  Rank: #%d\n", s.Rank)
	fmt.Printf("  Recent win rate: %.1f%% over %d matches\n", s.RecentWinRate, len(s.RecentMatches))
}

func (o *Output) printLeaderboard(entries []LeaderboardEntry) {
	if len(entries) == 0 {
		fmt.Println("Leaderboard is empty")
		return
	}
	for i, e := range entries {
		name := e.Address
		if e.Nickname != "" {
			name = e.Nickname
		}
		fmt.Printf("%3d. %-20s  wins=%d  earnings=%.4f  winRate=%.1f%%\n",
			i+1, name, e.TotalWins, e.TotalEarnings, e.WinRate)
	}
}

func (o *Output) printPlatformStats(s PlatformStats) {
	fmt.Printf("Matches: %d total, %d open, %d completed (%d today)\n",
		s.TotalMatches, s.ActiveMatches, s.CompletedMatches, s.TodayMatches)
	fmt.Printf("Players: %d total, %d online, %d active today\n",
		s.TotalPlayers, s.OnlinePlayers, s.TodayActivePlayers)
	fmt.Printf("Prize pool: %.4f (avg stake %.4f)\n", s.TotalPrizePool, s.AvgStakeAmount)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}

// renderBoard draws the 3x3 grid with 0-indexed cells left blank when empty
func renderBoard(cells []string) string {
	var b strings.Builder
	for row := 0; row < 3; row++ {
		b.WriteString("   ")
		for col := 0; col < 3; col++ {
			cell := cells[row*3+col]
			if cell == "" {
				cell = "."
			}
			b.WriteString(cell)
			if col < 2 {
				b.WriteString(" | ")
			}
		}
		if row < 2 {
			b.WriteString("\n   ---------\n")
		}
	}
	return b.String()
}
