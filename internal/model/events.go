package model

// EventType identifies the type of event
type EventType string

const (
	// Lobby events
	EventNewMatchAvailable EventType = "newMatchAvailable"
	EventMatchUnavailable  EventType = "matchUnavailable"

	// Match events
	EventMatchJoined       EventType = "matchJoined"
	EventMatchStarted      EventType = "matchStarted"
	EventMoveUpdate        EventType = "moveUpdate"
	EventGameEnded         EventType = "gameEnded"
	EventGameForfeited     EventType = "gameForfeited"
	EventMatchCancelled    EventType = "matchCancelled"
	EventBlockchainSettled EventType = "blockchainSettled"

	// Per-player events
	EventGameResult EventType = "gameResult"
)

// GameResult values carried by per-player gameResult events
const (
	ResultWin  = "win"
	ResultLoss = "loss"
	ResultTie  = "tie"
)

// NewMatchAvailablePayload announces a joinable match on the lobby topic
type NewMatchAvailablePayload struct {
	MatchID     MatchID  `json:"matchId"`
	Player1     PlayerID `json:"player1"`
	StakeAmount float64  `json:"stakeAmount"`
}

// MatchUnavailablePayload removes a match from the open list
type MatchUnavailablePayload struct {
	MatchID MatchID `json:"matchId"`
}

// MatchJoinedPayload carries the full new state to the match creator
type MatchJoinedPayload struct {
	MatchID       MatchID     `json:"matchId"`
	Player1       PlayerID    `json:"player1"`
	Player2       PlayerID    `json:"player2"`
	StakeAmount   float64     `json:"stakeAmount"`
	Status        MatchStatus `json:"status"`
	GameState     GameState   `json:"gameState"`
	Board         []string    `json:"board"`
	CurrentPlayer PlayerID    `json:"currentPlayer"`
}

// MatchStartedPayload notifies the match topic that play has begun
type MatchStartedPayload struct {
	MatchID       MatchID   `json:"matchId"`
	Player1       PlayerID  `json:"player1"`
	Player2       PlayerID  `json:"player2"`
	CurrentPlayer PlayerID  `json:"currentPlayer"`
	GameState     GameState `json:"gameState"`
}

// LastMove describes the move that produced a moveUpdate
type LastMove struct {
	Player   PlayerID `json:"player"`
	Position int      `json:"position"`
	Mark     Mark     `json:"symbol"`
}

// MoveUpdatePayload carries the board state after an accepted move
type MoveUpdatePayload struct {
	MatchID       MatchID   `json:"matchId"`
	Board         []string  `json:"board"`
	CurrentPlayer PlayerID  `json:"currentPlayer"`
	GameState     GameState `json:"gameState"`
	Winner        PlayerID  `json:"winner,omitempty"`
	MoveCount     int       `json:"moveCount"`
	LastMove      LastMove  `json:"lastMove"`
}

// GameEndedPayload announces a terminal outcome on the match topic
type GameEndedPayload struct {
	MatchID     MatchID   `json:"matchId"`
	Winner      PlayerID  `json:"winner,omitempty"`
	GameState   GameState `json:"gameState"`
	FinalBoard  []string  `json:"finalBoard"`
	WinningLine []int     `json:"winningLine,omitempty"`
	Forfeit     bool      `json:"forfeit,omitempty"`
}

// GameForfeitedPayload identifies who conceded
type GameForfeitedPayload struct {
	MatchID     MatchID  `json:"matchId"`
	ForfeitedBy PlayerID `json:"forfeitedBy"`
	Winner      PlayerID `json:"winner"`
}

// MatchCancelledPayload announces a cancellation
type MatchCancelledPayload struct {
	MatchID MatchID `json:"matchId"`
}

// BlockchainSettledPayload records an external settlement reference
type BlockchainSettledPayload struct {
	MatchID       MatchID  `json:"matchId"`
	SettlementRef string   `json:"txHash"`
	Winner        PlayerID `json:"winner,omitempty"`
}

// GameResultPayload carries a participant's individual result
type GameResultPayload struct {
	MatchID  MatchID `json:"matchId"`
	Result   string  `json:"result"`
	Earnings float64 `json:"earnings,omitempty"`
}
