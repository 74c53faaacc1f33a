package request

// CreateMatchRequest is the request body for creating a match
type CreateMatchRequest struct {
	Player1     string  `json:"player1"`
	StakeAmount float64 `json:"stakeAmount"`
	MatchID     string  `json:"matchId,omitempty"`
}

// JoinMatchRequest is the request body for joining a match
type JoinMatchRequest struct {
	Player2 string `json:"player2"`
}

// MoveRequest is the request body for applying a move
type MoveRequest struct {
	Player   string `json:"player"`
	Position *int   `json:"position"`
}

// ForfeitRequest is the request body for forfeiting a match
type ForfeitRequest struct {
	Player string `json:"player"`
}

// CancelRequest is the request body for cancelling a match
type CancelRequest struct {
	Player string `json:"player"`
}

// SettleRequest is the request body for recording an external settlement
type SettleRequest struct {
	SettlementRef string `json:"txHash"`
	Winner        string `json:"winner,omitempty"`
}

// UpdateProfileRequest is the request body for updating a player profile
type UpdateProfileRequest struct {
	Nickname string `json:"nickname,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}
