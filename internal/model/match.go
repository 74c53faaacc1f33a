package model

import (
	"strings"
	"time"
)

// MatchID uniquely identifies a match
type MatchID string

// PlayerID identifies a participant. IDs are case-normalized wallet
// addresses; NormalizePlayerID must be applied at every ingress boundary.
type PlayerID string

// NormalizePlayerID lowercases a raw player identifier
func NormalizePlayerID(raw string) PlayerID {
	return PlayerID(strings.ToLower(strings.TrimSpace(raw)))
}

// MatchStatus represents the persistence/administrative state of a match
type MatchStatus string

const (
	StatusWaiting   MatchStatus = "waiting"
	StatusActive    MatchStatus = "active"
	StatusCompleted MatchStatus = "completed"
	StatusCancelled MatchStatus = "cancelled"
	StatusSettled   MatchStatus = "settled"
)

// GameState represents the gameplay state of a match
type GameState string

const (
	GameWaiting   GameState = "waiting"
	GameOngoing   GameState = "ongoing"
	GameFinished  GameState = "finished"
	GameTie       GameState = "tie"
	GameCancelled GameState = "cancelled"
)

// IsTerminal reports whether no further gameplay transitions are accepted
func (s GameState) IsTerminal() bool {
	return s == GameFinished || s == GameTie || s == GameCancelled
}

// Match represents a single two-player staked session
type Match struct {
	MatchID     MatchID
	Player1     PlayerID
	Player2     PlayerID // empty until joined
	StakeAmount float64
	Status      MatchStatus
	GameState   GameState
	Board       Board
	// CurrentPlayer is only meaningful while GameState is ongoing
	CurrentPlayer PlayerID
	// Marks are assigned once at join and never recomputed
	Player1Mark Mark
	Player2Mark Mark
	Winner      PlayerID // empty for tie or non-terminal states
	MoveCount   int

	CreatedAt  time.Time
	StartedAt  time.Time
	LastMoveAt time.Time
	EndedAt    time.Time

	// SettlementRef records that the outcome was finalized externally
	SettlementRef string
	SettledAt     time.Time
}

// HasPlayer reports whether the given participant is part of the match
func (m *Match) HasPlayer(p PlayerID) bool {
	return p != "" && (p == m.Player1 || p == m.Player2)
}

// Opponent returns the other participant, or empty if p is not in the match
func (m *Match) Opponent(p PlayerID) PlayerID {
	switch p {
	case m.Player1:
		return m.Player2
	case m.Player2:
		return m.Player1
	}
	return ""
}

// MarkFor returns the mark assigned to the given participant
func (m *Match) MarkFor(p PlayerID) Mark {
	switch p {
	case m.Player1:
		return m.Player1Mark
	case m.Player2:
		return m.Player2Mark
	}
	return MarkEmpty
}

// PlayerForMark maps a mark back to the participant that owns it
func (m *Match) PlayerForMark(mark Mark) PlayerID {
	switch mark {
	case m.Player1Mark:
		return m.Player1
	case m.Player2Mark:
		return m.Player2
	}
	return ""
}

// IsSettled reports whether an external settlement reference was recorded
func (m *Match) IsSettled() bool {
	return m.SettlementRef != ""
}
