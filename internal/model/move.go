package model

import "time"

// GameMove is one accepted move, appended once and never mutated.
// The move log is the authoritative audit trail independent of the
// mutable Match snapshot.
type GameMove struct {
	MatchID    MatchID
	Player     PlayerID
	Position   int // 0..8
	Mark       Mark
	MoveNumber int // sequential, starting at 1
	Timestamp  time.Time
}
