package events

import (
	"fmt"

	"github.com/stakeplay/tictactoe-go/internal/model"
)

// Publisher is the transport collaborator: it delivers a named event with
// a payload to all current subscribers of a topic. Delivery is best-effort;
// implementations must not block state transitions.
type Publisher interface {
	Publish(topic string, event model.EventType, payload any) error
}

// LobbyTopic carries available-match announcements to all connected clients
const LobbyTopic = "lobby"

// MatchTopic returns the topic scoped to a single match
func MatchTopic(id model.MatchID) string {
	return fmt.Sprintf("match:%s", id)
}

// UserTopic returns the topic directed at a single player
func UserTopic(id model.PlayerID) string {
	return fmt.Sprintf("user:%s", id)
}
