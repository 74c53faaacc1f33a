package redis

import (
	"fmt"

	"github.com/stakeplay/tictactoe-go/internal/model"
)

// Key prefix for all match-related data
const keyPrefix = "ttt"

// matchKey returns the Redis key for a Match snapshot
func matchKey(id model.MatchID) string {
	return fmt.Sprintf("%s:match:%s", keyPrefix, id)
}

// movesKey returns the Redis key for a match's append-only move list
func movesKey(id model.MatchID) string {
	return fmt.Sprintf("%s:moves:%s", keyPrefix, id)
}

// playerKey returns the Redis key for a PlayerAggregate
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// playersIndexKey returns the Redis key for the SET of known player addresses
func playersIndexKey() string {
	return fmt.Sprintf("%s:idx:players", keyPrefix)
}

// allMatchesIndexKey returns the ZSET of all match IDs scored by creation time
func allMatchesIndexKey() string {
	return fmt.Sprintf("%s:idx:matches:all", keyPrefix)
}

// availableMatchesIndexKey returns the ZSET of waiting match IDs
func availableMatchesIndexKey() string {
	return fmt.Sprintf("%s:idx:matches:available", keyPrefix)
}

// openMatchesIndexKey returns the ZSET of waiting/active match IDs
func openMatchesIndexKey() string {
	return fmt.Sprintf("%s:idx:matches:open", keyPrefix)
}

// completedMatchesIndexKey returns the ZSET of completed/settled match IDs
func completedMatchesIndexKey() string {
	return fmt.Sprintf("%s:idx:matches:completed", keyPrefix)
}

// playerMatchesIndexKey returns the ZSET of a player's match IDs
func playerMatchesIndexKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:idx:player_matches:%s", keyPrefix, id)
}
