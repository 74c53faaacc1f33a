package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stakeplay/tictactoe-go/internal/model"
	"github.com/stakeplay/tictactoe-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Match operations

func (s *Storage) CreateMatch(ctx context.Context, match *model.Match) error {
	data, err := json.Marshal(match)
	if err != nil {
		return err
	}

	// SETNX guards against two creators racing on the same match ID
	created, err := s.client.SetNX(ctx, matchKey(match.MatchID), data, 0).Result()
	if err != nil {
		return err
	}
	if !created {
		return model.ErrDuplicateMatch
	}

	pipe := s.client.TxPipeline()
	s.indexMatch(ctx, pipe, match)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetMatch(ctx context.Context, id model.MatchID) (*model.Match, error) {
	data, err := s.client.Get(ctx, matchKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrMatchNotFound
		}
		return nil, err
	}

	var match model.Match
	if err := json.Unmarshal(data, &match); err != nil {
		return nil, err
	}
	return &match, nil
}

func (s *Storage) SaveMatch(ctx context.Context, match *model.Match) error {
	data, err := json.Marshal(match)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, matchKey(match.MatchID), data, 0)
	s.indexMatch(ctx, pipe, match)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) SaveMatchWithMove(ctx context.Context, match *model.Match, move *model.GameMove) error {
	matchData, err := json.Marshal(match)
	if err != nil {
		return err
	}
	moveData, err := json.Marshal(move)
	if err != nil {
		return err
	}

	// Snapshot update and move append go through one transaction pipeline
	// so partial application is never observable
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, matchKey(match.MatchID), matchData, 0)
	pipe.RPush(ctx, movesKey(match.MatchID), moveData)
	s.indexMatch(ctx, pipe, match)
	_, err = pipe.Exec(ctx)
	return err
}

// indexMatch keeps the secondary indexes in sync with a match snapshot.
// All operations are idempotent so re-saving a match is safe.
func (s *Storage) indexMatch(ctx context.Context, pipe redis.Pipeliner, match *model.Match) {
	score := float64(match.CreatedAt.UnixMilli())
	member := string(match.MatchID)

	pipe.ZAdd(ctx, allMatchesIndexKey(), redis.Z{Score: score, Member: member})
	pipe.ZAdd(ctx, playerMatchesIndexKey(match.Player1), redis.Z{Score: score, Member: member})
	if match.Player2 != "" {
		pipe.ZAdd(ctx, playerMatchesIndexKey(match.Player2), redis.Z{Score: score, Member: member})
	}

	if match.Status == model.StatusWaiting {
		pipe.ZAdd(ctx, availableMatchesIndexKey(), redis.Z{Score: score, Member: member})
	} else {
		pipe.ZRem(ctx, availableMatchesIndexKey(), member)
	}

	switch match.Status {
	case model.StatusWaiting, model.StatusActive:
		pipe.ZAdd(ctx, openMatchesIndexKey(), redis.Z{Score: score, Member: member})
	case model.StatusCompleted, model.StatusSettled:
		pipe.ZRem(ctx, openMatchesIndexKey(), member)
		pipe.ZAdd(ctx, completedMatchesIndexKey(), redis.Z{Score: score, Member: member})
	default:
		pipe.ZRem(ctx, openMatchesIndexKey(), member)
	}
}

func (s *Storage) ListAvailableMatches(ctx context.Context, since time.Time, limit int) ([]*model.Match, error) {
	ids, err := s.client.ZRevRangeByScore(ctx, availableMatchesIndexKey(), &redis.ZRangeBy{
		Min:   strconv.FormatInt(since.UnixMilli(), 10),
		Max:   "+inf",
		Count: int64(limit),
	}).Result()
	if err != nil {
		return nil, err
	}
	return s.fetchMatches(ctx, ids)
}

func (s *Storage) ListMatchesForPlayer(ctx context.Context, player model.PlayerID, statuses []model.MatchStatus, limit, offset int) ([]*model.Match, int, error) {
	ids, err := s.client.ZRevRange(ctx, playerMatchesIndexKey(player), 0, -1).Result()
	if err != nil {
		return nil, 0, err
	}

	matches, err := s.fetchMatches(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	var filtered []*model.Match
	for _, match := range matches {
		if len(statuses) > 0 && !statusIn(match.Status, statuses) {
			continue
		}
		filtered = append(filtered, match)
	}

	total := len(filtered)
	if offset >= total {
		return nil, total, nil
	}
	filtered = filtered[offset:]
	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, total, nil
}

func (s *Storage) FindOpenMatchForPlayer(ctx context.Context, player model.PlayerID) (*model.Match, error) {
	ids, err := s.client.ZRevRange(ctx, playerMatchesIndexKey(player), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	matches, err := s.fetchMatches(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, match := range matches {
		if match.Status == model.StatusWaiting || match.Status == model.StatusActive {
			return match, nil
		}
	}
	return nil, model.ErrMatchNotFound
}

func (s *Storage) ListCompletedMatches(ctx context.Context, since time.Time) ([]*model.Match, error) {
	ids, err := s.client.ZRangeByScore(ctx, completedMatchesIndexKey(), &redis.ZRangeBy{
		Min: strconv.FormatInt(since.UnixMilli(), 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, err
	}
	return s.fetchMatches(ctx, ids)
}

func (s *Storage) GetMatchStats(ctx context.Context, dayStart time.Time) (*storage.MatchStats, error) {
	pipe := s.client.Pipeline()
	totalCmd := pipe.ZCard(ctx, allMatchesIndexKey())
	openCmd := pipe.ZCard(ctx, openMatchesIndexKey())
	completedCmd := pipe.ZCard(ctx, completedMatchesIndexKey())
	todayCmd := pipe.ZCount(ctx, completedMatchesIndexKey(),
		strconv.FormatInt(dayStart.UnixMilli(), 10), "+inf")
	completedIDsCmd := pipe.ZRange(ctx, completedMatchesIndexKey(), 0, -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	stats := &storage.MatchStats{
		TotalMatches:     int(totalCmd.Val()),
		OpenMatches:      int(openCmd.Val()),
		CompletedMatches: int(completedCmd.Val()),
		CompletedToday:   int(todayCmd.Val()),
	}

	completed, err := s.fetchMatches(ctx, completedIDsCmd.Val())
	if err != nil {
		return nil, err
	}
	for _, match := range completed {
		stats.TotalPrizePool += match.StakeAmount * 2
	}
	return stats, nil
}

// fetchMatches loads match snapshots by ID, skipping any that have
// disappeared since the index was read
func (s *Storage) fetchMatches(ctx context.Context, ids []string) ([]*model.Match, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = matchKey(model.MatchID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	matches := make([]*model.Match, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var match model.Match
		if err := json.Unmarshal([]byte(val.(string)), &match); err != nil {
			continue
		}
		matches = append(matches, &match)
	}
	return matches, nil
}

// Move operations

func (s *Storage) ListMoves(ctx context.Context, id model.MatchID) ([]*model.GameMove, error) {
	values, err := s.client.LRange(ctx, movesKey(id), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	moves := make([]*model.GameMove, 0, len(values))
	for _, val := range values {
		var move model.GameMove
		if err := json.Unmarshal([]byte(val), &move); err != nil {
			continue
		}
		moves = append(moves, &move)
	}
	return moves, nil
}

// Player aggregate operations

func (s *Storage) SavePlayerAggregate(ctx context.Context, agg *model.PlayerAggregate) error {
	data, err := json.Marshal(agg)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, playerKey(agg.Address), data, 0)
	pipe.SAdd(ctx, playersIndexKey(), string(agg.Address))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPlayerAggregate(ctx context.Context, id model.PlayerID) (*model.PlayerAggregate, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var agg model.PlayerAggregate
	if err := json.Unmarshal(data, &agg); err != nil {
		return nil, err
	}
	return &agg, nil
}

func (s *Storage) ListPlayerAggregates(ctx context.Context) ([]*model.PlayerAggregate, error) {
	ids, err := s.client.SMembers(ctx, playersIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = playerKey(model.PlayerID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	aggs := make([]*model.PlayerAggregate, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var agg model.PlayerAggregate
		if err := json.Unmarshal([]byte(val.(string)), &agg); err != nil {
			continue
		}
		aggs = append(aggs, &agg)
	}
	return aggs, nil
}

func statusIn(status model.MatchStatus, statuses []model.MatchStatus) bool {
	for _, s := range statuses {
		if status == s {
			return true
		}
	}
	return false
}
