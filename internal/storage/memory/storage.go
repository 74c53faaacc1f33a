package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/stakeplay/tictactoe-go/internal/model"
	"github.com/stakeplay/tictactoe-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	matches map[model.MatchID]*model.Match
	moves   map[model.MatchID][]*model.GameMove
	players map[model.PlayerID]*model.PlayerAggregate
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		matches: make(map[model.MatchID]*model.Match),
		moves:   make(map[model.MatchID][]*model.GameMove),
		players: make(map[model.PlayerID]*model.PlayerAggregate),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Match operations

func (s *Storage) CreateMatch(ctx context.Context, match *model.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.matches[match.MatchID]; ok {
		return model.ErrDuplicateMatch
	}
	s.matches[match.MatchID] = cloneMatch(match)
	return nil
}

func (s *Storage) GetMatch(ctx context.Context, id model.MatchID) (*model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	match, ok := s.matches[id]
	if !ok {
		return nil, model.ErrMatchNotFound
	}
	return cloneMatch(match), nil
}

func (s *Storage) SaveMatch(ctx context.Context, match *model.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches[match.MatchID] = cloneMatch(match)
	return nil
}

func (s *Storage) SaveMatchWithMove(ctx context.Context, match *model.Match, move *model.GameMove) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches[match.MatchID] = cloneMatch(match)
	moveCopy := *move
	s.moves[match.MatchID] = append(s.moves[match.MatchID], &moveCopy)
	return nil
}

func (s *Storage) ListAvailableMatches(ctx context.Context, since time.Time, limit int) ([]*model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*model.Match
	for _, match := range s.matches {
		if match.Status == model.StatusWaiting && !match.CreatedAt.Before(since) {
			out = append(out, cloneMatch(match))
		}
	}
	sortNewestFirst(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Storage) ListMatchesForPlayer(ctx context.Context, player model.PlayerID, statuses []model.MatchStatus, limit, offset int) ([]*model.Match, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var filtered []*model.Match
	for _, match := range s.matches {
		if !match.HasPlayer(player) {
			continue
		}
		if len(statuses) > 0 && !statusIn(match.Status, statuses) {
			continue
		}
		filtered = append(filtered, cloneMatch(match))
	}
	sortNewestFirst(filtered)

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
	s.mu.RLock()
	defer s.mu.RUnlock()

	var newest *model.Match
	for _, match := range s.matches {
		if !match.HasPlayer(player) {
			continue
		}
		if match.Status != model.StatusWaiting && match.Status != model.StatusActive {
			continue
		}
		if newest == nil || match.CreatedAt.After(newest.CreatedAt) {
			newest = match
		}
	}
	if newest == nil {
		return nil, model.ErrMatchNotFound
	}
	return cloneMatch(newest), nil
}

func (s *Storage) ListCompletedMatches(ctx context.Context, since time.Time) ([]*model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*model.Match
	for _, match := range s.matches {
		if match.Status != model.StatusCompleted && match.Status != model.StatusSettled {
			continue
		}
		if match.CreatedAt.Before(since) {
			continue
		}
		out = append(out, cloneMatch(match))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Storage) GetMatchStats(ctx context.Context, dayStart time.Time) (*storage.MatchStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &storage.MatchStats{}
	for _, match := range s.matches {
		stats.TotalMatches++
		switch match.Status {
		case model.StatusWaiting, model.StatusActive:
			stats.OpenMatches++
		case model.StatusCompleted, model.StatusSettled:
			stats.CompletedMatches++
			stats.TotalPrizePool += match.StakeAmount * 2
			if !match.CreatedAt.Before(dayStart) {
				stats.CompletedToday++
			}
		}
	}
	return stats, nil
}

// Move operations

func (s *Storage) ListMoves(ctx context.Context, id model.MatchID) ([]*model.GameMove, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	moves := s.moves[id]
	out := make([]*model.GameMove, len(moves))
	for i, m := range moves {
		moveCopy := *m
		out[i] = &moveCopy
	}
	return out, nil
}

// Player aggregate operations

func (s *Storage) SavePlayerAggregate(ctx context.Context, agg *model.PlayerAggregate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	aggCopy := *agg
	s.players[agg.Address] = &aggCopy
	return nil
}

func (s *Storage) GetPlayerAggregate(ctx context.Context, id model.PlayerID) (*model.PlayerAggregate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	agg, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	aggCopy := *agg
	return &aggCopy, nil
}

func (s *Storage) ListPlayerAggregates(ctx context.Context) ([]*model.PlayerAggregate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.PlayerAggregate, 0, len(s.players))
	for _, agg := range s.players {
		aggCopy := *agg
		out = append(out, &aggCopy)
	}
	return out, nil
}

// Helpers

func cloneMatch(m *model.Match) *model.Match {
	matchCopy := *m
	return &matchCopy
}

func sortNewestFirst(matches []*model.Match) {
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
}

func statusIn(status model.MatchStatus, statuses []model.MatchStatus) bool {
	for _, s := range statuses {
		if status == s {
			return true
		}
	}
	return false
}
