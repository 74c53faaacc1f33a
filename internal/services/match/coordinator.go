package match

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/stakeplay/tictactoe-go/internal/dependencies/clock"
	"github.com/stakeplay/tictactoe-go/internal/events"
	"github.com/stakeplay/tictactoe-go/internal/model"
	"github.com/stakeplay/tictactoe-go/internal/services/board"
	"github.com/stakeplay/tictactoe-go/internal/services/stats"
	"github.com/stakeplay/tictactoe-go/internal/storage"
)

// ActiveCancelTimeout is how long an active match must have been running
// before a participant may cancel it. Evaluated lazily at cancel time;
// there is no background sweep.
const ActiveCancelTimeout = 10 * time.Minute

// Coordinator owns the match lifecycle state machine. It is the sole
// writer of Match and GameMove records; every operation runs under the
// match's session lock so state transitions for one match are strictly
// serialized while different matches proceed in parallel.
type Coordinator struct {
	storage storage.Storage
	stats   *stats.Service
	fanout  *events.Fanout
	locks   *lockManager
	clock   clock.Clock
	logger  *slog.Logger
}

// NewCoordinator creates a new match lifecycle coordinator
func NewCoordinator(
	storage storage.Storage,
	stats *stats.Service,
	fanout *events.Fanout,
	clock clock.Clock,
	logger *slog.Logger,
) *Coordinator {
	return &Coordinator{
		storage: storage,
		stats:   stats,
		fanout:  fanout,
		locks:   newLockManager(),
		clock:   clock,
		logger:  logger.With(slog.String("component", "coordinator")),
	}
}

// Create opens a new match in the waiting state. The caller may supply a
// match ID (e.g. one derived from an on-chain escrow); when absent one
// is generated.
func (c *Coordinator) Create(ctx context.Context, player1 model.PlayerID, stake float64, matchID model.MatchID) (*model.Match, error) {
	if player1 == "" || stake <= 0 {
		return nil, model.ErrInvalidInput
	}
	if matchID == "" {
		matchID = model.MatchID(uuid.NewString())
	}

	release := c.locks.acquire(matchID)
	defer release()

	now := c.clock.Now()
	match := &model.Match{
		MatchID:       matchID,
		Player1:       player1,
		StakeAmount:   stake,
		Status:        model.StatusWaiting,
		GameState:     model.GameWaiting,
		Board:         model.NewBoard(),
		CurrentPlayer: player1,
		CreatedAt:     now,
	}

	if err := c.storage.CreateMatch(ctx, match); err != nil {
		return nil, err
	}

	if _, err := c.stats.EnsurePlayer(ctx, player1); err != nil {
		c.logger.Warn("player upsert failed after match create",
			slog.String("match_id", string(matchID)),
			slog.String("error", err.Error()),
		)
	}

	c.logger.Info("match created",
		slog.String("match_id", string(matchID)),
		slog.String("player1", string(player1)),
		slog.Float64("stake", stake),
	)

	c.fanout.MatchCreated(match)
	return match, nil
}

// Join pairs a second participant with a waiting match and starts play.
// The waiting-status check and the transition are atomic under the match
// lock: of two concurrent joiners, exactly one succeeds.
func (c *Coordinator) Join(ctx context.Context, matchID model.MatchID, player2 model.PlayerID) (*model.Match, error) {
	if player2 == "" {
		return nil, model.ErrInvalidInput
	}

	release := c.locks.acquire(matchID)
	defer release()

	match, err := c.storage.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status != model.StatusWaiting {
		return nil, model.ErrInvalidState
	}
	if match.Player1 == player2 {
		return nil, model.ErrSelfJoin
	}

	match.Player2 = player2
	match.Player1Mark = model.MarkX
	match.Player2Mark = model.MarkO
	match.Status = model.StatusActive
	match.GameState = model.GameOngoing
	match.StartedAt = c.clock.Now()

	if err := c.storage.SaveMatch(ctx, match); err != nil {
		return nil, err
	}

	if err := c.stats.RecordMatchStart(ctx, match.Player1, match.Player2); err != nil {
		c.logger.Warn("match count update failed after join",
			slog.String("match_id", string(matchID)),
			slog.String("error", err.Error()),
		)
	}

	c.logger.Info("match joined",
		slog.String("match_id", string(matchID)),
		slog.String("player2", string(player2)),
	)

	c.fanout.MatchJoined(match)
	return match, nil
}

// ApplyMove validates and applies one move. All validation happens
// before any mutation; a rejected move leaves no trace.
func (c *Coordinator) ApplyMove(ctx context.Context, matchID model.MatchID, player model.PlayerID, position int) (*model.Match, error) {
	release := c.locks.acquire(matchID)
	defer release()

	match, err := c.storage.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.GameState != model.GameOngoing {
		return nil, model.ErrInvalidState
	}
	if !match.HasPlayer(player) {
		return nil, model.ErrUnauthorized
	}
	if player != match.CurrentPlayer {
		return nil, model.ErrNotYourTurn
	}
	if !match.Board.IsValidPosition(position) || !match.Board.IsEmpty(position) {
		return nil, model.ErrInvalidPosition
	}

	now := c.clock.Now()
	mark := match.MarkFor(player)
	match.Board[position] = mark
	match.MoveCount++
	match.LastMoveAt = now

	move := &model.GameMove{
		MatchID:    matchID,
		Player:     player,
		Position:   position,
		Mark:       mark,
		MoveNumber: match.MoveCount,
		Timestamp:  now,
	}

	result := board.Evaluate(match.Board)
	switch result.Outcome {
	case board.OutcomeContinue:
		match.CurrentPlayer = match.Opponent(player)

	case board.OutcomeTie:
		match.GameState = model.GameTie
		match.Status = model.StatusCompleted
		match.EndedAt = now

	case board.OutcomeWin:
		match.GameState = model.GameFinished
		match.Winner = match.PlayerForMark(result.Winner)
		match.Status = model.StatusCompleted
		match.EndedAt = now
	}

	if err := c.storage.SaveMatchWithMove(ctx, match, move); err != nil {
		return nil, err
	}

	if match.GameState.IsTerminal() {
		// Single transition into a terminal state: settle exactly once
		if err := c.stats.ApplyOutcome(ctx, match); err != nil {
			c.logger.Error("stats settlement failed",
				slog.String("match_id", string(matchID)),
				slog.String("error", err.Error()),
			)
		}
	}

	c.logger.Info("move accepted",
		slog.String("match_id", string(matchID)),
		slog.String("player", string(player)),
		slog.Int("position", position),
		slog.Int("move_number", move.MoveNumber),
		slog.String("game_state", string(match.GameState)),
	)

	c.fanout.MoveAccepted(match, move)
	if match.GameState.IsTerminal() {
		c.fanout.MatchEnded(match, result.Line, "")
	}
	return match, nil
}

// Forfeit concedes an ongoing match; the other participant wins
// immediately with the same settlement as a move-triggered win
func (c *Coordinator) Forfeit(ctx context.Context, matchID model.MatchID, player model.PlayerID) (*model.Match, error) {
	release := c.locks.acquire(matchID)
	defer release()

	match, err := c.storage.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.GameState != model.GameOngoing {
		return nil, model.ErrInvalidState
	}
	if !match.HasPlayer(player) {
		return nil, model.ErrUnauthorized
	}

	// The winner identifier is authoritative, not the mark
	match.Winner = match.Opponent(player)
	match.GameState = model.GameFinished
	match.Status = model.StatusCompleted
	match.EndedAt = c.clock.Now()

	if err := c.storage.SaveMatch(ctx, match); err != nil {
		return nil, err
	}

	if err := c.stats.ApplyOutcome(ctx, match); err != nil {
		c.logger.Error("stats settlement failed",
			slog.String("match_id", string(matchID)),
			slog.String("error", err.Error()),
		)
	}

	c.logger.Info("match forfeited",
		slog.String("match_id", string(matchID)),
		slog.String("forfeited_by", string(player)),
		slog.String("winner", string(match.Winner)),
	)

	c.fanout.MatchEnded(match, nil, player)
	return match, nil
}

// Cancel voids a match. Allowed for waiting matches, or active matches
// whose start exceeds the timeout threshold. Cancellation is
// stake-neutral: no settlement runs.
func (c *Coordinator) Cancel(ctx context.Context, matchID model.MatchID, player model.PlayerID) (*model.Match, error) {
	release := c.locks.acquire(matchID)
	defer release()

	match, err := c.storage.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.HasPlayer(player) {
		return nil, model.ErrUnauthorized
	}

	wasWaiting := match.Status == model.StatusWaiting
	timedOut := match.Status == model.StatusActive &&
		c.clock.Now().Sub(match.StartedAt) > ActiveCancelTimeout
	if !wasWaiting && !timedOut {
		return nil, model.ErrInvalidState
	}

	match.Status = model.StatusCancelled
	match.GameState = model.GameCancelled
	match.EndedAt = c.clock.Now()

	if err := c.storage.SaveMatch(ctx, match); err != nil {
		return nil, err
	}

	c.logger.Info("match cancelled",
		slog.String("match_id", string(matchID)),
		slog.String("cancelled_by", string(player)),
	)

	c.fanout.MatchCancelled(match, wasWaiting)
	return match, nil
}

// RecordSettlement attaches the external settlement reference once.
// It never reopens gameplay state; the reference arrives precomputed
// from the caller.
func (c *Coordinator) RecordSettlement(ctx context.Context, matchID model.MatchID, settlementRef string, winnerOverride model.PlayerID) (*model.Match, error) {
	if settlementRef == "" {
		return nil, model.ErrInvalidInput
	}

	release := c.locks.acquire(matchID)
	defer release()

	match, err := c.storage.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.IsSettled() {
		return nil, model.ErrAlreadySettled
	}

	match.SettlementRef = settlementRef
	match.Status = model.StatusSettled
	match.SettledAt = c.clock.Now()
	// The override must name a participant; "tie" or any other
	// non-participant value is ignored.
	if winnerOverride != "" && match.HasPlayer(winnerOverride) {
		match.Winner = winnerOverride
	}

	if err := c.storage.SaveMatch(ctx, match); err != nil {
		return nil, err
	}

	c.logger.Info("settlement recorded",
		slog.String("match_id", string(matchID)),
		slog.String("settlement_ref", settlementRef),
	)

	c.fanout.SettlementRecorded(match)
	return match, nil
}

// Get retrieves a match snapshot
func (c *Coordinator) Get(ctx context.Context, matchID model.MatchID) (*model.Match, error) {
	return c.storage.GetMatch(ctx, matchID)
}

// History returns the match's full ordered move log
func (c *Coordinator) History(ctx context.Context, matchID model.MatchID) (*model.Match, []*model.GameMove, error) {
	match, err := c.storage.GetMatch(ctx, matchID)
	if err != nil {
		return nil, nil, err
	}
	moves, err := c.storage.ListMoves(ctx, matchID)
	if err != nil {
		return nil, nil, err
	}
	return match, moves, nil
}

// RecentMoves returns the last n moves in chronological order
func (c *Coordinator) RecentMoves(ctx context.Context, matchID model.MatchID, n int) ([]*model.GameMove, error) {
	moves, err := c.storage.ListMoves(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if n > 0 && len(moves) > n {
		moves = moves[len(moves)-n:]
	}
	return moves, nil
}

// ListAvailable returns joinable matches created within the window
func (c *Coordinator) ListAvailable(ctx context.Context, window time.Duration, limit int) ([]*model.Match, error) {
	since := c.clock.Now().Add(-window)
	return c.storage.ListAvailableMatches(ctx, since, limit)
}

// ListForPlayer returns a player's matches, optionally filtered by status
func (c *Coordinator) ListForPlayer(ctx context.Context, player model.PlayerID, statuses []model.MatchStatus, limit, offset int) ([]*model.Match, int, error) {
	return c.storage.ListMatchesForPlayer(ctx, player, statuses, limit, offset)
}

// CurrentForPlayer returns the player's newest open match
func (c *Coordinator) CurrentForPlayer(ctx context.Context, player model.PlayerID) (*model.Match, error) {
	return c.storage.FindOpenMatchForPlayer(ctx, player)
}
