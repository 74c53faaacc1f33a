package match

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/stakeplay/tictactoe-go/internal/dependencies/mocks"
	"github.com/stakeplay/tictactoe-go/internal/events"
	"github.com/stakeplay/tictactoe-go/internal/model"
	"github.com/stakeplay/tictactoe-go/internal/services/stats"
	"github.com/stakeplay/tictactoe-go/internal/storage/memory"
	"github.com/stakeplay/tictactoe-go/internal/testutil"
)

// recordingPublisher captures published events for assertions
type recordingPublisher struct {
	mu      sync.Mutex
	records []publishedEvent
}

type publishedEvent struct {
	Topic   string
	Event   model.EventType
	Payload any
}

func (p *recordingPublisher) Publish(topic string, event model.EventType, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = append(p.records, publishedEvent{Topic: topic, Event: event, Payload: payload})
	return nil
}

func (p *recordingPublisher) eventsOn(topic string) []model.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []model.EventType
	for _, rec := range p.records {
		if rec.Topic == topic {
			out = append(out, rec.Event)
		}
	}
	return out
}

func (p *recordingPublisher) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = nil
}

type CoordinatorSuite struct {
	suite.Suite
	storage     *memory.Storage
	clock       *mocks.MockClock
	publisher   *recordingPublisher
	statsSvc    *stats.Service
	coordinator *Coordinator
	ctx         context.Context
}

func TestCoordinatorSuite(t *testing.T) {
	suite.Run(t, new(CoordinatorSuite))
}

func (s *CoordinatorSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.publisher = &recordingPublisher{}
	logger := testutil.NopLogger()
	s.statsSvc = stats.New(s.storage, s.clock, logger)
	s.coordinator = NewCoordinator(s.storage, s.statsSvc, events.NewFanout(s.publisher, logger), s.clock, logger)
	s.ctx = context.Background()
}

const (
	alice = model.PlayerID("0xaaa")
	bob   = model.PlayerID("0xbbb")
	carol = model.PlayerID("0xccc")
)

func (s *CoordinatorSuite) createMatch() *model.Match {
	match, err := s.coordinator.Create(s.ctx, alice, 1.5, "m1")
	s.Require().NoError(err)
	return match
}

func (s *CoordinatorSuite) activeMatch() *model.Match {
	s.createMatch()
	match, err := s.coordinator.Join(s.ctx, "m1", bob)
	s.Require().NoError(err)
	return match
}

// playOut applies alternating moves starting with player1
func (s *CoordinatorSuite) playOut(positions ...int) *model.Match {
	match := s.activeMatch()
	players := []model.PlayerID{alice, bob}
	var err error
	for i, pos := range positions {
		match, err = s.coordinator.ApplyMove(s.ctx, "m1", players[i%2], pos)
		s.Require().NoError(err)
	}
	return match
}

// Create tests

func (s *CoordinatorSuite) TestCreate() {
	match := s.createMatch()

	s.Equal(model.MatchID("m1"), match.MatchID)
	s.Equal(alice, match.Player1)
	s.Equal(model.StatusWaiting, match.Status)
	s.Equal(model.GameWaiting, match.GameState)
	s.Equal(alice, match.CurrentPlayer)
	s.InDelta(1.5, match.StakeAmount, 0.0001)

	s.Equal([]model.EventType{model.EventNewMatchAvailable}, s.publisher.eventsOn(events.LobbyTopic))
}

func (s *CoordinatorSuite) TestCreateGeneratesID() {
	match, err := s.coordinator.Create(s.ctx, alice, 1, "")
	s.Require().NoError(err)
	s.NotEmpty(match.MatchID)
}

func (s *CoordinatorSuite) TestCreateInvalidInput() {
	_, err := s.coordinator.Create(s.ctx, "", 1, "m1")
	s.ErrorIs(err, model.ErrInvalidInput)

	_, err = s.coordinator.Create(s.ctx, alice, 0, "m1")
	s.ErrorIs(err, model.ErrInvalidInput)

	_, err = s.coordinator.Create(s.ctx, alice, -1, "m1")
	s.ErrorIs(err, model.ErrInvalidInput)
}

func (s *CoordinatorSuite) TestCreateDuplicate() {
	s.createMatch()

	_, err := s.coordinator.Create(s.ctx, bob, 2, "m1")
	s.ErrorIs(err, model.ErrDuplicateMatch)
}

// Join tests

func (s *CoordinatorSuite) TestJoin() {
	s.createMatch()

	match, err := s.coordinator.Join(s.ctx, "m1", bob)
	s.Require().NoError(err)

	s.Equal(bob, match.Player2)
	s.Equal(model.StatusActive, match.Status)
	s.Equal(model.GameOngoing, match.GameState)
	s.Equal(model.MarkX, match.Player1Mark)
	s.Equal(model.MarkO, match.Player2Mark)
	s.Equal(alice, match.CurrentPlayer)
	s.Equal(s.clock.Now(), match.StartedAt)

	// Creator gets matchJoined, the room gets matchStarted, the lobby loses the listing
	s.Equal([]model.EventType{model.EventMatchJoined}, s.publisher.eventsOn(events.UserTopic(alice)))
	s.Equal([]model.EventType{model.EventMatchStarted}, s.publisher.eventsOn(events.MatchTopic("m1")))
	s.Equal([]model.EventType{model.EventNewMatchAvailable, model.EventMatchUnavailable},
		s.publisher.eventsOn(events.LobbyTopic))

	// Both participants' match counters tick at start
	agg, err := s.storage.GetPlayerAggregate(s.ctx, bob)
	s.Require().NoError(err)
	s.Equal(1, agg.TotalMatches)
}

func (s *CoordinatorSuite) TestJoinNotFound() {
	_, err := s.coordinator.Join(s.ctx, "nonexistent", bob)
	s.ErrorIs(err, model.ErrMatchNotFound)
}

func (s *CoordinatorSuite) TestJoinSelf() {
	s.createMatch()

	_, err := s.coordinator.Join(s.ctx, "m1", alice)
	s.ErrorIs(err, model.ErrSelfJoin)
}

func (s *CoordinatorSuite) TestJoinAlreadyActive() {
	s.activeMatch()

	_, err := s.coordinator.Join(s.ctx, "m1", carol)
	s.ErrorIs(err, model.ErrInvalidState)
}

func (s *CoordinatorSuite) TestJoinConcurrentExactlyOneWins() {
	s.createMatch()

	joiners := []model.PlayerID{bob, carol, "0xddd", "0xeee"}
	errs := make([]error, len(joiners))

	var wg sync.WaitGroup
	for i, p := range joiners {
		wg.Add(1)
		go func(i int, p model.PlayerID) {
			defer wg.Done()
			_, errs[i] = s.coordinator.Join(s.ctx, "m1", p)
		}(i, p)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			s.ErrorIs(err, model.ErrInvalidState)
		}
	}
	s.Equal(1, succeeded)

	match, err := s.coordinator.Get(s.ctx, "m1")
	s.Require().NoError(err)
	s.Equal(model.StatusActive, match.Status)
	s.Contains(joiners, match.Player2)
}

// Move tests

func (s *CoordinatorSuite) TestApplyMove() {
	s.activeMatch()

	match, err := s.coordinator.ApplyMove(s.ctx, "m1", alice, 4)
	s.Require().NoError(err)

	s.Equal(model.MarkX, match.Board[4])
	s.Equal(1, match.MoveCount)
	s.Equal(bob, match.CurrentPlayer)
	s.Equal(model.GameOngoing, match.GameState)

	moves, err := s.storage.ListMoves(s.ctx, "m1")
	s.Require().NoError(err)
	s.Require().Len(moves, 1)
	s.Equal(4, moves[0].Position)
	s.Equal(model.MarkX, moves[0].Mark)
	s.Equal(1, moves[0].MoveNumber)
}

func (s *CoordinatorSuite) TestApplyMoveBeforeJoin() {
	s.createMatch()

	_, err := s.coordinator.ApplyMove(s.ctx, "m1", alice, 0)
	s.ErrorIs(err, model.ErrInvalidState)
}

func (s *CoordinatorSuite) TestApplyMoveNotParticipant() {
	s.activeMatch()

	_, err := s.coordinator.ApplyMove(s.ctx, "m1", carol, 0)
	s.ErrorIs(err, model.ErrUnauthorized)
}

func (s *CoordinatorSuite) TestApplyMoveOutOfTurn() {
	s.activeMatch()

	_, err := s.coordinator.ApplyMove(s.ctx, "m1", bob, 0)
	s.ErrorIs(err, model.ErrNotYourTurn)
}

func (s *CoordinatorSuite) TestApplyMoveInvalidPosition() {
	s.activeMatch()

	_, err := s.coordinator.ApplyMove(s.ctx, "m1", alice, -1)
	s.ErrorIs(err, model.ErrInvalidPosition)

	_, err = s.coordinator.ApplyMove(s.ctx, "m1", alice, 9)
	s.ErrorIs(err, model.ErrInvalidPosition)
}

func (s *CoordinatorSuite) TestApplyMoveOccupied() {
	s.activeMatch()

	_, err := s.coordinator.ApplyMove(s.ctx, "m1", alice, 4)
	s.Require().NoError(err)

	_, err = s.coordinator.ApplyMove(s.ctx, "m1", bob, 4)
	s.ErrorIs(err, model.ErrInvalidPosition)
}

func (s *CoordinatorSuite) TestRejectedMoveLeavesNoTrace() {
	s.activeMatch()

	_, err := s.coordinator.ApplyMove(s.ctx, "m1", bob, 0)
	s.Require().Error(err)

	match, err := s.coordinator.Get(s.ctx, "m1")
	s.Require().NoError(err)
	s.Equal(0, match.MoveCount)

	moves, err := s.storage.ListMoves(s.ctx, "m1")
	s.Require().NoError(err)
	s.Empty(moves)
}

func (s *CoordinatorSuite) TestWin() {
	// X takes the top row: 0,1,2
	match := s.playOut(0, 3, 1, 4, 2)

	s.Equal(model.GameFinished, match.GameState)
	s.Equal(model.StatusCompleted, match.Status)
	s.Equal(alice, match.Winner)
	s.Equal(s.clock.Now(), match.EndedAt)

	// Winner earns double the stake
	agg, err := s.storage.GetPlayerAggregate(s.ctx, alice)
	s.Require().NoError(err)
	s.Equal(1, agg.TotalWins)
	s.InDelta(3.0, agg.TotalEarnings, 0.0001)

	loser, err := s.storage.GetPlayerAggregate(s.ctx, bob)
	s.Require().NoError(err)
	s.Equal(1, loser.TotalLosses)

	matchEvents := s.publisher.eventsOn(events.MatchTopic("m1"))
	s.Equal(model.EventGameEnded, matchEvents[len(matchEvents)-1])

	s.Contains(s.publisher.eventsOn(events.UserTopic(alice)), model.EventGameResult)
	s.Contains(s.publisher.eventsOn(events.UserTopic(bob)), model.EventGameResult)
}

func (s *CoordinatorSuite) TestWinCarriesLine() {
	s.playOut(0, 3, 1, 4, 2)

	var ended *model.GameEndedPayload
	for _, rec := range s.publisher.records {
		if rec.Event == model.EventGameEnded {
			payload := rec.Payload.(model.GameEndedPayload)
			ended = &payload
		}
	}
	s.Require().NotNil(ended)
	s.Equal([]int{0, 1, 2}, ended.WinningLine)
	s.False(ended.Forfeit)
}

func (s *CoordinatorSuite) TestTie() {
	// Full board with no line: X={0,2,3,7,8}, O={1,4,5,6}
	match := s.playOut(0, 1, 2, 4, 3, 5, 7, 6, 8)

	s.Equal(model.GameTie, match.GameState)
	s.Equal(model.StatusCompleted, match.Status)
	s.Empty(match.Winner)
	s.Equal(9, match.MoveCount)

	for _, id := range []model.PlayerID{alice, bob} {
		agg, err := s.storage.GetPlayerAggregate(s.ctx, id)
		s.Require().NoError(err)
		s.Equal(1, agg.TotalTies)
		s.Equal(0, agg.CurrentStreak)
	}
}

func (s *CoordinatorSuite) TestMoveAfterTerminal() {
	s.playOut(0, 3, 1, 4, 2)

	_, err := s.coordinator.ApplyMove(s.ctx, "m1", bob, 5)
	s.ErrorIs(err, model.ErrInvalidState)
}

func (s *CoordinatorSuite) TestTerminalRetryDoesNotDoubleCount() {
	s.playOut(0, 3, 1, 4, 2)

	// Rejected transitions on a finished match must leave the
	// aggregates exactly as the single settlement wrote them
	_, err := s.coordinator.ApplyMove(s.ctx, "m1", bob, 5)
	s.ErrorIs(err, model.ErrInvalidState)
	_, err = s.coordinator.Forfeit(s.ctx, "m1", bob)
	s.ErrorIs(err, model.ErrInvalidState)

	winner, err := s.storage.GetPlayerAggregate(s.ctx, alice)
	s.Require().NoError(err)
	s.Equal(1, winner.TotalWins)
	s.Equal(3.0, winner.TotalEarnings)

	loser, err := s.storage.GetPlayerAggregate(s.ctx, bob)
	s.Require().NoError(err)
	s.Equal(1, loser.TotalLosses)
	s.Equal(0, loser.TotalWins)
	s.Equal(0.0, loser.TotalEarnings)
}

func (s *CoordinatorSuite) TestConcurrentMovesSerialized() {
	s.activeMatch()

	// Both players fire at once; only the player whose turn it is can land
	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = s.coordinator.ApplyMove(s.ctx, "m1", alice, 0)
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = s.coordinator.ApplyMove(s.ctx, "m1", bob, 1)
	}()
	wg.Wait()

	match, err := s.coordinator.Get(s.ctx, "m1")
	s.Require().NoError(err)

	// Alice's move always succeeds. Bob's either raced ahead (rejected
	// for being out of turn) or followed it and succeeded.
	s.NoError(errs[0])
	s.Equal(model.MarkX, match.Board[0])
	if errs[1] == nil {
		s.Equal(2, match.MoveCount)
		s.Equal(model.MarkO, match.Board[1])
	} else {
		s.ErrorIs(errs[1], model.ErrNotYourTurn)
		s.Equal(1, match.MoveCount)
	}
}

// Forfeit tests

func (s *CoordinatorSuite) TestForfeit() {
	s.activeMatch()

	match, err := s.coordinator.Forfeit(s.ctx, "m1", alice)
	s.Require().NoError(err)

	s.Equal(bob, match.Winner)
	s.Equal(model.GameFinished, match.GameState)
	s.Equal(model.StatusCompleted, match.Status)

	// Forfeit settles like a normal win
	agg, err := s.storage.GetPlayerAggregate(s.ctx, bob)
	s.Require().NoError(err)
	s.Equal(1, agg.TotalWins)
	s.InDelta(3.0, agg.TotalEarnings, 0.0001)

	matchEvents := s.publisher.eventsOn(events.MatchTopic("m1"))
	s.Contains(matchEvents, model.EventGameForfeited)
	s.Contains(matchEvents, model.EventGameEnded)
}

func (s *CoordinatorSuite) TestForfeitNotOngoing() {
	s.createMatch()

	_, err := s.coordinator.Forfeit(s.ctx, "m1", alice)
	s.ErrorIs(err, model.ErrInvalidState)
}

func (s *CoordinatorSuite) TestForfeitNotParticipant() {
	s.activeMatch()

	_, err := s.coordinator.Forfeit(s.ctx, "m1", carol)
	s.ErrorIs(err, model.ErrUnauthorized)
}

// Cancel tests

func (s *CoordinatorSuite) TestCancelWaiting() {
	s.createMatch()

	match, err := s.coordinator.Cancel(s.ctx, "m1", alice)
	s.Require().NoError(err)

	s.Equal(model.StatusCancelled, match.Status)
	s.Equal(model.GameCancelled, match.GameState)

	// No settlement on cancellation
	agg, err := s.storage.GetPlayerAggregate(s.ctx, alice)
	s.Require().NoError(err)
	s.Equal(0, agg.TotalWins)
	s.Equal(0, agg.TotalLosses)
	s.InDelta(0.0, agg.TotalEarnings, 0.0001)

	// Waiting cancel also retracts the lobby listing
	s.Equal([]model.EventType{model.EventNewMatchAvailable, model.EventMatchUnavailable},
		s.publisher.eventsOn(events.LobbyTopic))
}

func (s *CoordinatorSuite) TestCancelNotParticipant() {
	s.createMatch()

	_, err := s.coordinator.Cancel(s.ctx, "m1", carol)
	s.ErrorIs(err, model.ErrUnauthorized)
}

func (s *CoordinatorSuite) TestCancelActiveBeforeTimeout() {
	s.activeMatch()
	s.clock.Advance(ActiveCancelTimeout - time.Second)

	_, err := s.coordinator.Cancel(s.ctx, "m1", alice)
	s.ErrorIs(err, model.ErrInvalidState)
}

func (s *CoordinatorSuite) TestCancelActiveAfterTimeout() {
	s.activeMatch()
	s.publisher.reset()
	s.clock.Advance(ActiveCancelTimeout + time.Second)

	match, err := s.coordinator.Cancel(s.ctx, "m1", bob)
	s.Require().NoError(err)
	s.Equal(model.StatusCancelled, match.Status)

	// An active match was never listed, so no lobby retraction
	s.Empty(s.publisher.eventsOn(events.LobbyTopic))
	s.Contains(s.publisher.eventsOn(events.MatchTopic("m1")), model.EventMatchCancelled)
	s.Contains(s.publisher.eventsOn(events.UserTopic(alice)), model.EventMatchCancelled)
	s.Contains(s.publisher.eventsOn(events.UserTopic(bob)), model.EventMatchCancelled)
}

func (s *CoordinatorSuite) TestCancelCompleted() {
	s.playOut(0, 3, 1, 4, 2)

	_, err := s.coordinator.Cancel(s.ctx, "m1", alice)
	s.ErrorIs(err, model.ErrInvalidState)
}

// Settlement tests

func (s *CoordinatorSuite) TestRecordSettlement() {
	s.playOut(0, 3, 1, 4, 2)

	match, err := s.coordinator.RecordSettlement(s.ctx, "m1", "0xtxhash", "")
	s.Require().NoError(err)

	s.Equal(model.StatusSettled, match.Status)
	s.Equal("0xtxhash", match.SettlementRef)
	s.Equal(s.clock.Now(), match.SettledAt)
	s.Equal(alice, match.Winner)

	s.Contains(s.publisher.eventsOn(events.MatchTopic("m1")), model.EventBlockchainSettled)
}

func (s *CoordinatorSuite) TestRecordSettlementWinnerOverride() {
	s.playOut(0, 3, 1, 4, 2)

	match, err := s.coordinator.RecordSettlement(s.ctx, "m1", "0xtxhash", bob)
	s.Require().NoError(err)
	s.Equal(bob, match.Winner)
}

func (s *CoordinatorSuite) TestRecordSettlementOverrideMustBeParticipant() {
	s.playOut(0, 3, 1, 4, 2)

	match, err := s.coordinator.RecordSettlement(s.ctx, "m1", "0xtxhash", "tie")
	s.Require().NoError(err)
	s.Equal(alice, match.Winner)

	stored, err := s.coordinator.Get(s.ctx, "m1")
	s.Require().NoError(err)
	s.Equal(alice, stored.Winner)
}

func (s *CoordinatorSuite) TestRecordSettlementOverrideIgnoresOutsider() {
	s.playOut(0, 3, 1, 4, 2)

	match, err := s.coordinator.RecordSettlement(s.ctx, "m1", "0xtxhash", carol)
	s.Require().NoError(err)
	s.Equal(alice, match.Winner)
}

func (s *CoordinatorSuite) TestRecordSettlementEmptyRef() {
	s.playOut(0, 3, 1, 4, 2)

	_, err := s.coordinator.RecordSettlement(s.ctx, "m1", "", "")
	s.ErrorIs(err, model.ErrInvalidInput)
}

func (s *CoordinatorSuite) TestRecordSettlementExactlyOnce() {
	s.playOut(0, 3, 1, 4, 2)

	_, err := s.coordinator.RecordSettlement(s.ctx, "m1", "0xtxhash", "")
	s.Require().NoError(err)

	_, err = s.coordinator.RecordSettlement(s.ctx, "m1", "0xother", "")
	s.ErrorIs(err, model.ErrAlreadySettled)

	match, err := s.coordinator.Get(s.ctx, "m1")
	s.Require().NoError(err)
	s.Equal("0xtxhash", match.SettlementRef)
}

// Read path tests

func (s *CoordinatorSuite) TestRecentMoves() {
	s.playOut(0, 3, 1, 4, 2)

	moves, err := s.coordinator.RecentMoves(s.ctx, "m1", 3)
	s.Require().NoError(err)
	s.Require().Len(moves, 3)
	// Chronological tail of the log
	s.Equal(3, moves[0].MoveNumber)
	s.Equal(5, moves[2].MoveNumber)
	s.Equal(2, moves[2].Position)
}

func (s *CoordinatorSuite) TestHistory() {
	s.playOut(0, 3, 1, 4, 2)

	match, moves, err := s.coordinator.History(s.ctx, "m1")
	s.Require().NoError(err)
	s.Equal(model.StatusCompleted, match.Status)
	s.Len(moves, 5)
}

func (s *CoordinatorSuite) TestListAvailable() {
	s.createMatch()
	_, err := s.coordinator.Create(s.ctx, carol, 2, "m2")
	s.Require().NoError(err)

	matches, err := s.coordinator.ListAvailable(s.ctx, 24*time.Hour, 20)
	s.Require().NoError(err)
	s.Len(matches, 2)

	// Joined matches drop out of the listing
	_, err = s.coordinator.Join(s.ctx, "m1", bob)
	s.Require().NoError(err)

	matches, err = s.coordinator.ListAvailable(s.ctx, 24*time.Hour, 20)
	s.Require().NoError(err)
	s.Require().Len(matches, 1)
	s.Equal(model.MatchID("m2"), matches[0].MatchID)
}

func (s *CoordinatorSuite) TestCurrentForPlayer() {
	s.activeMatch()

	match, err := s.coordinator.CurrentForPlayer(s.ctx, alice)
	s.Require().NoError(err)
	s.Equal(model.MatchID("m1"), match.MatchID)

	_, err = s.coordinator.CurrentForPlayer(s.ctx, carol)
	s.ErrorIs(err, model.ErrMatchNotFound)
}
