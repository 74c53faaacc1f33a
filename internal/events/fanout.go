package events

import (
	"log/slog"

	"github.com/stakeplay/tictactoe-go/internal/model"
)

// Fanout translates coordinator outcomes into addressed events. It is
// invoked only after the corresponding state transition has been
// persisted; publish failures are logged and swallowed, never rolled
// back. Persisted state is authoritative.
type Fanout struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewFanout creates a Fanout over the given transport
func NewFanout(publisher Publisher, logger *slog.Logger) *Fanout {
	return &Fanout{
		publisher: publisher,
		logger:    logger.With(slog.String("component", "fanout")),
	}
}

func (f *Fanout) publish(topic string, event model.EventType, payload any) {
	if err := f.publisher.Publish(topic, event, payload); err != nil {
		f.logger.Warn("event publish failed",
			slog.String("topic", topic),
			slog.String("event", string(event)),
			slog.String("error", err.Error()),
		)
	}
}

// MatchCreated announces a new joinable match on the lobby topic
func (f *Fanout) MatchCreated(match *model.Match) {
	f.publish(LobbyTopic, model.EventNewMatchAvailable, model.NewMatchAvailablePayload{
		MatchID:     match.MatchID,
		Player1:     match.Player1,
		StakeAmount: match.StakeAmount,
	})
}

// MatchJoined notifies the creator, the match room, and the lobby that
// play has begun
func (f *Fanout) MatchJoined(match *model.Match) {
	f.publish(UserTopic(match.Player1), model.EventMatchJoined, model.MatchJoinedPayload{
		MatchID:       match.MatchID,
		Player1:       match.Player1,
		Player2:       match.Player2,
		StakeAmount:   match.StakeAmount,
		Status:        match.Status,
		GameState:     match.GameState,
		Board:         match.Board.Strings(),
		CurrentPlayer: match.CurrentPlayer,
	})

	f.publish(MatchTopic(match.MatchID), model.EventMatchStarted, model.MatchStartedPayload{
		MatchID:       match.MatchID,
		Player1:       match.Player1,
		Player2:       match.Player2,
		CurrentPlayer: match.CurrentPlayer,
		GameState:     match.GameState,
	})

	f.publish(LobbyTopic, model.EventMatchUnavailable, model.MatchUnavailablePayload{
		MatchID: match.MatchID,
	})
}

// MoveAccepted broadcasts the post-move state to the match topic
func (f *Fanout) MoveAccepted(match *model.Match, move *model.GameMove) {
	f.publish(MatchTopic(match.MatchID), model.EventMoveUpdate, model.MoveUpdatePayload{
		MatchID:       match.MatchID,
		Board:         match.Board.Strings(),
		CurrentPlayer: match.CurrentPlayer,
		GameState:     match.GameState,
		Winner:        match.Winner,
		MoveCount:     match.MoveCount,
		LastMove: model.LastMove{
			Player:   move.Player,
			Position: move.Position,
			Mark:     move.Mark,
		},
	})
}

// MatchEnded broadcasts the terminal outcome and each participant's
// individual result
func (f *Fanout) MatchEnded(match *model.Match, winningLine []int, forfeitedBy model.PlayerID) {
	forfeit := forfeitedBy != ""

	if forfeit {
		f.publish(MatchTopic(match.MatchID), model.EventGameForfeited, model.GameForfeitedPayload{
			MatchID:     match.MatchID,
			ForfeitedBy: forfeitedBy,
			Winner:      match.Winner,
		})
	}

	f.publish(MatchTopic(match.MatchID), model.EventGameEnded, model.GameEndedPayload{
		MatchID:     match.MatchID,
		Winner:      match.Winner,
		GameState:   match.GameState,
		FinalBoard:  match.Board.Strings(),
		WinningLine: winningLine,
		Forfeit:     forfeit,
	})

	if match.GameState == model.GameTie {
		tie := model.GameResultPayload{MatchID: match.MatchID, Result: model.ResultTie}
		f.publish(UserTopic(match.Player1), model.EventGameResult, tie)
		f.publish(UserTopic(match.Player2), model.EventGameResult, tie)
		return
	}

	loser := match.Opponent(match.Winner)
	f.publish(UserTopic(match.Winner), model.EventGameResult, model.GameResultPayload{
		MatchID:  match.MatchID,
		Result:   model.ResultWin,
		Earnings: match.StakeAmount * 2,
	})
	f.publish(UserTopic(loser), model.EventGameResult, model.GameResultPayload{
		MatchID: match.MatchID,
		Result:  model.ResultLoss,
	})
}

// MatchCancelled notifies the match room and both participants, plus
// the lobby when the match was still joinable
func (f *Fanout) MatchCancelled(match *model.Match, wasWaiting bool) {
	payload := model.MatchCancelledPayload{MatchID: match.MatchID}

	f.publish(MatchTopic(match.MatchID), model.EventMatchCancelled, payload)
	f.publish(UserTopic(match.Player1), model.EventMatchCancelled, payload)
	if match.Player2 != "" {
		f.publish(UserTopic(match.Player2), model.EventMatchCancelled, payload)
	}

	if wasWaiting {
		f.publish(LobbyTopic, model.EventMatchUnavailable, model.MatchUnavailablePayload{
			MatchID: match.MatchID,
		})
	}
}

// SettlementRecorded announces the external settlement reference
func (f *Fanout) SettlementRecorded(match *model.Match) {
	f.publish(MatchTopic(match.MatchID), model.EventBlockchainSettled, model.BlockchainSettledPayload{
		MatchID:       match.MatchID,
		SettlementRef: match.SettlementRef,
		Winner:        match.Winner,
	})
}
