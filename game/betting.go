package game

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"cardroom.io/server/logging"
)

var bettingLogger = log.With().Str("logger_name", "game::betting").Logger()

// ApplyAction validates one requested action against the round and, if
// legal, returns a new round with the action applied along with the
// chip deltas the external ledger must apply. A rejected action
// returns an error and the input round is left untouched.
func ApplyAction(r *Round, seatNo uint32, action Action, amount int64) (*Round, []ChipDelta, error) {
	switch r.Stage {
	case StagePreflop, StageFlop, StageTurn, StageRiver:
	default:
		return nil, nil, IllegalActionError{SeatNo: seatNo, Action: action, Reason: ReasonNoBettingStage}
	}
	if seatNo != r.CurrentTurnSeat {
		return nil, nil, TurnViolationError{SeatNo: seatNo, ExpectedSeat: r.CurrentTurnSeat}
	}

	pending, err := r.validateAction(seatNo, action, amount)
	if err != nil {
		return nil, nil, err
	}

	next := r.Clone()
	deltas := make([]ChipDelta, 0, 1)
	state := next.Players[seatNo]

	// 1. apply the chip delta and flip the player flags
	state.Stack -= pending.delta
	state.StreetBet = pending.streetBet
	state.Committed += pending.delta
	state.Acted = true
	state.LastAction = pending.action
	if pending.action == ActionFold {
		state.Folded = true
	}
	if pending.allIn {
		state.AllIn = true
		state.LastAction = ActionAllIn
	}
	if pending.delta > 0 {
		deltas = append(deltas, ChipDelta{
			PlayerID: state.PlayerID,
			SeatNo:   seatNo,
			Amount:   -pending.delta,
			Reason:   string(state.LastAction),
		})
	}

	// 2. a bet, raise, or all-in above the current bet re-opens the
	// action for everyone else still in the hand
	if pending.raisesBet {
		increment := pending.streetBet - next.CurrentBet
		if increment >= next.LastRaiseAmount {
			next.LastRaiseAmount = increment
		}
		// a short all-in raise keeps the previous raise increment but
		// still re-opens action; a deliberate house-rule simplification
		// of the formal reopening rule
		next.CurrentBet = pending.streetBet
		next.LastAggressorSeat = seatNo
		for otherSeat, other := range next.Players {
			if otherSeat == seatNo || other.Folded || other.AllIn {
				continue
			}
			other.Acted = false
		}
	}

	if actionLog := next.currentActionLog(); actionLog != nil {
		actionLog.Actions = append(actionLog.Actions, HandAction{
			SeatNo: seatNo,
			Action: state.LastAction,
			Amount: pending.streetBet,
		})
	}

	// 3. pots are rebuilt from scratch after every commitment change
	next.Pots = calculatePots(next.Players)

	bettingLogger.Debug().
		Uint32(logging.HandNumKey, next.HandNum).
		Uint32(logging.SeatNumKey, seatNo).
		Str(logging.ActionKey, string(state.LastAction)).
		Int64(logging.AmountKey, pending.streetBet).
		Str(logging.StageKey, string(next.Stage)).
		Msg("Action applied")

	// 4. a fold-out ends the hand immediately, regardless of stage
	if next.nonFoldedCount() <= 1 {
		payoutDeltas := next.settleFoldOut()
		return next, append(deltas, payoutDeltas...), nil
	}

	// 5./6. round complete -> advance stage; otherwise move the turn
	if next.bettingRoundComplete() {
		next.finishBettingRound()
		return next, deltas, nil
	}

	nextSeat := next.nextEligibleSeat(seatNo)
	if nextSeat == 0 {
		// nobody left who can act; treat the round as complete
		next.finishBettingRound()
		return next, deltas, nil
	}
	next.CurrentTurnSeat = nextSeat
	return next, deltas, nil
}

// bettingRoundComplete reports whether the current betting round has
// ended: every player who can still act has acted and matched the
// current bet. When at most one player can act and that player has
// matched the bet, the round is also complete since no meaningful
// betting is possible against all-in opponents.
func (r *Round) bettingRoundComplete() bool {
	actors := make([]*PlayerHandState, 0, len(r.Players))
	for _, state := range r.Players {
		if state.canAct() {
			actors = append(actors, state)
		}
	}
	if len(actors) == 0 {
		return true
	}
	if len(actors) == 1 {
		return actors[0].StreetBet == r.CurrentBet
	}
	for _, state := range actors {
		if !state.Acted || state.StreetBet != r.CurrentBet {
			return false
		}
	}
	return true
}

// finishBettingRound moves the hand to the next host-gated reveal
// stage, or straight to showdown when no further betting is possible.
func (r *Round) finishBettingRound() {
	r.CurrentTurnSeat = 0

	if r.canActCount() <= 1 {
		// remaining players are all-in; run the board out at once
		r.Stage = StageShowdown
		r.CardsToReveal = uint32(5 - len(r.Board))
		return
	}

	switch r.Stage {
	case StagePreflop:
		r.Stage = StageAwaitingFlop
		r.CardsToReveal = 3
	case StageFlop:
		r.Stage = StageAwaitingTurn
		r.CardsToReveal = 1
	case StageTurn:
		r.Stage = StageAwaitingRiver
		r.CardsToReveal = 1
	case StageRiver:
		r.Stage = StageShowdown
		r.CardsToReveal = 0
		return
	}

	r.resetStreet()
}

// resetStreet clears the per-street betting state ahead of the next
// community card reveal.
func (r *Round) resetStreet() {
	r.CurrentBet = 0
	r.LastRaiseAmount = r.BigBlind
	r.LastAggressorSeat = 0
	for _, state := range r.Players {
		state.StreetBet = 0
		if !state.Folded && !state.AllIn {
			state.Acted = false
		}
	}
}

// settleFoldOut awards the total of all pots to the last player still
// in the hand and ends it.
func (r *Round) settleFoldOut() []ChipDelta {
	var winner *PlayerHandState
	for _, state := range r.Players {
		if !state.Folded {
			winner = state
			break
		}
	}
	if winner == nil {
		// cannot happen while the fold path rejects the last player
		bettingLogger.Error().Uint32(logging.HandNumKey, r.HandNum).Msg("Fold-out with no remaining player")
		return nil
	}

	total := r.TotalPot()
	winner.Stack += total
	r.Stage = StageSettled
	r.CurrentTurnSeat = 0
	r.CardsToReveal = 0

	bettingLogger.Info().
		Uint32(logging.HandNumKey, r.HandNum).
		Uint32(logging.SeatNumKey, winner.SeatNo).
		Int64(logging.AmountKey, total).
		Msg(fmt.Sprintf("Hand ended by fold-out. Seat %d wins %d", winner.SeatNo, total))

	return []ChipDelta{{
		PlayerID: winner.PlayerID,
		SeatNo:   winner.SeatNo,
		Amount:   total,
		Reason:   "FOLD_OUT",
	}}
}
