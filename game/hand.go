package game

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"cardroom.io/server/logging"
	"cardroom.io/server/poker"
)

var handLogger = log.With().Str("logger_name", "game::hand").Logger()

// StartHand builds the round for a new hand: hand states for every
// funded player, blinds posted, first turn assigned. The returned chip
// deltas are the blind deductions the ledger must apply.
func StartHand(cfg HandConfig, players []SeatedPlayer) (*Round, []ChipDelta, error) {
	if cfg.MaxSeats == 0 || cfg.SmallBlind <= 0 || cfg.BigBlind < cfg.SmallBlind {
		return nil, nil, StateInconsistencyError{
			Msg: fmt.Sprintf("Invalid hand config: maxSeats %d sb %d bb %d", cfg.MaxSeats, cfg.SmallBlind, cfg.BigBlind),
		}
	}

	handStates := make(map[uint32]*PlayerHandState)
	for _, player := range players {
		if !player.Active || player.Stack <= 0 {
			continue
		}
		if player.SeatNo == 0 || player.SeatNo > cfg.MaxSeats {
			return nil, nil, StateInconsistencyError{
				Msg: fmt.Sprintf("Seat %d is outside the table of %d seats", player.SeatNo, cfg.MaxSeats),
			}
		}
		handStates[player.SeatNo] = &PlayerHandState{
			PlayerID: player.PlayerID,
			SeatNo:   player.SeatNo,
			Stack:    player.Stack,
		}
	}
	if len(handStates) < 2 {
		return nil, nil, InsufficientPlayersError{NumPlayers: len(handStates)}
	}
	if _, ok := handStates[cfg.DealerSeat]; !ok {
		return nil, nil, StateInconsistencyError{
			Msg: fmt.Sprintf("Dealer seat %d is not in the hand", cfg.DealerSeat),
		}
	}

	smallBlindSeat, bigBlindSeat := computeBlindSeats(handStates, cfg.MaxSeats, cfg.DealerSeat)

	r := &Round{
		HandNum:           cfg.HandNum,
		MaxSeats:          cfg.MaxSeats,
		SmallBlind:        cfg.SmallBlind,
		BigBlind:          cfg.BigBlind,
		Stage:             StagePreflop,
		DealerSeat:        cfg.DealerSeat,
		SmallBlindSeat:    smallBlindSeat,
		BigBlindSeat:      bigBlindSeat,
		HeadsUp:           len(handStates) == 2,
		CurrentBet:        cfg.BigBlind,
		LastRaiseAmount:   cfg.BigBlind,
		LastAggressorSeat: bigBlindSeat,
		Players:           handStates,
		Board:             make([]poker.Card, 0, 5),
		PreflopActions:    &ActionLog{Actions: make([]HandAction, 0)},
		FlopActions:       &ActionLog{Actions: make([]HandAction, 0)},
		TurnActions:       &ActionLog{Actions: make([]HandAction, 0)},
		RiverActions:      &ActionLog{Actions: make([]HandAction, 0)},
	}

	deltas := make([]ChipDelta, 0, 2)
	deltas = append(deltas, r.postBlind(smallBlindSeat, cfg.SmallBlind, ActionSB))
	deltas = append(deltas, r.postBlind(bigBlindSeat, cfg.BigBlind, ActionBB))

	r.Pots = calculatePots(r.Players)

	r.CurrentTurnSeat = r.firstToAct()
	r.BettingRoundStartSeat = r.CurrentTurnSeat
	if r.CurrentTurnSeat == 0 {
		// the blinds already put everyone all-in
		r.finishBettingRound()
	}

	handLogger.Info().
		Uint32(logging.HandNumKey, cfg.HandNum).
		Uint32("dealerSeat", cfg.DealerSeat).
		Uint32("sbSeat", smallBlindSeat).
		Uint32("bbSeat", bigBlindSeat).
		Uint32(logging.SeatNumKey, r.CurrentTurnSeat).
		Msg("Hand started")

	return r, deltas, nil
}

// postBlind commits a forced blind. A stack shorter than the blind
// goes all-in for the whole stack; the current bet stays at the full
// big blind either way. Blind posts do not count as having acted.
func (r *Round) postBlind(seatNo uint32, blind int64, blindAction Action) ChipDelta {
	state := r.Players[seatNo]
	amount := blind
	if state.Stack <= amount {
		amount = state.Stack
		state.AllIn = true
	}
	state.Stack -= amount
	state.Committed += amount
	state.StreetBet = amount
	state.LastAction = blindAction

	r.PreflopActions.Actions = append(r.PreflopActions.Actions, HandAction{
		SeatNo: seatNo,
		Action: blindAction,
		Amount: amount,
	})

	return ChipDelta{
		PlayerID: state.PlayerID,
		SeatNo:   seatNo,
		Amount:   -amount,
		Reason:   string(blindAction),
	}
}

// RevealStreet applies the host's reveal trigger. The number of cards
// supplied must match CardsToReveal. From an awaiting stage the next
// betting round opens; at showdown (an all-in runout) the board is
// completed and the hand waits for the winner set.
func RevealStreet(r *Round, cards []poker.Card) (*Round, error) {
	if r.CardsToReveal == 0 {
		return nil, IllegalActionError{Action: "REVEAL", Reason: ReasonNoBettingStage}
	}
	if uint32(len(cards)) != r.CardsToReveal {
		return nil, StateInconsistencyError{
			Msg: fmt.Sprintf("Expected %d community cards, got %d", r.CardsToReveal, len(cards)),
		}
	}

	next := r.Clone()
	next.Board = append(next.Board, cards...)
	next.CardsToReveal = 0

	switch next.Stage {
	case StageAwaitingFlop:
		next.Stage = StageFlop
	case StageAwaitingTurn:
		next.Stage = StageTurn
	case StageAwaitingRiver:
		next.Stage = StageRiver
	case StageShowdown:
		// all-in runout; no further betting
		return next, nil
	default:
		return nil, StateInconsistencyError{
			Msg: fmt.Sprintf("Reveal is not valid in stage %s", r.Stage),
		}
	}

	next.CurrentTurnSeat = next.firstToAct()
	next.BettingRoundStartSeat = next.CurrentTurnSeat
	if next.CurrentTurnSeat == 0 {
		// defensive: nobody can act on the new street
		next.finishBettingRound()
	}

	handLogger.Info().
		Uint32(logging.HandNumKey, next.HandNum).
		Str(logging.StageKey, string(next.Stage)).
		Str("board", poker.PrintCards(next.Board)).
		Msg("Street revealed")

	return next, nil
}

// ResolveShowdown settles the hand with the externally supplied winner
// seats, one list per pot in pot order. The engine does not rank
// hands; who won is the host's call. Payout deltas are returned for
// the ledger.
func ResolveShowdown(r *Round, winnersByPot [][]uint32) (*Round, []ChipDelta, error) {
	if r.Stage != StageShowdown {
		return nil, nil, IllegalActionError{Action: "SHOWDOWN", Reason: ReasonNoBettingStage}
	}
	if r.CardsToReveal > 0 {
		return nil, nil, StateInconsistencyError{
			Msg: fmt.Sprintf("Board is incomplete: %d cards still to reveal", r.CardsToReveal),
		}
	}
	if len(winnersByPot) != len(r.Pots) {
		return nil, nil, StateInconsistencyError{
			Msg: fmt.Sprintf("Winner lists (%d) do not match pots (%d)", len(winnersByPot), len(r.Pots)),
		}
	}
	for i, winners := range winnersByPot {
		if len(winners) == 0 {
			return nil, nil, StateInconsistencyError{
				Msg: fmt.Sprintf("Pot %d has no winners", i),
			}
		}
		for _, seatNo := range winners {
			if !seatEligible(r.Pots[i], seatNo) {
				return nil, nil, StateInconsistencyError{
					Msg: fmt.Sprintf("Seat %d is not eligible for pot %d", seatNo, i),
				}
			}
		}
	}

	next := r.Clone()
	deltas := make([]ChipDelta, 0, len(winnersByPot))
	for i, winners := range winnersByPot {
		payouts := distributePot(next.Pots[i], winners, next.DealerSeat, next.MaxSeats)
		ordered := make([]uint32, 0, len(payouts))
		for seatNo := range payouts {
			ordered = append(ordered, seatNo)
		}
		sort.Slice(ordered, func(a, b int) bool {
			return seatDistance(next.DealerSeat, ordered[a], next.MaxSeats) < seatDistance(next.DealerSeat, ordered[b], next.MaxSeats)
		})
		for _, seatNo := range ordered {
			amount := payouts[seatNo]
			if amount == 0 {
				continue
			}
			state := next.Players[seatNo]
			state.Stack += amount
			deltas = append(deltas, ChipDelta{
				PlayerID: state.PlayerID,
				SeatNo:   seatNo,
				Amount:   amount,
				Reason:   fmt.Sprintf("POT_%d", i),
			})
		}
	}

	next.Stage = StageSettled
	next.CurrentTurnSeat = 0

	handLogger.Info().
		Uint32(logging.HandNumKey, next.HandNum).
		Int64(logging.AmountKey, next.TotalPot()).
		Msg("Showdown settled")

	return next, deltas, nil
}

func seatEligible(pot *Pot, seatNo uint32) bool {
	for _, s := range pot.Seats {
		if s == seatNo {
			return true
		}
	}
	return false
}
