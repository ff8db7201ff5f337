package game

import (
	"cardroom.io/server/poker"
)

// HandStage is the stage of one hand. The AWAITING_* stages are host
// gated: the only way out of them is an explicit reveal trigger from
// the host, never an automatic transition.
type HandStage string

const (
	StagePreflop       HandStage = "PREFLOP"
	StageAwaitingFlop  HandStage = "AWAITING_FLOP"
	StageFlop          HandStage = "FLOP"
	StageAwaitingTurn  HandStage = "AWAITING_TURN"
	StageTurn          HandStage = "TURN"
	StageAwaitingRiver HandStage = "AWAITING_RIVER"
	StageRiver         HandStage = "RIVER"
	StageShowdown      HandStage = "SHOW_DOWN"
	StageSettled       HandStage = "SETTLED"
)

// Action identifies what a player did. SB/BB are blind posts recorded
// in the action log; they are never submitted by a caller.
type Action string

const (
	ActionSB    Action = "SB"
	ActionBB    Action = "BB"
	ActionFold  Action = "FOLD"
	ActionCheck Action = "CHECK"
	ActionCall  Action = "CALL"
	ActionBet   Action = "BET"
	ActionRaise Action = "RAISE"
	ActionAllIn Action = "ALLIN"
)

// SeatedPlayer is the engine's input view of a player. The stack is
// owned by the external ledger; the engine copies it at hand start and
// only reports deltas it wants applied.
type SeatedPlayer struct {
	PlayerID uint64 `json:"playerId"`
	SeatNo   uint32 `json:"seatNo"`
	Stack    int64  `json:"stack"`
	Active   bool   `json:"active"`
}

// PlayerHandState is the per-player mutable state for the current hand.
// Committed never decreases within a hand. Folded and AllIn are sticky.
type PlayerHandState struct {
	PlayerID   uint64 `json:"playerId"`
	SeatNo     uint32 `json:"seatNo"`
	Stack      int64  `json:"stack"`
	Committed  int64  `json:"committed"`
	StreetBet  int64  `json:"streetBet"`
	Folded     bool   `json:"folded"`
	AllIn      bool   `json:"allIn"`
	Acted      bool   `json:"acted"`
	LastAction Action `json:"lastAction"`
}

// Pot is one layer of the pot decomposition. Seats lists the seat
// numbers eligible to win the layer: contributors who have not folded.
type Pot struct {
	Amount int64    `json:"amount"`
	Seats  []uint32 `json:"seats"`
}

// HandAction is one accepted action as recorded in the per-street log.
// Amount is the player's street total after the action, not a delta.
type HandAction struct {
	SeatNo uint32 `json:"seatNo"`
	Action Action `json:"action"`
	Amount int64  `json:"amount"`
}

type ActionLog struct {
	Actions []HandAction `json:"actions"`
}

// ChipDelta is a stack mutation the engine wants the external ledger to
// apply. Negative amounts are deductions, positive amounts are credits.
// The engine never touches an external stack directly.
type ChipDelta struct {
	PlayerID uint64 `json:"playerId"`
	SeatNo   uint32 `json:"seatNo"`
	Amount   int64  `json:"amount"`
	Reason   string `json:"reason"`
}

// HandConfig carries the per-hand parameters supplied by the caller.
type HandConfig struct {
	HandNum    uint32 `json:"handNum"`
	MaxSeats   uint32 `json:"maxSeats"`
	SmallBlind int64  `json:"smallBlind"`
	BigBlind   int64  `json:"bigBlind"`
	DealerSeat uint32 `json:"dealerSeat"`
}

// Round is the full state of one hand. Every transition takes a Round
// and returns a new Round; the engine holds no state of its own.
type Round struct {
	HandNum    uint32 `json:"handNum"`
	MaxSeats   uint32 `json:"maxSeats"`
	SmallBlind int64  `json:"smallBlind"`
	BigBlind   int64  `json:"bigBlind"`

	Stage          HandStage `json:"stage"`
	DealerSeat     uint32    `json:"dealerSeat"`
	SmallBlindSeat uint32    `json:"smallBlindSeat"`
	BigBlindSeat   uint32    `json:"bigBlindSeat"`
	HeadsUp        bool      `json:"headsUp"`

	// CurrentTurnSeat is 0 while no player action is pending (awaiting
	// a reveal, showdown, or settled).
	CurrentTurnSeat uint32 `json:"currentTurnSeat"`

	// CurrentBet is the street total every player still in the hand
	// must reach. LastRaiseAmount is the minimum legal raise increment.
	CurrentBet      int64 `json:"currentBet"`
	LastRaiseAmount int64 `json:"lastRaiseAmount"`

	BettingRoundStartSeat uint32 `json:"bettingRoundStartSeat"`
	LastAggressorSeat     uint32 `json:"lastAggressorSeat"`

	Players map[uint32]*PlayerHandState `json:"players"`
	Pots    []*Pot                      `json:"pots"`

	Board []poker.Card `json:"board"`
	// CardsToReveal is how many community cards the host must reveal
	// to move the hand forward. 0 when no reveal is pending.
	CardsToReveal uint32 `json:"cardsToReveal"`

	PreflopActions *ActionLog `json:"preflopActions"`
	FlopActions    *ActionLog `json:"flopActions"`
	TurnActions    *ActionLog `json:"turnActions"`
	RiverActions   *ActionLog `json:"riverActions"`
}

// Clone deep-copies the round so a transition never mutates its input.
func (r *Round) Clone() *Round {
	next := *r
	next.Players = make(map[uint32]*PlayerHandState, len(r.Players))
	for seatNo, state := range r.Players {
		stateCopy := *state
		next.Players[seatNo] = &stateCopy
	}
	next.Pots = make([]*Pot, len(r.Pots))
	for i, pot := range r.Pots {
		potCopy := &Pot{Amount: pot.Amount, Seats: make([]uint32, len(pot.Seats))}
		copy(potCopy.Seats, pot.Seats)
		next.Pots[i] = potCopy
	}
	next.Board = make([]poker.Card, len(r.Board))
	copy(next.Board, r.Board)
	next.PreflopActions = r.PreflopActions.clone()
	next.FlopActions = r.FlopActions.clone()
	next.TurnActions = r.TurnActions.clone()
	next.RiverActions = r.RiverActions.clone()
	return &next
}

func (l *ActionLog) clone() *ActionLog {
	if l == nil {
		return nil
	}
	actions := make([]HandAction, len(l.Actions))
	copy(actions, l.Actions)
	return &ActionLog{Actions: actions}
}

// Settled reports whether the hand is over.
func (r *Round) Settled() bool {
	return r.Stage == StageSettled
}

func (r *Round) currentActionLog() *ActionLog {
	switch r.Stage {
	case StagePreflop:
		return r.PreflopActions
	case StageFlop:
		return r.FlopActions
	case StageTurn:
		return r.TurnActions
	case StageRiver:
		return r.RiverActions
	}
	return nil
}

// TotalPot is the sum of all pot layers. It always equals the sum of
// player commitments after a pot recomputation.
func (r *Round) TotalPot() int64 {
	total := int64(0)
	for _, pot := range r.Pots {
		total += pot.Amount
	}
	return total
}

// nonFoldedCount counts the players still in the hand.
func (r *Round) nonFoldedCount() int {
	count := 0
	for _, state := range r.Players {
		if !state.Folded {
			count++
		}
	}
	return count
}

// canActCount counts the players who may still make a betting decision.
func (r *Round) canActCount() int {
	count := 0
	for _, state := range r.Players {
		if state.canAct() {
			count++
		}
	}
	return count
}

func (p *PlayerHandState) canAct() bool {
	return !p.Folded && !p.AllIn && p.Stack > 0
}
