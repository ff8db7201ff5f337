package game

import "fmt"

// pendingAction is the effective outcome of a validated request:
// how many chips leave the stack, the new street total, and whether
// the action raises the bet faced by the other players.
type pendingAction struct {
	seatNo    uint32
	action    Action
	streetBet int64
	delta     int64
	allIn     bool
	raisesBet bool
}

// validateAction decides the legality of a requested action and
// computes the effective amounts. Amount is the player's new street
// total, never a delta; this avoids the "chips added" vs "total in the
// pot" unit ambiguity. Turn order is checked by the caller before this
// runs.
func (r *Round) validateAction(seatNo uint32, action Action, amount int64) (*pendingAction, error) {
	state, ok := r.Players[seatNo]
	if !ok {
		return nil, StateInconsistencyError{
			Msg: fmt.Sprintf("No hand state for seat %d", seatNo),
		}
	}
	if state.Folded {
		return nil, IllegalActionError{SeatNo: seatNo, Action: action, Reason: ReasonPlayerFolded}
	}
	if state.AllIn {
		return nil, IllegalActionError{SeatNo: seatNo, Action: action, Reason: ReasonPlayerAllIn}
	}
	if state.Stack <= 0 {
		return nil, IllegalActionError{SeatNo: seatNo, Action: action, Reason: ReasonNoChips}
	}

	switch action {
	case ActionFold:
		return &pendingAction{seatNo: seatNo, action: ActionFold, streetBet: state.StreetBet}, nil

	case ActionCheck:
		if state.StreetBet != r.CurrentBet {
			return nil, IllegalActionError{SeatNo: seatNo, Action: action, Reason: ReasonCheckOwesCall}
		}
		return &pendingAction{seatNo: seatNo, action: ActionCheck, streetBet: state.StreetBet}, nil

	case ActionCall:
		if state.StreetBet >= r.CurrentBet {
			return nil, IllegalActionError{SeatNo: seatNo, Action: action, Reason: ReasonNothingToCall}
		}
		delta := r.CurrentBet - state.StreetBet
		if delta >= state.Stack {
			// short stack; the call is capped and the player is all-in
			delta = state.Stack
			return &pendingAction{
				seatNo:    seatNo,
				action:    ActionCall,
				streetBet: state.StreetBet + delta,
				delta:     delta,
				allIn:     true,
			}, nil
		}
		return &pendingAction{
			seatNo:    seatNo,
			action:    ActionCall,
			streetBet: r.CurrentBet,
			delta:     delta,
		}, nil

	case ActionBet:
		if r.CurrentBet != 0 {
			return nil, IllegalActionError{SeatNo: seatNo, Action: action, Reason: ReasonBetExists}
		}
		delta := amount - state.StreetBet
		if delta <= 0 {
			return nil, IllegalActionError{SeatNo: seatNo, Action: action, Reason: ReasonAmountNotAbove}
		}
		if delta > state.Stack {
			return nil, IllegalActionError{SeatNo: seatNo, Action: action, Reason: ReasonNotEnoughChips}
		}
		allIn := delta == state.Stack
		if amount < r.LastRaiseAmount && !allIn {
			// betting the whole stack below the minimum is allowed
			return nil, IllegalActionError{SeatNo: seatNo, Action: action, Reason: ReasonBetBelowMin}
		}
		return &pendingAction{
			seatNo:    seatNo,
			action:    ActionBet,
			streetBet: amount,
			delta:     delta,
			allIn:     allIn,
			raisesBet: true,
		}, nil

	case ActionRaise:
		if r.CurrentBet == 0 {
			return nil, IllegalActionError{SeatNo: seatNo, Action: action, Reason: ReasonNothingToRaise}
		}
		if amount <= r.CurrentBet {
			return nil, IllegalActionError{SeatNo: seatNo, Action: action, Reason: ReasonAmountNotAbove}
		}
		delta := amount - state.StreetBet
		if delta > state.Stack {
			return nil, IllegalActionError{SeatNo: seatNo, Action: action, Reason: ReasonNotEnoughChips}
		}
		allIn := delta == state.Stack
		if amount < r.CurrentBet+r.LastRaiseAmount && !allIn {
			// the all-in exception: a raise using the whole remaining
			// stack may fall short of the minimum raise increment
			return nil, IllegalActionError{SeatNo: seatNo, Action: action, Reason: ReasonRaiseBelowMin}
		}
		return &pendingAction{
			seatNo:    seatNo,
			action:    ActionRaise,
			streetBet: amount,
			delta:     delta,
			allIn:     allIn,
			raisesBet: true,
		}, nil

	case ActionAllIn:
		streetBet := state.StreetBet + state.Stack
		return &pendingAction{
			seatNo:    seatNo,
			action:    ActionAllIn,
			streetBet: streetBet,
			delta:     state.Stack,
			allIn:     true,
			raisesBet: streetBet > r.CurrentBet,
		}, nil
	}

	return nil, IllegalActionError{SeatNo: seatNo, Action: action, Reason: ReasonUnknownAction}
}
