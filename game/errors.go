package game

import "fmt"

// Reason codes for rejected actions. These are returned to the caller
// unchanged so clients can map them to messages.
const (
	ReasonPlayerFolded    = "PLAYER_FOLDED"
	ReasonPlayerAllIn     = "PLAYER_ALL_IN"
	ReasonNoChips         = "NO_CHIPS"
	ReasonCheckOwesCall   = "CHECK_OWES_CALL"
	ReasonNothingToCall   = "NOTHING_TO_CALL"
	ReasonBetExists       = "BET_EXISTS"
	ReasonNothingToRaise  = "NOTHING_TO_RAISE"
	ReasonBetBelowMin     = "BET_BELOW_MIN"
	ReasonRaiseBelowMin   = "RAISE_BELOW_MIN"
	ReasonNotEnoughChips  = "NOT_ENOUGH_CHIPS"
	ReasonAmountNotAbove  = "AMOUNT_NOT_ABOVE_BET"
	ReasonNoBettingStage  = "NO_BETTING_IN_STAGE"
	ReasonUnknownAction   = "UNKNOWN_ACTION"
)

// TurnViolationError is returned when a seat acts out of turn. The
// state is left unchanged.
type TurnViolationError struct {
	SeatNo       uint32
	ExpectedSeat uint32
}

func (e TurnViolationError) Error() string {
	return fmt.Sprintf("Seat %d acted out of turn. The next valid action seat is: %d", e.SeatNo, e.ExpectedSeat)
}

// IllegalActionError is an expected, recoverable rejection of a
// requested action. The state is left unchanged.
type IllegalActionError struct {
	SeatNo uint32
	Action Action
	Reason string
}

func (e IllegalActionError) Error() string {
	return fmt.Sprintf("Illegal action %s from seat %d: %s", e.Action, e.SeatNo, e.Reason)
}

// StateInconsistencyError indicates a caller bug, such as an action for
// a seat with no hand state. The operation must abort, not recover.
type StateInconsistencyError struct {
	Msg string
}

func (e StateInconsistencyError) Error() string {
	return e.Msg
}

// InsufficientPlayersError prevents a hand from starting with fewer
// than two funded players.
type InsufficientPlayersError struct {
	NumPlayers int
}

func (e InsufficientPlayersError) Error() string {
	return fmt.Sprintf("Cannot start hand with %d players. At least 2 players with chips are required", e.NumPlayers)
}
