package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func illegalReason(t *testing.T, err error) string {
	t.Helper()
	illegal, ok := err.(IllegalActionError)
	require.True(t, ok, "expected IllegalActionError, got %v", err)
	return illegal.Reason
}

func TestValidateTurnViolation(t *testing.T) {
	r := mustStartHand(t, threeHandedConfig(), []SeatedPlayer{
		seated(1, 100), seated(4, 100), seated(7, 100),
	})
	before := r.Clone()

	_, _, err := ApplyAction(r, 4, ActionCall, 0)
	violation, ok := err.(TurnViolationError)
	require.True(t, ok)
	assert.Equal(t, uint32(1), violation.ExpectedSeat)

	// a rejection never changes state
	assert.Equal(t, before, r)
}

func TestValidateCheckOwingCall(t *testing.T) {
	r := mustStartHand(t, threeHandedConfig(), []SeatedPlayer{
		seated(1, 100), seated(4, 100), seated(7, 100),
	})
	_, _, err := ApplyAction(r, 1, ActionCheck, 0)
	assert.Equal(t, ReasonCheckOwesCall, illegalReason(t, err))
}

func TestValidateCallWithNothingOwed(t *testing.T) {
	r := mustStartHand(t, threeHandedConfig(), []SeatedPlayer{
		seated(1, 100), seated(4, 100), seated(7, 100),
	})
	r, _, err := ApplyAction(r, 1, ActionCall, 0)
	require.NoError(t, err)
	r, _, err = ApplyAction(r, 4, ActionCall, 0)
	require.NoError(t, err)
	r, _, err = ApplyAction(r, 7, ActionCheck, 0)
	require.NoError(t, err)
	r, err = RevealStreet(r, testCards("2h", "9d", "Qc"))
	require.NoError(t, err)

	_, _, err = ApplyAction(r, 4, ActionCall, 0)
	assert.Equal(t, ReasonNothingToCall, illegalReason(t, err))
}

func TestValidateShortCallBecomesAllIn(t *testing.T) {
	r := mustStartHand(t, threeHandedConfig(), []SeatedPlayer{
		seated(1, 100), seated(4, 100), seated(7, 100),
	})
	r, _, err := ApplyAction(r, 1, ActionRaise, 60)
	require.NoError(t, err)

	// short stack at seat 4: 99 behind after the small blind, raise
	// the stack down first
	r.Players[4].Stack = 20

	r, _, err = ApplyAction(r, 4, ActionCall, 0)
	require.NoError(t, err)
	state := r.Players[4]
	assert.True(t, state.AllIn)
	assert.Equal(t, ActionAllIn, state.LastAction)
	assert.Equal(t, int64(21), state.StreetBet)
	assert.Equal(t, int64(0), state.Stack)
}

func TestValidateBetRules(t *testing.T) {
	r := mustStartHand(t, threeHandedConfig(), []SeatedPlayer{
		seated(1, 100), seated(4, 100), seated(7, 100),
	})

	// a bet is illegal while the blind bet stands
	_, _, err := ApplyAction(r, 1, ActionBet, 10)
	assert.Equal(t, ReasonBetExists, illegalReason(t, err))

	r, _, err = ApplyAction(r, 1, ActionCall, 0)
	require.NoError(t, err)
	r, _, err = ApplyAction(r, 4, ActionCall, 0)
	require.NoError(t, err)
	r, _, err = ApplyAction(r, 7, ActionCheck, 0)
	require.NoError(t, err)
	r, err = RevealStreet(r, testCards("2h", "9d", "Qc"))
	require.NoError(t, err)

	// below the big blind minimum
	_, _, err = ApplyAction(r, 4, ActionBet, 1)
	assert.Equal(t, ReasonBetBelowMin, illegalReason(t, err))

	// more than the stack
	_, _, err = ApplyAction(r, 4, ActionBet, 500)
	assert.Equal(t, ReasonNotEnoughChips, illegalReason(t, err))

	// betting the whole short stack below the minimum is an all-in
	// and is allowed
	r.Players[4].Stack = 1
	r2, _, err := ApplyAction(r, 4, ActionBet, 1)
	require.NoError(t, err)
	assert.True(t, r2.Players[4].AllIn)
	assert.Equal(t, int64(1), r2.CurrentBet)
}

func TestValidateRaiseRules(t *testing.T) {
	r := mustStartHand(t, threeHandedConfig(), []SeatedPlayer{
		seated(1, 100), seated(4, 100), seated(7, 100),
	})

	// raise must exceed the current bet by the last raise amount:
	// blind bet 2, minimum raise to 4
	_, _, err := ApplyAction(r, 1, ActionRaise, 3)
	assert.Equal(t, ReasonRaiseBelowMin, illegalReason(t, err))

	_, _, err = ApplyAction(r, 1, ActionRaise, 2)
	assert.Equal(t, ReasonAmountNotAbove, illegalReason(t, err))

	r, _, err = ApplyAction(r, 1, ActionRaise, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), r.CurrentBet)
	assert.Equal(t, int64(8), r.LastRaiseAmount)

	// next raise must reach 18
	_, _, err = ApplyAction(r, 4, ActionRaise, 15)
	assert.Equal(t, ReasonRaiseBelowMin, illegalReason(t, err))

	// unless it is the player's whole remaining stack
	r.Players[4].Stack = 14
	r2, _, err := ApplyAction(r, 4, ActionRaise, 15)
	require.NoError(t, err)
	assert.True(t, r2.Players[4].AllIn)
	assert.Equal(t, int64(15), r2.CurrentBet)
	// a short all-in raise keeps the previous minimum raise increment
	assert.Equal(t, int64(8), r2.LastRaiseAmount)
}

func TestValidateFoldedAndAllInMayNeverAct(t *testing.T) {
	r := mustStartHand(t, threeHandedConfig(), []SeatedPlayer{
		seated(1, 100), seated(4, 100), seated(7, 100),
	})
	r, _, err := ApplyAction(r, 1, ActionFold, 0)
	require.NoError(t, err)

	// force the turn back to the folded seat to hit the validator
	r.CurrentTurnSeat = 1
	_, _, err = ApplyAction(r, 1, ActionCheck, 0)
	assert.Equal(t, ReasonPlayerFolded, illegalReason(t, err))

	r.CurrentTurnSeat = 4
	r, _, err = ApplyAction(r, 4, ActionAllIn, 0)
	require.NoError(t, err)
	r.CurrentTurnSeat = 4
	_, _, err = ApplyAction(r, 4, ActionCheck, 0)
	assert.Equal(t, ReasonPlayerAllIn, illegalReason(t, err))
}

func TestValidateUnknownAction(t *testing.T) {
	r := mustStartHand(t, threeHandedConfig(), []SeatedPlayer{
		seated(1, 100), seated(4, 100), seated(7, 100),
	})
	_, _, err := ApplyAction(r, 1, Action("STRADDLE"), 0)
	assert.Equal(t, ReasonUnknownAction, illegalReason(t, err))
}

func TestValidateNoBettingInAwaitingStage(t *testing.T) {
	r := mustStartHand(t, threeHandedConfig(), []SeatedPlayer{
		seated(1, 100), seated(4, 100), seated(7, 100),
	})
	r, _, err := ApplyAction(r, 1, ActionCall, 0)
	require.NoError(t, err)
	r, _, err = ApplyAction(r, 4, ActionCall, 0)
	require.NoError(t, err)
	r, _, err = ApplyAction(r, 7, ActionCheck, 0)
	require.NoError(t, err)
	require.Equal(t, StageAwaitingFlop, r.Stage)

	_, _, err = ApplyAction(r, 1, ActionCheck, 0)
	assert.Equal(t, ReasonNoBettingStage, illegalReason(t, err))
}
