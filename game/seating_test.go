package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seated(seatNo uint32, stack int64) SeatedPlayer {
	return SeatedPlayer{
		PlayerID: uint64(seatNo) * 100,
		SeatNo:   seatNo,
		Stack:    stack,
		Active:   true,
	}
}

func mustStartHand(t *testing.T, cfg HandConfig, players []SeatedPlayer) *Round {
	t.Helper()
	r, _, err := StartHand(cfg, players)
	require.NoError(t, err)
	return r
}

func threeHandedConfig() HandConfig {
	return HandConfig{HandNum: 1, MaxSeats: 9, SmallBlind: 1, BigBlind: 2, DealerSeat: 1}
}

func TestBlindSeatsThreeHanded(t *testing.T) {
	r := mustStartHand(t, threeHandedConfig(), []SeatedPlayer{
		seated(1, 100), seated(4, 100), seated(7, 100),
	})
	assert.Equal(t, uint32(1), r.DealerSeat)
	assert.Equal(t, uint32(4), r.SmallBlindSeat)
	assert.Equal(t, uint32(7), r.BigBlindSeat)
	// preflop action opens left of the big blind, wrapping to the dealer
	assert.Equal(t, uint32(1), r.CurrentTurnSeat)
	assert.False(t, r.HeadsUp)
}

func TestBlindSeatsHeadsUp(t *testing.T) {
	r := mustStartHand(t, HandConfig{HandNum: 1, MaxSeats: 9, SmallBlind: 1, BigBlind: 2, DealerSeat: 3},
		[]SeatedPlayer{seated(3, 100), seated(8, 100)})

	// heads-up the dealer posts the small blind and opens preflop
	assert.True(t, r.HeadsUp)
	assert.Equal(t, uint32(3), r.SmallBlindSeat)
	assert.Equal(t, uint32(8), r.BigBlindSeat)
	assert.Equal(t, uint32(3), r.CurrentTurnSeat)
}

func TestHeadsUpPostflopFirstActor(t *testing.T) {
	r := mustStartHand(t, HandConfig{HandNum: 1, MaxSeats: 9, SmallBlind: 1, BigBlind: 2, DealerSeat: 3},
		[]SeatedPlayer{seated(3, 100), seated(8, 100)})

	r, _, err := ApplyAction(r, 3, ActionCall, 0)
	require.NoError(t, err)
	r, _, err = ApplyAction(r, 8, ActionCheck, 0)
	require.NoError(t, err)
	require.Equal(t, StageAwaitingFlop, r.Stage)

	r, err = RevealStreet(r, testCards("Ah", "Kd", "7c"))
	require.NoError(t, err)

	// postflop the big blind acts first heads-up
	assert.Equal(t, StageFlop, r.Stage)
	assert.Equal(t, uint32(8), r.CurrentTurnSeat)
}

func TestNextEligibleSeatSkipsFoldedAndAllIn(t *testing.T) {
	r := mustStartHand(t, threeHandedConfig(), []SeatedPlayer{
		seated(1, 100), seated(4, 100), seated(7, 100),
	})
	r.Players[4].Folded = true
	r.Players[7].AllIn = true

	assert.Equal(t, uint32(1), r.nextEligibleSeat(7))
	assert.Equal(t, uint32(1), r.nextEligibleSeat(1))
}

func TestNextEligibleSeatNone(t *testing.T) {
	r := mustStartHand(t, threeHandedConfig(), []SeatedPlayer{
		seated(1, 100), seated(4, 100), seated(7, 100),
	})
	for _, state := range r.Players {
		state.AllIn = true
	}
	assert.Equal(t, uint32(0), r.nextEligibleSeat(1))
}

func TestNextDealerSeatSkipsBrokePlayers(t *testing.T) {
	players := []SeatedPlayer{
		seated(2, 100),
		seated(5, 0),
		seated(8, 100),
	}
	assert.Equal(t, uint32(8), NextDealerSeat(players, 9, 2))
	assert.Equal(t, uint32(2), NextDealerSeat(players, 9, 8))
}

func TestNextDealerSeatNoneEligible(t *testing.T) {
	players := []SeatedPlayer{seated(2, 0)}
	assert.Equal(t, uint32(0), NextDealerSeat(players, 9, 2))
}
