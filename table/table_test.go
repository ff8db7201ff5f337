package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardroom.io/server/game"
	"cardroom.io/server/natsfeed"
	"cardroom.io/server/store"
)

func testConfig() Config {
	return Config{MaxSeats: 9, SmallBlind: 1, BigBlind: 2, MinPlayers: 2}
}

func newTestTable(t *testing.T) (*Table, *store.MemoryTableTracker) {
	t.Helper()
	tracker := store.NewMemoryTableTracker()
	tbl := NewTable("test01", testConfig(), tracker, NopFeed{})
	require.NoError(t, tbl.Sit(11, 1, 100))
	require.NoError(t, tbl.Sit(22, 4, 100))
	require.NoError(t, tbl.Sit(33, 7, 100))
	return tbl, tracker
}

// recordingFeed captures ledger reports for assertions.
type recordingFeed struct {
	deltaReports  []*natsfeed.DeltaReport
	settleReports []*natsfeed.SettleReport
}

func (f *recordingFeed) PublishDeltas(report *natsfeed.DeltaReport) error {
	f.deltaReports = append(f.deltaReports, report)
	return nil
}

func (f *recordingFeed) PublishSettled(report *natsfeed.SettleReport) error {
	f.settleReports = append(f.settleReports, report)
	return nil
}

func TestSitValidation(t *testing.T) {
	tbl, _ := newTestTable(t)

	assert.Error(t, tbl.Sit(44, 1, 100), "occupied seat")
	assert.Error(t, tbl.Sit(44, 0, 100), "seat zero")
	assert.Error(t, tbl.Sit(44, 10, 100), "seat beyond the table")

	_, err := tbl.StartHand()
	require.NoError(t, err)
	assert.Error(t, tbl.Sit(44, 2, 100), "seating change mid-hand")
	assert.Error(t, tbl.Leave(1), "leave mid-hand")
}

func TestStartHandDealsHoleCards(t *testing.T) {
	tbl, _ := newTestTable(t)
	snapshot, err := tbl.StartHand()
	require.NoError(t, err)

	require.NotNil(t, snapshot.Round)
	assert.Equal(t, game.StagePreflop, snapshot.Round.Stage)
	assert.Equal(t, uint32(1), snapshot.HandNum)

	for _, seatNo := range []uint32{1, 4, 7} {
		cards, err := tbl.HoleCards(seatNo)
		require.NoError(t, err)
		assert.Len(t, cards, 2)
	}
	_, err = tbl.HoleCards(3)
	assert.Error(t, err, "empty seat has no cards")

	_, err = tbl.StartHand()
	assert.Error(t, err, "hand already in progress")
}

func TestVersionGate(t *testing.T) {
	tbl, _ := newTestTable(t)
	snapshot, err := tbl.StartHand()
	require.NoError(t, err)

	// a submission against an old version loses the race
	_, err = tbl.SubmitAction(snapshot.Version-1, 1, game.ActionCall, 0)
	assert.Equal(t, ErrStaleAction, err)

	next, err := tbl.SubmitAction(snapshot.Version, 1, game.ActionCall, 0)
	require.NoError(t, err)
	assert.Equal(t, snapshot.Version+1, next.Version)

	// the same version cannot be replayed
	_, err = tbl.SubmitAction(snapshot.Version, 4, game.ActionCall, 0)
	assert.Equal(t, ErrStaleAction, err)
}

func TestRejectedActionKeepsVersion(t *testing.T) {
	tbl, _ := newTestTable(t)
	snapshot, err := tbl.StartHand()
	require.NoError(t, err)

	// out of turn: engine rejects, version does not advance
	_, err = tbl.SubmitAction(snapshot.Version, 4, game.ActionCall, 0)
	_, ok := err.(game.TurnViolationError)
	require.True(t, ok)
	assert.Equal(t, snapshot.Version, tbl.Snapshot().Version)
}

func TestFullHandThroughTable(t *testing.T) {
	tracker := store.NewMemoryTableTracker()
	feed := &recordingFeed{}
	tbl := NewTable("test01", testConfig(), tracker, feed)
	require.NoError(t, tbl.Sit(11, 1, 100))
	require.NoError(t, tbl.Sit(22, 4, 100))
	require.NoError(t, tbl.Sit(33, 7, 100))

	snapshot, err := tbl.StartHand()
	require.NoError(t, err)
	require.Len(t, feed.deltaReports, 1, "blind deltas reported")

	// preflop: call, call, check
	snapshot, err = tbl.SubmitAction(snapshot.Version, 1, game.ActionCall, 0)
	require.NoError(t, err)
	snapshot, err = tbl.SubmitAction(snapshot.Version, 4, game.ActionCall, 0)
	require.NoError(t, err)
	snapshot, err = tbl.SubmitAction(snapshot.Version, 7, game.ActionCheck, 0)
	require.NoError(t, err)
	require.Equal(t, game.StageAwaitingFlop, snapshot.Round.Stage)

	snapshot, err = tbl.Reveal(snapshot.Version)
	require.NoError(t, err)
	require.Equal(t, game.StageFlop, snapshot.Round.Stage)
	require.Len(t, snapshot.Round.Board, 3)

	// flop and turn get checked through
	for _, seatNo := range []uint32{4, 7, 1} {
		snapshot, err = tbl.SubmitAction(snapshot.Version, seatNo, game.ActionCheck, 0)
		require.NoError(t, err)
	}
	snapshot, err = tbl.Reveal(snapshot.Version)
	require.NoError(t, err)
	require.Len(t, snapshot.Round.Board, 4)
	for _, seatNo := range []uint32{4, 7, 1} {
		snapshot, err = tbl.SubmitAction(snapshot.Version, seatNo, game.ActionCheck, 0)
		require.NoError(t, err)
	}
	snapshot, err = tbl.Reveal(snapshot.Version)
	require.NoError(t, err)
	require.Len(t, snapshot.Round.Board, 5)

	// river: small blind bets, the rest fold
	snapshot, err = tbl.SubmitAction(snapshot.Version, 4, game.ActionBet, 10)
	require.NoError(t, err)
	snapshot, err = tbl.SubmitAction(snapshot.Version, 7, game.ActionFold, 0)
	require.NoError(t, err)
	snapshot, err = tbl.SubmitAction(snapshot.Version, 1, game.ActionFold, 0)
	require.NoError(t, err)

	require.Equal(t, game.StageSettled, snapshot.Round.Stage)
	require.Len(t, feed.settleReports, 1)
	assert.Equal(t, "test01", feed.settleReports[0].TableCode)

	// settled stacks flow back to the seated players
	for _, player := range snapshot.Players {
		switch player.SeatNo {
		case 4:
			assert.Equal(t, int64(104), player.Stack)
		default:
			assert.Equal(t, int64(98), player.Stack)
		}
	}
}

func TestDealerButtonRotates(t *testing.T) {
	tbl, _ := newTestTable(t)

	playHandToFoldOut := func(snapshot *Snapshot) *Snapshot {
		t.Helper()
		round := snapshot.Round
		var err error
		for round.Stage == game.StagePreflop {
			seatNo := round.CurrentTurnSeat
			snapshot, err = tbl.SubmitAction(snapshot.Version, seatNo, game.ActionFold, 0)
			require.NoError(t, err)
			round = snapshot.Round
		}
		return snapshot
	}

	snapshot, err := tbl.StartHand()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), snapshot.DealerSeat)
	playHandToFoldOut(snapshot)

	snapshot, err = tbl.StartHand()
	require.NoError(t, err)
	assert.Equal(t, uint32(4), snapshot.DealerSeat)
	assert.Equal(t, uint32(2), snapshot.HandNum)
	playHandToFoldOut(snapshot)

	snapshot, err = tbl.StartHand()
	require.NoError(t, err)
	assert.Equal(t, uint32(7), snapshot.DealerSeat)
	playHandToFoldOut(snapshot)

	// wraps back around
	snapshot, err = tbl.StartHand()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), snapshot.DealerSeat)
}

func TestForceAction(t *testing.T) {
	tbl, _ := newTestTable(t)
	snapshot, err := tbl.StartHand()
	require.NoError(t, err)

	// facing the blind, a forced action folds
	snapshot, err = tbl.ForceAction(snapshot.Version, 1)
	require.NoError(t, err)
	assert.True(t, snapshot.Round.Players[1].Folded)

	snapshot, err = tbl.SubmitAction(snapshot.Version, 4, game.ActionCall, 0)
	require.NoError(t, err)

	// the big blind already matches the bet, so the force checks
	snapshot, err = tbl.ForceAction(snapshot.Version, 7)
	require.NoError(t, err)
	assert.False(t, snapshot.Round.Players[7].Folded)
	assert.Equal(t, game.ActionCheck, snapshot.Round.Players[7].LastAction)
	assert.Equal(t, game.StageAwaitingFlop, snapshot.Round.Stage)
}

func TestShowdownThroughTable(t *testing.T) {
	tbl, _ := newTestTable(t)
	snapshot, err := tbl.StartHand()
	require.NoError(t, err)

	snapshot, err = tbl.SubmitAction(snapshot.Version, 1, game.ActionAllIn, 0)
	require.NoError(t, err)
	snapshot, err = tbl.SubmitAction(snapshot.Version, 4, game.ActionCall, 0)
	require.NoError(t, err)
	snapshot, err = tbl.SubmitAction(snapshot.Version, 7, game.ActionCall, 0)
	require.NoError(t, err)
	require.Equal(t, game.StageShowdown, snapshot.Round.Stage)

	// showdown before the runout is rejected
	_, err = tbl.ResolveShowdown(snapshot.Version, [][]uint32{{1}})
	require.Error(t, err)

	snapshot, err = tbl.Reveal(snapshot.Version)
	require.NoError(t, err)
	require.Len(t, snapshot.Round.Board, 5)

	snapshot, err = tbl.ResolveShowdown(snapshot.Version, [][]uint32{{4}})
	require.NoError(t, err)
	assert.Equal(t, game.StageSettled, snapshot.Round.Stage)
	for _, player := range snapshot.Players {
		if player.SeatNo == 4 {
			assert.Equal(t, int64(300), player.Stack)
		} else {
			assert.Equal(t, int64(0), player.Stack)
		}
	}
}

func TestManagerResumesMidHand(t *testing.T) {
	tracker := store.NewMemoryTableTracker()
	manager := NewManager(tracker, NopFeed{}, testConfig())

	tbl, err := manager.NewTable(Config{})
	require.NoError(t, err)
	tableCode := tbl.Code()
	require.NoError(t, tbl.Sit(11, 1, 100))
	require.NoError(t, tbl.Sit(22, 4, 100))
	require.NoError(t, tbl.Sit(33, 7, 100))

	snapshot, err := tbl.StartHand()
	require.NoError(t, err)
	snapshot, err = tbl.SubmitAction(snapshot.Version, 1, game.ActionCall, 0)
	require.NoError(t, err)
	cardsBefore, err := tbl.HoleCards(4)
	require.NoError(t, err)

	// simulate a coordinator restart: fresh manager, same store
	restarted := NewManager(tracker, NopFeed{}, testConfig())
	resumed, err := restarted.GetTable(tableCode)
	require.NoError(t, err)

	resumedSnapshot := resumed.Snapshot()
	assert.Equal(t, snapshot.Version, resumedSnapshot.Version)
	assert.Equal(t, game.StagePreflop, resumedSnapshot.Round.Stage)
	assert.Equal(t, snapshot.Round.CurrentTurnSeat, resumedSnapshot.Round.CurrentTurnSeat)

	cardsAfter, err := resumed.HoleCards(4)
	require.NoError(t, err)
	assert.Equal(t, cardsBefore, cardsAfter)

	// the hand continues where it left off, including reveals from the
	// restored deck
	s, err := resumed.SubmitAction(resumedSnapshot.Version, 4, game.ActionCall, 0)
	require.NoError(t, err)
	s, err = resumed.SubmitAction(s.Version, 7, game.ActionCheck, 0)
	require.NoError(t, err)
	s, err = resumed.Reveal(s.Version)
	require.NoError(t, err)
	assert.Len(t, s.Round.Board, 3)
}

func TestManagerEndTable(t *testing.T) {
	tracker := store.NewMemoryTableTracker()
	manager := NewManager(tracker, NopFeed{}, testConfig())
	tbl, err := manager.NewTable(Config{})
	require.NoError(t, err)
	require.NoError(t, tbl.Sit(11, 1, 100))

	manager.EndTable(tbl.Code())
	_, err = manager.GetTable(tbl.Code())
	assert.Error(t, err)
}

func TestManagerRejectsBadBlinds(t *testing.T) {
	manager := NewManager(store.NewMemoryTableTracker(), NopFeed{}, testConfig())
	_, err := manager.NewTable(Config{SmallBlind: 5, BigBlind: 2})
	assert.Error(t, err)
}
