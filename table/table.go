package table

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"cardroom.io/server/game"
	"cardroom.io/server/logging"
	"cardroom.io/server/natsfeed"
	"cardroom.io/server/poker"
	"cardroom.io/server/store"
)

var tableLogger = log.With().Str("logger_name", "table::table").Logger()

// ErrStaleAction rejects a submission made against an outdated round
// version. Two concurrent submissions for the same seat resolve to at
// most one acceptance; the loser gets this error, never a second
// engine transition.
var ErrStaleAction = fmt.Errorf("stale action: round version mismatch")

// Feed is the outbound boundary to the external chip ledger.
type Feed interface {
	PublishDeltas(report *natsfeed.DeltaReport) error
	PublishSettled(report *natsfeed.SettleReport) error
}

// NopFeed drops reports. Used in tests and ledger-less deployments.
type NopFeed struct{}

func (NopFeed) PublishDeltas(*natsfeed.DeltaReport) error   { return nil }
func (NopFeed) PublishSettled(*natsfeed.SettleReport) error { return nil }

// Config carries the fixed parameters of a table.
type Config struct {
	MaxSeats   uint32 `json:"maxSeats"`
	SmallBlind int64  `json:"smallBlind"`
	BigBlind   int64  `json:"bigBlind"`
	MinPlayers int    `json:"minPlayers"`
}

// Table owns one card table. All hand mutation goes through the table
// mutex, which is the single-writer guarantee the engine requires: one
// action in flight against a round at a time, applied in acceptance
// order.
type Table struct {
	mu sync.Mutex

	code       string
	config     Config
	players    map[uint32]*game.SeatedPlayer
	dealerSeat uint32
	handNum    uint32

	round   *game.Round
	version uint64

	deck      *poker.Deck
	holeCards map[uint32][]poker.Card

	persist store.PersistTableState
	feed    Feed
}

func NewTable(code string, config Config, persist store.PersistTableState, feed Feed) *Table {
	return &Table{
		code:      code,
		config:    config,
		players:   make(map[uint32]*game.SeatedPlayer),
		holeCards: make(map[uint32][]poker.Card),
		persist:   persist,
		feed:      feed,
	}
}

func (t *Table) Code() string {
	return t.code
}

// Sit seats a player with the stack reported by the external ledger.
// Seating changes are rejected mid-hand.
func (t *Table) Sit(playerID uint64, seatNo uint32, stack int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.handInProgress() {
		return fmt.Errorf("cannot change seating while a hand is in progress")
	}
	if seatNo == 0 || seatNo > t.config.MaxSeats {
		return fmt.Errorf("seat %d is outside the table of %d seats", seatNo, t.config.MaxSeats)
	}
	if _, occupied := t.players[seatNo]; occupied {
		return fmt.Errorf("seat %d is occupied", seatNo)
	}
	t.players[seatNo] = &game.SeatedPlayer{
		PlayerID: playerID,
		SeatNo:   seatNo,
		Stack:    stack,
		Active:   true,
	}
	if t.dealerSeat == 0 {
		t.dealerSeat = seatNo
	}
	return t.save()
}

// Leave removes a player between hands.
func (t *Table) Leave(seatNo uint32) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.handInProgress() {
		return fmt.Errorf("cannot change seating while a hand is in progress")
	}
	delete(t.players, seatNo)
	return t.save()
}

// SetConnected flips a player's connected flag. Disconnection does not
// touch the hand; the host decides when to force an action.
func (t *Table) SetConnected(seatNo uint32, connected bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	player, ok := t.players[seatNo]
	if !ok {
		return fmt.Errorf("no player at seat %d", seatNo)
	}
	player.Active = connected
	return t.save()
}

func (t *Table) handInProgress() bool {
	return t.round != nil && !t.round.Settled()
}

// StartHand deals a new hand: rotates the button past the first hand,
// shuffles, deals two hole cards per funded player clockwise from the
// dealer, and posts blinds through the engine.
func (t *Table) StartHand() (*Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.handInProgress() {
		return nil, fmt.Errorf("hand %d is still in progress", t.handNum)
	}

	seated := t.seatedPlayers()
	if t.handNum > 0 {
		nextDealer := game.NextDealerSeat(seated, t.config.MaxSeats, t.dealerSeat)
		if nextDealer != 0 {
			t.dealerSeat = nextDealer
		}
	}

	t.handNum++
	cfg := game.HandConfig{
		HandNum:    t.handNum,
		MaxSeats:   t.config.MaxSeats,
		SmallBlind: t.config.SmallBlind,
		BigBlind:   t.config.BigBlind,
		DealerSeat: t.dealerSeat,
	}
	round, deltas, err := game.StartHand(cfg, seated)
	if err != nil {
		t.handNum--
		return nil, err
	}

	t.round = round
	t.version++
	t.dealCards(round)

	tableLogger.Info().
		Str(logging.TableCodeKey, t.code).
		Uint32(logging.HandNumKey, t.handNum).
		Msg("New hand dealt")

	return t.finishTransition(deltas)
}

// dealCards shuffles a fresh deck and deals two cards to every player
// in the hand, one at a time clockwise starting left of the dealer.
func (t *Table) dealCards(round *game.Round) {
	t.deck = poker.NewDeck()
	t.holeCards = make(map[uint32][]poker.Card)

	order := make([]uint32, 0, len(round.Players))
	seatNo := t.dealerSeat
	for i := uint32(0); i < t.config.MaxSeats; i++ {
		seatNo++
		if seatNo > t.config.MaxSeats {
			seatNo = 1
		}
		if _, ok := round.Players[seatNo]; ok {
			order = append(order, seatNo)
		}
	}
	for i := 0; i < 2; i++ {
		for _, seat := range order {
			card := t.deck.Draw(1)
			t.holeCards[seat] = append(t.holeCards[seat], card[0])
		}
	}
}

// SubmitAction runs one player action through the engine. The version
// is the round version the caller saw; a mismatch means another
// submission won the race and this one is a duplicate.
func (t *Table) SubmitAction(version uint64, seatNo uint32, action game.Action, amount int64) (*Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.checkVersion(version); err != nil {
		return nil, err
	}

	round, deltas, err := game.ApplyAction(t.round, seatNo, action, amount)
	if err != nil {
		return nil, err
	}
	t.round = round
	t.version++
	return t.finishTransition(deltas)
}

// ForceAction is the disconnect/timeout policy: submit a synthetic
// check when checking is free, otherwise a fold, through the same
// validated path as a normal action. No engine bypass.
func (t *Table) ForceAction(version uint64, seatNo uint32) (*Snapshot, error) {
	t.mu.Lock()
	action := game.ActionFold
	if t.round != nil {
		if state, ok := t.round.Players[seatNo]; ok && state.StreetBet == t.round.CurrentBet {
			action = game.ActionCheck
		}
	}
	t.mu.Unlock()
	return t.SubmitAction(version, seatNo, action, 0)
}

// Reveal applies the host's reveal trigger, drawing the cards the
// engine asked for from the hand's deck.
func (t *Table) Reveal(version uint64) (*Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.checkVersion(version); err != nil {
		return nil, err
	}
	if t.round.CardsToReveal == 0 {
		return nil, fmt.Errorf("no reveal is pending")
	}

	cards := t.deck.Draw(int(t.round.CardsToReveal))
	round, err := game.RevealStreet(t.round, cards)
	if err != nil {
		return nil, err
	}
	t.round = round
	t.version++
	return t.finishTransition(nil)
}

// ResolveShowdown settles the hand with the host-selected winner seats
// per pot. The coordinator does not rank hands.
func (t *Table) ResolveShowdown(version uint64, winnersByPot [][]uint32) (*Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.checkVersion(version); err != nil {
		return nil, err
	}

	round, deltas, err := game.ResolveShowdown(t.round, winnersByPot)
	if err != nil {
		return nil, err
	}
	t.round = round
	t.version++
	return t.finishTransition(deltas)
}

func (t *Table) checkVersion(version uint64) error {
	if t.round == nil {
		return fmt.Errorf("no hand in progress")
	}
	if version != t.version {
		return ErrStaleAction
	}
	return nil
}

// finishTransition persists the new state, reports chip deltas to the
// ledger, and copies final stacks back to the seated snapshot once the
// hand settles.
func (t *Table) finishTransition(deltas []game.ChipDelta) (*Snapshot, error) {
	settled := t.round.Settled()
	if settled {
		for seatNo, state := range t.round.Players {
			if player, ok := t.players[seatNo]; ok {
				player.Stack = state.Stack
			}
		}
	}

	if err := t.save(); err != nil {
		return nil, err
	}

	if len(deltas) > 0 {
		err := t.feed.PublishDeltas(&natsfeed.DeltaReport{
			TableCode: t.code,
			HandNum:   t.handNum,
			Version:   t.version,
			Deltas:    deltas,
		})
		if err != nil {
			tableLogger.Error().Str(logging.TableCodeKey, t.code).Msg(err.Error())
		}
	}
	if settled {
		err := t.feed.PublishSettled(&natsfeed.SettleReport{
			TableCode: t.code,
			HandNum:   t.handNum,
			Stage:     t.round.Stage,
			Pots:      t.round.Pots,
			Deltas:    deltas,
		})
		if err != nil {
			tableLogger.Error().Str(logging.TableCodeKey, t.code).Msg(err.Error())
		}
	}

	snapshot := t.snapshotLocked()
	return snapshot, nil
}

func (t *Table) save() error {
	record := &store.TableRecord{
		TableCode:  t.code,
		MaxSeats:   t.config.MaxSeats,
		SmallBlind: t.config.SmallBlind,
		BigBlind:   t.config.BigBlind,
		DealerSeat: t.dealerSeat,
		HandNum:    t.handNum,
		Version:    t.version,
		Players:    t.seatedPlayers(),
		Round:      t.round,
		HoleCards:  t.holeCards,
	}
	if t.deck != nil {
		record.Deck = t.deck.Cards()
	}
	err := t.persist.Save(t.code, record)
	if err != nil {
		return errors.Wrapf(err, "Failed to persist table %s", t.code)
	}
	return nil
}

func (t *Table) seatedPlayers() []game.SeatedPlayer {
	players := make([]game.SeatedPlayer, 0, len(t.players))
	for seatNo := uint32(1); seatNo <= t.config.MaxSeats; seatNo++ {
		if player, ok := t.players[seatNo]; ok {
			players = append(players, *player)
		}
	}
	return players
}

// HoleCards returns the two cards dealt to a seat for the current
// hand. Only the seat owner should ever see them.
func (t *Table) HoleCards(seatNo uint32) ([]poker.Card, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cards, ok := t.holeCards[seatNo]
	if !ok {
		return nil, fmt.Errorf("no cards dealt to seat %d", seatNo)
	}
	out := make([]poker.Card, len(cards))
	copy(out, cards)
	return out, nil
}
