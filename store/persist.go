package store

import (
	"cardroom.io/server/game"
	"cardroom.io/server/poker"
)

// TableRecord is what gets persisted per table: the seated players,
// the button, and the in-flight round with every field needed to
// resume a hand after a crash or reconnect, including the undealt
// remainder of the deck and the hole cards.
type TableRecord struct {
	TableCode  string                   `json:"tableCode"`
	MaxSeats   uint32                   `json:"maxSeats"`
	SmallBlind int64                    `json:"smallBlind"`
	BigBlind   int64                    `json:"bigBlind"`
	DealerSeat uint32                   `json:"dealerSeat"`
	HandNum    uint32                   `json:"handNum"`
	Version    uint64                   `json:"version"`
	Players    []game.SeatedPlayer      `json:"players"`
	Round      *game.Round              `json:"round"`
	Deck       []poker.Card             `json:"deck,omitempty"`
	HoleCards  map[uint32][]poker.Card  `json:"holeCards,omitempty"`
}

// PersistTableState stores table records by table code.
type PersistTableState interface {
	Load(tableCode string) (*TableRecord, error)
	Save(tableCode string, record *TableRecord) error
	Remove(tableCode string) error
}
