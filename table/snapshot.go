package table

import (
	"cardroom.io/server/game"
)

// Snapshot is the externally visible state of a table after a
// transition. Hole cards are not part of it; they are fetched per seat.
type Snapshot struct {
	TableCode  string              `json:"tableCode"`
	Config     Config              `json:"config"`
	DealerSeat uint32              `json:"dealerSeat"`
	HandNum    uint32              `json:"handNum"`
	Version    uint64              `json:"version"`
	Players    []game.SeatedPlayer `json:"players"`
	Round      *game.Round         `json:"round,omitempty"`
}

// Snapshot returns the current table state.
func (t *Table) Snapshot() *Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Table) snapshotLocked() *Snapshot {
	snapshot := &Snapshot{
		TableCode:  t.code,
		Config:     t.config,
		DealerSeat: t.dealerSeat,
		HandNum:    t.handNum,
		Version:    t.version,
		Players:    t.seatedPlayers(),
	}
	if t.round != nil {
		snapshot.Round = t.round.Clone()
	}
	return snapshot
}
