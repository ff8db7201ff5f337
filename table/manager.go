package table

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"cardroom.io/server/game"
	"cardroom.io/server/logging"
	"cardroom.io/server/poker"
	"cardroom.io/server/store"
)

var managerLogger = log.With().Str("logger_name", "table::manager").Logger()

// Manager is the arena of active tables, keyed by table code.
type Manager struct {
	mu           sync.Mutex
	activeTables map[string]*Table
	persist      store.PersistTableState
	feed         Feed
	defaults     Config
}

func NewManager(persist store.PersistTableState, feed Feed, defaults Config) *Manager {
	return &Manager{
		activeTables: make(map[string]*Table),
		persist:      persist,
		feed:         feed,
		defaults:     defaults,
	}
}

// NewTable creates a table with a fresh code. Zero config values fall
// back to the server defaults.
func (m *Manager) NewTable(config Config) (*Table, error) {
	if config.MaxSeats == 0 {
		config.MaxSeats = m.defaults.MaxSeats
	}
	if config.SmallBlind == 0 {
		config.SmallBlind = m.defaults.SmallBlind
	}
	if config.BigBlind == 0 {
		config.BigBlind = m.defaults.BigBlind
	}
	if config.MinPlayers == 0 {
		config.MinPlayers = m.defaults.MinPlayers
	}
	if config.SmallBlind <= 0 || config.BigBlind < config.SmallBlind {
		return nil, fmt.Errorf("invalid blinds: sb %d bb %d", config.SmallBlind, config.BigBlind)
	}

	tableCode := strings.Split(uuid.New().String(), "-")[0]
	t := NewTable(tableCode, config, m.persist, m.feed)

	m.mu.Lock()
	m.activeTables[tableCode] = t
	m.mu.Unlock()

	managerLogger.Info().Str(logging.TableCodeKey, tableCode).Msg("Table created")
	return t, nil
}

// GetTable returns an active table, reloading it from the persisted
// record when the coordinator restarted mid-hand.
func (m *Manager) GetTable(tableCode string) (*Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := m.activeTables[tableCode]; ok {
		return t, nil
	}

	record, err := m.persist.Load(tableCode)
	if err != nil {
		return nil, fmt.Errorf("table %s not found", tableCode)
	}
	t := resumeTable(record, m.persist, m.feed)
	m.activeTables[tableCode] = t
	managerLogger.Info().
		Str(logging.TableCodeKey, tableCode).
		Uint32(logging.HandNumKey, record.HandNum).
		Msg("Table resumed from persisted state")
	return t, nil
}

// EndTable removes a table and its persisted record.
func (m *Manager) EndTable(tableCode string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.activeTables[tableCode]; ok {
		delete(m.activeTables, tableCode)
	}
	if err := m.persist.Remove(tableCode); err != nil {
		managerLogger.Error().Str(logging.TableCodeKey, tableCode).Msg(err.Error())
	}
}

func resumeTable(record *store.TableRecord, persist store.PersistTableState, feed Feed) *Table {
	t := NewTable(record.TableCode, Config{
		MaxSeats:   record.MaxSeats,
		SmallBlind: record.SmallBlind,
		BigBlind:   record.BigBlind,
	}, persist, feed)
	t.dealerSeat = record.DealerSeat
	t.handNum = record.HandNum
	t.version = record.Version
	t.round = record.Round
	if record.Deck != nil {
		t.deck = poker.NewDeckFromCards(record.Deck)
	}
	if record.HoleCards != nil {
		t.holeCards = record.HoleCards
	}
	for i := range record.Players {
		player := record.Players[i]
		t.players[player.SeatNo] = &game.SeatedPlayer{
			PlayerID: player.PlayerID,
			SeatNo:   player.SeatNo,
			Stack:    player.Stack,
			Active:   player.Active,
		}
	}
	return t
}
