package store

import (
	"fmt"
	"sync"

	jsoniter "github.com/json-iterator/go"
)

// MemoryTableTracker keeps serialized table records in process memory.
// Used for tests and single-node deployments without Redis.
type MemoryTableTracker struct {
	mu           sync.RWMutex
	activeTables map[string][]byte
}

func NewMemoryTableTracker() *MemoryTableTracker {
	return &MemoryTableTracker{
		activeTables: make(map[string][]byte),
	}
}

func (m *MemoryTableTracker) Load(tableCode string) (*TableRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	recordBytes, ok := m.activeTables[tableCode]
	if !ok {
		return nil, fmt.Errorf("Table state for Table: %s is not found", tableCode)
	}
	record := &TableRecord{}
	err := jsoniter.Unmarshal(recordBytes, record)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (m *MemoryTableTracker) Save(tableCode string, record *TableRecord) error {
	recordBytes, err := jsoniter.Marshal(record)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.activeTables[tableCode] = recordBytes
	m.mu.Unlock()
	return nil
}

func (m *MemoryTableTracker) Remove(tableCode string) error {
	m.mu.Lock()
	delete(m.activeTables, tableCode)
	m.mu.Unlock()
	return nil
}
