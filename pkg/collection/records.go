package collection

import (
	"context"
	"fmt"
	"sync"
)

var (
	ErrRecordNotFound = fmt.Errorf("record not found")
)

/*
RecordStore is durable key/value storage holding one serialized collection
per key.
*/
type RecordStore interface {
	ReadRecord(ctx context.Context, key string) ([]byte, error)
	WriteRecord(ctx context.Context, key string, value []byte) error
}

/*
MemoryRecords is a RecordStore kept in process memory. It backs tests and
runs where no database is configured.
*/
type MemoryRecords struct {
	mu      sync.Mutex
	records map[string][]byte
}

func NewMemoryRecords() *MemoryRecords {
	return &MemoryRecords{
		records: map[string][]byte{},
	}
}

func (m *MemoryRecords) ReadRecord(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	value, ok := m.records[key]

	if !ok {
		return nil, ErrRecordNotFound
	}

	return append([]byte(nil), value...), nil
}

func (m *MemoryRecords) WriteRecord(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[key] = append([]byte(nil), value...)
	return nil
}
