package collection

import (
	"sync"
	"time"
)

/*
IDGenerator hands out identifiers derived from the current time in
milliseconds. Two calls within the same millisecond still get distinct,
increasing values.
*/
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

var defaultIDs = NewIDGenerator(nil)

func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}

	return &IDGenerator{now: now}
}

// NextID returns the next identifier from the process-wide generator.
func NextID() int64 {
	return defaultIDs.Next()
}

func (g *IDGenerator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.now().UnixMilli()

	if id <= g.last {
		id = g.last + 1
	}

	g.last = id
	return id
}
