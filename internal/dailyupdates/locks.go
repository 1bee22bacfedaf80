package dailyupdates

import (
	"sync"

	"github.com/google/uuid"
)

// customerLocks serializes ledger writes per customer. Two requests for
// different customers never block each other.
//
// Entries are never evicted: the map holds one mutex per customer written
// since startup, which stays small for this deployment's customer counts.
type customerLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newCustomerLocks() *customerLocks {
	return &customerLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (c *customerLocks) lock(id uuid.UUID) func() {
	c.mu.Lock()
	m, ok := c.locks[id]
	if !ok {
		m = &sync.Mutex{}
		c.locks[id] = m
	}
	c.mu.Unlock()

	m.Lock()
	return m.Unlock
}
