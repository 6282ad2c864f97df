// Package mempool maintains the queue of transactions waiting to be mined.
package mempool

import (
	"sync"

	"github.com/ardanlabs/jackcoin/foundation/blockchain/database"
)

// Mempool represents the ordered queue of transactions that have been
// accepted but not yet included in a block. Transactions leave the queue in
// the order they arrived.
type Mempool struct {
	mu   sync.RWMutex
	pool []database.Tx
}

// New constructs a new, empty mempool.
func New() *Mempool {
	return &Mempool{}
}

// Count returns the current number of transactions in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Add appends a transaction to the end of the queue and returns the new
// number of transactions in the pool.
func (mp *Mempool) Add(tx database.Tx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, tx.Clone())

	return len(mp.pool)
}

// PickAll returns a copy of every transaction in queue order.
func (mp *Mempool) PickAll() []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	trans := make([]database.Tx, len(mp.pool))
	for i, tx := range mp.pool {
		trans[i] = tx.Clone()
	}

	return trans
}

// Drain removes the first n transactions from the queue. These are the
// transactions a mined block picked up. Anything that arrived after the
// block was put together stays in the pool.
func (mp *Mempool) Drain(n int) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if n >= len(mp.pool) {
		mp.pool = nil
		return
	}

	if n <= 0 {
		return
	}

	rest := make([]database.Tx, len(mp.pool)-n)
	copy(rest, mp.pool[n:])
	mp.pool = rest
}
