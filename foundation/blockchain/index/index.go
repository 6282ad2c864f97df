// Package index maintains lookups from block hashes and accounts to block
// numbers. The index lives in an in-memory leveldb so nothing touches disk.
package index

import (
	"encoding/binary"
	"errors"
	"sync"

	"github.com/ardanlabs/jackcoin/foundation/blockchain/database"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// ErrNotFound is returned when a block hash is not in the index.
var ErrNotFound = errors.New("block not found")

// Key prefixes for the different lookups.
const (
	hashPrefix    = "blk:"
	accountPrefix = "act:"
)

// =============================================================================

// Index manages the block lookups.
type Index struct {
	mu sync.RWMutex
	db *leveldb.DB
}

// New constructs an empty index.
func New() (*Index, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, err
	}

	return &Index{db: db}, nil
}

// Close releases the index.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	return idx.db.Close()
}

// Add records the block under its number. The block hash and every account
// that sends or receives in the block point back to the number.
func (idx *Index) Add(number uint64, block database.Block) error {
	num := make([]byte, 8)
	binary.BigEndian.PutUint64(num, number)

	batch := new(leveldb.Batch)
	batch.Put(hashKey(block.Hash), num)

	for _, tx := range block.Trans {
		if !tx.From.IsReward() {
			batch.Put(accountKey(tx.From.AccountID(), num), nil)
		}
		batch.Put(accountKey(tx.To, num), nil)
	}

	// The read lock only guards the db against Close. leveldb serializes
	// its own writes.
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.db.Write(batch, nil)
}

// BlockNumber returns the number of the block with the specified hash.
func (idx *Index) BlockNumber(hash string) (uint64, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	num, err := idx.db.Get(hashKey(hash), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}

	return binary.BigEndian.Uint64(num), nil
}

// BlockNumbers returns the numbers of the blocks the account took part in,
// in ascending order.
func (idx *Index) BlockNumbers(accountID database.AccountID) ([]uint64, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	prefix := accountKey(accountID, nil)

	iter := idx.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()

	var numbers []uint64
	for iter.Next() {
		key := iter.Key()
		numbers = append(numbers, binary.BigEndian.Uint64(key[len(prefix):]))
	}

	if err := iter.Error(); err != nil {
		return nil, err
	}

	return numbers, nil
}

// =============================================================================

// hashKey builds the key for a block hash.
func hashKey(hash string) []byte {
	return []byte(hashPrefix + hash)
}

// accountKey builds the key for an account and block number. The account is
// followed by a separator so one account can't be the prefix of another.
func accountKey(accountID database.AccountID, num []byte) []byte {
	key := []byte(accountPrefix + string(accountID) + "/")
	return append(key, num...)
}
