package state

import (
	"fmt"

	"github.com/ardanlabs/jackcoin/foundation/blockchain/database"
)

// QueryBalance folds over every transaction in the chain and returns the
// balance for the account. Value sent is subtracted and value received is
// added, so the result can be negative.
func (s *State) QueryBalance(accountID database.AccountID) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var balance int64
	for _, block := range s.chain {
		for _, tx := range block.Trans {
			if !tx.From.IsReward() && tx.From.AccountID() == accountID {
				balance -= int64(tx.Value)
			}
			if tx.To == accountID {
				balance += int64(tx.Value)
			}
		}
	}

	return balance
}

// QueryBalances returns the balance of every account that shows up in the
// chain.
func (s *State) QueryBalances() map[database.AccountID]int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	balances := make(map[database.AccountID]int64)
	for _, block := range s.chain {
		for _, tx := range block.Trans {
			if !tx.From.IsReward() {
				balances[tx.From.AccountID()] -= int64(tx.Value)
			}
			balances[tx.To] += int64(tx.Value)
		}
	}

	return balances
}

// QueryBlockByHash returns the block stored under the specified hash.
func (s *State) QueryBlockByHash(hash string) (database.Block, error) {
	number, err := s.index.BlockNumber(hash)
	if err != nil {
		return database.Block{}, err
	}

	return s.blockByNumber(number)
}

// QueryBlockNumber returns the position in the chain of the block stored
// under the specified hash.
func (s *State) QueryBlockNumber(hash string) (uint64, error) {
	return s.index.BlockNumber(hash)
}

// QueryBlocksByAccount returns the set of blocks the account sent or received
// value in. If the account is empty, all blocks are returned.
func (s *State) QueryBlocksByAccount(accountID database.AccountID) ([]database.Block, error) {
	if accountID == "" {
		return s.RetrieveBlocks(), nil
	}

	numbers, err := s.index.BlockNumbers(accountID)
	if err != nil {
		return nil, err
	}

	blocks := make([]database.Block, 0, len(numbers))
	for _, number := range numbers {
		block, err := s.blockByNumber(number)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}

	return blocks, nil
}

// =============================================================================

// blockByNumber returns a copy of the block at the specified position.
func (s *State) blockByNumber(number uint64) (database.Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if number >= uint64(len(s.chain)) {
		return database.Block{}, fmt.Errorf("block[%d] does not exist", number)
	}

	return s.chain[number].Clone(), nil
}
