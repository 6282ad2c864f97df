package state

import (
	"github.com/ardanlabs/jackcoin/foundation/blockchain/database"
	"github.com/ardanlabs/jackcoin/foundation/blockchain/genesis"
)

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveLatestBlock returns a copy of the newest block in the chain.
func (s *State) RetrieveLatestBlock() database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.chain[len(s.chain)-1].Clone()
}

// RetrieveBlocks returns a copy of every block in the chain.
func (s *State) RetrieveBlocks() []database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blocks := make([]database.Block, len(s.chain))
	for i, block := range s.chain {
		blocks[i] = block.Clone()
	}

	return blocks
}

// RetrieveMempool returns a copy of the transactions waiting to be mined.
func (s *State) RetrieveMempool() []database.Tx {
	return s.mempool.PickAll()
}

// QueryMempoolLength returns the number of transactions waiting to be mined.
func (s *State) QueryMempoolLength() int {
	return s.mempool.Count()
}
