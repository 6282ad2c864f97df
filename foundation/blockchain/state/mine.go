package state

import (
	"context"
	"fmt"

	"github.com/ardanlabs/jackcoin/foundation/blockchain/database"
)

// MinePendingTransactions packages every pending transaction, plus a reward
// for the specified account, into a new block linked to the newest block in
// the chain. The block is mined and appended, and the transactions it picked
// up leave the mempool. Only one mining operation runs at a time.
func (s *State) MinePendingTransactions(ctx context.Context, rewardID database.AccountID) (database.Block, error) {
	s.miningMu.Lock()
	defer s.miningMu.Unlock()

	if rewardID == "" {
		return database.Block{}, fmt.Errorf("%w: reward account is required", database.ErrMalformedTransaction)
	}

	s.evHandler("state: MinePendingTransactions: MINING: started: reward[%s]", rewardID)
	defer s.evHandler("state: MinePendingTransactions: MINING: completed")

	// Capture the queue as it stands right now and add the reward.
	trans := s.mempool.PickAll()
	picked := len(trans)
	trans = append(trans, database.NewRewardTx(rewardID, s.genesis.MiningReward))

	s.evHandler("state: MinePendingTransactions: MINING: perform POW: trans[%d]", len(trans))

	// Attempt to create a new block by solving the POW puzzle. This can be cancelled.
	block, err := database.POW(ctx, database.POWArgs{
		PrevBlock:   s.RetrieveLatestBlock(),
		Trans:       trans,
		Difficulty:  uint(s.genesis.Difficulty),
		MaxAttempts: s.maxAttempts,
		EvHandler:   s.evHandler,
	})
	if err != nil {
		s.evHandler("state: MinePendingTransactions: MINING: ERROR: %s", err)
		return database.Block{}, err
	}

	s.evHandler("state: MinePendingTransactions: MINING: update local state")

	if err := s.appendBlock(block); err != nil {
		return database.Block{}, err
	}

	s.mempool.Drain(picked)

	return block.Clone(), nil
}

// =============================================================================

// appendBlock adds the mined block to the end of the chain and the index.
func (s *State) appendBlock(block database.Block) error {
	s.mu.Lock()
	s.chain = append(s.chain, block)
	number := uint64(len(s.chain) - 1)
	s.mu.Unlock()

	if err := s.index.Add(number, block); err != nil {
		return fmt.Errorf("indexing block[%d]: %w", number, err)
	}

	s.evHandler("state: MinePendingTransactions: block[%d]: hash[%s]: trans[%d]", number, block.Hash, len(block.Trans))

	return nil
}
