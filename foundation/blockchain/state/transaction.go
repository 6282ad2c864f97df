package state

import (
	"fmt"
	"math"

	"github.com/ardanlabs/jackcoin/foundation/blockchain/database"
)

// SubmitWalletTransaction accepts a signed transaction from a wallet for
// inclusion in the next mined block. There is no check the sender holds
// enough value to cover the transaction.
func (s *State) SubmitWalletTransaction(tx database.Tx) error {
	if err := s.validateTransaction(tx); err != nil {
		s.evHandler("state: SubmitWalletTransaction: REJECTED: tx[%s]: %s", tx, err)
		return err
	}

	n := s.mempool.Add(tx)
	s.evHandler("state: SubmitWalletTransaction: tx[%s]: mempool[%d]", tx, n)

	if s.Worker != nil {
		s.Worker.SignalStartMining()
	}

	return nil
}

// =============================================================================

// validateTransaction takes the signed transaction and validates it has
// the required parties and a proper signature.
func (s *State) validateTransaction(tx database.Tx) error {

	// Only mining mints reward transactions.
	if tx.From.IsReward() {
		return fmt.Errorf("%w: reward transactions can't be submitted", database.ErrMalformedTransaction)
	}

	if tx.From.AccountID() == "" || tx.To == "" {
		return database.ErrMalformedTransaction
	}

	// Balances are signed, so a value must fit in an int64.
	if tx.Value > math.MaxInt64 {
		return fmt.Errorf("%w: value[%d] is more than the max of %d", database.ErrMalformedTransaction, tx.Value, int64(math.MaxInt64))
	}

	ok, err := tx.IsValid(s.verifier)
	if err != nil {
		return err
	}

	if !ok {
		return database.ErrInvalidTransaction
	}

	return nil
}
