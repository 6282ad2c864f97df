package state

import (
	"fmt"

	"github.com/ardanlabs/jackcoin/foundation/blockchain/database"
)

// TamperBlock gives direct write access to a block already in the chain.
// It exists to show ValidateChain catching changes to mined blocks. The
// index is not updated.
func (s *State) TamperBlock(number int, fn func(b *database.Block)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if number < 0 || number >= len(s.chain) {
		return fmt.Errorf("block[%d] does not exist", number)
	}

	s.evHandler("state: TamperBlock: block[%d]", number)
	fn(&s.chain[number])

	return nil
}
