package state

import "fmt"

// VerifyChain walks the chain from the first block after genesis and checks
// each block against its parent. The transactions must be valid and every
// stored hash must match a fresh computation over the block contents. The
// error describes the first block that fails.
func (s *State) VerifyChain() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := 1; i < len(s.chain); i++ {
		if err := s.chain[i].ValidateBlock(s.chain[i-1], s.verifier); err != nil {
			return fmt.Errorf("block[%d]: %w", i, err)
		}
	}

	return nil
}

// ValidateChain reports whether the chain passes VerifyChain. Tampering is
// reported as false, never as an error.
func (s *State) ValidateChain() bool {
	if err := s.VerifyChain(); err != nil {
		s.evHandler("state: ValidateChain: INVALID: %s", err)
		return false
	}

	return true
}
