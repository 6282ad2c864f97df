// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"sync"

	"github.com/ardanlabs/jackcoin/foundation/blockchain/database"
	"github.com/ardanlabs/jackcoin/foundation/blockchain/genesis"
	"github.com/ardanlabs/jackcoin/foundation/blockchain/index"
	"github.com/ardanlabs/jackcoin/foundation/blockchain/mempool"
	"github.com/ardanlabs/jackcoin/foundation/blockchain/signature"
)

// EventHandler defines a function that is called when events
// occur in the processing of the ledger.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for background mining.
type Worker interface {
	Shutdown()
	SignalStartMining()
	SignalCancelMining()
}

// =============================================================================

// Config represents the configuration required to start the ledger.
type Config struct {
	Genesis     genesis.Genesis
	Verifier    database.Verifier
	MaxAttempts uint64
	EvHandler   EventHandler
}

// State manages the chain of blocks and the transactions waiting to be mined.
type State struct {
	Worker Worker

	mu       sync.RWMutex
	miningMu sync.Mutex

	genesis     genesis.Genesis
	verifier    database.Verifier
	maxAttempts uint64
	evHandler   EventHandler

	chain   []database.Block
	mempool *mempool.Mempool
	index   *index.Index
}

// New constructs a new ledger holding only the genesis block.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if err := cfg.Genesis.Validate(); err != nil {
		return nil, err
	}

	// Signatures are checked with the stateless secp256k1 capability unless
	// the caller provides something else.
	verifier := cfg.Verifier
	if verifier == nil {
		verifier = signature.Secp256k1{}
	}

	// The index provides the lookups by hash and account.
	idx, err := index.New()
	if err != nil {
		return nil, err
	}

	// The chain always starts with the genesis block.
	genesisBlock := database.NewGenesisBlock(cfg.Genesis.TimeStamp(), cfg.Genesis.Payload)
	if err := idx.Add(0, genesisBlock); err != nil {
		idx.Close()
		return nil, err
	}

	state := State{
		genesis:     cfg.Genesis,
		verifier:    verifier,
		maxAttempts: cfg.MaxAttempts,
		evHandler:   ev,

		chain:   []database.Block{genesisBlock},
		mempool: mempool.New(),
		index:   idx,
	}

	ev("state: New: genesis block[%s]", genesisBlock.Hash)

	return &state, nil
}

// Shutdown cleanly releases the ledger resources.
func (s *State) Shutdown() error {
	s.evHandler("state: Shutdown: started")
	defer s.evHandler("state: Shutdown: completed")

	// Make sure the worker is stopped before the index goes away.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return s.index.Close()
}
