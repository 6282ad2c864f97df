package database

import (
	"fmt"

	"github.com/ardanlabs/jackcoin/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/rlp"
)

// RootHash is the previous block hash recorded by the genesis block.
const RootHash = "0"

// =============================================================================

// BlockHeader represents common information required for each block.
type BlockHeader struct {
	PrevBlockHash string `json:"prev_block_hash"`   // Hash of the previous block in the chain.
	TimeStamp     uint64 `json:"timestamp"`         // Time the block was constructed in milliseconds.
	Nonce         uint64 `json:"nonce"`             // Value identified to solve the hash solution.
	Payload       string `json:"payload,omitempty"` // Sentinel data carried by the genesis block.
}

// Block represents a group of transactions batched together.
type Block struct {
	Header BlockHeader `json:"header"`
	Trans  []Tx        `json:"trans"`
	Hash   string      `json:"hash"`
}

// NewBlock constructs a block for the transactions that still needs to be
// mined. The nonce starts at zero and the hash is computed right away.
func NewBlock(timeStamp uint64, trans []Tx, prevBlockHash string) Block {
	b := Block{
		Header: BlockHeader{
			PrevBlockHash: prevBlockHash,
			TimeStamp:     timeStamp,
		},
		Trans: cloneTrans(trans),
	}
	b.Hash = b.ComputeHash()

	return b
}

// NewGenesisBlock constructs the first block of a chain. It carries a
// sentinel payload instead of transactions.
func NewGenesisBlock(timeStamp uint64, payload string) Block {
	b := Block{
		Header: BlockHeader{
			PrevBlockHash: RootHash,
			TimeStamp:     timeStamp,
			Payload:       payload,
		},
	}
	b.Hash = b.ComputeHash()

	return b
}

// ComputeHash returns the hash over the previous block hash, timestamp,
// payload, ordered transactions and nonce.
func (b Block) ComputeHash() string {
	trans, err := SerializeTransactions(b.Trans)
	if err != nil {
		return signature.ZeroHash
	}

	data, err := rlp.EncodeToBytes(rlpBlock{
		PrevBlockHash: b.Header.PrevBlockHash,
		TimeStamp:     b.Header.TimeStamp,
		Payload:       b.Header.Payload,
		Trans:         trans,
		Nonce:         b.Header.Nonce,
	})
	if err != nil {
		return signature.ZeroHash
	}

	return signature.HashBytes(data)
}

// HasValidTransactions checks every transaction in the block. A transaction
// that can't be verified at all counts as invalid.
func (b Block) HasValidTransactions(verifier Verifier) bool {
	for _, tx := range b.Trans {
		ok, err := tx.IsValid(verifier)
		if err != nil || !ok {
			return false
		}
	}

	return true
}

// ValidateBlock takes a block and validates it against the block that
// precedes it in the chain. Hashes are always recomputed so changes to any
// field of either block are caught.
func (b Block) ValidateBlock(previousBlock Block, verifier Verifier) error {
	if !b.HasValidTransactions(verifier) {
		return fmt.Errorf("%w: block[%s] has invalid transactions", ErrChainInvalid, b.Hash)
	}

	prevHash := previousBlock.ComputeHash()
	if previousBlock.Hash != prevHash {
		return fmt.Errorf("%w: previous block hash doesn't match its contents, got %s, exp %s", ErrChainInvalid, previousBlock.Hash, prevHash)
	}

	hash := b.ComputeHash()
	if b.Hash != hash {
		return fmt.Errorf("%w: block hash doesn't match its contents, got %s, exp %s", ErrChainInvalid, b.Hash, hash)
	}

	if b.Header.PrevBlockHash != prevHash {
		return fmt.Errorf("%w: parent block hash doesn't match our known parent, got %s, exp %s", ErrChainInvalid, b.Header.PrevBlockHash, prevHash)
	}

	return nil
}

// Clone returns a copy of the block that shares no memory.
func (b Block) Clone() Block {
	b.Trans = cloneTrans(b.Trans)
	return b
}

// =============================================================================

// SerializeTransactions returns the canonical encoding of the ordered list of
// transactions that is used as input to the block hash.
func SerializeTransactions(trans []Tx) ([]byte, error) {
	list := make([]rlpTx, len(trans))
	for i, tx := range trans {
		list[i] = rlpTx{
			Reward: tx.From.IsReward(),
			From:   string(tx.From.AccountID()),
			To:     string(tx.To),
			Value:  tx.Value,
			Sig:    tx.Signature,
		}
	}

	return rlp.EncodeToBytes(list)
}

// rlpTx is the encoding of a transaction inside the block hash.
type rlpTx struct {
	Reward bool
	From   string
	To     string
	Value  uint64
	Sig    []byte
}

// rlpBlock is the encoding of a block for hashing.
type rlpBlock struct {
	PrevBlockHash string
	TimeStamp     uint64
	Payload       string
	Trans         rlp.RawValue
	Nonce         uint64
}

// cloneTrans makes a deep copy of the transactions.
func cloneTrans(trans []Tx) []Tx {
	if trans == nil {
		return nil
	}

	cpy := make([]Tx, len(trans))
	for i, tx := range trans {
		cpy[i] = tx.Clone()
	}

	return cpy
}
