package database

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// POWArgs represents the set of arguments required to run POW.
type POWArgs struct {
	PrevBlock   Block
	Trans       []Tx
	Difficulty  uint
	MaxAttempts uint64
	EvHandler   func(v string, args ...any)
}

// POW constructs a new Block linked to the previous block and performs the
// work to find a nonce that solves the cryptographic POW puzzle.
func POW(ctx context.Context, args POWArgs) (Block, error) {
	nb := NewBlock(uint64(time.Now().UTC().UnixMilli()), args.Trans, args.PrevBlock.Hash)

	return nb.Mine(ctx, args.Difficulty, WithMaxAttempts(args.MaxAttempts), WithEvHandler(args.EvHandler))
}

// =============================================================================

// mineOptions holds the optional bounds and reporting for a mining run.
type mineOptions struct {
	maxAttempts uint64
	evHandler   func(v string, args ...any)
}

// MineOption changes the behavior of Mine.
type MineOption func(o *mineOptions)

// WithMaxAttempts caps the number of hashes tried. Zero means no cap.
func WithMaxAttempts(maxAttempts uint64) MineOption {
	return func(o *mineOptions) {
		o.maxAttempts = maxAttempts
	}
}

// WithEvHandler sets a function to receive mining progress events.
func WithEvHandler(evHandler func(v string, args ...any)) MineOption {
	return func(o *mineOptions) {
		if evHandler != nil {
			o.evHandler = evHandler
		}
	}
}

// Mine searches for a nonce that makes the block hash satisfy the difficulty.
// The nonce is incremented from its current value, one at a time. The search
// is unbounded unless a max attempts option is provided or the context is
// cancelled. The block is not modified, the solved block is returned.
func (b Block) Mine(ctx context.Context, difficulty uint, options ...MineOption) (Block, error) {
	o := mineOptions{
		evHandler: func(v string, args ...any) {},
	}
	for _, option := range options {
		option(&o)
	}

	ev := o.evHandler
	ev("database: Mine: MINING: started: difficulty[%d]", difficulty)

	// Log the transactions that are a part of this potential block.
	for _, tx := range b.Trans {
		ev("database: Mine: MINING: tx[%s]", tx)
	}

	nb := b.Clone()
	nb.Hash = nb.ComputeHash()

	var attempts uint64
	for !IsHashSolved(difficulty, nb.Hash) {

		// Did we run out of attempts trying to solve the problem.
		if o.maxAttempts > 0 && attempts >= o.maxAttempts {
			ev("database: Mine: MINING: EXHAUSTED: attempts[%d]", attempts)
			return Block{}, fmt.Errorf("%w: attempts[%d]", ErrMiningExhausted, attempts)
		}

		// Did we timeout trying to solve the problem.
		if ctx.Err() != nil {
			ev("database: Mine: MINING: CANCELLED: attempts[%d]", attempts)
			return Block{}, ctx.Err()
		}

		nb.Header.Nonce++
		nb.Hash = nb.ComputeHash()

		attempts++
		if attempts%1_000_000 == 0 {
			ev("database: Mine: MINING: attempts[%d]", attempts)
		}
	}

	ev("database: Mine: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: attempts[%d]", nb.Header.PrevBlockHash, nb.Hash, attempts)

	return nb, nil
}

// IsHashSolved checks the hash to make sure it complies with the POW rules.
// The hex digits after the 0x prefix need to start with difficulty 0's.
func IsHashSolved(difficulty uint, hash string) bool {
	hash = strings.TrimPrefix(hash, "0x")

	if int(difficulty) > len(hash) {
		return false
	}

	return strings.HasPrefix(hash, strings.Repeat("0", int(difficulty)))
}
