// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	v1 "github.com/ardanlabs/jackcoin/business/web/v1"
	"github.com/ardanlabs/jackcoin/foundation/blockchain/database"
	"github.com/ardanlabs/jackcoin/foundation/blockchain/index"
	"github.com/ardanlabs/jackcoin/foundation/blockchain/signature"
	"github.com/ardanlabs/jackcoin/foundation/blockchain/state"
	"github.com/ardanlabs/jackcoin/foundation/events"
	"github.com/ardanlabs/jackcoin/foundation/nameservice"
	"github.com/ardanlabs/jackcoin/foundation/validate"
	"github.com/ardanlabs/jackcoin/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log         *zap.SugaredLogger
	State       *state.State
	NS          *nameservice.NameService
	WS          websocket.Upgrader
	Evts        *events.Events
	MineTimeout time.Duration
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			// The client went away.
			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// SubmitWalletTransaction adds a signed wallet transaction to the mempool.
func (h Handlers) SubmitWalletTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var submitTx SubmitTx
	if err := web.Decode(r, &submitTx); err != nil {
		return v1.NewRequestError(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	if err := validate.Check(submitTx); err != nil {
		return err
	}

	from, err := database.ToAccountID(submitTx.From)
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	to, err := database.ToAccountID(submitTx.To)
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	sig, err := signature.ToSignatureBytes(submitTx.Sig)
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	tx := database.NewTx(from, to, submitTx.Value)
	tx.Signature = sig

	h.Log.Infow("submit wallet tran", "traceid", v.TraceID, "from", from, "to", to, "value", submitTx.Value)
	if err := h.State.SubmitWalletTransaction(tx); err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	resp := struct {
		Status string `json:"status"`
		Hash   string `json:"hash"`
	}{
		Status: "transaction added to mempool",
		Hash:   tx.ComputeHash(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Mine packages the pending transactions into a new block with the reward
// going to the beneficiary.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req MineRequest
	if err := web.Decode(r, &req); err != nil {
		return v1.NewRequestError(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	if err := validate.Check(req); err != nil {
		return err
	}

	beneficiary, err := database.ToAccountID(req.Beneficiary)
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	if h.MineTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.MineTimeout)
		defer cancel()
	}

	blk, err := h.State.MinePendingTransactions(ctx, beneficiary)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrMiningExhausted),
			errors.Is(err, context.DeadlineExceeded),
			errors.Is(err, context.Canceled):
			return v1.NewRequestError(err, http.StatusServiceUnavailable)
		}
		return err
	}

	number := h.blockNumber(blk.Hash, uint64(len(h.State.RetrieveBlocks())-1))

	return web.Respond(ctx, w, h.toBlock(number, blk), http.StatusOK)
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Mempool returns the set of uncommitted transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	mempool := h.State.RetrieveMempool()

	trans := make([]tx, len(mempool))
	for i, tran := range mempool {
		trans[i] = h.toTx(tran)
	}

	return web.Respond(ctx, w, trans, http.StatusOK)
}

// Accounts returns the current balances for all accounts or the specified
// account.
func (h Handlers) Accounts(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var balances map[database.AccountID]int64

	switch account := web.Param(r, "account"); account {
	case "":
		balances = h.State.QueryBalances()

	default:
		accountID, err := database.ToAccountID(account)
		if err != nil {
			return v1.NewRequestError(err, http.StatusBadRequest)
		}
		balances = map[database.AccountID]int64{
			accountID: h.State.QueryBalance(accountID),
		}
	}

	acts := make([]info, 0, len(balances))
	for accountID, balance := range balances {
		act := info{
			Account: accountID,
			Name:    h.NS.Lookup(accountID),
			Balance: balance,
		}
		acts = append(acts, act)
	}

	sort.Slice(acts, func(i, j int) bool {
		return acts[i].Account < acts[j].Account
	})

	ai := actInfo{
		LatestBlock: h.State.RetrieveLatestBlock().Hash,
		Uncommitted: len(h.State.RetrieveMempool()),
		Accounts:    acts,
	}

	return web.Respond(ctx, w, ai, http.StatusOK)
}

// BlocksByAccount returns all the blocks the account took part in, or all
// blocks when no account is specified.
func (h Handlers) BlocksByAccount(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var accountID database.AccountID
	if account := web.Param(r, "account"); account != "" {
		var err error
		accountID, err = database.ToAccountID(account)
		if err != nil {
			return v1.NewRequestError(err, http.StatusBadRequest)
		}
	}

	dbBlocks, err := h.State.QueryBlocksByAccount(accountID)
	if err != nil {
		return err
	}

	if len(dbBlocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	blocks := make([]block, len(dbBlocks))
	for i, blk := range dbBlocks {
		blocks[i] = h.toBlock(h.blockNumber(blk.Hash, uint64(i)), blk)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// BlockByHash returns the block stored under the specified hash.
func (h Handlers) BlockByHash(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	hash := web.Param(r, "hash")

	blk, err := h.State.QueryBlockByHash(hash)
	if err != nil {
		if errors.Is(err, index.ErrNotFound) {
			return v1.NewRequestError(err, http.StatusNotFound)
		}
		return err
	}

	return web.Respond(ctx, w, h.toBlock(h.blockNumber(hash, 0), blk), http.StatusOK)
}

// ValidateChain walks the chain and reports if every block is still intact.
func (h Handlers) ValidateChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	status := chainStatus{
		Valid:  true,
		Blocks: len(h.State.RetrieveBlocks()),
	}

	if err := h.State.VerifyChain(); err != nil {
		status.Valid = false
		status.Error = err.Error()
	}

	return web.Respond(ctx, w, status, http.StatusOK)
}

// =============================================================================

// blockNumber returns the position of the block in the chain, falling back
// to the provided number when the hash can't be resolved.
func (h Handlers) blockNumber(hash string, fallback uint64) uint64 {
	number, err := h.State.QueryBlockNumber(hash)
	if err != nil {
		return fallback
	}
	return number
}

func (h Handlers) toTx(tran database.Tx) tx {
	t := tx{
		Hash:   tran.ComputeHash(),
		Reward: tran.From.IsReward(),
		To:     tran.To,
		ToName: h.NS.Lookup(tran.To),
		Value:  tran.Value,
		Sig:    tran.SignatureString(),
	}

	if !tran.From.IsReward() {
		t.From = tran.From.AccountID()
		t.FromName = h.NS.Lookup(t.From)
	}

	return t
}

func (h Handlers) toBlock(number uint64, blk database.Block) block {
	trans := make([]tx, len(blk.Trans))
	for i, tran := range blk.Trans {
		trans[i] = h.toTx(tran)
	}

	return block{
		Number:        number,
		PrevBlockHash: blk.Header.PrevBlockHash,
		TimeStamp:     blk.Header.TimeStamp,
		Nonce:         blk.Header.Nonce,
		Payload:       blk.Header.Payload,
		Hash:          blk.Hash,
		Trans:         trans,
	}
}
