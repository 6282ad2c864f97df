package public

import (
	"github.com/ardanlabs/jackcoin/foundation/blockchain/database"
)

// SubmitTx is the data a wallet sends to have a signed transaction added to
// the mempool.
type SubmitTx struct {
	From  string `json:"from" validate:"required"`
	To    string `json:"to" validate:"required"`
	Value uint64 `json:"value"`
	Sig   string `json:"sig" validate:"required"`
}

// MineRequest identifies the account that receives the mining reward.
type MineRequest struct {
	Beneficiary string `json:"beneficiary" validate:"required"`
}

type info struct {
	Account database.AccountID `json:"account"`
	Name    string             `json:"name"`
	Balance int64              `json:"balance"`
}

type actInfo struct {
	LatestBlock string `json:"latest_block"`
	Uncommitted int    `json:"uncommitted"`
	Accounts    []info `json:"accounts"`
}

type tx struct {
	Hash     string             `json:"hash"`
	Reward   bool               `json:"reward"`
	From     database.AccountID `json:"from,omitempty"`
	FromName string             `json:"from_name,omitempty"`
	To       database.AccountID `json:"to"`
	ToName   string             `json:"to_name"`
	Value    uint64             `json:"value"`
	Sig      string             `json:"sig,omitempty"`
}

type block struct {
	Number        uint64 `json:"number"`
	PrevBlockHash string `json:"prev_block_hash"`
	TimeStamp     uint64 `json:"timestamp"`
	Nonce         uint64 `json:"nonce"`
	Payload       string `json:"payload,omitempty"`
	Hash          string `json:"hash"`
	Trans         []tx   `json:"trans"`
}

type chainStatus struct {
	Valid  bool   `json:"valid"`
	Blocks int    `json:"blocks"`
	Error  string `json:"error,omitempty"`
}
