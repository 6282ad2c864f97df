package database

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ardanlabs/jackcoin/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Signer represents the behavior of a key owner who can produce signatures.
// The blockchain never sees the private key behind it.
type Signer interface {
	PublicID() string
	Sign(digest []byte) ([]byte, error)
}

// Verifier represents the behavior required to check a signature against
// the public identifier that supposedly produced it.
type Verifier interface {
	Verify(publicID string, digest []byte, sig []byte) bool
}

// =============================================================================

// Sender identifies who is giving up value in a transaction. It's either a
// wallet account or the system issuing a mining reward.
type Sender struct {
	accountID AccountID
	reward    bool
}

// RewardSender returns the sender used by mining reward transactions.
func RewardSender() Sender {
	return Sender{reward: true}
}

// WalletSender returns a sender for the specified account.
func WalletSender(accountID AccountID) Sender {
	return Sender{accountID: accountID}
}

// IsReward reports whether this sender is the system issuing a reward.
func (s Sender) IsReward() bool {
	return s.reward
}

// AccountID returns the account for a wallet sender. A reward sender has
// no account and returns an empty value.
func (s Sender) AccountID() AccountID {
	return s.accountID
}

// String implements the fmt.Stringer interface for logging.
func (s Sender) String() string {
	if s.reward {
		return "reward"
	}
	return string(s.accountID)
}

// MarshalJSON implements the json.Marshaler interface. A reward sender is
// encoded as null.
func (s Sender) MarshalJSON() ([]byte, error) {
	if s.reward {
		return []byte("null"), nil
	}
	return json.Marshal(string(s.accountID))
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (s *Sender) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*s = RewardSender()
		return nil
	}

	var accountID string
	if err := json.Unmarshal(data, &accountID); err != nil {
		return err
	}

	*s = WalletSender(AccountID(accountID))
	return nil
}

// =============================================================================

// Tx is the transactional information between two parties.
type Tx struct {
	From      Sender        `json:"from"`          // Account giving up the value, or the reward sender.
	To        AccountID     `json:"to"`            // Account receiving the value.
	Value     uint64        `json:"value"`         // Monetary value transferred.
	Signature hexutil.Bytes `json:"sig,omitempty"` // Signature of the sender over the transaction hash.
}

// NewTx constructs a new wallet transaction. It still needs to be signed.
func NewTx(from AccountID, to AccountID, value uint64) Tx {
	return Tx{
		From:  WalletSender(from),
		To:    to,
		Value: value,
	}
}

// NewRewardTx constructs the transaction that pays a miner.
func NewRewardTx(to AccountID, value uint64) Tx {
	return Tx{
		From:  RewardSender(),
		To:    to,
		Value: value,
	}
}

// ComputeHash returns the hash of the sender, recipient and value. The
// signature is not part of the hash since the hash is what gets signed.
func (tx Tx) ComputeHash() string {
	return signature.Hash(tx.hashable())
}

// Sign uses the signer to sign the transaction in place. The signer must be
// the owner of the sending account.
func (tx *Tx) Sign(signer Signer) error {
	if tx.From.IsReward() {
		return fmt.Errorf("%w: reward transactions are not signed", ErrAuthorization)
	}

	if signer.PublicID() != string(tx.From.AccountID()) {
		return fmt.Errorf("%w: signer[%s] sender[%s]", ErrAuthorization, signer.PublicID(), tx.From)
	}

	sig, err := signer.Sign(signature.Digest(tx.hashable()))
	if err != nil {
		return err
	}

	tx.Signature = sig
	return nil
}

// IsValid verifies the signature belongs to the sender. Reward transactions
// are always valid. A signature that fails verification returns false, a
// wallet transaction with no signature at all returns an error.
func (tx Tx) IsValid(verifier Verifier) (bool, error) {
	if tx.From.IsReward() {
		return true, nil
	}

	if len(tx.Signature) == 0 {
		return false, ErrMissingSignature
	}

	digest := signature.Digest(tx.hashable())
	return verifier.Verify(string(tx.From.AccountID()), digest, tx.Signature), nil
}

// SignatureString returns the signature as a string.
func (tx Tx) SignatureString() string {
	return signature.SignatureString(tx.Signature)
}

// Clone returns a copy of the transaction that shares no memory.
func (tx Tx) Clone() Tx {
	if tx.Signature != nil {
		sig := make(hexutil.Bytes, len(tx.Signature))
		copy(sig, tx.Signature)
		tx.Signature = sig
	}

	return tx
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%d", tx.From, tx.To, tx.Value)
}

// hashable returns the fields that make up the transaction hash.
func (tx Tx) hashable() any {
	return struct {
		From  Sender    `json:"from"`
		To    AccountID `json:"to"`
		Value uint64    `json:"value"`
	}{
		From:  tx.From,
		To:    tx.To,
		Value: tx.Value,
	}
}
