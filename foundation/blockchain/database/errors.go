package database

import "errors"

// Set of errors raised while building, signing, submitting and mining
// transactions and blocks.
var (
	// ErrAuthorization is returned when a transaction is signed with a key
	// that doesn't belong to the sender.
	ErrAuthorization = errors.New("cannot sign on behalf of another identity")

	// ErrMissingSignature is returned when a wallet transaction is verified
	// before it was signed.
	ErrMissingSignature = errors.New("no signature found")

	// ErrMalformedTransaction is returned when a transaction is missing the
	// sender or the recipient.
	ErrMalformedTransaction = errors.New("transaction must include from and to account")

	// ErrInvalidTransaction is returned when a transaction fails verification.
	ErrInvalidTransaction = errors.New("cannot add invalid transaction")

	// ErrChainInvalid is returned when the chain fails structural validation.
	ErrChainInvalid = errors.New("chain is invalid")

	// ErrMiningExhausted is returned when the POW search hits its attempt
	// limit without finding a solution.
	ErrMiningExhausted = errors.New("mining attempts exhausted")
)
