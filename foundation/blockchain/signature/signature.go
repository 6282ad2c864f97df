// Package signature provides helper functions for handling the blockchain
// hashing and signature needs.
package signature

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/json"
	"errors"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// ZeroHash represents a hash code of zeros.
const ZeroHash string = "0x0000000000000000000000000000000000000000000000000000000000000000"

// =============================================================================

// Digest returns the 32 byte sha256 digest for the JSON encoding of the value.
// A value that can't be marshaled produces a digest of zeros.
func Digest(value any) []byte {
	data, err := json.Marshal(value)
	if err != nil {
		return make([]byte, sha256.Size)
	}

	hash := sha256.Sum256(data)
	return hash[:]
}

// Hash returns a unique string for the value.
func Hash(value any) string {
	return hexutil.Encode(Digest(value))
}

// HashBytes returns a unique string for an already encoded slice of bytes.
func HashBytes(data []byte) string {
	hash := sha256.Sum256(data)
	return hexutil.Encode(hash[:])
}

// =============================================================================

// PublicID returns the identifier for the public key. This is the hex
// encoding of the uncompressed public key.
func PublicID(publicKey ecdsa.PublicKey) string {
	return hexutil.Encode(crypto.FromECDSAPub(&publicKey))
}

// Sign uses the specified private key to sign the digest. The signature is
// returned in the 65 byte [R|S|V] format.
func Sign(digest []byte, privateKey *ecdsa.PrivateKey) ([]byte, error) {
	if len(digest) != sha256.Size {
		return nil, errors.New("invalid digest length")
	}

	// Sign the digest with the private key to produce a signature.
	sig, err := crypto.Sign(digest, privateKey)
	if err != nil {
		return nil, err
	}

	// Extract the public key from the digest and the signature.
	publicKey, err := crypto.SigToPub(digest, sig)
	if err != nil {
		return nil, err
	}

	// Check the public key extracted from the digest and signature.
	rs := sig[:crypto.RecoveryIDOffset]
	if !crypto.VerifySignature(crypto.FromECDSAPub(publicKey), digest, rs) {
		return nil, errors.New("invalid signature")
	}

	return sig, nil
}

// Verify checks the signature was produced over the digest by the private key
// belonging to the public identifier. An error is returned only when the
// public identifier itself can't be decoded. A signature that doesn't check
// out returns false.
func Verify(publicID string, digest []byte, sig []byte) (bool, error) {
	publicKey, err := hexutil.Decode(publicID)
	if err != nil {
		return false, err
	}

	if len(sig) != crypto.SignatureLength || len(digest) != sha256.Size {
		return false, nil
	}

	// Check the [R|S] values against the public key.
	if !crypto.VerifySignature(publicKey, digest, sig[:crypto.RecoveryIDOffset]) {
		return false, nil
	}

	// The recovery id has to point back to the same public key.
	recovered, err := crypto.Ecrecover(digest, sig)
	if err != nil {
		return false, nil
	}

	if !bytes.Equal(recovered, publicKey) {
		return false, nil
	}

	return true, nil
}

// SignatureString returns the signature as a string.
func SignatureString(sig []byte) string {
	if len(sig) == 0 {
		return ""
	}

	return hexutil.Encode(sig)
}

// ToSignatureBytes converts a hex representation of the signature back
// into the 65 byte [R|S|V] format.
func ToSignatureBytes(sigStr string) ([]byte, error) {
	sig, err := hexutil.Decode(sigStr)
	if err != nil {
		return nil, err
	}

	if len(sig) != crypto.SignatureLength {
		return nil, errors.New("invalid signature length")
	}

	return sig, nil
}
