package signature

import (
	"crypto/ecdsa"
	"encoding/hex"

	"github.com/ethereum/go-ethereum/crypto"
)

// Key wraps a secp256k1 private key and provides the signing capability
// used by wallets. The blockchain core never stores keys, it only asks a
// Key for its public identifier and for signatures.
type Key struct {
	privateKey *ecdsa.PrivateKey
}

// NewKey wraps the specified private key.
func NewKey(privateKey *ecdsa.PrivateKey) Key {
	return Key{privateKey: privateKey}
}

// GenerateKey constructs a new random key.
func GenerateKey() (Key, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return Key{}, err
	}

	return NewKey(privateKey), nil
}

// HexToKey constructs a key from the hex encoding of the private key.
func HexToKey(hexKey string) (Key, error) {
	privateKey, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return Key{}, err
	}

	return NewKey(privateKey), nil
}

// LoadKey reads the hex encoded private key from the specified file.
func LoadKey(path string) (Key, error) {
	privateKey, err := crypto.LoadECDSA(path)
	if err != nil {
		return Key{}, err
	}

	return NewKey(privateKey), nil
}

// Save writes the hex encoded private key to the specified file.
func (k Key) Save(path string) error {
	return crypto.SaveECDSA(path, k.privateKey)
}

// PublicID returns the public identifier for this key.
func (k Key) PublicID() string {
	return PublicID(k.privateKey.PublicKey)
}

// PrivateHex returns the hex encoding of the private key.
func (k Key) PrivateHex() string {
	return hex.EncodeToString(crypto.FromECDSA(k.privateKey))
}

// Sign produces a signature over the digest.
func (k Key) Sign(digest []byte) ([]byte, error) {
	return Sign(digest, k.privateKey)
}
