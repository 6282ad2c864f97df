package signature

import (
	"encoding/hex"
	"strings"

	lru "github.com/hashicorp/golang-lru"
)

// Verifier represents the behavior required to check a signature was
// produced by the owner of a public identifier.
type Verifier interface {
	Verify(publicID string, digest []byte, sig []byte) bool
}

// =============================================================================

// Secp256k1 is the stateless verification capability for secp256k1
// signatures. The zero value is ready to use.
type Secp256k1 struct{}

// Verify implements the Verifier interface.
func (Secp256k1) Verify(publicID string, digest []byte, sig []byte) bool {
	ok, err := Verify(publicID, digest, sig)
	if err != nil {
		return false
	}

	return ok
}

// =============================================================================

// DefaultCacheSize is the number of verification results kept by a
// CachedVerifier when no size is provided.
const DefaultCacheSize = 1024

// CachedVerifier remembers the result of previous verifications. Chain
// validation verifies the same signatures over and over, so the cache saves
// the curve math. The key covers the identifier, digest and signature so any
// change to a transaction results in a fresh verification.
type CachedVerifier struct {
	verifier Verifier
	cache    *lru.Cache
}

// NewCachedVerifier constructs a verifier that caches the results of the
// specified verifier.
func NewCachedVerifier(verifier Verifier, size int) (*CachedVerifier, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}

	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}

	cv := CachedVerifier{
		verifier: verifier,
		cache:    cache,
	}

	return &cv, nil
}

// Verify implements the Verifier interface.
func (cv *CachedVerifier) Verify(publicID string, digest []byte, sig []byte) bool {
	key := cacheKey(publicID, digest, sig)

	if v, exists := cv.cache.Get(key); exists {
		return v.(bool)
	}

	ok := cv.verifier.Verify(publicID, digest, sig)
	cv.cache.Add(key, ok)

	return ok
}

// Len returns the number of results held in the cache.
func (cv *CachedVerifier) Len() int {
	return cv.cache.Len()
}

// cacheKey builds the cache key for a verification request.
func cacheKey(publicID string, digest []byte, sig []byte) string {
	var b strings.Builder
	b.WriteString(publicID)
	b.WriteByte(':')
	b.WriteString(hex.EncodeToString(digest))
	b.WriteByte(':')
	b.WriteString(hex.EncodeToString(sig))

	return b.String()
}
