package signature_test

import (
	"testing"

	"github.com/ardanlabs/jackcoin/foundation/blockchain/signature"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const (
	pkHexKey    = "fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959"
	otherHexKey = "aed31b6b5a341af8f27e66fb0b7633cf20fc27049e3eb7f6f623a4655b719ebb"
)

// =============================================================================

func Test_Signing(t *testing.T) {
	value := struct {
		Name string
	}{
		Name: "Bill",
	}

	t.Log("Given the need to sign and verify a digest.")
	{
		key, err := signature.HexToKey(pkHexKey)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct a private key: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to construct a private key.", success)

		digest := signature.Digest(value)

		sig, err := key.Sign(digest)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to sign data: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to sign data.", success)

		ok, err := signature.Verify(key.PublicID(), digest, sig)
		if err != nil || !ok {
			t.Fatalf("\t%s\tShould be able to verify the signature: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to verify the signature.", success)

		str := signature.SignatureString(sig)
		back, err := signature.ToSignatureBytes(str)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to convert the signature string back: %s", failed, err)
		}

		if signature.SignatureString(back) != str {
			t.Logf("\t\tgot: %s", signature.SignatureString(back))
			t.Logf("\t\texp: %s", str)
			t.Fatalf("\t%s\tShould get back the same signature.", failed)
		}
		t.Logf("\t%s\tShould get back the same signature.", success)
	}
}

func Test_Hash(t *testing.T) {
	value := struct {
		Name string
	}{
		Name: "Bill",
	}
	hash := "0x0f6887ac85101d6d6425a617edf35bd721b5f619fb92c36c3d2224e3bdb0ee5a"

	h := signature.Hash(value)
	if h != hash {
		t.Logf("got: %s", h)
		t.Logf("exp: %s", hash)
		t.Fatalf("Should get back the right hash: %s", h[:6])
	}

	h = signature.Hash(value)
	if h != hash {
		t.Logf("got: %s", h)
		t.Logf("exp: %s", hash)
		t.Fatalf("Should get back the same hash twice.")
	}
}

func Test_VerifyTamper(t *testing.T) {
	key, err := signature.HexToKey(pkHexKey)
	if err != nil {
		t.Fatalf("Should be able to construct a private key: %s", err)
	}

	other, err := signature.HexToKey(otherHexKey)
	if err != nil {
		t.Fatalf("Should be able to construct a second private key: %s", err)
	}

	digest := signature.Digest("transfer")
	sig, err := key.Sign(digest)
	if err != nil {
		t.Fatalf("Should be able to sign data: %s", err)
	}

	tt := []struct {
		name     string
		publicID string
		digest   func() []byte
		sig      func() []byte
	}{
		{
			name:     "flipped-r",
			publicID: key.PublicID(),
			digest:   func() []byte { return digest },
			sig:      func() []byte { return flip(sig, 3) },
		},
		{
			name:     "flipped-s",
			publicID: key.PublicID(),
			digest:   func() []byte { return digest },
			sig:      func() []byte { return flip(sig, 40) },
		},
		{
			name:     "flipped-v",
			publicID: key.PublicID(),
			digest:   func() []byte { return digest },
			sig:      func() []byte { return flip(sig, 64) },
		},
		{
			name:     "flipped-digest",
			publicID: key.PublicID(),
			digest:   func() []byte { return flip(digest, 0) },
			sig:      func() []byte { return sig },
		},
		{
			name:     "wrong-key",
			publicID: other.PublicID(),
			digest:   func() []byte { return digest },
			sig:      func() []byte { return sig },
		},
		{
			name:     "short-signature",
			publicID: key.PublicID(),
			digest:   func() []byte { return digest },
			sig:      func() []byte { return sig[:64] },
		},
	}

	t.Log("Given the need to reject signatures that don't match.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				ok, err := signature.Verify(tst.publicID, tst.digest(), tst.sig())
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould not get an error for a bad signature: %s", failed, testID, err)
				}

				if ok {
					t.Fatalf("\t%s\tTest %d:\tShould not verify the signature.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould not verify the signature.", success, testID)
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_SignConsistency(t *testing.T) {
	key, err := signature.HexToKey(pkHexKey)
	if err != nil {
		t.Fatalf("Should be able to construct a private key: %s", err)
	}

	loaded, err := signature.HexToKey(key.PrivateHex())
	if err != nil {
		t.Fatalf("Should be able to reload the private key: %s", err)
	}

	if key.PublicID() != loaded.PublicID() {
		t.Errorf("Got: %s", key.PublicID())
		t.Errorf("Got: %s", loaded.PublicID())
		t.Fatalf("Should have the same public id.")
	}

	if len(key.PublicID()) != 2+130 {
		t.Fatalf("Should have an uncompressed public id, got length %d", len(key.PublicID()))
	}
}

// =============================================================================

// flip returns a copy of the data with one bit flipped at the index.
func flip(data []byte, index int) []byte {
	cpy := make([]byte, len(data))
	copy(cpy, data)
	cpy[index] ^= 0x01

	return cpy
}
