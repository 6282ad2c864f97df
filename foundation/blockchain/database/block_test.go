package database_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ardanlabs/jackcoin/foundation/blockchain/database"
	"github.com/ardanlabs/jackcoin/foundation/blockchain/signature"
)

func Test_BlockHash(t *testing.T) {
	key := mustKey(t, pkHexKey)
	from := database.AccountID(key.PublicID())

	tx1 := database.NewTx(from, "0x01", 10)
	tx2 := database.NewRewardTx(from, 100)

	t.Log("Given the need to hash a block.")
	{
		b := database.NewBlock(1000, []database.Tx{tx1, tx2}, "0xabc")

		if b.Hash != b.ComputeHash() {
			t.Fatalf("\t%s\tShould compute the hash on construction.", failed)
		}
		t.Logf("\t%s\tShould compute the hash on construction.", success)

		if b.Header.Nonce != 0 {
			t.Fatalf("\t%s\tShould start with a zero nonce, got %d.", failed, b.Header.Nonce)
		}
		t.Logf("\t%s\tShould start with a zero nonce.", success)

		if b.ComputeHash() != b.ComputeHash() {
			t.Fatalf("\t%s\tShould get the same hash twice.", failed)
		}
		t.Logf("\t%s\tShould get the same hash twice.", success)

		swapped := database.NewBlock(1000, []database.Tx{tx2, tx1}, "0xabc")
		if swapped.Hash == b.Hash {
			t.Fatalf("\t%s\tShould get a different hash when the order changes.", failed)
		}
		t.Logf("\t%s\tShould get a different hash when the order changes.", success)

		s1, err := database.SerializeTransactions(b.Trans)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to serialize transactions: %s", failed, err)
		}

		s2, err := database.SerializeTransactions(swapped.Trans)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to serialize transactions: %s", failed, err)
		}

		if string(s1) == string(s2) {
			t.Fatalf("\t%s\tShould serialize transactions in order.", failed)
		}
		t.Logf("\t%s\tShould serialize transactions in order.", success)

		genesis := database.NewGenesisBlock(1000, "Genesis")
		if genesis.Header.PrevBlockHash != database.RootHash || len(genesis.Trans) != 0 {
			t.Fatalf("\t%s\tShould construct a genesis block linked to the root.", failed)
		}

		other := database.NewGenesisBlock(1000, "Other")
		if other.Hash == genesis.Hash {
			t.Fatalf("\t%s\tShould include the payload in the genesis hash.", failed)
		}
		t.Logf("\t%s\tShould construct a genesis block linked to the root.", success)
	}
}

func Test_Mine(t *testing.T) {
	type table struct {
		name       string
		difficulty uint
	}

	tt := []table{
		{name: "zero", difficulty: 0},
		{name: "one", difficulty: 1},
		{name: "two", difficulty: 2},
	}

	t.Log("Given the need to mine a block.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				b := database.NewBlock(1000, []database.Tx{database.NewRewardTx("0x01", 100)}, "0xabc")

				mined, err := b.Mine(context.Background(), tst.difficulty)
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to mine the block: %s", failed, testID, err)
				}
				t.Logf("\t%s\tTest %d:\tShould be able to mine the block.", success, testID)

				prefix := "0x" + strings.Repeat("0", int(tst.difficulty))
				if !strings.HasPrefix(mined.Hash, prefix) {
					t.Fatalf("\t%s\tTest %d:\tShould have %d leading zeros: %s", failed, testID, tst.difficulty, mined.Hash)
				}
				t.Logf("\t%s\tTest %d:\tShould have %d leading zeros.", success, testID, tst.difficulty)

				if mined.Hash != mined.ComputeHash() {
					t.Fatalf("\t%s\tTest %d:\tShould store the hash for the solved nonce.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould store the hash for the solved nonce.", success, testID)

				if b.Header.Nonce != 0 {
					t.Fatalf("\t%s\tTest %d:\tShould not change the original block.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould not change the original block.", success, testID)

				if tst.difficulty == 0 && mined.Header.Nonce != 0 {
					t.Fatalf("\t%s\tTest %d:\tShould not increment the nonce for difficulty 0, got %d.", failed, testID, mined.Header.Nonce)
				}
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_MineBounds(t *testing.T) {
	b := database.NewBlock(1000, nil, "0xabc")

	t.Log("Given the need to bound a mining run.")
	{
		_, err := b.Mine(context.Background(), 64, database.WithMaxAttempts(10))
		if !errors.Is(err, database.ErrMiningExhausted) {
			t.Fatalf("\t%s\tShould stop after the max attempts: %v", failed, err)
		}
		t.Logf("\t%s\tShould stop after the max attempts.", success)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = b.Mine(ctx, 64)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("\t%s\tShould stop when the context is cancelled: %v", failed, err)
		}
		t.Logf("\t%s\tShould stop when the context is cancelled.", success)

		var events int
		ev := func(v string, args ...any) { events++ }

		if _, err := b.Mine(context.Background(), 0, database.WithEvHandler(ev)); err != nil {
			t.Fatalf("\t%s\tShould be able to mine with an event handler: %s", failed, err)
		}

		if events == 0 {
			t.Fatalf("\t%s\tShould report mining events.", failed)
		}
		t.Logf("\t%s\tShould report mining events.", success)
	}
}

func Test_ValidateBlock(t *testing.T) {
	key := mustKey(t, pkHexKey)
	from := database.AccountID(key.PublicID())
	verifier := signature.Secp256k1{}

	tx := database.NewTx(from, "0x01", 10)
	if err := tx.Sign(key); err != nil {
		t.Fatalf("Should be able to sign the transaction: %s", err)
	}

	genesis := database.NewGenesisBlock(1000, "Genesis")

	block, err := database.POW(context.Background(), database.POWArgs{
		PrevBlock:  genesis,
		Trans:      []database.Tx{tx, database.NewRewardTx(from, 100)},
		Difficulty: 1,
	})
	if err != nil {
		t.Fatalf("Should be able to mine the block: %s", err)
	}

	t.Log("Given the need to validate a block against its parent.")
	{
		if err := block.ValidateBlock(genesis, verifier); err != nil {
			t.Fatalf("\t%s\tShould validate a freshly mined block: %s", failed, err)
		}
		t.Logf("\t%s\tShould validate a freshly mined block.", success)

		tt := []struct {
			name   string
			change func(prev *database.Block, b *database.Block)
		}{
			{"amount", func(prev *database.Block, b *database.Block) { b.Trans[0].Value = 1 }},
			{"reward", func(prev *database.Block, b *database.Block) { b.Trans[1].Value = 1_000 }},
			{"nonce", func(prev *database.Block, b *database.Block) { b.Header.Nonce++ }},
			{"hash", func(prev *database.Block, b *database.Block) { b.Hash = signature.ZeroHash }},
			{"signature", func(prev *database.Block, b *database.Block) { b.Trans[0].Signature = nil }},
			{"parent", func(prev *database.Block, b *database.Block) { prev.Header.Payload = "changed" }},
			{"link", func(prev *database.Block, b *database.Block) {
				b.Header.PrevBlockHash = signature.ZeroHash
				b.Hash = b.ComputeHash()
			}},
		}

		for testID, tst := range tt {
			f := func(t *testing.T) {
				prev := genesis.Clone()
				b := block.Clone()
				tst.change(&prev, &b)

				err := b.ValidateBlock(prev, verifier)
				if !errors.Is(err, database.ErrChainInvalid) {
					t.Fatalf("\t%s\tTest %d:\tShould detect the %s change: %v", failed, testID, tst.name, err)
				}
				t.Logf("\t%s\tTest %d:\tShould detect the %s change.", success, testID, tst.name)
			}

			t.Run(tst.name, f)
		}
	}
}
