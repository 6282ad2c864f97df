// This program runs the ledger in process: it signs a transaction, mines it
// and reports the balance and chain validity.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/ardanlabs/jackcoin/foundation/blockchain/database"
	"github.com/ardanlabs/jackcoin/foundation/blockchain/genesis"
	"github.com/ardanlabs/jackcoin/foundation/blockchain/signature"
	"github.com/ardanlabs/jackcoin/foundation/blockchain/state"
	"github.com/ardanlabs/jackcoin/foundation/logger"
	"go.uber.org/zap"
)

var build = "develop"

func main() {
	log, err := logger.New("DEMO")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(log); err != nil {
		log.Errorw("demo", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	cfg := struct {
		conf.Version
		Difficulty   uint16        `conf:"default:2"`
		MiningReward uint64        `conf:"default:100"`
		PrivateKey   string        `conf:"default:98a1aa9e94acca8b46be00893881e4912e185dc2db1a96dc78176614f70f04ba,mask"`
		To           string        `conf:"help:account to send value to or empty for a new key"`
		Value        uint64        `conf:"default:10"`
		Tamper       bool          `conf:"help:change the amount in block 1 before validating"`
		Timeout      time.Duration `conf:"default:1m"`
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "copyright information here",
		},
	}

	const prefix = "DEMO"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================

	key, err := signature.HexToKey(cfg.PrivateKey)
	if err != nil {
		return fmt.Errorf("loading private key: %w", err)
	}
	myWallet := database.AccountID(key.PublicID())

	var to database.AccountID
	switch cfg.To {
	case "":
		other, err := signature.GenerateKey()
		if err != nil {
			return fmt.Errorf("generating key: %w", err)
		}
		to = database.AccountID(other.PublicID())

	default:
		if to, err = database.ToAccountID(cfg.To); err != nil {
			return fmt.Errorf("parsing to account: %w", err)
		}
	}

	gen := genesis.Default()
	gen.Difficulty = cfg.Difficulty
	gen.MiningReward = cfg.MiningReward

	st, err := state.New(state.Config{
		Genesis:   gen,
		EvHandler: func(v string, args ...any) { log.Infow(fmt.Sprintf(v, args...)) },
	})
	if err != nil {
		return err
	}
	defer st.Shutdown()

	// =========================================================================

	tx := database.NewTx(myWallet, to, cfg.Value)
	if err := tx.Sign(key); err != nil {
		return fmt.Errorf("signing: %w", err)
	}

	if err := st.SubmitWalletTransaction(tx); err != nil {
		return fmt.Errorf("submitting: %w", err)
	}

	log.Infow("demo", "status", "start mining", "difficulty", cfg.Difficulty)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	blk, err := st.MinePendingTransactions(ctx, myWallet)
	if err != nil {
		return fmt.Errorf("mining: %w", err)
	}
	log.Infow("demo", "status", "block mined", "hash", blk.Hash, "nonce", blk.Header.Nonce)

	if cfg.Tamper {
		log.Infow("demo", "status", "tampering with block 1")
		if err := st.TamperBlock(1, func(b *database.Block) { b.Trans[0].Value = 1 }); err != nil {
			return err
		}
	}

	log.Infow("demo", "balance", st.QueryBalance(myWallet), "account", myWallet)
	log.Infow("demo", "valid", st.ValidateChain())

	return nil
}
