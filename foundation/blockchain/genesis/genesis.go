// Package genesis maintains access to the genesis settings for a chain.
package genesis

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"time"
)

// Default values used when a genesis file is not provided.
const (
	DefaultDifficulty   = 4
	DefaultMiningReward = 100
	DefaultPayload      = "Genesis"
)

// Genesis represents the genesis settings.
type Genesis struct {
	Date         time.Time `json:"date"`          // Time recorded in the genesis block.
	Difficulty   uint16    `json:"difficulty"`    // Number of leading 0's a block hash needs.
	MiningReward uint64    `json:"mining_reward"` // Reward for mining a block.
	Payload      string    `json:"payload"`       // Sentinel data stored in the genesis block.
}

// =============================================================================

// Default returns the genesis settings used when nothing else is provided.
func Default() Genesis {
	return Genesis{
		Date:         time.Now().UTC(),
		Difficulty:   DefaultDifficulty,
		MiningReward: DefaultMiningReward,
		Payload:      DefaultPayload,
	}
}

// Load opens and consumes the genesis file. Fields missing from the file
// keep their default values.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	genesis := Default()
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, err
	}

	if err := genesis.Validate(); err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}

// Validate checks the settings can produce a working chain.
func (g Genesis) Validate() error {
	const maxDifficulty = 64

	if g.Difficulty > maxDifficulty {
		return errors.New("difficulty can't be more than the number of hex digits in a hash")
	}

	if g.Payload == "" {
		return errors.New("payload is required")
	}

	if g.MiningReward > math.MaxInt64 {
		return errors.New("mining reward can't be more than the max int64")
	}

	return nil
}

// TimeStamp returns the genesis date in milliseconds.
func (g Genesis) TimeStamp() uint64 {
	return uint64(g.Date.UTC().UnixMilli())
}
