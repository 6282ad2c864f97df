package genesis_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/jackcoin/foundation/blockchain/genesis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genesis.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"difficulty": 2}`), 0600))

	g, err := genesis.Load(path)
	require.NoError(t, err)

	assert.Equal(t, uint16(2), g.Difficulty)
	assert.Equal(t, uint64(genesis.DefaultMiningReward), g.MiningReward)
	assert.Equal(t, genesis.DefaultPayload, g.Payload)
}

func TestLoadRejectsBadSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genesis.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"difficulty": 65}`), 0600))

	_, err := genesis.Load(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{"mining_reward": 18446744073709551615}`), 0600))

	_, err = genesis.Load(path)
	assert.Error(t, err)

	_, err = genesis.Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
