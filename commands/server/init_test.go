package server

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/weave-swap/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

// tendermintGenesis is what `tendermint init` writes, trimmed.
const tendermintGenesis = `{
  "genesis_time": "2019-04-01T12:00:00Z",
  "chain_id": "test-chain-LgVOZ0",
  "validators": [{"power": "10", "name": ""}],
  "app_hash": ""
}`

func setupHome(t *testing.T) (string, func()) {
	t.Helper()
	home, err := ioutil.TempDir("", "escrowd-init")
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(home, "config"), 0755))
	require.NoError(t, ioutil.WriteFile(GenesisFile(home), []byte(tendermintGenesis), 0600))
	return home, func() { os.RemoveAll(home) }
}

func fixedOptions(args []string) (json.RawMessage, error) {
	return json.RawMessage(`{"cash": []}`), nil
}

func TestInit(t *testing.T) {
	home, cleanup := setupHome(t)
	defer cleanup()

	require.NoError(t, InitCmd(fixedOptions, log.NewNopLogger(), home, nil))

	doc, err := readGenesisDoc(GenesisFile(home))
	require.NoError(t, err)
	assert.JSONEq(t, `"test-chain-LgVOZ0"`, string(doc["chain_id"]))
	assert.NotEmpty(t, doc["validators"])
	assert.JSONEq(t, `{"cash": []}`, string(doc[appStateKey]))

	// A second run must not overwrite the state.
	err = InitCmd(fixedOptions, log.NewNopLogger(), home, nil)
	assert.True(t, errors.ErrDuplicate.Is(err))
}

func TestInitWithoutTendermint(t *testing.T) {
	home, err := ioutil.TempDir("", "escrowd-init")
	require.NoError(t, err)
	defer os.RemoveAll(home)

	err = InitCmd(fixedOptions, log.NewNopLogger(), home, nil)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestInitGeneratorFailure(t *testing.T) {
	home, cleanup := setupHome(t)
	defer cleanup()

	failing := func([]string) (json.RawMessage, error) {
		return nil, errors.Wrap(errors.ErrCurrency, "ticker")
	}
	err := InitCmd(failing, log.NewNopLogger(), home, nil)
	assert.True(t, errors.ErrCurrency.Is(err))

	doc, err := readGenesisDoc(GenesisFile(home))
	require.NoError(t, err)
	_, ok := doc[appStateKey]
	assert.False(t, ok)
}
