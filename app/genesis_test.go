package app

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/fundpool"
	"github.com/iov-one/fundpool/errors"
	"github.com/iov-one/fundpool/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadGenesis(t *testing.T) {
	dir, err := ioutil.TempDir("", "genesis")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	valid := filepath.Join(dir, "genesis.json")
	require.NoError(t, ioutil.WriteFile(valid, []byte(`{
		"chain_id": "fundpool-dev",
		"genesis_time": "2026-01-01T00:00:00Z",
		"app_state": {"matching": {"balance": 10000}}
	}`), 0600))

	gen, err := LoadGenesis(valid)
	require.NoError(t, err)
	assert.Equal(t, "fundpool-dev", gen.ChainID)

	req, err := gen.InitChainRequest()
	require.NoError(t, err)
	assert.Equal(t, "fundpool-dev", req.ChainId)
	var state fundpool.Options
	require.NoError(t, json.Unmarshal(req.AppStateBytes, &state))
	assert.JSONEq(t, `{"balance": 10000}`, string(state["matching"]))

	badChain := filepath.Join(dir, "bad.json")
	require.NoError(t, ioutil.WriteFile(badChain, []byte(`{"chain_id": "x"}`), 0600))
	_, err = LoadGenesis(badChain)
	assert.True(t, errors.ErrInput.Is(err))

	_, err = LoadGenesis(filepath.Join(dir, "missing.json"))
	assert.True(t, errors.ErrInput.Is(err))
}

func TestChainInitializersStopAtFirstError(t *testing.T) {
	var calls int
	ok := initFunc(func(fundpool.Options, fundpool.KVStore) error {
		calls++
		return nil
	})
	fail := initFunc(func(fundpool.Options, fundpool.KVStore) error {
		calls++
		return errors.ErrInput
	})

	err := ChainInitializers(ok, fail, ok).FromGenesis(fundpool.Options{}, store.MemStore())
	assert.True(t, errors.ErrInput.Is(err))
	assert.Equal(t, 2, calls)
}
