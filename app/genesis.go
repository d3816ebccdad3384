package app

import (
	"encoding/json"
	"io/ioutil"
	"time"

	"github.com/iov-one/fundpool"
	"github.com/iov-one/fundpool/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// Genesis is the file format used to start a new chain. It follows the
// layout of the tendermint genesis file.
type Genesis struct {
	ChainID     string           `json:"chain_id"`
	GenesisTime time.Time        `json:"genesis_time"`
	AppState    fundpool.Options `json:"app_state"`
}

// LoadGenesis reads the genesis file at the given path.
func LoadGenesis(path string) (*Genesis, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "read genesis file: %s", err)
	}
	var gen Genesis
	if err := json.Unmarshal(raw, &gen); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "parse genesis file: %s", err)
	}
	if !fundpool.IsValidChainID(gen.ChainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %q", gen.ChainID)
	}
	return &gen, nil
}

// InitChainRequest returns the ABCI request that starts the chain described
// by this genesis.
func (g *Genesis) InitChainRequest() (abci.RequestInitChain, error) {
	state, err := json.Marshal(g.AppState)
	if err != nil {
		return abci.RequestInitChain{}, errors.Wrapf(errors.ErrInput, "serialize app state: %s", err)
	}
	return abci.RequestInitChain{
		Time:          g.GenesisTime,
		ChainId:       g.ChainID,
		AppStateBytes: state,
	}, nil
}

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...fundpool.Initializer) fundpool.Initializer {
	return chainInitializer{inits: inits}
}

type chainInitializer struct {
	inits []fundpool.Initializer
}

// FromGenesis passes the options to all initializers in the list, aborting
// at the first error.
func (c chainInitializer) FromGenesis(opts fundpool.Options, kv fundpool.KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}
