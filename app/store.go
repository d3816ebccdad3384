package app

import (
	"encoding/json"
	"fmt"

	"github.com/iov-one/fundpool"
	"github.com/iov-one/fundpool/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp contains a data store and all info needed to perform queries and
// handshakes.
//
// It should be embedded in another struct for CheckTx and DeliverTx.
// Messages that do not take user input (InitChain, BeginBlock, EndBlock,
// Commit) cannot report errors through ABCI, so a failure there panics.
type StoreApp struct {
	logger log.Logger

	// name is what is returned from abci.Info
	name string

	store *CommitStore

	// initializer loads the extensions state on InitChain
	initializer fundpool.Initializer

	// chainID is loaded from db in initialization, saved once on InitChain
	chainID string

	// baseContext contains context info that is valid for
	// lifetime of this app (eg. chainID)
	baseContext fundpool.Context

	// blockContext contains context info that is valid for the
	// current block (eg. height, time), reset on BeginBlock
	blockContext fundpool.Context
}

// NewStoreApp initializes this app into a ready state with some defaults.
func NewStoreApp(name string, store fundpool.CommitKVStore, baseContext fundpool.Context) (*StoreApp, error) {
	cs, err := NewCommitStore(store)
	if err != nil {
		return nil, err
	}
	s := &StoreApp{
		name:        name,
		store:       cs,
		baseContext: baseContext,
	}
	s = s.WithLogger(log.NewNopLogger())

	chainID, err := loadChainID(cs.DeliverStore())
	if err != nil {
		return nil, err
	}
	if chainID != "" {
		s.chainID = chainID
		s.baseContext = fundpool.WithChainID(s.baseContext, chainID)
	}

	info, err := cs.CommitInfo()
	if err != nil {
		return nil, errors.Wrap(err, "commit info")
	}
	s.blockContext = fundpool.WithHeight(s.baseContext, info.Version)
	return s, nil
}

// GetChainID returns the current chainID
func (s *StoreApp) GetChainID() string {
	return s.chainID
}

// WithInit is used to set the init function we call
func (s *StoreApp) WithInit(init fundpool.Initializer) *StoreApp {
	s.initializer = init
	return s
}

// WithLogger sets the logger on the StoreApp and returns it,
// to make it easy to chain in initialization
//
// also sets baseContext logger
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.baseContext = fundpool.WithLogger(s.baseContext, logger)
	s.logger = logger
	return s
}

// Logger returns the application base logger
func (s *StoreApp) Logger() log.Logger {
	return s.logger
}

// BlockContext returns the block context for public use
func (s *StoreApp) BlockContext() fundpool.Context {
	return s.blockContext
}

// DeliverStore returns the current DeliverTx cache for methods
func (s *StoreApp) DeliverStore() fundpool.CacheableKVStore {
	return s.store.DeliverStore()
}

// CheckStore returns the current CheckTx cache for methods
func (s *StoreApp) CheckStore() fundpool.CacheableKVStore {
	return s.store.CheckStore()
}

// CommittedStore returns a read only view of the last committed state.
func (s *StoreApp) CommittedStore() fundpool.ReadOnlyKVStore {
	return s.store.CommittedStore()
}

// parseAppState is called from InitChain, the first time the chain
// starts, and not on restarts.
func (s *StoreApp) parseAppState(data []byte, chainID string) error {
	if s.chainID != "" {
		return errors.Wrapf(errors.ErrState, "app state previously loaded for chain %s", s.chainID)
	}
	if len(data) == 0 {
		return errors.Wrap(errors.ErrEmpty, "app_state not set in genesis")
	}
	var appState fundpool.Options
	if err := json.Unmarshal(data, &appState); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot parse app state: %s", err)
	}

	if err := saveChainID(s.DeliverStore(), chainID); err != nil {
		return err
	}
	if s.initializer != nil {
		if err := s.initializer.FromGenesis(appState, s.DeliverStore()); err != nil {
			return err
		}
	}
	s.chainID = chainID
	s.baseContext = fundpool.WithChainID(s.baseContext, chainID)
	s.blockContext = fundpool.WithHeight(s.baseContext, 0)
	return nil
}

// Info implements abci.Application. It returns the height and hash,
// as well as the abci name.
func (s *StoreApp) Info(req abci.RequestInfo) abci.ResponseInfo {
	info, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.logger.Info("Info synced",
		"height", info.Version,
		"hash", fmt.Sprintf("%X", info.Hash))

	return abci.ResponseInfo{
		Data:             s.name,
		LastBlockHeight:  info.Version,
		LastBlockAppHash: info.Hash,
	}
}

// SetOption is not supported.
func (s *StoreApp) SetOption(abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "not implemented"}
}

// Query returns the committed value stored under the key given as the
// request data. Only the "/" path, raw key lookup, is supported.
func (s *StoreApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	if req.Path != "/" {
		return queryError(errors.Wrapf(errors.ErrNotFound, "query path %q", req.Path))
	}
	if len(req.Data) == 0 {
		return queryError(errors.Wrap(errors.ErrEmpty, "query key"))
	}
	info, err := s.store.CommitInfo()
	if err != nil {
		return queryError(err)
	}
	value, err := s.CommittedStore().Get(req.Data)
	if err != nil {
		return queryError(err)
	}
	return abci.ResponseQuery{
		Key:    req.Data,
		Value:  value,
		Height: info.Version,
	}
}

func queryError(err error) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, false)
	return abci.ResponseQuery{
		Code: code,
		Log:  log,
	}
}

// Commit implements abci.Application
func (s *StoreApp) Commit() abci.ResponseCommit {
	commitID, err := s.store.Commit()
	if err != nil {
		panic(err)
	}
	s.logger.Debug("Commit synced",
		"height", commitID.Version,
		"hash", fmt.Sprintf("%X", commitID.Hash),
	)
	return abci.ResponseCommit{Data: commitID.Hash}
}

// InitChain implements abci.Application. It stores the chain id and loads
// the genesis state of every extension.
func (s *StoreApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if err := s.parseAppState(req.AppStateBytes, req.ChainId); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

// BeginBlock implements abci.Application. It sets up the block context, the
// block header time becomes the "now" of every transaction in the block.
func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	ctx := fundpool.WithHeight(s.baseContext, req.Header.Height)
	ctx = fundpool.WithBlockTime(ctx, req.Header.Time.UTC())
	s.blockContext = ctx
	return abci.ResponseBeginBlock{}
}

// EndBlock implements abci.Application. There are no validator updates.
func (s *StoreApp) EndBlock(abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}
