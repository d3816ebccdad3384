package app

import (
	"sync"
	"time"

	"github.com/iov-one/fundpool"
	"github.com/iov-one/fundpool/app"
	"github.com/iov-one/fundpool/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// Node drives the application without a consensus engine. Transactions are
// processed one at a time and every delivered transaction is committed in
// its own block, stamped with the node clock.
type Node struct {
	mu     sync.Mutex
	app    app.BaseApp
	clock  func() time.Time
	height int64
	// last is the time of the last committed block.
	last time.Time
}

// NewNode returns a node running the given application. The clock provides
// the block time, use time.Now outside of tests. Block times never go back,
// a clock behind the last block repeats the last block time.
func NewNode(a app.BaseApp, clock func() time.Time) *Node {
	info := a.Info(abci.RequestInfo{})
	return &Node{
		app:    a,
		clock:  clock,
		height: info.LastBlockHeight,
	}
}

// Init loads the genesis state when the chain was never started. A node
// restarted on an existing database only ensures the chain id matches.
func (n *Node) Init(gen *app.Genesis) (err error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if id := n.app.GetChainID(); id != "" {
		if id != gen.ChainID {
			return errors.Wrapf(errors.ErrState, "database belongs to chain %q, genesis is for %q", id, gen.ChainID)
		}
		return nil
	}

	req, err := gen.InitChainRequest()
	if err != nil {
		return err
	}
	defer errors.Recover(&err)
	n.app.InitChain(req)
	n.app.Commit()
	n.height++
	return nil
}

// ChainID returns the chain id the node was initialized with.
func (n *Node) ChainID() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.app.GetChainID()
}

// CheckTx validates the transaction against the state of the next block
// without changing it.
func (n *Node) CheckTx(tx []byte) abci.ResponseCheckTx {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.app.BeginBlock(n.blockRequest())
	return n.app.CheckTx(tx)
}

// DeliverTx executes the transaction in a new block and commits it. The
// block is committed even when the transaction failed, the failed
// transaction leaves no writes behind.
func (n *Node) DeliverTx(tx []byte) (abci.ResponseDeliverTx, int64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	req := n.blockRequest()
	n.app.BeginBlock(req)
	res := n.app.DeliverTx(tx)
	n.app.EndBlock(abci.RequestEndBlock{Height: req.Header.Height})
	n.app.Commit()
	n.height = req.Header.Height
	n.last = req.Header.Time
	return res, n.height
}

func (n *Node) blockRequest() abci.RequestBeginBlock {
	now := n.clock().UTC()
	if now.Before(n.last) {
		now = n.last
	}
	return abci.RequestBeginBlock{
		Header: abci.Header{
			ChainID: n.app.GetChainID(),
			Height:  n.height + 1,
			Time:    now,
		},
	}
}

// View calls fn with a read only view of the last committed state. No
// transaction is processed while fn runs.
func (n *Node) View(fn func(db fundpool.ReadOnlyKVStore) error) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return fn(n.app.CommittedStore())
}

// Info returns the application name, height and state hash.
func (n *Node) Info() abci.ResponseInfo {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.app.Info(abci.RequestInfo{})
}
