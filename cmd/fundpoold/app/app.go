/*
Package app wires the fundpool extensions into the application run by
fundpoold: the message router, the decorator chain, the genesis initializers
and the persistent store.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/fundpool"
	"github.com/iov-one/fundpool/app"
	"github.com/iov-one/fundpool/errors"
	"github.com/iov-one/fundpool/store/iavl"
	"github.com/iov-one/fundpool/x"
	"github.com/iov-one/fundpool/x/cash"
	"github.com/iov-one/fundpool/x/distribution"
	"github.com/iov-one/fundpool/x/matching"
	"github.com/iov-one/fundpool/x/pool"
	"github.com/iov-one/fundpool/x/sigs"
	"github.com/iov-one/fundpool/x/utils"
	"github.com/tendermint/tendermint/libs/log"
)

// Name is reported by the ABCI Info call.
const Name = "fundpool"

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return sigs.Authenticate{}
}

// CashControl returns a controller for cash functions
func CashControl() cash.BaseController {
	return cash.NewController(cash.NewWalletBucket())
}

// MatchingControl returns a controller of the matching fund.
func MatchingControl() matching.BaseController {
	return matching.NewController(CashControl())
}

// Chain returns a chain of decorators, to handle authentication, logging,
// recovery and isolation of failed transactions.
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		// a failed transaction never leaves partial writes behind
		utils.NewSavepoint().OnCheck().OnDeliver(),
		sigs.NewDecorator(),
	)
}

// Router returns a router dispatching to every fundpool extension.
func Router(auth x.Authenticator) *app.Router {
	r := app.NewRouter()
	cashCtrl := CashControl()
	cash.RegisterRoutes(r, auth, cashCtrl)
	matching.RegisterRoutes(r, auth, MatchingControl())
	pool.RegisterRoutes(r, auth, cashCtrl)
	distribution.RegisterRoutes(r, auth, cashCtrl, MatchingControl())
	return r
}

// Stack wires up the router with the decorator chain. This can be passed
// into BaseApp.
func Stack() fundpool.Handler {
	return Chain().WithHandler(Router(Authenticator()))
}

// Initializers returns the genesis loaders of every extension. Order
// matters, the matching fund is minted by cash.
func Initializers() fundpool.Initializer {
	return app.ChainInitializers(
		cash.Initializer{},
		matching.Initializer{Minter: CashControl()},
		&pool.Initializer{},
	)
}

// Application constructs the ABCI application on top of the given store.
func Application(kv fundpool.CommitKVStore, logger log.Logger, debug bool) (app.BaseApp, error) {
	ctx := context.Background()
	store, err := app.NewStoreApp(Name, kv, ctx)
	if err != nil {
		return app.BaseApp{}, errors.Wrap(err, "store app")
	}
	store = store.WithLogger(logger).WithInit(Initializers())
	return app.NewBaseApp(store, TxDecoder, Stack(), debug), nil
}

// CommitKVStore returns an initialized KVStore that persists the data to the
// named path. An empty path returns a memory backed store.
func CommitKVStore(dbPath string) (fundpool.CommitKVStore, error) {
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database path %q", dbPath)
	}
	// Some callers add a ".db" suffix, which the backend appends on its own.
	path = strings.TrimSuffix(path, filepath.Ext(path))
	return iavl.NewCommitStore(filepath.Dir(path), filepath.Base(path))
}
