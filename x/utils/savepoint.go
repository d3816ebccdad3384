package utils

import (
	"github.com/iov-one/fundpool"
	"github.com/iov-one/fundpool/errors"
)

// Savepoint will isolate all data inside of the call, and commit or
// rollback to savepoint based on the returned error. A failed transfer deep
// inside a handler leaves no partial writes behind.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ fundpool.Decorator = Savepoint{}

// NewSavepoint creates a Savepoint decorator,
// but you must call OnCheck/OnDeliver so it will be triggered
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck returns a savepoint that will trigger on CheckTx
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver returns a savepoint that will trigger on DeliverTx
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

// Check will optionally set a checkpoint
func (s Savepoint) Check(ctx fundpool.Context, store fundpool.KVStore, tx fundpool.Tx, next fundpool.Checker) (*fundpool.CheckResult, error) {
	if !s.onCheck {
		return next.Check(ctx, store, tx)
	}
	var res *fundpool.CheckResult
	err := isolate(store, func(db fundpool.KVStore) (err error) {
		res, err = next.Check(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Deliver will optionally set a checkpoint
func (s Savepoint) Deliver(ctx fundpool.Context, store fundpool.KVStore, tx fundpool.Tx, next fundpool.Deliverer) (*fundpool.DeliverResult, error) {
	if !s.onDeliver {
		return next.Deliver(ctx, store, tx)
	}
	var res *fundpool.DeliverResult
	err := isolate(store, func(db fundpool.KVStore) (err error) {
		res, err = next.Deliver(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// isolate runs fn against a cache wrap of the store and writes the cache
// back only when fn succeeded. Stores that cannot be wrapped are passed
// through.
func isolate(store fundpool.KVStore, fn func(fundpool.KVStore) error) error {
	cstore, ok := store.(fundpool.CacheableKVStore)
	if !ok {
		return fn(store)
	}
	cache := cstore.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "writing savepoint")
	}
	return nil
}
