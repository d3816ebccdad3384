package fundpooltest

import (
	"github.com/iov-one/fundpool"
)

// Handler implements a mock of fundpool.Handler
//
// Use this handler in your tests. Set XxxResult and XxxErr to control what
// Check and Deliver methods return. Each call is counted.
type Handler struct {
	checkCall   int
	deliverCall int

	// CheckResult is returned by Check method.
	CheckResult fundpool.CheckResult
	// CheckErr if set is returned by Check method.
	CheckErr error

	// DeliverResult is returned by Deliver method.
	DeliverResult fundpool.DeliverResult
	// DeliverErr if set is returned by Deliver method.
	DeliverErr error

	// Write if set is stored under the key "handler" on every call, so that
	// tests can ensure the store changes were committed or discarded.
	Write []byte
}

var _ fundpool.Handler = (*Handler)(nil)

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) Check(ctx fundpool.Context, db fundpool.KVStore, tx fundpool.Tx) (*fundpool.CheckResult, error) {
	h.checkCall++
	if err := h.write(db); err != nil {
		return nil, err
	}
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx fundpool.Context, db fundpool.KVStore, tx fundpool.Tx) (*fundpool.DeliverResult, error) {
	h.deliverCall++
	if err := h.write(db); err != nil {
		return nil, err
	}
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) write(db fundpool.KVStore) error {
	if h.Write == nil {
		return nil
	}
	return db.Set([]byte("handler"), h.Write)
}

// Decorator implements a mock of fundpool.Decorator
//
// Use this decorator in your tests. Set XxxErr to force the decorator to
// return an error instead of calling the next handler.
type Decorator struct {
	checkCall   int
	deliverCall int

	CheckErr   error
	DeliverErr error
}

var _ fundpool.Decorator = (*Decorator)(nil)

func (d *Decorator) CheckCallCount() int {
	return d.checkCall
}

func (d *Decorator) DeliverCallCount() int {
	return d.deliverCall
}

func (d *Decorator) Check(ctx fundpool.Context, db fundpool.KVStore, tx fundpool.Tx, next fundpool.Checker) (*fundpool.CheckResult, error) {
	d.checkCall++
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx fundpool.Context, db fundpool.KVStore, tx fundpool.Tx, next fundpool.Deliverer) (*fundpool.DeliverResult, error) {
	d.deliverCall++
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}
