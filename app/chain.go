package app

import (
	"reflect"

	"github.com/iov-one/fundpool"
)

// Decorators holds a chain of decorators, not yet resolved by a Handler
type Decorators struct {
	chain []fundpool.Decorator
}

// ChainDecorators takes a chain of decorators, and upon adding a final
// Handler (often a Router), returns a Handler that will execute this whole
// stack. The first decorator is the outermost one.
func ChainDecorators(chain ...fundpool.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain allows us to keep adding more Decorators to the chain
func (d Decorators) Chain(chain ...fundpool.Decorator) Decorators {
	next := make([]fundpool.Decorator, 0, len(d.chain)+len(chain))
	next = append(next, d.chain...)
	for _, dec := range chain {
		if isNil(dec) {
			continue
		}
		next = append(next, dec)
	}
	return Decorators{chain: next}
}

func isNil(d fundpool.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler resolves the stack and returns a concrete Handler
// that will pass through the chain of decorators before calling
// the final Handler.
func (d Decorators) WithHandler(h fundpool.Handler) fundpool.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

// step captures one step executing a decorator around a
// specific Handler. Simplified version of a closure.
type step struct {
	d    fundpool.Decorator
	next fundpool.Handler
}

var _ fundpool.Handler = step{}

// Check passes the handler into the decorator, implements Handler
func (s step) Check(ctx fundpool.Context, store fundpool.KVStore, tx fundpool.Tx) (*fundpool.CheckResult, error) {
	return s.d.Check(ctx, store, tx, s.next)
}

// Deliver passes the handler into the decorator, implements Handler
func (s step) Deliver(ctx fundpool.Context, store fundpool.KVStore, tx fundpool.Tx) (*fundpool.DeliverResult, error) {
	return s.d.Deliver(ctx, store, tx, s.next)
}
