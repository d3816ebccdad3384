package utils

import (
	"fmt"

	"github.com/iov-one/fundpool"
	"github.com/iov-one/fundpool/errors"
)

// Recovery is a decorator to recover from panics in transactions,
// so we can log them as errors
type Recovery struct{}

var _ fundpool.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors
func (r Recovery) Check(ctx fundpool.Context, store fundpool.KVStore, tx fundpool.Tx, next fundpool.Checker) (_ *fundpool.CheckResult, err error) {
	defer logPanic(ctx, &err)
	defer errors.Recover(&err)
	return next.Check(ctx, store, tx)
}

// Deliver turns panics into normal errors
func (r Recovery) Deliver(ctx fundpool.Context, store fundpool.KVStore, tx fundpool.Tx, next fundpool.Deliverer) (_ *fundpool.DeliverResult, err error) {
	defer logPanic(ctx, &err)
	defer errors.Recover(&err)
	return next.Deliver(ctx, store, tx)
}

// logPanic reports a recovered panic together with its stack trace. The
// error returned to the client is redacted later on.
func logPanic(ctx fundpool.Context, err *error) {
	if errors.ErrPanic.Is(*err) {
		fundpool.GetLogger(ctx).Error("panic recovered", "err", fmt.Sprintf("%+v", *err))
	}
}
