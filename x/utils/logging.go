package utils

import (
	"time"

	"github.com/iov-one/fundpool"
	"github.com/iov-one/fundpool/errors"
)

// Logging is a decorator to log messages as they pass through
type Logging struct{}

var _ fundpool.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs error -> info, success -> debug
func (r Logging) Check(ctx fundpool.Context, store fundpool.KVStore, tx fundpool.Tx, next fundpool.Checker) (*fundpool.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, tx, start, resLog, err, true)
	return res, err
}

// Deliver logs error -> error, success -> info
func (r Logging) Deliver(ctx fundpool.Context, store fundpool.KVStore, tx fundpool.Tx, next fundpool.Deliverer) (*fundpool.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, tx, start, resLog, err, false)
	return res, err
}

// logDuration writes the message path, the result code and the time spent
// to the context logger.
func logDuration(ctx fundpool.Context, tx fundpool.Tx, start time.Time, msg string, err error, lowPrio bool) {
	code, _ := errors.ABCIInfo(err, false)
	logger := fundpool.GetLogger(ctx).With(
		"path", fundpool.GetPath(tx),
		"code", code,
		"duration", time.Since(start)/time.Microsecond,
	)

	// An empty message is still logged, the key values carry the result.
	switch {
	case err != nil && lowPrio:
		logger.Info(msg, "err", err)
	case err != nil:
		logger.Error(msg, "err", err)
	case lowPrio:
		logger.Debug(msg)
	default:
		logger.Info(msg)
	}
}
