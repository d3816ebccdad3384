package distribution

import (
	"math"

	"github.com/iov-one/fundpool"
	"github.com/iov-one/fundpool/errors"
	"github.com/iov-one/fundpool/x"
	"github.com/iov-one/fundpool/x/pool"
)

type rolloverHandler struct {
	auth x.Authenticator
	cash CoinMover
}

// rollover is the state of a single rollover, loaded and validated.
type rollover struct {
	msg    *RolloverMsg
	dist   *Distribution
	source *pool.Pool
	target *pool.Pool
}

func (h *rolloverHandler) Check(ctx fundpool.Context, db fundpool.KVStore, tx fundpool.Tx) (*fundpool.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &fundpool.CheckResult{}, nil
}

func (h *rolloverHandler) Deliver(ctx fundpool.Context, db fundpool.KVStore, tx fundpool.Tx) (*fundpool.DeliverResult, error) {
	r, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	amount, swept, err := sweep(r.dist, r.source)
	if err != nil {
		return nil, err
	}
	if amount == 0 {
		// Entries of zero value are processed as well.
		if swept > 0 {
			if _, err := NewDistributionBucket().Put(db, r.msg.PoolID, r.dist); err != nil {
				return nil, errors.Wrap(err, "save distribution")
			}
		}
		fundpool.GetLogger(ctx).Debug("nothing to roll over", "pool", r.msg.PoolID, "entries", swept)
		return &fundpool.DeliverResult{Log: "nothing to roll over"}, nil
	}
	if r.target.Total > math.MaxInt64-amount {
		return nil, errors.Wrap(errors.ErrOverflow, "target pool total")
	}
	if err := checkStats(db, func(s *pool.Stats) int64 { return s.TotalRolledOver }, amount); err != nil {
		return nil, err
	}

	if err := h.cash.MoveCoins(db, r.source.Custody, r.target.Custody, amount); err != nil {
		return nil, errors.Wrap(err, "cannot roll over")
	}
	r.target.Total += amount

	if _, err := NewDistributionBucket().Put(db, r.msg.PoolID, r.dist); err != nil {
		return nil, errors.Wrap(err, "save distribution")
	}
	if err := pool.SavePool(db, r.msg.PoolID, r.source); err != nil {
		return nil, err
	}
	if err := pool.SavePool(db, r.msg.TargetPoolID, r.target); err != nil {
		return nil, err
	}
	err = pool.UpdateStats(db, func(s *pool.Stats) error {
		s.TotalRolledOver += amount
		return nil
	})
	if err != nil {
		return nil, err
	}

	fundpool.GetLogger(ctx).Info("unclaimed funds rolled over",
		"pool", r.msg.PoolID, "target", r.msg.TargetPoolID, "amount", amount)
	return &fundpool.DeliverResult{}, nil
}

// sweep marks every unclaimed entry as claimed and returns the sum of their
// amounts together with the number of entries marked. The remainder of an
// equal split still held by a prize pool is swept as well.
func sweep(d *Distribution, source *pool.Pool) (int64, int, error) {
	var (
		sum   int64
		count int
	)
	for _, e := range d.Entries {
		if e.Claimed {
			continue
		}
		if sum > math.MaxInt64-e.Amount {
			return 0, 0, errors.Wrap(errors.ErrOverflow, "unclaimed sum")
		}
		sum += e.Amount
		e.Claimed = true
		count++
	}
	if source.Kind == pool.Prize {
		if sum > math.MaxInt64-source.Total {
			return 0, 0, errors.Wrap(errors.ErrOverflow, "unclaimed sum")
		}
		sum += source.Total
		source.Total = 0
	}
	return sum, count, nil
}

func (h *rolloverHandler) validate(ctx fundpool.Context, db fundpool.KVStore, tx fundpool.Tx) (*rollover, error) {
	var msg RolloverMsg
	if err := fundpool.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	source, err := pool.GetPool(db, msg.PoolID)
	if err != nil {
		return nil, err
	}

	allowed := []fundpool.Address{source.Admin}
	switch conf, err := pool.LoadConfiguration(db); {
	case err == nil:
		allowed = append(allowed, conf.Owner)
	case errors.ErrNotFound.Is(err):
		// Without configuration only the pool admin is allowed.
	default:
		return nil, err
	}
	if err := x.RequireAnySigner(ctx, h.auth, "pool admin or owner", allowed...); err != nil {
		return nil, err
	}

	dist, err := GetDistribution(db, msg.PoolID)
	if err != nil {
		return nil, err
	}
	target, err := pool.GetPool(db, msg.TargetPoolID)
	if err != nil {
		return nil, errors.Wrap(err, "target")
	}
	if target.Status != pool.Open {
		return nil, errors.Wrapf(errors.ErrState, "target pool is %s", target.Status)
	}
	// Only prize pools receive unclaimed funds.
	if target.Kind != pool.Prize {
		return nil, errors.Wrapf(errors.ErrState, "target pool is a %s pool", target.Kind)
	}

	if deadline := dist.CreatedAt.Add(source.ClaimPeriod.Duration()); !fundpool.IsExpired(ctx, deadline) {
		return nil, errors.Wrapf(errors.ErrState, "claim period ends at %s", deadline)
	}
	return &rollover{
		msg:    &msg,
		dist:   dist,
		source: source,
		target: target,
	}, nil
}
