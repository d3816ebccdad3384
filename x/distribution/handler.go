package distribution

import (
	"math"
	"strconv"

	"github.com/iov-one/fundpool"
	"github.com/iov-one/fundpool/errors"
	"github.com/iov-one/fundpool/x"
	"github.com/iov-one/fundpool/x/matching"
	"github.com/iov-one/fundpool/x/pool"
)

// CoinMover allows to move coins between wallets.
// Required functionality is implemented by the x/cash extension.
type CoinMover interface {
	MoveCoins(db fundpool.KVStore, src, dest fundpool.Address, amount int64) error
}

// MatchingFund pays quadratic funding matches.
// Required functionality is implemented by the x/matching extension.
type MatchingFund interface {
	Available(db fundpool.ReadOnlyKVStore) (int64, error)
	Pay(db fundpool.KVStore, dest fundpool.Address, amount int64) error
}

// RegisterRoutes registers handlers for distribution message processing.
func RegisterRoutes(r fundpool.Registry, auth x.Authenticator, cash CoinMover, fund MatchingFund) {
	r.Handle(&CreateMsg{}, &createHandler{auth: auth, fund: fund})
	r.Handle(&ClaimMsg{}, &claimHandler{auth: auth, cash: cash})
	r.Handle(&RolloverMsg{}, &rolloverHandler{auth: auth, cash: cash})
}

type createHandler struct {
	auth x.Authenticator
	fund MatchingFund
}

func (h *createHandler) Check(ctx fundpool.Context, db fundpool.KVStore, tx fundpool.Tx) (*fundpool.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &fundpool.CheckResult{}, nil
}

func (h *createHandler) Deliver(ctx fundpool.Context, db fundpool.KVStore, tx fundpool.Tx) (*fundpool.DeliverResult, error) {
	msg, p, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	now, err := fundpool.BlockTime(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "block time")
	}

	var d *Distribution
	switch p.Kind {
	case pool.Prize:
		d = equalSplit(p, msg.Winners)
		p.Total -= d.TotalAllocated
	case pool.Charity:
		d, err = h.quadratic(db, msg.PoolID, p)
		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.Wrapf(errors.ErrHuman, "unknown pool kind %d", p.Kind)
	}
	d.PoolID = msg.PoolID
	d.CreatedAt = fundpool.AsUnixTime(now)

	if _, err := NewDistributionBucket().Put(db, msg.PoolID, d); err != nil {
		return nil, errors.Wrap(err, "save distribution")
	}
	p.Status = pool.Distributed
	if err := pool.SavePool(db, msg.PoolID, p); err != nil {
		return nil, err
	}

	fundpool.GetLogger(ctx).Info("distribution created",
		"pool", msg.PoolID,
		"policy", d.Policy,
		"winners", len(d.Entries),
		"allocated", d.TotalAllocated)
	return &fundpool.DeliverResult{
		Data: []byte(strconv.FormatInt(d.TotalAllocated, 10)),
	}, nil
}

// equalSplit allocates the same share to every winner. The remainder of the
// division stays in the pool.
func equalSplit(p *pool.Pool, winners []fundpool.Address) *Distribution {
	n := int64(len(winners))
	per := p.Total / n
	entries := make([]*Entry, len(winners))
	for i, w := range winners {
		entries[i] = &Entry{Winner: w, Amount: per}
	}
	return &Distribution{
		Metadata:       &fundpool.Metadata{Schema: 1},
		Policy:         EqualSplit,
		Entries:        entries,
		TotalAllocated: per * n,
	}
}

// quadratic pays the match of a charity pool to its beneficiary. The single
// entry of the returned distribution is already claimed.
func (h *createHandler) quadratic(db fundpool.KVStore, poolID []byte, p *pool.Pool) (*Distribution, error) {
	totals, err := pool.DonorTotals(db, poolID)
	if err != nil {
		return nil, err
	}
	available, err := h.fund.Available(db)
	if err != nil {
		return nil, errors.Wrap(err, "matching fund")
	}
	payout, err := matching.ComputeMatch(totals, p.Total, available)
	if err != nil {
		return nil, errors.Wrap(err, "compute match")
	}
	if payout > 0 {
		if err := checkStats(db, func(s *pool.Stats) int64 { return s.TotalMatched }, payout); err != nil {
			return nil, err
		}
		if err := h.fund.Pay(db, p.Beneficiary, payout); err != nil {
			return nil, errors.Wrap(err, "cannot pay the match")
		}
		err := pool.UpdateStats(db, func(s *pool.Stats) error {
			s.TotalMatched += payout
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return &Distribution{
		Metadata: &fundpool.Metadata{Schema: 1},
		Policy:   Quadratic,
		Entries: []*Entry{
			{Winner: p.Beneficiary, Amount: payout, Claimed: true},
		},
		TotalAllocated: payout,
	}, nil
}

func (h *createHandler) validate(ctx fundpool.Context, db fundpool.KVStore, tx fundpool.Tx) (*CreateMsg, *pool.Pool, error) {
	var msg CreateMsg
	if err := fundpool.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	p, err := pool.GetPool(db, msg.PoolID)
	if err != nil {
		return nil, nil, err
	}
	if err := x.RequireSigner(ctx, h.auth, "pool admin", p.Admin); err != nil {
		return nil, nil, err
	}
	if p.Status != pool.Open {
		return nil, nil, errors.Wrapf(errors.ErrState, "pool is %s", p.Status)
	}
	switch err := NewDistributionBucket().Has(db, msg.PoolID); {
	case err == nil:
		return nil, nil, errors.Wrap(errors.ErrState, "pool already has a distribution")
	case !errors.ErrNotFound.Is(err):
		return nil, nil, err
	}
	if p.Total < p.MinThreshold {
		return nil, nil, errors.Wrapf(errors.ErrState, "pool total %d below threshold %d", p.Total, p.MinThreshold)
	}
	if p.Kind == pool.Charity {
		if !p.Verified {
			return nil, nil, errors.Wrap(errors.ErrState, "pool is not verified")
		}
		if len(msg.Winners) != 1 || !msg.Winners[0].Equals(p.Beneficiary) {
			return nil, nil, errors.Wrap(errors.ErrInput, "the beneficiary must be the only winner")
		}
	}
	return &msg, p, nil
}

type claimHandler struct {
	auth x.Authenticator
	cash CoinMover
}

func (h *claimHandler) Check(ctx fundpool.Context, db fundpool.KVStore, tx fundpool.Tx) (*fundpool.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &fundpool.CheckResult{}, nil
}

func (h *claimHandler) Deliver(ctx fundpool.Context, db fundpool.KVStore, tx fundpool.Tx) (*fundpool.DeliverResult, error) {
	msg, d, entry, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	p, err := pool.GetPool(db, msg.PoolID)
	if err != nil {
		return nil, err
	}

	if err := checkStats(db, func(s *pool.Stats) int64 { return s.TotalDistributed }, entry.Amount); err != nil {
		return nil, err
	}
	if entry.Amount > 0 {
		if err := h.cash.MoveCoins(db, p.Custody, msg.Winner, entry.Amount); err != nil {
			return nil, errors.Wrap(err, "cannot pay the share")
		}
	}
	err = pool.UpdateStats(db, func(s *pool.Stats) error {
		s.TotalDistributed += entry.Amount
		return nil
	})
	if err != nil {
		return nil, err
	}
	entry.Claimed = true
	if _, err := NewDistributionBucket().Put(db, msg.PoolID, d); err != nil {
		return nil, errors.Wrap(err, "save distribution")
	}

	fundpool.GetLogger(ctx).Info("share claimed",
		"pool", msg.PoolID, "winner", msg.Winner, "amount", entry.Amount)
	return &fundpool.DeliverResult{}, nil
}

// validate returns the entry of the winner. Only the first occurrence of
// a winner is considered.
func (h *claimHandler) validate(ctx fundpool.Context, db fundpool.KVStore, tx fundpool.Tx) (*ClaimMsg, *Distribution, *Entry, error) {
	var msg ClaimMsg
	if err := fundpool.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	if err := x.RequireSigner(ctx, h.auth, "winner", msg.Winner); err != nil {
		return nil, nil, nil, err
	}
	d, err := GetDistribution(db, msg.PoolID)
	if err != nil {
		return nil, nil, nil, err
	}
	entry := findEntry(d.Entries, msg.Winner)
	if entry == nil {
		return nil, nil, nil, errors.Wrapf(ErrNotWinner, "%s", msg.Winner)
	}
	if entry.Claimed {
		return nil, nil, nil, errors.Wrapf(ErrAlreadyClaimed, "%s", msg.Winner)
	}
	return &msg, d, entry, nil
}

func findEntry(entries []*Entry, winner fundpool.Address) *Entry {
	for _, e := range entries {
		if e.Winner.Equals(winner) {
			return e
		}
	}
	return nil
}

// checkStats returns ErrOverflow if adding delta to the counter selected by
// field would overflow.
func checkStats(db fundpool.ReadOnlyKVStore, field func(*pool.Stats) int64, delta int64) error {
	s, err := pool.GetStats(db)
	if err != nil {
		return err
	}
	if field(s) > math.MaxInt64-delta {
		return errors.Wrap(errors.ErrOverflow, "stats counter")
	}
	return nil
}
