package pool

import (
	"math"

	"github.com/iov-one/fundpool"
	"github.com/iov-one/fundpool/errors"
	"github.com/iov-one/fundpool/orm"
	"github.com/iov-one/fundpool/x/leaderboard"
)

// CoinMover allows to move coins between wallets.
// Required functionality is implemented by the x/cash extension.
type CoinMover interface {
	MoveCoins(db fundpool.KVStore, src, dest fundpool.Address, amount int64) error
}

// GetPool returns the pool with the given id or ErrNotFound.
func GetPool(db fundpool.ReadOnlyKVStore, poolID []byte) (*Pool, error) {
	var p Pool
	if err := pools.One(db, poolID, &p); err != nil {
		return nil, errors.Wrapf(err, "pool %X", poolID)
	}
	return &p, nil
}

// SavePool persists the pool under the given id.
func SavePool(db fundpool.KVStore, poolID []byte, p *Pool) error {
	if _, err := pools.Put(db, poolID, p); err != nil {
		return errors.Wrap(err, "save pool")
	}
	return nil
}

// createPool assigns the next id to the pool and persists it. The custody of
// a prize pool is derived from its id, so it is set here.
func createPool(db fundpool.KVStore, p *Pool) ([]byte, error) {
	id, err := poolSeq.NextVal(db)
	if err != nil {
		return nil, errors.Wrap(err, "next pool id")
	}
	if p.Kind == Prize {
		p.Custody = CustodyAccount(id)
	} else {
		p.Custody = p.Beneficiary
	}
	if _, err := pools.Put(db, id, p); err != nil {
		return nil, errors.Wrap(err, "save pool")
	}
	err = UpdateStats(db, func(s *Stats) error {
		s.NumPools++
		return nil
	})
	return id, err
}

// Record moves amount from the contributor into the custody of the pool
// and updates all ledger records and the leaderboard. Every counter is
// checked for overflow before any write happens. When the transfer fails
// nothing is written.
func Record(db fundpool.KVStore, mover CoinMover, poolID []byte, contributor fundpool.Address, amount int64, now fundpool.UnixTime) error {
	if amount <= 0 {
		return errors.Wrapf(errors.ErrAmount, "non positive contribution: %d", amount)
	}
	p, err := GetPool(db, poolID)
	if err != nil {
		return err
	}
	if p.Status != Open {
		return errors.Wrapf(errors.ErrState, "pool is %s", p.Status)
	}
	if !p.Verified {
		return errors.Wrap(errors.ErrState, "pool is not verified")
	}

	aggKey := orm.CompositeKey(contributor, poolID)
	var agg DonorAggregate
	first := false
	switch err := donors.One(db, aggKey, &agg); {
	case err == nil:
	case errors.ErrNotFound.Is(err):
		first = true
		agg = DonorAggregate{
			Metadata:    &fundpool.Metadata{Schema: 1},
			PoolID:      poolID,
			Contributor: contributor,
		}
	default:
		return errors.Wrap(err, "load donor aggregate")
	}

	st, err := GetStats(db)
	if err != nil {
		return err
	}
	if agg.Amount > math.MaxInt64-amount {
		return errors.Wrap(errors.ErrOverflow, "donor total")
	}
	if p.Total > math.MaxInt64-amount {
		return errors.Wrap(errors.ErrOverflow, "pool total")
	}
	if st.TotalContributed > math.MaxInt64-amount {
		return errors.Wrap(errors.ErrOverflow, "total contributed")
	}
	if first && p.ContributorCount == math.MaxUint32 {
		return errors.Wrap(errors.ErrOverflow, "contributor count")
	}

	if err := mover.MoveCoins(db, contributor, p.Custody, amount); err != nil {
		return errors.Wrap(err, "cannot contribute")
	}

	seq, err := contribSeq.NextVal(db)
	if err != nil {
		return errors.Wrap(err, "next contribution id")
	}
	c := &Contribution{
		Metadata:    &fundpool.Metadata{Schema: 1},
		PoolID:      poolID,
		Contributor: contributor,
		Amount:      amount,
		CreatedAt:   now,
	}
	if _, err := contribs.Put(db, orm.CompositeKey(poolID, seq), c); err != nil {
		return errors.Wrap(err, "save contribution")
	}

	if first {
		p.ContributorCount++
		st.NumContributors++
		list, err := loadContributors(db, poolID)
		if err != nil {
			return err
		}
		list.Contributors = append(list.Contributors, contributor)
		if _, err := contributors.Put(db, poolID, list); err != nil {
			return errors.Wrap(err, "save contributors")
		}
	}
	agg.Amount += amount
	if _, err := donors.Put(db, aggKey, &agg); err != nil {
		return errors.Wrap(err, "save donor aggregate")
	}
	p.Total += amount
	if err := SavePool(db, poolID, p); err != nil {
		return err
	}
	st.TotalContributed += amount
	if _, err := stats.Put(db, statsKey, st); err != nil {
		return errors.Wrap(err, "save stats")
	}
	if err := leaderboard.Update(db, contributor, amount); err != nil {
		return errors.Wrap(err, "leaderboard")
	}
	return nil
}

// DonorTotal returns the cumulative amount given by the contributor to the
// pool. Zero is returned if the contributor never contributed.
func DonorTotal(db fundpool.ReadOnlyKVStore, poolID []byte, contributor fundpool.Address) (int64, error) {
	var agg DonorAggregate
	switch err := donors.One(db, orm.CompositeKey(contributor, poolID), &agg); {
	case err == nil:
		return agg.Amount, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, errors.Wrap(err, "load donor aggregate")
	}
}

// DonorTotals returns the cumulative amount of every contributor of the pool,
// in the order of their first contribution.
func DonorTotals(db fundpool.ReadOnlyKVStore, poolID []byte) ([]int64, error) {
	addrs, err := Contributors(db, poolID)
	if err != nil {
		return nil, err
	}
	totals := make([]int64, 0, len(addrs))
	for _, a := range addrs {
		t, err := DonorTotal(db, poolID, a)
		if err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, nil
}

// Contributors returns the distinct contributors of the pool in the order
// of their first contribution.
func Contributors(db fundpool.ReadOnlyKVStore, poolID []byte) ([]fundpool.Address, error) {
	list, err := loadContributors(db, poolID)
	if err != nil {
		return nil, err
	}
	return list.Contributors, nil
}

func loadContributors(db fundpool.ReadOnlyKVStore, poolID []byte) (*ContributorList, error) {
	var list ContributorList
	switch err := contributors.One(db, poolID, &list); {
	case err == nil:
		return &list, nil
	case errors.ErrNotFound.Is(err):
		return &ContributorList{Metadata: &fundpool.Metadata{Schema: 1}}, nil
	default:
		return nil, errors.Wrap(err, "load contributors")
	}
}

// Contributions returns all contributions recorded for the pool, oldest
// first.
func Contributions(db fundpool.ReadOnlyKVStore, poolID []byte) ([]*Contribution, error) {
	it, err := contribs.PrefixScan(db, orm.CompositeKey(poolID), false)
	if err != nil {
		return nil, errors.Wrap(err, "scan contributions")
	}
	defer it.Release()

	var res []*Contribution
	for {
		var c Contribution
		switch _, err := it.LoadNext(&c); {
		case err == nil:
			res = append(res, &c)
		case errors.ErrIteratorDone.Is(err):
			return res, nil
		default:
			return nil, errors.Wrap(err, "load contribution")
		}
	}
}

// GetStats returns the global ledger counters.
func GetStats(db fundpool.ReadOnlyKVStore) (*Stats, error) {
	var s Stats
	switch err := stats.One(db, statsKey, &s); {
	case err == nil:
		return &s, nil
	case errors.ErrNotFound.Is(err):
		return &Stats{Metadata: &fundpool.Metadata{Schema: 1}}, nil
	default:
		return nil, errors.Wrap(err, "load stats")
	}
}

// UpdateStats loads the global counters, applies fn and saves the result.
// Nothing is written if fn returns an error.
func UpdateStats(db fundpool.KVStore, fn func(*Stats) error) error {
	s, err := GetStats(db)
	if err != nil {
		return err
	}
	if err := fn(s); err != nil {
		return err
	}
	if _, err := stats.Put(db, statsKey, s); err != nil {
		return errors.Wrap(err, "save stats")
	}
	return nil
}

// GetReceipt returns the receipt with the given id or ErrNotFound.
func GetReceipt(db fundpool.ReadOnlyKVStore, id []byte) (*Receipt, error) {
	var r Receipt
	if err := receipts.One(db, id, &r); err != nil {
		return nil, errors.Wrap(err, "receipt")
	}
	return &r, nil
}

// GetPledge returns the recurring pledge of the donor to the pool or
// ErrNotFound.
func GetPledge(db fundpool.ReadOnlyKVStore, poolID []byte, donor fundpool.Address) (*RecurringPledge, error) {
	var r RecurringPledge
	if err := pledges.One(db, orm.CompositeKey(donor, poolID), &r); err != nil {
		return nil, errors.Wrap(err, "pledge")
	}
	return &r, nil
}
