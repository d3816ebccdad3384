package matching

import (
	"math"

	"github.com/iov-one/fundpool"
	"github.com/iov-one/fundpool/errors"
	"github.com/iov-one/fundpool/gconf"
	"github.com/iov-one/fundpool/orm"
)

// CoinMover allows to move coins between wallets.
// Required functionality is implemented by the x/cash extension.
type CoinMover interface {
	MoveCoins(db fundpool.KVStore, src, dest fundpool.Address, amount int64) error
}

// Controller manages the matching fund.
type Controller interface {
	// Fund returns the current state of the matching fund.
	Fund(db fundpool.ReadOnlyKVStore) (*Fund, error)
	// Available returns the greatest amount a single payout can use.
	Available(db fundpool.ReadOnlyKVStore) (int64, error)
	// Deposit moves coins from the given wallet into the fund.
	Deposit(db fundpool.KVStore, src fundpool.Address, amount int64) error
	// Pay moves coins from the fund to the given wallet.
	Pay(db fundpool.KVStore, dest fundpool.Address, amount int64) error
}

// BaseController is the default Controller implementation.
type BaseController struct {
	bucket orm.ModelBucket
	cash   CoinMover
}

var _ Controller = BaseController{}

// NewController returns a controller that moves the fund coins using the
// given value-transfer service.
func NewController(cash CoinMover) BaseController {
	return BaseController{
		bucket: NewFundBucket(),
		cash:   cash,
	}
}

func (c BaseController) Fund(db fundpool.ReadOnlyKVStore) (*Fund, error) {
	var f Fund
	switch err := c.bucket.One(db, fundKey, &f); {
	case err == nil:
		return &f, nil
	case errors.ErrNotFound.Is(err):
		return &Fund{
			Metadata: &fundpool.Metadata{Schema: 1},
			Account:  FundAccount,
		}, nil
	default:
		return nil, errors.Wrap(err, "load fund")
	}
}

func (c BaseController) Available(db fundpool.ReadOnlyKVStore) (int64, error) {
	f, err := c.Fund(db)
	if err != nil {
		return 0, err
	}
	var conf Configuration
	switch err := gconf.Load(db, "matching", &conf); {
	case err == nil:
		if conf.MaxPayout > 0 && conf.MaxPayout < f.Balance {
			return conf.MaxPayout, nil
		}
	case errors.ErrNotFound.Is(err):
		// Not configured, no payout limit.
	default:
		return 0, errors.Wrap(err, "load configuration")
	}
	return f.Balance, nil
}

func (c BaseController) Deposit(db fundpool.KVStore, src fundpool.Address, amount int64) error {
	if amount <= 0 {
		return errors.Wrapf(errors.ErrAmount, "non positive deposit: %d", amount)
	}
	f, err := c.Fund(db)
	if err != nil {
		return err
	}
	if f.Balance > math.MaxInt64-amount {
		return errors.Wrap(errors.ErrOverflow, "fund balance")
	}
	if err := c.cash.MoveCoins(db, src, f.Account, amount); err != nil {
		return errors.Wrap(err, "cannot deposit")
	}
	f.Balance += amount
	if _, err := c.bucket.Put(db, fundKey, f); err != nil {
		return errors.Wrap(err, "save fund")
	}
	return nil
}

func (c BaseController) Pay(db fundpool.KVStore, dest fundpool.Address, amount int64) error {
	if amount <= 0 {
		return errors.Wrapf(errors.ErrAmount, "non positive payout: %d", amount)
	}
	f, err := c.Fund(db)
	if err != nil {
		return err
	}
	if f.Balance < amount {
		return errors.Wrapf(errors.ErrTransfer, "matching fund balance too low: %d < %d", f.Balance, amount)
	}
	if f.Paid > math.MaxInt64-amount {
		return errors.Wrap(errors.ErrOverflow, "paid total")
	}
	if err := c.cash.MoveCoins(db, f.Account, dest, amount); err != nil {
		return errors.Wrap(err, "cannot pay")
	}
	f.Balance -= amount
	f.Paid += amount
	if _, err := c.bucket.Put(db, fundKey, f); err != nil {
		return errors.Wrap(err, "save fund")
	}
	return nil
}
