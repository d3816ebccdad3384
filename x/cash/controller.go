package cash

import (
	"math"

	"github.com/iov-one/fundpool"
	"github.com/iov-one/fundpool/errors"
	"github.com/iov-one/fundpool/orm"
)

// CoinMover is the value-transfer service used by the other extensions. It
// either moves the whole amount or fails with ErrTransfer and changes nothing.
type CoinMover interface {
	MoveCoins(db fundpool.KVStore, src, dest fundpool.Address, amount int64) error
}

// CoinMinter creates new coins.
type CoinMinter interface {
	CoinMint(db fundpool.KVStore, dest fundpool.Address, amount int64) error
}

// Controller is the whole cash functionality exposed to other extensions.
type Controller interface {
	CoinMover
	CoinMinter
	Balance(db fundpool.ReadOnlyKVStore, addr fundpool.Address) (int64, error)
}

// BaseController is the default Controller implementation, backed by the
// wallet bucket.
type BaseController struct {
	bucket orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a controller operating on the given wallet bucket.
func NewController(bucket orm.ModelBucket) BaseController {
	return BaseController{bucket: bucket}
}

// Balance returns the amount held by the given address. An address that never
// received coins has a zero balance.
func (c BaseController) Balance(db fundpool.ReadOnlyKVStore, addr fundpool.Address) (int64, error) {
	w, err := c.wallet(db, addr)
	if err != nil {
		return 0, err
	}
	return w.Amount, nil
}

// MoveCoins moves the given amount from src to dest. If src does not have
// sufficient coins, it fails with ErrTransfer.
func (c BaseController) MoveCoins(db fundpool.KVStore, src, dest fundpool.Address, amount int64) error {
	if amount <= 0 {
		return errors.Wrapf(errors.ErrAmount, "non positive transfer: %d", amount)
	}
	if err := src.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}

	sender, err := c.wallet(db, src)
	if err != nil {
		return err
	}
	if sender.Amount < amount {
		return errors.Wrapf(errors.ErrTransfer, "insufficient funds: %d < %d", sender.Amount, amount)
	}
	if src.Equals(dest) {
		return nil
	}
	recipient, err := c.wallet(db, dest)
	if err != nil {
		return err
	}
	if recipient.Amount > math.MaxInt64-amount {
		return errors.Wrap(errors.ErrTransfer, "recipient balance overflow")
	}

	sender.Amount -= amount
	recipient.Amount += amount
	if _, err := c.bucket.Put(db, src, sender); err != nil {
		return errors.Wrap(err, "save sender")
	}
	if _, err := c.bucket.Put(db, dest, recipient); err != nil {
		return errors.Wrap(err, "save recipient")
	}
	return nil
}

// CoinMint adds the given amount of coins to the destination address. Fails if
// it overflows the wallet.
func (c BaseController) CoinMint(db fundpool.KVStore, dest fundpool.Address, amount int64) error {
	if amount <= 0 {
		return errors.Wrapf(errors.ErrAmount, "non positive mint: %d", amount)
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	w, err := c.wallet(db, dest)
	if err != nil {
		return err
	}
	if w.Amount > math.MaxInt64-amount {
		return errors.Wrap(errors.ErrOverflow, "wallet balance")
	}
	w.Amount += amount
	if _, err := c.bucket.Put(db, dest, w); err != nil {
		return errors.Wrap(err, "save wallet")
	}
	return nil
}

func (c BaseController) wallet(db fundpool.ReadOnlyKVStore, addr fundpool.Address) (*Wallet, error) {
	var w Wallet
	switch err := c.bucket.One(db, addr, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{Metadata: &fundpool.Metadata{Schema: 1}}, nil
	default:
		return nil, errors.Wrap(err, "load wallet")
	}
}
