package fundpooltest

import (
	"github.com/iov-one/fundpool"
	"github.com/iov-one/fundpool/errors"
)

// CoinMover is the part of the value transfer service used by Transfer.
type CoinMover interface {
	MoveCoins(db fundpool.KVStore, src, dest fundpool.Address, amount int64) error
}

// Transfer is a value transfer mock that fails every payment. When Mover is
// set the coins are moved first, so the failure happens after the store was
// written. Use it to ensure that a failed payment leaves no state behind.
//
// Transfer serves both as a coin mover and as a matching fund.
type Transfer struct {
	// Mover if set performs the transfer before it is rejected.
	Mover CoinMover
	// Fund is the account that Pay moves coins from.
	Fund fundpool.Address
	// Balance is reported as the available matching fund amount.
	Balance int64
	// Err is returned by every payment. ErrTransfer is used when not set.
	Err error

	calls int
}

// Calls returns the number of payments attempted.
func (t *Transfer) Calls() int {
	return t.calls
}

func (t *Transfer) MoveCoins(db fundpool.KVStore, src, dest fundpool.Address, amount int64) error {
	t.calls++
	if t.Mover != nil {
		if err := t.Mover.MoveCoins(db, src, dest, amount); err != nil {
			return err
		}
	}
	if t.Err != nil {
		return t.Err
	}
	return errors.Wrapf(errors.ErrTransfer, "payment of %d to %s rejected", amount, dest)
}

func (t *Transfer) Pay(db fundpool.KVStore, dest fundpool.Address, amount int64) error {
	return t.MoveCoins(db, t.Fund, dest, amount)
}

func (t *Transfer) Available(fundpool.ReadOnlyKVStore) (int64, error) {
	return t.Balance, nil
}
