package matching

import (
	"github.com/iov-one/fundpool"
	"github.com/iov-one/fundpool/errors"
	"github.com/iov-one/fundpool/gconf"
)

// CoinMinter creates new coins.
// Required functionality is implemented by the x/cash extension.
type CoinMinter interface {
	CoinMint(db fundpool.KVStore, dest fundpool.Address, amount int64) error
}

// Initializer loads the matching configuration and the initial fund balance
// from the genesis file.
type Initializer struct {
	Minter CoinMinter
}

var _ fundpool.Initializer = Initializer{}

// FromGenesis stores the configuration and mints the initial balance into
// the fund account.
func (i Initializer) FromGenesis(opts fundpool.Options, db fundpool.KVStore) error {
	if err := gconf.InitConfig(db, opts, "matching", &Configuration{}); err != nil {
		return errors.Wrap(err, "init config")
	}

	var genesis struct {
		Balance int64 `json:"balance"`
	}
	if err := opts.ReadOptions("matching", &genesis); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot load matching: %s", err)
	}
	if genesis.Balance < 0 {
		return errors.Wrap(errors.ErrAmount, "negative fund balance")
	}
	fund := &Fund{
		Metadata: &fundpool.Metadata{Schema: 1},
		Account:  FundAccount,
		Balance:  genesis.Balance,
	}
	if genesis.Balance > 0 {
		if err := i.Minter.CoinMint(db, FundAccount, genesis.Balance); err != nil {
			return errors.Wrap(err, "mint fund balance")
		}
	}
	if _, err := NewFundBucket().Put(db, fundKey, fund); err != nil {
		return errors.Wrap(err, "save fund")
	}
	return nil
}
