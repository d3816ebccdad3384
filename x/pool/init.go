package pool

import (
	"github.com/iov-one/fundpool"
	"github.com/iov-one/fundpool/gconf"
)

// Initializer fulfils the Initializer interface to load the pool
// configuration from the genesis file.
type Initializer struct{}

var _ fundpool.Initializer = (*Initializer)(nil)

// FromGenesis stores the pool configuration. Pools are never created from
// genesis.
func (*Initializer) FromGenesis(opts fundpool.Options, db fundpool.KVStore) error {
	return gconf.InitConfig(db, opts, "pool", &Configuration{})
}
