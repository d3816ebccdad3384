package store

import "github.com/iov-one/fundpool"

// Move references for all storage types into this package
// for shorter names everywhere

type (
	ReadOnlyKVStore  = fundpool.ReadOnlyKVStore
	SetDeleter       = fundpool.SetDeleter
	KVStore          = fundpool.KVStore
	Batch            = fundpool.Batch
	Iterator         = fundpool.Iterator
	CacheableKVStore = fundpool.CacheableKVStore
	KVCacheWrap      = fundpool.KVCacheWrap
	CommitKVStore    = fundpool.CommitKVStore
	CommitID         = fundpool.CommitID
)

// Model groups together key and value to return
type Model struct {
	Key   []byte
	Value []byte
}

// Pair constructs a model from a key-value pair
func Pair(key, value []byte) Model {
	return Model{
		Key:   key,
		Value: value,
	}
}
