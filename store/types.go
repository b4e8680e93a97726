package store

import "github.com/iov-one/custodian"

// Move references for all storage types into this package
// for shorter names everywhere.

type ReadOnlyKVStore = custodian.ReadOnlyKVStore
type KVStore = custodian.KVStore
type SetDeleter = custodian.SetDeleter
type Batch = custodian.Batch
type Iterator = custodian.Iterator
type CacheableKVStore = custodian.CacheableKVStore
type KVCacheWrap = custodian.KVCacheWrap
type CommitKVStore = custodian.CommitKVStore
type CommitID = custodian.CommitID

// Model groups together key and value to easily build iterators from
// preloaded data.
type Model struct {
	Key   []byte
	Value []byte
}
