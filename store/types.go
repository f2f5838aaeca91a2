package store

import "github.com/iov-one/weave-swap"

// Aliases of the storage interfaces, for shorter names inside this package
// and its users.
type (
	ReadOnlyKVStore  = weave.ReadOnlyKVStore
	KVStore          = weave.KVStore
	Iterator         = weave.Iterator
	CacheableKVStore = weave.CacheableKVStore
	KVCacheWrap      = weave.KVCacheWrap
	CommitKVStore    = weave.CommitKVStore
	CommitID         = weave.CommitID
	Batch            = weave.Batch
	Model            = weave.Model
)

var Pair = weave.Pair
