package weave

// ReadOnlyKVStore is the read half of a key value store. Every backend (the
// btree memory store, cache wraps and the iavl commit store) implements it.
type ReadOnlyKVStore interface {
	// Get returns nil and no error if the key does not exist.
	Get(key []byte) ([]byte, error)

	Has(key []byte) (bool, error)

	// Iterator walks the keys in [start, end) in ascending order. A nil
	// bound means unbounded. No writes may happen within the domain while
	// the iterator is in use.
	Iterator(start, end []byte) (Iterator, error)

	// ReverseIterator walks the keys in [start, end) in descending order.
	ReverseIterator(start, end []byte) (Iterator, error)
}

// KVStore is a readable and writable key value store.
type KVStore interface {
	ReadOnlyKVStore

	Set(key, value []byte) error
	Delete(key []byte) error
}

// Iterator gives access to a range of key value pairs.
//
//	it, err := db.Iterator(start, end)
//	if err != nil { ... }
//	defer it.Release()
//	for {
//	  key, value, err := it.Next()
//	  if errors.ErrIteratorDone.Is(err) {
//	    break
//	  } else if err != nil { ... }
//	}
type Iterator interface {
	// Next returns the next pair or ErrIteratorDone once exhausted.
	Next() (key, value []byte, err error)

	// Release frees the resources held by the iterator. It is safe to call
	// it more than once.
	Release()
}

// CacheableKVStore is a KVStore that supports cache wrapping. A cache wrap
// groups writes that are committed or discarded together, like an SQL
// SAVEPOINT.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap is a scratch pad of uncommitted writes on top of a parent
// store. Reads see the pending writes. Call Write to flush them to the
// parent or Discard to drop them.
type KVCacheWrap interface {
	CacheableKVStore

	Write() error
	Discard()
}

// CommitKVStore is a store that persists versions to disk.
type CommitKVStore interface {
	// Get returns the value at the last committed state.
	Get(key []byte) ([]byte, error)

	// CacheWrap returns a scratch pad for the next version. Only writes
	// flushed from it become part of the next Commit.
	CacheWrap() KVCacheWrap

	// Commit saves the next version and returns its identity.
	Commit() (CommitID, error)

	// LoadLatestVersion loads the last persisted version.
	LoadLatestVersion() error

	// LatestVersion returns the identity of the last persisted version.
	LatestVersion() (CommitID, error)
}

// CommitID identifies a persisted version by height and merkle root.
type CommitID struct {
	Version int64
	Hash    []byte
}

// Batch collects writes that are applied together.
type Batch interface {
	Set(key, value []byte) error
	Delete(key []byte) error
	Write() error
}
