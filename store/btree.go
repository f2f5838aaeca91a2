package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/weave-swap/errors"
)

// DefaultFreeListSize is the size of the node free list shared by nested
// cache wraps.
const DefaultFreeListSize = btree.DefaultFreeListSize

// MemStore returns an in memory store without persistence, used in tests
// and as the base of the in memory application.
func MemStore() CacheableKVStore {
	e := EmptyKVStore{}
	return NewBTreeCacheWrap(e, NewNonAtomicBatch(e), nil)
}

// ShowOpser returns the ordered list of operations performed.
type ShowOpser interface {
	ShowOps() []Op
}

// LogableStore returns a memory store together with access to the writes
// that were flushed into it.
func LogableStore() (CacheableKVStore, ShowOpser) {
	e := EmptyKVStore{}
	b := NewNonAtomicBatch(e)
	return NewBTreeCacheWrap(e, b, nil), b
}

// BTreeCacheable adds a btree based cache wrap to any KVStore.
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, NewNonAtomicBatch(b.KVStore), nil)
}

// BTreeCacheWrap keeps pending writes in a btree on top of a read only
// parent. All writes are also recorded in the batch, which is what Write
// flushes to the parent.
type BTreeCacheWrap struct {
	bt    *btree.BTree
	free  *btree.FreeList
	back  ReadOnlyKVStore
	batch Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap returns a cache over kv. free may be nil, pass an
// existing list to share node allocations.
func NewBTreeCacheWrap(kv ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		bt:    btree.NewWithFreeList(2, free),
		free:  free,
		back:  kv,
		batch: batch,
	}
}

// CacheWrap layers another cache on top of this one.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, NewNonAtomicBatch(b), b.free)
}

// Write flushes the pending writes to the parent and empties the cache.
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard drops all pending writes.
func (b BTreeCacheWrap) Discard() {
	for b.bt.DeleteMin() != nil {
	}
	if r, ok := b.batch.(resetter); ok {
		r.Reset()
	}
}

type resetter interface {
	Reset()
}

func (b BTreeCacheWrap) Set(key, value []byte) error {
	if key == nil {
		return errors.Wrap(errors.ErrHuman, "nil key")
	}
	b.bt.ReplaceOrInsert(setItem{bkey{key}, value})
	return b.batch.Set(key, value)
}

func (b BTreeCacheWrap) Delete(key []byte) error {
	if key == nil {
		return errors.Wrap(errors.ErrHuman, "nil key")
	}
	b.bt.ReplaceOrInsert(deletedItem{bkey{key}})
	return b.batch.Delete(key)
}

func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	switch item := b.bt.Get(bkey{key}).(type) {
	case nil:
		return b.back.Get(key)
	case setItem:
		return item.value, nil
	case deletedItem:
		return nil, nil
	default:
		return nil, errors.Wrapf(errors.ErrDatabase, "unknown btree item %T", item)
	}
}

func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	switch item := b.bt.Get(bkey{key}).(type) {
	case nil:
		return b.back.Has(key)
	case setItem:
		return true, nil
	case deletedItem:
		return false, nil
	default:
		return false, errors.Wrapf(errors.ErrDatabase, "unknown btree item %T", item)
	}
}

// Iterator combines the parent content in range with the pending writes.
// The result is materialized, so writes made while iterating are not seen.
func (b BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	merged, err := b.merged(start, end)
	if err != nil {
		return nil, err
	}
	return NewSliceIterator(merged), nil
}

func (b BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	merged, err := b.merged(start, end)
	if err != nil {
		return nil, err
	}
	return NewSliceIterator(reverseInPlace(merged)), nil
}

func (b BTreeCacheWrap) merged(start, end []byte) ([]Model, error) {
	it, err := b.back.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	parent, err := ReadAll(it)
	if err != nil {
		return nil, err
	}

	var cached []keyer
	collect := func(i btree.Item) bool {
		k := i.(keyer)
		if !inRange(k.Key(), start, end) {
			return end == nil || bytes.Compare(k.Key(), end) < 0
		}
		cached = append(cached, k)
		return true
	}
	if start == nil {
		b.bt.Ascend(collect)
	} else {
		b.bt.AscendGreaterOrEqual(bkey{start}, collect)
	}
	return mergeItems(parent, cached), nil
}

// keyer is implemented by every item stored in the btree.
type keyer interface {
	Key() []byte
}

type bkey struct {
	key []byte
}

func (k bkey) Key() []byte {
	return k.key
}

// Less panics if the other item is not a keyer.
func (k bkey) Less(item btree.Item) bool {
	return bytes.Compare(k.key, item.(keyer).Key()) < 0
}

type deletedItem struct {
	bkey
}

type setItem struct {
	bkey
	value []byte
}
