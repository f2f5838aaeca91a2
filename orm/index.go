package orm

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
)

var isIndexName = regexp.MustCompile(`^[a-z_]{3,20}$`).MatchString

// Indexer computes the index value of a model. A nil value means the model
// is not indexed.
type Indexer func(Model) ([]byte, error)

// Index is a secondary index of a bucket. All references that share an index
// value are stored together under one key, so it suits small sets like
// "escrows of an initializer".
type Index struct {
	name   string
	prefix []byte
	unique bool
	index  Indexer
	// refKey turns a primary key into the full database key.
	refKey func([]byte) []byte
}

// NewIndex returns an index stored under its own prefix. With unique set, a
// second model with the same index value fails with ErrDuplicate.
func NewIndex(name string, indexer Indexer, unique bool, refKey func([]byte) []byte) Index {
	if !isIndexName(name) {
		panic(fmt.Sprintf("illegal index name: %q", name))
	}
	return Index{
		name:   name,
		prefix: []byte("_i." + name + ":"),
		unique: unique,
		index:  indexer,
		refKey: refKey,
	}
}

func (i Index) Name() string {
	return i.name
}

func (i Index) indexKey(value []byte) []byte {
	out := make([]byte, len(i.prefix)+len(value))
	copy(out, i.prefix)
	copy(out[len(i.prefix):], value)
	return out
}

// Update moves the reference of key from the index value of prev to the
// index value of next. A nil prev is an insert and a nil next a delete.
func (i Index) Update(db weave.KVStore, key []byte, prev, next Model) error {
	if prev == nil && next == nil {
		return errors.Wrap(errors.ErrHuman, "index update without a model")
	}
	var before, after []byte
	var err error
	if prev != nil {
		if before, err = i.index(prev); err != nil {
			return errors.Wrapf(err, "index %s", i.name)
		}
	}
	if next != nil {
		if after, err = i.index(next); err != nil {
			return errors.Wrapf(err, "index %s", i.name)
		}
	}
	if prev != nil && next != nil && bytes.Equal(before, after) {
		return nil
	}
	if before != nil {
		if err := i.remove(db, before, key); err != nil {
			return err
		}
	}
	if after != nil {
		if err := i.insert(db, after, key); err != nil {
			return err
		}
	}
	return nil
}

func (i Index) insert(db weave.KVStore, value, key []byte) error {
	ikey := i.indexKey(value)
	raw, err := db.Get(ikey)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if i.unique {
		if raw != nil {
			return errors.Wrapf(errors.ErrDuplicate, "index %s", i.name)
		}
		return db.Set(ikey, key)
	}

	var refs MultiRef
	if raw != nil {
		if err := refs.Unmarshal(raw); err != nil {
			return err
		}
	}
	if err := refs.Add(key); err != nil {
		return err
	}
	bz, err := refs.Marshal()
	if err != nil {
		return err
	}
	return db.Set(ikey, bz)
}

func (i Index) remove(db weave.KVStore, value, key []byte) error {
	ikey := i.indexKey(value)
	raw, err := db.Get(ikey)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "index %s has no entry", i.name)
	}
	if i.unique {
		if !bytes.Equal(raw, key) {
			return errors.Wrapf(errors.ErrInvalidState, "index %s points elsewhere", i.name)
		}
		return db.Delete(ikey)
	}

	var refs MultiRef
	if err := refs.Unmarshal(raw); err != nil {
		return err
	}
	if err := refs.Remove(key); err != nil {
		return err
	}
	if len(refs.Refs) == 0 {
		return db.Delete(ikey)
	}
	bz, err := refs.Marshal()
	if err != nil {
		return err
	}
	return db.Set(ikey, bz)
}

// Keys returns the primary keys indexed under value.
func (i Index) Keys(db weave.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	raw, err := db.Get(i.indexKey(value))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	switch {
	case raw == nil:
		return nil, nil
	case i.unique:
		return [][]byte{raw}, nil
	}
	var refs MultiRef
	if err := refs.Unmarshal(raw); err != nil {
		return nil, err
	}
	return refs.Refs, nil
}

// Query returns the stored models indexed under the data. Only the key mode
// is supported.
func (i Index) Query(db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	if mod != weave.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "index query mode %q", mod)
	}
	keys, err := i.Keys(db, data)
	if err != nil {
		return nil, err
	}
	res := make([]weave.Model, 0, len(keys))
	for _, k := range keys {
		dbkey := i.refKey(k)
		val, err := db.Get(dbkey)
		if err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, err.Error())
		}
		if val == nil {
			return nil, errors.Wrapf(errors.ErrInvalidState, "index %s references a missing model", i.name)
		}
		res = append(res, weave.Pair(dbkey, val))
	}
	return res, nil
}
