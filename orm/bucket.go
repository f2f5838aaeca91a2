/*
Package orm splits the state into prefixed sections called buckets.

Each bucket stores models of a single type under a primary key and may
keep secondary indexes over them. Buckets register themselves with the
query router so that every model is readable over ABCI queries.
*/
package orm

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Model is implemented by anything a bucket can store.
type Model interface {
	weave.Persistent
	Validate() error
}

// Bucket is a prefixed subspace of the store holding models of one type.
type Bucket struct {
	name    string
	prefix  []byte
	model   reflect.Type
	indexes map[string]Index
}

// NewBucket returns a bucket for models of the same type as proto, which
// must be a pointer.
func NewBucket(name string, proto Model) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("illegal bucket name: %q", name))
	}
	t := reflect.TypeOf(proto)
	if t.Kind() != reflect.Ptr {
		panic(fmt.Sprintf("bucket %q model must be a pointer, got %T", name, proto))
	}
	return Bucket{
		name:   name,
		prefix: []byte(name + ":"),
		model:  t.Elem(),
	}
}

func (b Bucket) Name() string {
	return b.name
}

// WithIndex returns a copy of the bucket with an additional index. It
// panics if the name is taken.
func (b Bucket) WithIndex(name string, indexer Indexer, unique bool) Bucket {
	if _, ok := b.indexes[name]; ok {
		panic(fmt.Sprintf("index %q registered twice", name))
	}
	indexes := make(map[string]Index, len(b.indexes)+1)
	for n, idx := range b.indexes {
		indexes[n] = idx
	}
	indexes[name] = NewIndex(b.name+"_"+name, indexer, unique, b.DBKey)
	b.indexes = indexes
	return b
}

// DBKey returns the full key including the bucket prefix. A new slice is
// allocated so that consecutive calls never share memory.
func (b Bucket) DBKey(key []byte) []byte {
	out := make([]byte, len(b.prefix)+len(key))
	copy(out, b.prefix)
	copy(out[len(b.prefix):], key)
	return out
}

// One loads the model stored under key into dest. It returns ErrNotFound
// if there is none.
func (b Bucket) One(db weave.ReadOnlyKVStore, key []byte, dest Model) error {
	if err := b.checkType(dest); err != nil {
		return err
	}
	raw, err := db.Get(b.DBKey(key))
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", b.name, key)
	}
	return dest.Unmarshal(raw)
}

// Has returns true if a model is stored under key.
func (b Bucket) Has(db weave.ReadOnlyKVStore, key []byte) (bool, error) {
	ok, err := db.Has(b.DBKey(key))
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return ok, nil
}

// Put validates and stores m under key, keeping the indexes up to date.
func (b Bucket) Put(db weave.KVStore, key []byte, m Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if err := b.checkType(m); err != nil {
		return err
	}
	if err := m.Validate(); err != nil {
		return errors.Wrapf(err, "invalid %s model", b.name)
	}
	raw, err := m.Marshal()
	if err != nil {
		return err
	}
	if len(b.indexes) > 0 {
		prev, err := b.load(db, key)
		if err != nil {
			return err
		}
		for _, idx := range b.indexes {
			if err := idx.Update(db, key, prev, m); err != nil {
				return err
			}
		}
	}
	return db.Set(b.DBKey(key), raw)
}

// Delete removes the model stored under key. It returns ErrNotFound if
// there is none.
func (b Bucket) Delete(db weave.KVStore, key []byte) error {
	prev, err := b.load(db, key)
	if err != nil {
		return err
	}
	if prev == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", b.name, key)
	}
	for _, idx := range b.indexes {
		if err := idx.Update(db, key, prev, nil); err != nil {
			return err
		}
	}
	return db.Delete(b.DBKey(key))
}

// IndexKeys returns the primary keys of all models indexed under value.
func (b Bucket) IndexKeys(db weave.ReadOnlyKVStore, index string, value []byte) ([][]byte, error) {
	idx, ok := b.indexes[index]
	if !ok {
		return nil, errors.Wrapf(ErrInvalidIndex, "%s has no index %q", b.name, index)
	}
	return idx.Keys(db, value)
}

// ByIndex loads all models indexed under value into dest, which must be a
// pointer to a slice of model pointers. Primary keys are returned in the
// same order.
func (b Bucket) ByIndex(db weave.ReadOnlyKVStore, index string, value []byte, dest interface{}) ([][]byte, error) {
	slice := reflect.ValueOf(dest)
	if slice.Kind() != reflect.Ptr || slice.Elem().Kind() != reflect.Slice ||
		slice.Elem().Type().Elem() != reflect.PtrTo(b.model) {
		return nil, errors.Wrapf(errors.ErrInvalidType, "%T cannot hold %s models", dest, b.name)
	}
	keys, err := b.IndexKeys(db, index, value)
	if err != nil {
		return nil, err
	}
	res := slice.Elem()
	for _, k := range keys {
		m := reflect.New(b.model).Interface().(Model)
		if err := b.One(db, k, m); err != nil {
			return nil, err
		}
		res = reflect.Append(res, reflect.ValueOf(m))
	}
	slice.Elem().Set(res)
	return keys, nil
}

// Register adds a query handler for the bucket under "/"+name and one for
// each index under "/"+name+"/"+index. An empty name uses the bucket name.
func (b Bucket) Register(name string, r weave.QueryRouter) {
	if name == "" {
		name = b.name
	}
	root := "/" + name
	r.Register(root, b)
	for n, idx := range b.indexes {
		r.Register(root+"/"+n, idx)
	}
}

// Query returns the model stored under the data key, or all models whose
// key starts with the data in prefix mode.
func (b Bucket) Query(db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	switch mod {
	case weave.KeyQueryMod:
		key := b.DBKey(data)
		val, err := db.Get(key)
		if err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, err.Error())
		}
		if val == nil {
			return nil, nil
		}
		return []weave.Model{weave.Pair(key, val)}, nil
	case weave.PrefixQueryMod:
		return queryPrefix(db, b.DBKey(data))
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInput, "query mode %q", mod)
	}
}

func (b Bucket) load(db weave.ReadOnlyKVStore, key []byte) (Model, error) {
	raw, err := db.Get(b.DBKey(key))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return nil, nil
	}
	m := reflect.New(b.model).Interface().(Model)
	if err := m.Unmarshal(raw); err != nil {
		return nil, err
	}
	return m, nil
}

func (b Bucket) checkType(m Model) error {
	if t := reflect.TypeOf(m); t != reflect.PtrTo(b.model) {
		return errors.Wrapf(errors.ErrInvalidType, "%s bucket cannot hold %T", b.name, m)
	}
	return nil
}
