package store

import (
	"bytes"
	"crypto/rand"
	"sort"
	"testing"

	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/weavetest/assert"
)

// TestSuite runs the same storage checks against any CacheableKVStore
// implementation. The btree memory store and the iavl adapter both use it.
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor returns a fresh store and a function releasing it.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{makeBase: constructor}
}

// GetSet checks that cache wraps see the parent data, that their writes
// stay invisible until Write, and that Discard drops them.
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	k, v := []byte("vault"), []byte("1000 AAA")
	s.AssertGetHas(t, base, k, nil, false)
	assert.Nil(t, base.Set(k, v))
	s.AssertGetHas(t, base, k, v, true)

	cache := base.CacheWrap()
	s.AssertGetHas(t, cache, k, v, true)

	k2, v2 := []byte("escrow"), []byte("open")
	assert.Nil(t, cache.Set(k2, v2))
	s.AssertGetHas(t, cache, k2, v2, true)
	s.AssertGetHas(t, base, k2, nil, false)

	assert.Nil(t, cache.Write())
	s.AssertGetHas(t, base, k, v, true)
	s.AssertGetHas(t, base, k2, v2, true)

	k3, v3 := []byte("taker"), []byte("500 BBB")
	discarded := base.CacheWrap()
	assert.Nil(t, discarded.Set(k3, v3))
	discarded.Discard()
	s.AssertGetHas(t, base, k3, nil, false)

	deleting := base.CacheWrap()
	assert.Nil(t, deleting.Delete(k))
	s.AssertGetHas(t, deleting, k, nil, false)
	s.AssertGetHas(t, base, k, v, true)
	assert.Nil(t, deleting.Write())
	s.AssertGetHas(t, base, k, nil, false)
	s.AssertGetHas(t, base, k2, v2, true)
}

// CacheConflicts checks overwrites and deletes of parent values.
func (s *TestSuite) CacheConflicts(t *testing.T) {
	ks := randKeys(4, 16)
	vs := randKeys(4, 40)

	parent, cleanup := s.makeBase()
	defer cleanup()
	assert.Nil(t, parent.Set(ks[1], vs[1]))
	assert.Nil(t, parent.Set(ks[2], vs[2]))

	child := parent.CacheWrap()
	assert.Nil(t, child.Set(ks[1], vs[0]))
	assert.Nil(t, child.Set(ks[3], vs[3]))
	assert.Nil(t, child.Delete(ks[2]))

	s.AssertGetHas(t, parent, ks[1], vs[1], true)
	s.AssertGetHas(t, parent, ks[2], vs[2], true)
	s.AssertGetHas(t, parent, ks[3], nil, false)

	want := []Model{Pair(ks[1], vs[0]), Pair(ks[2], nil), Pair(ks[3], vs[3])}
	for _, m := range want {
		s.AssertGetHas(t, child, m.Key, m.Value, m.Value != nil)
	}
	assert.Nil(t, child.Write())
	for _, m := range want {
		s.AssertGetHas(t, parent, m.Key, m.Value, m.Value != nil)
	}
}

// Iteration checks ranges in both directions over combined parent and
// child content, with overwrites and deletes on both layers.
func (s *TestSuite) Iteration(t *testing.T) {
	const size = 40

	parentSet := randModels(size, 8, 20)
	childSet := randModels(size, 8, 20)
	all := sortModels(append(append([]Model{}, parentSet...), childSet...))

	ms := randModels(4, 8, 20)
	a, a2, b, c := ms[0], ms[1], ms[2], ms[3]
	a2.Key = a.Key
	overwritten := sortModels([]Model{a2, b, c})

	cases := map[string]struct {
		pre     []Op
		child   []Op
		queries []rangeQuery
	}{
		"child only": {
			child: makeSetOps(childSet...),
			queries: []rangeQuery{
				{nil, nil, false, sortModels(childSet)},
				{nil, nil, true, reversed(sortModels(childSet))},
			},
		},
		"parent and child combined": {
			pre:   append(makeSetOps(parentSet...), makeDelOps(randModels(5, 8, 1)...)...),
			child: append(makeSetOps(childSet...), makeDelOps(randModels(5, 8, 1)...)...),
			queries: []rangeQuery{
				{nil, nil, false, all},
				{all[10].Key, nil, false, all[10:]},
				{nil, all[30].Key, false, all[:30]},
				{all[17].Key, all[28].Key, false, all[17:28]},
				{nil, nil, true, reversed(all)},
				{all[34].Key, nil, true, reversed(all[34:])},
				{all[6].Key, all[26].Key, true, reversed(all[6:26])},
			},
		},
		"child overwrites parent": {
			pre:   makeSetOps(a, b),
			child: makeSetOps(a2, c),
			queries: []rangeQuery{
				{nil, nil, false, overwritten},
				{overwritten[1].Key, overwritten[2].Key, false, overwritten[1:2]},
				{nil, nil, true, reversed(overwritten)},
			},
		},
		"child deletes hide parent": {
			pre:   makeSetOps(a, b, c),
			child: makeDelOps(a, b),
			queries: []rangeQuery{
				{nil, nil, false, []Model{c}},
				{nil, c.Key, false, nil},
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, cleanup := s.makeBase()
			defer cleanup()

			for _, op := range tc.pre {
				assert.Nil(t, op.Apply(base))
			}
			child := base.CacheWrap()
			for _, op := range tc.child {
				assert.Nil(t, op.Apply(child))
			}
			for _, q := range tc.queries {
				q.verify(t, child)
			}
		})
	}
}

func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	if !bytes.Equal(val, got) {
		t.Fatalf("want %X value, got %X", val, got)
	}
	exists, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, has, exists)
}

type rangeQuery struct {
	start    []byte
	end      []byte
	reverse  bool
	expected []Model
}

func (q rangeQuery) verify(t testing.TB, kv ReadOnlyKVStore) {
	t.Helper()
	var (
		it  Iterator
		err error
	)
	if q.reverse {
		it, err = kv.ReverseIterator(q.start, q.end)
	} else {
		it, err = kv.Iterator(q.start, q.end)
	}
	assert.Nil(t, err)
	defer it.Release()

	for i, want := range q.expected {
		key, value, err := it.Next()
		assert.Nil(t, err)
		if !bytes.Equal(want.Key, key) {
			t.Fatalf("key %d: want %X, got %X", i, want.Key, key)
		}
		if !bytes.Equal(want.Value, value) {
			t.Fatalf("value %d: want %X, got %X", i, want.Value, value)
		}
	}
	if _, _, err := it.Next(); !errors.ErrIteratorDone.Is(err) {
		t.Fatalf("want iterator done, got %+v", err)
	}
}

func randBytes(length int) []byte {
	res := make([]byte, length)
	if _, err := rand.Read(res); err != nil {
		panic(err)
	}
	return res
}

func randKeys(count, size int) [][]byte {
	res := make([][]byte, count)
	for i := range res {
		res[i] = randBytes(size)
	}
	return res
}

func randModels(count, keySize, valueSize int) []Model {
	res := make([]Model, count)
	for i := range res {
		res[i] = Pair(randBytes(keySize), randBytes(valueSize))
	}
	return res
}

// reversed returns a reversed copy.
func reversed(models []Model) []Model {
	res := make([]Model, len(models))
	for i, m := range models {
		res[len(models)-1-i] = m
	}
	return res
}

// sortModels returns a copy sorted by key.
func sortModels(models []Model) []Model {
	res := append([]Model(nil), models...)
	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i].Key, res[j].Key) < 0
	})
	return res
}

func makeSetOps(ms ...Model) []Op {
	res := make([]Op, len(ms))
	for i, m := range ms {
		res[i] = SetOp(m.Key, m.Value)
	}
	return res
}

func makeDelOps(ms ...Model) []Op {
	res := make([]Op, len(ms))
	for i, m := range ms {
		res[i] = DelOp(m.Key)
	}
	return res
}
