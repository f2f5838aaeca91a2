package iavl

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/weave-swap/store"
	"github.com/iov-one/weave-swap/weavetest/assert"
)

func makeBase() (store.CacheableKVStore, func()) {
	return NewMemCommitStore().Adapter(), func() {}
}

func TestIavlGetSet(t *testing.T) {
	store.NewTestSuite(makeBase).GetSet(t)
}

func TestIavlCacheConflicts(t *testing.T) {
	store.NewTestSuite(makeBase).CacheConflicts(t)
}

func TestIavlIteration(t *testing.T) {
	store.NewTestSuite(makeBase).Iteration(t)
}

func TestCommitVersions(t *testing.T) {
	dir, err := ioutil.TempDir("", "iavl-commit-")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)

	commit, err := NewCommitStore(dir, "state")
	assert.Nil(t, err)
	assert.Nil(t, commit.LoadLatestVersion())

	empty, err := commit.LatestVersion()
	assert.Nil(t, err)
	assert.Equal(t, int64(0), empty.Version)

	cache := commit.CacheWrap()
	assert.Nil(t, cache.Set([]byte("escrow"), []byte("open")))
	assert.Nil(t, cache.Write())

	id, err := commit.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(1), id.Version)
	if len(id.Hash) == 0 {
		t.Fatal("committed version must have a hash")
	}

	// A discarded cache never reaches the next version.
	cache = commit.CacheWrap()
	assert.Nil(t, cache.Set([]byte("vault"), []byte("1000 AAA")))
	cache.Discard()
	id2, err := commit.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(2), id2.Version)
	assert.Equal(t, id.Hash, id2.Hash)
}
