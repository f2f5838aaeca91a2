package app

import (
	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
)

// CommitStore keeps the persisted state together with the two scratch pads
// a block is processed in: deliver collects the writes of DeliverTx and
// is flushed on commit, check serves the mempool and is dropped on commit.
type CommitStore struct {
	committed weave.CommitKVStore
	deliver   weave.KVCacheWrap
	check     weave.KVCacheWrap
}

// NewCommitStore loads the latest persisted version.
func NewCommitStore(db weave.CommitKVStore) (*CommitStore, error) {
	if err := db.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "load latest version")
	}
	return &CommitStore{
		committed: db,
		deliver:   db.CacheWrap(),
		check:     db.CacheWrap(),
	}, nil
}

func (cs *CommitStore) CommitInfo() (weave.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit flushes the deliver pad, persists a new version and starts fresh
// pads on top of it.
func (cs *CommitStore) Commit() (weave.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return weave.CommitID{}, errors.Wrap(err, "flush deliver store")
	}
	cs.check.Discard()

	id, err := cs.committed.Commit()
	if err != nil {
		return id, err
	}
	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
	return id, nil
}

func (cs *CommitStore) CheckStore() weave.CacheableKVStore {
	return cs.check
}

func (cs *CommitStore) DeliverStore() weave.CacheableKVStore {
	return cs.deliver
}

// ReadStore returns a view of the last committed state, for queries.
func (cs *CommitStore) ReadStore() weave.KVCacheWrap {
	return cs.committed.CacheWrap()
}

// _wv: prefixes data of the application itself.
const chainIDKey = "_wv:chainID"

func loadChainID(kv weave.ReadOnlyKVStore) (string, error) {
	v, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(err, "load chain id")
	}
	return string(v), nil
}

// saveChainID stores the chain id once. It cannot be changed afterwards.
func saveChainID(kv weave.KVStore, chainID string) error {
	if !weave.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInvalidInput, "chain id: %q", chainID)
	}
	k := []byte(chainIDKey)
	exists, err := kv.Has(k)
	if err != nil {
		return errors.Wrap(err, "load chain id")
	}
	if exists {
		return errors.Wrap(errors.ErrUnauthorized, "chain id cannot be modified after genesis")
	}
	if err := kv.Set(k, []byte(chainID)); err != nil {
		return errors.Wrap(err, "save chain id")
	}
	return nil
}
