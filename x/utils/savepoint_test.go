package utils

import (
	"context"
	"testing"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/store"
	"github.com/iov-one/weave-swap/weavetest"
	"github.com/stretchr/testify/require"
)

func TestSavepoint(t *testing.T) {
	// Written before every call, must survive.
	preKey, preVal := []byte("demo"), []byte("data")
	key, val := []byte{1, 2, 3}, []byte{4, 5, 6}

	cases := map[string]struct {
		save    Savepoint
		failing bool
		deliver bool
		wantKey bool
	}{
		"disabled savepoint keeps writes of a failed check": {
			save:    NewSavepoint(),
			failing: true,
			wantKey: true,
		},
		"check savepoint drops writes of a failed check": {
			save:    NewSavepoint().OnCheck(),
			failing: true,
			wantKey: false,
		},
		"deliver savepoint drops writes of a failed deliver": {
			save:    NewSavepoint().OnDeliver(),
			failing: true,
			deliver: true,
			wantKey: false,
		},
		"both phases can be enabled": {
			save:    NewSavepoint().OnDeliver().OnCheck(),
			failing: true,
			deliver: true,
			wantKey: false,
		},
		"check savepoint does not act on deliver": {
			save:    NewSavepoint().OnCheck(),
			failing: true,
			deliver: true,
			wantKey: true,
		},
		"successful deliver is written through": {
			save:    NewSavepoint().OnCheck().OnDeliver(),
			deliver: true,
			wantKey: true,
		},
		"successful check is written through": {
			save:    NewSavepoint().OnCheck(),
			wantKey: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			require.NoError(t, db.Set(preKey, preVal))

			h := weavetest.WriteHandler{Key: key, Value: val}
			if tc.failing {
				h.Err = errors.ErrHuman
			}

			var err error
			if tc.deliver {
				_, err = tc.save.Deliver(context.Background(), db, nil, h)
			} else {
				_, err = tc.save.Check(context.Background(), db, nil, h)
			}
			if tc.failing {
				require.True(t, errors.ErrHuman.Is(err))
			} else {
				require.NoError(t, err)
			}

			has, err := db.Has(preKey)
			require.NoError(t, err)
			require.True(t, has)

			has, err = db.Has(key)
			require.NoError(t, err)
			require.Equal(t, tc.wantKey, has)
		})
	}
}

func TestSavepointWithoutCacheableStore(t *testing.T) {
	// A cache wrap is itself cacheable, so use a store that is not.
	var db weave.KVStore = plainStore{store.MemStore()}
	h := weavetest.WriteHandler{Key: []byte("k"), Value: []byte("v"), Err: errors.ErrHuman}

	_, err := NewSavepoint().OnDeliver().Deliver(context.Background(), db, nil, h)
	require.True(t, errors.ErrHuman.Is(err))

	has, err := db.Has([]byte("k"))
	require.NoError(t, err)
	require.True(t, has, "writes pass through when the store cannot be wrapped")
}

type plainStore struct {
	weave.KVStore
}
