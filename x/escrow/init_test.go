package escrow

import (
	"testing"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/coin"
	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/store"
	"github.com/iov-one/weave-swap/weavetest"
	"github.com/iov-one/weave-swap/weavetest/assert"
)

func TestGenesis(t *testing.T) {
	cases := map[string]struct {
		opts    weave.Options
		wantErr *errors.Error
	}{
		"no section": {
			opts: weave.Options{},
		},
		"empty list": {
			opts: weave.Options{"escrow": []byte(`[]`)},
		},
		"preloaded escrow": {
			opts:    weave.Options{"escrow": []byte(`[{"seed": 1}]`)},
			wantErr: errors.ErrInvalidInput,
		},
		"malformed": {
			opts:    weave.Options{"escrow": []byte(`{"seed": 1}`)},
			wantErr: errors.ErrInvalidInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := Initializer{}.FromGenesis(tc.opts, store.MemStore())
			assert.IsErr(t, tc.wantErr, err)
		})
	}
}

func TestQueries(t *testing.T) {
	env := newTestEnv()
	initializer := weavetest.NewCondition()
	env.issue(t, initializer.Address(), coin.NewCoin(30, "AAA"))
	for seed := uint64(1); seed <= 3; seed++ {
		_, err := env.deliver(createMsg(coin.NewCoin(10, "AAA"), coin.NewCoin(seed, "BBB"), seed), initializer)
		assert.Nil(t, err)
	}

	qr := weave.NewQueryRouter()
	RegisterQuery(qr)

	addr, _, err := Address(initializer.Address(), 2)
	assert.Nil(t, err)
	res, err := qr.Handler("/escrows").Query(env.db, weave.KeyQueryMod, addr)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))
	var e Escrow
	assert.Nil(t, e.Unmarshal(res[0].Value))
	assert.Equal(t, uint64(2), e.Seed)
	assert.Equal(t, coin.NewCoin(2, "BBB"), e.ExpectedCounter)

	res, err = qr.Handler("/escrows/initializer").Query(env.db, weave.KeyQueryMod, initializer.Address())
	assert.Nil(t, err)
	assert.Equal(t, 3, len(res))

	res, err = qr.Handler("/escrows").Query(env.db, weave.PrefixQueryMod, nil)
	assert.Nil(t, err)
	assert.Equal(t, 3, len(res))
}
