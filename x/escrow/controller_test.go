package escrow

import (
	"bytes"
	"testing"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/coin"
	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/weavetest"
	"github.com/iov-one/weave-swap/weavetest/assert"
)

// brokenDelete fails to delete any key under prefix.
type brokenDelete struct {
	weave.KVStore
	prefix []byte
}

func (b brokenDelete) Delete(key []byte) error {
	if bytes.HasPrefix(key, b.prefix) {
		return errors.Wrap(errors.ErrDatabase, "delete")
	}
	return b.KVStore.Delete(key)
}

func TestSwapStatusChangesOnlyOnSuccess(t *testing.T) {
	env := newTestEnv()
	initializer := weavetest.NewCondition()
	taker := weavetest.NewCondition()
	env.issue(t, initializer.Address(), coin.NewCoin(1000, "AAA"))
	env.issue(t, taker.Address(), coin.NewCoin(500, "BBB"))

	res, err := env.deliver(createMsg(coin.NewCoin(1000, "AAA"), coin.NewCoin(500, "BBB"), 7), initializer)
	assert.Nil(t, err)
	addr := weave.Address(res.Data)

	ctrl := NewController(env.ledger)
	e, err := ctrl.Load(env.db, addr)
	assert.Nil(t, err)

	// Both legs succeed but the record cannot be removed.
	cache := env.db.CacheWrap()
	broken := brokenDelete{KVStore: cache, prefix: []byte(BucketName + ":")}
	_, err = ctrl.Swap(env.context(taker), broken, addr, e, taker.Address(), taker.Address())
	cache.Discard()
	assert.IsErr(t, errors.ErrDatabase, err)
	assert.Equal(t, StatusOpen, e.Status)

	released, err := ctrl.Swap(env.context(taker), env.db, addr, e, taker.Address(), taker.Address())
	assert.Nil(t, err)
	assert.Equal(t, StatusCompleted, e.Status)
	assertCoins(t, coins(coin.NewCoin(1000, "AAA")), released)
}
