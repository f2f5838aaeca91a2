package escrow

import (
	"context"
	"testing"
	"time"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/coin"
	"github.com/iov-one/weave-swap/store"
	"github.com/iov-one/weave-swap/weavetest"
	"github.com/iov-one/weave-swap/weavetest/assert"
	"github.com/iov-one/weave-swap/x"
	"github.com/iov-one/weave-swap/x/cash"
	"github.com/iov-one/weave-swap/x/pda"
)

var blockTime = time.Date(2019, time.April, 1, 12, 0, 0, 0, time.UTC)

// testEnv runs messages through the escrow handlers the way the
// application does: every Check and Deliver gets its own cache that is
// written only on success.
type testEnv struct {
	db       weave.CacheableKVStore
	auth     *weavetest.CtxAuth
	ledger   cash.Controller
	handlers map[string]weave.Handler
}

func newTestEnv() *testEnv {
	auth := &weavetest.CtxAuth{Key: "sigs"}
	ledger := cash.NewController(x.ChainAuth(auth, pda.Authenticate{}))
	env := &testEnv{
		db:       store.MemStore(),
		auth:     auth,
		ledger:   ledger,
		handlers: make(map[string]weave.Handler),
	}
	RegisterRoutes(env, auth, ledger)
	cash.RegisterRoutes(env, auth, ledger)
	return env
}

func (env *testEnv) Handle(path string, h weave.Handler) {
	env.handlers[path] = h
}

func (env *testEnv) context(signers ...weave.Condition) weave.Context {
	ctx := weave.WithBlockTime(context.Background(), blockTime)
	return env.auth.SetConditions(ctx, signers...)
}

func (env *testEnv) check(msg weave.Msg, signers ...weave.Condition) error {
	cache := env.db.CacheWrap()
	defer cache.Discard()
	_, err := env.handlers[msg.Path()].Check(env.context(signers...), cache, &weavetest.Tx{Msg: msg})
	return err
}

func (env *testEnv) deliver(msg weave.Msg, signers ...weave.Condition) (*weave.DeliverResult, error) {
	cache := env.db.CacheWrap()
	res, err := env.handlers[msg.Path()].Deliver(env.context(signers...), cache, &weavetest.Tx{Msg: msg})
	if err != nil {
		cache.Discard()
		return nil, err
	}
	return res, cache.Write()
}

func (env *testEnv) deliverSend(src, dest weave.Address, amount coin.Coin, signers ...weave.Condition) (*weave.DeliverResult, error) {
	return env.deliver(&cash.SendMsg{
		Metadata:    &weave.Metadata{Schema: 1},
		Source:      src,
		Destination: dest,
		Amount:      &amount,
	}, signers...)
}

func (env *testEnv) issue(t testing.TB, addr weave.Address, c coin.Coin) {
	t.Helper()
	assert.Nil(t, env.ledger.Issue(env.db, addr, c))
}

func (env *testEnv) balance(t testing.TB, addr weave.Address) coin.Coins {
	t.Helper()
	cs, err := env.ledger.Balance(env.db, addr)
	assert.Nil(t, err)
	return cs
}

func (env *testEnv) hasEscrow(t testing.TB, addr weave.Address) bool {
	t.Helper()
	has, err := NewBucket().Has(env.db, addr)
	assert.Nil(t, err)
	return has
}

func (env *testEnv) hasWallet(t testing.TB, addr weave.Address) bool {
	t.Helper()
	has, err := cash.NewBucket().Has(env.db, addr)
	assert.Nil(t, err)
	return has
}

func createMsg(deposit, expected coin.Coin, seed uint64) *CreateMsg {
	return &CreateMsg{
		Metadata: &weave.Metadata{Schema: 1},
		Deposit:  &deposit,
		Expected: &expected,
		Seed:     seed,
	}
}

func cancelMsg(escrow weave.Address) *CancelMsg {
	return &CancelMsg{Metadata: &weave.Metadata{Schema: 1}, Escrow: escrow}
}

func exchangeMsg(escrow weave.Address) *ExchangeMsg {
	return &ExchangeMsg{Metadata: &weave.Metadata{Schema: 1}, Escrow: escrow}
}

func coins(cs ...coin.Coin) coin.Coins {
	res, err := coin.CombineCoins(cs...)
	if err != nil {
		panic(err)
	}
	return res
}

func assertCoins(t testing.TB, want, got coin.Coins) {
	t.Helper()
	if !want.Equals(got) {
		t.Fatalf("want %s, got %s", want, got)
	}
}
