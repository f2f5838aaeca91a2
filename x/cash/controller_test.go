package cash

import (
	"context"
	"testing"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/coin"
	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/store"
	"github.com/iov-one/weave-swap/weavetest"
	"github.com/iov-one/weave-swap/weavetest/assert"
)

func TestTransfer(t *testing.T) {
	alice := weavetest.NewCondition()
	bob := weavetest.NewCondition()

	cases := map[string]struct {
		issue   []coin.Coin
		signer  weave.Condition
		amount  coin.Coin
		wantErr *errors.Error
		// Balances after the transfer.
		wantAlice coin.Coins
		wantBob   coin.Coins
	}{
		"move part of a balance": {
			issue:     []coin.Coin{coin.NewCoin(1000, "AAA")},
			signer:    alice,
			amount:    coin.NewCoin(300, "AAA"),
			wantAlice: coin.Coins{coin.NewCoinp(700, "AAA")},
			wantBob:   coin.Coins{coin.NewCoinp(300, "AAA")},
		},
		"move everything": {
			issue:     []coin.Coin{coin.NewCoin(1000, "AAA"), coin.NewCoin(5, "BBB")},
			signer:    alice,
			amount:    coin.NewCoin(1000, "AAA"),
			wantBob:   coin.Coins{coin.NewCoinp(1000, "AAA")},
			wantAlice: coin.Coins{coin.NewCoinp(5, "BBB")},
		},
		"insufficient funds": {
			issue:     []coin.Coin{coin.NewCoin(10, "AAA")},
			signer:    alice,
			amount:    coin.NewCoin(11, "AAA"),
			wantErr:   errors.ErrInsufficientAmount,
			wantAlice: coin.Coins{coin.NewCoinp(10, "AAA")},
		},
		"no wallet": {
			signer:  alice,
			amount:  coin.NewCoin(1, "AAA"),
			wantErr: errors.ErrInsufficientAmount,
		},
		"other ticker": {
			issue:     []coin.Coin{coin.NewCoin(10, "AAA")},
			signer:    alice,
			amount:    coin.NewCoin(1, "BBB"),
			wantErr:   errors.ErrInsufficientAmount,
			wantAlice: coin.Coins{coin.NewCoinp(10, "AAA")},
		},
		"wrong signer": {
			issue:     []coin.Coin{coin.NewCoin(10, "AAA")},
			signer:    bob,
			amount:    coin.NewCoin(1, "AAA"),
			wantErr:   errors.ErrUnauthorized,
			wantAlice: coin.Coins{coin.NewCoinp(10, "AAA")},
		},
		"zero amount": {
			issue:     []coin.Coin{coin.NewCoin(10, "AAA")},
			signer:    alice,
			amount:    coin.NewCoin(0, "AAA"),
			wantErr:   errors.ErrInvalidAmount,
			wantAlice: coin.Coins{coin.NewCoinp(10, "AAA")},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			ctrl := NewController(&weavetest.Auth{Signer: tc.signer})
			for _, c := range tc.issue {
				assert.Nil(t, ctrl.Issue(db, alice.Address(), c))
			}

			err := ctrl.Transfer(context.Background(), db, alice.Address(), bob.Address(), tc.amount)
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %v error, got %+v", tc.wantErr, err)
			}

			assertBalance(t, ctrl, db, alice.Address(), tc.wantAlice)
			assertBalance(t, ctrl, db, bob.Address(), tc.wantBob)
		})
	}
}

func TestTransferToSelf(t *testing.T) {
	db := store.MemStore()
	alice := weavetest.NewCondition()
	ctrl := NewController(&weavetest.Auth{Signer: alice})
	assert.Nil(t, ctrl.Issue(db, alice.Address(), coin.NewCoin(10, "AAA")))

	assert.Nil(t, ctrl.Transfer(context.Background(), db, alice.Address(), alice.Address(), coin.NewCoin(10, "AAA")))
	assertBalance(t, ctrl, db, alice.Address(), coin.Coins{coin.NewCoinp(10, "AAA")})

	err := ctrl.Transfer(context.Background(), db, alice.Address(), alice.Address(), coin.NewCoin(11, "AAA"))
	assert.IsErr(t, errors.ErrInsufficientAmount, err)
}

func TestOpenClose(t *testing.T) {
	db := store.MemStore()
	owner := weavetest.NewCondition()
	stranger := weavetest.NewCondition()
	beneficiary := weavetest.RandomAddr(t)
	vault := weavetest.RandomAddr(t)

	ownerCtx := (&weavetest.CtxAuth{Key: "a"}).SetConditions(context.Background(), owner)
	strangerCtx := (&weavetest.CtxAuth{Key: "a"}).SetConditions(context.Background(), stranger)
	ctrl := NewController(&weavetest.CtxAuth{Key: "a"})

	assert.Nil(t, ctrl.Open(db, vault, owner.Address()))
	assert.IsErr(t, errors.ErrDuplicate, ctrl.Open(db, vault, owner.Address()))

	// An empty program wallet survives and is indexed by its authority.
	assertBalance(t, ctrl, db, vault, nil)
	keys, err := NewBucket().IndexKeys(db, "authority", owner.Address())
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{vault}, keys)

	assert.Nil(t, ctrl.Issue(db, vault, coin.NewCoin(1000, "AAA")))

	err = ctrl.Transfer(strangerCtx, db, vault, stranger.Address(), coin.NewCoin(1, "AAA"))
	assert.IsErr(t, errors.ErrUnauthorized, err)

	_, err = ctrl.Close(strangerCtx, db, vault, beneficiary)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = ctrl.Close(ownerCtx, db, vault, vault)
	assert.IsErr(t, errors.ErrInvalidInput, err)

	assert.Nil(t, ctrl.Transfer(ownerCtx, db, vault, beneficiary, coin.NewCoin(400, "AAA")))
	swept, err := ctrl.Close(ownerCtx, db, vault, beneficiary)
	assert.Nil(t, err)
	assert.Equal(t, true, swept.Equals(coin.Coins{coin.NewCoinp(600, "AAA")}))
	assertBalance(t, ctrl, db, beneficiary, coin.Coins{coin.NewCoinp(1000, "AAA")})

	has, err := NewBucket().Has(db, vault)
	assert.Nil(t, err)
	assert.Equal(t, false, has)
	keys, err = NewBucket().IndexKeys(db, "authority", owner.Address())
	assert.Nil(t, err)
	assert.Equal(t, 0, len(keys))

	_, err = ctrl.Close(ownerCtx, db, vault, beneficiary)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestOpenPrefundedWallet(t *testing.T) {
	db := store.MemStore()
	owner := weavetest.NewCondition()
	sender := weavetest.NewCondition()
	vault := weavetest.RandomAddr(t)

	senderCtx := (&weavetest.CtxAuth{Key: "a"}).SetConditions(context.Background(), sender)
	ownerCtx := (&weavetest.CtxAuth{Key: "a"}).SetConditions(context.Background(), owner)
	ctrl := NewController(&weavetest.CtxAuth{Key: "a"})

	assert.Nil(t, ctrl.Issue(db, sender.Address(), coin.NewCoin(5, "ZZZ")))
	assert.Nil(t, ctrl.Transfer(senderCtx, db, sender.Address(), vault, coin.NewCoin(1, "ZZZ")))

	assert.Nil(t, ctrl.Open(db, vault, owner.Address()))
	assertBalance(t, ctrl, db, vault, coin.Coins{coin.NewCoinp(1, "ZZZ")})
	keys, err := NewBucket().IndexKeys(db, "authority", owner.Address())
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{vault}, keys)

	// The sender lost control over the wallet.
	_, err = ctrl.Close(senderCtx, db, vault, sender.Address())
	assert.IsErr(t, errors.ErrUnauthorized, err)
	assert.IsErr(t, errors.ErrDuplicate, ctrl.Open(db, vault, sender.Address()))

	swept, err := ctrl.Close(ownerCtx, db, vault, owner.Address())
	assert.Nil(t, err)
	assert.Equal(t, true, swept.Equals(coin.Coins{coin.NewCoinp(1, "ZZZ")}))
}

func assertBalance(t testing.TB, ctrl Controller, db weave.ReadOnlyKVStore, addr weave.Address, want coin.Coins) {
	t.Helper()
	got, err := ctrl.Balance(db, addr)
	assert.Nil(t, err)
	if !want.Equals(got) {
		t.Fatalf("balance of %s: want %s, got %s", addr, want, got)
	}
}
