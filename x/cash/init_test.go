package cash

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/coin"
	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/store"
	"github.com/iov-one/weave-swap/weavetest"
	"github.com/iov-one/weave-swap/weavetest/assert"
)

func TestGenesis(t *testing.T) {
	addr := weavetest.RandomAddr(t)

	cases := map[string]struct {
		genesis string
		wantErr *errors.Error
		want    coin.Coins
	}{
		"no cash section": {
			genesis: `{}`,
		},
		"wallet with coins in both notations": {
			genesis: `{"cash": [{"address": "` + addr.String() + `", "coins": ["1000 AAA", {"ticker": "BBB", "amount": 5}]}]}`,
			want:    coin.Coins{coin.NewCoinp(1000, "AAA"), coin.NewCoinp(5, "BBB")},
		},
		"invalid address": {
			genesis: `{"cash": [{"address": "", "coins": ["1 AAA"]}]}`,
			wantErr: errors.ErrEmpty,
		},
		"invalid ticker": {
			genesis: `{"cash": [{"address": "` + addr.String() + `", "coins": [{"ticker": "a", "amount": 5}]}]}`,
			wantErr: errors.ErrCurrency,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts weave.Options
			assert.Nil(t, json.Unmarshal([]byte(tc.genesis), &opts))

			db := store.MemStore()
			err := Initializer{}.FromGenesis(opts, db)
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %v, got %+v", tc.wantErr, err)
			}
			if tc.wantErr != nil {
				return
			}
			assertBalance(t, NewController(nil), db, addr, tc.want)
		})
	}
}
