package coin

import (
	"testing"

	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/weavetest/assert"
)

func mustCombineCoins(cs ...Coin) Coins {
	s, err := CombineCoins(cs...)
	if err != nil {
		panic(err)
	}
	return s
}

func TestCombineCoins(t *testing.T) {
	cases := map[string]struct {
		inputs   []Coin
		want     Coins
		has      []Coin
		dontHave []Coin
		wantErr  *errors.Error
	}{
		"empty": {
			inputs:   nil,
			want:     nil,
			has:      []Coin{NewCoin(0, "AAA")},
			dontHave: []Coin{NewCoin(1, "AAA")},
		},
		"zero ignored": {
			inputs: []Coin{NewCoin(0, "AAA")},
			want:   nil,
		},
		"sorted and merged": {
			inputs:   []Coin{NewCoin(5, "BBB"), NewCoin(10, "AAA"), NewCoin(5, "BBB")},
			want:     Coins{NewCoinp(10, "AAA"), NewCoinp(10, "BBB")},
			has:      []Coin{NewCoin(10, "AAA"), NewCoin(7, "BBB")},
			dontHave: []Coin{NewCoin(11, "AAA"), NewCoin(1, "CCC")},
		},
		"invalid ticker": {
			inputs:  []Coin{NewCoin(1, "A1")},
			wantErr: errors.ErrCurrency,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := CombineCoins(tc.inputs...)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				return
			}
			if !got.Equals(tc.want) {
				t.Fatalf("want %s, got %s", tc.want, got)
			}
			for _, c := range tc.has {
				if !got.Contains(c) {
					t.Errorf("must contain %s", c)
				}
			}
			for _, c := range tc.dontHave {
				if got.Contains(c) {
					t.Errorf("must not contain %s", c)
				}
			}
		})
	}
}

func TestCoinsSubtract(t *testing.T) {
	wallet := mustCombineCoins(NewCoin(1000, "AAA"), NewCoin(500, "BBB"))

	left, err := wallet.Subtract(NewCoin(1000, "AAA"))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(left))
	assert.Equal(t, NewCoin(0, "AAA"), left.Get("AAA"))
	assert.Equal(t, NewCoin(500, "BBB"), left.Get("BBB"))

	// The original set is not modified.
	assert.Equal(t, NewCoin(1000, "AAA"), wallet.Get("AAA"))

	_, err = wallet.Subtract(NewCoin(501, "BBB"))
	assert.IsErr(t, errors.ErrInsufficientAmount, err)

	_, err = wallet.Subtract(NewCoin(1, "CCC"))
	assert.IsErr(t, errors.ErrInsufficientAmount, err)
}

func TestCoinsValidate(t *testing.T) {
	unsorted := Coins{NewCoinp(1, "BBB"), NewCoinp(1, "AAA")}
	assert.IsErr(t, errors.ErrInvalidState, unsorted.Validate())

	withZero := Coins{NewCoinp(0, "AAA")}
	assert.IsErr(t, errors.ErrInvalidAmount, withZero.Validate())

	assert.Nil(t, mustCombineCoins(NewCoin(1, "AAA")).Validate())
}
