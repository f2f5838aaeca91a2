package coin

import (
	"sort"
	"strings"

	"github.com/iov-one/weave-swap/errors"
)

// Coins is a set of coins of distinct tickers, sorted by ticker, without
// zero entries. All operations keep this normalized form.
type Coins []*Coin

// CombineCoins builds a normalized set from given coins, adding up the
// amounts of repeated tickers.
func CombineCoins(cs ...Coin) (Coins, error) {
	var (
		res Coins
		err error
	)
	for _, c := range cs {
		if res, err = res.Add(c); err != nil {
			return nil, err
		}
	}
	return res, res.Validate()
}

// Clone returns a copy that can be modified safely.
func (cs Coins) Clone() Coins {
	if cs == nil {
		return nil
	}
	res := make(Coins, len(cs))
	for i, c := range cs {
		res[i] = c.Clone()
	}
	return res
}

// Add returns a new set increased by c.
func (cs Coins) Add(c Coin) (Coins, error) {
	if c.IsZero() {
		return cs.Clone(), nil
	}
	res := cs.Clone()
	has, i := res.find(c.Ticker)
	if has != nil {
		sum, err := has.Add(c)
		if err != nil {
			return nil, err
		}
		res[i] = &sum
		return res, nil
	}
	res = append(res, nil)
	copy(res[i+1:], res[i:])
	res[i] = c.Clone()
	return res, nil
}

// Subtract returns a new set decreased by c. It fails with
// ErrInsufficientAmount when the set does not hold enough.
func (cs Coins) Subtract(c Coin) (Coins, error) {
	if c.IsZero() {
		return cs.Clone(), nil
	}
	res := cs.Clone()
	has, i := res.find(c.Ticker)
	if has == nil {
		return nil, errors.Wrapf(errors.ErrInsufficientAmount, "no %s", c.Ticker)
	}
	diff, err := has.Subtract(c)
	if err != nil {
		return nil, err
	}
	if diff.IsZero() {
		return append(res[:i], res[i+1:]...), nil
	}
	res[i] = &diff
	return res, nil
}

// Combine returns the sum of both sets.
func (cs Coins) Combine(o Coins) (Coins, error) {
	res := cs.Clone()
	for _, c := range o {
		var err error
		if res, err = res.Add(*c); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Contains returns true if the set holds at least c.
func (cs Coins) Contains(c Coin) bool {
	has, _ := cs.find(c.Ticker)
	if has == nil {
		return c.IsZero()
	}
	return has.IsGTE(c)
}

// Get returns the amount of given ticker held by the set, possibly zero.
func (cs Coins) Get(ticker string) Coin {
	if has, _ := cs.find(ticker); has != nil {
		return *has
	}
	return Coin{Ticker: ticker}
}

func (cs Coins) IsEmpty() bool {
	return len(cs) == 0
}

// Equals returns true if both sets hold the same coins.
func (cs Coins) Equals(o Coins) bool {
	if len(cs) != len(o) {
		return false
	}
	for i := range cs {
		if !cs[i].Equals(*o[i]) {
			return false
		}
	}
	return true
}

// Validate returns an error if the set is not in normalized form or holds an
// invalid coin.
func (cs Coins) Validate() error {
	for i, c := range cs {
		if c == nil {
			return errors.Wrap(errors.ErrEmpty, "nil coin")
		}
		if err := c.Validate(); err != nil {
			return err
		}
		if c.IsZero() {
			return errors.Wrapf(errors.ErrInvalidAmount, "zero %s", c.Ticker)
		}
		if i > 0 && cs[i-1].Ticker >= c.Ticker {
			return errors.Wrap(errors.ErrInvalidState, "coins not sorted or not unique")
		}
	}
	return nil
}

func (cs Coins) String() string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}

// find returns the coin of given ticker and its index, or nil and the index
// where such a coin would be inserted.
func (cs Coins) find(ticker string) (*Coin, int) {
	i := sort.Search(len(cs), func(i int) bool { return cs[i].Ticker >= ticker })
	if i < len(cs) && cs[i].Ticker == ticker {
		return cs[i], i
	}
	return nil, i
}
