package coin

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/iov-one/weave-swap/errors"
)

// IsCC reports whether the string is a valid ticker.
var IsCC = regexp.MustCompile(`^[A-Z]{3,4}$`).MatchString

// Coin is an amount of a single token kind, identified by its ticker. Token
// amounts are unsigned integers in the smallest unit of the token.
type Coin struct {
	Ticker string `json:"ticker"`
	Amount uint64 `json:"amount"`
}

// NewCoin returns a coin of given amount and ticker.
func NewCoin(amount uint64, ticker string) Coin {
	return Coin{Ticker: ticker, Amount: amount}
}

// NewCoinp returns a pointer to a new coin.
func NewCoinp(amount uint64, ticker string) *Coin {
	c := NewCoin(amount, ticker)
	return &c
}

// ID returns the ticker.
func (c Coin) ID() string {
	return c.Ticker
}

func (c Coin) IsZero() bool {
	return c.Amount == 0
}

// IsPositive returns true if the coin is worth anything.
func (c Coin) IsPositive() bool {
	return c.Amount > 0
}

// SameType returns true if both coins are of the same ticker.
func (c Coin) SameType(o Coin) bool {
	return c.Ticker == o.Ticker
}

func (c Coin) Equals(o Coin) bool {
	return c.Ticker == o.Ticker && c.Amount == o.Amount
}

// IsGTE returns true if c is of the same ticker and at least as large as o.
func (c Coin) IsGTE(o Coin) bool {
	return c.SameType(o) && c.Amount >= o.Amount
}

// Add returns the sum of both coins. A zero coin without a ticker has no
// influence on the result.
func (c Coin) Add(o Coin) (Coin, error) {
	if c.Ticker == "" && c.IsZero() {
		return o, nil
	}
	if o.Ticker == "" && o.IsZero() {
		return c, nil
	}
	if !c.SameType(o) {
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "adding %s to %s", o.Ticker, c.Ticker)
	}
	if c.Amount > math.MaxUint64-o.Amount {
		return Coin{}, errors.Wrapf(errors.ErrOverflow, "%s + %s", c, o)
	}
	return Coin{Ticker: c.Ticker, Amount: c.Amount + o.Amount}, nil
}

// Subtract returns c minus o. Amounts cannot go below zero, such an attempt
// fails with ErrInsufficientAmount.
func (c Coin) Subtract(o Coin) (Coin, error) {
	if o.IsZero() {
		return c, nil
	}
	if !c.SameType(o) {
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "subtracting %s from %s", o.Ticker, c.Ticker)
	}
	if c.Amount < o.Amount {
		return Coin{}, errors.Wrapf(errors.ErrInsufficientAmount, "have %s, need %s", c, o)
	}
	return Coin{Ticker: c.Ticker, Amount: c.Amount - o.Amount}, nil
}

// Clone returns an independent copy of a coin pointer.
func (c *Coin) Clone() *Coin {
	if c == nil {
		return nil
	}
	cpy := *c
	return &cpy
}

// Validate checks the ticker. A zero amount is valid, callers that require
// a positive value must check it themselves.
func (c Coin) Validate() error {
	if !IsCC(c.Ticker) {
		return errors.Wrapf(errors.ErrCurrency, "invalid ticker %q", c.Ticker)
	}
	return nil
}

// String returns the human readable form "<amount> <ticker>".
func (c Coin) String() string {
	s := strconv.FormatUint(c.Amount, 10)
	if c.Ticker == "" {
		return s
	}
	return s + " " + c.Ticker
}

var humanCoinFormat = regexp.MustCompile(`^\s*(\d+)\s*([A-Z]{3,4})\s*$`)

// ParseHumanFormat parses the "<amount> <ticker>" form, for example
// "1000 AAA".
func ParseHumanFormat(h string) (Coin, error) {
	m := humanCoinFormat.FindStringSubmatch(h)
	if m == nil {
		return Coin{}, errors.Wrapf(errors.ErrInvalidInput, "invalid coin format %q", h)
	}
	amount, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return Coin{}, errors.Wrapf(errors.ErrOverflow, "amount %s", m[1])
	}
	return Coin{Ticker: m[2], Amount: amount}, nil
}

// UnmarshalJSON accepts both the human readable string and the object
// form.
func (c *Coin) UnmarshalJSON(raw []byte) error {
	var human string
	if err := json.Unmarshal(raw, &human); err == nil {
		parsed, err := ParseHumanFormat(human)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	// A local type without the UnmarshalJSON method avoids recursion.
	var obj struct {
		Ticker string `json:"ticker"`
		Amount uint64 `json:"amount"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	c.Ticker = strings.TrimSpace(obj.Ticker)
	c.Amount = obj.Amount
	return nil
}

// Set implements flag.Value.
func (c *Coin) Set(raw string) error {
	parsed, err := ParseHumanFormat(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
