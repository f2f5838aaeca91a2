package cash

import (
	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/coin"
	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/x"
)

// Controller is the ledger used by other extensions. Transfer and Close
// check the authority of the source wallet against the authenticator.
type Controller struct {
	auth   x.Authenticator
	bucket Bucket
}

// NewController returns a controller that authorizes spending with auth.
func NewController(auth x.Authenticator) Controller {
	return Controller{auth: auth, bucket: NewBucket()}
}

// Balance returns the coins held at addr. A missing wallet holds nothing.
func (c Controller) Balance(db weave.ReadOnlyKVStore, addr weave.Address) (coin.Coins, error) {
	w, err := c.bucket.GetOrCreate(db, addr)
	if err != nil {
		return nil, err
	}
	return w.Coins, nil
}

// Transfer moves amount from src to dest. The context must authorize the
// authority of the src wallet. Missing funds fail with
// ErrInsufficientAmount and leave both wallets untouched.
func (c Controller) Transfer(ctx weave.Context, db weave.KVStore, src, dest weave.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrInvalidAmount, "transfer of %s", amount)
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}

	sender, err := c.bucket.GetOrCreate(db, src)
	if err != nil {
		return err
	}
	if !c.auth.HasAddress(ctx, sender.authority(src)) {
		return errors.Wrapf(errors.ErrUnauthorized, "spend from %s", src)
	}
	if !sender.Coins.Contains(amount) {
		return errors.Wrapf(errors.ErrInsufficientAmount, "%s holds %s, needs %s",
			src, sender.Coins.Get(amount.Ticker), amount)
	}
	if src.Equals(dest) {
		return nil
	}

	if sender.Coins, err = sender.Coins.Subtract(amount); err != nil {
		return err
	}
	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return err
	}
	if recipient.Coins, err = recipient.Coins.Add(amount); err != nil {
		return err
	}
	if err := c.save(db, src, sender); err != nil {
		return err
	}
	return c.bucket.Put(db, dest, recipient)
}

// save stores the wallet, dropping an empty one without an authority.
// Program owned wallets stay until they are closed.
func (c Controller) save(db weave.KVStore, addr weave.Address, w *Wallet) error {
	if w.Coins.IsEmpty() && len(w.Authority) == 0 {
		has, err := c.bucket.Has(db, addr)
		if err != nil || !has {
			return err
		}
		return c.bucket.Delete(db, addr)
	}
	return c.bucket.Put(db, addr, w)
}

// Open assigns authority to the wallet at addr. A wallet that already has
// an authority fails with ErrDuplicate. Coins sent to addr before it was
// opened stay in the wallet and are spent by the new authority.
func (c Controller) Open(db weave.KVStore, addr, authority weave.Address) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	if err := authority.Validate(); err != nil {
		return errors.Wrap(err, "authority")
	}
	w, err := c.bucket.GetOrCreate(db, addr)
	if err != nil {
		return err
	}
	if len(w.Authority) != 0 {
		return errors.Wrapf(errors.ErrDuplicate, "wallet %s", addr)
	}
	w.Authority = authority
	return c.bucket.Put(db, addr, w)
}

// Close moves everything held at addr to beneficiary and deletes the
// wallet. The swept coins are returned.
func (c Controller) Close(ctx weave.Context, db weave.KVStore, addr, beneficiary weave.Address) (coin.Coins, error) {
	if addr.Equals(beneficiary) {
		return nil, errors.Wrap(errors.ErrInvalidInput, "wallet cannot be closed to itself")
	}
	var w Wallet
	if err := c.bucket.One(db, addr, &w); err != nil {
		return nil, err
	}
	if !c.auth.HasAddress(ctx, w.authority(addr)) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "close %s", addr)
	}
	swept := w.Coins
	if !swept.IsEmpty() {
		if err := beneficiary.Validate(); err != nil {
			return nil, errors.Wrap(err, "beneficiary")
		}
		recipient, err := c.bucket.GetOrCreate(db, beneficiary)
		if err != nil {
			return nil, err
		}
		if recipient.Coins, err = recipient.Coins.Combine(swept); err != nil {
			return nil, err
		}
		if err := c.bucket.Put(db, beneficiary, recipient); err != nil {
			return nil, err
		}
	}
	if err := c.bucket.Delete(db, addr); err != nil {
		return nil, err
	}
	return swept, nil
}

// Issue creates new coins at dest. It is used by the genesis initializer
// and by tests, never by a transaction.
func (c Controller) Issue(db weave.KVStore, dest weave.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	w, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return err
	}
	if w.Coins, err = w.Coins.Add(amount); err != nil {
		return err
	}
	return c.bucket.Put(db, dest, w)
}
