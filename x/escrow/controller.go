package escrow

import (
	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/coin"
	"github.com/iov-one/weave-swap/errors"
)

// Ledger is the part of the cash controller the escrow depends on.
type Ledger interface {
	Balance(db weave.ReadOnlyKVStore, addr weave.Address) (coin.Coins, error)
	Transfer(ctx weave.Context, db weave.KVStore, src, dest weave.Address, amount coin.Coin) error
	Open(db weave.KVStore, addr, authority weave.Address) error
	Close(ctx weave.Context, db weave.KVStore, addr, beneficiary weave.Address) (coin.Coins, error)
}

// Controller drives the escrow state machine. It trusts the caller to have
// checked who signed the transaction and moves funds only through the
// ledger.
type Controller struct {
	ledger Ledger
	bucket Bucket
}

func NewController(ledger Ledger) Controller {
	return Controller{ledger: ledger, bucket: NewBucket()}
}

// CreateParams are the terms of a new escrow.
type CreateParams struct {
	Initializer weave.Address
	Source      weave.Address
	Receive     weave.Address
	Deposit     coin.Coin
	Expected    coin.Coin
	Seed        uint64
}

// Create stores a new open escrow, allocates its vault and moves the
// deposit into the vault. The context must authorize the source wallet.
func (c Controller) Create(ctx weave.Context, db weave.KVStore, p CreateParams) (weave.Address, *Escrow, error) {
	if !p.Deposit.IsPositive() || !p.Expected.IsPositive() {
		return nil, nil, errors.Wrap(errors.ErrInvalidAmount, "deposit and expected amount must be positive")
	}
	addr, bump, err := Address(p.Initializer, p.Seed)
	if err != nil {
		return nil, nil, errors.Wrap(err, "escrow address")
	}
	switch has, err := c.bucket.Has(db, addr); {
	case err != nil:
		return nil, nil, err
	case has:
		return nil, nil, errors.Wrapf(errors.ErrDuplicate, "escrow %s with seed %d", addr, p.Seed)
	}
	vault, err := VaultAddress(addr)
	if err != nil {
		return nil, nil, errors.Wrap(err, "vault address")
	}
	if err := c.ledger.Open(db, vault, addr); err != nil {
		return nil, nil, errors.Wrap(err, "open vault")
	}
	now, err := weave.BlockUnixTime(ctx)
	if err != nil {
		return nil, nil, err
	}

	source := p.Source
	if len(source) == 0 {
		source = p.Initializer
	}
	receive := p.Receive
	if len(receive) == 0 {
		receive = source
	}
	e := &Escrow{
		Metadata:        &weave.Metadata{Schema: 1},
		Initializer:     p.Initializer,
		SourceAccount:   source,
		ReceiveAccount:  receive,
		ExpectedCounter: p.Expected,
		Seed:            p.Seed,
		Status:          StatusOpen,
		CreatedAt:       now,
		DerivationBump:  uint32(bump),
	}
	if err := c.bucket.Put(db, addr, e); err != nil {
		return nil, nil, errors.Wrap(err, "store escrow")
	}
	if err := c.ledger.Transfer(ctx, db, source, vault, p.Deposit); err != nil {
		return nil, nil, errors.Wrap(err, "deposit")
	}
	return addr, e, nil
}

// Load returns the escrow stored at addr.
func (c Controller) Load(db weave.ReadOnlyKVStore, addr weave.Address) (*Escrow, error) {
	var e Escrow
	if err := c.bucket.One(db, addr, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Cancel returns the whole vault balance to the source account and removes
// the escrow together with its vault.
func (c Controller) Cancel(ctx weave.Context, db weave.KVStore, addr weave.Address, e *Escrow) (coin.Coins, error) {
	if e.Status != StatusOpen {
		return nil, errors.Wrapf(ErrAlreadyCompleted, "escrow %s is %s", addr, e.Status)
	}
	signed, err := sign(ctx, addr, e)
	if err != nil {
		return nil, err
	}
	vault, err := VaultAddress(addr)
	if err != nil {
		return nil, err
	}
	refund, err := c.ledger.Close(signed, db, vault, e.SourceAccount)
	if err != nil {
		return nil, errors.Wrap(err, "close vault")
	}
	if err := c.bucket.Delete(db, addr); err != nil {
		return nil, err
	}
	return refund, nil
}

// Swap pays the whole vault balance to takerDest and the expected counter
// amount from takerSrc to the receive account of the escrow. The context
// must authorize takerSrc. Either both legs happen or none, and e is marked
// completed only when they did.
func (c Controller) Swap(ctx weave.Context, db weave.KVStore, addr weave.Address, e *Escrow, takerSrc, takerDest weave.Address) (coin.Coins, error) {
	if e.Status != StatusOpen {
		return nil, errors.Wrapf(ErrAlreadyCompleted, "escrow %s is %s", addr, e.Status)
	}
	var released coin.Coins
	err := savepoint(db, func(db weave.KVStore) error {
		var err error
		released, err = c.swap(ctx, db, addr, e, takerSrc, takerDest)
		return err
	})
	if err != nil {
		return nil, err
	}
	e.Status = StatusCompleted
	return released, nil
}

func (c Controller) swap(ctx weave.Context, db weave.KVStore, addr weave.Address, e *Escrow, takerSrc, takerDest weave.Address) (coin.Coins, error) {
	signed, err := sign(ctx, addr, e)
	if err != nil {
		return nil, err
	}
	vault, err := VaultAddress(addr)
	if err != nil {
		return nil, err
	}
	deposit, err := c.ledger.Balance(db, vault)
	if err != nil {
		return nil, err
	}
	for _, amount := range deposit {
		if err := c.ledger.Transfer(signed, db, vault, takerDest, *amount); err != nil {
			return nil, errors.Wrap(err, "release deposit")
		}
	}
	if err := c.ledger.Transfer(ctx, db, takerSrc, e.ReceiveAccount, e.ExpectedCounter); err != nil {
		return nil, errors.Wrap(err, "pay expected amount")
	}

	if _, err := c.ledger.Close(signed, db, vault, e.SourceAccount); err != nil {
		return nil, errors.Wrap(err, "close vault")
	}
	if err := c.bucket.Delete(db, addr); err != nil {
		return nil, err
	}
	return deposit, nil
}

// savepoint runs fn on a cache of db and writes the cache only if fn
// succeeds. Stores that cannot be cached are used directly, the
// transaction boundary still discards a failure then.
func savepoint(db weave.KVStore, fn func(weave.KVStore) error) error {
	cdb, ok := db.(weave.CacheableKVStore)
	if !ok {
		return fn(db)
	}
	cache := cdb.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	return cache.Write()
}
