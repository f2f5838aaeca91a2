package cash

import (
	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/coin"
	"github.com/iov-one/weave-swap/errors"
)

const optKey = "cash"

// GenesisAccount is a wallet preloaded from the genesis file.
type GenesisAccount struct {
	Address weave.Address `json:"address"`
	Coins   coin.Coins    `json:"coins"`
}

// Initializer loads the genesis wallets.
type Initializer struct{}

var _ weave.Initializer = Initializer{}

func (Initializer) FromGenesis(opts weave.Options, db weave.KVStore) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return err
	}
	// Issuing needs no authority.
	ctrl := NewController(nil)
	for i, a := range accts {
		if err := a.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		for _, c := range a.Coins {
			if c == nil {
				return errors.Wrapf(errors.ErrEmpty, "account %d coin", i)
			}
			if err := ctrl.Issue(db, a.Address, *c); err != nil {
				return errors.Wrapf(err, "account %d", i)
			}
		}
	}
	return nil
}
