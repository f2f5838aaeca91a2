package cash

import (
	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/codec"
	"github.com/iov-one/weave-swap/coin"
	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/orm"
)

// BucketName is where the wallets are stored.
const BucketName = "cash"

// Wallet is the balance of a single address.
type Wallet struct {
	Metadata *weave.Metadata `json:"metadata"`
	// Authority may spend the wallet. When empty the wallet address is the
	// authority.
	Authority weave.Address `json:"authority,omitempty"`
	Coins     coin.Coins    `json:"coins"`
}

var _ orm.Model = (*Wallet)(nil)

func (w *Wallet) Marshal() ([]byte, error) {
	return codec.Marshal(w)
}

func (w *Wallet) Unmarshal(bz []byte) error {
	return codec.Unmarshal(bz, w)
}

func (w *Wallet) Validate() error {
	if err := w.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if len(w.Authority) != 0 {
		if err := w.Authority.Validate(); err != nil {
			return errors.Wrap(err, "authority")
		}
	}
	return errors.Wrap(w.Coins.Validate(), "coins")
}

// authority returns who may spend the wallet stored at addr.
func (w *Wallet) authority(addr weave.Address) weave.Address {
	if len(w.Authority) != 0 {
		return w.Authority
	}
	return addr
}

// Bucket stores wallets by address and indexes program owned wallets by
// their authority.
type Bucket struct {
	orm.Bucket
}

func NewBucket() Bucket {
	b := orm.NewBucket(BucketName, &Wallet{}).
		WithIndex("authority", authorityIndex, false)
	return Bucket{Bucket: b}
}

func authorityIndex(m orm.Model) ([]byte, error) {
	w, ok := m.(*Wallet)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidType, "%T", m)
	}
	// Wallets without an explicit authority are not indexed.
	if len(w.Authority) == 0 {
		return nil, nil
	}
	return w.Authority, nil
}

// GetOrCreate returns the wallet stored at addr or a new empty one.
func (b Bucket) GetOrCreate(db weave.ReadOnlyKVStore, addr weave.Address) (*Wallet, error) {
	var w Wallet
	err := b.One(db, addr, &w)
	switch {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{Metadata: &weave.Metadata{Schema: 1}}, nil
	default:
		return nil, err
	}
}
