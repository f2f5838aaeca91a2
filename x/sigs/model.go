package sigs

import (
	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/codec"
	"github.com/iov-one/weave-swap/crypto"
	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/orm"
)

// BucketName is where the sequences are stored.
const BucketName = "sigs"

// maxSequenceValue is the greatest value a javascript client can represent
// exactly (2^53 - 1).
const maxSequenceValue = (1 << 53) - 1

// UserData is the state kept for every public key that has signed.
type UserData struct {
	Metadata *weave.Metadata   `json:"metadata"`
	Pubkey   *crypto.PublicKey `json:"pubkey"`
	Sequence int64             `json:"sequence"`
}

var _ orm.Model = (*UserData)(nil)

func (u *UserData) Marshal() ([]byte, error) {
	return codec.Marshal(u)
}

func (u *UserData) Unmarshal(bz []byte) error {
	return codec.Unmarshal(bz, u)
}

func (u *UserData) Validate() error {
	if err := u.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if u.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if err := u.Pubkey.Validate(); err != nil {
		return errors.Wrap(err, "pubkey")
	}
	return nil
}

// CheckAndIncrementSequence increments the sequence if it equals expected.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	}
	next := u.Sequence + 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// Bucket stores UserData under the address of its public key.
type Bucket struct {
	orm.Bucket
}

func NewBucket() Bucket {
	return Bucket{Bucket: orm.NewBucket(BucketName, &UserData{})}
}

// GetOrCreate loads the user for pubkey. An unknown key starts with
// sequence zero and is not saved.
func (b Bucket) GetOrCreate(db weave.ReadOnlyKVStore, pubkey *crypto.PublicKey) (*UserData, error) {
	var u UserData
	err := b.One(db, pubkey.Address(), &u)
	switch {
	case err == nil:
		return &u, nil
	case errors.ErrNotFound.Is(err):
		return &UserData{
			Metadata: &weave.Metadata{Schema: 1},
			Pubkey:   pubkey,
		}, nil
	default:
		return nil, err
	}
}

// Save stores the user under its public key address.
func (b Bucket) Save(db weave.KVStore, u *UserData) error {
	return b.Put(db, u.Pubkey.Address(), u)
}

// RegisterQuery exposes the sequences as "/auth".
func RegisterQuery(qr weave.QueryRouter) {
	NewBucket().Register("auth", qr)
}
