package sigs

import (
	"github.com/iov-one/weave-swap/crypto"
	"github.com/iov-one/weave-swap/errors"
)

// SignedTx is a transaction that carries signatures.
type SignedTx interface {
	// GetSignBytes returns the canonical bytes of the transaction without
	// its signatures.
	GetSignBytes() ([]byte, error)

	GetSignatures() []*StdSignature
}

// StdSignature is a single signature together with the key that made it.
type StdSignature struct {
	Sequence  int64             `json:"sequence"`
	Pubkey    *crypto.PublicKey `json:"pubkey"`
	Signature *crypto.Signature `json:"signature"`
}

func (s *StdSignature) Validate() error {
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if s.Pubkey == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}
	if s.Signature == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return nil
}
