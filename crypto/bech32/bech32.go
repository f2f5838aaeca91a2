// Package bech32 presents addresses in the human readable bech32 format.
package bech32

import (
	"strings"

	"github.com/btcsuite/btcutil/bech32"
	"github.com/iov-one/weave-swap/errors"
)

// EncodeAddress returns addr as a bech32 string prefixed with hrp.
func EncodeAddress(hrp string, addr []byte) (string, error) {
	if len(addr) == 0 {
		return "", errors.Wrap(errors.ErrEmpty, "address")
	}
	data, err := bech32.ConvertBits(addr, 8, 5, true)
	if err != nil {
		return "", errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	s, err := bech32.Encode(hrp, data)
	if err != nil {
		return "", errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return s, nil
}

// DecodeAddress returns the address encoded in s. The human readable part
// must be hrp, case is ignored.
func DecodeAddress(hrp, s string) ([]byte, error) {
	got, data, err := bech32.Decode(s)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "bech32 %q: %s", s, err)
	}
	if !strings.EqualFold(got, hrp) {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "prefix %q, want %q", got, hrp)
	}
	addr, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "bech32 %q: %s", s, err)
	}
	return addr, nil
}
