package escrow

import (
	"encoding/binary"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/x/pda"
)

// ProgramName is the pda program of all escrow and vault addresses.
const ProgramName = "escrow"

var (
	escrowSeedPrefix = []byte("escrow")
	vaultSeedPrefix  = []byte("vault")
)

// Seeds returns the seeds of the escrow address.
func Seeds(initializer weave.Address, seed uint64) [][]byte {
	var raw [8]byte
	binary.LittleEndian.PutUint64(raw[:], seed)
	return [][]byte{escrowSeedPrefix, initializer, raw[:]}
}

// Address returns the escrow address of given initializer and seed together
// with its canonical bump.
func Address(initializer weave.Address, seed uint64) (weave.Address, uint8, error) {
	return pda.Find(ProgramName, Seeds(initializer, seed)...)
}

// VaultAddress returns the address of the wallet holding the deposit of
// given escrow.
func VaultAddress(escrow weave.Address) (weave.Address, error) {
	addr, _, err := pda.Find(ProgramName, vaultSeedPrefix, escrow)
	return addr, err
}

// sign returns a context in which the program acts as the escrow. The
// derivation uses the stored bump, so a record that does not derive to addr
// fails.
func sign(ctx weave.Context, addr weave.Address, e *Escrow) (weave.Context, error) {
	signed, derived, err := pda.Sign(ctx, ProgramName, Seeds(e.Initializer, e.Seed), uint8(e.DerivationBump))
	if err != nil {
		return nil, err
	}
	if !derived.Equals(addr) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "escrow %s derives to %s", addr, derived)
	}
	return signed, nil
}
