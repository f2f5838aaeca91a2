package pda

import (
	"context"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/x"
)

// Signer is what a program presents instead of a signature.
type Signer struct {
	Program string
	Seeds   [][]byte
	Bump    uint8
}

// Condition re-derives the condition this signer stands for.
func (s Signer) Condition() (weave.Condition, error) {
	return Condition(s.Program, s.Seeds, s.Bump)
}

type contextKey int

const contextKeySigners contextKey = iota

// Sign returns a context in which the program acts for the address derived
// from seeds and bump. An invalid derivation is rejected here already, so
// that the caller learns about it before any transfer is attempted.
func Sign(ctx weave.Context, program string, seeds [][]byte, bump uint8) (weave.Context, weave.Address, error) {
	s := Signer{Program: program, Seeds: seeds, Bump: bump}
	cond, err := s.Condition()
	if err != nil {
		return nil, nil, err
	}
	prev, _ := ctx.Value(contextKeySigners).([]Signer)
	signers := make([]Signer, 0, len(prev)+1)
	signers = append(signers, prev...)
	signers = append(signers, s)
	return context.WithValue(ctx, contextKeySigners, signers), cond.Address(), nil
}

// Authenticate grants the conditions of all program signers in the context.
// Every signer is derived again, a signer that does not derive is ignored.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

func (Authenticate) GetConditions(ctx weave.Context) []weave.Condition {
	signers, _ := ctx.Value(contextKeySigners).([]Signer)
	var conds []weave.Condition
	for _, s := range signers {
		c, err := s.Condition()
		if err != nil {
			weave.GetLogger(ctx).Error("rejected program signer",
				"program", s.Program, "bump", s.Bump, "err", err)
			continue
		}
		conds = append(conds, c)
	}
	return conds
}

func (a Authenticate) HasAddress(ctx weave.Context, addr weave.Address) bool {
	for _, c := range a.GetConditions(ctx) {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
