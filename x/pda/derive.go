package pda

import (
	"crypto/sha256"

	"filippo.io/edwards25519"
	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
)

const (
	// ConditionExt is the extension part of every program condition.
	ConditionExt = "pda"

	MaxSeeds      = 16
	MaxSeedLength = 32
)

// Condition returns the condition that represents the program acting for
// given seeds and bump. It rejects derivations that land on the ed25519
// curve.
func Condition(program string, seeds [][]byte, bump uint8) (weave.Condition, error) {
	if err := validateSeeds(seeds); err != nil {
		return nil, err
	}
	cond, err := condition(program, seeds, bump)
	if err != nil {
		return nil, err
	}
	if onCurve(cond) {
		return nil, errors.Wrapf(ErrInvalidSeeds, "bump %d is on curve", bump)
	}
	return cond, nil
}

// Create returns the address for given seeds and bump.
func Create(program string, seeds [][]byte, bump uint8) (weave.Address, error) {
	cond, err := Condition(program, seeds, bump)
	if err != nil {
		return nil, err
	}
	return cond.Address(), nil
}

// Find returns the address with the canonical bump for given seeds.
func Find(program string, seeds ...[]byte) (weave.Address, uint8, error) {
	if err := validateSeeds(seeds); err != nil {
		return nil, 0, err
	}
	for bump := 255; bump >= 0; bump-- {
		cond, err := condition(program, seeds, uint8(bump))
		if err != nil {
			return nil, 0, err
		}
		if !onCurve(cond) {
			return cond.Address(), uint8(bump), nil
		}
	}
	return nil, 0, errors.Wrapf(ErrNoViableBump, "program %q", program)
}

func validateSeeds(seeds [][]byte) error {
	if len(seeds) > MaxSeeds {
		return errors.Wrapf(ErrInvalidSeeds, "%d seeds", len(seeds))
	}
	for i, s := range seeds {
		if len(s) > MaxSeedLength {
			return errors.Wrapf(ErrInvalidSeeds, "seed %d is %d bytes long", i, len(s))
		}
	}
	return nil
}

// condition serializes each seed with a one byte length prefix so that
// different splits of the same bytes never collide.
func condition(program string, seeds [][]byte, bump uint8) (weave.Condition, error) {
	size := 1
	for _, s := range seeds {
		size += 1 + len(s)
	}
	data := make([]byte, 0, size)
	for _, s := range seeds {
		data = append(data, byte(len(s)))
		data = append(data, s...)
	}
	data = append(data, bump)

	cond := weave.NewCondition(ConditionExt, program, data)
	if err := cond.Validate(); err != nil {
		return nil, errors.Wrapf(err, "program %q", program)
	}
	return cond, nil
}

func onCurve(c weave.Condition) bool {
	digest := sha256.Sum256(c)
	_, err := new(edwards25519.Point).SetBytes(digest[:])
	return err == nil
}
