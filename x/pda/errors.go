package pda

import "github.com/iov-one/weave-swap/errors"

var codespace = errors.NewCodespace("pda", 1030, 1039)

var (
	// ErrInvalidSeeds is returned when the seeds do not produce a viable
	// program address.
	ErrInvalidSeeds = codespace.Register(1030, "invalid seeds")

	// ErrNoViableBump is returned when no bump in 0..255 produces a viable
	// program address for given seeds.
	ErrNoViableBump = codespace.Register(1031, "no viable bump")
)
