package sigs

import "github.com/iov-one/weave-swap/errors"

var codespace = errors.NewCodespace("sigs", 20, 29)

var (
	// ErrInvalidSequence is returned when a signature carries a sequence
	// other than the one stored for its key.
	ErrInvalidSequence = codespace.Register(20, "invalid sequence")
)
