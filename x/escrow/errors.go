package escrow

import "github.com/iov-one/weave-swap/errors"

var codespace = errors.NewCodespace("escrow", 1020, 1029)

var (
	// ErrAlreadyCompleted is returned for an operation on an escrow that
	// is not open anymore.
	ErrAlreadyCompleted = codespace.Register(1020, "escrow already completed")
)
