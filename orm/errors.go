package orm

import "github.com/iov-one/weave-swap/errors"

var codespace = errors.NewCodespace("orm", 100, 109)

// ErrInvalidIndex is returned when an index name is not registered with a
// bucket.
var ErrInvalidIndex = codespace.Register(100, "invalid index")
