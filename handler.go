package weave

import (
	"encoding/json"

	"github.com/iov-one/weave-swap/errors"
)

// Handler processes the messages routed to it.
type Handler interface {
	Checker
	Deliverer
}

// Checker verifies that a transaction could be executed. It runs for the
// mempool and must be cheap.
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer executes a transaction.
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator wraps a Handler with functionality shared by many handlers,
// like authentication or logging.
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry is the setup side of a router.
type Registry interface {
	Handle(path string, h Handler)
}

// Options is the application state section of the genesis file. Each
// extension reads its own key.
type Options map[string]json.RawMessage

// ReadOptions decodes the value stored under given key into obj. A missing
// key is not an error and leaves obj untouched.
func (o Options) ReadOptions(key string, obj interface{}) error {
	raw, ok := o[key]
	if !ok || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, obj); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "genesis %q: %s", key, err)
	}
	return nil
}

// Initializer loads the genesis state of an extension.
type Initializer interface {
	FromGenesis(Options, KVStore) error
}
