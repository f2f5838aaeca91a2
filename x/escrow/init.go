package escrow

import (
	"encoding/json"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
)

const optKey = "escrow"

// Initializer rejects escrows in the genesis file. An escrow needs a signed
// deposit, which genesis cannot provide.
type Initializer struct{}

var _ weave.Initializer = Initializer{}

func (Initializer) FromGenesis(opts weave.Options, db weave.KVStore) error {
	var escrows []json.RawMessage
	if err := opts.ReadOptions(optKey, &escrows); err != nil {
		return err
	}
	if len(escrows) != 0 {
		return errors.Wrapf(errors.ErrInvalidInput, "genesis cannot create %d escrows", len(escrows))
	}
	return nil
}
