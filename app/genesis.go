package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
)

// Genesis is the part of the tendermint genesis file the application reads.
type Genesis struct {
	ChainID  string          `json:"chain_id"`
	AppState json.RawMessage `json:"app_state"`
}

// LoadGenesis reads a genesis file.
func LoadGenesis(path string) (Genesis, error) {
	var gen Genesis
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return gen, errors.Wrapf(errors.ErrInvalidInput, "read genesis: %s", err)
	}
	if err := json.Unmarshal(raw, &gen); err != nil {
		return gen, errors.Wrapf(errors.ErrInvalidInput, "parse genesis: %s", err)
	}
	return gen, nil
}

// ChainInitializers returns an initializer that runs all given ones in
// order and stops at the first failure.
func ChainInitializers(inits ...weave.Initializer) weave.Initializer {
	return chainInitializer(inits)
}

type chainInitializer []weave.Initializer

func (c chainInitializer) FromGenesis(opts weave.Options, db weave.KVStore) error {
	for _, in := range c {
		if err := in.FromGenesis(opts, db); err != nil {
			return err
		}
	}
	return nil
}
