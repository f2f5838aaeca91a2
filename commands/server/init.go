package server

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/weave-swap/errors"
	"github.com/tendermint/tendermint/libs/log"
)

const appStateKey = "app_state"

// GenOptions produces the app_state of the genesis file from the
// arguments of the init command.
type GenOptions func(args []string) (json.RawMessage, error)

// GenesisFile returns the location of the tendermint genesis file in home.
func GenesisFile(home string) string {
	return filepath.Join(home, "config", "genesis.json")
}

// InitCmd adds the generated app_state to the genesis file that
// `tendermint init` created in home. An app_state that is already set is
// never overwritten.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	genFile := GenesisFile(home)
	if _, err := os.Stat(genFile); err != nil {
		return errors.Wrapf(errors.ErrNotFound, "genesis file %s, run tendermint init first", genFile)
	}

	doc, err := readGenesisDoc(genFile)
	if err != nil {
		return err
	}
	if raw, ok := doc[appStateKey]; ok && len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		return errors.Wrapf(errors.ErrDuplicate, "%s already set in %s", appStateKey, genFile)
	}

	options, err := gen(args)
	if err != nil {
		return err
	}
	doc[appStateKey] = options
	if err := writeGenesisDoc(genFile, doc); err != nil {
		return err
	}
	logger.Info("app state written", "path", genFile)
	return nil
}

// genesisDoc keeps the tendermint part of the genesis file untouched.
type genesisDoc map[string]json.RawMessage

func readGenesisDoc(path string) (genesisDoc, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "read genesis: %s", err)
	}
	var doc genesisDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "parse genesis: %s", err)
	}
	return doc, nil
}

func writeGenesisDoc(path string, doc genesisDoc) error {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "serialize genesis: %s", err)
	}
	if err := ioutil.WriteFile(path, out, 0600); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "write genesis: %s", err)
	}
	return nil
}
