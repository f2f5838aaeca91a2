package escrowd

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/coin"
	"github.com/iov-one/weave-swap/crypto"
	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/x/cash"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// Name is returned by the ABCI Info call.
const Name = "escrowd"

// GenInitOptions returns the app state of a development chain: one wallet
// holding a large amount of a single ticker.
//
// The optional arguments are the ticker (default "IOV") and the hex
// address of the wallet. Without an address a new key is generated and
// printed, so its funds can be used.
func GenInitOptions(args []string) (json.RawMessage, error) {
	ticker := "IOV"
	if len(args) > 0 {
		ticker = args[0]
		if !coin.IsCC(ticker) {
			return nil, errors.Wrapf(errors.ErrCurrency, "ticker %q", ticker)
		}
	}

	var (
		addr weave.Address
		err  error
	)
	if len(args) > 1 {
		addr, err = weave.ParseAddress(args[1])
		if err != nil {
			return nil, err
		}
		if err := addr.Validate(); err != nil {
			return nil, err
		}
	} else {
		var keys string
		addr, keys, err = GenerateCoinKey()
		if err != nil {
			return nil, err
		}
		fmt.Println(keys)
	}

	state := map[string]interface{}{
		"cash": []cash.GenesisAccount{{
			Address: addr,
			Coins:   coin.Coins{coin.NewCoinp(123456789, ticker)},
		}},
	}
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return raw, nil
}

// GenerateApp creates the application for the start command. The
// database lives in home, an empty home keeps it in memory.
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "escrow.db")
	}
	application, err := Application(Name, Stack(), dbPath, debug)
	if err != nil {
		return nil, err
	}
	application.WithLogger(logger)
	return application, nil
}

type keyOutput struct {
	Mnemonic string             `json:"mnemonic"`
	Path     string             `json:"path"`
	Pubkey   *crypto.PublicKey  `json:"pub_key"`
	Secret   *crypto.PrivateKey `json:"secret"`
}

// GenerateCoinKey returns the address of a new key together with the JSON
// form of the key pair and the mnemonic it was derived from, so the funds
// can be used by a client.
func GenerateCoinKey() (weave.Address, string, error) {
	mnemonic, err := crypto.NewMnemonic()
	if err != nil {
		return nil, "", err
	}
	priv, err := crypto.KeyFromMnemonic(mnemonic, crypto.DefaultDerivationPath)
	if err != nil {
		return nil, "", err
	}
	pub := priv.PublicKey()
	out := keyOutput{
		Mnemonic: mnemonic,
		Path:     crypto.DefaultDerivationPath,
		Pubkey:   pub,
		Secret:   priv,
	}
	keys, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return pub.Address(), string(keys), nil
}
