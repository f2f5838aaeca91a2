/*
Package escrowd wires the extensions into the swap escrow application.
*/
package escrowd

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/app"
	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/orm"
	"github.com/iov-one/weave-swap/store/iavl"
	"github.com/iov-one/weave-swap/x"
	"github.com/iov-one/weave-swap/x/cash"
	"github.com/iov-one/weave-swap/x/escrow"
	"github.com/iov-one/weave-swap/x/pda"
	"github.com/iov-one/weave-swap/x/sigs"
	"github.com/iov-one/weave-swap/x/utils"
)

// Authenticator grants the signers of a transaction.
func Authenticator() x.Authenticator {
	return sigs.Authenticate{}
}

// LedgerAuthenticator is used by the token ledger. On top of transaction
// signers it accepts program signers, so the escrow program can move funds
// out of the vaults it owns.
func LedgerAuthenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{}, pda.Authenticate{})
}

// Chain returns the decorators every transaction passes through.
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewMetrics(),
		// A failing check must not leave anything in the mempool state.
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// A failing delivery still consumes its nonce.
		utils.NewSavepoint().OnDeliver(),
		utils.NewActionTagger(),
	)
}

// Router registers the handlers of all messages.
func Router(auth x.Authenticator) *app.Router {
	r := app.NewRouter()
	ledger := cash.NewController(LedgerAuthenticator())
	cash.RegisterRoutes(r, auth, ledger)
	escrow.RegisterRoutes(r, auth, ledger)
	return r
}

// QueryRouter allows access to "/", "/wallets", "/auth" and "/escrows".
func QueryRouter() weave.QueryRouter {
	r := weave.NewQueryRouter()
	r.RegisterAll(
		orm.RegisterRawQuery,
		cash.RegisterQuery,
		sigs.RegisterQuery,
		escrow.RegisterQuery,
	)
	return r
}

// Stack is the complete transaction handler.
func Stack() weave.Handler {
	return Chain().WithHandler(Router(Authenticator()))
}

// Initializers loads the genesis state of all extensions.
func Initializers() weave.Initializer {
	return app.ChainInitializers(
		cash.Initializer{},
		escrow.Initializer{},
	)
}

// Application returns an ABCI application storing its state at dbPath.
// An empty path keeps everything in memory.
func Application(name string, h weave.Handler, dbPath string, debug bool) (*app.BaseApp, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return nil, err
	}
	store, err := app.NewStoreApp(name, kv, QueryRouter(), context.Background())
	if err != nil {
		return nil, err
	}
	store.WithInit(Initializers())
	return app.NewBaseApp(store, TxDecoder, h, debug), nil
}

// CommitKVStore opens the iavl store at dbPath, or an in memory one when
// the path is empty.
func CommitKVStore(dbPath string) (weave.CommitKVStore, error) {
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "database path %q", dbPath)
	}
	// leveldb adds the ".db" suffix itself.
	path = strings.TrimSuffix(path, filepath.Ext(path))
	return iavl.NewCommitStore(filepath.Dir(path), filepath.Base(path))
}
