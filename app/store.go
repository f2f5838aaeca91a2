package app

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp implements the state half of an ABCI application: genesis,
// block boundaries, commits and queries. BaseApp embeds it and adds
// transaction processing.
//
// ABCI gives no way to report a failure of InitChain or Commit, so those
// panic. Tendermint stops the node, which is the only safe reaction.
type StoreApp struct {
	// mu serializes every ABCI call. Tendermint already does for one
	// connection, but the mempool and consensus connections run
	// concurrently and share the committed store.
	mu sync.Mutex

	logger log.Logger

	// name is returned from Info.
	name string

	store       *CommitStore
	initializer weave.Initializer
	queryRouter weave.QueryRouter

	// chainID is saved at genesis and loaded on restart.
	chainID string

	// baseContext is valid for the lifetime of the app, blockContext for
	// the current block only.
	baseContext  weave.Context
	blockContext weave.Context
}

// NewStoreApp loads the latest state from db.
func NewStoreApp(name string, db weave.CommitKVStore, queryRouter weave.QueryRouter, baseContext weave.Context) (*StoreApp, error) {
	cs, err := NewCommitStore(db)
	if err != nil {
		return nil, err
	}
	s := &StoreApp{
		name:        name,
		store:       cs,
		queryRouter: queryRouter,
		baseContext: baseContext,
	}
	s.WithLogger(log.NewNopLogger())

	s.chainID, err = loadChainID(cs.DeliverStore())
	if err != nil {
		return nil, err
	}
	if s.chainID != "" {
		s.baseContext = weave.WithChainID(s.baseContext, s.chainID)
	}

	id, err := cs.CommitInfo()
	if err != nil {
		return nil, errors.Wrap(err, "commit info")
	}
	s.blockContext = weave.WithHeight(s.baseContext, id.Version)
	return s, nil
}

// WithInit sets the genesis initializer.
func (s *StoreApp) WithInit(init weave.Initializer) *StoreApp {
	s.initializer = init
	return s
}

// WithLogger sets the logger of the app and of every context it creates.
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.baseContext = weave.WithLogger(s.baseContext, logger)
	s.logger = logger
	return s
}

func (s *StoreApp) Logger() log.Logger {
	return s.logger
}

func (s *StoreApp) GetChainID() string {
	return s.chainID
}

func (s *StoreApp) BlockContext() weave.Context {
	return s.blockContext
}

func (s *StoreApp) DeliverStore() weave.CacheableKVStore {
	return s.store.DeliverStore()
}

func (s *StoreApp) CheckStore() weave.CacheableKVStore {
	return s.store.CheckStore()
}

// parseAppState runs the initializer on the genesis app_state. It is only
// called for a new chain, never on restart.
func (s *StoreApp) parseAppState(data []byte, chainID string) error {
	if s.chainID != "" {
		return errors.Wrapf(errors.ErrInvalidState, "app state already loaded for chain %q", s.chainID)
	}
	if len(data) == 0 {
		return errors.Wrap(errors.ErrInvalidInput, "app_state not set in genesis")
	}
	var opts weave.Options
	if err := json.Unmarshal(data, &opts); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "app_state: %s", err)
	}
	if err := saveChainID(s.DeliverStore(), chainID); err != nil {
		return err
	}
	s.chainID = chainID
	s.baseContext = weave.WithChainID(s.baseContext, chainID)

	if s.initializer == nil {
		return nil
	}
	return s.initializer.FromGenesis(opts, s.DeliverStore())
}

// Info returns the last committed height and app hash.
func (s *StoreApp) Info(req abci.RequestInfo) abci.ResponseInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.logger.Info("info synced", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return abci.ResponseInfo{
		Data:             s.name,
		Version:          weave.Version(),
		LastBlockHeight:  id.Version,
		LastBlockAppHash: id.Hash,
	}
}

func (s *StoreApp) SetOption(abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "not implemented"}
}

/*
Query reads the last committed state.

Path is "/" for raw store access or a path registered with the query
router, for example "/escrows" or "/escrows/initializer". A "?prefix"
suffix turns it into a prefix query.

Key and Value of the response are ResultSets of the same length.
Historical heights and proofs are not supported.
*/
func (s *StoreApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, mod := splitPath(req.Path)
	qh := s.queryRouter.Handler(path)
	if qh == nil {
		return queryError(errors.Wrapf(errors.ErrNotFound, "query path %q", req.Path))
	}

	id, err := s.store.CommitInfo()
	if err != nil {
		return queryError(err)
	}
	db := s.store.ReadStore()
	defer db.Discard()

	models, err := qh.Query(db, mod, req.Data)
	if err != nil {
		return queryError(err)
	}
	res := abci.ResponseQuery{Height: id.Version}
	if res.Key, err = ResultsFromKeys(models).Marshal(); err != nil {
		return queryError(err)
	}
	if res.Value, err = ResultsFromValues(models).Marshal(); err != nil {
		return queryError(err)
	}
	return res
}

// splitPath splits "path?mod".
func splitPath(path string) (string, string) {
	chunks := strings.SplitN(path, "?", 2)
	if len(chunks) == 2 {
		return chunks[0], chunks[1]
	}
	return path, ""
}

func queryError(err error) abci.ResponseQuery {
	space, code, log := errors.ABCIInfo(err, false)
	return abci.ResponseQuery{Codespace: space, Code: code, Log: log}
}

func (s *StoreApp) Commit() abci.ResponseCommit {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.store.Commit()
	if err != nil {
		panic(err)
	}
	s.logger.Debug("commit synced", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return abci.ResponseCommit{Data: id.Hash}
}

// InitChain loads the genesis app state. Validators are taken as given by
// tendermint.
func (s *StoreApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.parseAppState(req.AppStateBytes, req.ChainId); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

// BeginBlock sets up the context of the new block.
func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.beginBlock(req.Header)
	return abci.ResponseBeginBlock{}
}

func (s *StoreApp) beginBlock(h abci.Header) {
	ctx := weave.WithHeight(s.baseContext, h.Height)
	ctx = weave.WithBlockTime(ctx, h.Time)
	s.blockContext = ctx
}

// EndBlock reports no validator changes, the validator set is managed
// outside of the application.
func (s *StoreApp) EndBlock(abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}
