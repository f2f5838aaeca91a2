package app

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// Tester is implemented by *testing.T and *testing.B.
type Tester interface {
	Helper()
	Fatalf(string, ...interface{})
}

// WeaveRunner drives an ABCI application the way tendermint would, block
// by block, taking weave transactions instead of bytes. It is meant for
// end to end tests.
type WeaveRunner struct {
	t       Tester
	app     abci.Application
	chainID string
	height  int64
	now     time.Time
}

// NewWeaveRunner returns a runner starting at height zero. Every block is
// one second after the previous one, the first is at start.
func NewWeaveRunner(t Tester, app abci.Application, chainID string, start time.Time) *WeaveRunner {
	return &WeaveRunner{t: t, app: app, chainID: chainID, now: start}
}

// InitChain loads given genesis app state in its own block.
func (w *WeaveRunner) InitChain(appState interface{}) {
	w.t.Helper()
	raw, err := json.Marshal(appState)
	if err != nil {
		w.t.Fatalf("cannot serialize genesis: %s", err)
	}
	w.app.InitChain(abci.RequestInitChain{
		Time:          w.now,
		ChainId:       w.chainID,
		AppStateBytes: raw,
	})
	w.app.Commit()
	w.height++
}

// ChainID returns the chain id the runner initialized the chain with.
func (w *WeaveRunner) ChainID() string {
	return w.chainID
}

// CheckTx runs a transaction through CheckTx.
func (w *WeaveRunner) CheckTx(tx weave.Tx) abci.ResponseCheckTx {
	w.t.Helper()
	return w.app.CheckTx(w.marshal(tx))
}

// InBlock runs fn within a new block and commits it. It returns true if the
// app hash changed.
func (w *WeaveRunner) InBlock(fn func(deliver func(weave.Tx) abci.ResponseDeliverTx)) bool {
	w.t.Helper()

	w.height++
	w.now = w.now.Add(time.Second)
	before := w.app.Info(abci.RequestInfo{}).LastBlockAppHash

	w.app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{ChainID: w.chainID, Height: w.height, Time: w.now},
	})
	fn(func(tx weave.Tx) abci.ResponseDeliverTx {
		return w.app.DeliverTx(w.marshal(tx))
	})
	w.app.EndBlock(abci.RequestEndBlock{Height: w.height})
	after := w.app.Commit().Data
	return !bytes.Equal(before, after)
}

// DeliverTx runs a single transaction in its own block and fails the test
// if it does not succeed.
func (w *WeaveRunner) DeliverTx(tx weave.Tx) abci.ResponseDeliverTx {
	w.t.Helper()
	var res abci.ResponseDeliverTx
	w.InBlock(func(deliver func(weave.Tx) abci.ResponseDeliverTx) {
		res = deliver(tx)
	})
	if res.Code != errors.SuccessABCICode {
		w.t.Fatalf("deliver failed with %d: %s", res.Code, res.Log)
	}
	return res
}

// Query returns the models found under given query path.
func (w *WeaveRunner) Query(path string, data []byte) []weave.Model {
	w.t.Helper()
	res := w.app.Query(abci.RequestQuery{Path: path, Data: data})
	if res.Code != errors.SuccessABCICode {
		w.t.Fatalf("query %s failed with %d: %s", path, res.Code, res.Log)
	}
	models, err := toModels(res.Key, res.Value)
	if err != nil {
		w.t.Fatalf("cannot parse query result: %s", err)
	}
	return models
}

func (w *WeaveRunner) marshal(tx weave.Tx) []byte {
	w.t.Helper()
	raw, err := tx.Marshal()
	if err != nil {
		w.t.Fatalf("cannot serialize transaction: %s", err)
	}
	return raw
}
