package weave

import (
	"fmt"

	"github.com/iov-one/weave-swap/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/common"
)

// CheckResult is the outcome of a successful Check.
type CheckResult struct {
	// Data is a machine readable value, like an id of a created entity.
	Data []byte
	// Log is a human readable message.
	Log string
	// GasAllocated is the maximum amount of work this transaction may
	// perform.
	GasAllocated int64
	// GasPayment is not used yet.
	GasPayment int64
}

// NewCheck returns a result that carries only allocated gas and a log.
func NewCheck(gasAllocated int64, log string) *CheckResult {
	return &CheckResult{GasAllocated: gasAllocated, Log: log}
}

func (c CheckResult) ToABCI() abci.ResponseCheckTx {
	return abci.ResponseCheckTx{
		Data:      c.Data,
		Log:       c.Log,
		GasWanted: c.GasAllocated,
	}
}

// DeliverResult is the outcome of a successful Deliver.
type DeliverResult struct {
	Data []byte
	Log  string
	// Tags are indexed by tendermint and allow searching the transaction
	// history, for example by escrow address.
	Tags    []common.KVPair
	GasUsed int64
}

func (d DeliverResult) ToABCI() abci.ResponseDeliverTx {
	return abci.ResponseDeliverTx{
		Data:    d.Data,
		Log:     d.Log,
		Tags:    d.Tags,
		GasUsed: d.GasUsed,
	}
}

// CheckOrError returns the ABCI response of a check, converting the error if
// there is one.
func CheckOrError(result *CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err != nil {
		return CheckTxError(err, debug)
	}
	if result == nil {
		return abci.ResponseCheckTx{}
	}
	return result.ToABCI()
}

// DeliverOrError returns the ABCI response of a delivery, converting the
// error if there is one.
func DeliverOrError(result *DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err != nil {
		return DeliverTxError(err, debug)
	}
	if result == nil {
		return abci.ResponseDeliverTx{}
	}
	return result.ToABCI()
}

// CheckTxError converts an error into a response, keeping its codespace
// and code. Internal errors are redacted unless debug is set.
func CheckTxError(err error, debug bool) abci.ResponseCheckTx {
	space, code, log := errors.ABCIInfo(err, debug)
	if code != errors.SuccessABCICode {
		log = fmt.Sprintf("cannot check tx: %s", log)
	}
	return abci.ResponseCheckTx{Codespace: space, Code: code, Log: log}
}

// DeliverTxError converts an error into a response, keeping its codespace
// and code.
func DeliverTxError(err error, debug bool) abci.ResponseDeliverTx {
	space, code, log := errors.ABCIInfo(err, debug)
	if code != errors.SuccessABCICode {
		log = fmt.Sprintf("cannot deliver tx: %s", log)
	}
	return abci.ResponseDeliverTx{Codespace: space, Code: code, Log: log}
}
