package utils

import (
	"time"

	"github.com/iov-one/weave-swap"
)

// Logging writes one log line per processed transaction, with the message
// path, the time it took and the error if any.
//
// Failures are logged at error level. Successful deliveries are logged at
// info level, successful checks at debug level since every transaction is
// checked at least once more than it is delivered.
type Logging struct{}

var _ weave.Decorator = Logging{}

func NewLogging() Logging {
	return Logging{}
}

func (Logging) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	var info string
	if err == nil {
		info = res.Log
	}
	logResult(ctx, "check", weave.GetPath(tx), start, info, err)
	return res, err
}

func (Logging) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	var info string
	if err == nil {
		info = res.Log
	}
	logResult(ctx, "deliver", weave.GetPath(tx), start, info, err)
	return res, err
}

func logResult(ctx weave.Context, phase, path string, start time.Time, info string, err error) {
	logger := weave.GetLogger(ctx).With(
		"phase", phase,
		"path", path,
		"duration", time.Since(start)/time.Microsecond,
	)
	switch {
	case err != nil:
		logger.Error(info, "err", err)
	case phase == "check":
		logger.Debug(info)
	default:
		logger.Info(info)
	}
}
