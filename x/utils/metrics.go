package utils

import (
	"strconv"
	"time"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	txResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "swap",
			Name:      "tx_results_total",
			Help:      "Processed transactions by phase, message path and ABCI result.",
		},
		[]string{"phase", "path", "codespace", "code"},
	)

	txDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "swap",
			Name:      "tx_duration_seconds",
			Help:      "Time spent processing a transaction below the metrics decorator.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
		[]string{"phase", "path"},
	)
)

// Metrics counts every processed transaction and observes its duration.
// Results are labeled with the ABCI codespace and code of the error, an
// empty codespace and "0" on success.
type Metrics struct{}

var _ weave.Decorator = Metrics{}

func NewMetrics() Metrics {
	return Metrics{}
}

func (Metrics) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	observe("check", weave.GetPath(tx), start, err)
	return res, err
}

func (Metrics) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	observe("deliver", weave.GetPath(tx), start, err)
	return res, err
}

func observe(phase, path string, start time.Time, err error) {
	space, code, _ := errors.ABCIInfo(err, false)
	txResults.WithLabelValues(phase, path, space, strconv.FormatUint(uint64(code), 10)).Inc()
	txDuration.WithLabelValues(phase, path).Observe(time.Since(start).Seconds())
}
