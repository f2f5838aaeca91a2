package utils

import (
	"context"
	"io"
	"testing"

	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/store"
	"github.com/iov-one/weave-swap/weavetest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	// Paths are unique to this test so the global counters start at zero.
	okTx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "metricstest/ok"}}
	badTx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "metricstest/bad"}}
	ctx := context.Background()
	db := store.MemStore()
	m := NewMetrics()

	_, err := m.Deliver(ctx, db, okTx, &weavetest.Handler{})
	require.NoError(t, err)
	_, err = m.Deliver(ctx, db, okTx, &weavetest.Handler{})
	require.NoError(t, err)
	_, err = m.Check(ctx, db, okTx, &weavetest.Handler{})
	require.NoError(t, err)
	_, err = m.Deliver(ctx, db, badTx, &weavetest.Handler{DeliverErr: errors.ErrInsufficientAmount})
	require.True(t, errors.ErrInsufficientAmount.Is(err))
	_, err = m.Check(ctx, db, badTx, &weavetest.Handler{CheckErr: io.ErrUnexpectedEOF})
	require.Equal(t, io.ErrUnexpectedEOF, err)

	require.Equal(t, 2.0, counterValue(t, "deliver", "metricstest/ok", "", "0"))
	require.Equal(t, 1.0, counterValue(t, "check", "metricstest/ok", "", "0"))
	require.Equal(t, 1.0, counterValue(t, "deliver", "metricstest/bad", "weave", "12"))
	require.Equal(t, 0.0, counterValue(t, "deliver", "metricstest/bad", "", "0"))
	require.Equal(t, 1.0, counterValue(t, "check", "metricstest/bad", "undefined", "1"))
}

// counterValue reads swap_tx_results_total from the default registry.
func counterValue(t testing.TB, phase, path, codespace, code string) float64 {
	t.Helper()
	const name = "swap_tx_results_total"
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	want := map[string]string{"phase": phase, "path": path, "codespace": codespace, "code": code}
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
	metrics:
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if want[l.GetName()] != l.GetValue() {
					continue metrics
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}
