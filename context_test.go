package weave

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/iov-one/weave-swap/weavetest/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestContext(t *testing.T) {
	bg := context.Background()

	logger := log.NewTMLogger(os.Stdout)
	ctx := WithLogger(bg, logger)
	assert.Equal(t, DefaultLogger, GetLogger(bg))
	assert.Equal(t, logger, GetLogger(ctx))

	h, ok := GetHeight(ctx)
	assert.Equal(t, int64(0), h)
	assert.Equal(t, false, ok)
	ctx = WithHeight(ctx, 7)
	h, ok = GetHeight(ctx)
	assert.Equal(t, int64(7), h)
	assert.Equal(t, true, ok)
	assert.Panics(t, func() { WithHeight(ctx, 9) })

	withInfo := WithLogInfo(ctx, "escrow", "abc")
	if GetLogger(withInfo) == GetLogger(ctx) {
		t.Fatal("log info must produce a new logger")
	}

	assert.Equal(t, "", GetChainID(ctx))
	ctx = WithChainID(ctx, "swap-chain")
	assert.Equal(t, "swap-chain", GetChainID(ctx))
	assert.Panics(t, func() { WithChainID(ctx, "swap-chain") })
}

func TestChainID(t *testing.T) {
	cases := map[string]bool{
		"":                              false,
		"foo":                           false,
		"special":                       true,
		"wish-YOU-88":                   true,
		"invalid;;chars":                false,
		"this-chain-id-is-way-too-long": false,
	}
	for chainID, valid := range cases {
		t.Run(chainID, func(t *testing.T) {
			assert.Equal(t, valid, IsValidChainID(chainID))
			if !valid {
				assert.Panics(t, func() { WithChainID(context.Background(), chainID) })
			}
		})
	}
}

func TestBlockTime(t *testing.T) {
	ctx := context.Background()
	if _, err := BlockTime(ctx); err == nil {
		t.Fatal("missing block time must fail")
	}

	now := time.Date(2019, 4, 1, 10, 0, 30, 500, time.UTC)
	ctx = WithBlockTime(ctx, now)
	got, err := BlockTime(ctx)
	assert.Nil(t, err)
	assert.Equal(t, now, got)

	unix, err := BlockUnixTime(ctx)
	assert.Nil(t, err)
	assert.Equal(t, UnixTime(now.Unix()), unix)
}
