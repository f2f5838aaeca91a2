package sigs

import (
	"context"
	"testing"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/store"
	"github.com/iov-one/weave-swap/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signersHandler struct {
	signers []weave.Condition
}

func (h *signersHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	h.signers = Authenticate{}.GetConditions(ctx)
	return &weave.CheckResult{}, nil
}

func (h *signersHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	h.signers = Authenticate{}.GetConditions(ctx)
	return &weave.DeliverResult{}, nil
}

func TestDecorator(t *testing.T) {
	chainID := "deco-rate"
	ctx := weave.WithChainID(context.Background(), chainID)
	db := store.MemStore()

	priv := weavetest.NewKey()
	cond := priv.PublicKey().Condition()

	unsigned := newSignedTx([]byte("one"))
	signed := newSignedTx([]byte("two"))
	sig, err := SignTx(priv, signed, chainID, 0)
	require.NoError(t, err)
	signed.Signatures = []*StdSignature{sig}

	h := new(signersHandler)
	d := NewDecorator()

	_, err = d.Check(ctx, db, unsigned, h)
	assert.True(t, errors.ErrUnauthorized.Is(err))
	_, err = d.Deliver(ctx, db, &weavetest.Tx{}, h)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	cres, err := d.Check(ctx, db, signed, h)
	require.NoError(t, err)
	assert.Equal(t, []weave.Condition{cond}, h.signers)
	assert.Equal(t, int64(signatureVerifyCost), cres.GasPayment)

	// The sequence was consumed by the check.
	_, err = d.Deliver(ctx, db, signed, h)
	assert.True(t, ErrInvalidSequence.Is(err))

	sig1, err := SignTx(priv, signed, chainID, 1)
	require.NoError(t, err)
	signed.Signatures = []*StdSignature{sig1}
	_, err = d.Deliver(ctx, db, signed, h)
	require.NoError(t, err)
	assert.Equal(t, []weave.Condition{cond}, h.signers)
	assert.True(t, Authenticate{}.HasAddress(withSigners(ctx, h.signers), cond.Address()))

	allow := d.AllowMissingSigs()
	h.signers = nil
	_, err = allow.Check(ctx, db, unsigned, h)
	require.NoError(t, err)
	assert.Empty(t, h.signers)
	_, err = allow.Deliver(ctx, db, &weavetest.Tx{}, h)
	require.NoError(t, err)
}

func TestAuthQuery(t *testing.T) {
	db := store.MemStore()
	qr := weave.NewQueryRouter()
	RegisterQuery(qr)

	priv := weavetest.NewKey()
	tx := newSignedTx([]byte("query me"))
	sig, err := SignTx(priv, tx, "query-chain", 0)
	require.NoError(t, err)
	_, err = VerifySignature(db, sig, []byte("query me"), "query-chain")
	require.NoError(t, err)

	h := qr.Handler("/auth")
	require.NotNil(t, h)
	res, err := h.Query(db, "", priv.PublicKey().Address())
	require.NoError(t, err)
	require.Len(t, res, 1)

	var u UserData
	require.NoError(t, u.Unmarshal(res[0].Value))
	assert.Equal(t, int64(1), u.Sequence)
	assert.Equal(t, priv.PublicKey(), u.Pubkey)
}
