package cash

import (
	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/x"
)

// RegisterRoutes registers the handlers of this extension.
func RegisterRoutes(r weave.Registry, auth x.Authenticator, ctrl Controller) {
	r.Handle(pathSendMsg, NewSendHandler(auth, ctrl))
}

// RegisterQuery exposes the wallets as "/wallets" and the program owned
// wallets by authority as "/wallets/authority".
func RegisterQuery(qr weave.QueryRouter) {
	NewBucket().Register("wallets", qr)
}

// SendHandler moves coins on behalf of the source wallet.
type SendHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ weave.Handler = SendHandler{}

func NewSendHandler(auth x.Authenticator, ctrl Controller) SendHandler {
	return SendHandler{auth: auth, ctrl: ctrl}
}

func (h SendHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: sendTxCost}, nil
}

func (h SendHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Transfer(ctx, db, msg.Source, msg.Destination, *msg.Amount); err != nil {
		return nil, err
	}
	return &weave.DeliverResult{}, nil
}

func (h SendHandler) validate(ctx weave.Context, tx weave.Tx) (*SendMsg, error) {
	m, err := weave.GetMsgAs(tx, pathSendMsg)
	if err != nil {
		return nil, err
	}
	msg, ok := m.(*SendMsg)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidMsg, "%T", m)
	}
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "source signature missing")
	}
	return msg, nil
}
