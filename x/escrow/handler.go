package escrow

import (
	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/x"
	common "github.com/tendermint/tendermint/libs/common"
)

const (
	createEscrowCost   int64 = 300
	cancelEscrowCost   int64 = 100
	exchangeEscrowCost int64 = 200
)

var (
	tagEscrow = []byte("escrow")
	tagStatus = []byte("escrow.status")
)

// RegisterRoutes registers the handlers of this extension. The
// authenticator must grant program signers (x/pda) for the ledger, the
// handlers themselves only look at signatures.
func RegisterRoutes(r weave.Registry, auth x.Authenticator, ledger Ledger) {
	ctrl := NewController(ledger)
	r.Handle(pathCreateMsg, CreateHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathCancelMsg, CancelHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathExchangeMsg, ExchangeHandler{auth: auth, ctrl: ctrl})
}

func tags(addr weave.Address, status string) []common.KVPair {
	return []common.KVPair{
		{Key: tagEscrow, Value: []byte(addr.String())},
		{Key: tagStatus, Value: []byte(status)},
	}
}

// CreateHandler opens an escrow for the main signer.
type CreateHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ weave.Handler = CreateHandler{}

func (h CreateHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: createEscrowCost}, nil
}

func (h CreateHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	p, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	addr, e, err := h.ctrl.Create(ctx, db, *p)
	if err != nil {
		return nil, err
	}
	weave.GetLogger(ctx).Info("escrow created",
		"escrow", addr, "initializer", e.Initializer, "seed", e.Seed,
		"deposit", p.Deposit, "expected", e.ExpectedCounter)
	transitions.WithLabelValues("create").Inc()
	return &weave.DeliverResult{Data: addr, Tags: tags(addr, StatusOpen.String())}, nil
}

func (h CreateHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*CreateParams, error) {
	m, err := weave.GetMsgAs(tx, pathCreateMsg)
	if err != nil {
		return nil, err
	}
	msg, ok := m.(*CreateMsg)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidMsg, "%T", m)
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "initializer signature missing")
	}
	p := &CreateParams{
		Initializer: signer.Address(),
		Source:      msg.Source,
		Receive:     msg.Receive,
		Deposit:     *msg.Deposit,
		Expected:    *msg.Expected,
		Seed:        msg.Seed,
	}
	if len(p.Source) != 0 && !h.auth.HasAddress(ctx, p.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "source signature missing")
	}
	return p, nil
}

// CancelHandler gives the deposit back to the initializer.
type CancelHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ weave.Handler = CancelHandler{}

func (h CancelHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: cancelEscrowCost}, nil
}

func (h CancelHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, e, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	refund, err := h.ctrl.Cancel(ctx, db, msg.Escrow, e)
	if err != nil {
		return nil, err
	}
	weave.GetLogger(ctx).Info("escrow cancelled",
		"escrow", msg.Escrow, "refund", refund, "source", e.SourceAccount)
	transitions.WithLabelValues("cancel").Inc()
	return &weave.DeliverResult{Tags: tags(msg.Escrow, "cancelled")}, nil
}

func (h CancelHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*CancelMsg, *Escrow, error) {
	m, err := weave.GetMsgAs(tx, pathCancelMsg)
	if err != nil {
		return nil, nil, err
	}
	msg, ok := m.(*CancelMsg)
	if !ok {
		return nil, nil, errors.Wrapf(errors.ErrInvalidMsg, "%T", m)
	}
	e, err := h.ctrl.Load(db, msg.Escrow)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, e.Initializer) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the initializer can cancel")
	}
	if e.Status != StatusOpen {
		return nil, nil, errors.Wrapf(ErrAlreadyCompleted, "escrow is %s", e.Status)
	}
	return msg, e, nil
}

// ExchangeHandler executes the swap for the main signer.
type ExchangeHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ weave.Handler = ExchangeHandler{}

func (h ExchangeHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: exchangeEscrowCost}, nil
}

func (h ExchangeHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, e, taker, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	src := msg.Source
	if len(src) == 0 {
		src = taker
	}
	dest := msg.Destination
	if len(dest) == 0 {
		dest = src
	}
	released, err := h.ctrl.Swap(ctx, db, msg.Escrow, e, src, dest)
	if err != nil {
		return nil, err
	}
	weave.GetLogger(ctx).Info("escrow exchanged",
		"escrow", msg.Escrow, "taker", taker, "released", released, "paid", e.ExpectedCounter)
	transitions.WithLabelValues("exchange").Inc()
	return &weave.DeliverResult{Tags: tags(msg.Escrow, StatusCompleted.String())}, nil
}

func (h ExchangeHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*ExchangeMsg, *Escrow, weave.Address, error) {
	m, err := weave.GetMsgAs(tx, pathExchangeMsg)
	if err != nil {
		return nil, nil, nil, err
	}
	msg, ok := m.(*ExchangeMsg)
	if !ok {
		return nil, nil, nil, errors.Wrapf(errors.ErrInvalidMsg, "%T", m)
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "taker signature missing")
	}
	if len(msg.Source) != 0 && !h.auth.HasAddress(ctx, msg.Source) {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "source signature missing")
	}
	e, err := h.ctrl.Load(db, msg.Escrow)
	if err != nil {
		return nil, nil, nil, err
	}
	if e.Status != StatusOpen {
		return nil, nil, nil, errors.Wrapf(ErrAlreadyCompleted, "escrow is %s", e.Status)
	}
	return msg, e, signer.Address(), nil
}
