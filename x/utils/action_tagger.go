package utils

import (
	"github.com/iov-one/weave-swap"
	"github.com/tendermint/tendermint/libs/common"
)

// ActionKey is the tag key ActionTagger sets.
const ActionKey = "action"

// ActionTagger adds an `action=<message path>` tag to every successful
// DeliverTx result, so clients can subscribe to e.g. all escrow/exchange
// transactions.
type ActionTagger struct{}

var _ weave.Decorator = ActionTagger{}

func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

func (ActionTagger) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

func (ActionTagger) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	// Fail before dispatching if the message cannot be read.
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.Tags = append(res.Tags, common.KVPair{
		Key:   []byte(ActionKey),
		Value: []byte(msg.Path()),
	})
	return res, nil
}
