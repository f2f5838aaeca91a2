package cash

import (
	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/codec"
	"github.com/iov-one/weave-swap/coin"
	"github.com/iov-one/weave-swap/errors"
)

func init() {
	codec.RegisterMsg(&SendMsg{}, "cash/SendMsg")
}

const (
	pathSendMsg = "cash/send"

	sendTxCost int64 = 100

	maxMemoSize = 128
)

// SendMsg moves coins between two wallets.
type SendMsg struct {
	Metadata    *weave.Metadata `json:"metadata"`
	Source      weave.Address   `json:"source"`
	Destination weave.Address   `json:"destination"`
	Amount      *coin.Coin      `json:"amount"`
	Memo        string          `json:"memo,omitempty"`
}

var _ weave.Msg = (*SendMsg)(nil)

func (SendMsg) Path() string {
	return pathSendMsg
}

func (m *SendMsg) Marshal() ([]byte, error) {
	return codec.Marshal(m)
}

func (m *SendMsg) Unmarshal(bz []byte) error {
	return codec.Unmarshal(bz, m)
}

func (m *SendMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if m.Amount == nil || !m.Amount.IsPositive() {
		return errors.Wrap(errors.ErrInvalidAmount, "non positive amount")
	}
	if err := m.Amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if err := m.Source.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if len(m.Memo) > maxMemoSize {
		return errors.Wrap(errors.ErrInvalidMsg, "memo too long")
	}
	return nil
}
