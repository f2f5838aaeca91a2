package escrow

import (
	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/codec"
	"github.com/iov-one/weave-swap/coin"
	"github.com/iov-one/weave-swap/errors"
)

func init() {
	codec.RegisterMsg(&CreateMsg{}, "escrow/CreateMsg")
	codec.RegisterMsg(&CancelMsg{}, "escrow/CancelMsg")
	codec.RegisterMsg(&ExchangeMsg{}, "escrow/ExchangeMsg")
}

const (
	pathCreateMsg   = "escrow/create"
	pathCancelMsg   = "escrow/cancel"
	pathExchangeMsg = "escrow/exchange"
)

// CreateMsg opens an escrow for the main signer of the transaction.
type CreateMsg struct {
	Metadata *weave.Metadata `json:"metadata"`
	// Source defaults to the initializer.
	Source weave.Address `json:"source,omitempty"`
	// Receive defaults to Source.
	Receive  weave.Address `json:"receive,omitempty"`
	Deposit  *coin.Coin    `json:"deposit"`
	Expected *coin.Coin    `json:"expected"`
	Seed     uint64        `json:"seed"`
}

var _ weave.Msg = (*CreateMsg)(nil)

func (CreateMsg) Path() string { return pathCreateMsg }

func (m *CreateMsg) Marshal() ([]byte, error) { return codec.Marshal(m) }

func (m *CreateMsg) Unmarshal(bz []byte) error { return codec.Unmarshal(bz, m) }

func (m *CreateMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := validateAmount("deposit", m.Deposit); err != nil {
		return err
	}
	if err := validateAmount("expected", m.Expected); err != nil {
		return err
	}
	if err := validateOptional("source", m.Source); err != nil {
		return err
	}
	return validateOptional("receive", m.Receive)
}

// CancelMsg returns the deposit of an open escrow to its source account.
type CancelMsg struct {
	Metadata *weave.Metadata `json:"metadata"`
	Escrow   weave.Address   `json:"escrow"`
}

var _ weave.Msg = (*CancelMsg)(nil)

func (CancelMsg) Path() string { return pathCancelMsg }

func (m *CancelMsg) Marshal() ([]byte, error) { return codec.Marshal(m) }

func (m *CancelMsg) Unmarshal(bz []byte) error { return codec.Unmarshal(bz, m) }

func (m *CancelMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	return errors.Wrap(m.Escrow.Validate(), "escrow")
}

// ExchangeMsg swaps the deposit of an escrow for its expected counter
// amount. The taker is the main signer of the transaction.
type ExchangeMsg struct {
	Metadata *weave.Metadata `json:"metadata"`
	Escrow   weave.Address   `json:"escrow"`
	// Source pays the expected counter amount. Defaults to the taker.
	Source weave.Address `json:"source,omitempty"`
	// Destination receives the deposit. Defaults to Source.
	Destination weave.Address `json:"destination,omitempty"`
}

var _ weave.Msg = (*ExchangeMsg)(nil)

func (ExchangeMsg) Path() string { return pathExchangeMsg }

func (m *ExchangeMsg) Marshal() ([]byte, error) { return codec.Marshal(m) }

func (m *ExchangeMsg) Unmarshal(bz []byte) error { return codec.Unmarshal(bz, m) }

func (m *ExchangeMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := m.Escrow.Validate(); err != nil {
		return errors.Wrap(err, "escrow")
	}
	if err := validateOptional("source", m.Source); err != nil {
		return err
	}
	return validateOptional("destination", m.Destination)
}

func validateAmount(name string, c *coin.Coin) error {
	if c == nil || !c.IsPositive() {
		return errors.Wrapf(errors.ErrInvalidAmount, "%s must be positive", name)
	}
	return errors.Wrap(c.Validate(), name)
}

func validateOptional(name string, a weave.Address) error {
	if len(a) == 0 {
		return nil
	}
	return errors.Wrap(a.Validate(), name)
}
