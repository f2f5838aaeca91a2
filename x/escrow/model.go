package escrow

import (
	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/codec"
	"github.com/iov-one/weave-swap/coin"
	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/orm"
)

// BucketName is where the escrows are stored.
const BucketName = "esc"

// Status of an escrow. A cancelled escrow is deleted instead.
type Status int32

const (
	StatusOpen      Status = 1
	StatusCompleted Status = 2
)

func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusCompleted:
		return "completed"
	default:
		return "invalid"
	}
}

// Escrow is stored under its program derived address.
type Escrow struct {
	Metadata    *weave.Metadata `json:"metadata"`
	Initializer weave.Address   `json:"initializer"`
	// SourceAccount is the wallet the deposit came from. Refunds go back to
	// it.
	SourceAccount weave.Address `json:"source_account"`
	// ReceiveAccount is credited with the counter amount on exchange.
	ReceiveAccount  weave.Address  `json:"receive_account"`
	ExpectedCounter coin.Coin      `json:"expected_counter"`
	Seed            uint64         `json:"seed"`
	Status          Status         `json:"status"`
	CreatedAt       weave.UnixTime `json:"created_at"`
	// DerivationBump of the escrow address. The value is always within the
	// byte range.
	DerivationBump uint32 `json:"derivation_bump"`
}

var _ orm.Model = (*Escrow)(nil)

func (e *Escrow) Marshal() ([]byte, error) {
	return codec.Marshal(e)
}

func (e *Escrow) Unmarshal(bz []byte) error {
	return codec.Unmarshal(bz, e)
}

func (e *Escrow) Validate() error {
	if err := e.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := e.Initializer.Validate(); err != nil {
		return errors.Wrap(err, "initializer")
	}
	if err := e.SourceAccount.Validate(); err != nil {
		return errors.Wrap(err, "source account")
	}
	if err := e.ReceiveAccount.Validate(); err != nil {
		return errors.Wrap(err, "receive account")
	}
	if err := e.ExpectedCounter.Validate(); err != nil {
		return errors.Wrap(err, "expected counter")
	}
	if !e.ExpectedCounter.IsPositive() {
		return errors.Wrap(errors.ErrInvalidAmount, "expected counter must be positive")
	}
	if e.Status != StatusOpen && e.Status != StatusCompleted {
		return errors.Wrapf(errors.ErrInvalidState, "status %d", e.Status)
	}
	if err := e.CreatedAt.Validate(); err != nil {
		return errors.Wrap(err, "created at")
	}
	if e.DerivationBump > 255 {
		return errors.Wrapf(errors.ErrInvalidState, "bump %d", e.DerivationBump)
	}
	return nil
}

// Bucket stores escrows by address and indexes them by initializer.
type Bucket struct {
	orm.Bucket
}

func NewBucket() Bucket {
	b := orm.NewBucket(BucketName, &Escrow{}).
		WithIndex("initializer", initializerIndex, false)
	return Bucket{Bucket: b}
}

func initializerIndex(m orm.Model) ([]byte, error) {
	e, ok := m.(*Escrow)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidType, "%T", m)
	}
	return e.Initializer, nil
}

// RegisterQuery exposes "/escrows" and "/escrows/initializer".
func RegisterQuery(qr weave.QueryRouter) {
	NewBucket().Register("escrows", qr)
}
