// Package codec holds the binary codec shared by every persisted model,
// message and transaction of the application.
//
// Messages are registered under their path so that a transaction can carry
// any of them in an interface field:
//
//	func init() {
//	    codec.RegisterMsg(&CreateMsg{}, "escrow/create")
//	}
package codec

import (
	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

func init() {
	cdc.RegisterInterface((*weave.Msg)(nil), nil)
}

// RegisterMsg registers a concrete message type. Call it from an init
// function only. Registering a name twice panics.
func RegisterMsg(msg weave.Msg, name string) {
	cdc.RegisterConcrete(msg, name, nil)
}

// Marshal serializes o. o must be a struct or a pointer to one.
func Marshal(o interface{}) ([]byte, error) {
	bz, err := cdc.MarshalBinaryBare(o)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidModel, "marshal %T: %s", o, err)
	}
	return bz, nil
}

// Unmarshal deserializes bz into the pointer ptr.
func Unmarshal(bz []byte, ptr interface{}) error {
	if err := cdc.UnmarshalBinaryBare(bz, ptr); err != nil {
		return errors.Wrapf(errors.ErrInvalidModel, "unmarshal %T: %s", ptr, err)
	}
	return nil
}

// MarshalJSON returns the amino JSON form of o, which includes the type
// name of registered interface implementations.
func MarshalJSON(o interface{}) ([]byte, error) {
	bz, err := cdc.MarshalJSON(o)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidModel, "marshal json %T: %s", o, err)
	}
	return bz, nil
}

// UnmarshalJSON is the inverse of MarshalJSON.
func UnmarshalJSON(bz []byte, ptr interface{}) error {
	if err := cdc.UnmarshalJSON(bz, ptr); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "unmarshal json %T: %s", ptr, err)
	}
	return nil
}
