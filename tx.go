package weave

import "github.com/iov-one/weave-swap/errors"

// Marshaller is anything that can be represented in binary.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent can be written to and read back from the store.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Msg is a request for a state transition. It carries no authentication,
// the signatures live in the wrapping Tx.
type Msg interface {
	Persistent

	// Path is used by the router to find the handler. It must be of the
	// form "<extension>/<action>".
	Path() string

	// Validate performs stateless checks of the message content.
	Validate() error
}

// Tx is what a user submits to the chain: a message together with whatever
// the decorators need to authenticate it.
type Tx interface {
	Persistent

	GetMsg() (Msg, error)
}

// TxDecoder parses bytes into a Tx.
type TxDecoder func(txBytes []byte) (Tx, error)

// GetPath returns the path of the message carried by the transaction, or
// "(missing)".
func GetPath(tx Tx) string {
	msg, err := tx.GetMsg()
	if err != nil || msg == nil {
		return "(missing)"
	}
	return msg.Path()
}

// GetMsgAs returns the message of the transaction after it was validated.
// It fails with ErrInvalidMsg when the message is of a different path than
// the one expected.
func GetMsgAs(tx Tx, path string) (Msg, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot get message")
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrInvalidMsg, "empty transaction")
	}
	if msg.Path() != path {
		return nil, errors.Wrapf(errors.ErrInvalidMsg, "want %q message, got %q", path, msg.Path())
	}
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid message")
	}
	return msg, nil
}
