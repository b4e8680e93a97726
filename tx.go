package custodian

import (
	"reflect"

	"github.com/iov-one/custodian/errors"
)

// Msg is a request processed by the engine within a single call.
// Each operation of the wallet is expressed as one message kind.
type Msg interface {
	Persistent

	// Path returns the routing path for this message, in the form
	// "extension/operation".
	Path() string

	// Validate performs a sanity check that does not require any
	// state access. Stateful checks belong to the handlers.
	Validate() error
}

// Tx represents the envelope the host hands to the engine. It carries
// exactly one message.
type Tx interface {
	Persistent

	// GetMsg returns the action we wish to communicate
	GetMsg() (Msg, error)
}

// LoadMsg extracts the message from the transaction and loads it into the
// given destination. The message is validated before it is returned.
func LoadMsg(tx Tx, destination Msg) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get message")
	}
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}

	dval := reflect.ValueOf(destination)
	if dval.Kind() != reflect.Ptr {
		return errors.Wrapf(errors.ErrType, "destination must be a pointer, got %T", destination)
	}
	mval := reflect.ValueOf(msg)
	if mval.Type() != dval.Type() {
		return errors.Wrapf(errors.ErrType, "want %T, got %T", destination, msg)
	}
	dval.Elem().Set(mval.Elem())
	return nil
}
