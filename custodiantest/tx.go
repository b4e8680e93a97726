package custodiantest

import (
	"github.com/iov-one/custodian"
	"github.com/iov-one/custodian/errors"
)

// Tx is a mock implementing Tx interface.
type Tx struct {
	// Msg is a message that this transaction is carrying.
	Msg custodian.Msg

	// Err if set is returned by any method call.
	Err error
}

var _ custodian.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (custodian.Msg, error) {
	if tx.Err != nil {
		return nil, tx.Err
	}
	return tx.Msg, nil
}

func (tx *Tx) Marshal() ([]byte, error) {
	if tx.Err != nil {
		return nil, tx.Err
	}
	if tx.Msg == nil {
		return nil, nil
	}
	raw, err := tx.Msg.Marshal()
	return raw, errors.Wrap(err, "cannot marshal message")
}

func (tx *Tx) Unmarshal(raw []byte) error {
	if tx.Err != nil {
		return tx.Err
	}
	if tx.Msg == nil {
		return errors.Wrap(errors.ErrState, "no message to unmarshal into")
	}
	return tx.Msg.Unmarshal(raw)
}
