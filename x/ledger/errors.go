package ledger

import (
	"github.com/iov-one/custodian/errors"
)

var (
	// ErrNoAccount is returned when the source account does not exist.
	ErrNoAccount = errors.Register(1200, "account does not exist")

	// ErrInsufficientFunds is returned when the source account does not
	// hold enough of the moved currency.
	ErrInsufficientFunds = errors.Register(1201, "insufficient funds")
)
