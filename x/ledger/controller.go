package ledger

import (
	"github.com/iov-one/custodian"
	"github.com/iov-one/custodian/coin"
	"github.com/iov-one/custodian/errors"
	"github.com/iov-one/custodian/orm"
)

// CoinMover is the interface that the wallet extension depends on to settle
// an executed transfer.
type CoinMover interface {
	// MoveCoins removes funds from the source account and adds them to
	// the destination account.
	MoveCoins(db custodian.KVStore, src, dest custodian.Address, amount coin.Coin) error
}

// Controller is the functional core of the ledger. It exposes balance
// manipulation on top of the account bucket.
type Controller struct {
	bucket orm.ModelBucket
}

var _ CoinMover = Controller{}

// NewController returns a controller using the default account bucket.
func NewController() Controller {
	return Controller{bucket: NewBucket()}
}

// MoveCoins transfers funds between two accounts. It fails if the source
// does not exist or does not hold a sufficient balance.
func (c Controller) MoveCoins(db custodian.KVStore, src, dest custodian.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "must be positive: %s", amount)
	}
	if err := src.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}

	sender, err := loadAccount(c.bucket, db, src)
	if err != nil {
		return err
	}
	if sender.IsEmpty() {
		return errors.Wrapf(ErrNoAccount, "source %s", src)
	}
	if err := sender.Subtract(amount); err != nil {
		return err
	}
	if err := saveAccount(c.bucket, db, src, sender); err != nil {
		return err
	}

	recipient, err := loadAccount(c.bucket, db, dest)
	if err != nil {
		return err
	}
	if err := recipient.Add(amount); err != nil {
		return err
	}
	return saveAccount(c.bucket, db, dest, recipient)
}

// IssueCoins attempts to add the given amount of coins to the destination
// address. There is no source account, funds are minted. Use a negative
// amount to burn.
func (c Controller) IssueCoins(db custodian.KVStore, dest custodian.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	acct, err := loadAccount(c.bucket, db, dest)
	if err != nil {
		return err
	}
	if err := acct.Add(amount); err != nil {
		return err
	}
	return saveAccount(c.bucket, db, dest, acct)
}

// Balance returns all coins held by given address.
func (c Controller) Balance(db custodian.ReadOnlyKVStore, addr custodian.Address) ([]coin.Coin, error) {
	acct, err := loadAccount(c.bucket, db, addr)
	if err != nil {
		return nil, err
	}
	return acct.Coins, nil
}
