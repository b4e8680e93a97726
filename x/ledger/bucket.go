package ledger

import (
	"github.com/iov-one/custodian"
	"github.com/iov-one/custodian/errors"
	"github.com/iov-one/custodian/orm"
)

// BucketName is where the account models are stored.
const BucketName = "acct"

// NewBucket returns a bucket holding Account instances, keyed by the account
// address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Account{})
}

// loadAccount fetches the account for given address. A missing account is
// returned as an empty one, holding nothing.
func loadAccount(bucket orm.ModelBucket, db custodian.ReadOnlyKVStore, addr custodian.Address) (*Account, error) {
	var acct Account
	switch err := bucket.One(db, addr, &acct); {
	case err == nil:
		return &acct, nil
	case errors.ErrNotFound.Is(err):
		return &Account{}, nil
	default:
		return nil, err
	}
}

// saveAccount persists the account, removing the record if it is empty.
func saveAccount(bucket orm.ModelBucket, db custodian.KVStore, addr custodian.Address, acct *Account) error {
	if acct.IsEmpty() {
		switch err := bucket.Delete(db, addr); {
		case err == nil, errors.ErrNotFound.Is(err):
			return nil
		default:
			return err
		}
	}
	return bucket.Put(db, addr, acct)
}
