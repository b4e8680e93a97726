package wallet

import (
	"github.com/iov-one/custodian"
	"github.com/iov-one/custodian/errors"
)

// Read accessors. These are plain functions over the bucket layout, meant
// for host queries and tests.

// GetConfig returns the current configuration.
func GetConfig(db custodian.ReadOnlyKVStore) (*Config, error) {
	return newWalletStore().loadConfig(db)
}

// GetState returns the administrative state.
func GetState(db custodian.ReadOnlyKVStore) (*State, error) {
	return newWalletStore().loadState(db)
}

// GetVersion returns the schema version of the wallet state.
func GetVersion(db custodian.ReadOnlyKVStore) (uint32, error) {
	state, err := newWalletStore().loadState(db)
	if err != nil {
		return 0, err
	}
	return state.Version, nil
}

// GetSigners returns the full signer registry.
func GetSigners(db custodian.ReadOnlyKVStore) (*SignerList, error) {
	return newWalletStore().loadSigners(db)
}

// GetTransaction returns the transaction with given id.
func GetTransaction(db custodian.ReadOnlyKVStore, id []byte) (*Transaction, error) {
	var trans Transaction
	if err := newWalletStore().txs.One(db, id, &trans); err != nil {
		return nil, errors.Wrap(err, "transaction")
	}
	return &trans, nil
}

// GetBatch returns the batch with given id.
func GetBatch(db custodian.ReadOnlyKVStore, id []byte) (*Batch, error) {
	var batch Batch
	if err := newWalletStore().batches.One(db, id, &batch); err != nil {
		return nil, errors.Wrap(err, "batch")
	}
	return &batch, nil
}

// GetDailySpending returns the spending record for the day containing now.
// A day without any executed transfer reports zero spent against the
// current configured limit.
func GetDailySpending(db custodian.ReadOnlyKVStore, now custodian.UnixTime) (*DailySpending, error) {
	bucket := newWalletStore()
	cfg, err := bucket.loadConfig(db)
	if err != nil {
		return nil, err
	}
	return bucket.loadDailySpending(db, cfg, now)
}

// GetFreeze returns the freeze state. A never frozen wallet reports a zero
// value record.
func GetFreeze(db custodian.ReadOnlyKVStore) (*FreezeState, error) {
	return newWalletStore().loadFreeze(db)
}

// QueueView splits the timelock queue's pending entries into those whose
// timelock has passed at the given time and those still locked.
func QueueView(db custodian.ReadOnlyKVStore, now custodian.UnixTime) (ready, pending [][]byte, err error) {
	bucket := newWalletStore()
	q, err := bucket.loadQueue(db)
	if err != nil {
		return nil, nil, err
	}
	for _, id := range q.Pending {
		var trans Transaction
		if err := bucket.txs.One(db, id, &trans); err != nil {
			return nil, nil, errors.Wrapf(err, "queued %X", id)
		}
		if trans.TimelockUntil <= now {
			ready = append(ready, id)
		} else {
			pending = append(pending, id)
		}
	}
	return ready, pending, nil
}
