package wallet

import (
	"encoding/binary"

	"github.com/iov-one/custodian"
	"github.com/iov-one/custodian/errors"
	"github.com/iov-one/custodian/orm"
)

// singletonKey addresses the one instance held by singleton buckets.
var singletonKey = []byte("wallet")

// walletStore bundles all buckets of this extension.
type walletStore struct {
	state   orm.ModelBucket
	config  orm.ModelBucket
	signers orm.ModelBucket
	txs     orm.ModelBucket
	batches orm.ModelBucket
	spends  orm.ModelBucket
	nonces  orm.ModelBucket
	freeze  orm.ModelBucket
	queue   orm.ModelBucket

	// txSeq numbers proposals in arrival order. The content-derived id
	// identifies a transaction, the sequence orders it for operators.
	txSeq orm.Sequence
}

func newWalletStore() walletStore {
	return walletStore{
		state:   orm.NewModelBucket("state", &State{}),
		config:  orm.NewModelBucket("conf", &Config{}),
		signers: orm.NewModelBucket("signers", &SignerList{}),
		txs:     orm.NewModelBucket("txs", &Transaction{}),
		batches: orm.NewModelBucket("batch", &Batch{}),
		spends:  orm.NewModelBucket("spend", &DailySpending{}),
		nonces:  orm.NewModelBucket("nonce", &NonceRecord{}),
		freeze:  orm.NewModelBucket("freeze", &FreezeState{}),
		queue:   orm.NewModelBucket("queue", &TimelockQueue{}),
		txSeq:   orm.NewSequence("txs", "seq"),
	}
}

// loadState returns the singleton state. A missing record means the wallet
// was never initialized.
func (w walletStore) loadState(db custodian.ReadOnlyKVStore) (*State, error) {
	var s State
	if err := w.state.One(db, singletonKey, &s); err != nil {
		return nil, errors.Wrap(err, "state")
	}
	return &s, nil
}

func (w walletStore) saveState(db custodian.KVStore, s *State) error {
	return w.state.Put(db, singletonKey, s)
}

func (w walletStore) loadConfig(db custodian.ReadOnlyKVStore) (*Config, error) {
	var c Config
	if err := w.config.One(db, singletonKey, &c); err != nil {
		return nil, errors.Wrap(err, "config")
	}
	return &c, nil
}

func (w walletStore) saveConfig(db custodian.KVStore, c *Config) error {
	return w.config.Put(db, singletonKey, c)
}

func (w walletStore) loadSigners(db custodian.ReadOnlyKVStore) (*SignerList, error) {
	var l SignerList
	if err := w.signers.One(db, singletonKey, &l); err != nil {
		return nil, errors.Wrap(err, "signers")
	}
	return &l, nil
}

func (w walletStore) saveSigners(db custodian.KVStore, l *SignerList) error {
	return w.signers.Put(db, singletonKey, l)
}

// loadFreeze synthesizes a thawed record when none was stored yet.
func (w walletStore) loadFreeze(db custodian.ReadOnlyKVStore) (*FreezeState, error) {
	var f FreezeState
	switch err := w.freeze.One(db, singletonKey, &f); {
	case err == nil:
		return &f, nil
	case errors.ErrNotFound.Is(err):
		return &FreezeState{}, nil
	default:
		return nil, errors.Wrap(err, "freeze")
	}
}

func (w walletStore) saveFreeze(db custodian.KVStore, f *FreezeState) error {
	return w.freeze.Put(db, singletonKey, f)
}

// loadQueue synthesizes an empty queue when none was stored yet.
func (w walletStore) loadQueue(db custodian.ReadOnlyKVStore) (*TimelockQueue, error) {
	var q TimelockQueue
	switch err := w.queue.One(db, singletonKey, &q); {
	case err == nil:
		return &q, nil
	case errors.ErrNotFound.Is(err):
		return &TimelockQueue{}, nil
	default:
		return nil, errors.Wrap(err, "queue")
	}
}

func (w walletStore) saveQueue(db custodian.KVStore, q *TimelockQueue) error {
	return w.queue.Put(db, singletonKey, q)
}

// spendKey builds the daily spending key for the day containing t.
func spendKey(day custodian.UnixTime) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(day))
	return key
}

// custodyCondition guards the pooled funds of the wallet.
var custodyCondition = custodian.NewCondition("wallet", "custody", []byte("pool"))

// CustodyAddress is the ledger address that holds the pooled funds.
func CustodyAddress() custodian.Address {
	return custodyCondition.Address()
}
