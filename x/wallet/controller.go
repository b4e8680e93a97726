package wallet

import (
	"bytes"
	"encoding/binary"

	"golang.org/x/crypto/blake2b"

	"github.com/iov-one/custodian"
	"github.com/iov-one/custodian/errors"
)

// idLength is the size of transaction and batch identifiers.
const idLength = blake2b.Size256

// secondsPerDay slices time into UTC days for the spending limiter.
const secondsPerDay = 24 * 60 * 60

// transactionID derives a unique identifier for a proposed transfer. The
// proposer nonce makes the input unique even for identical transfers.
func transactionID(m *ProposeTxMsg, proposer custodian.Address, now custodian.UnixTime) []byte {
	var buf bytes.Buffer
	buf.Write(m.Destination)
	buf.WriteString(m.Amount.Ticker)
	writeInt64(&buf, m.Amount.Amount)
	buf.Write(proposer)
	writeUint64(&buf, m.Nonce)
	writeInt64(&buf, int64(now))
	sum := blake2b.Sum256(buf.Bytes())
	return sum[:]
}

// batchID derives a unique identifier for a batch over its member ids.
func batchID(m *ProposeBatchMsg, proposer custodian.Address, now custodian.UnixTime) []byte {
	var buf bytes.Buffer
	for _, id := range m.TransactionIDs {
		buf.Write(id)
	}
	buf.Write(proposer)
	writeUint64(&buf, m.Nonce)
	writeInt64(&buf, int64(now))
	sum := blake2b.Sum256(buf.Bytes())
	return sum[:]
}

func writeInt64(buf *bytes.Buffer, v int64) {
	writeUint64(buf, uint64(v))
}

func writeUint64(buf *bytes.Buffer, v uint64) {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, v)
	buf.Write(raw)
}

// consumeNonce enforces strictly increasing nonces per identity. The very
// first nonce of an identity is accepted regardless of its value.
func (w walletStore) consumeNonce(db custodian.KVStore, identity custodian.Address, nonce uint64) error {
	var rec NonceRecord
	switch err := w.nonces.One(db, identity, &rec); {
	case err == nil:
		if nonce <= rec.LastUsed {
			return errors.Wrapf(ErrNonceUsed, "nonce %d, last used %d", nonce, rec.LastUsed)
		}
	case errors.ErrNotFound.Is(err):
		// first use, accept any value
	default:
		return errors.Wrap(err, "nonce")
	}
	rec.LastUsed = nonce
	return w.nonces.Put(db, identity, &rec)
}

// activeSigner resolves the first authenticated condition to an active
// signer of the registry.
func activeSigner(signers *SignerList, addr custodian.Address) (*Signer, error) {
	if addr == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no authenticated identity")
	}
	s := signers.Get(addr)
	if s == nil {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "%s is not a signer", addr)
	}
	if !s.Active {
		return nil, errors.Wrapf(ErrSignerNotActive, "%s", addr)
	}
	return s, nil
}

// signatureWeight sums the weight of the given signatures. Only signers that
// are active in the registry at the time of the call contribute, a removed
// or deactivated signer loses its voting power retroactively.
func signatureWeight(signatures []custodian.Address, signers *SignerList) uint64 {
	var total uint64
	for _, addr := range signatures {
		total += uint64(signers.WeightOf(addr))
	}
	return total
}

// dayOf truncates the given time to the start of its UTC day.
func dayOf(t custodian.UnixTime) custodian.UnixTime {
	return (t / secondsPerDay) * secondsPerDay
}

// loadDailySpending returns the spending record for the day containing now.
// An absent record is synthesized with zero spent and the current configured
// limit.
func (w walletStore) loadDailySpending(db custodian.ReadOnlyKVStore, cfg *Config, now custodian.UnixTime) (*DailySpending, error) {
	day := dayOf(now)
	var rec DailySpending
	switch err := w.spends.One(db, spendKey(day), &rec); {
	case err == nil:
		return &rec, nil
	case errors.ErrNotFound.Is(err):
		return &DailySpending{Day: day, Spent: 0, Limit: cfg.DailySpendingLimit}, nil
	default:
		return nil, errors.Wrap(err, "daily spending")
	}
}

// checkDailySpending fails when executing the amount would push the current
// day over its limit. The limit of an already started day is the snapshot
// taken at its first commit, not the live configuration.
func (w walletStore) checkDailySpending(db custodian.ReadOnlyKVStore, cfg *Config, now custodian.UnixTime, amount int64) error {
	rec, err := w.loadDailySpending(db, cfg, now)
	if err != nil {
		return err
	}
	spent := rec.Spent + amount
	if spent < rec.Spent {
		return errors.Wrap(errors.ErrOverflow, "daily spending")
	}
	if spent > rec.Limit {
		return errors.Wrapf(ErrSpendingLimit, "%d spent, %d requested, %d limit", rec.Spent, amount, rec.Limit)
	}
	return nil
}

// commitDailySpending adds the executed amount to the current day's record.
func (w walletStore) commitDailySpending(db custodian.KVStore, cfg *Config, now custodian.UnixTime, amount int64) error {
	rec, err := w.loadDailySpending(db, cfg, now)
	if err != nil {
		return err
	}
	rec.Spent += amount
	return w.spends.Put(db, spendKey(rec.Day), rec)
}

// queueAdd appends a timelocked transaction to the pending list.
func (w walletStore) queueAdd(db custodian.KVStore, id []byte) error {
	q, err := w.loadQueue(db)
	if err != nil {
		return err
	}
	q.Pending = append(q.Pending, id)
	return w.saveQueue(db, q)
}

// queueMarkExecuted moves an id from the pending to the executed list. A
// transaction that was never queued is left alone.
func (w walletStore) queueMarkExecuted(db custodian.KVStore, id []byte) error {
	q, err := w.loadQueue(db)
	if err != nil {
		return err
	}
	for i, pending := range q.Pending {
		if !bytes.Equal(pending, id) {
			continue
		}
		q.Pending = append(q.Pending[:i], q.Pending[i+1:]...)
		q.Executed = append(q.Executed, id)
		return w.saveQueue(db, q)
	}
	return nil
}
