package custodiantest

import (
	"crypto/rand"
	"fmt"

	"github.com/iov-one/custodian"
)

// NewCondition returns a new, random condition.
func NewCondition() custodian.Condition {
	data := make([]byte, 32)
	if _, err := rand.Read(data); err != nil {
		panic(err)
	}
	return custodian.NewCondition("test", "rand", data)
}

// NewKey returns a deterministic condition, unique per name. Use it when a
// test needs a stable identity across runs.
func NewKey(name string) custodian.Condition {
	return custodian.NewCondition("test", "key", []byte(name))
}

// SequenceID returns an 8 byte, big endian encoded ID as used by sequence
// counters.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = byte(n)
		n >>= 8
	}
	return b
}

// Helpers for messages that are expected to be valid. Panics on failure so
// that a broken fixture fails loudly.
func MustValidate(msg custodian.Msg) custodian.Msg {
	if err := msg.Validate(); err != nil {
		panic(fmt.Sprintf("invalid fixture message %T: %s", msg, err))
	}
	return msg
}
