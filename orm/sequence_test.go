package orm

import (
	"bytes"
	"testing"

	"github.com/iov-one/custodian/store"
)

func TestSequence(t *testing.T) {
	db := store.MemStore()

	s := NewSequence("txs", "id")

	if val, _ := s.Latest(db); val != 0 {
		t.Fatalf("fresh sequence must start at zero, got %d", val)
	}

	var prev []byte
	for i := int64(1); i < 10; i++ {
		bz := s.NextVal(db)
		if DecodeSequence(bz) != i {
			t.Fatalf("want %d, got %d", i, DecodeSequence(bz))
		}
		if bytes.Compare(prev, bz) >= 0 {
			t.Fatal("keys must be strictly increasing")
		}
		prev = bz
	}

	if val := s.NextInt(db); val != 10 {
		t.Fatalf("want 10, got %d", val)
	}
	if val, raw := s.Latest(db); val != 10 || DecodeSequence(raw) != 10 {
		t.Fatalf("latest must not advance the counter, got %d", val)
	}

	// a different name is an independent counter
	other := NewSequence("txs", "other")
	if val := other.NextInt(db); val != 1 {
		t.Fatalf("independent sequence must start at one, got %d", val)
	}
}
