package wallet

import (
	"testing"

	"github.com/iov-one/custodian"
	"github.com/iov-one/custodian/coin"
	"github.com/iov-one/custodian/custodiantest"
	"github.com/iov-one/custodian/custodiantest/assert"
	"github.com/iov-one/custodian/errors"
)

func TestConfigValidate(t *testing.T) {
	valid := Config{
		Threshold:               2,
		TotalSigners:            3,
		DailySpendingLimit:      1000,
		TimelockThreshold:       500,
		TimelockDuration:        3600,
		TransactionExpiry:       86400,
		MaxBatchSize:            10,
		EmergencyFreezeDuration: 7200,
	}

	cases := map[string]struct {
		mutate  func(*Config)
		wantErr *errors.Error
	}{
		"valid":                 {mutate: func(*Config) {}},
		"threshold of one":      {mutate: func(c *Config) { c.Threshold = 1 }},
		"threshold equals size": {mutate: func(c *Config) { c.Threshold = 3 }},
		"zero threshold": {
			mutate:  func(c *Config) { c.Threshold = 0 },
			wantErr: ErrInvalidConfig,
		},
		"threshold above size": {
			mutate:  func(c *Config) { c.Threshold = 4 },
			wantErr: ErrInvalidConfig,
		},
		"zero daily limit": {
			mutate:  func(c *Config) { c.DailySpendingLimit = 0 },
			wantErr: ErrInvalidConfig,
		},
		"negative daily limit": {
			mutate:  func(c *Config) { c.DailySpendingLimit = -5 },
			wantErr: ErrInvalidConfig,
		},
		"zero timelock threshold": {
			mutate:  func(c *Config) { c.TimelockThreshold = 0 },
			wantErr: ErrInvalidConfig,
		},
		"zero timelock duration": {
			mutate:  func(c *Config) { c.TimelockDuration = 0 },
			wantErr: ErrInvalidConfig,
		},
		"zero expiry": {
			mutate:  func(c *Config) { c.TransactionExpiry = 0 },
			wantErr: ErrInvalidConfig,
		},
		"zero batch size": {
			mutate:  func(c *Config) { c.MaxBatchSize = 0 },
			wantErr: ErrInvalidConfig,
		},
		"zero freeze duration": {
			mutate:  func(c *Config) { c.EmergencyFreezeDuration = 0 },
			wantErr: ErrInvalidConfig,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == nil {
				assert.Nil(t, err)
			} else {
				assert.IsErr(t, tc.wantErr, err)
			}
		})
	}
}

func TestSignerListHelpers(t *testing.T) {
	alice := custodiantest.NewKey("alice").Address()
	bob := custodiantest.NewKey("bob").Address()
	carol := custodiantest.NewKey("carol").Address()

	list := SignerList{Signers: []*Signer{
		{Address: alice, Role: RoleOwner, Weight: 1, Active: true},
		{Address: bob, Role: RoleTreasurer, Weight: 3, Active: true},
		{Address: carol, Role: RoleAuditor, Weight: 2, Active: false},
	}}

	assert.Nil(t, list.Validate())
	assert.Equal(t, 2, list.ActiveCount())
	assert.Equal(t, uint32(1), list.WeightOf(alice))
	assert.Equal(t, uint32(3), list.WeightOf(bob))
	// inactive signers have no weight
	assert.Equal(t, uint32(0), list.WeightOf(carol))
	// unknown addresses have no weight
	assert.Equal(t, uint32(0), list.WeightOf(custodiantest.NewKey("dave").Address()))

	if list.Get(bob) == nil {
		t.Fatal("registered signer not found")
	}
	if list.Get(custodiantest.NewKey("dave").Address()) != nil {
		t.Fatal("unknown signer found")
	}
}

func TestSignerListRejectsDuplicates(t *testing.T) {
	alice := custodiantest.NewKey("alice").Address()
	list := SignerList{Signers: []*Signer{
		{Address: alice, Role: RoleOwner, Weight: 1, Active: true},
		{Address: alice, Role: RoleAuditor, Weight: 2, Active: true},
	}}
	assert.IsErr(t, errors.ErrDuplicate, list.Validate())
}

func TestSignerWeightBounds(t *testing.T) {
	s := Signer{
		Address: custodiantest.NewKey("alice").Address(),
		Role:    RoleOwner,
		Weight:  0,
		Active:  true,
	}
	assert.IsErr(t, ErrInvalidSigner, s.Validate())

	s.Weight = 256
	assert.IsErr(t, ErrInvalidSigner, s.Validate())

	s.Weight = 255
	assert.Nil(t, s.Validate())
}

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		ID:          make([]byte, idLength),
		Destination: custodiantest.NewKey("merchant").Address(),
		Amount:      coin.NewCoin("IOV", 100),
		Proposer:    custodiantest.NewKey("alice").Address(),
		Status:      StatusProposed,
		CreatedAt:   1,
		ExpiresAt:   2,
	}
	assert.Nil(t, valid.Validate())

	badID := valid
	badID.ID = []byte("short")
	assert.IsErr(t, errors.ErrInput, badID.Validate())

	badAmount := valid
	badAmount.Amount = coin.NewCoin("IOV", 0)
	assert.IsErr(t, errors.ErrAmount, badAmount.Validate())

	badStatus := valid
	badStatus.Status = StatusInvalid
	assert.IsErr(t, errors.ErrState, badStatus.Validate())
}

func TestTransactionHasSigned(t *testing.T) {
	alice := custodiantest.NewKey("alice").Address()
	bob := custodiantest.NewKey("bob").Address()

	trans := Transaction{Signatures: []custodian.Address{alice}}
	assert.Equal(t, true, trans.HasSigned(alice))
	assert.Equal(t, false, trans.HasSigned(bob))
}

func TestStatusString(t *testing.T) {
	cases := map[Status]string{
		StatusInvalid:   "invalid",
		StatusProposed:  "proposed",
		StatusApproved:  "approved",
		StatusExecuted:  "executed",
		StatusRejected:  "rejected",
		StatusExpired:   "expired",
		StatusCancelled: "cancelled",
		Status(42):      "invalid",
	}
	for status, want := range cases {
		assert.Equal(t, want, status.String())
	}
}

func TestFreezeStateValidate(t *testing.T) {
	assert.Nil(t, (&FreezeState{}).Validate())
	assert.Nil(t, (&FreezeState{Frozen: true, UnfreezeAt: 100}).Validate())
	assert.IsErr(t, errors.ErrState, (&FreezeState{Frozen: true}).Validate())
}

func TestModelSerializationRoundTrip(t *testing.T) {
	trans := Transaction{
		ID:            make([]byte, idLength),
		Destination:   custodiantest.NewKey("merchant").Address(),
		Amount:        coin.NewCoin("IOV", 100),
		Payload:       []byte("invoice 7"),
		Proposer:      custodiantest.NewKey("alice").Address(),
		Signatures:    []custodian.Address{custodiantest.NewKey("alice").Address()},
		Status:        StatusProposed,
		CreatedAt:     1000,
		ExpiresAt:     2000,
		TimelockUntil: 1500,
	}

	raw, err := trans.Marshal()
	assert.Nil(t, err)
	var loaded Transaction
	assert.Nil(t, loaded.Unmarshal(raw))
	assert.Equal(t, trans, loaded)
}
