package x

import (
	"context"
	"testing"

	"github.com/iov-one/custodian"
	"github.com/iov-one/custodian/custodiantest"
	"github.com/iov-one/custodian/custodiantest/assert"
)

func TestAuth(t *testing.T) {
	a := custodiantest.NewCondition()
	b := custodiantest.NewCondition()
	c := custodiantest.NewCondition()

	ctx := context.Background()

	cases := map[string]struct {
		auth    Authenticator
		mainSig custodian.Condition
		wantAll []custodian.Condition
		hasAll  []custodian.Condition
		notAll  []custodian.Condition
	}{
		"empty authenticator": {
			auth:   &custodiantest.Auth{},
			notAll: []custodian.Condition{b},
		},
		"signer a": {
			auth:    &custodiantest.Auth{Signer: a},
			mainSig: a,
			wantAll: []custodian.Condition{a},
			hasAll:  []custodian.Condition{a},
			notAll:  []custodian.Condition{a, b},
		},
		"chain of two": {
			auth: ChainAuth(
				&custodiantest.Auth{Signer: b},
				&custodiantest.Auth{Signer: a}),
			mainSig: b,
			wantAll: []custodian.Condition{b, a},
			hasAll:  []custodian.Condition{a, b},
			notAll:  []custodian.Condition{a, b, c},
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.mainSig, MainSigner(ctx, tc.auth))
			assert.Equal(t, tc.wantAll, tc.auth.GetConditions(ctx))

			if !HasAllConditions(ctx, tc.auth, tc.hasAll) {
				t.Fatal("expected conditions missing")
			}
			if len(tc.notAll) > 0 && HasAllConditions(ctx, tc.auth, tc.notAll) {
				t.Fatal("unexpected conditions present")
			}

			for _, cond := range tc.wantAll {
				if !tc.auth.HasAddress(ctx, cond.Address()) {
					t.Fatalf("missing address of %s", cond)
				}
			}
			if tc.auth.HasAddress(ctx, c.Address()) {
				t.Fatal("address of c must not authenticate")
			}
		})
	}
}

func TestHasNConditions(t *testing.T) {
	a := custodiantest.NewCondition()
	b := custodiantest.NewCondition()
	c := custodiantest.NewCondition()

	ctx := context.Background()
	auth := &custodiantest.Auth{Signers: []custodian.Condition{a, b}}

	if !HasNConditions(ctx, auth, []custodian.Condition{a, b, c}, 2) {
		t.Fatal("two of three are present")
	}
	if HasNConditions(ctx, auth, []custodian.Condition{a, b, c}, 3) {
		t.Fatal("only two of three are present")
	}
	// zero required is always satisfied
	if !HasNConditions(ctx, auth, nil, 0) {
		t.Fatal("empty requirement must pass")
	}
}

func TestGetAddresses(t *testing.T) {
	a := custodiantest.NewCondition()
	b := custodiantest.NewCondition()

	ctx := context.Background()
	auth := &custodiantest.Auth{Signers: []custodian.Condition{a, b}}

	addrs := GetAddresses(ctx, auth)
	assert.Equal(t, []custodian.Address{a.Address(), b.Address()}, addrs)
}
