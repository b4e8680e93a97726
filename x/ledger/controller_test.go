package ledger

import (
	"testing"

	"github.com/iov-one/custodian/coin"
	"github.com/iov-one/custodian/custodiantest"
	"github.com/iov-one/custodian/custodiantest/assert"
	"github.com/iov-one/custodian/errors"
	"github.com/iov-one/custodian/store"
)

func TestIssueAndBalance(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	addr := custodiantest.NewKey("alice").Address()

	coins, err := ctrl.Balance(db, addr)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(coins))

	assert.Nil(t, ctrl.IssueCoins(db, addr, coin.NewCoin("IOV", 100)))
	coins, err = ctrl.Balance(db, addr)
	assert.Nil(t, err)
	assert.Equal(t, []coin.Coin{coin.NewCoin("IOV", 100)}, coins)

	// issuing more accumulates
	assert.Nil(t, ctrl.IssueCoins(db, addr, coin.NewCoin("IOV", 50)))
	coins, _ = ctrl.Balance(db, addr)
	assert.Equal(t, []coin.Coin{coin.NewCoin("IOV", 150)}, coins)

	// burning below zero is not possible
	err = ctrl.IssueCoins(db, addr, coin.NewCoin("IOV", -200))
	assert.IsErr(t, ErrInsufficientFunds, err)

	// burning the full balance removes the account record
	assert.Nil(t, ctrl.IssueCoins(db, addr, coin.NewCoin("IOV", -150)))
	coins, _ = ctrl.Balance(db, addr)
	assert.Equal(t, 0, len(coins))
}

func TestMoveCoins(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	alice := custodiantest.NewKey("alice").Address()
	bob := custodiantest.NewKey("bob").Address()

	assert.Nil(t, ctrl.IssueCoins(db, alice, coin.NewCoin("IOV", 100)))

	cases := map[string]struct {
		src, dest []byte
		amount    coin.Coin
		wantErr   *errors.Error
	}{
		"happy path": {
			src: alice, dest: bob,
			amount: coin.NewCoin("IOV", 40),
		},
		"source with no account": {
			src: bob, dest: alice,
			amount:  coin.NewCoin("BTC", 1),
			wantErr: ErrNoAccount,
		},
		"insufficient funds": {
			src: alice, dest: bob,
			amount:  coin.NewCoin("IOV", 1000),
			wantErr: ErrInsufficientFunds,
		},
		"wrong currency": {
			src: alice, dest: bob,
			amount:  coin.NewCoin("BTC", 10),
			wantErr: ErrInsufficientFunds,
		},
		"zero amount": {
			src: alice, dest: bob,
			amount:  coin.NewCoin("IOV", 0),
			wantErr: errors.ErrAmount,
		},
		"negative amount": {
			src: alice, dest: bob,
			amount:  coin.NewCoin("IOV", -5),
			wantErr: errors.ErrAmount,
		},
		"invalid ticker": {
			src: alice, dest: bob,
			amount:  coin.NewCoin("x", 5),
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			cache := db.CacheWrap()
			err := ctrl.MoveCoins(cache, tc.src, tc.dest, tc.amount)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)

			got, _ := ctrl.Balance(cache, tc.src)
			assert.Equal(t, []coin.Coin{coin.NewCoin("IOV", 60)}, got)
			got, _ = ctrl.Balance(cache, tc.dest)
			assert.Equal(t, []coin.Coin{coin.NewCoin("IOV", 40)}, got)
			cache.Discard()
		})
	}
}

func TestMoveAllRemovesAccount(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	alice := custodiantest.NewKey("alice").Address()
	bob := custodiantest.NewKey("bob").Address()

	assert.Nil(t, ctrl.IssueCoins(db, alice, coin.NewCoin("IOV", 10)))
	assert.Nil(t, ctrl.MoveCoins(db, alice, bob, coin.NewCoin("IOV", 10)))

	// drained account behaves like a missing one
	err := ctrl.MoveCoins(db, alice, bob, coin.NewCoin("IOV", 1))
	assert.IsErr(t, ErrNoAccount, err)
}

func TestAccountValidate(t *testing.T) {
	cases := map[string]struct {
		acct    Account
		wantErr *errors.Error
	}{
		"empty is valid": {
			acct: Account{},
		},
		"positive balances": {
			acct: Account{Coins: []coin.Coin{coin.NewCoin("IOV", 1), coin.NewCoin("BTC", 2)}},
		},
		"zero balance rejected": {
			acct:    Account{Coins: []coin.Coin{coin.NewCoin("IOV", 0)}},
			wantErr: errors.ErrAmount,
		},
		"duplicate ticker rejected": {
			acct:    Account{Coins: []coin.Coin{coin.NewCoin("IOV", 1), coin.NewCoin("IOV", 2)}},
			wantErr: errors.ErrDuplicate,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.acct.Validate()
			if tc.wantErr == nil {
				assert.Nil(t, err)
			} else {
				assert.IsErr(t, tc.wantErr, err)
			}
		})
	}
}
