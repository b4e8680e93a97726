package ledger

import (
	"github.com/iov-one/custodian/coin"
	"github.com/iov-one/custodian/errors"
)

// Account holds the balances of a single address. Coins are kept normalized,
// at most one entry per ticker and never a zero amount.
type Account struct {
	Coins []coin.Coin `json:"coins"`
}

func (a *Account) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(a)
}

func (a *Account) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, a)
}

func (a *Account) Validate() error {
	seen := make(map[string]bool, len(a.Coins))
	for _, c := range a.Coins {
		if err := c.Validate(); err != nil {
			return err
		}
		if !c.IsPositive() {
			return errors.Wrapf(errors.ErrAmount, "%s balance not positive", c.Ticker)
		}
		if seen[c.Ticker] {
			return errors.Wrapf(errors.ErrDuplicate, "ticker %s", c.Ticker)
		}
		seen[c.Ticker] = true
	}
	return nil
}

// Balance returns the held amount of given currency. A currency that is not
// held reports a zero balance.
func (a *Account) Balance(ticker string) coin.Coin {
	for _, c := range a.Coins {
		if c.Ticker == ticker {
			return c
		}
	}
	return coin.NewCoin(ticker, 0)
}

// Add modifies the balance by the given coin amount. The amount may be
// negative. It is an error to bring any balance below zero.
func (a *Account) Add(c coin.Coin) error {
	if err := c.Validate(); err != nil {
		return err
	}
	for i, held := range a.Coins {
		if held.Ticker != c.Ticker {
			continue
		}
		sum, err := held.Add(c)
		if err != nil {
			return err
		}
		switch {
		case sum.IsZero():
			a.Coins = append(a.Coins[:i], a.Coins[i+1:]...)
		case !sum.IsPositive():
			return errors.Wrapf(ErrInsufficientFunds, "%s", held)
		default:
			a.Coins[i] = sum
		}
		return nil
	}

	// no balance held in this currency yet
	if c.IsZero() {
		return nil
	}
	if !c.IsPositive() {
		return errors.Wrapf(ErrInsufficientFunds, "no %s balance", c.Ticker)
	}
	a.Coins = append(a.Coins, c)
	return nil
}

// Subtract removes the given amount from the balance.
func (a *Account) Subtract(c coin.Coin) error {
	return a.Add(c.Negative())
}

// IsEmpty returns true if no balance is held at all.
func (a *Account) IsEmpty() bool {
	return len(a.Coins) == 0
}
