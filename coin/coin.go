package coin

import (
	"fmt"
	"regexp"

	"github.com/iov-one/custodian/errors"
)

// IsCC checks if the given string is a valid currency code, between 3 and 4
// uppercase letters.
var IsCC = regexp.MustCompile(`^[A-Z]{3,4}$`).MatchString

// Coin is an amount of a given currency. The amount is kept in the smallest
// indivisible unit of the asset, there is no fractional part.
type Coin struct {
	// Ticker is the currency code.
	Ticker string `json:"ticker"`
	// Amount is a whole number of tokens.
	Amount int64 `json:"amount"`
}

// NewCoin creates a coin instance.
func NewCoin(ticker string, amount int64) Coin {
	return Coin{
		Ticker: ticker,
		Amount: amount,
	}
}

// Validate ensures the coin is well formed.
func (c Coin) Validate() error {
	if !IsCC(c.Ticker) {
		return errors.Wrapf(errors.ErrInput, "invalid currency: %s", c.Ticker)
	}
	return nil
}

// IsZero returns true if the amount is zero.
func (c Coin) IsZero() bool {
	return c.Amount == 0
}

// IsPositive returns true if the amount is greater than zero.
func (c Coin) IsPositive() bool {
	return c.Amount > 0
}

// IsNonNegative returns true if the amount is zero or greater.
func (c Coin) IsNonNegative() bool {
	return c.Amount >= 0
}

// SameType returns true if both coins use the same ticker.
func (c Coin) SameType(o Coin) bool {
	return c.Ticker == o.Ticker
}

// Equals returns true if both coins are identical.
func (c Coin) Equals(o Coin) bool {
	return c.Ticker == o.Ticker && c.Amount == o.Amount
}

// Add combines two coins of the same currency. It returns an error on a
// ticker mismatch or if the sum would overflow int64.
func (c Coin) Add(o Coin) (Coin, error) {
	if !c.SameType(o) {
		err := errors.Wrapf(errors.ErrInput, "adding %s to %s", o.Ticker, c.Ticker)
		return Coin{}, err
	}
	sum := c.Amount + o.Amount
	if (o.Amount > 0 && sum < c.Amount) || (o.Amount < 0 && sum > c.Amount) {
		return Coin{}, errors.Wrap(errors.ErrOverflow, "amount")
	}
	c.Amount = sum
	return c, nil
}

// Subtract removes the other amount from this one. It can return a coin with
// a negative amount, the caller decides if that is acceptable.
func (c Coin) Subtract(o Coin) (Coin, error) {
	return c.Add(o.Negative())
}

// Negative returns the same coin with the opposite amount sign.
func (c Coin) Negative() Coin {
	return Coin{
		Ticker: c.Ticker,
		Amount: -c.Amount,
	}
}

func (c Coin) String() string {
	return fmt.Sprintf("%d %s", c.Amount, c.Ticker)
}
