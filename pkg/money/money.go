// Package money handles currency amounts as fixed-point decimals. Amounts
// enter the system as decimal strings and leave it as decimal strings with
// exactly two digits after the point; binary floats are never involved.
package money

import (
	"errors"
	"regexp"

	"github.com/shopspring/decimal"
)

var priceRe = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

var ErrInvalidAmount = errors.New("invalid decimal amount")

// Amount is an exact decimal amount of money in an unspecified currency.
type Amount struct {
	dec decimal.Decimal
}

// Zero returns the zero amount.
func Zero() Amount {
	return Amount{dec: decimal.Zero}
}

// Parse builds an Amount from a non-negative decimal string such as "5.50".
// The input must match ^[0-9]+(\.[0-9]+)?$; anything else, including signs,
// exponents and empty strings, is rejected.
func Parse(s string) (Amount, error) {
	if !priceRe.MatchString(s) {
		return Amount{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, ErrInvalidAmount
	}
	return Amount{dec: d}, nil
}

// Add returns a + b, exact.
func (a Amount) Add(b Amount) Amount {
	return Amount{dec: a.dec.Add(b.dec)}
}

// MulInt returns a multiplied by an integer quantity, exact.
func (a Amount) MulInt(n int) Amount {
	return Amount{dec: a.dec.Mul(decimal.NewFromInt(int64(n)))}
}

// String renders the amount rounded to two decimal places. Rounding happens
// only here; intermediate arithmetic keeps full precision.
func (a Amount) String() string {
	return a.dec.StringFixed(2)
}

// Line is one priced cart position.
type Line struct {
	Price Amount
	Count int
}

// Total sums price×count over all lines plus the delivery price. The result
// is exact; callers round once when rendering.
func Total(lines []Line, delivery Amount) Amount {
	total := Zero()
	for _, l := range lines {
		total = total.Add(l.Price.MulInt(l.Count))
	}
	return total.Add(delivery)
}
