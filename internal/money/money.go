// Package money provides fixed-precision currency amounts.
//
// Every amount carries exactly two fractional digits. Operations that can
// produce excess precision (unit price times quantity) round half-up back to
// two digits, so repeated arithmetic never accumulates binary drift.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

const scale = 2

// ErrInvalidAmount indicates a string that cannot be parsed as an amount.
var ErrInvalidAmount = errors.New("money: invalid amount")

// Amount is an immutable monetary value with two decimal places.
type Amount struct {
	d decimal.Decimal
}

// Zero is the zero amount.
var Zero = Amount{}

// Parse converts a decimal string ("12.50") into an Amount, rounding
// half-up when the input carries more than two fractional digits.
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return Amount{d: d.Round(scale)}, nil
}

// MustParse is Parse for literals in tests and seeds; it panics on error.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// FromCents builds an Amount from an integer number of cents.
func FromCents(cents int64) Amount {
	return Amount{d: decimal.New(cents, -scale)}
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return Amount{d: a.d.Add(b.d)}
}

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount {
	return Amount{d: a.d.Sub(b.d)}
}

// MulInt returns a × qty rounded half-up to two decimal places.
func (a Amount) MulInt(qty int) Amount {
	return Amount{d: a.d.Mul(decimal.NewFromInt(int64(qty))).Round(scale)}
}

// Cmp compares two amounts: -1 when a < b, 0 when equal, 1 when a > b.
func (a Amount) Cmp(b Amount) int {
	return a.d.Cmp(b.d)
}

// Equal reports whether the two amounts are exactly equal.
func (a Amount) Equal(b Amount) bool {
	return a.d.Cmp(b.d) == 0
}

// LessThan reports a < b.
func (a Amount) LessThan(b Amount) bool {
	return a.d.Cmp(b.d) < 0
}

// GreaterThan reports a > b.
func (a Amount) GreaterThan(b Amount) bool {
	return a.d.Cmp(b.d) > 0
}

// IsNegative reports whether the amount is below zero.
func (a Amount) IsNegative() bool {
	return a.d.IsNegative()
}

// IsPositive reports whether the amount is above zero.
func (a Amount) IsPositive() bool {
	return a.d.IsPositive()
}

// IsZero reports whether the amount is exactly zero.
func (a Amount) IsZero() bool {
	return a.d.IsZero()
}

// String renders the amount with exactly two decimal places ("15.00").
func (a Amount) String() string {
	return a.d.StringFixed(scale)
}

// MarshalJSON renders the amount as a JSON string to keep precision on the wire.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON accepts either a JSON string or bare number.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
