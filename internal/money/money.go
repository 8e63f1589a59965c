// Package money implements the fixed-point currency representation used for
// every amount in the system. Amounts are integer minor units (cents); floats
// appear only at the parse and display boundaries.
package money

import (
	"encoding/json"
	"fmt"
	"math"
)

// DefaultCurrency is the ISO 4217 code assumed when a caller does not name one.
const DefaultCurrency = "CAD"

// Money is an immutable amount of a single currency, stored in minor units.
// The zero value is 0 minor units of the default currency.
type Money struct {
	amount   int64
	currency string
}

// FromCents wraps an integer number of minor units in the default currency.
func FromCents(cents int64) Money {
	return Money{amount: cents, currency: DefaultCurrency}
}

// FromCentsIn wraps an integer number of minor units in the given currency.
func FromCentsIn(cents int64, currency string) Money {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{amount: cents, currency: currency}
}

// FromFloatCents rounds a floating-point cent count to the nearest minor unit.
// Float intermediates can carry drift (1999.9999999), so rounding here is the
// normalization point.
func FromFloatCents(cents float64) (Money, error) {
	if math.IsNaN(cents) || math.IsInf(cents, 0) {
		return Money{}, fmt.Errorf("money: invalid cent amount %v", cents)
	}
	return FromCents(int64(math.Round(cents))), nil
}

// FromDollars converts a major-unit decimal to minor units via round(v*100).
func FromDollars(dollars float64) (Money, error) {
	if math.IsNaN(dollars) || math.IsInf(dollars, 0) {
		return Money{}, fmt.Errorf("money: invalid dollar amount %v", dollars)
	}
	return FromCents(int64(math.Round(dollars * 100))), nil
}

// Zero returns a zero amount in the given currency.
func Zero(currency string) Money {
	return FromCentsIn(0, currency)
}

// Cents returns the integer minor-unit amount.
func (m Money) Cents() int64 { return m.amount }

// Currency returns the ISO 4217 code.
func (m Money) Currency() string {
	if m.currency == "" {
		return DefaultCurrency
	}
	return m.currency
}

// Dollars returns the major-unit value. Display boundary only; never feed the
// result back into arithmetic.
func (m Money) Dollars() float64 { return float64(m.amount) / 100 }

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool { return m.amount == 0 }

// IsPositive reports whether the amount is greater than zero.
func (m Money) IsPositive() bool { return m.amount > 0 }

// IsNegative reports whether the amount is less than zero.
func (m Money) IsNegative() bool { return m.amount < 0 }

// Add returns m + o. Panics if the currencies differ.
func (m Money) Add(o Money) Money {
	assertSameCurrency("add", m, o)
	return Money{amount: m.amount + o.amount, currency: m.Currency()}
}

// Sub returns m - o. Panics if the currencies differ.
func (m Money) Sub(o Money) Money {
	assertSameCurrency("subtract", m, o)
	return Money{amount: m.amount - o.amount, currency: m.Currency()}
}

// Neg returns the amount with its sign flipped.
func (m Money) Neg() Money {
	return Money{amount: -m.amount, currency: m.Currency()}
}

// MulInt returns m scaled by an integer factor. Exact, no rounding.
func (m Money) MulInt(factor int64) Money {
	return Money{amount: m.amount * factor, currency: m.Currency()}
}

// Mul returns m scaled by a float factor, rounded once to the nearest cent.
func (m Money) Mul(factor float64) Money {
	return Money{amount: int64(math.Round(float64(m.amount) * factor)), currency: m.Currency()}
}

// Div returns m divided by a non-zero divisor, rounded to the nearest cent.
// Panics on a zero divisor.
func (m Money) Div(divisor float64) Money {
	if divisor == 0 {
		panic("money: division by zero")
	}
	return Money{amount: int64(math.Round(float64(m.amount) / divisor)), currency: m.Currency()}
}

// PercentOf returns rate percent of m (rate in [0,100]), rounded once.
func (m Money) PercentOf(rate float64) Money {
	return m.Mul(rate / 100)
}

// Cmp compares two amounts of the same currency: -1 if m < o, 0 if equal,
// 1 if m > o. Panics if the currencies differ.
func (m Money) Cmp(o Money) int {
	assertSameCurrency("compare", m, o)
	switch {
	case m.amount < o.amount:
		return -1
	case m.amount > o.amount:
		return 1
	default:
		return 0
	}
}

// Equal reports whether two amounts share a currency and minor-unit value.
func (m Money) Equal(o Money) bool {
	return m.Currency() == o.Currency() && m.amount == o.amount
}

// Max returns the larger of a and b.
func Max(a, b Money) Money {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

// Min returns the smaller of a and b.
func Min(a, b Money) Money {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

// Sum reduces a list of same-currency amounts. An empty list sums to zero in
// the default currency.
func Sum(items []Money) Money {
	if len(items) == 0 {
		return FromCents(0)
	}
	total := items[0]
	for _, item := range items[1:] {
		total = total.Add(item)
	}
	return total
}

func (m Money) String() string {
	return fmt.Sprintf("%.2f %s", m.Dollars(), m.Currency())
}

type moneyJSON struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// MarshalJSON encodes the amount as {"amount": <cents>, "currency": <code>}.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Amount: m.amount, Currency: m.Currency()})
}

// UnmarshalJSON decodes the serialized form; round-trips exactly.
func (m *Money) UnmarshalJSON(data []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("money: invalid serialized value: %w", err)
	}
	if raw.Currency == "" {
		raw.Currency = DefaultCurrency
	}
	m.amount = raw.Amount
	m.currency = raw.Currency
	return nil
}

func assertSameCurrency(op string, a, b Money) {
	if a.Currency() != b.Currency() {
		panic(fmt.Sprintf("money: currency mismatch on %s: %s vs %s", op, a.Currency(), b.Currency()))
	}
}
