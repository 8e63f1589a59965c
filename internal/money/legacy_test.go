package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsLegacyDollars(t *testing.T) {
	assert.True(t, IsLegacyDollars("programs", "monthly_fee"))
	assert.True(t, IsLegacyDollars("classes", "session_fee"))

	// exception set wins over the table default
	assert.False(t, IsLegacyDollars("event_registrations", "payment_amount"))
	assert.True(t, IsLegacyDollars("event_registrations", "registration_fee"))

	// unknown tables default to the new cents convention
	assert.False(t, IsLegacyDollars("invoices", "total_amount"))
}

func TestCentsFromRow(t *testing.T) {
	cases := []struct {
		name  string
		table string
		field string
		row   map[string]any
		want  int64
	}{
		{
			name:  "cents sibling is authoritative",
			table: "programs",
			field: "monthly_fee",
			row:   map[string]any{"monthly_fee": float64(120), "monthly_fee_cents": int64(11900)},
			want:  11900,
		},
		{
			name:  "legacy dollar table scales by 100",
			table: "programs",
			field: "monthly_fee",
			row:   map[string]any{"monthly_fee": float64(120)},
			want:  12000,
		},
		{
			name:  "cents exception resolves unchanged",
			table: "event_registrations",
			field: "payment_amount",
			row:   map[string]any{"payment_amount": float64(2500)},
			want:  2500,
		},
		{
			name:  "non-legacy table resolves unchanged",
			table: "invoices",
			field: "total_amount",
			row:   map[string]any{"total_amount": float64(4599)},
			want:  4599,
		},
		{
			name:  "field named _cents never scales",
			table: "programs",
			field: "registration_fee_cents",
			row:   map[string]any{"registration_fee_cents": float64(3500)},
			want:  3500,
		},
		{
			name:  "float drift rounds",
			table: "programs",
			field: "monthly_fee",
			row:   map[string]any{"monthly_fee_cents": 1999.9999999},
			want:  2000,
		},
		{
			name:  "missing value is zero",
			table: "programs",
			field: "monthly_fee",
			row:   map[string]any{},
			want:  0,
		},
		{
			name:  "non-numeric value is zero",
			table: "programs",
			field: "monthly_fee",
			row:   map[string]any{"monthly_fee": "abc"},
			want:  0,
		},
		{
			name:  "nil row is zero",
			table: "programs",
			field: "monthly_fee",
			row:   nil,
			want:  0,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CentsFromRow(tc.table, tc.field, tc.row))
		})
	}
}

func TestMoneyFromRow(t *testing.T) {
	m := MoneyFromRow("programs", "monthly_fee", map[string]any{"monthly_fee": float64(99.5)})
	assert.Equal(t, int64(9950), m.Cents())
	assert.Equal(t, DefaultCurrency, m.Currency())
}
