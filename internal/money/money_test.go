package money

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromDollars_RoundsToNearestCent(t *testing.T) {
	cases := []struct {
		dollars float64
		cents   int64
	}{
		{19.999, 2000},
		{19.994, 1999},
		{0, 0},
		{-10.005, -1001},
		{120, 12000},
	}
	for _, tc := range cases {
		m, err := FromDollars(tc.dollars)
		require.NoError(t, err)
		assert.Equal(t, tc.cents, m.Cents(), "dollars=%v", tc.dollars)
	}
}

func TestFromDollars_RejectsNonFinite(t *testing.T) {
	nan := 0.0
	nan = nan / nan
	_, err := FromDollars(nan)
	assert.Error(t, err)
}

func TestArithmetic(t *testing.T) {
	a := FromCents(1050)
	b := FromCents(250)

	assert.Equal(t, int64(1300), a.Add(b).Cents())
	assert.Equal(t, int64(800), a.Sub(b).Cents())
	assert.Equal(t, int64(3150), a.MulInt(3).Cents())
	assert.Equal(t, int64(105), a.PercentOf(10).Cents())
	assert.Equal(t, int64(525), a.Div(2).Cents())

	// operations return new values; operands are untouched
	assert.Equal(t, int64(1050), a.Cents())
}

func TestMul_RoundsOnce(t *testing.T) {
	// 999 * 0.333 = 332.667 -> 333
	assert.Equal(t, int64(333), FromCents(999).Mul(0.333).Cents())
	// 150 * 0.5 = 75 exactly
	assert.Equal(t, int64(75), FromCents(150).Mul(0.5).Cents())
}

func TestCmpMaxMin(t *testing.T) {
	assert.Equal(t, 1, FromCents(100).Cmp(FromCents(99)))
	assert.Equal(t, -1, FromCents(99).Cmp(FromCents(100)))
	assert.Equal(t, 0, FromCents(100).Cmp(FromCents(100)))

	pairs := [][2]Money{
		{FromCents(1), FromCents(2)},
		{FromCents(-5), FromCents(5)},
		{FromCents(7), FromCents(7)},
	}
	for _, p := range pairs {
		max := Max(p[0], p[1])
		min := Min(p[0], p[1])
		assert.GreaterOrEqual(t, max.Cmp(min), 0)
		assert.True(t, max.Equal(p[0]) || max.Equal(p[1]))
		assert.True(t, min.Equal(p[0]) || min.Equal(p[1]))
	}
}

func TestSum(t *testing.T) {
	total := Sum([]Money{FromCents(100), FromCents(250), FromCents(-50)})
	assert.Equal(t, int64(300), total.Cents())
	assert.True(t, Sum(nil).IsZero())
}

func TestSignPredicates(t *testing.T) {
	assert.True(t, FromCents(0).IsZero())
	assert.True(t, FromCents(1).IsPositive())
	assert.True(t, FromCents(-1).IsNegative())
	assert.False(t, FromCents(-1).IsPositive())
}

func TestCurrencyMismatchPanics(t *testing.T) {
	usd := FromCentsIn(100, "USD")
	cad := FromCentsIn(100, "CAD")
	assert.Panics(t, func() { usd.Add(cad) })
	assert.Panics(t, func() { usd.Cmp(cad) })
}

func TestJSONRoundTrip(t *testing.T) {
	for _, cents := range []int64{0, 1, -1, 12345, -999999} {
		original := FromCents(cents)
		data, err := json.Marshal(original)
		require.NoError(t, err)

		var decoded Money
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.True(t, original.Equal(decoded), "cents=%d", cents)
	}
}

func TestTo_Coercions(t *testing.T) {
	cases := []struct {
		name  string
		input any
		cents int64
	}{
		{"raw int is dollars", 12, 1200},
		{"raw float is dollars", 19.999, 2000},
		{"numeric string is dollars", "10.50", 1050},
		{"blank string is zero", "   ", 0},
		{"empty string is zero", "", 0},
		{"existing money passes through", FromCents(777), 777},
		{"serialized map is cents", map[string]any{"amount": float64(2500), "currency": "CAD"}, 2500},
		{"json object string is cents", `{"amount":1234,"currency":"CAD"}`, 1234},
		{"nil is zero", nil, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := To(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.cents, m.Cents())
		})
	}
}

func TestTo_Errors(t *testing.T) {
	_, err := To("not a number")
	assert.Error(t, err)

	_, err = To(struct{ X int }{1})
	assert.Error(t, err)

	_, err = To(map[string]any{"currency": "CAD"})
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "1,234.50", Format(FromCents(123450), FormatOptions{}))
	assert.Equal(t, "1,234.50 CAD", Format(FromCents(123450), FormatOptions{ShowCurrency: true}))
	assert.Equal(t, "0.00", Format(FromCents(0), FormatOptions{}))
}
