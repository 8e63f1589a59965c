package calc

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/snusnumrick/dojoflow/internal/money"
	taxdomain "github.com/snusnumrick/dojoflow/internal/tax/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rate(id int64, pct float64) taxdomain.Snapshot {
	return taxdomain.Snapshot{
		TaxRateID: snowflake.ID(id),
		Name:      "Tax",
		Rate:      pct,
	}
}

func TestLineItemTotals(t *testing.T) {
	// quantity=3, unitPrice=$10.00, discountRate=10, one 5% tax rate:
	// subtotal=$30.00, discount=$3.00, taxable=$27.00, tax=$1.35, total=$28.35
	item := LineItem{
		Type:         ItemEnrollment,
		Description:  "Youth program, monthly",
		Quantity:     3,
		UnitPrice:    money.FromCents(1000),
		DiscountRate: 10,
		TaxRates:     []taxdomain.Snapshot{rate(1, 0.05)},
	}

	assert.Equal(t, int64(3000), Subtotal(item).Cents())
	assert.Equal(t, int64(300), DiscountAmount(item).Cents())
	assert.Equal(t, int64(135), TaxAmount(item).Cents())
	assert.Equal(t, int64(2835), Total(item).Cents())
}

func TestTaxAmount_SingleRoundingAcrossStackedRates(t *testing.T) {
	// GST 5% + PST 7% on $10.05: aggregate rounds once on 12% of 1005
	// = 120.6 -> 121. Per-rate: 50.25 -> 50 and 70.35 -> 70, summing 120.
	item := LineItem{
		Type:        ItemProduct,
		Description: "Sparring gloves",
		Quantity:    1,
		UnitPrice:   money.FromCents(1005),
		TaxRates:    []taxdomain.Snapshot{rate(1, 0.05), rate(2, 0.07)},
	}

	assert.Equal(t, int64(121), TaxAmount(item).Cents())

	breakdown := TaxBreakdown(item)
	require.Len(t, breakdown, 2)
	assert.Equal(t, int64(50), breakdown[0].Amount.Cents())
	assert.Equal(t, int64(70), breakdown[1].Amount.Cents())

	// the documented display artifact: breakdown sum may trail the
	// aggregate by up to one cent per rate
	sum := breakdown[0].Amount.Add(breakdown[1].Amount)
	diff := TaxAmount(item).Sub(sum).Cents()
	assert.LessOrEqual(t, diff, int64(2))
	assert.GreaterOrEqual(t, diff, int64(0))
}

func TestDiscountDefaultsToZero(t *testing.T) {
	item := LineItem{
		Type:        ItemFee,
		Description: "Registration fee",
		Quantity:    1,
		UnitPrice:   money.FromCents(3500),
	}
	assert.True(t, DiscountAmount(item).IsZero())
	assert.Equal(t, int64(3500), Total(item).Cents())
}

func TestNewDiscountItem_ForcesNegativePrice(t *testing.T) {
	item := NewDiscountItem("Promo FALL25", money.FromCents(500))
	assert.Equal(t, ItemDiscount, item.Type)
	assert.Equal(t, int64(-500), item.UnitPrice.Cents())
	assert.Empty(t, ValidateLineItem(item))

	// already negative stays untouched
	item = NewDiscountItem("Promo", money.FromCents(-250))
	assert.Equal(t, int64(-250), item.UnitPrice.Cents())
}

func TestValidateLineItem(t *testing.T) {
	cases := []struct {
		name     string
		item     LineItem
		contains []string
	}{
		{
			name: "valid",
			item: LineItem{Type: ItemSession, Description: "Drop-in", Quantity: 1, UnitPrice: money.FromCents(1500)},
		},
		{
			name:     "blank description",
			item:     LineItem{Type: ItemFee, Description: "  ", Quantity: 1, UnitPrice: money.FromCents(100)},
			contains: []string{"description"},
		},
		{
			name:     "zero quantity",
			item:     LineItem{Type: ItemFee, Description: "Fee", Quantity: 0, UnitPrice: money.FromCents(100)},
			contains: []string{"quantity"},
		},
		{
			name:     "negative price on non-discount",
			item:     LineItem{Type: ItemProduct, Description: "Gi", Quantity: 1, UnitPrice: money.FromCents(-100)},
			contains: []string{"unit price"},
		},
		{
			name:     "positive price on discount",
			item:     LineItem{Type: ItemDiscount, Description: "Promo", Quantity: 1, UnitPrice: money.FromCents(100)},
			contains: []string{"non-positive"},
		},
		{
			name:     "discount rate out of range",
			item:     LineItem{Type: ItemFee, Description: "Fee", Quantity: 1, UnitPrice: money.FromCents(100), DiscountRate: 150},
			contains: []string{"discount rate"},
		},
		{
			name:     "unknown type",
			item:     LineItem{Type: "mystery", Description: "??", Quantity: 1, UnitPrice: money.FromCents(100)},
			contains: []string{"item type"},
		},
		{
			name: "multiple violations",
			item: LineItem{Type: ItemFee, Description: "", Quantity: -1, UnitPrice: money.FromCents(100), DiscountRate: -5},
			contains: []string{
				"description", "quantity", "discount rate",
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reasons := ValidateLineItem(tc.item)
			if len(tc.contains) == 0 {
				assert.Empty(t, reasons)
				return
			}
			joined := ""
			for _, r := range reasons {
				joined += r + "\n"
			}
			for _, fragment := range tc.contains {
				assert.Contains(t, joined, fragment)
			}
		})
	}
}
