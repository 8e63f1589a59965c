// Package calc implements the pure billing arithmetic: line item totals,
// discount and multi-rate tax computation, invoice aggregation and
// proportional tax allocation for partial payments.
//
// Nothing here touches storage. Callers fetch rows, map them onto the input
// types and persist the results.
package calc

import (
	"fmt"
	"strings"

	"github.com/snusnumrick/dojoflow/internal/money"
	taxdomain "github.com/snusnumrick/dojoflow/internal/tax/domain"
)

// ItemType classifies a billable line.
type ItemType string

const (
	ItemEnrollment ItemType = "enrollment"
	ItemSession    ItemType = "session"
	ItemProduct    ItemType = "product"
	ItemFee        ItemType = "fee"
	ItemDiscount   ItemType = "discount"
	ItemOther      ItemType = "other"
)

// ValidItemType reports whether t is a known line classification.
func ValidItemType(t ItemType) bool {
	switch t {
	case ItemEnrollment, ItemSession, ItemProduct, ItemFee, ItemDiscount, ItemOther:
		return true
	default:
		return false
	}
}

// LineItem is one billable line. Quantity must be positive; DiscountRate is a
// percentage in [0,100]; TaxRates are frozen snapshots, never live rows.
type LineItem struct {
	Type         ItemType
	Description  string
	Quantity     int64
	UnitPrice    money.Money
	DiscountRate float64
	TaxRates     []taxdomain.Snapshot
}

// NewDiscountItem builds a credit line. The amount's magnitude is taken and
// the sign forced negative; discount lines carry no tax or discount rate.
func NewDiscountItem(description string, amount money.Money) LineItem {
	if amount.IsPositive() {
		amount = amount.Neg()
	}
	return LineItem{
		Type:        ItemDiscount,
		Description: description,
		Quantity:    1,
		UnitPrice:   amount,
	}
}

// Subtotal is unit price times quantity. Integer math, exact.
func Subtotal(item LineItem) money.Money {
	return item.UnitPrice.MulInt(item.Quantity)
}

// DiscountAmount is the subtotal scaled by the discount rate, rounded once.
func DiscountAmount(item LineItem) money.Money {
	if item.DiscountRate == 0 {
		return money.Zero(item.UnitPrice.Currency())
	}
	return Subtotal(item).PercentOf(item.DiscountRate)
}

// TaxAmount is the taxable base (subtotal minus discount) scaled by the SUM
// of the applicable rates, rounded once after summing. Rounding each rate's
// contribution independently and then summing would drift from the aggregate;
// that per-rate path exists only in TaxBreakdown for display.
func TaxAmount(item LineItem) money.Money {
	if len(item.TaxRates) == 0 {
		return money.Zero(item.UnitPrice.Currency())
	}
	var combined float64
	for _, rate := range item.TaxRates {
		combined += rate.Rate
	}
	taxable := Subtotal(item).Sub(DiscountAmount(item))
	return taxable.Mul(combined)
}

// Total is subtotal minus discount plus tax.
func Total(item LineItem) money.Money {
	return Subtotal(item).Sub(DiscountAmount(item)).Add(TaxAmount(item))
}

// TaxLine pairs a frozen tax rate with a computed amount.
type TaxLine struct {
	Snapshot taxdomain.Snapshot
	Amount   money.Money
}

// TaxBreakdown computes one independently rounded amount per rate, for
// receipt display. The entries may sum to within one cent per rate of
// TaxAmount when rates are stacked; the aggregate stays authoritative and the
// discrepancy is an accepted display artifact.
func TaxBreakdown(item LineItem) []TaxLine {
	if len(item.TaxRates) == 0 {
		return nil
	}
	taxable := Subtotal(item).Sub(DiscountAmount(item))
	lines := make([]TaxLine, 0, len(item.TaxRates))
	for _, rate := range item.TaxRates {
		lines = append(lines, TaxLine{
			Snapshot: rate,
			Amount:   taxable.Mul(rate.Rate),
		})
	}
	return lines
}

// ValidateLineItem returns human-readable violations for rendering, not an
// error. A valid item returns nil.
func ValidateLineItem(item LineItem) []string {
	var reasons []string
	if strings.TrimSpace(item.Description) == "" {
		reasons = append(reasons, "description must not be blank")
	}
	if item.Quantity <= 0 {
		reasons = append(reasons, fmt.Sprintf("quantity must be positive, got %d", item.Quantity))
	}
	if !ValidItemType(item.Type) {
		reasons = append(reasons, fmt.Sprintf("unknown item type %q", string(item.Type)))
	}
	if item.Type == ItemDiscount {
		if item.UnitPrice.IsPositive() {
			reasons = append(reasons, "discount items must carry a non-positive unit price")
		}
	} else if item.UnitPrice.IsNegative() {
		reasons = append(reasons, "unit price must not be negative on a non-discount item")
	}
	if item.DiscountRate < 0 || item.DiscountRate > 100 {
		reasons = append(reasons, fmt.Sprintf("discount rate must be between 0 and 100, got %v", item.DiscountRate))
	}
	return reasons
}
