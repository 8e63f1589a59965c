package calc

import (
	"github.com/bwmarrin/snowflake"
	"github.com/snusnumrick/dojoflow/internal/money"
)

// Totals are the derived invoice amounts. Total = Subtotal - Discount + Tax.
type Totals struct {
	Subtotal money.Money
	Discount money.Money
	Tax      money.Money
	Total    money.Money
}

// InvoiceTotals sums line item amounts into invoice totals.
func InvoiceTotals(items []LineItem) Totals {
	currency := money.DefaultCurrency
	if len(items) > 0 {
		currency = items[0].UnitPrice.Currency()
	}
	subtotal := money.Zero(currency)
	discount := money.Zero(currency)
	tax := money.Zero(currency)
	for _, item := range items {
		subtotal = subtotal.Add(Subtotal(item))
		discount = discount.Add(DiscountAmount(item))
		tax = tax.Add(TaxAmount(item))
	}
	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Total:    subtotal.Sub(discount).Add(tax),
	}
}

// AggregateTaxBuckets merges every line item's per-rate breakdown into one
// bucket per distinct tax rate id, preserving first-appearance order. Bucket
// amounts come from the per-rate breakdown path: the buckets feed receipts,
// which present per-rate numbers.
func AggregateTaxBuckets(items []LineItem) []TaxLine {
	var order []snowflake.ID
	buckets := make(map[snowflake.ID]TaxLine)
	for _, item := range items {
		for _, line := range TaxBreakdown(item) {
			id := line.Snapshot.TaxRateID
			if existing, ok := buckets[id]; ok {
				existing.Amount = existing.Amount.Add(line.Amount)
				buckets[id] = existing
			} else {
				buckets[id] = line
				order = append(order, id)
			}
		}
	}
	out := make([]TaxLine, 0, len(order))
	for _, id := range order {
		out = append(out, buckets[id])
	}
	return out
}

// AllocatePaymentTax slices an invoice's aggregated tax buckets in proportion
// to a payment against the invoice total.
//
// The tax was fixed when the invoice was finalized; recomputing it from the
// payment amount would disagree with the issued document whenever discounts
// or stacked rates are involved. Each bucket is scaled by
// payment/invoiceTotal and rounded once; non-positive results are omitted.
//
// A non-positive payment, invoice total or invoice tax short-circuits to an
// empty breakdown: nothing to allocate is a valid steady state, not an error.
func AllocatePaymentTax(payment, invoiceTotal, invoiceTax money.Money, buckets []TaxLine) []TaxLine {
	if !payment.IsPositive() || !invoiceTotal.IsPositive() || !invoiceTax.IsPositive() {
		return nil
	}

	proportion := float64(payment.Cents()) / float64(invoiceTotal.Cents())

	out := make([]TaxLine, 0, len(buckets))
	for _, bucket := range buckets {
		scaled := bucket.Amount.Mul(proportion)
		if !scaled.IsPositive() {
			continue
		}
		out = append(out, TaxLine{Snapshot: bucket.Snapshot, Amount: scaled})
	}
	return out
}
