// Package domain contains persistence models for payments.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// PaymentMethod is how the money arrived at the front desk.
type PaymentMethod string

const (
	MethodCash      PaymentMethod = "cash"
	MethodCheck     PaymentMethod = "check"
	MethodCard      PaymentMethod = "card"
	MethodETransfer PaymentMethod = "etransfer"
	MethodOther     PaymentMethod = "other"
)

// ValidMethod reports whether m is a known payment method.
func ValidMethod(m PaymentMethod) bool {
	switch m {
	case MethodCash, MethodCheck, MethodCard, MethodETransfer, MethodOther:
		return true
	default:
		return false
	}
}

// Payment is money received against a finalized invoice. Partial payments are
// allowed; each carries its own receipt number and its own proportional slice
// of the invoice's tax lines.
type Payment struct {
	ID            snowflake.ID  `gorm:"primaryKey" json:"id"`
	InvoiceID     snowflake.ID  `gorm:"not null;index" json:"invoice_id"`
	FamilyID      snowflake.ID  `gorm:"not null;index" json:"family_id"`
	ReceiptNumber string        `gorm:"type:text;not null;uniqueIndex" json:"receipt_number"`
	Method        PaymentMethod `gorm:"type:text;not null" json:"method"`
	Amount        int64         `gorm:"not null" json:"amount"` // cents
	Currency      string        `gorm:"type:text;not null" json:"currency"`
	Reference     *string       `gorm:"type:text" json:"reference,omitempty"` // check number, terminal ref
	Notes         *string       `gorm:"type:text" json:"notes,omitempty"`
	ReceivedAt    time.Time     `gorm:"not null" json:"received_at"`
	CreatedAt     time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Payment) TableName() string { return "payments" }

// PaymentTaxLine is the payment's proportional share of one invoice tax line,
// frozen for the receipt.
type PaymentTaxLine struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	PaymentID snowflake.ID `gorm:"not null;index" json:"payment_id"`
	TaxRateID snowflake.ID `gorm:"not null;index" json:"tax_rate_id"`
	TaxName   string       `gorm:"type:text;not null" json:"tax_name"`
	TaxRate   float64      `gorm:"not null" json:"tax_rate"`
	Amount    int64        `gorm:"not null" json:"amount"` // cents
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (PaymentTaxLine) TableName() string { return "payment_tax_lines" }
