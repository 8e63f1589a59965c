// Package domain contains persistence models for invoicing.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// InvoiceStatus represents invoice lifecycle states.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusFinalized InvoiceStatus = "FINALIZED"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusVoid      InvoiceStatus = "VOID"
)

// Invoice bills a family for enrollments, sessions, products and fees. Draft
// invoices are mutable; finalizing computes the totals, stamps the tax lines
// and assigns the invoice number. Amounts are integer cents.
type Invoice struct {
	ID             snowflake.ID      `gorm:"primaryKey" json:"id"`
	FamilyID       snowflake.ID      `gorm:"not null;index" json:"family_id"`
	InvoiceNumber  *string           `gorm:"type:text;uniqueIndex" json:"invoice_number,omitempty"`
	Status         InvoiceStatus     `gorm:"type:text;not null;default:'DRAFT'" json:"status"`
	SubtotalAmount int64             `gorm:"not null;default:0" json:"subtotal_amount"`
	DiscountAmount int64             `gorm:"not null;default:0" json:"discount_amount"`
	TaxAmount      int64             `gorm:"not null;default:0" json:"tax_amount"`
	TotalAmount    int64             `gorm:"not null;default:0" json:"total_amount"`
	PaidAmount     int64             `gorm:"not null;default:0" json:"paid_amount"`
	Currency       string            `gorm:"type:text;not null" json:"currency"`
	IssuedAt       *time.Time        `gorm:"" json:"issued_at,omitempty"`
	DueAt          *time.Time        `gorm:"" json:"due_at,omitempty"`
	FinalizedAt    *time.Time        `gorm:"" json:"finalized_at,omitempty"`
	PaidAt         *time.Time        `gorm:"" json:"paid_at,omitempty"`
	VoidedAt       *time.Time        `gorm:"" json:"voided_at,omitempty"`
	Metadata       datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// BalanceDue is the outstanding amount in cents.
func (i Invoice) BalanceDue() int64 { return i.TotalAmount - i.PaidAmount }

// InvoiceItem is a line on an invoice. TaxRateIDs reference live tax_rates
// rows while the invoice is a draft; finalization resolves them into frozen
// InvoiceTaxLine snapshots.
type InvoiceItem struct {
	ID           snowflake.ID                      `gorm:"primaryKey" json:"id"`
	InvoiceID    snowflake.ID                      `gorm:"not null;index" json:"invoice_id"`
	ItemType     string                            `gorm:"type:text;not null" json:"item_type"`
	Description  string                            `gorm:"type:text;not null" json:"description"`
	Quantity     int64                             `gorm:"not null" json:"quantity"`
	UnitPrice    int64                             `gorm:"not null" json:"unit_price"` // cents
	DiscountRate float64                           `gorm:"not null;default:0" json:"discount_rate"`
	TaxRateIDs   datatypes.JSONSlice[snowflake.ID] `gorm:"type:jsonb" json:"tax_rate_ids,omitempty"`
	Amount       int64                             `gorm:"not null" json:"amount"` // line total in cents
	CreatedAt    time.Time                         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (InvoiceItem) TableName() string { return "invoice_items" }

// InvoiceTaxLine captures the tax applied to an invoice at finalization, one
// row per distinct rate. Name and rate are copied from tax_rates so later
// edits to the rate never change a historical document.
type InvoiceTaxLine struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	InvoiceID snowflake.ID `gorm:"not null;index" json:"invoice_id"`
	TaxRateID snowflake.ID `gorm:"not null;index" json:"tax_rate_id"`
	TaxName   string       `gorm:"type:text;not null" json:"tax_name"`
	TaxRate   float64      `gorm:"not null" json:"tax_rate"`
	Amount    int64        `gorm:"not null" json:"amount"` // cents
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (InvoiceTaxLine) TableName() string { return "invoice_tax_lines" }
