package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/snusnumrick/dojoflow/internal/money"
)

// ItemInput describes a line to add to a draft invoice.
type ItemInput struct {
	Type         string      `json:"type"`
	Description  string      `json:"description"`
	Quantity     int64       `json:"quantity"`
	UnitPrice    money.Money `json:"unit_price"`
	DiscountRate float64     `json:"discount_rate"`
	TaxRateIDs   []string    `json:"tax_rate_ids"`
}

type CreateInvoiceRequest struct {
	FamilyID string         `json:"family_id"`
	DueAt    *time.Time     `json:"due_at,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Items    []ItemInput    `json:"items,omitempty"`
}

type ListInvoiceRequest struct {
	FamilyID *string        `json:"family_id,omitempty"`
	Status   *InvoiceStatus `json:"status,omitempty"`
}

// InvoiceDetail is an invoice with its lines and frozen tax lines.
type InvoiceDetail struct {
	Invoice  Invoice          `json:"invoice"`
	Items    []InvoiceItem    `json:"items"`
	TaxLines []InvoiceTaxLine `json:"tax_lines"`
}

type Repository interface {
	Create(ctx context.Context, invoice *Invoice) error
	FindByID(ctx context.Context, id snowflake.ID) (*Invoice, error)
	Find(ctx context.Context, req ListInvoiceRequest) ([]Invoice, error)
	Items(ctx context.Context, invoiceID snowflake.ID) ([]InvoiceItem, error)
	TaxLines(ctx context.Context, invoiceID snowflake.ID) ([]InvoiceTaxLine, error)
}

type Service interface {
	CreateDraft(ctx context.Context, req CreateInvoiceRequest) (*Invoice, error)
	AddItem(ctx context.Context, invoiceID string, item ItemInput) (*InvoiceItem, error)
	RemoveItem(ctx context.Context, invoiceID, itemID string) error
	Get(ctx context.Context, id string) (InvoiceDetail, error)
	List(ctx context.Context, req ListInvoiceRequest) ([]Invoice, error)
	Finalize(ctx context.Context, id string) (*Invoice, error)
	Void(ctx context.Context, id, reason string) error
}
