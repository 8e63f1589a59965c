package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/snusnumrick/dojoflow/internal/money"
)

type RecordPaymentRequest struct {
	InvoiceID  string        `json:"invoice_id"`
	Method     PaymentMethod `json:"method"`
	Amount     money.Money   `json:"amount"`
	Reference  *string       `json:"reference,omitempty"`
	Notes      *string       `json:"notes,omitempty"`
	ReceivedAt *time.Time    `json:"received_at,omitempty"`
}

// Receipt is a recorded payment with its frozen per-rate tax allocation.
type Receipt struct {
	Payment  Payment          `json:"payment"`
	TaxLines []PaymentTaxLine `json:"tax_lines"`
}

type Repository interface {
	FindByID(ctx context.Context, id snowflake.ID) (*Payment, error)
	ListByInvoice(ctx context.Context, invoiceID snowflake.ID) ([]Payment, error)
	TaxLines(ctx context.Context, paymentID snowflake.ID) ([]PaymentTaxLine, error)
}

type Service interface {
	Record(ctx context.Context, req RecordPaymentRequest) (Receipt, error)
	Get(ctx context.Context, id string) (Receipt, error)
	ListByInvoice(ctx context.Context, invoiceID string) ([]Payment, error)
}
