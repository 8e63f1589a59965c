package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/snusnumrick/dojoflow/internal/invoice/calc"
	invoicedomain "github.com/snusnumrick/dojoflow/internal/invoice/domain"
	"github.com/snusnumrick/dojoflow/internal/money"
	paymentdomain "github.com/snusnumrick/dojoflow/internal/payment/domain"
	taxdomain "github.com/snusnumrick/dojoflow/internal/tax/domain"
	pkgdb "github.com/snusnumrick/dojoflow/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  paymentdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  paymentdomain.Repository
}

func NewService(p ServiceParam) paymentdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("payment.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

// Record books a payment against a finalized invoice. The payment takes a
// proportional slice of the invoice's frozen tax lines; the invoice flips to
// PAID when the balance reaches zero. Runs in one transaction with the
// invoice row locked.
func (s *Service) Record(ctx context.Context, req paymentdomain.RecordPaymentRequest) (paymentdomain.Receipt, error) {
	invoiceID, err := snowflake.ParseString(strings.TrimSpace(req.InvoiceID))
	if err != nil {
		return paymentdomain.Receipt{}, invoicedomain.ErrInvalidInvoiceID
	}
	if !paymentdomain.ValidMethod(req.Method) {
		return paymentdomain.Receipt{}, paymentdomain.ErrInvalidMethod
	}
	if !req.Amount.IsPositive() {
		return paymentdomain.Receipt{}, paymentdomain.ErrInvalidAmount
	}

	receivedAt := time.Now().UTC()
	if req.ReceivedAt != nil {
		receivedAt = req.ReceivedAt.UTC()
	}

	var receipt paymentdomain.Receipt
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var invoice invoicedomain.Invoice
		err := pkgdb.ForUpdate(tx).First(&invoice, "id = ?", invoiceID).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return invoicedomain.ErrInvoiceNotFound
			}
			return err
		}
		if invoice.Status != invoicedomain.InvoiceStatusFinalized {
			return paymentdomain.ErrInvoiceNotOpen
		}
		if req.Amount.Currency() != invoice.Currency {
			return paymentdomain.ErrInvalidAmount
		}
		if req.Amount.Cents() > invoice.BalanceDue() {
			return paymentdomain.ErrOverpayment
		}

		var invoiceTaxLines []invoicedomain.InvoiceTaxLine
		if err := tx.Where("invoice_id = ?", invoiceID).Order("id ASC").Find(&invoiceTaxLines).Error; err != nil {
			return err
		}

		buckets := make([]calc.TaxLine, 0, len(invoiceTaxLines))
		for _, line := range invoiceTaxLines {
			buckets = append(buckets, calc.TaxLine{
				Snapshot: taxdomain.Snapshot{
					TaxRateID: line.TaxRateID,
					Name:      line.TaxName,
					Rate:      line.TaxRate,
				},
				Amount: money.FromCentsIn(line.Amount, invoice.Currency),
			})
		}
		allocated := calc.AllocatePaymentTax(
			req.Amount,
			money.FromCentsIn(invoice.TotalAmount, invoice.Currency),
			money.FromCentsIn(invoice.TaxAmount, invoice.Currency),
			buckets,
		)

		now := time.Now().UTC()
		payment := paymentdomain.Payment{
			ID:            s.genID.Generate(),
			InvoiceID:     invoiceID,
			FamilyID:      invoice.FamilyID,
			ReceiptNumber: "RCPT-" + uuid.NewString(),
			Method:        req.Method,
			Amount:        req.Amount.Cents(),
			Currency:      invoice.Currency,
			Reference:     req.Reference,
			Notes:         req.Notes,
			ReceivedAt:    receivedAt,
			CreatedAt:     now,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		taxLines := make([]paymentdomain.PaymentTaxLine, 0, len(allocated))
		for _, line := range allocated {
			taxLine := paymentdomain.PaymentTaxLine{
				ID:        s.genID.Generate(),
				PaymentID: payment.ID,
				TaxRateID: line.Snapshot.TaxRateID,
				TaxName:   line.Snapshot.Name,
				TaxRate:   line.Snapshot.Rate,
				Amount:    line.Amount.Cents(),
				CreatedAt: now,
			}
			if err := tx.Create(&taxLine).Error; err != nil {
				return err
			}
			taxLines = append(taxLines, taxLine)
		}

		paidAmount := invoice.PaidAmount + payment.Amount
		updates := map[string]any{
			"paid_amount": paidAmount,
			"updated_at":  now,
		}
		if paidAmount >= invoice.TotalAmount {
			updates["status"] = invoicedomain.InvoiceStatusPaid
			updates["paid_at"] = now
		}
		if err := tx.Model(&invoicedomain.Invoice{}).Where("id = ?", invoiceID).Updates(updates).Error; err != nil {
			return err
		}

		receipt = paymentdomain.Receipt{Payment: payment, TaxLines: taxLines}
		return nil
	})
	if err != nil {
		return paymentdomain.Receipt{}, err
	}

	s.log.Info("payment recorded",
		zap.String("id", receipt.Payment.ID.String()),
		zap.String("invoice_id", invoiceID.String()),
		zap.String("method", string(receipt.Payment.Method)),
		zap.Int64("amount", receipt.Payment.Amount))
	return receipt, nil
}

func (s *Service) Get(ctx context.Context, id string) (paymentdomain.Receipt, error) {
	paymentID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return paymentdomain.Receipt{}, paymentdomain.ErrInvalidPaymentID
	}

	payment, err := s.repo.FindByID(ctx, paymentID)
	if err != nil {
		return paymentdomain.Receipt{}, err
	}
	if payment == nil {
		return paymentdomain.Receipt{}, paymentdomain.ErrPaymentNotFound
	}

	taxLines, err := s.repo.TaxLines(ctx, paymentID)
	if err != nil {
		return paymentdomain.Receipt{}, err
	}
	return paymentdomain.Receipt{Payment: *payment, TaxLines: taxLines}, nil
}

func (s *Service) ListByInvoice(ctx context.Context, invoiceID string) ([]paymentdomain.Payment, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(invoiceID))
	if err != nil {
		return nil, invoicedomain.ErrInvalidInvoiceID
	}
	return s.repo.ListByInvoice(ctx, id)
}
