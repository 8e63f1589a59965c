package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/snusnumrick/dojoflow/internal/config"
	invoicedomain "github.com/snusnumrick/dojoflow/internal/invoice/domain"
	invoicerepo "github.com/snusnumrick/dojoflow/internal/invoice/repository"
	invoiceservice "github.com/snusnumrick/dojoflow/internal/invoice/service"
	"github.com/snusnumrick/dojoflow/internal/money"
	paymentdomain "github.com/snusnumrick/dojoflow/internal/payment/domain"
	paymentrepo "github.com/snusnumrick/dojoflow/internal/payment/repository"
	taxdomain "github.com/snusnumrick/dojoflow/internal/tax/domain"
	taxrepo "github.com/snusnumrick/dojoflow/internal/tax/repository"
	taxservice "github.com/snusnumrick/dojoflow/internal/tax/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	db         *gorm.DB
	node       *snowflake.Node
	svc        paymentdomain.Service
	invoiceSvc invoicedomain.Service
	taxSvc     taxdomain.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceItem{},
		&invoicedomain.InvoiceTaxLine{},
		&paymentdomain.Payment{},
		&paymentdomain.PaymentTaxLine{},
		&taxdomain.TaxRate{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	taxSvc := taxservice.NewService(taxservice.ServiceParam{
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  taxrepo.NewRepository(db),
	})
	invoiceSvc := invoiceservice.NewService(invoiceservice.ServiceParam{
		DB:     db,
		Log:    zap.NewNop(),
		GenID:  node,
		Config: config.Config{Currency: "CAD"},
		Repo:   invoicerepo.NewRepository(db),
		TaxSvc: taxSvc,
	})
	svc := NewService(ServiceParam{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  paymentrepo.NewRepository(db),
	})

	return &testEnv{db: db, node: node, svc: svc, invoiceSvc: invoiceSvc, taxSvc: taxSvc}
}

// finalizedInvoice seeds a $100.00 invoice carrying $10.00 of tax across one
// 10% rate: total $110.00.
func (e *testEnv) finalizedInvoice(t *testing.T) *invoicedomain.Invoice {
	t.Helper()
	ctx := context.Background()

	rate, err := e.taxSvc.Create(ctx, taxdomain.CreateRequest{Name: "HST", Rate: 0.10})
	require.NoError(t, err)

	draft, err := e.invoiceSvc.CreateDraft(ctx, invoicedomain.CreateInvoiceRequest{
		FamilyID: e.node.Generate().String(),
		Items: []invoicedomain.ItemInput{
			{
				Type:        "enrollment",
				Description: "Adult program, monthly",
				Quantity:    1,
				UnitPrice:   money.FromCents(10000),
				TaxRateIDs:  []string{rate.ID.String()},
			},
		},
	})
	require.NoError(t, err)

	finalized, err := e.invoiceSvc.Finalize(ctx, draft.ID.String())
	require.NoError(t, err)
	require.Equal(t, int64(11000), finalized.TotalAmount)
	require.Equal(t, int64(1000), finalized.TaxAmount)
	return finalized
}

func TestRecord_PartialPaymentAllocatesTaxProportionally(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	invoice := env.finalizedInvoice(t)

	// $44.00 of $110.00 is 40% of the invoice, so 40% of the $10.00 tax
	receipt, err := env.svc.Record(ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID: invoice.ID.String(),
		Method:    paymentdomain.MethodCash,
		Amount:    money.FromCents(4400),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4400), receipt.Payment.Amount)
	assert.Contains(t, receipt.Payment.ReceiptNumber, "RCPT-")
	require.Len(t, receipt.TaxLines, 1)
	assert.Equal(t, "HST", receipt.TaxLines[0].TaxName)
	assert.Equal(t, int64(400), receipt.TaxLines[0].Amount)

	// invoice stays open with the balance reduced
	detail, err := env.invoiceSvc.Get(ctx, invoice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, invoicedomain.InvoiceStatusFinalized, detail.Invoice.Status)
	assert.Equal(t, int64(4400), detail.Invoice.PaidAmount)
	assert.Equal(t, int64(6600), detail.Invoice.BalanceDue())
}

func TestRecord_FullPaymentMarksInvoicePaid(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	invoice := env.finalizedInvoice(t)

	receipt, err := env.svc.Record(ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID: invoice.ID.String(),
		Method:    paymentdomain.MethodCard,
		Amount:    money.FromCents(11000),
	})
	require.NoError(t, err)
	require.Len(t, receipt.TaxLines, 1)
	assert.Equal(t, int64(1000), receipt.TaxLines[0].Amount)

	detail, err := env.invoiceSvc.Get(ctx, invoice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, invoicedomain.InvoiceStatusPaid, detail.Invoice.Status)
	assert.NotNil(t, detail.Invoice.PaidAt)
	assert.Zero(t, detail.Invoice.BalanceDue())
}

func TestRecord_TwoPartialsCompleteTheInvoice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	invoice := env.finalizedInvoice(t)

	_, err := env.svc.Record(ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID: invoice.ID.String(),
		Method:    paymentdomain.MethodCheck,
		Amount:    money.FromCents(5500),
	})
	require.NoError(t, err)

	_, err = env.svc.Record(ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID: invoice.ID.String(),
		Method:    paymentdomain.MethodCheck,
		Amount:    money.FromCents(5500),
	})
	require.NoError(t, err)

	detail, err := env.invoiceSvc.Get(ctx, invoice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, invoicedomain.InvoiceStatusPaid, detail.Invoice.Status)

	payments, err := env.svc.ListByInvoice(ctx, invoice.ID.String())
	require.NoError(t, err)
	assert.Len(t, payments, 2)
}

func TestRecord_Rejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	invoice := env.finalizedInvoice(t)

	// overpayment
	_, err := env.svc.Record(ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID: invoice.ID.String(),
		Method:    paymentdomain.MethodCash,
		Amount:    money.FromCents(12000),
	})
	assert.ErrorIs(t, err, paymentdomain.ErrOverpayment)

	// zero amount
	_, err = env.svc.Record(ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID: invoice.ID.String(),
		Method:    paymentdomain.MethodCash,
		Amount:    money.FromCents(0),
	})
	assert.ErrorIs(t, err, paymentdomain.ErrInvalidAmount)

	// unknown method
	_, err = env.svc.Record(ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID: invoice.ID.String(),
		Method:    "barter",
		Amount:    money.FromCents(100),
	})
	assert.ErrorIs(t, err, paymentdomain.ErrInvalidMethod)

	// currency mismatch
	_, err = env.svc.Record(ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID: invoice.ID.String(),
		Method:    paymentdomain.MethodCash,
		Amount:    money.FromCentsIn(100, "USD"),
	})
	assert.ErrorIs(t, err, paymentdomain.ErrInvalidAmount)

	// draft invoices take no payments
	draft, err := env.invoiceSvc.CreateDraft(ctx, invoicedomain.CreateInvoiceRequest{
		FamilyID: env.node.Generate().String(),
	})
	require.NoError(t, err)
	_, err = env.svc.Record(ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID: draft.ID.String(),
		Method:    paymentdomain.MethodCash,
		Amount:    money.FromCents(100),
	})
	assert.ErrorIs(t, err, paymentdomain.ErrInvoiceNotOpen)
}

func TestGet_ReturnsReceiptWithTaxLines(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	invoice := env.finalizedInvoice(t)

	recorded, err := env.svc.Record(ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID: invoice.ID.String(),
		Method:    paymentdomain.MethodETransfer,
		Amount:    money.FromCents(2200),
	})
	require.NoError(t, err)

	receipt, err := env.svc.Get(ctx, recorded.Payment.ID.String())
	require.NoError(t, err)
	assert.Equal(t, recorded.Payment.ReceiptNumber, receipt.Payment.ReceiptNumber)
	require.Len(t, receipt.TaxLines, 1)
	assert.Equal(t, int64(200), receipt.TaxLines[0].Amount)
}
