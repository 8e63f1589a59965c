package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/snusnumrick/dojoflow/internal/config"
	invoicedomain "github.com/snusnumrick/dojoflow/internal/invoice/domain"
	invoicerepo "github.com/snusnumrick/dojoflow/internal/invoice/repository"
	"github.com/snusnumrick/dojoflow/internal/money"
	taxdomain "github.com/snusnumrick/dojoflow/internal/tax/domain"
	taxrepo "github.com/snusnumrick/dojoflow/internal/tax/repository"
	taxservice "github.com/snusnumrick/dojoflow/internal/tax/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	db     *gorm.DB
	node   *snowflake.Node
	svc    invoicedomain.Service
	taxSvc taxdomain.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceItem{},
		&invoicedomain.InvoiceTaxLine{},
		&taxdomain.TaxRate{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	taxSvc := taxservice.NewService(taxservice.ServiceParam{
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  taxrepo.NewRepository(db),
	})

	svc := NewService(ServiceParam{
		DB:     db,
		Log:    zap.NewNop(),
		GenID:  node,
		Config: config.Config{Currency: "CAD"},
		Repo:   invoicerepo.NewRepository(db),
		TaxSvc: taxSvc,
	})

	return &testEnv{db: db, node: node, svc: svc, taxSvc: taxSvc}
}

func (e *testEnv) createTaxRate(t *testing.T, name string, rate float64) *taxdomain.TaxRate {
	t.Helper()
	created, err := e.taxSvc.Create(context.Background(), taxdomain.CreateRequest{Name: name, Rate: rate})
	require.NoError(t, err)
	return created
}

func TestFinalize_ComputesTotalsAndTaxLines(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	gst := env.createTaxRate(t, "GST", 0.05)

	draft, err := env.svc.CreateDraft(ctx, invoicedomain.CreateInvoiceRequest{
		FamilyID: env.node.Generate().String(),
		Items: []invoicedomain.ItemInput{
			{
				Type:         "enrollment",
				Description:  "Youth program, monthly",
				Quantity:     3,
				UnitPrice:    money.FromCents(1000),
				DiscountRate: 10,
				TaxRateIDs:   []string{gst.ID.String()},
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, invoicedomain.InvoiceStatusDraft, draft.Status)
	assert.Nil(t, draft.InvoiceNumber)

	finalized, err := env.svc.Finalize(ctx, draft.ID.String())
	require.NoError(t, err)
	assert.Equal(t, invoicedomain.InvoiceStatusFinalized, finalized.Status)
	assert.Equal(t, int64(3000), finalized.SubtotalAmount)
	assert.Equal(t, int64(300), finalized.DiscountAmount)
	assert.Equal(t, int64(135), finalized.TaxAmount)
	assert.Equal(t, int64(2835), finalized.TotalAmount)
	require.NotNil(t, finalized.InvoiceNumber)
	assert.Regexp(t, `^INV-\d{6}-00001$`, *finalized.InvoiceNumber)
	assert.NotNil(t, finalized.FinalizedAt)

	detail, err := env.svc.Get(ctx, draft.ID.String())
	require.NoError(t, err)
	require.Len(t, detail.TaxLines, 1)
	assert.Equal(t, gst.ID, detail.TaxLines[0].TaxRateID)
	assert.Equal(t, "GST", detail.TaxLines[0].TaxName)
	assert.Equal(t, 0.05, detail.TaxLines[0].TaxRate)
	assert.Equal(t, int64(135), detail.TaxLines[0].Amount)
	require.Len(t, detail.Items, 1)
	assert.Equal(t, int64(2835), detail.Items[0].Amount)
}

func TestFinalize_SnapshotsSurviveRateEdits(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	gst := env.createTaxRate(t, "GST", 0.05)

	draft, err := env.svc.CreateDraft(ctx, invoicedomain.CreateInvoiceRequest{
		FamilyID: env.node.Generate().String(),
		Items: []invoicedomain.ItemInput{
			{
				Type:        "fee",
				Description: "Registration",
				Quantity:    1,
				UnitPrice:   money.FromCents(5000),
				TaxRateIDs:  []string{gst.ID.String()},
			},
		},
	})
	require.NoError(t, err)
	_, err = env.svc.Finalize(ctx, draft.ID.String())
	require.NoError(t, err)

	// mutate the live rate after finalization
	require.NoError(t, env.db.Model(&taxdomain.TaxRate{}).
		Where("id = ?", gst.ID).
		Updates(map[string]any{"name": "GST (new)", "rate": 0.09}).Error)

	detail, err := env.svc.Get(ctx, draft.ID.String())
	require.NoError(t, err)
	require.Len(t, detail.TaxLines, 1)
	assert.Equal(t, "GST", detail.TaxLines[0].TaxName)
	assert.Equal(t, 0.05, detail.TaxLines[0].TaxRate)
	assert.Equal(t, int64(250), detail.TaxLines[0].Amount)
}

func TestFinalize_RejectsEmptyAndNonDraft(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	draft, err := env.svc.CreateDraft(ctx, invoicedomain.CreateInvoiceRequest{
		FamilyID: env.node.Generate().String(),
	})
	require.NoError(t, err)

	_, err = env.svc.Finalize(ctx, draft.ID.String())
	assert.ErrorIs(t, err, invoicedomain.ErrInvoiceEmpty)

	_, err = env.svc.AddItem(ctx, draft.ID.String(), invoicedomain.ItemInput{
		Type:        "fee",
		Description: "Testing fee",
		Quantity:    1,
		UnitPrice:   money.FromCents(2000),
	})
	require.NoError(t, err)

	_, err = env.svc.Finalize(ctx, draft.ID.String())
	require.NoError(t, err)

	// already finalized
	_, err = env.svc.Finalize(ctx, draft.ID.String())
	assert.ErrorIs(t, err, invoicedomain.ErrInvoiceNotDraft)

	_, err = env.svc.AddItem(ctx, draft.ID.String(), invoicedomain.ItemInput{
		Type:        "fee",
		Description: "Late fee",
		Quantity:    1,
		UnitPrice:   money.FromCents(500),
	})
	assert.ErrorIs(t, err, invoicedomain.ErrInvoiceNotDraft)
}

func TestAddItem_ValidatesInput(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	draft, err := env.svc.CreateDraft(ctx, invoicedomain.CreateInvoiceRequest{
		FamilyID: env.node.Generate().String(),
	})
	require.NoError(t, err)

	_, err = env.svc.AddItem(ctx, draft.ID.String(), invoicedomain.ItemInput{
		Type:        "fee",
		Description: "",
		Quantity:    0,
		UnitPrice:   money.FromCents(100),
	})
	assert.ErrorIs(t, err, invoicedomain.ErrInvalidItem)

	_, err = env.svc.AddItem(ctx, draft.ID.String(), invoicedomain.ItemInput{
		Type:        "fee",
		Description: "Taxed fee",
		Quantity:    1,
		UnitPrice:   money.FromCents(100),
		TaxRateIDs:  []string{env.node.Generate().String()},
	})
	assert.ErrorIs(t, err, invoicedomain.ErrUnknownTaxRate)
}

func TestRemoveItem_OnlyWhileDraft(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	draft, err := env.svc.CreateDraft(ctx, invoicedomain.CreateInvoiceRequest{
		FamilyID: env.node.Generate().String(),
		Items: []invoicedomain.ItemInput{
			{Type: "fee", Description: "Fee A", Quantity: 1, UnitPrice: money.FromCents(1000)},
			{Type: "fee", Description: "Fee B", Quantity: 1, UnitPrice: money.FromCents(2000)},
		},
	})
	require.NoError(t, err)

	detail, err := env.svc.Get(ctx, draft.ID.String())
	require.NoError(t, err)
	require.Len(t, detail.Items, 2)

	require.NoError(t, env.svc.RemoveItem(ctx, draft.ID.String(), detail.Items[0].ID.String()))

	err = env.svc.RemoveItem(ctx, draft.ID.String(), detail.Items[0].ID.String())
	assert.ErrorIs(t, err, invoicedomain.ErrItemNotFound)

	detail, err = env.svc.Get(ctx, draft.ID.String())
	require.NoError(t, err)
	require.Len(t, detail.Items, 1)
	assert.Equal(t, "Fee B", detail.Items[0].Description)
}

func TestVoid_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	draft, err := env.svc.CreateDraft(ctx, invoicedomain.CreateInvoiceRequest{
		FamilyID: env.node.Generate().String(),
		Items: []invoicedomain.ItemInput{
			{Type: "fee", Description: "Fee", Quantity: 1, UnitPrice: money.FromCents(1000)},
		},
	})
	require.NoError(t, err)

	require.NoError(t, env.svc.Void(ctx, draft.ID.String(), "created by mistake"))

	detail, err := env.svc.Get(ctx, draft.ID.String())
	require.NoError(t, err)
	assert.Equal(t, invoicedomain.InvoiceStatusVoid, detail.Invoice.Status)
	assert.NotNil(t, detail.Invoice.VoidedAt)

	// voiding twice is rejected
	err = env.svc.Void(ctx, draft.ID.String(), "again")
	assert.ErrorIs(t, err, invoicedomain.ErrInvoiceNotOpen)
}

func TestList_FiltersByFamilyAndStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	familyA := env.node.Generate().String()
	familyB := env.node.Generate().String()

	for _, familyID := range []string{familyA, familyA, familyB} {
		_, err := env.svc.CreateDraft(ctx, invoicedomain.CreateInvoiceRequest{FamilyID: familyID})
		require.NoError(t, err)
	}

	invoices, err := env.svc.List(ctx, invoicedomain.ListInvoiceRequest{FamilyID: &familyA})
	require.NoError(t, err)
	assert.Len(t, invoices, 2)

	status := invoicedomain.InvoiceStatusFinalized
	invoices, err = env.svc.List(ctx, invoicedomain.ListInvoiceRequest{Status: &status})
	require.NoError(t, err)
	assert.Empty(t, invoices)
}
