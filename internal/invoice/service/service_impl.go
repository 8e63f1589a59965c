package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/snusnumrick/dojoflow/internal/config"
	"github.com/snusnumrick/dojoflow/internal/invoice/calc"
	invoicedomain "github.com/snusnumrick/dojoflow/internal/invoice/domain"
	"github.com/snusnumrick/dojoflow/internal/invoice/format"
	"github.com/snusnumrick/dojoflow/internal/money"
	taxdomain "github.com/snusnumrick/dojoflow/internal/tax/domain"
	pkgdb "github.com/snusnumrick/dojoflow/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Config config.Config
	Repo   invoicedomain.Repository
	TaxSvc taxdomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	currency string
	repo     invoicedomain.Repository
	taxSvc   taxdomain.Service
}

func NewService(p ServiceParam) invoicedomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("invoice.service"),
		genID:    p.GenID,
		currency: p.Config.Currency,
		repo:     p.Repo,
		taxSvc:   p.TaxSvc,
	}
}

func (s *Service) CreateDraft(ctx context.Context, req invoicedomain.CreateInvoiceRequest) (*invoicedomain.Invoice, error) {
	familyID, err := snowflake.ParseString(strings.TrimSpace(req.FamilyID))
	if err != nil {
		return nil, invoicedomain.ErrInvalidInvoiceID
	}

	now := time.Now().UTC()
	invoice := &invoicedomain.Invoice{
		ID:        s.genID.Generate(),
		FamilyID:  familyID,
		Status:    invoicedomain.InvoiceStatusDraft,
		Currency:  s.currency,
		DueAt:     req.DueAt,
		Metadata:  req.Metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}

	items := make([]invoicedomain.InvoiceItem, 0, len(req.Items))
	for _, input := range req.Items {
		item, err := s.buildItem(ctx, invoice.ID, input, now)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(invoice).Error; err != nil {
			return err
		}
		for i := range items {
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("invoice draft created",
		zap.String("id", invoice.ID.String()),
		zap.String("family_id", familyID.String()),
		zap.Int("items", len(items)))
	return invoice, nil
}

func (s *Service) AddItem(ctx context.Context, invoiceID string, input invoicedomain.ItemInput) (*invoicedomain.InvoiceItem, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(invoiceID))
	if err != nil {
		return nil, invoicedomain.ErrInvalidInvoiceID
	}

	var created *invoicedomain.InvoiceItem
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err := s.loadForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if invoice.Status != invoicedomain.InvoiceStatusDraft {
			return invoicedomain.ErrInvoiceNotDraft
		}

		item, err := s.buildItem(ctx, invoice.ID, input, time.Now().UTC())
		if err != nil {
			return err
		}
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		created = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) RemoveItem(ctx context.Context, invoiceID, itemID string) error {
	id, err := snowflake.ParseString(strings.TrimSpace(invoiceID))
	if err != nil {
		return invoicedomain.ErrInvalidInvoiceID
	}
	lineID, err := snowflake.ParseString(strings.TrimSpace(itemID))
	if err != nil {
		return invoicedomain.ErrItemNotFound
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err := s.loadForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if invoice.Status != invoicedomain.InvoiceStatusDraft {
			return invoicedomain.ErrInvoiceNotDraft
		}

		result := tx.Where("id = ? AND invoice_id = ?", lineID, id).
			Delete(&invoicedomain.InvoiceItem{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return invoicedomain.ErrItemNotFound
		}
		return nil
	})
}

func (s *Service) Get(ctx context.Context, id string) (invoicedomain.InvoiceDetail, error) {
	invoiceID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return invoicedomain.InvoiceDetail{}, invoicedomain.ErrInvalidInvoiceID
	}

	invoice, err := s.repo.FindByID(ctx, invoiceID)
	if err != nil {
		return invoicedomain.InvoiceDetail{}, err
	}
	if invoice == nil {
		return invoicedomain.InvoiceDetail{}, invoicedomain.ErrInvoiceNotFound
	}

	items, err := s.repo.Items(ctx, invoiceID)
	if err != nil {
		return invoicedomain.InvoiceDetail{}, err
	}
	taxLines, err := s.repo.TaxLines(ctx, invoiceID)
	if err != nil {
		return invoicedomain.InvoiceDetail{}, err
	}

	return invoicedomain.InvoiceDetail{Invoice: *invoice, Items: items, TaxLines: taxLines}, nil
}

func (s *Service) List(ctx context.Context, req invoicedomain.ListInvoiceRequest) ([]invoicedomain.Invoice, error) {
	return s.repo.Find(ctx, req)
}

// Finalize computes the invoice totals, freezes the tax lines and assigns the
// invoice number. After this the document is immutable; payments only adjust
// paid_amount and status.
func (s *Service) Finalize(ctx context.Context, id string) (*invoicedomain.Invoice, error) {
	invoiceID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, invoicedomain.ErrInvalidInvoiceID
	}

	var finalized *invoicedomain.Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err := s.loadForUpdate(ctx, tx, invoiceID)
		if err != nil {
			return err
		}
		if invoice.Status != invoicedomain.InvoiceStatusDraft {
			return invoicedomain.ErrInvoiceNotDraft
		}

		var items []invoicedomain.InvoiceItem
		if err := tx.Where("invoice_id = ?", invoiceID).Order("id ASC").Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return invoicedomain.ErrInvoiceEmpty
		}

		snapshots, err := s.resolveSnapshots(ctx, items)
		if err != nil {
			return err
		}

		lines := make([]calc.LineItem, 0, len(items))
		for _, item := range items {
			line, err := s.toCalcItem(item, invoice.Currency, snapshots)
			if err != nil {
				return err
			}
			lines = append(lines, line)
		}

		totals := calc.InvoiceTotals(lines)
		buckets := calc.AggregateTaxBuckets(lines)

		now := time.Now().UTC()
		for i, item := range items {
			amount := calc.Total(lines[i]).Cents()
			if err := tx.Model(&invoicedomain.InvoiceItem{}).
				Where("id = ?", item.ID).
				Update("amount", amount).Error; err != nil {
				return err
			}
		}

		for _, bucket := range buckets {
			taxLine := invoicedomain.InvoiceTaxLine{
				ID:        s.genID.Generate(),
				InvoiceID: invoiceID,
				TaxRateID: bucket.Snapshot.TaxRateID,
				TaxName:   bucket.Snapshot.Name,
				TaxRate:   bucket.Snapshot.Rate,
				Amount:    bucket.Amount.Cents(),
				CreatedAt: now,
			}
			if err := tx.Create(&taxLine).Error; err != nil {
				return err
			}
		}

		number, err := s.nextInvoiceNumber(tx, now)
		if err != nil {
			return err
		}

		updates := map[string]any{
			"status":          invoicedomain.InvoiceStatusFinalized,
			"invoice_number":  number,
			"subtotal_amount": totals.Subtotal.Cents(),
			"discount_amount": totals.Discount.Cents(),
			"tax_amount":      totals.Tax.Cents(),
			"total_amount":    totals.Total.Cents(),
			"issued_at":       now,
			"finalized_at":    now,
			"updated_at":      now,
		}
		if err := tx.Model(&invoicedomain.Invoice{}).Where("id = ?", invoiceID).Updates(updates).Error; err != nil {
			return err
		}

		invoice.Status = invoicedomain.InvoiceStatusFinalized
		invoice.InvoiceNumber = &number
		invoice.SubtotalAmount = totals.Subtotal.Cents()
		invoice.DiscountAmount = totals.Discount.Cents()
		invoice.TaxAmount = totals.Tax.Cents()
		invoice.TotalAmount = totals.Total.Cents()
		invoice.IssuedAt = &now
		invoice.FinalizedAt = &now
		invoice.UpdatedAt = now
		finalized = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("invoice finalized",
		zap.String("id", finalized.ID.String()),
		zap.Stringp("invoice_number", finalized.InvoiceNumber),
		zap.Int64("total_amount", finalized.TotalAmount))
	return finalized, nil
}

func (s *Service) Void(ctx context.Context, id, reason string) error {
	invoiceID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return invoicedomain.ErrInvalidInvoiceID
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err := s.loadForUpdate(ctx, tx, invoiceID)
		if err != nil {
			return err
		}
		switch invoice.Status {
		case invoicedomain.InvoiceStatusDraft, invoicedomain.InvoiceStatusFinalized:
		default:
			return invoicedomain.ErrInvoiceNotOpen
		}

		now := time.Now().UTC()
		updates := map[string]any{
			"status":     invoicedomain.InvoiceStatusVoid,
			"voided_at":  now,
			"updated_at": now,
		}
		return tx.Model(&invoicedomain.Invoice{}).Where("id = ?", invoiceID).Updates(updates).Error
	})
	if err != nil {
		return err
	}

	s.log.Info("invoice voided",
		zap.String("id", invoiceID.String()),
		zap.String("reason", strings.TrimSpace(reason)))
	return nil
}

func (s *Service) buildItem(ctx context.Context, invoiceID snowflake.ID, input invoicedomain.ItemInput, now time.Time) (*invoicedomain.InvoiceItem, error) {
	taxRateIDs := make([]snowflake.ID, 0, len(input.TaxRateIDs))
	for _, raw := range input.TaxRateIDs {
		rateID, err := snowflake.ParseString(strings.TrimSpace(raw))
		if err != nil {
			return nil, invoicedomain.ErrUnknownTaxRate
		}
		taxRateIDs = append(taxRateIDs, rateID)
	}
	if len(taxRateIDs) > 0 {
		snapshots, err := s.taxSvc.SnapshotByIDs(ctx, taxRateIDs)
		if err != nil {
			return nil, err
		}
		if len(snapshots) != len(taxRateIDs) {
			return nil, invoicedomain.ErrUnknownTaxRate
		}
	}

	line := calc.LineItem{
		Type:         calc.ItemType(input.Type),
		Description:  strings.TrimSpace(input.Description),
		Quantity:     input.Quantity,
		UnitPrice:    input.UnitPrice,
		DiscountRate: input.DiscountRate,
	}
	if reasons := calc.ValidateLineItem(line); len(reasons) > 0 {
		return nil, fmt.Errorf("%w: %s", invoicedomain.ErrInvalidItem, strings.Join(reasons, "; "))
	}

	return &invoicedomain.InvoiceItem{
		ID:           s.genID.Generate(),
		InvoiceID:    invoiceID,
		ItemType:     string(line.Type),
		Description:  line.Description,
		Quantity:     line.Quantity,
		UnitPrice:    line.UnitPrice.Cents(),
		DiscountRate: line.DiscountRate,
		TaxRateIDs:   taxRateIDs,
		Amount:       calc.Total(line).Cents(),
		CreatedAt:    now,
	}, nil
}

// resolveSnapshots freezes every tax rate referenced by the invoice's items,
// keyed by rate id. A referenced rate missing from tax_rates aborts the
// finalization.
func (s *Service) resolveSnapshots(ctx context.Context, items []invoicedomain.InvoiceItem) (map[snowflake.ID]taxdomain.Snapshot, error) {
	var distinct []snowflake.ID
	seen := make(map[snowflake.ID]bool)
	for _, item := range items {
		for _, rateID := range item.TaxRateIDs {
			if !seen[rateID] {
				seen[rateID] = true
				distinct = append(distinct, rateID)
			}
		}
	}
	if len(distinct) == 0 {
		return map[snowflake.ID]taxdomain.Snapshot{}, nil
	}

	snapshots, err := s.taxSvc.SnapshotByIDs(ctx, distinct)
	if err != nil {
		return nil, err
	}
	byID := make(map[snowflake.ID]taxdomain.Snapshot, len(snapshots))
	for _, snap := range snapshots {
		byID[snap.TaxRateID] = snap
	}
	for _, rateID := range distinct {
		if _, ok := byID[rateID]; !ok {
			return nil, invoicedomain.ErrUnknownTaxRate
		}
	}
	return byID, nil
}

func (s *Service) toCalcItem(item invoicedomain.InvoiceItem, currency string, snapshots map[snowflake.ID]taxdomain.Snapshot) (calc.LineItem, error) {
	rates := make([]taxdomain.Snapshot, 0, len(item.TaxRateIDs))
	for _, rateID := range item.TaxRateIDs {
		snap, ok := snapshots[rateID]
		if !ok {
			return calc.LineItem{}, invoicedomain.ErrUnknownTaxRate
		}
		rates = append(rates, snap)
	}
	return calc.LineItem{
		Type:         calc.ItemType(item.ItemType),
		Description:  item.Description,
		Quantity:     item.Quantity,
		UnitPrice:    money.FromCentsIn(item.UnitPrice, currency),
		DiscountRate: item.DiscountRate,
		TaxRates:     rates,
	}, nil
}

func (s *Service) loadForUpdate(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*invoicedomain.Invoice, error) {
	var invoice invoicedomain.Invoice
	err := pkgdb.ForUpdate(tx.WithContext(ctx)).First(&invoice, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, invoicedomain.ErrInvoiceNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

func (s *Service) nextInvoiceNumber(tx *gorm.DB, issuedAt time.Time) (string, error) {
	var assigned int64
	err := tx.Model(&invoicedomain.Invoice{}).
		Where("invoice_number IS NOT NULL").
		Count(&assigned).Error
	if err != nil {
		return "", err
	}
	return format.FormatInvoiceNumber(format.DefaultInvoiceNumberTemplate, issuedAt, assigned+1)
}
