package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/snusnumrick/dojoflow/internal/invoice/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) invoicedomain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, invoice *invoicedomain.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*invoicedomain.Invoice, error) {
	var invoice invoicedomain.Invoice
	err := r.db.WithContext(ctx).First(&invoice, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

func (r *repository) Find(ctx context.Context, req invoicedomain.ListInvoiceRequest) ([]invoicedomain.Invoice, error) {
	q := r.db.WithContext(ctx).Model(&invoicedomain.Invoice{})
	if req.FamilyID != nil {
		familyID, err := snowflake.ParseString(*req.FamilyID)
		if err != nil {
			return nil, invoicedomain.ErrInvalidInvoiceID
		}
		q = q.Where("family_id = ?", familyID)
	}
	if req.Status != nil {
		q = q.Where("status = ?", *req.Status)
	}
	var invoices []invoicedomain.Invoice
	if err := q.Order("created_at DESC").Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *repository) Items(ctx context.Context, invoiceID snowflake.ID) ([]invoicedomain.InvoiceItem, error) {
	var items []invoicedomain.InvoiceItem
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) TaxLines(ctx context.Context, invoiceID snowflake.ID) ([]invoicedomain.InvoiceTaxLine, error) {
	var lines []invoicedomain.InvoiceTaxLine
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("id ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}
