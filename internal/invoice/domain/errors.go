package domain

import "errors"

var (
	ErrInvalidInvoiceID = errors.New("invalid_invoice_id")
	ErrInvoiceNotFound  = errors.New("invoice_not_found")
	ErrInvoiceNotDraft  = errors.New("invoice_not_draft")
	ErrInvoiceNotOpen   = errors.New("invoice_not_open")
	ErrInvoiceEmpty     = errors.New("invoice_has_no_items")
	ErrItemNotFound     = errors.New("invoice_item_not_found")
	ErrInvalidItem      = errors.New("invalid_invoice_item")
	ErrUnknownTaxRate   = errors.New("unknown_tax_rate")
)
