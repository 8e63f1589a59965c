package domain

import "errors"

var (
	ErrInvalidName    = errors.New("invalid_tax_name")
	ErrInvalidTaxRate = errors.New("invalid_tax_rate")
	ErrInvalidID      = errors.New("invalid_tax_id")
	ErrNotFound       = errors.New("not_found")
)
