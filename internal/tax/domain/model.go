// Package domain contains persistence models for tax rates.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// TaxRate is a named percentage applied to taxable line items, e.g. GST and
// PST stacked on the same charge.
//
// Once a rate has been referenced by a finalized invoice it must never change
// a historical document: consuming code snapshots name/rate/description onto
// invoice and payment tax lines at calculation time and never re-joins this
// table.
type TaxRate struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"type:text;not null" json:"name"`
	Rate        float64      `gorm:"type:numeric(8,6);not null" json:"rate"` // decimal fraction, 0.05 for 5%
	Description *string      `gorm:"type:text" json:"description,omitempty"`
	Active      bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (TaxRate) TableName() string { return "tax_rates" }

func (t *TaxRate) Validate() error {
	if t.Name == "" {
		return ErrInvalidName
	}
	if t.Rate < 0 || t.Rate >= 1 {
		return ErrInvalidTaxRate
	}
	return nil
}

// Snapshot is the frozen copy of a rate written onto invoice and payment tax
// lines so historical receipts survive later edits to the rate.
type Snapshot struct {
	TaxRateID   snowflake.ID
	Name        string
	Rate        float64
	Description *string
}

// Snapshot freezes the rate's current name/rate/description.
func (t TaxRate) Snapshot() Snapshot {
	return Snapshot{
		TaxRateID:   t.ID,
		Name:        t.Name,
		Rate:        t.Rate,
		Description: t.Description,
	}
}
