// Package domain contains persistence models for discount codes.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/snusnumrick/dojoflow/internal/discount/engine"
)

// DiscountCode is a redeemable code applied to a draft invoice as a credit
// line. Fixed codes take Amount cents off; percent codes take Percent of the
// invoice subtotal.
type DiscountCode struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	Code       string       `gorm:"type:text;not null;uniqueIndex" json:"code"`
	Kind       engine.Kind  `gorm:"type:text;not null" json:"kind"`
	Amount     int64        `gorm:"not null;default:0" json:"amount"` // cents
	Percent    float64      `gorm:"not null;default:0" json:"percent"`
	MinSpend   int64        `gorm:"not null;default:0" json:"min_spend"` // cents
	UsageLimit *int32       `gorm:"" json:"usage_limit,omitempty"`
	UsedCount  int32        `gorm:"not null;default:0" json:"used_count"`
	ValidFrom  *time.Time   `gorm:"" json:"valid_from,omitempty"`
	ValidTo    *time.Time   `gorm:"" json:"valid_to,omitempty"`
	Active     bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (DiscountCode) TableName() string { return "discount_codes" }

// Rule maps the stored code onto the engine's runtime constraints.
func (d DiscountCode) Rule() engine.Rule {
	return engine.Rule{
		Code:       d.Code,
		Kind:       d.Kind,
		Amount:     d.Amount,
		Percent:    d.Percent,
		MinSpend:   d.MinSpend,
		UsageLimit: d.UsageLimit,
		UsedCount:  d.UsedCount,
		ValidFrom:  d.ValidFrom,
		ValidTo:    d.ValidTo,
		Active:     d.Active,
	}
}
