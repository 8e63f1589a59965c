// Package engine implements the pure discount code rules: validity windows,
// usage limits, minimum spend and amount computation. Storage and counters
// live in the discount service.
package engine

import (
	"errors"
	"math"
	"time"
)

var (
	ErrCodeInactive      = errors.New("discount code not active")
	ErrCodeNotStarted    = errors.New("discount code not started")
	ErrCodeExpired       = errors.New("discount code expired")
	ErrUsageLimitReached = errors.New("discount code usage limit reached")
	ErrMinimumSpendUnmet = errors.New("discount code minimum spend not met")
	ErrInvalidKind       = errors.New("invalid discount kind")
)

// Kind is how the discount amount is derived.
type Kind string

const (
	KindFixed   Kind = "fixed"   // Amount cents off
	KindPercent Kind = "percent" // Percent of the subtotal
)

// Rule captures the runtime constraints of a discount code. Amounts are
// integer cents.
type Rule struct {
	Code       string
	Kind       Kind
	Amount     int64   // cents, for KindFixed
	Percent    float64 // 0-100, for KindPercent
	MinSpend   int64
	UsageLimit *int32 // nil means unlimited
	UsedCount  int32
	ValidFrom  *time.Time
	ValidTo    *time.Time
	Active     bool
}

// Validate ensures the rule can be applied at the provided instant and
// invoice subtotal.
func (r Rule) Validate(now time.Time, subtotal int64) error {
	if r.Kind != KindFixed && r.Kind != KindPercent {
		return ErrInvalidKind
	}
	if !r.Active {
		return ErrCodeInactive
	}
	if r.ValidFrom != nil && now.Before(*r.ValidFrom) {
		return ErrCodeNotStarted
	}
	if r.ValidTo != nil && now.After(*r.ValidTo) {
		return ErrCodeExpired
	}
	if r.UsageLimit != nil && *r.UsageLimit >= 0 && r.UsedCount >= *r.UsageLimit {
		return ErrUsageLimitReached
	}
	if subtotal < r.MinSpend {
		return ErrMinimumSpendUnmet
	}
	return nil
}

// Compute determines the discount in cents for the given subtotal. The result
// is clamped to [0, subtotal]: a code never produces a negative invoice.
func Compute(subtotal int64, r Rule) int64 {
	if subtotal <= 0 {
		return 0
	}
	discount := r.Amount
	if r.Kind == KindPercent {
		if r.Percent <= 0 {
			return 0
		}
		discount = int64(math.Round(float64(subtotal) * r.Percent / 100))
	}
	if discount > subtotal {
		discount = subtotal
	}
	if discount < 0 {
		return 0
	}
	return discount
}
