package domain

import (
	"context"
	"time"

	"github.com/snusnumrick/dojoflow/internal/discount/engine"
	"github.com/snusnumrick/dojoflow/internal/money"
)

type CreateCodeRequest struct {
	Code       string      `json:"code"`
	Kind       engine.Kind `json:"kind"`
	Amount     money.Money `json:"amount"`
	Percent    float64     `json:"percent"`
	MinSpend   money.Money `json:"min_spend"`
	UsageLimit *int32      `json:"usage_limit,omitempty"`
	ValidFrom  *time.Time  `json:"valid_from,omitempty"`
	ValidTo    *time.Time  `json:"valid_to,omitempty"`
}

// Application is the outcome of previewing or redeeming a code against an
// invoice subtotal.
type Application struct {
	Code     string      `json:"code"`
	Discount money.Money `json:"discount"`
}

type Repository interface {
	Create(ctx context.Context, code *DiscountCode) error
	FindByCode(ctx context.Context, code string) (*DiscountCode, error)
	List(ctx context.Context) ([]DiscountCode, error)
	SetActive(ctx context.Context, code string, active bool) error
}

type Service interface {
	Create(ctx context.Context, req CreateCodeRequest) (*DiscountCode, error)
	List(ctx context.Context) ([]DiscountCode, error)
	// Preview validates the code against a subtotal without consuming a use.
	Preview(ctx context.Context, code string, subtotal money.Money) (Application, error)
	// Redeem validates the code, consumes one use and returns the discount.
	Redeem(ctx context.Context, code string, subtotal money.Money) (Application, error)
	Disable(ctx context.Context, code string) error
}
