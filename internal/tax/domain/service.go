package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Repository provides access to persisted tax rates.
type Repository interface {
	Create(ctx context.Context, rate *TaxRate) error
	FindByID(ctx context.Context, id snowflake.ID) (*TaxRate, error)
	FindByIDs(ctx context.Context, ids []snowflake.ID) ([]TaxRate, error)
	ListActive(ctx context.Context) ([]TaxRate, error)
	List(ctx context.Context) ([]TaxRate, error)
	SetActive(ctx context.Context, id snowflake.ID, active bool) error
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*TaxRate, error)
	List(ctx context.Context) ([]TaxRate, error)
	ListActive(ctx context.Context) ([]TaxRate, error)
	SnapshotByIDs(ctx context.Context, ids []snowflake.ID) ([]Snapshot, error)
	Disable(ctx context.Context, id string) error
}

type CreateRequest struct {
	Name        string  `json:"name"`
	Rate        float64 `json:"rate"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}
