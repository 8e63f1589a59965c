package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	taxdomain "github.com/snusnumrick/dojoflow/internal/tax/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) taxdomain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rate *taxdomain.TaxRate) error {
	return r.db.WithContext(ctx).Create(rate).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*taxdomain.TaxRate, error) {
	var rate taxdomain.TaxRate
	err := r.db.WithContext(ctx).First(&rate, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &rate, nil
}

func (r *repository) FindByIDs(ctx context.Context, ids []snowflake.ID) ([]taxdomain.TaxRate, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rates []taxdomain.TaxRate
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&rates).Error
	if err != nil {
		return nil, err
	}
	return rates, nil
}

func (r *repository) ListActive(ctx context.Context) ([]taxdomain.TaxRate, error) {
	var rates []taxdomain.TaxRate
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("id ASC").
		Find(&rates).Error
	if err != nil {
		return nil, err
	}
	return rates, nil
}

func (r *repository) List(ctx context.Context) ([]taxdomain.TaxRate, error) {
	var rates []taxdomain.TaxRate
	err := r.db.WithContext(ctx).Order("id ASC").Find(&rates).Error
	if err != nil {
		return nil, err
	}
	return rates, nil
}

func (r *repository) SetActive(ctx context.Context, id snowflake.ID, active bool) error {
	return r.db.WithContext(ctx).
		Model(&taxdomain.TaxRate{}).
		Where("id = ?", id).
		Update("active", active).Error
}
