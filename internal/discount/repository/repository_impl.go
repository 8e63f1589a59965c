package repository

import (
	"context"
	"strings"

	discountdomain "github.com/snusnumrick/dojoflow/internal/discount/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) discountdomain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, code *discountdomain.DiscountCode) error {
	return r.db.WithContext(ctx).Create(code).Error
}

func (r *repository) FindByCode(ctx context.Context, code string) (*discountdomain.DiscountCode, error) {
	var found discountdomain.DiscountCode
	err := r.db.WithContext(ctx).
		First(&found, "code = ?", strings.ToUpper(strings.TrimSpace(code))).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &found, nil
}

func (r *repository) List(ctx context.Context) ([]discountdomain.DiscountCode, error) {
	var codes []discountdomain.DiscountCode
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&codes).Error
	if err != nil {
		return nil, err
	}
	return codes, nil
}

func (r *repository) SetActive(ctx context.Context, code string, active bool) error {
	return r.db.WithContext(ctx).
		Model(&discountdomain.DiscountCode{}).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		Update("active", active).Error
}
