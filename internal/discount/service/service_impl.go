package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	discountdomain "github.com/snusnumrick/dojoflow/internal/discount/domain"
	"github.com/snusnumrick/dojoflow/internal/discount/engine"
	"github.com/snusnumrick/dojoflow/internal/money"
	pkgdb "github.com/snusnumrick/dojoflow/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  discountdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  discountdomain.Repository
}

func NewService(p ServiceParam) discountdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("discount.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req discountdomain.CreateCodeRequest) (*discountdomain.DiscountCode, error) {
	normalized := strings.ToUpper(strings.TrimSpace(req.Code))
	if normalized == "" {
		return nil, discountdomain.ErrInvalidCode
	}

	now := time.Now().UTC()
	code := &discountdomain.DiscountCode{
		ID:         s.genID.Generate(),
		Code:       normalized,
		Kind:       req.Kind,
		Amount:     req.Amount.Cents(),
		Percent:    req.Percent,
		MinSpend:   req.MinSpend.Cents(),
		UsageLimit: req.UsageLimit,
		ValidFrom:  req.ValidFrom,
		ValidTo:    req.ValidTo,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	switch code.Kind {
	case engine.KindFixed:
		if code.Amount <= 0 {
			return nil, discountdomain.ErrInvalidCode
		}
	case engine.KindPercent:
		if code.Percent <= 0 || code.Percent > 100 {
			return nil, discountdomain.ErrInvalidCode
		}
	default:
		return nil, engine.ErrInvalidKind
	}

	if err := s.repo.Create(ctx, code); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return nil, discountdomain.ErrDuplicateCode
		}
		return nil, err
	}

	s.log.Info("discount code created",
		zap.String("code", code.Code),
		zap.String("kind", string(code.Kind)))
	return code, nil
}

func (s *Service) List(ctx context.Context) ([]discountdomain.DiscountCode, error) {
	return s.repo.List(ctx)
}

func (s *Service) Preview(ctx context.Context, code string, subtotal money.Money) (discountdomain.Application, error) {
	found, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return discountdomain.Application{}, err
	}
	if found == nil {
		return discountdomain.Application{}, discountdomain.ErrCodeNotFound
	}

	rule := found.Rule()
	if err := rule.Validate(time.Now().UTC(), subtotal.Cents()); err != nil {
		return discountdomain.Application{}, err
	}
	discount := engine.Compute(subtotal.Cents(), rule)
	return discountdomain.Application{
		Code:     found.Code,
		Discount: money.FromCentsIn(discount, subtotal.Currency()),
	}, nil
}

// Redeem consumes one use. The code row is locked so concurrent redemptions
// cannot overshoot the usage limit.
func (s *Service) Redeem(ctx context.Context, code string, subtotal money.Money) (discountdomain.Application, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))

	var application discountdomain.Application
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var found discountdomain.DiscountCode
		err := pkgdb.ForUpdate(tx).First(&found, "code = ?", normalized).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return discountdomain.ErrCodeNotFound
			}
			return err
		}

		rule := found.Rule()
		if err := rule.Validate(time.Now().UTC(), subtotal.Cents()); err != nil {
			return err
		}
		discount := engine.Compute(subtotal.Cents(), rule)

		if err := tx.Model(&discountdomain.DiscountCode{}).
			Where("id = ?", found.ID).
			Updates(map[string]any{
				"used_count": gorm.Expr("used_count + 1"),
				"updated_at": time.Now().UTC(),
			}).Error; err != nil {
			return err
		}

		application = discountdomain.Application{
			Code:     found.Code,
			Discount: money.FromCentsIn(discount, subtotal.Currency()),
		}
		return nil
	})
	if err != nil {
		return discountdomain.Application{}, err
	}

	s.log.Info("discount code redeemed",
		zap.String("code", application.Code),
		zap.Int64("discount", application.Discount.Cents()))
	return application, nil
}

func (s *Service) Disable(ctx context.Context, code string) error {
	found, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return err
	}
	if found == nil {
		return discountdomain.ErrCodeNotFound
	}
	return s.repo.SetActive(ctx, code, false)
}
