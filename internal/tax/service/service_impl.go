package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	taxdomain "github.com/snusnumrick/dojoflow/internal/tax/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  taxdomain.Repository
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  taxdomain.Repository
}

func NewService(p ServiceParam) taxdomain.Service {
	return &Service{
		log:   p.Log.Named("tax.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req taxdomain.CreateRequest) (*taxdomain.TaxRate, error) {
	now := time.Now().UTC()
	rate := &taxdomain.TaxRate{
		ID:          s.genID.Generate(),
		Name:        strings.TrimSpace(req.Name),
		Rate:        req.Rate,
		Description: req.Description,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Active != nil {
		rate.Active = *req.Active
	}
	if err := rate.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, rate); err != nil {
		return nil, err
	}
	s.log.Info("tax rate created", zap.String("id", rate.ID.String()), zap.Float64("rate", rate.Rate))
	return rate, nil
}

func (s *Service) List(ctx context.Context) ([]taxdomain.TaxRate, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListActive(ctx context.Context) ([]taxdomain.TaxRate, error) {
	return s.repo.ListActive(ctx)
}

// SnapshotByIDs freezes the referenced rates for stamping onto invoice and
// payment tax lines.
func (s *Service) SnapshotByIDs(ctx context.Context, ids []snowflake.ID) ([]taxdomain.Snapshot, error) {
	rates, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	snapshots := make([]taxdomain.Snapshot, 0, len(rates))
	for _, rate := range rates {
		snapshots = append(snapshots, rate.Snapshot())
	}
	return snapshots, nil
}

func (s *Service) Disable(ctx context.Context, id string) error {
	rateID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return taxdomain.ErrInvalidID
	}
	existing, err := s.repo.FindByID(ctx, rateID)
	if err != nil {
		return err
	}
	if existing == nil {
		return taxdomain.ErrNotFound
	}
	return s.repo.SetActive(ctx, rateID, false)
}
