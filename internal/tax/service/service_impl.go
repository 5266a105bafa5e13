package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fatturo/fatturo/internal/companyctx"
	"github.com/fatturo/fatturo/internal/tax/domain"
	"github.com/fatturo/fatturo/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("tax.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.TaxRate, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, domain.ErrInvalidCompany
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if req.Rate < 0 || req.Rate > 100 {
		return nil, domain.ErrInvalidRate
	}

	now := time.Now().UTC()
	rate := &domain.TaxRate{
		ID:        s.genID.Generate(),
		CompanyID: companyID,
		Name:      name,
		Rate:      req.Rate,
		IsDefault: req.IsDefault,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if rate.IsDefault {
			if err := s.repo.ClearDefault(ctx, tx, companyID); err != nil {
				return err
			}
		}
		return s.repo.Create(ctx, tx, rate)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateName
		}
		return nil, err
	}
	return rate, nil
}

func (s *Service) List(ctx context.Context) ([]domain.TaxRate, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, domain.ErrInvalidCompany
	}
	return s.repo.List(ctx, s.db, companyID)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.TaxRate, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, domain.ErrInvalidCompany
	}

	rateID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	rate, err := s.repo.FindByID(ctx, s.db, companyID, rateID)
	if err != nil {
		return nil, err
	}
	if rate == nil {
		return nil, domain.ErrNotFound
	}
	return rate, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.TaxRate, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, domain.ErrInvalidCompany
	}

	rateID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	rate, err := s.repo.FindByID(ctx, s.db, companyID, rateID)
	if err != nil {
		return nil, err
	}
	if rate == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		rate.Name = name
	}
	if req.Rate != nil {
		if *req.Rate < 0 || *req.Rate > 100 {
			return nil, domain.ErrInvalidRate
		}
		rate.Rate = *req.Rate
	}
	if req.IsDefault != nil {
		rate.IsDefault = *req.IsDefault
	}
	if req.Active != nil {
		rate.Active = *req.Active
	}

	rate.UpdatedAt = time.Now().UTC()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.IsDefault != nil && *req.IsDefault {
			if err := s.repo.ClearDefault(ctx, tx, companyID); err != nil {
				return err
			}
			rate.IsDefault = true
		}
		return s.repo.Update(ctx, tx, rate)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateName
		}
		return nil, err
	}
	return rate, nil
}
