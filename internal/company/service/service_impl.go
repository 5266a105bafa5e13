package service

import (
	"context"
	"strings"

	"github.com/fatturo/fatturo/internal/company/domain"
	"github.com/fatturo/fatturo/internal/company/repository"
	"github.com/fatturo/fatturo/internal/companyctx"
	documentdomain "github.com/fatturo/fatturo/internal/document/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo repository.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo repository.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("company.service"),
		repo: p.Repo,
	}
}

func (s *Service) Get(ctx context.Context) (domain.Company, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.Company{}, domain.ErrInvalidCompany
	}

	company, err := s.repo.FindByID(ctx, s.db, companyID)
	if err != nil {
		return domain.Company{}, err
	}
	if company == nil {
		return domain.Company{}, domain.ErrNotFound
	}
	return *company, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateCompanyRequest) (domain.Company, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.Company{}, domain.ErrInvalidCompany
	}

	company, err := s.repo.FindByID(ctx, s.db, companyID)
	if err != nil {
		return domain.Company{}, err
	}
	if company == nil {
		return domain.Company{}, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Company{}, domain.ErrInvalidName
		}
		company.Name = name
	}
	if req.VATNumber != nil {
		company.VATNumber = strings.TrimSpace(*req.VATNumber)
	}
	if req.Email != nil {
		company.Email = strings.TrimSpace(*req.Email)
	}
	if req.Address != nil {
		company.Address = strings.TrimSpace(*req.Address)
	}
	if req.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*req.Currency))
		if currency == "" {
			return domain.Company{}, domain.ErrInvalidCurrency
		}
		company.Currency = currency
	}

	if err := s.repo.Update(ctx, s.db, company); err != nil {
		return domain.Company{}, err
	}
	return *company, nil
}

func (s *Service) ListSequences(ctx context.Context) ([]documentdomain.Sequence, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, domain.ErrInvalidCompany
	}

	return s.repo.ListSequences(ctx, s.db, companyID)
}

func (s *Service) UpdateSequence(ctx context.Context, req domain.UpdateSequenceRequest) (documentdomain.Sequence, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return documentdomain.Sequence{}, domain.ErrInvalidCompany
	}

	if !req.Kind.Valid() {
		return documentdomain.Sequence{}, domain.ErrInvalidKind
	}
	prefix := strings.TrimSpace(req.Prefix)
	if prefix == "" {
		return documentdomain.Sequence{}, domain.ErrInvalidPrefix
	}

	seq, err := s.repo.UpdateSequencePrefix(ctx, s.db, companyID, req.Kind, prefix)
	if err != nil {
		return documentdomain.Sequence{}, err
	}
	if seq == nil {
		return documentdomain.Sequence{}, domain.ErrNotFound
	}
	return *seq, nil
}
