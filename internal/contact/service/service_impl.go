package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fatturo/fatturo/internal/companyctx"
	"github.com/fatturo/fatturo/internal/contact/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
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
		log:   p.Log.Named("contact.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Contact, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, domain.ErrInvalidCompany
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	contactType := domain.ContactTypeCustomer
	if req.Type != "" {
		contactType = domain.ContactType(strings.ToUpper(strings.TrimSpace(req.Type)))
		if !contactType.Valid() {
			return nil, domain.ErrInvalidType
		}
	}

	now := time.Now().UTC()
	contact := &domain.Contact{
		ID:        s.genID.Generate(),
		CompanyID: companyID,
		Type:      contactType,
		Name:      name,
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		VATNumber: strings.TrimSpace(req.VATNumber),
		Address:   strings.TrimSpace(req.Address),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Metadata != nil {
		contact.Metadata = datatypes.JSONMap(req.Metadata)
	}

	if err := s.repo.Create(ctx, s.db, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Contact, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, domain.ErrInvalidCompany
	}

	filter := domain.ContactFilter{Name: strings.TrimSpace(req.Name)}
	if req.Type != "" {
		contactType := domain.ContactType(strings.ToUpper(strings.TrimSpace(req.Type)))
		if !contactType.Valid() {
			return nil, domain.ErrInvalidType
		}
		filter.Type = contactType
	}

	return s.repo.List(ctx, s.db, companyID, filter)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Contact, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, domain.ErrInvalidCompany
	}

	contactID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	contact, err := s.repo.FindByID(ctx, s.db, companyID, contactID)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, domain.ErrNotFound
	}
	return contact, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Contact, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, domain.ErrInvalidCompany
	}

	contactID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	contact, err := s.repo.FindByID(ctx, s.db, companyID, contactID)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, domain.ErrNotFound
	}

	if req.Type != nil {
		contactType := domain.ContactType(strings.ToUpper(strings.TrimSpace(*req.Type)))
		if !contactType.Valid() {
			return nil, domain.ErrInvalidType
		}
		contact.Type = contactType
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		contact.Name = name
	}
	if req.Email != nil {
		contact.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		contact.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.VATNumber != nil {
		contact.VATNumber = strings.TrimSpace(*req.VATNumber)
	}
	if req.Address != nil {
		contact.Address = strings.TrimSpace(*req.Address)
	}
	if req.Metadata != nil {
		contact.Metadata = datatypes.JSONMap(req.Metadata)
	}

	contact.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.ErrInvalidCompany
	}

	contactID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrInvalidID
	}

	contact, err := s.repo.FindByID(ctx, s.db, companyID, contactID)
	if err != nil {
		return err
	}
	if contact == nil {
		return domain.ErrNotFound
	}

	return s.repo.Delete(ctx, s.db, companyID, contactID)
}
