package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fatturo/fatturo/internal/company/domain"
	documentdomain "github.com/fatturo/fatturo/internal/document/domain"
	"gorm.io/gorm"
)

type Repository interface {
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Company, error)
	Update(ctx context.Context, db *gorm.DB, company *domain.Company) error
	ListSequences(ctx context.Context, db *gorm.DB, companyID snowflake.ID) ([]documentdomain.Sequence, error)
	UpdateSequencePrefix(ctx context.Context, db *gorm.DB, companyID snowflake.ID, kind documentdomain.Kind, prefix string) (*documentdomain.Sequence, error)
}

type repo struct{}

func Provide() Repository {
	return &repo{}
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Company, error) {
	var company domain.Company
	err := db.WithContext(ctx).Where("id = ?", id).First(&company).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &company, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, company *domain.Company) error {
	company.UpdatedAt = time.Now().UTC()
	return db.WithContext(ctx).Save(company).Error
}

func (r *repo) ListSequences(ctx context.Context, db *gorm.DB, companyID snowflake.ID) ([]documentdomain.Sequence, error) {
	var sequences []documentdomain.Sequence
	err := db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("kind asc").
		Find(&sequences).Error
	if err != nil {
		return nil, err
	}
	return sequences, nil
}

func (r *repo) UpdateSequencePrefix(ctx context.Context, db *gorm.DB, companyID snowflake.ID, kind documentdomain.Kind, prefix string) (*documentdomain.Sequence, error) {
	result := db.WithContext(ctx).
		Model(&documentdomain.Sequence{}).
		Where("company_id = ? AND kind = ?", companyID, kind).
		Updates(map[string]any{
			"prefix":     prefix,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	var seq documentdomain.Sequence
	err := db.WithContext(ctx).
		Where("company_id = ? AND kind = ?", companyID, kind).
		First(&seq).Error
	if err != nil {
		return nil, err
	}
	return &seq, nil
}
