package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/fatturo/fatturo/internal/tax/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, rate *domain.TaxRate) error {
	return db.WithContext(ctx).Create(rate).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*domain.TaxRate, error) {
	var rate domain.TaxRate
	err := db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&rate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rate, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, companyID snowflake.ID) ([]domain.TaxRate, error) {
	var rates []domain.TaxRate
	err := db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("rate asc").
		Find(&rates).Error
	if err != nil {
		return nil, err
	}
	return rates, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, rate *domain.TaxRate) error {
	return db.WithContext(ctx).Save(rate).Error
}

func (r *repo) ClearDefault(ctx context.Context, db *gorm.DB, companyID snowflake.ID) error {
	return db.WithContext(ctx).
		Model(&domain.TaxRate{}).
		Where("company_id = ? AND is_default = ?", companyID, true).
		Update("is_default", false).Error
}
