package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, rate *TaxRate) error
	FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*TaxRate, error)
	List(ctx context.Context, db *gorm.DB, companyID snowflake.ID) ([]TaxRate, error)
	Update(ctx context.Context, db *gorm.DB, rate *TaxRate) error
	ClearDefault(ctx context.Context, db *gorm.DB, companyID snowflake.ID) error
}
