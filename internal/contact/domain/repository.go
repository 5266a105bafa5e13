package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ContactFilter struct {
	Type ContactType
	Name string
}

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, contact *Contact) error
	FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*Contact, error)
	List(ctx context.Context, db *gorm.DB, companyID snowflake.ID, filter ContactFilter) ([]Contact, error)
	Update(ctx context.Context, db *gorm.DB, contact *Contact) error
	Delete(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) error
}
