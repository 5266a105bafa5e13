package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/fatturo/fatturo/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, document *Document) error
	InsertItems(ctx context.Context, db *gorm.DB, items []DocumentItem) error
	FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*Document, error)
	Update(ctx context.Context, db *gorm.DB, document *Document) error
	DeleteItems(ctx context.Context, db *gorm.DB, documentID snowflake.ID) error
	Delete(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) error
	List(ctx context.Context, db *gorm.DB, companyID snowflake.ID, filter ListDocumentRequest, page pagination.Pagination) ([]*Document, error)
}
