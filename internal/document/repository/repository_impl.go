package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fatturo/fatturo/internal/document/domain"
	"github.com/fatturo/fatturo/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, document *domain.Document) error {
	// Items are inserted separately so line replacement on update can
	// reuse the same path.
	return db.WithContext(ctx).Omit("Items").Create(document).Error
}

func (r *repo) InsertItems(ctx context.Context, db *gorm.DB, items []domain.DocumentItem) error {
	if len(items) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&items).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*domain.Document, error) {
	var document domain.Document
	err := db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc, id asc")
		}).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&document).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &document, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, document *domain.Document) error {
	document.UpdatedAt = time.Now().UTC()
	return db.WithContext(ctx).Omit("Items").Save(document).Error
}

func (r *repo) DeleteItems(ctx context.Context, db *gorm.DB, documentID snowflake.ID) error {
	return db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Delete(&domain.DocumentItem{}).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) error {
	// Lines carry ON DELETE CASCADE in the schema; the explicit delete
	// keeps sqlite test databases honest as well.
	if err := r.DeleteItems(ctx, db, id); err != nil {
		return err
	}
	return db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		Delete(&domain.Document{}).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, companyID snowflake.ID, filter domain.ListDocumentRequest, page pagination.Pagination) ([]*domain.Document, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Document{}).
		Where("company_id = ?", companyID)
	if filter.Kind != "" {
		stmt = stmt.Where("kind = ?", filter.Kind)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		stmt = stmt.Where("payment_status = ?", filter.PaymentStatus)
	}

	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err != nil {
			return nil, err
		}
		createdAt, err := time.Parse(time.RFC3339, cursor.CreatedAt)
		if err != nil {
			return nil, err
		}
		id, err := snowflake.ParseString(cursor.ID)
		if err != nil {
			return nil, err
		}
		stmt = stmt.Where("(created_at < ?) OR (created_at = ? AND id < ?)", createdAt, createdAt, id)
	}
	if page.PageSize > 0 {
		stmt = stmt.Limit(page.PageSize + 1)
	}

	var documents []*domain.Document
	err := stmt.Order("created_at desc, id desc").Find(&documents).Error
	if err != nil {
		return nil, err
	}
	return documents, nil
}
