package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/fatturo/fatturo/internal/journal/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertEntry(ctx context.Context, db *gorm.DB, entry *domain.JournalEntry) error {
	return db.WithContext(ctx).Omit("Lines").Create(entry).Error
}

func (r *repo) InsertLines(ctx context.Context, db *gorm.DB, lines []domain.JournalLine) error {
	if len(lines) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&lines).Error
}

func (r *repo) FindEntryByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*domain.JournalEntry, error) {
	var entry domain.JournalEntry
	err := db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc, id asc")
		}).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *repo) ListEntries(ctx context.Context, db *gorm.DB, companyID snowflake.ID, filter domain.ListEntryRequest) ([]domain.JournalEntry, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.JournalEntry{}).
		Where("company_id = ?", companyID)
	if filter.From != nil {
		stmt = stmt.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		stmt = stmt.Where("date <= ?", *filter.To)
	}

	var entries []domain.JournalEntry
	err := stmt.Order("date desc, id desc").Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repo) DeleteEntry(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) error {
	if err := db.WithContext(ctx).
		Where("entry_id = ?", id).
		Delete(&domain.JournalLine{}).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		Delete(&domain.JournalEntry{}).Error
}

func (r *repo) InsertAccount(ctx context.Context, db *gorm.DB, account *domain.Account) error {
	return db.WithContext(ctx).Create(account).Error
}

func (r *repo) CountAccounts(ctx context.Context, db *gorm.DB, companyID snowflake.ID, ids []snowflake.ID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Account{}).
		Where("company_id = ? AND id IN ?", companyID, ids).
		Count(&count).Error
	return count, err
}

func (r *repo) ListAccounts(ctx context.Context, db *gorm.DB, companyID snowflake.ID) ([]domain.Account, error) {
	var accounts []domain.Account
	err := db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("code asc").
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}
