package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	InsertEntry(ctx context.Context, db *gorm.DB, entry *JournalEntry) error
	InsertLines(ctx context.Context, db *gorm.DB, lines []JournalLine) error
	FindEntryByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*JournalEntry, error)
	ListEntries(ctx context.Context, db *gorm.DB, companyID snowflake.ID, filter ListEntryRequest) ([]JournalEntry, error)
	DeleteEntry(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) error

	InsertAccount(ctx context.Context, db *gorm.DB, account *Account) error
	CountAccounts(ctx context.Context, db *gorm.DB, companyID snowflake.ID, ids []snowflake.ID) (int64, error)
	ListAccounts(ctx context.Context, db *gorm.DB, companyID snowflake.ID) ([]Account, error)
}
