// Package seed bootstraps a fresh installation with a default company,
// its numbering sequences and a minimal chart of accounts.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	companydomain "github.com/fatturo/fatturo/internal/company/domain"
	documentdomain "github.com/fatturo/fatturo/internal/document/domain"
	journaldomain "github.com/fatturo/fatturo/internal/journal/domain"
	taxdomain "github.com/fatturo/fatturo/internal/tax/domain"
	"gorm.io/gorm"
)

const (
	defaultCompanyName = "Main"
	defaultCurrency    = "EUR"
)

var defaultPrefixes = map[documentdomain.Kind]string{
	documentdomain.KindSaleInvoice:     "INV",
	documentdomain.KindPurchaseInvoice: "PUR",
	documentdomain.KindQuote:           "Q",
	documentdomain.KindWorkOrder:       "WO",
}

var defaultAccounts = []struct {
	Code string
	Name string
}{
	{"700", "Sales"},
	{"600", "Purchases"},
	{"430", "Customers"},
	{"400", "Suppliers"},
	{"472", "VAT receivable"},
	{"477", "VAT payable"},
	{"570", "Cash"},
}

// EnsureDefaultCompany seeds the default company for startup bootstrap.
func EnsureDefaultCompany(db *gorm.DB) error {
	return ensure(db, 0)
}

// EnsureDefaultCompanyWithID seeds the default company under a fixed ID,
// used when the deployment pins COMPANY_ID in its environment.
func EnsureDefaultCompanyWithID(db *gorm.DB, id int64) error {
	return ensure(db, snowflake.ID(id))
}

func ensure(db *gorm.DB, fixedID snowflake.ID) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		company, err := ensureCompanyTx(ctx, tx, node, fixedID)
		if err != nil {
			return err
		}
		if err := ensureSequencesTx(ctx, tx, node, company.ID); err != nil {
			return err
		}
		if err := ensureAccountsTx(ctx, tx, node, company.ID); err != nil {
			return err
		}
		return ensureTaxRatesTx(ctx, tx, node, company.ID)
	})
}

func ensureCompanyTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, fixedID snowflake.ID) (*companydomain.Company, error) {
	var company companydomain.Company
	err := tx.WithContext(ctx).
		Where("is_default = ?", true).
		First(&company).Error
	if err == nil {
		return &company, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	id := fixedID
	if id == 0 {
		id = node.Generate()
	}
	now := time.Now().UTC()
	company = companydomain.Company{
		ID:        id,
		Name:      defaultCompanyName,
		Currency:  defaultCurrency,
		IsDefault: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func ensureSequencesTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, companyID snowflake.ID) error {
	for kind, prefix := range defaultPrefixes {
		var existing documentdomain.Sequence
		err := tx.WithContext(ctx).
			Where("company_id = ? AND kind = ?", companyID, kind).
			First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		now := time.Now().UTC()
		sequence := documentdomain.Sequence{
			ID:         node.Generate(),
			CompanyID:  companyID,
			Kind:       kind,
			Prefix:     prefix,
			NextNumber: 1,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := tx.WithContext(ctx).Create(&sequence).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureAccountsTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, companyID snowflake.ID) error {
	for _, account := range defaultAccounts {
		var existing journaldomain.Account
		err := tx.WithContext(ctx).
			Where("company_id = ? AND code = ?", companyID, account.Code).
			First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		row := journaldomain.Account{
			ID:        node.Generate(),
			CompanyID: companyID,
			Code:      account.Code,
			Name:      account.Name,
			CreatedAt: time.Now().UTC(),
		}
		if err := tx.WithContext(ctx).Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureTaxRatesTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, companyID snowflake.ID) error {
	var count int64
	err := tx.WithContext(ctx).
		Model(&taxdomain.TaxRate{}).
		Where("company_id = ?", companyID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	rates := []taxdomain.TaxRate{
		{ID: node.Generate(), CompanyID: companyID, Name: "Standard 21%", Rate: 21, IsDefault: true, Active: true, CreatedAt: now, UpdatedAt: now},
		{ID: node.Generate(), CompanyID: companyID, Name: "Reduced 10%", Rate: 10, Active: true, CreatedAt: now, UpdatedAt: now},
		{ID: node.Generate(), CompanyID: companyID, Name: "Exempt", Rate: 0, Active: true, CreatedAt: now, UpdatedAt: now},
	}
	return tx.WithContext(ctx).Create(&rates).Error
}
