package migration

import (
	auditdomain "github.com/fatturo/fatturo/internal/audit/domain"
	companydomain "github.com/fatturo/fatturo/internal/company/domain"
	"github.com/fatturo/fatturo/internal/config"
	contactdomain "github.com/fatturo/fatturo/internal/contact/domain"
	documentdomain "github.com/fatturo/fatturo/internal/document/domain"
	journaldomain "github.com/fatturo/fatturo/internal/journal/domain"
	productdomain "github.com/fatturo/fatturo/internal/product/domain"
	"github.com/fatturo/fatturo/internal/seed"
	taxdomain "github.com/fatturo/fatturo/internal/tax/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if conn.Dialector.Name() == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite and mysql run from the models directly; the
			// versioned SQL tracks postgres deployments.
			if err := conn.AutoMigrate(
				&companydomain.Company{},
				&contactdomain.Contact{},
				&productdomain.Product{},
				&taxdomain.TaxRate{},
				&documentdomain.Document{},
				&documentdomain.DocumentItem{},
				&documentdomain.Sequence{},
				&journaldomain.Account{},
				&journaldomain.JournalEntry{},
				&journaldomain.JournalLine{},
				&auditdomain.AuditLog{},
			); err != nil {
				return err
			}
		}

		if cfg.DefaultCompanyID != 0 {
			return seed.EnsureDefaultCompanyWithID(conn, cfg.DefaultCompanyID)
		}
		return seed.EnsureDefaultCompany(conn)
	}),
)
