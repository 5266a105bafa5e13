package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// TaxRate is a company-scoped named rate (e.g. "Standard 21%") offered as
// a default when composing document lines. Lines always carry their own
// rate, so editing a TaxRate never rewrites existing documents.
type TaxRate struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID snowflake.ID `gorm:"not null;uniqueIndex:ux_tax_rates_company_name" json:"company_id"`
	Name      string       `gorm:"type:text;not null;uniqueIndex:ux_tax_rates_company_name" json:"name"`
	Rate      float64      `gorm:"not null" json:"rate"`
	IsDefault bool         `gorm:"not null;default:false" json:"is_default"`
	Active    bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (TaxRate) TableName() string { return "tax_rates" }
