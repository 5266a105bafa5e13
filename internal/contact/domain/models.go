package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// ContactType distinguishes customers from suppliers; a contact may be
// both.
type ContactType string

const (
	ContactTypeCustomer ContactType = "CUSTOMER"
	ContactTypeSupplier ContactType = "SUPPLIER"
	ContactTypeBoth     ContactType = "BOTH"
)

func (t ContactType) Valid() bool {
	switch t {
	case ContactTypeCustomer, ContactTypeSupplier, ContactTypeBoth:
		return true
	default:
		return false
	}
}

// Contact is a company-scoped customer or supplier record referenced by
// documents.
type Contact struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	CompanyID snowflake.ID      `gorm:"not null;index" json:"company_id"`
	Type      ContactType       `gorm:"type:text;not null;default:'CUSTOMER'" json:"type"`
	Name      string            `gorm:"type:text;not null" json:"name"`
	Email     string            `gorm:"type:text" json:"email,omitempty"`
	Phone     string            `gorm:"type:text" json:"phone,omitempty"`
	VATNumber string            `gorm:"type:text;column:vat_number" json:"vat_number,omitempty"`
	Address   string            `gorm:"type:text" json:"address,omitempty"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Contact) TableName() string { return "contacts" }
