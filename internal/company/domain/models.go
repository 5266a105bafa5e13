// Package domain contains persistence models for the company service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Company represents a tenant. Numbering state per document kind lives
// in document_sequences, one row per (company, kind).
type Company struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name      string            `gorm:"type:text;not null" json:"name"`
	VATNumber string            `gorm:"type:text;column:vat_number" json:"vat_number,omitempty"`
	Email     string            `gorm:"type:text" json:"email,omitempty"`
	Address   string            `gorm:"type:text" json:"address,omitempty"`
	Currency  string            `gorm:"type:text;not null;default:'EUR'" json:"currency"`
	IsDefault bool              `gorm:"column:is_default" json:"is_default"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Company) TableName() string { return "companies" }
