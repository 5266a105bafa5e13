package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Product belongs to a company. Stock is mutated only through the
// inventory adjuster, never directly by request handlers. TrackStock is
// false for service-type products, whose stock is irrelevant.
type Product struct {
	ID          snowflake.ID      `json:"id" gorm:"primaryKey"`
	CompanyID   snowflake.ID      `json:"company_id" gorm:"not null;uniqueIndex:ux_products_company_code,priority:1"`
	Code        string            `json:"code" gorm:"type:text;not null;uniqueIndex:ux_products_company_code,priority:2"`
	Name        string            `json:"name" gorm:"type:text;not null"`
	Description *string           `json:"description,omitempty" gorm:"type:text"`
	Price       float64           `json:"price" gorm:"not null;default:0"`
	Tax         float64           `json:"tax" gorm:"not null;default:0"`
	TrackStock  bool              `json:"track_stock" gorm:"not null;default:true"`
	Stock       float64           `json:"stock" gorm:"not null;default:0"`
	Active      bool              `json:"active" gorm:"not null;default:true"`
	Metadata    datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt   time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time         `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Product) TableName() string { return "products" }
