// Package domain contains persistence models for financial documents.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Kind is the numbering/stock-policy category of a document,
// distinct from its lifecycle status.
type Kind string

const (
	KindSaleInvoice     Kind = "SALE_INVOICE"
	KindPurchaseInvoice Kind = "PURCHASE_INVOICE"
	KindQuote           Kind = "QUOTE"
	KindWorkOrder       Kind = "WORK_ORDER"
)

// Valid reports whether the kind is a known document kind.
func (k Kind) Valid() bool {
	switch k {
	case KindSaleInvoice, KindPurchaseInvoice, KindQuote, KindWorkOrder:
		return true
	default:
		return false
	}
}

// StockDirection returns the sign applied to line quantities when the
// document is created: sales and work orders consume stock, purchases
// replenish it, quotes never move stock.
func (k Kind) StockDirection() int {
	switch k {
	case KindSaleInvoice, KindWorkOrder:
		return -1
	case KindPurchaseInvoice:
		return +1
	default:
		return 0
	}
}

// Status represents document lifecycle states.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusValidated Status = "VALIDATED"

	// Quote-specific states: a quote becomes an order once accepted.
	StatusQuote Status = "QUOTE"
	StatusOrder Status = "ORDER"
)

// ValidFor reports whether the status is allowed for the given kind.
func (s Status) ValidFor(kind Kind) bool {
	if kind == KindQuote {
		return s == StatusQuote || s == StatusOrder
	}
	return s == StatusDraft || s == StatusValidated
}

// DefaultStatus returns the initial status for a kind.
func DefaultStatus(kind Kind) Status {
	if kind == KindQuote {
		return StatusQuote
	}
	return StatusDraft
}

// PaymentStatus tracks settlement independently of the document status.
type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "UNPAID"
	PaymentStatusPaid   PaymentStatus = "PAID"
)

func (s PaymentStatus) Valid() bool {
	return s == PaymentStatusUnpaid || s == PaymentStatusPaid
}

// Document is an invoice, quote or work order with monetary totals.
// Subtotal, TaxAmount and Total are derived aggregates and always equal
// the sum of the equivalent fields across the document's items.
type Document struct {
	ID            snowflake.ID      `gorm:"primaryKey" json:"id"`
	CompanyID     snowflake.ID      `gorm:"not null;index;uniqueIndex:ux_documents_company_number,priority:1" json:"company_id"`
	ContactID     snowflake.ID      `gorm:"not null;index" json:"contact_id"`
	Kind          Kind              `gorm:"type:text;not null;index" json:"kind"`
	Number        string            `gorm:"type:text;not null;uniqueIndex:ux_documents_company_number,priority:2" json:"number"`
	Status        Status            `gorm:"type:text;not null" json:"status"`
	PaymentStatus PaymentStatus     `gorm:"type:text;not null;default:'UNPAID'" json:"payment_status"`
	Date          time.Time         `gorm:"not null" json:"date"`
	DueDate       *time.Time        `gorm:"" json:"due_date,omitempty"`
	Currency      string            `gorm:"type:text;not null" json:"currency"`
	Notes         string            `gorm:"type:text" json:"notes,omitempty"`
	Subtotal      float64           `gorm:"not null;default:0" json:"subtotal"`
	TaxAmount     float64           `gorm:"not null;default:0" json:"tax_amount"`
	Total         float64           `gorm:"not null;default:0" json:"total"`
	Metadata      datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Items []DocumentItem `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// TableName sets the database table name.
func (Document) TableName() string { return "documents" }

// DocumentItem is one line of a document. ProductID is nil for
// free-text lines.
type DocumentItem struct {
	ID          snowflake.ID  `gorm:"primaryKey" json:"id"`
	CompanyID   snowflake.ID  `gorm:"not null;index" json:"company_id"`
	DocumentID  snowflake.ID  `gorm:"not null;index" json:"document_id"`
	ProductID   *snowflake.ID `gorm:"index" json:"product_id,omitempty"`
	Position    int           `gorm:"not null;default:0" json:"position"`
	Description string        `gorm:"type:text;not null" json:"description"`
	Quantity    float64       `gorm:"not null" json:"quantity"`
	Price       float64       `gorm:"not null" json:"price"`
	Tax         float64       `gorm:"not null" json:"tax"`
	Subtotal    float64       `gorm:"not null" json:"subtotal"`
	TaxAmount   float64       `gorm:"not null" json:"tax_amount"`
	Total       float64       `gorm:"not null" json:"total"`
	CreatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (DocumentItem) TableName() string { return "document_items" }

// Sequence holds a company's numbering state for one document kind.
// NextNumber is mutated only by the numbering allocator, monotonically,
// and is never reused even if a document is later deleted.
type Sequence struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID  snowflake.ID `gorm:"not null;uniqueIndex:ux_document_sequences_company_kind,priority:1" json:"company_id"`
	Kind       Kind         `gorm:"type:text;not null;uniqueIndex:ux_document_sequences_company_kind,priority:2" json:"kind"`
	Prefix     string       `gorm:"type:text;not null" json:"prefix"`
	NextNumber int64        `gorm:"not null;default:1" json:"next_number"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Sequence) TableName() string { return "document_sequences" }
