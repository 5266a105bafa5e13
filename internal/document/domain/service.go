package domain

import (
	"context"
	"errors"
	"time"

	"github.com/fatturo/fatturo/pkg/db/pagination"
)

// ItemInput is one caller-supplied document line.
type ItemInput struct {
	ProductID   string  `json:"product_id,omitempty"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Price       float64 `json:"price"`
	Tax         float64 `json:"tax"`
}

type CreateDocumentRequest struct {
	ContactID     string      `json:"contact_id"`
	Kind          Kind        `json:"kind"`
	Number        string      `json:"number,omitempty"` // explicit override, bypasses the allocator
	Date          time.Time   `json:"date"`
	DueDate       *time.Time  `json:"due_date,omitempty"`
	Currency      string      `json:"currency"`
	Status        string      `json:"status,omitempty"`
	PaymentStatus string      `json:"payment_status,omitempty"`
	Notes         string      `json:"notes,omitempty"`
	Items         []ItemInput `json:"items"`
}

// UpdateDocumentRequest carries partial-update semantics: nil fields are
// left untouched; a non-nil Items slice replaces every existing line.
type UpdateDocumentRequest struct {
	ID            string       `json:"-"`
	ContactID     *string      `json:"contact_id,omitempty"`
	Date          *time.Time   `json:"date,omitempty"`
	DueDate       *time.Time   `json:"due_date,omitempty"`
	Currency      *string      `json:"currency,omitempty"`
	Status        *string      `json:"status,omitempty"`
	PaymentStatus *string      `json:"payment_status,omitempty"`
	Notes         *string      `json:"notes,omitempty"`
	Items         *[]ItemInput `json:"items,omitempty"`
}

type GetDocumentRequest struct {
	ID string
}

type DeleteDocumentRequest struct {
	ID string
}

type ListDocumentRequest struct {
	Kind          Kind
	Status        string
	PaymentStatus string
	PageToken     string
	PageSize      int
}

type ListDocumentResponse struct {
	pagination.PageInfo
	Documents []Document `json:"documents"`
}

// Service orchestrates document mutations. Every mutation runs as one
// all-or-nothing transaction covering totals, numbering, stock deltas
// and persistence.
type Service interface {
	Create(context.Context, CreateDocumentRequest) (Document, error)
	Update(context.Context, UpdateDocumentRequest) (Document, error)
	Delete(context.Context, DeleteDocumentRequest) error
	GetByID(context.Context, GetDocumentRequest) (Document, error)
	List(context.Context, ListDocumentRequest) (ListDocumentResponse, error)
}

var (
	ErrInvalidCompany       = errors.New("invalid_company")
	ErrInvalidContact       = errors.New("invalid_contact")
	ErrInvalidKind          = errors.New("invalid_kind")
	ErrInvalidStatus        = errors.New("invalid_status")
	ErrInvalidPaymentStatus = errors.New("invalid_payment_status")
	ErrInvalidCurrency      = errors.New("invalid_currency")
	ErrInvalidDate          = errors.New("invalid_date")
	ErrInvalidID            = errors.New("invalid_id")
	ErrNoItems              = errors.New("invalid_items")
	ErrNotFound             = errors.New("not_found")
	ErrDuplicateNumber      = errors.New("duplicate_number")
	ErrSequenceNotFound     = errors.New("sequence_not_found")
)
