package domain

import (
	"context"
	"errors"
)

type CreateRequest struct {
	Type      string                 `json:"type,omitempty"`
	Name      string                 `json:"name"`
	Email     string                 `json:"email,omitempty"`
	Phone     string                 `json:"phone,omitempty"`
	VATNumber string                 `json:"vat_number,omitempty"`
	Address   string                 `json:"address,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type UpdateRequest struct {
	ID        string                 `json:"-"`
	Type      *string                `json:"type,omitempty"`
	Name      *string                `json:"name,omitempty"`
	Email     *string                `json:"email,omitempty"`
	Phone     *string                `json:"phone,omitempty"`
	VATNumber *string                `json:"vat_number,omitempty"`
	Address   *string                `json:"address,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type ListRequest struct {
	Type string `form:"type"`
	Name string `form:"name"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Contact, error)
	List(ctx context.Context, req ListRequest) ([]Contact, error)
	Get(ctx context.Context, id string) (*Contact, error)
	Update(ctx context.Context, req UpdateRequest) (*Contact, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidCompany = errors.New("invalid_company")
	ErrInvalidType    = errors.New("invalid_type")
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidID      = errors.New("invalid_id")
	ErrNotFound       = errors.New("not_found")
)
