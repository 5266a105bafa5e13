package domain

import (
	"context"
	"errors"
)

type CreateRequest struct {
	Name      string  `json:"name"`
	Rate      float64 `json:"rate"`
	IsDefault bool    `json:"is_default,omitempty"`
}

type UpdateRequest struct {
	ID        string   `json:"-"`
	Name      *string  `json:"name,omitempty"`
	Rate      *float64 `json:"rate,omitempty"`
	IsDefault *bool    `json:"is_default,omitempty"`
	Active    *bool    `json:"active,omitempty"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*TaxRate, error)
	List(ctx context.Context) ([]TaxRate, error)
	Get(ctx context.Context, id string) (*TaxRate, error)
	Update(ctx context.Context, req UpdateRequest) (*TaxRate, error)
}

var (
	ErrInvalidCompany = errors.New("invalid_company")
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidRate    = errors.New("invalid_rate")
	ErrInvalidID      = errors.New("invalid_id")
	ErrDuplicateName  = errors.New("duplicate_name")
	ErrNotFound       = errors.New("not_found")
)
