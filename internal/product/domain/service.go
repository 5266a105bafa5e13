package domain

import (
	"context"
	"errors"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Product, error)
	List(ctx context.Context, req ListRequest) ([]Product, error)
	Get(ctx context.Context, id string) (*Product, error)
	Update(ctx context.Context, req UpdateRequest) (*Product, error)
	Archive(ctx context.Context, id string) (*Product, error)
}

type ListRequest struct {
	Name   string
	Active *bool
}

type CreateRequest struct {
	Code        string         `json:"code"`
	Name        string         `json:"name"`
	Description *string        `json:"description"`
	Price       float64        `json:"price"`
	Tax         float64        `json:"tax"`
	TrackStock  *bool          `json:"track_stock"`
	Stock       float64        `json:"stock"`
	Active      *bool          `json:"active"`
	Metadata    map[string]any `json:"metadata"`
}

// UpdateRequest carries partial-update semantics. Stock is absent on
// purpose: it only changes through the inventory adjuster.
type UpdateRequest struct {
	ID          string         `json:"-"`
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Price       *float64       `json:"price"`
	Tax         *float64       `json:"tax"`
	TrackStock  *bool          `json:"track_stock"`
	Active      *bool          `json:"active"`
	Metadata    map[string]any `json:"metadata"`
}

var (
	ErrInvalidCompany = errors.New("invalid_company")
	ErrInvalidCode    = errors.New("invalid_code")
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidPrice   = errors.New("invalid_price")
	ErrInvalidTax     = errors.New("invalid_tax")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidID      = errors.New("invalid_id")
)
