package domain

import (
	"context"
	"errors"

	documentdomain "github.com/fatturo/fatturo/internal/document/domain"
)

type UpdateCompanyRequest struct {
	Name      *string `json:"name,omitempty"`
	VATNumber *string `json:"vat_number,omitempty"`
	Email     *string `json:"email,omitempty"`
	Address   *string `json:"address,omitempty"`
	Currency  *string `json:"currency,omitempty"`
}

// UpdateSequenceRequest changes the prefix of one numbering sequence.
// The counter itself is only ever advanced by the numbering allocator.
type UpdateSequenceRequest struct {
	Kind   documentdomain.Kind `json:"kind"`
	Prefix string              `json:"prefix"`
}

type Service interface {
	Get(context.Context) (Company, error)
	Update(context.Context, UpdateCompanyRequest) (Company, error)
	ListSequences(context.Context) ([]documentdomain.Sequence, error)
	UpdateSequence(context.Context, UpdateSequenceRequest) (documentdomain.Sequence, error)
}

var (
	ErrInvalidCompany  = errors.New("invalid_company")
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidCurrency = errors.New("invalid_currency")
	ErrInvalidKind     = errors.New("invalid_kind")
	ErrInvalidPrefix   = errors.New("invalid_prefix")
	ErrNotFound        = errors.New("not_found")
)
