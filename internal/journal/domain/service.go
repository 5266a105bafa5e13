package domain

import (
	"context"
	"errors"
	"time"
)

// LineInput is one caller-supplied journal posting.
type LineInput struct {
	AccountID   string  `json:"account_id"`
	Description string  `json:"description,omitempty"`
	Debit       float64 `json:"debit"`
	Credit      float64 `json:"credit"`
}

type CreateEntryRequest struct {
	Date        time.Time   `json:"date"`
	Reference   string      `json:"reference,omitempty"`
	Description string      `json:"description"`
	Lines       []LineInput `json:"lines"`
}

type GetEntryRequest struct {
	ID string
}

type DeleteEntryRequest struct {
	ID string
}

type ListEntryRequest struct {
	From *time.Time
	To   *time.Time
}

type CreateAccountRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type Service interface {
	CreateEntry(context.Context, CreateEntryRequest) (JournalEntry, error)
	GetEntry(context.Context, GetEntryRequest) (JournalEntry, error)
	ListEntries(context.Context, ListEntryRequest) ([]JournalEntry, error)
	DeleteEntry(context.Context, DeleteEntryRequest) error

	CreateAccount(context.Context, CreateAccountRequest) (Account, error)
	ListAccounts(context.Context) ([]Account, error)
}

var (
	ErrInvalidCompany     = errors.New("invalid_company")
	ErrInvalidDate        = errors.New("invalid_date")
	ErrInvalidDescription = errors.New("invalid_description")
	ErrInvalidLines       = errors.New("invalid_lines")
	ErrInvalidAccount     = errors.New("invalid_account")
	ErrInvalidAmount      = errors.New("invalid_amount")
	ErrInvalidCode        = errors.New("invalid_code")
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidID          = errors.New("invalid_id")
	ErrAccountNotFound    = errors.New("account_not_found")
	ErrDuplicateCode      = errors.New("duplicate_code")
	ErrNotFound           = errors.New("not_found")
)
