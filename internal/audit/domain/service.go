package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListAuditLogRequest struct {
	Action     string
	TargetType string
	TargetID   string
}

// Service records audit trail rows. Record writes within the caller's
// transaction so the trail commits or aborts with the mutation it
// describes.
type Service interface {
	Record(ctx context.Context, tx *gorm.DB, companyID snowflake.ID, action, targetType, targetID string, metadata map[string]any) error
	List(ctx context.Context, req ListAuditLogRequest) ([]AuditLog, error)
}

var (
	ErrInvalidCompany = errors.New("invalid_company")
	ErrInvalidAction  = errors.New("invalid_action")
)
