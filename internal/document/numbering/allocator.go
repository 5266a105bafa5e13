// Package numbering assigns gap-free document numbers per company and kind.
package numbering

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fatturo/fatturo/internal/document/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Format renders a document number from a sequence prefix and counter.
// Invoices use "{prefix}-{number %04d}"; quotes and work orders embed
// the year: "{prefix}-{year}-{number %03d}".
func Format(kind domain.Kind, prefix string, number int64, date time.Time) string {
	switch kind {
	case domain.KindQuote, domain.KindWorkOrder:
		return fmt.Sprintf("%s-%d-%03d", prefix, date.Year(), number)
	default:
		return fmt.Sprintf("%s-%04d", prefix, number)
	}
}

// Allocator produces the next document number inside the caller's
// transaction. The sequence row is locked FOR UPDATE so two concurrent
// allocations on the same (company, kind) serialize; the counter
// increment commits or aborts together with the document insert.
type Allocator struct{}

func NewAllocator() *Allocator {
	return &Allocator{}
}

// Next allocates and formats the next number for (companyID, kind).
// A formatted number that already exists for the company (e.g. one
// previously supplied out-of-band) fails with ErrDuplicateNumber and
// leaves the counter untouched.
func (a *Allocator) Next(ctx context.Context, tx *gorm.DB, companyID snowflake.ID, kind domain.Kind, date time.Time) (string, error) {
	stmt := tx.WithContext(ctx)
	// sqlite has no row locks; its single-writer model serializes for us.
	if tx.Dialector.Name() != "sqlite" {
		stmt = stmt.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var seq domain.Sequence
	err := stmt.
		Where("company_id = ? AND kind = ?", companyID, kind).
		First(&seq).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", domain.ErrSequenceNotFound
		}
		return "", err
	}

	number := Format(kind, seq.Prefix, seq.NextNumber, date)
	taken, err := a.Taken(ctx, tx, companyID, number)
	if err != nil {
		return "", err
	}
	if taken {
		return "", domain.ErrDuplicateNumber
	}

	err = tx.WithContext(ctx).
		Model(&domain.Sequence{}).
		Where("id = ?", seq.ID).
		Updates(map[string]any{
			"next_number": gorm.Expr("next_number + 1"),
			"updated_at":  time.Now().UTC(),
		}).Error
	if err != nil {
		return "", err
	}

	return number, nil
}

// Taken reports whether a document number is already used by the company.
// Explicit caller-supplied numbers go through this check only; they do
// not consume a sequence slot.
func (a *Allocator) Taken(ctx context.Context, tx *gorm.DB, companyID snowflake.ID, number string) (bool, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&domain.Document{}).
		Where("company_id = ? AND number = ?", companyID, number).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
