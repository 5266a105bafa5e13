// Package inventory applies signed stock deltas tied to document
// lifecycle events.
package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	productdomain "github.com/fatturo/fatturo/internal/product/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrProductNotFound = errors.New("product_not_found")

// Movement is one stock-affecting quantity against a product.
type Movement struct {
	ProductID snowflake.ID
	Quantity  float64
}

type Adjuster struct {
	log *zap.Logger
}

func NewAdjuster(log *zap.Logger) *Adjuster {
	return &Adjuster{log: log.Named("inventory.adjuster")}
}

// Adjust applies stock += delta as a single conditional UPDATE so
// concurrent adjustments to the same product never lose an update.
// Non-stock-tracked products are a no-op; a missing product fails with
// ErrProductNotFound and the caller's transaction rolls back.
func (a *Adjuster) Adjust(ctx context.Context, tx *gorm.DB, companyID, productID snowflake.ID, delta float64) error {
	if delta == 0 {
		return nil
	}

	result := tx.WithContext(ctx).
		Model(&productdomain.Product{}).
		Where("company_id = ? AND id = ? AND track_stock = ?", companyID, productID, true).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock + ?", delta),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// Zero rows: either the product does not track stock (skip) or it
	// no longer exists (abort).
	var count int64
	err := tx.WithContext(ctx).
		Model(&productdomain.Product{}).
		Where("company_id = ? AND id = ?", companyID, productID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrProductNotFound
	}

	a.log.Debug("skipped stock adjustment for non-tracked product",
		zap.String("product_id", productID.String()),
	)
	return nil
}

// Apply adjusts stock for every movement with the given direction
// (-1 consumes stock, +1 replenishes, 0 is a no-op). Movements without
// a product are expected to be filtered out by the caller.
func (a *Adjuster) Apply(ctx context.Context, tx *gorm.DB, companyID snowflake.ID, direction int, movements []Movement) error {
	if direction == 0 {
		return nil
	}
	for _, m := range movements {
		if m.ProductID == 0 {
			continue
		}
		if err := a.Adjust(ctx, tx, companyID, m.ProductID, float64(direction)*m.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// Reverse undoes a previous Apply with the same movements.
func (a *Adjuster) Reverse(ctx context.Context, tx *gorm.DB, companyID snowflake.ID, direction int, movements []Movement) error {
	return a.Apply(ctx, tx, companyID, -direction, movements)
}
