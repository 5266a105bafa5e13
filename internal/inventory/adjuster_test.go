package inventory

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	productdomain "github.com/fatturo/fatturo/internal/product/domain"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) (*gorm.DB, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&productdomain.Product{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return db, node
}

func seedProduct(t *testing.T, db *gorm.DB, node *snowflake.Node, companyID snowflake.ID, stock float64, trackStock bool) snowflake.ID {
	t.Helper()

	id := node.Generate()
	require.NoError(t, db.Create(&productdomain.Product{
		ID:         id,
		CompanyID:  companyID,
		Code:       id.String(),
		Name:       "widget",
		TrackStock: trackStock,
		Stock:      stock,
		Active:     true,
	}).Error)
	return id
}

func productStock(t *testing.T, db *gorm.DB, id snowflake.ID) float64 {
	t.Helper()

	var product productdomain.Product
	require.NoError(t, db.First(&product, "id = ?", id).Error)
	return product.Stock
}

func TestAdjust_AppliesDelta(t *testing.T) {
	db, node := newTestDB(t)
	ctx := context.Background()
	companyID := node.Generate()
	productID := seedProduct(t, db, node, companyID, 10, true)

	adjuster := NewAdjuster(zap.NewNop())
	require.NoError(t, adjuster.Adjust(ctx, db, companyID, productID, -3))
	assert.Equal(t, 7.0, productStock(t, db, productID))

	require.NoError(t, adjuster.Adjust(ctx, db, companyID, productID, 5))
	assert.Equal(t, 12.0, productStock(t, db, productID))
}

func TestAdjust_NonTrackedProductIsNoop(t *testing.T) {
	db, node := newTestDB(t)
	ctx := context.Background()
	companyID := node.Generate()
	productID := seedProduct(t, db, node, companyID, 4, false)

	adjuster := NewAdjuster(zap.NewNop())
	require.NoError(t, adjuster.Adjust(ctx, db, companyID, productID, -2))
	assert.Equal(t, 4.0, productStock(t, db, productID))
}

func TestAdjust_MissingProduct(t *testing.T) {
	db, node := newTestDB(t)

	adjuster := NewAdjuster(zap.NewNop())
	err := adjuster.Adjust(context.Background(), db, node.Generate(), node.Generate(), -1)
	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestAdjust_CrossCompanyProductNotVisible(t *testing.T) {
	db, node := newTestDB(t)
	ctx := context.Background()
	productID := seedProduct(t, db, node, node.Generate(), 9, true)

	adjuster := NewAdjuster(zap.NewNop())
	err := adjuster.Adjust(ctx, db, node.Generate(), productID, -1)
	require.ErrorIs(t, err, ErrProductNotFound)
	assert.Equal(t, 9.0, productStock(t, db, productID))
}

func TestApplyReverse_RoundTrip(t *testing.T) {
	db, node := newTestDB(t)
	ctx := context.Background()
	companyID := node.Generate()
	first := seedProduct(t, db, node, companyID, 10, true)
	second := seedProduct(t, db, node, companyID, 20, true)

	movements := []Movement{
		{ProductID: first, Quantity: 2},
		{ProductID: second, Quantity: 5},
		{ProductID: 0, Quantity: 99}, // free-text line, skipped
	}

	adjuster := NewAdjuster(zap.NewNop())
	require.NoError(t, adjuster.Apply(ctx, db, companyID, -1, movements))
	assert.Equal(t, 8.0, productStock(t, db, first))
	assert.Equal(t, 15.0, productStock(t, db, second))

	require.NoError(t, adjuster.Reverse(ctx, db, companyID, -1, movements))
	assert.Equal(t, 10.0, productStock(t, db, first))
	assert.Equal(t, 20.0, productStock(t, db, second))
}
