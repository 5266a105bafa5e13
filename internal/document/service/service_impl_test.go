package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/fatturo/fatturo/internal/audit/domain"
	auditservice "github.com/fatturo/fatturo/internal/audit/service"
	"github.com/fatturo/fatturo/internal/companyctx"
	"github.com/fatturo/fatturo/internal/document/domain"
	"github.com/fatturo/fatturo/internal/document/numbering"
	"github.com/fatturo/fatturo/internal/document/repository"
	"github.com/fatturo/fatturo/internal/inventory"
	productdomain "github.com/fatturo/fatturo/internal/product/domain"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	node      *snowflake.Node
	svc       domain.Service
	companyID snowflake.ID
	ctx       context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Document{},
		&domain.DocumentItem{},
		&domain.Sequence{},
		&productdomain.Product{},
		&auditdomain.AuditLog{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zap.NewNop()
	svc := New(Params{
		DB:        db,
		Log:       log,
		GenID:     node,
		Repo:      repository.Provide(),
		Allocator: numbering.NewAllocator(),
		Stock:     inventory.NewAdjuster(log),
		AuditSvc: auditservice.NewService(auditservice.Params{
			DB:    db,
			Log:   log,
			GenID: node,
		}),
	})

	companyID := node.Generate()
	for kind, prefix := range map[domain.Kind]string{
		domain.KindSaleInvoice:     "INV",
		domain.KindPurchaseInvoice: "PUR",
		domain.KindQuote:           "Q",
		domain.KindWorkOrder:       "WO",
	} {
		require.NoError(t, db.Create(&domain.Sequence{
			ID:         node.Generate(),
			CompanyID:  companyID,
			Kind:       kind,
			Prefix:     prefix,
			NextNumber: 1,
		}).Error)
	}

	return &fixture{
		db:        db,
		node:      node,
		svc:       svc,
		companyID: companyID,
		ctx:       companyctx.WithCompanyID(context.Background(), companyID),
	}
}

func (f *fixture) createProduct(t *testing.T, stock float64) *productdomain.Product {
	t.Helper()

	product := &productdomain.Product{
		ID:         f.node.Generate(),
		CompanyID:  f.companyID,
		Code:       fmt.Sprintf("P-%d", f.node.Generate()),
		Name:       "Widget",
		Price:      100,
		Tax:        21,
		TrackStock: true,
		Stock:      stock,
		Active:     true,
	}
	require.NoError(t, f.db.Create(product).Error)
	return product
}

func (f *fixture) productStock(t *testing.T, id snowflake.ID) float64 {
	t.Helper()

	var product productdomain.Product
	require.NoError(t, f.db.Where("id = ?", id).First(&product).Error)
	return product.Stock
}

func (f *fixture) sequenceCounter(t *testing.T, kind domain.Kind) int64 {
	t.Helper()

	var sequence domain.Sequence
	require.NoError(t, f.db.Where("company_id = ? AND kind = ?", f.companyID, kind).First(&sequence).Error)
	return sequence.NextNumber
}

func saleInvoiceRequest(contactID snowflake.ID, items []domain.ItemInput) domain.CreateDocumentRequest {
	return domain.CreateDocumentRequest{
		ContactID: contactID.String(),
		Kind:      domain.KindSaleInvoice,
		Date:      time.Date(2026, time.February, 3, 0, 0, 0, 0, time.UTC),
		Currency:  "EUR",
		Items:     items,
	}
}

func TestCreate_SaleInvoiceTotalsNumberAndStock(t *testing.T) {
	f := newFixture(t)
	product := f.createProduct(t, 10)

	document, err := f.svc.Create(f.ctx, saleInvoiceRequest(f.node.Generate(), []domain.ItemInput{
		{ProductID: product.ID.String(), Description: "Widget", Quantity: 2, Price: 100, Tax: 21},
	}))
	require.NoError(t, err)

	assert.Equal(t, "INV-0001", document.Number)
	assert.Equal(t, domain.StatusDraft, document.Status)
	assert.Equal(t, domain.PaymentStatusUnpaid, document.PaymentStatus)
	assert.Equal(t, 200.0, document.Subtotal)
	assert.Equal(t, 42.0, document.TaxAmount)
	assert.Equal(t, 242.0, document.Total)
	require.Len(t, document.Items, 1)
	assert.Equal(t, 242.0, document.Items[0].Total)

	assert.Equal(t, 8.0, f.productStock(t, product.ID))
	assert.Equal(t, int64(2), f.sequenceCounter(t, domain.KindSaleInvoice))

	var logCount int64
	require.NoError(t, f.db.Model(&auditdomain.AuditLog{}).
		Where("company_id = ? AND action = ?", f.companyID, "document.created").
		Count(&logCount).Error)
	assert.Equal(t, int64(1), logCount)
}

func TestCreate_NumbersAreSequential(t *testing.T) {
	f := newFixture(t)
	contactID := f.node.Generate()

	for i := 1; i <= 3; i++ {
		document, err := f.svc.Create(f.ctx, saleInvoiceRequest(contactID, []domain.ItemInput{
			{Description: "Service", Quantity: 1, Price: 50, Tax: 0},
		}))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("INV-%04d", i), document.Number)
	}
}

func TestCreate_PurchaseInvoiceReplenishesStock(t *testing.T) {
	f := newFixture(t)
	product := f.createProduct(t, 5)

	req := saleInvoiceRequest(f.node.Generate(), []domain.ItemInput{
		{ProductID: product.ID.String(), Description: "Widget", Quantity: 3, Price: 40, Tax: 10},
	})
	req.Kind = domain.KindPurchaseInvoice

	_, err := f.svc.Create(f.ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 8.0, f.productStock(t, product.ID))
}

func TestCreate_QuoteDoesNotMoveStock(t *testing.T) {
	f := newFixture(t)
	product := f.createProduct(t, 5)

	req := saleInvoiceRequest(f.node.Generate(), []domain.ItemInput{
		{ProductID: product.ID.String(), Description: "Widget", Quantity: 3, Price: 40, Tax: 10},
	})
	req.Kind = domain.KindQuote

	document, err := f.svc.Create(f.ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusQuote, document.Status)
	assert.Equal(t, 5.0, f.productStock(t, product.ID))
}

func TestCreate_ExplicitNumberSkipsAllocator(t *testing.T) {
	f := newFixture(t)
	contactID := f.node.Generate()

	req := saleInvoiceRequest(contactID, []domain.ItemInput{
		{Description: "Service", Quantity: 1, Price: 50, Tax: 0},
	})
	req.Number = "CUSTOM-99"

	document, err := f.svc.Create(f.ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "CUSTOM-99", document.Number)
	assert.Equal(t, int64(1), f.sequenceCounter(t, domain.KindSaleInvoice))

	// The explicit number is still subject to uniqueness.
	_, err = f.svc.Create(f.ctx, req)
	assert.ErrorIs(t, err, domain.ErrDuplicateNumber)
	assert.Equal(t, int64(1), f.sequenceCounter(t, domain.KindSaleInvoice))
}

func TestCreate_LostNumberRaceIsDuplicate(t *testing.T) {
	f := newFixture(t)
	product := f.createProduct(t, 10)

	// A rival claims the number between the availability check and the
	// insert; the unique index decides, and the whole transaction rolls
	// back as a duplicate rather than an internal error.
	injected := false
	require.NoError(t, f.db.Callback().Create().Before("gorm:create").Register("rival_number", func(tx *gorm.DB) {
		document, ok := tx.Statement.Dest.(*domain.Document)
		if !ok || injected || document.Number != "RACE-1" {
			return
		}
		injected = true
		rival := &domain.Document{
			ID:        f.node.Generate(),
			CompanyID: f.companyID,
			ContactID: f.node.Generate(),
			Kind:      domain.KindSaleInvoice,
			Number:    "RACE-1",
			Status:    domain.StatusDraft,
			Date:      time.Date(2026, time.February, 3, 0, 0, 0, 0, time.UTC),
			Currency:  "EUR",
		}
		if err := tx.Session(&gorm.Session{NewDB: true}).Create(rival).Error; err != nil {
			_ = tx.AddError(err)
		}
	}))

	req := saleInvoiceRequest(f.node.Generate(), []domain.ItemInput{
		{ProductID: product.ID.String(), Description: "Widget", Quantity: 2, Price: 100, Tax: 21},
	})
	req.Number = "RACE-1"

	_, err := f.svc.Create(f.ctx, req)
	require.ErrorIs(t, err, domain.ErrDuplicateNumber)
	assert.True(t, injected)

	// The rival row lived inside the losing transaction, so nothing
	// survives the rollback and stock is untouched.
	var count int64
	require.NoError(t, f.db.Model(&domain.Document{}).
		Where("company_id = ? AND number = ?", f.companyID, "RACE-1").
		Count(&count).Error)
	assert.Equal(t, int64(0), count)
	assert.Equal(t, 10.0, f.productStock(t, product.ID))
}

func TestCreate_InvalidLineRollsBackEverything(t *testing.T) {
	f := newFixture(t)
	product := f.createProduct(t, 10)

	_, err := f.svc.Create(f.ctx, saleInvoiceRequest(f.node.Generate(), []domain.ItemInput{
		{ProductID: product.ID.String(), Description: "Widget", Quantity: 2, Price: 100, Tax: 21},
		{Description: "Broken", Quantity: 0, Price: 10, Tax: 0},
	}))
	require.Error(t, err)

	assert.Equal(t, 10.0, f.productStock(t, product.ID))
	assert.Equal(t, int64(1), f.sequenceCounter(t, domain.KindSaleInvoice))

	var count int64
	require.NoError(t, f.db.Model(&domain.Document{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreate_UnknownProductRollsBack(t *testing.T) {
	f := newFixture(t)
	product := f.createProduct(t, 10)

	_, err := f.svc.Create(f.ctx, saleInvoiceRequest(f.node.Generate(), []domain.ItemInput{
		{ProductID: product.ID.String(), Description: "Widget", Quantity: 2, Price: 100, Tax: 21},
		{ProductID: f.node.Generate().String(), Description: "Ghost", Quantity: 1, Price: 10, Tax: 0},
	}))
	assert.ErrorIs(t, err, inventory.ErrProductNotFound)

	assert.Equal(t, 10.0, f.productStock(t, product.ID))
	var count int64
	require.NoError(t, f.db.Model(&domain.Document{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdate_ItemReplacementAdjustsStockByDelta(t *testing.T) {
	f := newFixture(t)
	productA := f.createProduct(t, 10)
	productB := f.createProduct(t, 10)

	document, err := f.svc.Create(f.ctx, saleInvoiceRequest(f.node.Generate(), []domain.ItemInput{
		{ProductID: productA.ID.String(), Description: "A", Quantity: 4, Price: 25, Tax: 0},
	}))
	require.NoError(t, err)
	require.Equal(t, 6.0, f.productStock(t, productA.ID))

	newItems := []domain.ItemInput{
		{ProductID: productB.ID.String(), Description: "B", Quantity: 1, Price: 80, Tax: 21},
	}
	updated, err := f.svc.Update(f.ctx, domain.UpdateDocumentRequest{
		ID:    document.ID.String(),
		Items: &newItems,
	})
	require.NoError(t, err)

	// Old consumption reversed, new consumption applied.
	assert.Equal(t, 10.0, f.productStock(t, productA.ID))
	assert.Equal(t, 9.0, f.productStock(t, productB.ID))
	assert.Equal(t, 80.0, updated.Subtotal)
	assert.Equal(t, 16.8, updated.TaxAmount)
	assert.Equal(t, 96.8, updated.Total)
	assert.Equal(t, document.Number, updated.Number)
}

func TestUpdate_WithoutItemsLeavesStockAndTotals(t *testing.T) {
	f := newFixture(t)
	product := f.createProduct(t, 10)

	document, err := f.svc.Create(f.ctx, saleInvoiceRequest(f.node.Generate(), []domain.ItemInput{
		{ProductID: product.ID.String(), Description: "Widget", Quantity: 2, Price: 100, Tax: 21},
	}))
	require.NoError(t, err)

	status := string(domain.StatusValidated)
	paid := string(domain.PaymentStatusPaid)
	updated, err := f.svc.Update(f.ctx, domain.UpdateDocumentRequest{
		ID:            document.ID.String(),
		Status:        &status,
		PaymentStatus: &paid,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusValidated, updated.Status)
	assert.Equal(t, domain.PaymentStatusPaid, updated.PaymentStatus)
	assert.Equal(t, 242.0, updated.Total)
	assert.Equal(t, 8.0, f.productStock(t, product.ID))
}

func TestDelete_RestoresStockAndKeepsCounter(t *testing.T) {
	f := newFixture(t)
	product := f.createProduct(t, 10)

	document, err := f.svc.Create(f.ctx, saleInvoiceRequest(f.node.Generate(), []domain.ItemInput{
		{ProductID: product.ID.String(), Description: "Widget", Quantity: 2, Price: 100, Tax: 21},
	}))
	require.NoError(t, err)
	require.Equal(t, 8.0, f.productStock(t, product.ID))

	require.NoError(t, f.svc.Delete(f.ctx, domain.DeleteDocumentRequest{ID: document.ID.String()}))

	assert.Equal(t, 10.0, f.productStock(t, product.ID))
	// Deleted numbers are never reissued.
	assert.Equal(t, int64(2), f.sequenceCounter(t, domain.KindSaleInvoice))

	var itemCount int64
	require.NoError(t, f.db.Model(&domain.DocumentItem{}).Count(&itemCount).Error)
	assert.Zero(t, itemCount)

	next, err := f.svc.Create(f.ctx, saleInvoiceRequest(f.node.Generate(), []domain.ItemInput{
		{Description: "Service", Quantity: 1, Price: 10, Tax: 0},
	}))
	require.NoError(t, err)
	assert.Equal(t, "INV-0002", next.Number)
}

func TestGetByID_OtherCompanyIsNotFound(t *testing.T) {
	f := newFixture(t)

	document, err := f.svc.Create(f.ctx, saleInvoiceRequest(f.node.Generate(), []domain.ItemInput{
		{Description: "Service", Quantity: 1, Price: 10, Tax: 0},
	}))
	require.NoError(t, err)

	otherCtx := companyctx.WithCompanyID(context.Background(), f.node.Generate())
	_, err = f.svc.GetByID(otherCtx, domain.GetDocumentRequest{ID: document.ID.String()})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_UnknownKindIsRejected(t *testing.T) {
	f := newFixture(t)

	req := saleInvoiceRequest(f.node.Generate(), []domain.ItemInput{
		{Description: "Service", Quantity: 1, Price: 10, Tax: 0},
	})
	req.Kind = "CREDIT_NOTE"

	_, err := f.svc.Create(f.ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidKind)
}

func TestList_FiltersByKind(t *testing.T) {
	f := newFixture(t)
	contactID := f.node.Generate()

	invoice := saleInvoiceRequest(contactID, []domain.ItemInput{
		{Description: "Service", Quantity: 1, Price: 10, Tax: 0},
	})
	_, err := f.svc.Create(f.ctx, invoice)
	require.NoError(t, err)

	quote := saleInvoiceRequest(contactID, []domain.ItemInput{
		{Description: "Service", Quantity: 1, Price: 10, Tax: 0},
	})
	quote.Kind = domain.KindQuote
	_, err = f.svc.Create(f.ctx, quote)
	require.NoError(t, err)

	resp, err := f.svc.List(f.ctx, domain.ListDocumentRequest{Kind: domain.KindQuote})
	require.NoError(t, err)
	require.Len(t, resp.Documents, 1)
	assert.Equal(t, domain.KindQuote, resp.Documents[0].Kind)
}
