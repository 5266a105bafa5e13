package numbering

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fatturo/fatturo/internal/document/domain"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestFormat(t *testing.T) {
	date := time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "INV-0007", Format(domain.KindSaleInvoice, "INV", 7, date))
	assert.Equal(t, "PUR-0123", Format(domain.KindPurchaseInvoice, "PUR", 123, date))
	assert.Equal(t, "QUO-2026-001", Format(domain.KindQuote, "QUO", 1, date))
	assert.Equal(t, "WO-2026-042", Format(domain.KindWorkOrder, "WO", 42, date))
	assert.Equal(t, "INV-10000", Format(domain.KindSaleInvoice, "INV", 10000, date))
}

func newAllocatorDB(t *testing.T) (*gorm.DB, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Document{}, &domain.DocumentItem{}, &domain.Sequence{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return db, node
}

func TestAllocator_NextIsGapFree(t *testing.T) {
	db, node := newAllocatorDB(t)
	ctx := context.Background()
	companyID := node.Generate()

	require.NoError(t, db.Create(&domain.Sequence{
		ID:         node.Generate(),
		CompanyID:  companyID,
		Kind:       domain.KindSaleInvoice,
		Prefix:     "INV",
		NextNumber: 1,
	}).Error)

	alloc := NewAllocator()
	date := time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC)

	var numbers []string
	for i := 0; i < 5; i++ {
		err := db.Transaction(func(tx *gorm.DB) error {
			number, err := alloc.Next(ctx, tx, companyID, domain.KindSaleInvoice, date)
			if err != nil {
				return err
			}
			numbers = append(numbers, number)
			// The document insert shares the allocator's transaction.
			return tx.Create(&domain.Document{
				ID:        node.Generate(),
				CompanyID: companyID,
				ContactID: node.Generate(),
				Kind:      domain.KindSaleInvoice,
				Number:    number,
				Status:    domain.StatusDraft,
				Date:      date,
				Currency:  "EUR",
			}).Error
		})
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"INV-0001", "INV-0002", "INV-0003", "INV-0004", "INV-0005"}, numbers)

	var seq domain.Sequence
	require.NoError(t, db.Where("company_id = ?", companyID).First(&seq).Error)
	assert.Equal(t, int64(6), seq.NextNumber)
}

func TestAllocator_ConcurrentAllocationsStaySequential(t *testing.T) {
	db, node := newAllocatorDB(t)
	ctx := context.Background()
	companyID := node.Generate()
	date := time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC)

	require.NoError(t, db.Create(&domain.Sequence{
		ID:         node.Generate(),
		CompanyID:  companyID,
		Kind:       domain.KindSaleInvoice,
		Prefix:     "INV",
		NextNumber: 1,
	}).Error)

	alloc := NewAllocator()
	allocate := func() (string, error) {
		var number string
		var lastErr error
		// Shared-cache sqlite reports busy instead of blocking on the
		// rival writer, so losing transactions retry from scratch.
		for attempt := 0; attempt < 200; attempt++ {
			lastErr = db.Transaction(func(tx *gorm.DB) error {
				n, err := alloc.Next(ctx, tx, companyID, domain.KindSaleInvoice, date)
				if err != nil {
					return err
				}
				number = n
				return tx.Create(&domain.Document{
					ID:        node.Generate(),
					CompanyID: companyID,
					ContactID: node.Generate(),
					Kind:      domain.KindSaleInvoice,
					Number:    n,
					Status:    domain.StatusDraft,
					Date:      date,
					Currency:  "EUR",
				}).Error
			})
			if lastErr == nil {
				return number, nil
			}
			time.Sleep(2 * time.Millisecond)
		}
		return "", lastErr
	}

	var wg sync.WaitGroup
	numbers := make([]string, 2)
	errs := make([]error, 2)
	for i := range numbers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			numbers[i], errs[i] = allocate()
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.ElementsMatch(t, []string{"INV-0001", "INV-0002"}, numbers)

	var seq domain.Sequence
	require.NoError(t, db.Where("company_id = ?", companyID).First(&seq).Error)
	assert.Equal(t, int64(3), seq.NextNumber)
}

func TestAllocator_DuplicateLeavesCounterUntouched(t *testing.T) {
	db, node := newAllocatorDB(t)
	ctx := context.Background()
	companyID := node.Generate()
	date := time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC)

	require.NoError(t, db.Create(&domain.Sequence{
		ID:         node.Generate(),
		CompanyID:  companyID,
		Kind:       domain.KindSaleInvoice,
		Prefix:     "INV",
		NextNumber: 3,
	}).Error)

	// An explicit number occupies the slot the counter points at.
	require.NoError(t, db.Create(&domain.Document{
		ID:        node.Generate(),
		CompanyID: companyID,
		ContactID: node.Generate(),
		Kind:      domain.KindSaleInvoice,
		Number:    "INV-0003",
		Status:    domain.StatusDraft,
		Date:      date,
		Currency:  "EUR",
	}).Error)

	alloc := NewAllocator()
	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := alloc.Next(ctx, tx, companyID, domain.KindSaleInvoice, date)
		return err
	})
	require.ErrorIs(t, err, domain.ErrDuplicateNumber)

	var seq domain.Sequence
	require.NoError(t, db.Where("company_id = ?", companyID).First(&seq).Error)
	assert.Equal(t, int64(3), seq.NextNumber)
}

func TestAllocator_MissingSequence(t *testing.T) {
	db, node := newAllocatorDB(t)

	alloc := NewAllocator()
	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := alloc.Next(context.Background(), tx, node.Generate(), domain.KindQuote, time.Now().UTC())
		return err
	})
	require.ErrorIs(t, err, domain.ErrSequenceNotFound)
}
