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
	"github.com/fatturo/fatturo/internal/journal/domain"
	"github.com/fatturo/fatturo/internal/journal/repository"
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
	cash      domain.Account
	sales     domain.Account
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Account{},
		&domain.JournalEntry{},
		&domain.JournalLine{},
		&auditdomain.AuditLog{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zap.NewNop()
	svc := New(Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Repo:  repository.Provide(),
		AuditSvc: auditservice.NewService(auditservice.Params{
			DB:    db,
			Log:   log,
			GenID: node,
		}),
	})

	companyID := node.Generate()
	f := &fixture{
		db:        db,
		node:      node,
		svc:       svc,
		companyID: companyID,
		ctx:       companyctx.WithCompanyID(context.Background(), companyID),
	}

	f.cash = f.createAccount(t, "570", "Cash")
	f.sales = f.createAccount(t, "700", "Sales")
	return f
}

func (f *fixture) createAccount(t *testing.T, code, name string) domain.Account {
	t.Helper()

	account := domain.Account{
		ID:        f.node.Generate(),
		CompanyID: f.companyID,
		Code:      code,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, f.db.Create(&account).Error)
	return account
}

func entryRequest(lines []domain.LineInput) domain.CreateEntryRequest {
	return domain.CreateEntryRequest{
		Date:        time.Date(2026, time.February, 3, 0, 0, 0, 0, time.UTC),
		Description: "cash sale",
		Lines:       lines,
	}
}

func TestCreateEntry_BalancedIsAccepted(t *testing.T) {
	f := newFixture(t)

	entry, err := f.svc.CreateEntry(f.ctx, entryRequest([]domain.LineInput{
		{AccountID: f.cash.ID.String(), Debit: 100},
		{AccountID: f.sales.ID.String(), Credit: 100},
	}))
	require.NoError(t, err)

	assert.Equal(t, 100.0, entry.TotalDebit)
	assert.Equal(t, 100.0, entry.TotalCredit)
	require.Len(t, entry.Lines, 2)

	var logCount int64
	require.NoError(t, f.db.Model(&auditdomain.AuditLog{}).
		Where("company_id = ? AND action = ?", f.companyID, "journal.entry_created").
		Count(&logCount).Error)
	assert.Equal(t, int64(1), logCount)
}

func TestCreateEntry_UnbalancedIsRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateEntry(f.ctx, entryRequest([]domain.LineInput{
		{AccountID: f.cash.ID.String(), Debit: 100},
		{AccountID: f.sales.ID.String(), Credit: 99},
	}))
	require.Error(t, err)

	var unbalanced *domain.UnbalancedError
	require.ErrorAs(t, err, &unbalanced)
	assert.Equal(t, 1.0, unbalanced.Difference)

	var count int64
	require.NoError(t, f.db.Model(&domain.JournalEntry{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateEntry_WithinToleranceIsAccepted(t *testing.T) {
	f := newFixture(t)

	// 0.01 of float drift is treated as balanced.
	_, err := f.svc.CreateEntry(f.ctx, entryRequest([]domain.LineInput{
		{AccountID: f.cash.ID.String(), Debit: 100.01},
		{AccountID: f.sales.ID.String(), Credit: 100},
	}))
	require.NoError(t, err)
}

func TestCreateEntry_SplitLinesBalance(t *testing.T) {
	f := newFixture(t)
	vat := f.createAccount(t, "477", "VAT payable")

	entry, err := f.svc.CreateEntry(f.ctx, entryRequest([]domain.LineInput{
		{AccountID: f.cash.ID.String(), Debit: 121},
		{AccountID: f.sales.ID.String(), Credit: 100},
		{AccountID: vat.ID.String(), Credit: 21},
	}))
	require.NoError(t, err)
	assert.Equal(t, 121.0, entry.TotalDebit)
	assert.Equal(t, 121.0, entry.TotalCredit)
}

func TestCreateEntry_UnknownAccountRollsBack(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateEntry(f.ctx, entryRequest([]domain.LineInput{
		{AccountID: f.cash.ID.String(), Debit: 100},
		{AccountID: f.node.Generate().String(), Credit: 100},
	}))
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	var count int64
	require.NoError(t, f.db.Model(&domain.JournalEntry{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateEntry_NegativeAmountIsRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateEntry(f.ctx, entryRequest([]domain.LineInput{
		{AccountID: f.cash.ID.String(), Debit: -100},
		{AccountID: f.sales.ID.String(), Credit: -100},
	}))
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestCreateEntry_SingleLineIsRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateEntry(f.ctx, entryRequest([]domain.LineInput{
		{AccountID: f.cash.ID.String(), Debit: 100},
	}))
	assert.ErrorIs(t, err, domain.ErrInvalidLines)
}

func TestDeleteEntry_RemovesLines(t *testing.T) {
	f := newFixture(t)

	entry, err := f.svc.CreateEntry(f.ctx, entryRequest([]domain.LineInput{
		{AccountID: f.cash.ID.String(), Debit: 100},
		{AccountID: f.sales.ID.String(), Credit: 100},
	}))
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteEntry(f.ctx, domain.DeleteEntryRequest{ID: entry.ID.String()}))

	var lineCount int64
	require.NoError(t, f.db.Model(&domain.JournalLine{}).Count(&lineCount).Error)
	assert.Zero(t, lineCount)
}

func TestGetEntry_OtherCompanyIsNotFound(t *testing.T) {
	f := newFixture(t)

	entry, err := f.svc.CreateEntry(f.ctx, entryRequest([]domain.LineInput{
		{AccountID: f.cash.ID.String(), Debit: 100},
		{AccountID: f.sales.ID.String(), Credit: 100},
	}))
	require.NoError(t, err)

	otherCtx := companyctx.WithCompanyID(context.Background(), f.node.Generate())
	_, err = f.svc.GetEntry(otherCtx, domain.GetEntryRequest{ID: entry.ID.String()})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListEntries_DateRange(t *testing.T) {
	f := newFixture(t)

	for _, day := range []int{1, 15, 28} {
		req := entryRequest([]domain.LineInput{
			{AccountID: f.cash.ID.String(), Debit: 10},
			{AccountID: f.sales.ID.String(), Credit: 10},
		})
		req.Date = time.Date(2026, time.March, day, 0, 0, 0, 0, time.UTC)
		_, err := f.svc.CreateEntry(f.ctx, req)
		require.NoError(t, err)
	}

	from := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC)
	entries, err := f.svc.ListEntries(f.ctx, domain.ListEntryRequest{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 15, entries[0].Date.Day())
}
