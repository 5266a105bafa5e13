package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/fatturo/fatturo/internal/audit/domain"
	"github.com/fatturo/fatturo/internal/companyctx"
	"github.com/fatturo/fatturo/internal/document/calc"
	"github.com/fatturo/fatturo/internal/journal/domain"
	obsmetrics "github.com/fatturo/fatturo/internal/observability/metrics"
	"github.com/fatturo/fatturo/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     domain.Repository
	AuditSvc auditdomain.Service
	Metrics  *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	auditSvc auditdomain.Service
	metrics  *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("journal.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		auditSvc: p.AuditSvc,
		metrics:  p.Metrics,
	}
}

func (s *Service) CreateEntry(ctx context.Context, req domain.CreateEntryRequest) (domain.JournalEntry, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.JournalEntry{}, domain.ErrInvalidCompany
	}

	if req.Date.IsZero() {
		return domain.JournalEntry{}, domain.ErrInvalidDate
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return domain.JournalEntry{}, domain.ErrInvalidDescription
	}
	if len(req.Lines) < 2 {
		return domain.JournalEntry{}, domain.ErrInvalidLines
	}

	now := time.Now().UTC()
	entryID := s.genID.Generate()

	accountIDs := make([]snowflake.ID, 0, len(req.Lines))
	lines := make([]domain.JournalLine, 0, len(req.Lines))
	var totalDebit, totalCredit float64
	for i, input := range req.Lines {
		accountID, err := snowflake.ParseString(strings.TrimSpace(input.AccountID))
		if err != nil || accountID == 0 {
			return domain.JournalEntry{}, domain.ErrInvalidAccount
		}
		if input.Debit < 0 || input.Credit < 0 {
			return domain.JournalEntry{}, domain.ErrInvalidAmount
		}

		accountIDs = append(accountIDs, accountID)
		lines = append(lines, domain.JournalLine{
			ID:          s.genID.Generate(),
			EntryID:     entryID,
			AccountID:   accountID,
			Position:    i,
			Description: strings.TrimSpace(input.Description),
			Debit:       input.Debit,
			Credit:      input.Credit,
			CreatedAt:   now,
		})
		totalDebit = calc.Round(totalDebit + input.Debit)
		totalCredit = calc.Round(totalCredit + input.Credit)
	}

	// The balance check runs before anything touches the database; no
	// code path can persist an unbalanced entry.
	if err := domain.ValidateBalanced(lines); err != nil {
		return domain.JournalEntry{}, err
	}

	entry := domain.JournalEntry{
		ID:          entryID,
		CompanyID:   companyID,
		Date:        req.Date.UTC(),
		Reference:   strings.TrimSpace(req.Reference),
		Description: description,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		count, err := s.repo.CountAccounts(ctx, tx, companyID, dedupe(accountIDs))
		if err != nil {
			return err
		}
		if count != int64(len(dedupe(accountIDs))) {
			return domain.ErrAccountNotFound
		}

		if err := s.repo.InsertEntry(ctx, tx, &entry); err != nil {
			return err
		}
		if err := s.repo.InsertLines(ctx, tx, lines); err != nil {
			return err
		}
		entry.Lines = lines

		return s.auditSvc.Record(ctx, tx, companyID, "journal.entry_created", "journal_entry", entry.ID.String(), map[string]any{
			"reference":   entry.Reference,
			"total_debit": entry.TotalDebit,
		})
	})
	if err != nil {
		return domain.JournalEntry{}, err
	}

	s.metrics.RecordJournalEntry()

	s.log.Info("journal entry created",
		zap.String("entry_id", entry.ID.String()),
		zap.Float64("total_debit", entry.TotalDebit),
	)

	return entry, nil
}

func (s *Service) GetEntry(ctx context.Context, req domain.GetEntryRequest) (domain.JournalEntry, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.JournalEntry{}, domain.ErrInvalidCompany
	}

	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.JournalEntry{}, err
	}

	entry, err := s.repo.FindEntryByID(ctx, s.db, companyID, id)
	if err != nil {
		return domain.JournalEntry{}, err
	}
	if entry == nil {
		return domain.JournalEntry{}, domain.ErrNotFound
	}
	return *entry, nil
}

func (s *Service) ListEntries(ctx context.Context, req domain.ListEntryRequest) ([]domain.JournalEntry, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, domain.ErrInvalidCompany
	}

	return s.repo.ListEntries(ctx, s.db, companyID, req)
}

func (s *Service) DeleteEntry(ctx context.Context, req domain.DeleteEntryRequest) error {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.ErrInvalidCompany
	}

	id, err := s.parseID(req.ID)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry, err := s.repo.FindEntryByID(ctx, tx, companyID, id)
		if err != nil {
			return err
		}
		if entry == nil {
			return domain.ErrNotFound
		}

		if err := s.repo.DeleteEntry(ctx, tx, companyID, id); err != nil {
			return err
		}

		return s.auditSvc.Record(ctx, tx, companyID, "journal.entry_deleted", "journal_entry", id.String(), map[string]any{
			"reference": entry.Reference,
		})
	})
}

func (s *Service) CreateAccount(ctx context.Context, req domain.CreateAccountRequest) (domain.Account, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.Account{}, domain.ErrInvalidCompany
	}

	code := strings.TrimSpace(req.Code)
	if code == "" {
		return domain.Account{}, domain.ErrInvalidCode
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Account{}, domain.ErrInvalidName
	}

	account := domain.Account{
		ID:        s.genID.Generate(),
		CompanyID: companyID,
		Code:      code,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.InsertAccount(ctx, s.db, &account); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Account{}, domain.ErrDuplicateCode
		}
		return domain.Account{}, err
	}
	return account, nil
}

func (s *Service) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, domain.ErrInvalidCompany
	}

	return s.repo.ListAccounts(ctx, s.db, companyID)
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func dedupe(ids []snowflake.ID) []snowflake.ID {
	seen := make(map[snowflake.ID]struct{}, len(ids))
	out := make([]snowflake.ID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
