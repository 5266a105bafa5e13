package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/fatturo/fatturo/internal/audit/domain"
	"github.com/fatturo/fatturo/internal/companyctx"
	"github.com/fatturo/fatturo/internal/document/calc"
	"github.com/fatturo/fatturo/internal/document/domain"
	"github.com/fatturo/fatturo/internal/document/numbering"
	"github.com/fatturo/fatturo/internal/inventory"
	obsmetrics "github.com/fatturo/fatturo/internal/observability/metrics"
	"github.com/fatturo/fatturo/pkg/db"
	"github.com/fatturo/fatturo/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Repo      domain.Repository
	Allocator *numbering.Allocator
	Stock     *inventory.Adjuster
	AuditSvc  auditdomain.Service
	Metrics   *obsmetrics.Metrics `optional:"true"`
}

// Service orchestrates document mutations: totals, numbering, stock and
// persistence commit or abort as one transaction.
type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	repo      domain.Repository
	allocator *numbering.Allocator
	stock     *inventory.Adjuster
	auditSvc  auditdomain.Service
	metrics   *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("document.service"),
		genID:     p.GenID,
		repo:      p.Repo,
		allocator: p.Allocator,
		stock:     p.Stock,
		auditSvc:  p.AuditSvc,
		metrics:   p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateDocumentRequest) (domain.Document, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.Document{}, domain.ErrInvalidCompany
	}

	if !req.Kind.Valid() {
		return domain.Document{}, domain.ErrInvalidKind
	}

	contactID, err := snowflake.ParseString(strings.TrimSpace(req.ContactID))
	if err != nil || contactID == 0 {
		return domain.Document{}, domain.ErrInvalidContact
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		return domain.Document{}, domain.ErrInvalidCurrency
	}

	if req.Date.IsZero() {
		return domain.Document{}, domain.ErrInvalidDate
	}

	status := domain.DefaultStatus(req.Kind)
	if raw := strings.TrimSpace(req.Status); raw != "" {
		status = domain.Status(raw)
		if !status.ValidFor(req.Kind) {
			return domain.Document{}, domain.ErrInvalidStatus
		}
	}

	paymentStatus := domain.PaymentStatusUnpaid
	if raw := strings.TrimSpace(req.PaymentStatus); raw != "" {
		paymentStatus = domain.PaymentStatus(raw)
		if !paymentStatus.Valid() {
			return domain.Document{}, domain.ErrInvalidPaymentStatus
		}
	}

	if len(req.Items) == 0 {
		return domain.Document{}, domain.ErrNoItems
	}
	lines, totals, err := s.computeLines(req.Items)
	if err != nil {
		return domain.Document{}, err
	}

	explicitNumber := strings.TrimSpace(req.Number)

	now := time.Now().UTC()
	document := domain.Document{
		ID:            s.genID.Generate(),
		CompanyID:     companyID,
		ContactID:     contactID,
		Kind:          req.Kind,
		Status:        status,
		PaymentStatus: paymentStatus,
		Date:          req.Date.UTC(),
		DueDate:       req.DueDate,
		Currency:      currency,
		Notes:         strings.TrimSpace(req.Notes),
		Subtotal:      totals.Subtotal,
		TaxAmount:     totals.TaxAmount,
		Total:         totals.Total,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var movements []inventory.Movement
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if explicitNumber != "" {
			// Explicit numbers bypass the allocator and never consume a
			// sequence slot, but collide like any other number.
			taken, err := s.allocator.Taken(ctx, tx, companyID, explicitNumber)
			if err != nil {
				return err
			}
			if taken {
				return domain.ErrDuplicateNumber
			}
			document.Number = explicitNumber
		} else {
			number, err := s.allocator.Next(ctx, tx, companyID, req.Kind, document.Date)
			if err != nil {
				return err
			}
			document.Number = number
		}

		if err := s.repo.Insert(ctx, tx, &document); err != nil {
			// A rival transaction can claim the number between the
			// availability check and this insert; the unique index on
			// (company_id, number) is the arbiter.
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrDuplicateNumber
			}
			return err
		}

		items, moved, err := s.buildItems(companyID, document.ID, req.Items, lines, now)
		if err != nil {
			return err
		}
		if err := s.repo.InsertItems(ctx, tx, items); err != nil {
			return err
		}
		document.Items = items
		movements = moved

		if err := s.stock.Apply(ctx, tx, companyID, req.Kind.StockDirection(), movements); err != nil {
			return err
		}

		return s.auditSvc.Record(ctx, tx, companyID, "document.created", "document", document.ID.String(), map[string]any{
			"kind":   string(req.Kind),
			"number": document.Number,
			"total":  document.Total,
		})
	})
	if err != nil {
		return domain.Document{}, err
	}

	s.metrics.RecordDocumentCreated(string(req.Kind))
	if req.Kind.StockDirection() != 0 {
		s.metrics.RecordStockMovements(countStocked(movements))
	}

	s.log.Info("document created",
		zap.String("document_id", document.ID.String()),
		zap.String("kind", string(req.Kind)),
		zap.String("number", document.Number),
	)

	return document, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateDocumentRequest) (domain.Document, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.Document{}, domain.ErrInvalidCompany
	}

	documentID, err := s.parseID(req.ID)
	if err != nil {
		return domain.Document{}, err
	}

	var updated *domain.Document
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		document, err := s.repo.FindByID(ctx, tx, companyID, documentID)
		if err != nil {
			return err
		}
		if document == nil {
			return domain.ErrNotFound
		}

		if req.ContactID != nil {
			contactID, err := snowflake.ParseString(strings.TrimSpace(*req.ContactID))
			if err != nil || contactID == 0 {
				return domain.ErrInvalidContact
			}
			document.ContactID = contactID
		}
		if req.Date != nil {
			if req.Date.IsZero() {
				return domain.ErrInvalidDate
			}
			document.Date = req.Date.UTC()
		}
		if req.DueDate != nil {
			document.DueDate = req.DueDate
		}
		if req.Currency != nil {
			currency := strings.ToUpper(strings.TrimSpace(*req.Currency))
			if currency == "" {
				return domain.ErrInvalidCurrency
			}
			document.Currency = currency
		}
		if req.Status != nil {
			status := domain.Status(strings.TrimSpace(*req.Status))
			if !status.ValidFor(document.Kind) {
				return domain.ErrInvalidStatus
			}
			document.Status = status
		}
		if req.PaymentStatus != nil {
			paymentStatus := domain.PaymentStatus(strings.TrimSpace(*req.PaymentStatus))
			if !paymentStatus.Valid() {
				return domain.ErrInvalidPaymentStatus
			}
			document.PaymentStatus = paymentStatus
		}
		if req.Notes != nil {
			document.Notes = strings.TrimSpace(*req.Notes)
		}

		if req.Items != nil {
			newItems := *req.Items
			if len(newItems) == 0 {
				return domain.ErrNoItems
			}
			// Numeric constraints are re-validated from scratch, never
			// trusted from the previous state.
			lines, totals, err := s.computeLines(newItems)
			if err != nil {
				return err
			}

			direction := document.Kind.StockDirection()
			if err := s.stock.Reverse(ctx, tx, companyID, direction, itemMovements(document.Items)); err != nil {
				return err
			}
			if err := s.repo.DeleteItems(ctx, tx, document.ID); err != nil {
				return err
			}

			now := time.Now().UTC()
			items, movements, err := s.buildItems(companyID, document.ID, newItems, lines, now)
			if err != nil {
				return err
			}
			if err := s.repo.InsertItems(ctx, tx, items); err != nil {
				return err
			}
			if err := s.stock.Apply(ctx, tx, companyID, direction, movements); err != nil {
				return err
			}

			document.Items = items
			document.Subtotal = totals.Subtotal
			document.TaxAmount = totals.TaxAmount
			document.Total = totals.Total
		}

		if err := s.repo.Update(ctx, tx, document); err != nil {
			return err
		}

		updated = document
		return s.auditSvc.Record(ctx, tx, companyID, "document.updated", "document", document.ID.String(), map[string]any{
			"kind":   string(document.Kind),
			"number": document.Number,
			"total":  document.Total,
		})
	})
	if err != nil {
		return domain.Document{}, err
	}

	return *updated, nil
}

func (s *Service) Delete(ctx context.Context, req domain.DeleteDocumentRequest) error {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.ErrInvalidCompany
	}

	documentID, err := s.parseID(req.ID)
	if err != nil {
		return err
	}

	var kind domain.Kind
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		document, err := s.repo.FindByID(ctx, tx, companyID, documentID)
		if err != nil {
			return err
		}
		if document == nil {
			return domain.ErrNotFound
		}
		kind = document.Kind

		if err := s.stock.Reverse(ctx, tx, companyID, document.Kind.StockDirection(), itemMovements(document.Items)); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, tx, companyID, document.ID); err != nil {
			return err
		}

		return s.auditSvc.Record(ctx, tx, companyID, "document.deleted", "document", document.ID.String(), map[string]any{
			"kind":   string(document.Kind),
			"number": document.Number,
		})
	})
	if err != nil {
		return err
	}

	s.metrics.RecordDocumentDeleted(string(kind))
	return nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetDocumentRequest) (domain.Document, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.Document{}, domain.ErrInvalidCompany
	}

	documentID, err := s.parseID(req.ID)
	if err != nil {
		return domain.Document{}, err
	}

	document, err := s.repo.FindByID(ctx, s.db, companyID, documentID)
	if err != nil {
		return domain.Document{}, err
	}
	if document == nil {
		return domain.Document{}, domain.ErrNotFound
	}
	return *document, nil
}

func (s *Service) List(ctx context.Context, req domain.ListDocumentRequest) (domain.ListDocumentResponse, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.ListDocumentResponse{}, domain.ErrInvalidCompany
	}

	if req.Kind != "" && !req.Kind.Valid() {
		return domain.ListDocumentResponse{}, domain.ErrInvalidKind
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, companyID, req, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return domain.ListDocumentResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(document *domain.Document) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        document.ID.String(),
			CreatedAt: document.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	documents := make([]domain.Document, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		documents = append(documents, *item)
	}

	resp := domain.ListDocumentResponse{Documents: documents}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

// computeLines validates item inputs and derives per-line totals plus
// the document aggregate.
func (s *Service) computeLines(items []domain.ItemInput) ([]calc.LineTotals, calc.Totals, error) {
	lines := make([]calc.Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, calc.Line{
			Quantity: item.Quantity,
			Price:    item.Price,
			Tax:      item.Tax,
		})
	}
	return calc.Compute(lines)
}

func (s *Service) buildItems(companyID, documentID snowflake.ID, inputs []domain.ItemInput, lines []calc.LineTotals, now time.Time) ([]domain.DocumentItem, []inventory.Movement, error) {
	items := make([]domain.DocumentItem, 0, len(inputs))
	movements := make([]inventory.Movement, 0, len(inputs))

	for i, input := range inputs {
		var productID *snowflake.ID
		if raw := strings.TrimSpace(input.ProductID); raw != "" {
			parsed, err := snowflake.ParseString(raw)
			if err != nil || parsed == 0 {
				return nil, nil, inventory.ErrProductNotFound
			}
			productID = &parsed
			movements = append(movements, inventory.Movement{
				ProductID: parsed,
				Quantity:  input.Quantity,
			})
		}

		items = append(items, domain.DocumentItem{
			ID:          s.genID.Generate(),
			CompanyID:   companyID,
			DocumentID:  documentID,
			ProductID:   productID,
			Position:    i,
			Description: strings.TrimSpace(input.Description),
			Quantity:    input.Quantity,
			Price:       input.Price,
			Tax:         input.Tax,
			Subtotal:    lines[i].Subtotal,
			TaxAmount:   lines[i].TaxAmount,
			Total:       lines[i].Total,
			CreatedAt:   now,
		})
	}

	return items, movements, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func itemMovements(items []domain.DocumentItem) []inventory.Movement {
	movements := make([]inventory.Movement, 0, len(items))
	for _, item := range items {
		if item.ProductID == nil || *item.ProductID == 0 {
			continue
		}
		movements = append(movements, inventory.Movement{
			ProductID: *item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return movements
}

func countStocked(movements []inventory.Movement) int {
	n := 0
	for _, m := range movements {
		if m.ProductID != 0 {
			n++
		}
	}
	return n
}
