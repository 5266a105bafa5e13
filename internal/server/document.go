package server

import (
	"net/http"
	"strings"

	documentdomain "github.com/fatturo/fatturo/internal/document/domain"
	"github.com/fatturo/fatturo/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

type documentItemRequest struct {
	ProductID   string  `json:"product_id,omitempty"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Price       float64 `json:"price"`
	Tax         float64 `json:"tax"`
}

type createDocumentRequest struct {
	ContactID     string                `json:"contact_id"`
	Kind          string                `json:"kind"`
	Number        string                `json:"number,omitempty"`
	Date          string                `json:"date"`
	DueDate       string                `json:"due_date,omitempty"`
	Currency      string                `json:"currency,omitempty"`
	Status        string                `json:"status,omitempty"`
	PaymentStatus string                `json:"payment_status,omitempty"`
	Notes         string                `json:"notes,omitempty"`
	Items         []documentItemRequest `json:"items"`
}

type updateDocumentRequest struct {
	ContactID     *string                `json:"contact_id,omitempty"`
	Date          *string                `json:"date,omitempty"`
	DueDate       *string                `json:"due_date,omitempty"`
	Currency      *string                `json:"currency,omitempty"`
	Status        *string                `json:"status,omitempty"`
	PaymentStatus *string                `json:"payment_status,omitempty"`
	Notes         *string                `json:"notes,omitempty"`
	Items         *[]documentItemRequest `json:"items,omitempty"`
}

func toItemInputs(items []documentItemRequest) []documentdomain.ItemInput {
	inputs := make([]documentdomain.ItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, documentdomain.ItemInput{
			ProductID:   strings.TrimSpace(item.ProductID),
			Description: strings.TrimSpace(item.Description),
			Quantity:    item.Quantity,
			Price:       item.Price,
			Tax:         item.Tax,
		})
	}
	return inputs
}

func (s *Server) CreateDocument(c *gin.Context) {
	var req createDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	date, err := parseRequiredTime(req.Date)
	if err != nil {
		AbortWithError(c, newValidationError("date", "invalid_date", "invalid date"))
		return
	}
	dueDate, err := parseOptionalTime(req.DueDate, false)
	if err != nil {
		AbortWithError(c, newValidationError("due_date", "invalid_due_date", "invalid due_date"))
		return
	}

	resp, err := s.documentSvc.Create(c.Request.Context(), documentdomain.CreateDocumentRequest{
		ContactID:     strings.TrimSpace(req.ContactID),
		Kind:          documentdomain.Kind(strings.ToUpper(strings.TrimSpace(req.Kind))),
		Number:        strings.TrimSpace(req.Number),
		Date:          date,
		DueDate:       dueDate,
		Currency:      strings.ToUpper(strings.TrimSpace(req.Currency)),
		Status:        strings.TrimSpace(req.Status),
		PaymentStatus: strings.TrimSpace(req.PaymentStatus),
		Notes:         req.Notes,
		Items:         toItemInputs(req.Items),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateDocument(c *gin.Context) {
	var req updateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	update := documentdomain.UpdateDocumentRequest{
		ID:            strings.TrimSpace(c.Param("id")),
		ContactID:     req.ContactID,
		Currency:      req.Currency,
		Status:        req.Status,
		PaymentStatus: req.PaymentStatus,
		Notes:         req.Notes,
	}

	if req.Date != nil {
		date, err := parseRequiredTime(*req.Date)
		if err != nil {
			AbortWithError(c, newValidationError("date", "invalid_date", "invalid date"))
			return
		}
		update.Date = &date
	}
	if req.DueDate != nil {
		dueDate, err := parseOptionalTime(*req.DueDate, false)
		if err != nil {
			AbortWithError(c, newValidationError("due_date", "invalid_due_date", "invalid due_date"))
			return
		}
		update.DueDate = dueDate
	}
	if req.Items != nil {
		items := toItemInputs(*req.Items)
		update.Items = &items
	}

	resp, err := s.documentSvc.Update(c.Request.Context(), update)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetDocument(c *gin.Context) {
	resp, err := s.documentSvc.GetByID(c.Request.Context(), documentdomain.GetDocumentRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListDocuments(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Kind          string `form:"kind"`
		Status        string `form:"status"`
		PaymentStatus string `form:"payment_status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.documentSvc.List(c.Request.Context(), documentdomain.ListDocumentRequest{
		Kind:          documentdomain.Kind(strings.ToUpper(strings.TrimSpace(query.Kind))),
		Status:        strings.TrimSpace(query.Status),
		PaymentStatus: strings.TrimSpace(query.PaymentStatus),
		PageToken:     query.PageToken,
		PageSize:      query.PageSize,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteDocument(c *gin.Context) {
	err := s.documentSvc.Delete(c.Request.Context(), documentdomain.DeleteDocumentRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func isDocumentValidationError(err error) bool {
	switch err {
	case documentdomain.ErrInvalidCompany,
		documentdomain.ErrInvalidContact,
		documentdomain.ErrInvalidKind,
		documentdomain.ErrInvalidStatus,
		documentdomain.ErrInvalidPaymentStatus,
		documentdomain.ErrInvalidCurrency,
		documentdomain.ErrInvalidDate,
		documentdomain.ErrInvalidID,
		documentdomain.ErrNoItems:
		return true
	default:
		return false
	}
}
