package server

import (
	"errors"
	"net/http"
	"strings"

	companydomain "github.com/fatturo/fatturo/internal/company/domain"
	contactdomain "github.com/fatturo/fatturo/internal/contact/domain"
	"github.com/fatturo/fatturo/internal/document/calc"
	documentdomain "github.com/fatturo/fatturo/internal/document/domain"
	"github.com/fatturo/fatturo/internal/inventory"
	journaldomain "github.com/fatturo/fatturo/internal/journal/domain"
	productdomain "github.com/fatturo/fatturo/internal/product/domain"
	taxdomain "github.com/fatturo/fatturo/internal/tax/domain"
	"github.com/fatturo/fatturo/pkg/db"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	var lineErr *calc.LineError
	if errors.As(err, &lineErr) {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   "items",
					Code:    "invalid_line",
					Message: lineErr.Error(),
				},
			},
		}
	}

	var unbalancedErr *journaldomain.UnbalancedError
	if errors.As(err, &unbalancedErr) {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   "lines",
					Code:    "unbalanced_entry",
					Message: unbalancedErr.Error(),
				},
			},
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: conflictErrorMessage(err),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrInternal):
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case isCompanyValidationError(err),
		isContactValidationError(err),
		isProductValidationError(err),
		isTaxValidationError(err),
		isDocumentValidationError(err),
		isJournalValidationError(err):
		return true
	case errors.Is(err, inventory.ErrProductNotFound),
		errors.Is(err, journaldomain.ErrAccountNotFound),
		errors.Is(err, documentdomain.ErrSequenceNotFound):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, documentdomain.ErrDuplicateNumber),
		errors.Is(err, journaldomain.ErrDuplicateCode),
		errors.Is(err, taxdomain.ErrDuplicateName):
		return true
	// Unique-key violations that lost a race past the service's own
	// pre-checks still surface as conflicts, not internal errors.
	case db.IsDuplicateKeyErr(err):
		return true
	default:
		return false
	}
}

func conflictErrorMessage(err error) string {
	switch {
	case errors.Is(err, documentdomain.ErrDuplicateNumber):
		return "document number already in use"
	case errors.Is(err, journaldomain.ErrDuplicateCode):
		return "account code already in use"
	case errors.Is(err, taxdomain.ErrDuplicateName):
		return "tax rate name already in use"
	default:
		return "conflict"
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, companydomain.ErrNotFound),
		errors.Is(err, contactdomain.ErrNotFound),
		errors.Is(err, productdomain.ErrNotFound),
		errors.Is(err, taxdomain.ErrNotFound),
		errors.Is(err, documentdomain.ErrNotFound),
		errors.Is(err, journaldomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	if errors.Is(err, ErrInvalidRequest) {
		return "invalid_request"
	}
	return err.Error()
}

func validationErrorField(code string) string {
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	if code == "invalid_request" {
		return "request"
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	case "product_not_found":
		return "referenced product does not exist"
	case "account_not_found":
		return "referenced account does not exist"
	case "sequence_not_found":
		return "no numbering sequence configured for this document kind"
	default:
		return "invalid value"
	}
}
