package server

import (
	"net/http"
	"strings"

	journaldomain "github.com/fatturo/fatturo/internal/journal/domain"
	"github.com/gin-gonic/gin"
)

type journalLineRequest struct {
	AccountID   string  `json:"account_id"`
	Description string  `json:"description,omitempty"`
	Debit       float64 `json:"debit"`
	Credit      float64 `json:"credit"`
}

type createJournalEntryRequest struct {
	Date        string               `json:"date"`
	Reference   string               `json:"reference,omitempty"`
	Description string               `json:"description"`
	Lines       []journalLineRequest `json:"lines"`
}

func (s *Server) CreateJournalEntry(c *gin.Context) {
	var req createJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	date, err := parseRequiredTime(req.Date)
	if err != nil {
		AbortWithError(c, newValidationError("date", "invalid_date", "invalid date"))
		return
	}

	lines := make([]journaldomain.LineInput, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, journaldomain.LineInput{
			AccountID:   strings.TrimSpace(line.AccountID),
			Description: strings.TrimSpace(line.Description),
			Debit:       line.Debit,
			Credit:      line.Credit,
		})
	}

	resp, err := s.journalSvc.CreateEntry(c.Request.Context(), journaldomain.CreateEntryRequest{
		Date:        date,
		Reference:   strings.TrimSpace(req.Reference),
		Description: strings.TrimSpace(req.Description),
		Lines:       lines,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetJournalEntry(c *gin.Context) {
	resp, err := s.journalSvc.GetEntry(c.Request.Context(), journaldomain.GetEntryRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListJournalEntries(c *gin.Context) {
	var query struct {
		From string `form:"from"`
		To   string `form:"to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	from, err := parseOptionalTime(query.From, false)
	if err != nil {
		AbortWithError(c, newValidationError("from", "invalid_from", "invalid from"))
		return
	}
	to, err := parseOptionalTime(query.To, true)
	if err != nil {
		AbortWithError(c, newValidationError("to", "invalid_to", "invalid to"))
		return
	}

	resp, err := s.journalSvc.ListEntries(c.Request.Context(), journaldomain.ListEntryRequest{
		From: from,
		To:   to,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteJournalEntry(c *gin.Context) {
	err := s.journalSvc.DeleteEntry(c.Request.Context(), journaldomain.DeleteEntryRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) CreateAccount(c *gin.Context) {
	var req journaldomain.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.journalSvc.CreateAccount(c.Request.Context(), journaldomain.CreateAccountRequest{
		Code: strings.TrimSpace(req.Code),
		Name: strings.TrimSpace(req.Name),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListAccounts(c *gin.Context) {
	resp, err := s.journalSvc.ListAccounts(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isJournalValidationError(err error) bool {
	switch err {
	case journaldomain.ErrInvalidCompany,
		journaldomain.ErrInvalidDate,
		journaldomain.ErrInvalidDescription,
		journaldomain.ErrInvalidLines,
		journaldomain.ErrInvalidAccount,
		journaldomain.ErrInvalidAmount,
		journaldomain.ErrInvalidCode,
		journaldomain.ErrInvalidName,
		journaldomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
