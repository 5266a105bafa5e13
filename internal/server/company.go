package server

import (
	"net/http"

	companydomain "github.com/fatturo/fatturo/internal/company/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) GetCompany(c *gin.Context) {
	resp, err := s.companySvc.Get(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateCompany(c *gin.Context) {
	var req companydomain.UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.companySvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListSequences(c *gin.Context) {
	resp, err := s.companySvc.ListSequences(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateSequence(c *gin.Context) {
	var req companydomain.UpdateSequenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.companySvc.UpdateSequence(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isCompanyValidationError(err error) bool {
	switch err {
	case companydomain.ErrInvalidCompany,
		companydomain.ErrInvalidName,
		companydomain.ErrInvalidCurrency,
		companydomain.ErrInvalidKind,
		companydomain.ErrInvalidPrefix:
		return true
	default:
		return false
	}
}
