package server

import (
	"net/http"
	"strings"

	taxdomain "github.com/fatturo/fatturo/internal/tax/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) CreateTaxRate(c *gin.Context) {
	var req taxdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.taxSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListTaxRates(c *gin.Context) {
	resp, err := s.taxSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetTaxRate(c *gin.Context) {
	resp, err := s.taxSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateTaxRate(c *gin.Context) {
	var req taxdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.taxSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isTaxValidationError(err error) bool {
	switch err {
	case taxdomain.ErrInvalidCompany,
		taxdomain.ErrInvalidName,
		taxdomain.ErrInvalidRate,
		taxdomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
