package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/fatturo/fatturo/internal/companyctx"
	"github.com/gin-gonic/gin"
)

const HeaderCompany = "X-Company-ID"

// CompanyContext resolves the tenant from the X-Company-ID header and
// injects it into the request context. When the header is absent the
// configured default company is used, so single-tenant installs work
// without any header plumbing.
func (s *Server) CompanyContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderCompany))

		var companyID snowflake.ID
		if raw != "" {
			parsed, err := snowflake.ParseString(raw)
			if err != nil || parsed == 0 {
				AbortWithError(c, newValidationError("company", "invalid_company", "invalid company"))
				return
			}
			companyID = parsed
		} else if s.cfg.DefaultCompanyID != 0 {
			companyID = snowflake.ID(s.cfg.DefaultCompanyID)
		} else {
			AbortWithError(c, newValidationError("company", "invalid_company", "missing "+HeaderCompany+" header"))
			return
		}

		ctx := companyctx.WithCompanyID(c.Request.Context(), companyID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
