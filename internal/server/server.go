package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/fatturo/fatturo/internal/audit"
	auditdomain "github.com/fatturo/fatturo/internal/audit/domain"
	"github.com/fatturo/fatturo/internal/company"
	companydomain "github.com/fatturo/fatturo/internal/company/domain"
	"github.com/fatturo/fatturo/internal/config"
	"github.com/fatturo/fatturo/internal/contact"
	contactdomain "github.com/fatturo/fatturo/internal/contact/domain"
	"github.com/fatturo/fatturo/internal/document"
	documentdomain "github.com/fatturo/fatturo/internal/document/domain"
	"github.com/fatturo/fatturo/internal/journal"
	journaldomain "github.com/fatturo/fatturo/internal/journal/domain"
	obslogger "github.com/fatturo/fatturo/internal/observability/logger"
	obsmetrics "github.com/fatturo/fatturo/internal/observability/metrics"
	"github.com/fatturo/fatturo/internal/product"
	productdomain "github.com/fatturo/fatturo/internal/product/domain"
	"github.com/fatturo/fatturo/internal/tax"
	taxdomain "github.com/fatturo/fatturo/internal/tax/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	obsmetrics.Module,
	fx.Provide(registerGin),
	audit.Module,
	company.Module,
	contact.Module,
	product.Module,
	tax.Module,
	document.Module,
	journal.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(log))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(log, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	db          *gorm.DB
	genID       *snowflake.Node
	auditSvc    auditdomain.Service
	companySvc  companydomain.Service
	contactSvc  contactdomain.Service
	documentSvc documentdomain.Service
	journalSvc  journaldomain.Service
	productSvc  productdomain.Service
	taxSvc      taxdomain.Service
	obsMetrics  *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	DB          *gorm.DB
	GenID       *snowflake.Node
	AuditSvc    auditdomain.Service
	CompanySvc  companydomain.Service
	ContactSvc  contactdomain.Service
	DocumentSvc documentdomain.Service
	JournalSvc  journaldomain.Service
	ProductSvc  productdomain.Service
	TaxSvc      taxdomain.Service
	ObsMetrics  *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		db:          p.DB,
		genID:       p.GenID,
		auditSvc:    p.AuditSvc,
		companySvc:  p.CompanySvc,
		contactSvc:  p.ContactSvc,
		documentSvc: p.DocumentSvc,
		journalSvc:  p.JournalSvc,
		productSvc:  p.ProductSvc,
		taxSvc:      p.TaxSvc,
		obsMetrics:  p.ObsMetrics,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.CompanyContext())

	companyRoutes := api.Group("/company")
	{
		companyRoutes.GET("", s.GetCompany)
		companyRoutes.PATCH("", s.UpdateCompany)
		companyRoutes.GET("/sequences", s.ListSequences)
		companyRoutes.PATCH("/sequences", s.UpdateSequence)
	}

	contacts := api.Group("/contacts")
	{
		contacts.POST("", s.CreateContact)
		contacts.GET("", s.ListContacts)
		contacts.GET("/:id", s.GetContact)
		contacts.PATCH("/:id", s.UpdateContact)
		contacts.DELETE("/:id", s.DeleteContact)
	}

	products := api.Group("/products")
	{
		products.POST("", s.CreateProduct)
		products.GET("", s.ListProducts)
		products.GET("/:id", s.GetProduct)
		products.PATCH("/:id", s.UpdateProduct)
		products.DELETE("/:id", s.ArchiveProduct)
	}

	taxes := api.Group("/taxes")
	{
		taxes.POST("", s.CreateTaxRate)
		taxes.GET("", s.ListTaxRates)
		taxes.GET("/:id", s.GetTaxRate)
		taxes.PATCH("/:id", s.UpdateTaxRate)
	}

	documents := api.Group("/documents")
	{
		documents.POST("", s.CreateDocument)
		documents.GET("", s.ListDocuments)
		documents.GET("/:id", s.GetDocument)
		documents.PATCH("/:id", s.UpdateDocument)
		documents.DELETE("/:id", s.DeleteDocument)
	}

	entries := api.Group("/journal-entries")
	{
		entries.POST("", s.CreateJournalEntry)
		entries.GET("", s.ListJournalEntries)
		entries.GET("/:id", s.GetJournalEntry)
		entries.DELETE("/:id", s.DeleteJournalEntry)
	}

	accounts := api.Group("/accounts")
	{
		accounts.POST("", s.CreateAccount)
		accounts.GET("", s.ListAccounts)
	}

	api.GET("/audit-logs", s.ListAuditLogs)
}
