// Package server wires the HTTP surface: gin engine, middleware, route
// registration and the fx lifecycle hooks that start and stop the listener.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/snusnumrick/dojoflow/internal/config"
	"github.com/snusnumrick/dojoflow/internal/discount"
	discountdomain "github.com/snusnumrick/dojoflow/internal/discount/domain"
	"github.com/snusnumrick/dojoflow/internal/enrollment"
	enrollmentdomain "github.com/snusnumrick/dojoflow/internal/enrollment/domain"
	"github.com/snusnumrick/dojoflow/internal/family"
	familydomain "github.com/snusnumrick/dojoflow/internal/family/domain"
	"github.com/snusnumrick/dojoflow/internal/invoice"
	invoicedomain "github.com/snusnumrick/dojoflow/internal/invoice/domain"
	obsmetrics "github.com/snusnumrick/dojoflow/internal/observability/metrics"
	"github.com/snusnumrick/dojoflow/internal/payment"
	paymentdomain "github.com/snusnumrick/dojoflow/internal/payment/domain"
	"github.com/snusnumrick/dojoflow/internal/program"
	programdomain "github.com/snusnumrick/dojoflow/internal/program/domain"
	"github.com/snusnumrick/dojoflow/internal/tax"
	taxdomain "github.com/snusnumrick/dojoflow/internal/tax/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	obsmetrics.Module,
	fx.Provide(registerGin),
	family.Module,
	program.Module,
	enrollment.Module,
	tax.Module,
	discount.Module,
	invoice.Module,
	payment.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
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
	engine *gin.Engine
	cfg    config.Config
	genID  *snowflake.Node

	familySvc     familydomain.Service
	programSvc    programdomain.Service
	enrollmentSvc enrollmentdomain.Service
	taxSvc        taxdomain.Service
	discountSvc   discountdomain.Service
	invoiceSvc    invoicedomain.Service
	paymentSvc    paymentdomain.Service
}

type ServerParams struct {
	fx.In

	Gin   *gin.Engine
	Cfg   config.Config
	GenID *snowflake.Node

	FamilySvc     familydomain.Service
	ProgramSvc    programdomain.Service
	EnrollmentSvc enrollmentdomain.Service
	TaxSvc        taxdomain.Service
	DiscountSvc   discountdomain.Service
	InvoiceSvc    invoicedomain.Service
	PaymentSvc    paymentdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		genID:         p.GenID,
		familySvc:     p.FamilySvc,
		programSvc:    p.ProgramSvc,
		enrollmentSvc: p.EnrollmentSvc,
		taxSvc:        p.TaxSvc,
		discountSvc:   p.DiscountSvc,
		invoiceSvc:    p.InvoiceSvc,
		paymentSvc:    p.PaymentSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1")

	families := api.Group("/families")
	families.POST("", s.CreateFamily)
	families.GET("", s.ListFamilies)
	families.GET("/:id", s.GetFamily)
	families.GET("/:id/students", s.ListStudents)
	families.GET("/:id/invoices", s.ListFamilyInvoices)

	students := api.Group("/students")
	students.POST("", s.AddStudent)
	students.GET("/:id", s.GetStudent)
	students.POST("/:id/belts", s.AwardBelt)
	students.GET("/:id/belts", s.BeltHistory)
	students.GET("/:id/enrollments", s.ListStudentEnrollments)
	students.GET("/:id/eligibility/:program_id", s.CheckEligibility)

	programs := api.Group("/programs")
	programs.POST("", s.CreateProgram)
	programs.GET("", s.ListPrograms)
	programs.GET("/:id", s.GetProgram)
	programs.GET("/:id/classes", s.ListClasses)

	classes := api.Group("/classes")
	classes.POST("", s.CreateClass)
	classes.GET("/:id", s.GetClass)
	classes.GET("/:id/schedule", s.ClassSchedule)
	classes.GET("/:id/roster", s.ClassRoster)

	enrollments := api.Group("/enrollments")
	enrollments.POST("", s.Enroll)
	enrollments.POST("/:id/drop", s.DropEnrollment)
	enrollments.POST("/:id/complete", s.CompleteEnrollment)

	taxes := api.Group("/tax-rates")
	taxes.POST("", s.CreateTaxRate)
	taxes.GET("", s.ListTaxRates)
	taxes.DELETE("/:id", s.DisableTaxRate)

	discounts := api.Group("/discount-codes")
	discounts.POST("", s.CreateDiscountCode)
	discounts.GET("", s.ListDiscountCodes)
	discounts.POST("/preview", s.PreviewDiscountCode)
	discounts.DELETE("/:code", s.DisableDiscountCode)

	invoices := api.Group("/invoices")
	invoices.POST("", s.CreateInvoice)
	invoices.GET("", s.ListInvoices)
	invoices.GET("/:id", s.GetInvoice)
	invoices.POST("/:id/items", s.AddInvoiceItem)
	invoices.DELETE("/:id/items/:item_id", s.RemoveInvoiceItem)
	invoices.POST("/:id/discount", s.ApplyDiscountCode)
	invoices.POST("/:id/finalize", s.FinalizeInvoice)
	invoices.POST("/:id/void", s.VoidInvoice)
	invoices.GET("/:id/payments", s.ListInvoicePayments)

	payments := api.Group("/payments")
	payments.POST("", s.RecordPayment)
	payments.GET("/:id", s.GetPayment)
}
