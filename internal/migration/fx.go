package migration

import (
	"github.com/snusnumrick/dojoflow/internal/config"
	discountdomain "github.com/snusnumrick/dojoflow/internal/discount/domain"
	enrollmentdomain "github.com/snusnumrick/dojoflow/internal/enrollment/domain"
	familydomain "github.com/snusnumrick/dojoflow/internal/family/domain"
	invoicedomain "github.com/snusnumrick/dojoflow/internal/invoice/domain"
	paymentdomain "github.com/snusnumrick/dojoflow/internal/payment/domain"
	programdomain "github.com/snusnumrick/dojoflow/internal/program/domain"
	taxdomain "github.com/snusnumrick/dojoflow/internal/tax/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
		if !cfg.MigrateOnStart {
			return nil
		}

		// The versioned SQL migrations are postgres-only. Other dialects
		// (sqlite for local work, mysql) fall back to gorm's schema sync.
		if cfg.DBType != "postgres" {
			log.Info("syncing schema via gorm", zap.String("db_type", cfg.DBType))
			return conn.AutoMigrate(
				&familydomain.Family{},
				&familydomain.Student{},
				&familydomain.BeltAward{},
				&programdomain.Program{},
				&programdomain.Class{},
				&programdomain.ClassSession{},
				&enrollmentdomain.Enrollment{},
				&taxdomain.TaxRate{},
				&discountdomain.DiscountCode{},
				&invoicedomain.Invoice{},
				&invoicedomain.InvoiceItem{},
				&invoicedomain.InvoiceTaxLine{},
				&paymentdomain.Payment{},
				&paymentdomain.PaymentTaxLine{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
