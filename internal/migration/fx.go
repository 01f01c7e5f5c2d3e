package migration

import (
	"github.com/vestrapos/vestra/internal/config"
	"github.com/vestrapos/vestra/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// mysql/sqlite are dev conveniences; let gorm build the schema.
			if err := seed.AutoMigrate(conn); err != nil {
				return err
			}
		}

		return seed.EnsureDefaultBusinessTypes(conn)
	}),
)
