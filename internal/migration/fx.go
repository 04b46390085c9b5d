package migration

import (
	"github.com/smallbiznis/taxengine/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
		if !cfg.MigrateOnStart {
			log.Info("skipping schema migrations")
			return nil
		}
		if err := Migrate(conn, cfg.DBType); err != nil {
			return err
		}
		log.Info("schema migrations applied", zap.String("dialect", cfg.DBType))
		return nil
	}),
)
