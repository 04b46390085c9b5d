package main

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/taxengine/internal/catalog"
	"github.com/smallbiznis/taxengine/internal/clock"
	"github.com/smallbiznis/taxengine/internal/config"
	"github.com/smallbiznis/taxengine/internal/jurisdiction"
	"github.com/smallbiznis/taxengine/internal/kv"
	"github.com/smallbiznis/taxengine/internal/lock"
	"github.com/smallbiznis/taxengine/internal/migration"
	"github.com/smallbiznis/taxengine/internal/observability"
	"github.com/smallbiznis/taxengine/internal/store"
	"github.com/smallbiznis/taxengine/internal/tax"
	"github.com/smallbiznis/taxengine/internal/taxjournal"
	"github.com/smallbiznis/taxengine/internal/taxoperation"
	"github.com/smallbiznis/taxengine/pkg/db"
	"github.com/smallbiznis/taxengine/pkg/telemetry"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		telemetry.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		clock.Module,
		coordination(cfg),

		// Functional Domains
		catalog.Module,
		store.Module,
		jurisdiction.Module,
		tax.Module,
		taxjournal.Module,
		taxoperation.Module,

		fx.Invoke(func(lc fx.Lifecycle, cfg config.Config, reg *prometheus.Registry, log *zap.Logger) {
			telemetry.RegisterServer(lc, cfg.MetricsAddr, reg, log)
		}),
	)
	app.Run()
}

// coordination shares locks and cached documents through redis when the
// redis cache backend is selected, and keeps them in-process otherwise.
func coordination(cfg config.Config) fx.Option {
	if cfg.Tax.CacheBackend == config.CacheBackendRedis {
		return kv.Module
	}
	return fx.Provide(func() lock.Locker { return lock.NewLocalLocker() })
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	node, err := snowflake.NewNode(cfg.SnowflakeNode)
	if err != nil {
		return nil, fmt.Errorf("snowflake node %d: %w", cfg.SnowflakeNode, err)
	}
	return node, nil
}
