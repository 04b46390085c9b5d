package tax

import (
	"github.com/redis/go-redis/v9"
	"github.com/smallbiznis/taxengine/internal/config"
	jurisdictiondomain "github.com/smallbiznis/taxengine/internal/jurisdiction/domain"
	taxcache "github.com/smallbiznis/taxengine/internal/tax/cache"
	taxdomain "github.com/smallbiznis/taxengine/internal/tax/domain"
	"github.com/smallbiznis/taxengine/internal/tax/provider"
	"github.com/smallbiznis/taxengine/internal/tax/service"
	"github.com/smallbiznis/taxengine/pkg/telemetry"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("tax.service",
	fx.Provide(NewTaxManager),
	fx.Provide(service.NewService),
)

type managerParams struct {
	fx.In

	Log           *zap.Logger
	Config        config.Config
	Holder        *config.TaxConfigHolder `optional:"true"`
	Jurisdictions jurisdictiondomain.Service
	Redis         redis.UniversalClient `optional:"true"`
	Metrics       *telemetry.Metrics    `optional:"true"`
}

// NewTaxManager selects the configured provider and puts the document cache in front of it.
func NewTaxManager(p managerParams) taxdomain.TaxManager {
	var manager taxdomain.TaxManager
	switch p.Config.Tax.Provider {
	case config.ProviderNoTax:
		manager = provider.NewNoTaxProvider()
	default:
		manager = provider.NewRateProvider(p.Log, p.Jurisdictions)
	}

	var store taxcache.DocumentStore
	switch p.Config.Tax.CacheBackend {
	case config.CacheBackendNone:
		p.Log.Info("tax document cache disabled", zap.String("provider", manager.Name()))
		return manager
	case config.CacheBackendRedis:
		if p.Redis == nil {
			p.Log.Warn("redis client unavailable, falling back to memory tax cache")
			store = taxcache.NewMemoryStore()
		} else {
			store = taxcache.NewRedisStore(p.Redis)
		}
	default:
		store = taxcache.NewMemoryStore()
	}

	return taxcache.NewCachingTaxManager(manager, store, p.Log,
		taxcache.WithTTL(p.Config.Tax.CacheTTL),
		taxcache.WithMetrics(p.Metrics),
		taxcache.WithGeneration(p.Holder.Generation),
	)
}
