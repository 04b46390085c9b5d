package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/smallbiznis/taxengine/internal/cache"
	"github.com/smallbiznis/taxengine/internal/config"
	jurisdictiondomain "github.com/smallbiznis/taxengine/internal/jurisdiction/domain"
	storedomain "github.com/smallbiznis/taxengine/internal/store/domain"
	taxdomain "github.com/smallbiznis/taxengine/internal/tax/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const defaultTTL = 5 * time.Minute

type Params struct {
	fx.In

	Log        *zap.Logger
	Repository jurisdictiondomain.Repository
	Stores     storedomain.Service
	Config     config.Config           `optional:"true"`
	Holder     *config.TaxConfigHolder `optional:"true"`
}

type Service struct {
	log    *zap.Logger
	repo   jurisdictiondomain.Repository
	stores storedomain.Service
	holder *config.TaxConfigHolder
	cache  cache.Cache[string, []jurisdictiondomain.TaxJurisdiction]
	ttl    time.Duration
}

func NewService(p Params) jurisdictiondomain.Service {
	ttl := p.Config.Tax.JurisdictionTTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Service{
		log:    p.Log.Named("jurisdiction.service"),
		repo:   p.Repository,
		stores: p.Stores,
		holder: p.Holder,
		cache:  cache.NewTTLCache[string, []jurisdictiondomain.TaxJurisdiction](),
		ttl:    ttl,
	}
}

func (s *Service) FindJurisdiction(ctx context.Context, storeCode string, address taxdomain.Address) (*jurisdictiondomain.TaxJurisdiction, error) {
	address = address.Normalized()
	if address.Country == "" {
		return nil, nil
	}

	jurisdictions, err := s.load(ctx, storeCode)
	if err != nil {
		return nil, err
	}

	for _, j := range jurisdictions {
		if strings.EqualFold(j.RegionCode, address.Country) {
			return jurisdictiondomain.Effective(j, address), nil
		}
	}

	s.log.Debug("no jurisdiction matched",
		zap.String("store_code", storeCode),
		zap.String("country", address.Country),
	)
	return nil, nil
}

func (s *Service) Invalidate(storeCode string) {
	s.cache.Delete(s.key(storeCode))
}

// key scopes the store's entry to the tax config generation, so a reload
// that changes the store's regions takes effect immediately.
func (s *Service) key(storeCode string) string {
	return cache.Key(storeCode, strconv.FormatUint(s.holder.Generation(), 10))
}

func (s *Service) load(ctx context.Context, storeCode string) ([]jurisdictiondomain.TaxJurisdiction, error) {
	key := s.key(storeCode)
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	settings, err := s.stores.GetSettings(ctx, storeCode)
	if err != nil {
		return nil, err
	}

	jurisdictions, err := s.repo.ListByRegionCodes(ctx, settings.Jurisdictions)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, jurisdictions, s.ttl)
	s.log.Debug("jurisdictions loaded",
		zap.String("store_code", storeCode),
		zap.Int("count", len(jurisdictions)),
	)
	return jurisdictions, nil
}
