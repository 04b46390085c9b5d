package service

import (
	"context"
	"strings"

	"github.com/smallbiznis/taxengine/internal/config"
	storedomain "github.com/smallbiznis/taxengine/internal/store/domain"
	taxdomain "github.com/smallbiznis/taxengine/internal/tax/domain"
	"github.com/smallbiznis/taxengine/pkg/money"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log    *zap.Logger
	Config *config.TaxConfigHolder
}

type Service struct {
	log    *zap.Logger
	config *config.TaxConfigHolder
}

func NewService(p Params) storedomain.Service {
	return &Service{
		log:    p.Log.Named("store.service"),
		config: p.Config,
	}
}

// GetSettings reads the live config on every call so reloads apply without restart.
func (s *Service) GetSettings(_ context.Context, storeCode string) (*storedomain.StoreSettings, error) {
	storeCode = strings.TrimSpace(storeCode)
	if storeCode == "" {
		return nil, storedomain.ErrInvalidStoreCode
	}

	cfg, ok := s.config.Store(storeCode)
	if !ok {
		s.log.Debug("store not configured", zap.String("store_code", storeCode))
		return nil, storedomain.ErrStoreNotFound
	}

	codes := make([]string, 0, len(cfg.ActiveTaxCodes))
	for _, code := range cfg.ActiveTaxCodes {
		if trimmed := strings.ToUpper(strings.TrimSpace(code)); trimmed != "" {
			codes = append(codes, trimmed)
		}
	}

	return &storedomain.StoreSettings{
		Code:           cfg.Code,
		Currency:       money.NormalizeCurrency(cfg.Currency),
		DefaultLocale:  cfg.DefaultLocale,
		ActiveTaxCodes: codes,
		WarehouseAddress: taxdomain.Address{
			Street1:         cfg.Warehouse.Street1,
			Street2:         cfg.Warehouse.Street2,
			City:            cfg.Warehouse.City,
			SubCountry:      cfg.Warehouse.SubCountry,
			ZipOrPostalCode: cfg.Warehouse.ZipOrPostalCode,
			Country:         cfg.Warehouse.Country,
		}.Normalized(),
		Jurisdictions: cfg.Jurisdictions,
	}, nil
}
