package domain

import (
	"context"
	"errors"
	"strings"

	taxdomain "github.com/smallbiznis/taxengine/internal/tax/domain"
)

var ErrStoreNotFound = taxdomain.ErrStoreNotFound

// StoreSettings is the tax-relevant configuration of one store.
type StoreSettings struct {
	Code             string
	Currency         string
	DefaultLocale    string
	ActiveTaxCodes   []string
	WarehouseAddress taxdomain.Address
	Jurisdictions    []string
}

// IsTaxCodeActive reports whether code is enabled for the store. Comparison ignores case.
func (s StoreSettings) IsTaxCodeActive(code string) bool {
	code = strings.TrimSpace(code)
	if code == "" {
		return false
	}
	for _, active := range s.ActiveTaxCodes {
		if strings.EqualFold(strings.TrimSpace(active), code) {
			return true
		}
	}
	return false
}

// CollectsIn reports whether the store collects tax for a region code.
func (s StoreSettings) CollectsIn(regionCode string) bool {
	if len(s.Jurisdictions) == 0 {
		return true
	}
	for _, code := range s.Jurisdictions {
		if strings.EqualFold(strings.TrimSpace(code), strings.TrimSpace(regionCode)) {
			return true
		}
	}
	return false
}

type Service interface {
	GetSettings(ctx context.Context, storeCode string) (*StoreSettings, error)
}

// ErrInvalidStoreCode is returned for a blank store code.
var ErrInvalidStoreCode = errors.New("invalid_store_code")
