package service

import (
	"context"

	"github.com/shopspring/decimal"
	catalogdomain "github.com/smallbiznis/taxengine/internal/catalog/domain"
	"github.com/smallbiznis/taxengine/internal/catalog/memory"
	"github.com/smallbiznis/taxengine/internal/config"
	jurisdictiondomain "github.com/smallbiznis/taxengine/internal/jurisdiction/domain"
	storeservice "github.com/smallbiznis/taxengine/internal/store/service"
	taxdomain "github.com/smallbiznis/taxengine/internal/tax/domain"
	"github.com/smallbiznis/taxengine/internal/tax/provider"
	"go.uber.org/zap"
)

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func price(v string) *decimal.Decimal {
	p := d(v)
	return &p
}

type lineItem struct {
	guid         string
	sku          string
	qty          int
	taxCode      string
	discountable bool
}

func (l lineItem) GUID() string       { return l.guid }
func (l lineItem) SkuCode() string    { return l.sku }
func (l lineItem) Quantity() int      { return l.qty }
func (l lineItem) TaxCode() string    { return l.taxCode }
func (l lineItem) Discountable() bool { return l.discountable }

func item(guid, sku, amount string) taxdomain.PricedItem {
	return taxdomain.PricedItem{
		Item:  lineItem{guid: guid, sku: sku, qty: 1, discountable: true},
		Price: price(amount),
	}
}

func testCatalog() *memory.Catalog {
	apparel := catalogdomain.ProductType{Name: "apparel", TaxCode: "GENERAL"}
	digital := catalogdomain.ProductType{Name: "digital", TaxCode: "DIGITAL"}
	return memory.NewCatalog(
		catalogdomain.Sku{Code: "TSHIRT", DisplayName: "T-Shirt", Shippable: true, Product: catalogdomain.Product{Code: "tee", Type: apparel}},
		catalogdomain.Sku{Code: "HOODIE", DisplayName: "Hoodie", Shippable: true, Product: catalogdomain.Product{Code: "hoodie", Type: apparel}},
		catalogdomain.Sku{Code: "EBOOK", DisplayName: "E-Book", Shippable: false, Product: catalogdomain.Product{Code: "ebook", Type: digital}},
	)
}

func testStores() *config.TaxConfigHolder {
	return config.NewStaticTaxConfigHolder(config.TaxConfig{
		Stores: []config.StoreConfig{{
			Code:           "web",
			Currency:       "USD",
			DefaultLocale:  "en_US",
			ActiveTaxCodes: []string{"GENERAL", "SHIPPING"},
			Warehouse:      config.AddressConfig{City: "Dallas", SubCountry: "TX", Country: "US"},
		}, {
			Code:           "jp",
			Currency:       "JPY",
			DefaultLocale:  "ja_JP",
			ActiveTaxCodes: []string{"GENERAL", "SHIPPING"},
		}},
	})
}

// texas charges STATE 6% on goods and shipping plus CITY 2% on goods.
func texas() *jurisdictiondomain.TaxJurisdiction {
	return &jurisdictiondomain.TaxJurisdiction{
		RegionCode:             "US",
		Name:                   "United States",
		PriceCalculationMethod: jurisdictiondomain.PriceCalculationExclusive,
		Categories: []jurisdictiondomain.TaxCategory{
			{
				Name:        "STATE",
				DisplayName: "State Tax",
				Regions: []jurisdictiondomain.TaxRegion{{RegionName: "TX", Values: []jurisdictiondomain.TaxValue{
					{TaxCode: "GENERAL", Percent: d("6")},
					{TaxCode: "SHIPPING", Percent: d("6")},
				}}},
			},
			{
				Name:        "CITY",
				DisplayName: "City Tax",
				Regions: []jurisdictiondomain.TaxRegion{{RegionName: "Austin", Values: []jurisdictiondomain.TaxValue{
					{TaxCode: "GENERAL", Percent: d("2")},
				}}},
			},
		},
	}
}

type fixedJurisdictions struct {
	j *jurisdictiondomain.TaxJurisdiction
}

func (f fixedJurisdictions) FindJurisdiction(context.Context, string, taxdomain.Address) (*jurisdictiondomain.TaxJurisdiction, error) {
	return f.j, nil
}

func (f fixedJurisdictions) Invalidate(string) {}

// newTestService wires the real adapter and rate provider; summarize resolves
// categories through lookup.
func newTestService(lookup *jurisdictiondomain.TaxJurisdiction) taxdomain.CalculationService {
	log := zap.NewNop()
	catalog := testCatalog()
	return NewService(Params{
		Log:           log,
		Manager:       provider.NewRateProvider(log, fixedJurisdictions{j: texas()}),
		Catalog:       catalog,
		Stores:        storeservice.NewService(storeservice.Params{Log: log, Config: testStores()}),
		Jurisdictions: fixedJurisdictions{j: lookup},
	})
}
