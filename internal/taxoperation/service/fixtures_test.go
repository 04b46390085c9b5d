package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	catalogdomain "github.com/smallbiznis/taxengine/internal/catalog/domain"
	"github.com/smallbiznis/taxengine/internal/catalog/memory"
	"github.com/smallbiznis/taxengine/internal/clock"
	"github.com/smallbiznis/taxengine/internal/config"
	jurisdictiondomain "github.com/smallbiznis/taxengine/internal/jurisdiction/domain"
	"github.com/smallbiznis/taxengine/internal/lock"
	storeservice "github.com/smallbiznis/taxengine/internal/store/service"
	taxdomain "github.com/smallbiznis/taxengine/internal/tax/domain"
	"github.com/smallbiznis/taxengine/internal/tax/mocks"
	"github.com/smallbiznis/taxengine/internal/tax/provider"
	taxservice "github.com/smallbiznis/taxengine/internal/tax/service"
	journaldomain "github.com/smallbiznis/taxengine/internal/taxjournal/domain"
	journalrepository "github.com/smallbiznis/taxengine/internal/taxjournal/repository"
	journalservice "github.com/smallbiznis/taxengine/internal/taxjournal/service"
	opdomain "github.com/smallbiznis/taxengine/internal/taxoperation/domain"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

var testNode, _ = snowflake.NewNode(3)

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

type fixedJurisdictions struct {
	j *jurisdictiondomain.TaxJurisdiction
}

func (f fixedJurisdictions) FindJurisdiction(context.Context, string, taxdomain.Address) (*jurisdictiondomain.TaxJurisdiction, error) {
	return f.j, nil
}

func (f fixedJurisdictions) Invalidate(string) {}

// vat10 charges 10% on goods and shipping.
func vat10() *jurisdictiondomain.TaxJurisdiction {
	return &jurisdictiondomain.TaxJurisdiction{
		RegionCode:             "US",
		PriceCalculationMethod: jurisdictiondomain.PriceCalculationExclusive,
		Categories: []jurisdictiondomain.TaxCategory{{
			Name:        "SALES",
			DisplayName: "Sales Tax",
			Regions: []jurisdictiondomain.TaxRegion{{RegionName: "US", Values: []jurisdictiondomain.TaxValue{
				{TaxCode: "GENERAL", Percent: d("10")},
				{TaxCode: "SHIPPING", Percent: d("10")},
			}}},
		}},
	}
}

type fixture struct {
	db       *gorm.DB
	manager  *mocks.MockTaxManager
	journal  journaldomain.Service
	locker   *lock.LocalLocker
	shipping opdomain.TaxOperationService
	returns  opdomain.ReturnTaxOperationService
	logs     *observer.ObservedLogs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&journaldomain.TaxJournalRecord{}))

	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)
	jurisdictions := fixedJurisdictions{j: vat10()}
	rates := provider.NewRateProvider(log, jurisdictions)

	ctrl := gomock.NewController(t)
	manager := mocks.NewMockTaxManager(ctrl)
	manager.EXPECT().Name().Return(rates.Name()).AnyTimes()
	manager.EXPECT().Calculate(gomock.Any(), gomock.Any()).DoAndReturn(rates.Calculate).AnyTimes()

	catalog := memory.NewCatalog(
		catalogdomain.Sku{Code: "TSHIRT", DisplayName: "T-Shirt", Shippable: true, Product: catalogdomain.Product{Code: "tee", Type: catalogdomain.ProductType{TaxCode: "GENERAL"}}},
		catalogdomain.Sku{Code: "EBOOK", DisplayName: "E-Book", Product: catalogdomain.Product{Code: "ebook", Type: catalogdomain.ProductType{TaxCode: "GENERAL"}}},
	)
	stores := storeservice.NewService(storeservice.Params{
		Log: log,
		Config: config.NewStaticTaxConfigHolder(config.TaxConfig{Stores: []config.StoreConfig{{
			Code:           "web",
			Currency:       "USD",
			ActiveTaxCodes: []string{"GENERAL", "SHIPPING"},
		}}}),
	})
	calculator := taxservice.NewService(taxservice.Params{
		Log:           log,
		Manager:       manager,
		Catalog:       catalog,
		Stores:        stores,
		Jurisdictions: jurisdictions,
	})
	journal := journalservice.NewService(journalservice.Params{
		DB:         db,
		Log:        log,
		GenID:      testNode,
		Repository: journalrepository.NewRepository(db),
		Clock:      clock.NewFakeClock(time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)),
	})

	locker := lock.NewLocalLocker()
	params := Params{
		DB:         db,
		Log:        log,
		Calculator: calculator,
		Manager:    manager,
		Journal:    journal,
		Locker:     locker,
	}
	return &fixture{
		db:       db,
		manager:  manager,
		journal:  journal,
		locker:   locker,
		shipping: NewTaxOperationService(params),
		returns:  NewReturnTaxOperationService(params),
		logs:     logs,
	}
}

func orderRef() opdomain.OrderRef {
	return opdomain.OrderRef{Number: "ORD-1", StoreCode: "web", Currency: "USD", CustomerCode: "C-1"}
}

func newShipment(number string, qty int) *opdomain.Shipment {
	return &opdomain.Shipment{
		Number:  number,
		Order:   orderRef(),
		Type:    opdomain.ShipmentTypePhysical,
		Status:  opdomain.ShipmentStatusPending,
		Address: taxdomain.Address{City: "Austin", SubCountry: "TX", Country: "US"},
		Skus: []opdomain.OrderSku{
			{ID: number + "-l1", Sku: "TSHIRT", Qty: qty, UnitPrice: d("10.00"), IsDiscountable: true},
		},
		ShippingCost: d("5.00"),
		Discount:     decimal.Zero,
	}
}

// netTax sums every journal row of a document across entries.
func netTax(t *testing.T, journal journaldomain.Service, documentID string) decimal.Decimal {
	t.Helper()
	entries, err := journal.FindByDocumentID(context.Background(), documentID)
	require.NoError(t, err)
	total := decimal.Zero
	for i := range entries {
		total = total.Add(entries[i].NetTax())
	}
	return total
}

// commitShipment calculates and commits a shipment, expecting one provider commit.
func (f *fixture) commitShipment(t *testing.T, shipment *opdomain.Shipment) *journaldomain.JournalEntry {
	t.Helper()
	ctx := context.Background()
	f.manager.EXPECT().CommitDocument(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	result, err := f.shipping.CalculateTaxes(ctx, shipment)
	require.NoError(t, err)
	entry, err := f.shipping.CommitDocument(ctx, result.Document, shipment)
	require.NoError(t, err)
	return entry
}
