package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/taxengine/internal/apportion"
	catalogdomain "github.com/smallbiznis/taxengine/internal/catalog/domain"
	jurisdictiondomain "github.com/smallbiznis/taxengine/internal/jurisdiction/domain"
	obslogger "github.com/smallbiznis/taxengine/internal/observability/logger"
	"github.com/smallbiznis/taxengine/internal/observability/metrics"
	storedomain "github.com/smallbiznis/taxengine/internal/store/domain"
	taxdomain "github.com/smallbiznis/taxengine/internal/tax/domain"
	"github.com/smallbiznis/taxengine/pkg/money"
	"github.com/smallbiznis/taxengine/pkg/telemetry/correlation"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log           *zap.Logger
	Manager       taxdomain.TaxManager
	Catalog       catalogdomain.Catalog
	Stores        storedomain.Service
	Jurisdictions jurisdictiondomain.Service
	Metrics       *metrics.Metrics `optional:"true"`
}

type Service struct {
	log           *zap.Logger
	manager       taxdomain.TaxManager
	stores        storedomain.Service
	jurisdictions jurisdictiondomain.Service
	apportioner   *apportion.DiscountApportioningCalculator
	adapter       *ContainerAdapter
	metrics       *metrics.Metrics
	tracer        trace.Tracer
}

func NewService(p Params) taxdomain.CalculationService {
	return &Service{
		log:           p.Log.Named("tax.calculation"),
		manager:       p.Manager,
		stores:        p.Stores,
		jurisdictions: p.Jurisdictions,
		apportioner:   apportion.NewDiscountApportioningCalculator(p.Catalog),
		adapter:       NewContainerAdapter(p.Catalog),
		metrics:       p.Metrics,
		tracer:        otel.Tracer("github.com/smallbiznis/taxengine/internal/tax"),
	}
}

func (s *Service) CalculateTaxes(ctx context.Context, req taxdomain.CalculationRequest) (*taxdomain.TaxCalculationResult, error) {
	ctx, _ = correlation.Ensure(ctx)
	ctx, span := s.tracer.Start(ctx, "tax.calculate", trace.WithAttributes(
		attribute.String("store_code", req.StoreCode),
		attribute.String("transaction_type", string(req.Operation.TransactionType)),
	))
	defer span.End()

	result, err := s.calculate(ctx, req)
	s.metrics.RecordCalculation(ctx, s.manager.Name(), string(req.Operation.TransactionType), err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return result, nil
}

func (s *Service) calculate(ctx context.Context, req taxdomain.CalculationRequest) (*taxdomain.TaxCalculationResult, error) {
	currency, err := validate(req)
	if err != nil {
		return nil, err
	}

	settings, err := s.stores.GetSettings(ctx, req.StoreCode)
	if err != nil {
		return nil, err
	}

	discounts, err := s.apportioner.InCurrency(currency).ApportionDiscount(ctx, req.PreTaxDiscount.Amount, req.Items)
	s.metrics.RecordApportionment(ctx, err)
	if err != nil {
		return nil, fmt.Errorf("apportion discount: %w", err)
	}

	operation := req.Operation
	if operation.JournalType == "" {
		operation.JournalType = taxdomain.JournalTypePurchase
	}
	if operation.TransactionType == "" {
		operation.TransactionType = taxdomain.TransactionTypeCart
	}
	if strings.TrimSpace(operation.DocumentID) == "" {
		operation.DocumentID = uuid.NewString()
	}

	container, err := s.adapter.Adapt(ctx, AdaptRequest{
		Settings:     settings,
		Destination:  req.Destination,
		Origin:       req.Origin,
		Items:        req.Items,
		ShippingCost: money.Money{Amount: req.ShippingCost.Amount, Currency: currency},
		Discounts:    discounts,
		Operation:    operation,
	})
	if err != nil {
		return nil, err
	}

	doc, err := s.manager.Calculate(ctx, container)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("provider %s returned no document", s.manager.Name())
	}

	j, err := s.jurisdictions.FindJurisdiction(ctx, settings.Code, container.Destination)
	if err != nil {
		return nil, err
	}

	result := s.summarize(doc, j, currency)
	log := obslogger.WithDocument(obslogger.WithContext(ctx, s.log), doc.DocumentID, settings.Code)
	log.Debug("taxes calculated", zap.String("total_taxes", result.TotalTaxes.String()))
	return result, nil
}

func validate(req taxdomain.CalculationRequest) (string, error) {
	if req.ShippingCost == nil {
		return "", fmt.Errorf("%w: %w", taxdomain.ErrInvalidArgument, taxdomain.ErrMissingShippingCost)
	}
	if req.PreTaxDiscount == nil {
		return "", fmt.Errorf("%w: %w", taxdomain.ErrInvalidArgument, taxdomain.ErrMissingDiscount)
	}
	if req.Items == nil {
		return "", fmt.Errorf("%w: %w", taxdomain.ErrInvalidArgument, taxdomain.ErrMissingItems)
	}
	currency := money.NormalizeCurrency(req.Currency)
	if currency == "" {
		return "", fmt.Errorf("%w: %w", taxdomain.ErrInvalidArgument, taxdomain.ErrMissingCurrency)
	}
	for _, m := range []*money.Money{req.ShippingCost, req.PreTaxDiscount} {
		if m.Currency != "" && money.NormalizeCurrency(m.Currency) != currency {
			return "", fmt.Errorf("%w: %w: %s vs %s", taxdomain.ErrInvalidArgument, money.ErrCurrencyMismatch, m.Currency, currency)
		}
	}
	return currency, nil
}

// summarize folds a document into a result. NO_TAX records are left out of every total.
func (s *Service) summarize(doc *taxdomain.TaxDocument, j *jurisdictiondomain.TaxJurisdiction, currency string) *taxdomain.TaxCalculationResult {
	result := taxdomain.NewTaxCalculationResult(currency)
	result.Document = doc
	result.TaxInclusive = doc.Container.TaxInclusive
	if j != nil {
		result.Jurisdiction = j.RegionCode
	}

	subTotal := decimal.Zero
	shippingCost := decimal.Zero
	taxInPrice := decimal.Zero
	shippingTax := decimal.Zero
	total := decimal.Zero

	for _, item := range doc.Container.Items {
		tax := decimal.Zero
		for _, record := range item.Records {
			if record.IsNoTax() {
				s.log.Debug("no-tax record skipped", zap.String("item_guid", item.TaxableItem.GUID))
				continue
			}
			tax = tax.Add(record.TaxValue)
			result.AddCategoryValue(categoryFor(j, record), record.TaxValue)
		}

		total = total.Add(tax)
		if item.TaxInPrice {
			taxInPrice = taxInPrice.Add(tax)
		}
		if item.TaxableItem.IsShipping() {
			shippingCost = shippingCost.Add(item.PriceBeforeTax)
			shippingTax = shippingTax.Add(tax)
			continue
		}
		subTotal = subTotal.Add(item.PriceBeforeTax)
		guid := item.TaxableItem.GUID
		result.ItemTaxes[guid] = result.ItemTax(guid).Add(tax)
		result.ItemPricesBeforeTax[guid] = item.PriceBeforeTax
	}

	result.BeforeTaxSubTotal = money.New(subTotal, currency)
	result.BeforeTaxShippingCost = money.New(shippingCost, currency)
	result.TaxInItemPrice = money.New(taxInPrice, currency)
	result.ShippingTax = money.New(shippingTax, currency)
	result.TotalTaxes = money.New(total, currency)
	return result
}

// categoryFor maps a record to the jurisdiction's category, or a synthetic one named after the record.
func categoryFor(j *jurisdictiondomain.TaxJurisdiction, record taxdomain.TaxRecord) taxdomain.CategoryValue {
	if category, ok := j.Category(record.TaxName); ok {
		return taxdomain.CategoryValue{Name: category.Name, DisplayName: category.DisplayName}
	}
	return taxdomain.CategoryValue{Name: record.TaxName, DisplayName: record.TaxName, Synthetic: true}
}
