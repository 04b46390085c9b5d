package provider

import (
	"context"

	"github.com/shopspring/decimal"
	jurisdictiondomain "github.com/smallbiznis/taxengine/internal/jurisdiction/domain"
	taxdomain "github.com/smallbiznis/taxengine/internal/tax/domain"
	"github.com/smallbiznis/taxengine/pkg/money"
	"go.uber.org/zap"
)

// JurisdictionFinder resolves the effective jurisdiction of a destination.
type JurisdictionFinder interface {
	FindJurisdiction(ctx context.Context, storeCode string, address taxdomain.Address) (*jurisdictiondomain.TaxJurisdiction, error)
}

// RateProvider taxes items with the configured jurisdiction rates of the destination.
// It keeps no remote state, so commit and delete have nothing to do.
type RateProvider struct {
	log           *zap.Logger
	jurisdictions JurisdictionFinder
}

func NewRateProvider(log *zap.Logger, jurisdictions JurisdictionFinder) *RateProvider {
	return &RateProvider{
		log:           log.Named("tax.provider.rates"),
		jurisdictions: jurisdictions,
	}
}

func (p *RateProvider) Name() string { return NameJurisdictionRates }

func (p *RateProvider) Calculate(ctx context.Context, container *taxdomain.TaxableItemContainer) (*taxdomain.TaxDocument, error) {
	if container == nil {
		return nil, taxdomain.ErrNilContainer
	}

	j, err := p.jurisdictions.FindJurisdiction(ctx, container.StoreCode, container.Destination)
	if err != nil {
		return nil, err
	}

	items := make([]taxdomain.TaxedItem, len(container.Items))
	for i, item := range container.Items {
		items[i] = p.taxItem(j, container.Currency, item)
	}

	return newDocument(p.Name(), container, items, j.IsInclusive()), nil
}

func (p *RateProvider) taxItem(j *jurisdictiondomain.TaxJurisdiction, currency string, item taxdomain.TaxableItem) taxdomain.TaxedItem {
	if !item.TaxCodeActive {
		return untaxed(p.Name(), item)
	}
	rates := jurisdictiondomain.ResolveRates(j, item.TaxCode)
	if len(rates) == 0 {
		return untaxed(p.Name(), item)
	}

	amount := item.TaxableAmount()
	if amount.IsNegative() {
		amount = decimal.Zero
	}

	combined := decimal.Zero
	for _, rate := range rates {
		combined = combined.Add(rate.Rate)
	}
	inclusive := j.IsInclusive()

	out := taxdomain.TaxedItem{
		TaxableItem: item,
		TaxInPrice:  inclusive,
		TotalTax:    decimal.Zero,
		Records:     make([]taxdomain.TaxRecord, 0, len(rates)),
	}
	for _, rate := range rates {
		var value decimal.Decimal
		if inclusive {
			value = amount.Mul(rate.Rate).Div(decimal.NewFromInt(1).Add(combined))
		} else {
			value = amount.Mul(rate.Rate)
		}
		value = money.Round(value, currency)

		out.TotalTax = out.TotalTax.Add(value)
		out.Records = append(out.Records, taxdomain.TaxRecord{
			TaxName:      rate.Category,
			TaxCode:      item.TaxCode,
			Jurisdiction: j.RegionCode,
			Region:       rate.Region,
			TaxRate:      rate.Rate,
			TaxProvider:  p.Name(),
			TaxValue:     value,
		})
	}

	out.PriceBeforeTax = amount
	if inclusive {
		out.PriceBeforeTax = amount.Sub(out.TotalTax)
	}
	return out
}

func (p *RateProvider) CommitDocument(_ context.Context, doc *taxdomain.TaxDocument, _ taxdomain.TaxOperationContext) error {
	if doc != nil {
		p.log.Debug("commit", zap.String("document_id", doc.DocumentID))
	}
	return nil
}

func (p *RateProvider) DeleteDocument(_ context.Context, documentID string, _ taxdomain.TaxOperationContext) error {
	p.log.Debug("delete", zap.String("document_id", documentID))
	return nil
}
