package apportion

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	catalogdomain "github.com/smallbiznis/taxengine/internal/catalog/domain"
	taxdomain "github.com/smallbiznis/taxengine/internal/tax/domain"
	"github.com/smallbiznis/taxengine/pkg/money"
)

// DiscountApportioningCalculator splits a pre-tax discount over the discountable leaves
// of a cart, shipment or return.
type DiscountApportioningCalculator struct {
	catalog    catalogdomain.Catalog
	calculator *Calculator
}

func NewDiscountApportioningCalculator(catalog catalogdomain.Catalog, opts ...Option) *DiscountApportioningCalculator {
	return &DiscountApportioningCalculator{
		catalog:    catalog,
		calculator: NewDiscountCalculator(opts...),
	}
}

// InCurrency returns a copy whose shares are rounded to the minor unit of currency.
func (c *DiscountApportioningCalculator) InCurrency(currency string) *DiscountApportioningCalculator {
	scaled := *c.calculator
	scaled.scale = money.Scale(currency)
	return &DiscountApportioningCalculator{catalog: c.catalog, calculator: &scaled}
}

// Candidates returns the priced, discountable leaves in split order.
func Candidates(items []taxdomain.PricedItem) []DiscountableItem {
	leaves := lo.Filter(taxdomain.Leaves(items), func(item taxdomain.PricedItem, _ int) bool {
		return item.Item != nil && item.Price != nil && item.Item.Discountable()
	})
	out := lo.Map(leaves, func(item taxdomain.PricedItem, _ int) DiscountableItem {
		return DiscountableItem{
			GUID:    item.Item.GUID(),
			SkuCode: item.Item.SkuCode(),
			Price:   *item.Price,
		}
	})
	SortDiscountable(out)
	return out
}

// ApportionDiscount returns the share of discount per leaf GUID. Leaves that are
// not candidates are absent from the result.
func (c *DiscountApportioningCalculator) ApportionDiscount(ctx context.Context, discount decimal.Decimal, items []taxdomain.PricedItem) (map[string]decimal.Decimal, error) {
	candidates := Candidates(items)

	if c.catalog != nil {
		for _, code := range lo.Uniq(lo.Map(candidates, func(item DiscountableItem, _ int) string { return item.SkuCode })) {
			sku, err := c.catalog.FindSku(ctx, code)
			if err != nil {
				return nil, fmt.Errorf("resolve sku %s: %w", code, err)
			}
			if sku == nil {
				return nil, fmt.Errorf("%w: %s", taxdomain.ErrUnknownSku, code)
			}
		}
	}

	if len(candidates) == 0 {
		if discount.IsPositive() {
			return nil, fmt.Errorf("%w: %s > 0", ErrAmountExceedsTotal, discount)
		}
		return map[string]decimal.Decimal{}, nil
	}

	return c.calculator.Calculate(discount, toPortions(candidates))
}
