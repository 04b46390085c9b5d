package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	catalogdomain "github.com/smallbiznis/taxengine/internal/catalog/domain"
	storedomain "github.com/smallbiznis/taxengine/internal/store/domain"
	taxdomain "github.com/smallbiznis/taxengine/internal/tax/domain"
	"github.com/smallbiznis/taxengine/pkg/money"
)

// AdaptRequest is everything needed to build a provider container.
type AdaptRequest struct {
	Settings     *storedomain.StoreSettings
	Destination  taxdomain.Address
	Origin       taxdomain.Address
	Items        []taxdomain.PricedItem
	ShippingCost money.Money
	// Discounts is the apportioned pre-tax discount keyed by line item GUID.
	Discounts map[string]decimal.Decimal
	Operation taxdomain.TaxOperationContext
}

// ContainerAdapter converts priced line items into a TaxableItemContainer.
type ContainerAdapter struct {
	catalog catalogdomain.Catalog
}

func NewContainerAdapter(catalog catalogdomain.Catalog) *ContainerAdapter {
	return &ContainerAdapter{catalog: catalog}
}

// Adapt flattens bundles, resolves tax codes through the catalog and appends a
// shipping line when any SKU ships physically.
func (a *ContainerAdapter) Adapt(ctx context.Context, req AdaptRequest) (*taxdomain.TaxableItemContainer, error) {
	if req.Settings == nil {
		return nil, taxdomain.ErrStoreNotFound
	}
	currency := money.NormalizeCurrency(req.ShippingCost.Currency)
	if currency == "" {
		currency = req.Settings.Currency
	}

	leaves := taxdomain.Leaves(req.Items)
	items := make([]taxdomain.TaxableItem, 0, len(leaves)+1)
	shippable := false

	for _, leaf := range leaves {
		if leaf.Item == nil {
			continue
		}
		sku, err := a.catalog.FindSku(ctx, leaf.Item.SkuCode())
		if err != nil {
			return nil, fmt.Errorf("resolve sku %s: %w", leaf.Item.SkuCode(), err)
		}
		if sku == nil {
			return nil, fmt.Errorf("%w: %s", taxdomain.ErrUnknownSku, leaf.Item.SkuCode())
		}
		shippable = shippable || sku.Shippable

		taxCode := strings.TrimSpace(leaf.Item.TaxCode())
		if taxCode == "" {
			taxCode = sku.EffectiveTaxCode()
		}

		price := decimal.Zero
		if leaf.Price != nil {
			price = *leaf.Price
		}
		discount, ok := req.Discounts[leaf.Item.GUID()]
		if !ok {
			discount = decimal.Zero
		}

		items = append(items, taxdomain.TaxableItem{
			GUID:            leaf.Item.GUID(),
			ItemCode:        sku.Code,
			ItemDescription: sku.DisplayName,
			TaxCode:         taxCode,
			TaxCodeActive:   req.Settings.IsTaxCodeActive(taxCode),
			Quantity:        leaf.Item.Quantity(),
			Price:           price,
			Discount:        discount,
			Currency:        currency,
		})
	}

	if shippable {
		items = append(items, taxdomain.TaxableItem{
			GUID:            req.Operation.ShippingItemReferenceID,
			ItemCode:        taxdomain.ItemCodeShipping,
			ItemDescription: taxdomain.ShippingDescription,
			TaxCode:         taxdomain.TaxCodeShipping,
			TaxCodeActive:   req.Settings.IsTaxCodeActive(taxdomain.TaxCodeShipping),
			Quantity:        1,
			Price:           req.ShippingCost.Amount,
			Discount:        decimal.Zero,
			Currency:        currency,
		})
	}

	origin := req.Origin
	if origin.IsZero() {
		origin = req.Settings.WarehouseAddress
	}

	operation := req.Operation
	operation.StoreCode = req.Settings.Code
	operation.Currency = currency

	return &taxdomain.TaxableItemContainer{
		Items:       items,
		Destination: req.Destination.Normalized(),
		Origin:      origin.Normalized(),
		StoreCode:   req.Settings.Code,
		Currency:    currency,
		Operation:   operation,
	}, nil
}
