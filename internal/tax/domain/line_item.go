package domain

import "github.com/shopspring/decimal"

// LineItem is the capability shared by cart items, order skus and return skus.
type LineItem interface {
	GUID() string
	SkuCode() string
	Quantity() int
	// TaxCode is the tax code captured on the item itself. Empty means resolve from the catalog.
	TaxCode() string
	Discountable() bool
}

// PricedItem pairs a line item with its extended price (unit price times quantity).
// Bundles carry their constituents in Children and are never priced or discounted directly.
type PricedItem struct {
	Item     LineItem
	Price    *decimal.Decimal
	Children []PricedItem
}

func (p PricedItem) IsBundle() bool {
	return len(p.Children) > 0
}

// Leaves flattens bundles depth first, keeping constituent order.
func Leaves(items []PricedItem) []PricedItem {
	out := make([]PricedItem, 0, len(items))
	for _, item := range items {
		if item.IsBundle() {
			out = append(out, Leaves(item.Children)...)
			continue
		}
		out = append(out, item)
	}
	return out
}
