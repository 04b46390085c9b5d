package apportion

import (
	"sort"

	"github.com/shopspring/decimal"
)

// DiscountableItem is a leaf line taking part in a discount split.
type DiscountableItem struct {
	GUID    string
	SkuCode string
	Price   decimal.Decimal
}

// SortDiscountable orders by price descending, then SKU code ascending, then GUID.
func SortDiscountable(items []DiscountableItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if cmp := items[i].Price.Cmp(items[j].Price); cmp != 0 {
			return cmp > 0
		}
		if items[i].SkuCode != items[j].SkuCode {
			return items[i].SkuCode < items[j].SkuCode
		}
		return items[i].GUID < items[j].GUID
	})
}

func toPortions(items []DiscountableItem) []Portion {
	portions := make([]Portion, len(items))
	for i, item := range items {
		portions[i] = Portion{ID: item.GUID, Amount: item.Price}
	}
	return portions
}
