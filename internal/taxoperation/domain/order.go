package domain

import (
	"github.com/shopspring/decimal"
	taxdomain "github.com/smallbiznis/taxengine/internal/tax/domain"
)

// OrderRef is the order-level context carried by shipments and returns.
type OrderRef struct {
	Number                 string
	StoreCode              string
	Currency               string
	CustomerCode           string
	CustomerBusinessNumber string
	TaxExemption           *taxdomain.TaxExemption
}

type Order struct {
	OrderRef
	Shipments []*Shipment
}

func (o *Order) Shipment(number string) *Shipment {
	if o == nil {
		return nil
	}
	for _, s := range o.Shipments {
		if s != nil && s.Number == number {
			return s
		}
	}
	return nil
}

// OrderSku is an ordered SKU line. Bundles list their constituents in Components.
type OrderSku struct {
	ID             string
	Sku            string
	Qty            int
	UnitPrice      decimal.Decimal
	ItemTaxCode    string
	IsDiscountable bool
	Components     []OrderSku
}

func (s OrderSku) GUID() string       { return s.ID }
func (s OrderSku) SkuCode() string    { return s.Sku }
func (s OrderSku) Quantity() int      { return s.Qty }
func (s OrderSku) TaxCode() string    { return s.ItemTaxCode }
func (s OrderSku) Discountable() bool { return s.IsDiscountable }

// ExtendedPrice is unit price times quantity.
func (s OrderSku) ExtendedPrice() decimal.Decimal {
	return s.UnitPrice.Mul(decimal.NewFromInt(int64(s.Qty)))
}

func (s OrderSku) Priced() taxdomain.PricedItem {
	if len(s.Components) == 0 {
		price := s.ExtendedPrice()
		return taxdomain.PricedItem{Item: s, Price: &price}
	}
	children := make([]taxdomain.PricedItem, 0, len(s.Components))
	for _, c := range s.Components {
		children = append(children, c.Priced())
	}
	return taxdomain.PricedItem{Item: s, Children: children}
}
