package domain

import (
	"github.com/shopspring/decimal"
	taxdomain "github.com/smallbiznis/taxengine/internal/tax/domain"
)

type ReturnStatus string

const (
	ReturnStatusRequested ReturnStatus = "REQUESTED"
	ReturnStatusReceived  ReturnStatus = "RECEIVED"
	ReturnStatusCancelled ReturnStatus = "CANCELLED"
)

// ReturnSku is a returned quantity of an order SKU.
type ReturnSku struct {
	ID             string
	OrderSkuID     string
	Sku            string
	Qty            int
	UnitPrice      decimal.Decimal
	ItemTaxCode    string
	IsDiscountable bool
}

func (s ReturnSku) GUID() string       { return s.ID }
func (s ReturnSku) SkuCode() string    { return s.Sku }
func (s ReturnSku) Quantity() int      { return s.Qty }
func (s ReturnSku) TaxCode() string    { return s.ItemTaxCode }
func (s ReturnSku) Discountable() bool { return s.IsDiscountable }

func (s ReturnSku) Priced() taxdomain.PricedItem {
	price := s.UnitPrice.Mul(decimal.NewFromInt(int64(s.Qty)))
	return taxdomain.PricedItem{Item: s, Price: &price}
}

// Return is a return merchandise authorization against an order.
type Return struct {
	RMANumber    string
	Order        OrderRef
	Status       ReturnStatus
	Address      taxdomain.Address
	Skus         []ReturnSku
	ShippingCost decimal.Decimal
	Discount     decimal.Decimal
	DocumentID   string
}

func (r *Return) IsCancelled() bool {
	return r != nil && r.Status == ReturnStatusCancelled
}

func (r *Return) Subject() Subject {
	items := make([]taxdomain.PricedItem, 0, len(r.Skus))
	for _, sku := range r.Skus {
		items = append(items, sku.Priced())
	}
	return Subject{
		Number:       r.RMANumber,
		Order:        r.Order,
		Destination:  r.Address,
		Items:        items,
		ShippingCost: r.ShippingCost,
		Discount:     r.Discount,
		DocumentID:   r.DocumentID,
	}
}

type ReturnChange struct {
	Kind   ChangeKind
	Return *Return
}
